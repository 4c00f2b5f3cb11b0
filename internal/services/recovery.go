package services

import (
	"encoding/json"
	"strings"

	"alfredoptarigan/resume-parser/internal/apperrors"
)

// RecoveryStrategy turns a raw model completion into a candidate JSON
// document. ok is false when the strategy does not apply.
type RecoveryStrategy struct {
	Name      string
	Candidate func(text string) (candidate string, ok bool)
	// AllowArray lets a top-level array through as a recovered value.
	AllowArray bool
}

const (
	StrategyDirect = "direct"
	StrategyFence  = "fence"
	StrategyObject = "object"
	StrategyArray  = "array"
)

// DefaultRecoveryStrategies is the order every call site applies.
var DefaultRecoveryStrategies = []RecoveryStrategy{
	{Name: StrategyDirect, Candidate: directCandidate},
	{Name: StrategyFence, Candidate: fencedCandidate},
	{Name: StrategyObject, Candidate: objectCandidate},
	{Name: StrategyArray, Candidate: arrayCandidate, AllowArray: true},
}

// Recover walks the strategies in order and returns the first candidate
// that decodes to a JSON object, or to an array for strategies allowing it.
// The name of the winning strategy is returned for metrics.
func Recover(text string, strategies []RecoveryStrategy) (interface{}, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", apperrors.NewMalformedResponse("model returned an empty completion", nil)
	}

	var lastErr error
	for _, s := range strategies {
		candidate, ok := s.Candidate(text)
		if !ok {
			continue
		}

		var v interface{}
		if err := json.Unmarshal([]byte(candidate), &v); err != nil {
			lastErr = err
			continue
		}

		switch v.(type) {
		case map[string]interface{}:
			return v, s.Name, nil
		case []interface{}:
			if s.AllowArray {
				return v, s.Name, nil
			}
		}
	}

	return nil, "", apperrors.NewMalformedResponse("model response is not valid JSON", lastErr).
		WithDetail("preview", preview(text, 200))
}

// RecoverObject is Recover restricted to JSON objects.
func RecoverObject(text string) (map[string]interface{}, string, error) {
	v, strategy, err := Recover(text, DefaultRecoveryStrategies)
	if err != nil {
		return nil, "", err
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, "", apperrors.NewMalformedResponse("model returned a JSON array where an object was expected", nil)
	}
	return obj, strategy, nil
}

func directCandidate(text string) (string, bool) {
	return strings.TrimSpace(text), true
}

// fencedCandidate applies only when the completion opens with ```. The
// language tag after the opening fence is dropped, as is a closing fence.
func fencedCandidate(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return "", false
	}

	body := strings.TrimPrefix(text, "```")
	if nl := strings.IndexAny(body, "\r\n"); nl >= 0 {
		tag := strings.TrimSpace(body[:nl])
		if tag == "" || isLanguageTag(tag) {
			body = body[nl+1:]
		}
	} else if tag := leadingWord(body); tag != "" && isLanguageTag(tag) {
		body = strings.TrimPrefix(body, tag)
	}

	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body), true
}

// objectCandidate is greedy: first '{' to last '}'.
func objectCandidate(text string) (string, bool) {
	return between(text, "{", "}")
}

func arrayCandidate(text string) (string, bool) {
	return between(text, "[", "]")
}

func between(text, open, close string) (string, bool) {
	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+') {
			return false
		}
	}
	return s != ""
}

func leadingWord(s string) string {
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '{' || r == '[' {
			return s[:i]
		}
	}
	return ""
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
