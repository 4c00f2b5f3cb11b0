package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits guidance documents into overlapping pieces for
// embedding.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of at most maxChunkSize runes.
// Oversized paragraphs are split at sentence ends. Each new chunk starts
// with the last overlap runes of the previous one.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	c := &chunkAccumulator{max: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			c.add(para, "\n\n")
			continue
		}
		for _, sentence := range splitIntoSentences(para) {
			c.add(sentence, " ")
		}
	}

	return c.finish()
}

type chunkAccumulator struct {
	max     int
	overlap int
	chunks  []string
	current strings.Builder
}

func (c *chunkAccumulator) add(piece, sep string) {
	if c.current.Len() > 0 && utf8.RuneCountInString(c.current.String())+utf8.RuneCountInString(piece)+len(sep) > c.max {
		prev := c.current.String()
		c.chunks = append(c.chunks, prev)
		c.current.Reset()

		if tail := lastNRunes(prev, c.overlap); tail != "" {
			c.current.WriteString(tail)
		}
	}

	if c.current.Len() > 0 {
		c.current.WriteString(sep)
	}
	c.current.WriteString(piece)
}

func (c *chunkAccumulator) finish() []string {
	if c.current.Len() > 0 {
		c.chunks = append(c.chunks, c.current.String())
	}
	return c.chunks
}

// splitIntoSentences keeps the terminating punctuation on each sentence.
func splitIntoSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func lastNRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
