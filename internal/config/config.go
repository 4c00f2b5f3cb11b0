package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"alfredoptarigan/resume-parser/internal/apperrors"
)

// PlaceholderAPIKey is the value shipped in the sample config.yaml.
const PlaceholderAPIKey = "YOUR KEY HERE"

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Limits   LimitsConfig
	Storage  StorageConfig
	Guidance GuidanceConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port  string
	Env   string
	Debug bool
}

type LLMConfig struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	GeminiAPIKey   string
	GeminiModel    string
	Timeout        time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

type LimitsConfig struct {
	MaxResumeChars         int
	MaxJobDescriptionChars int
	JobMatchExcerptChars   int
	MaxUploadBytes         int64
}

type StorageConfig struct {
	UploadPath string
}

type GuidanceConfig struct {
	Enabled      bool
	QdrantURL    string
	QdrantAPIKey string
	Collection   string
	TopK         int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env, then config.yaml, then the process environment
// (highest precedence). A missing or placeholder credential is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and config.yaml.")
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}
	l := &loader{v: v}

	port := l.getString("PORT", "")
	if port == "" {
		port = l.getString("FLASK_PORT", "8000")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:  port,
			Env:   l.getString("ENV", "development"),
			Debug: l.getBool("DEBUG", false),
		},
		LLM: LLMConfig{
			Provider:       strings.ToLower(l.getString("LLM_PROVIDER", ProviderGroq)),
			APIKey:         l.getString("GROQ_API_KEY", ""),
			BaseURL:        l.getString("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:          l.getString("GROQ_MODEL", "llama-3.3-70b-versatile"),
			GeminiAPIKey:   l.getString("GEMINI_API_KEY", ""),
			GeminiModel:    l.getString("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:        l.getDuration("LLM_TIMEOUT", "30s"),
			RateLimitRPS:   l.getFloat("LLM_RATE_LIMIT_RPS", 0),
			RateLimitBurst: l.getInt("LLM_RATE_LIMIT_BURST", 1),
		},
		Limits: LimitsConfig{
			MaxResumeChars:         l.getInt("MAX_RESUME_CHARS", 50000),
			MaxJobDescriptionChars: l.getInt("MAX_JOB_DESCRIPTION_CHARS", 10000),
			JobMatchExcerptChars:   l.getInt("JOB_MATCH_EXCERPT_CHARS", 3000),
			MaxUploadBytes:         l.getInt64("MAX_UPLOAD_BYTES", 5*1024*1024),
		},
		Storage: StorageConfig{
			UploadPath: l.getString("UPLOAD_PATH", "./uploads"),
		},
		Guidance: GuidanceConfig{
			Enabled:      l.getBool("ATS_GUIDANCE_ENABLED", false),
			QdrantURL:    l.getString("QDRANT_URL", "http://localhost:6334"),
			QdrantAPIKey: l.getString("QDRANT_API_KEY", ""),
			Collection:   l.getString("QDRANT_COLLECTION", "ats_guidance"),
			TopK:         l.getInt("ATS_GUIDANCE_TOP_K", 3),
		},
		Log: LogConfig{
			Level:  l.getString("LOG_LEVEL", "info"),
			Format: l.getString("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the process must not start with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderGroq:
		if missingCredential(c.LLM.APIKey) {
			return apperrors.NewConfigError(apperrors.CodeMissingCredential,
				"Groq API key not configured. Please set the GROQ_API_KEY environment variable or update the key in config.yaml")
		}
	case ProviderGemini:
		if missingCredential(c.LLM.GeminiAPIKey) {
			return apperrors.NewConfigError(apperrors.CodeMissingCredential,
				"Gemini API key not configured. Please set GEMINI_API_KEY")
		}
	default:
		return apperrors.NewConfigError(apperrors.CodeInternal,
			fmt.Sprintf("unknown LLM_PROVIDER %q", c.LLM.Provider))
	}

	if c.Guidance.Enabled && missingCredential(c.LLM.GeminiAPIKey) {
		return apperrors.NewConfigError(apperrors.CodeMissingCredential,
			"ATS guidance needs GEMINI_API_KEY for embeddings")
	}

	if c.Limits.MaxResumeChars <= 0 || c.Limits.MaxJobDescriptionChars <= 0 || c.Limits.JobMatchExcerptChars <= 0 {
		return apperrors.NewConfigError(apperrors.CodeInternal, "length limits must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return apperrors.NewConfigError(apperrors.CodeInternal, "LLM_TIMEOUT must be positive")
	}

	return nil
}

func missingCredential(key string) bool {
	key = strings.TrimSpace(key)
	return key == "" || key == PlaceholderAPIKey
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// loader resolves keys from the environment first, then config.yaml.
type loader struct {
	v *viper.Viper
}

func (l *loader) getString(key, defaultValue string) string {
	if value := strings.TrimSpace(l.v.GetString(key)); value != "" {
		return value
	}
	return defaultValue
}

func (l *loader) getInt(key string, defaultValue int) int {
	if l.getString(key, "") == "" {
		return defaultValue
	}
	return l.v.GetInt(key)
}

func (l *loader) getInt64(key string, defaultValue int64) int64 {
	if l.getString(key, "") == "" {
		return defaultValue
	}
	return l.v.GetInt64(key)
}

func (l *loader) getFloat(key string, defaultValue float64) float64 {
	if l.getString(key, "") == "" {
		return defaultValue
	}
	return l.v.GetFloat64(key)
}

func (l *loader) getBool(key string, defaultValue bool) bool {
	if l.getString(key, "") == "" {
		return defaultValue
	}
	return l.v.GetBool(key)
}

func (l *loader) getDuration(key string, defaultValue string) time.Duration {
	valueStr := l.getString(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
