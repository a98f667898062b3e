package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModeInband = "inband"
	ModeHTTP   = "http"
)

type Config struct {
	Host string
	Port string

	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string

	DeepseekAPIKey  string
	DeepseekModel   string
	DeepseekBaseURL string

	DefaultLLM string

	ParseTimeout    time.Duration
	ErrorStatusMode string
	PromptFile      string

	DatabaseURL      string
	JournalRetention time.Duration

	TelegramBotToken string
}

// ConfigurationError is a startup failure: the process must not serve requests.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// EnvFilePath returns ENV_FILE if set, otherwise .env next to the executable.
func EnvFilePath() string {
	if p := strings.TrimSpace(os.Getenv("ENV_FILE")); p != "" {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return ".env"
	}
	if real, err := filepath.EvalSymlinks(exe); err == nil {
		exe = real
	}
	return filepath.Join(filepath.Dir(exe), ".env")
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func requireEnv(k string) (string, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return "", &ConfigurationError{Key: k, Reason: "not set"}
	}
	return v, nil
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, &ConfigurationError{Key: k, Reason: fmt.Sprintf("bad duration %q", v)}
	}
	return d, nil
}

// Load reads the .env file (process env wins) and builds the config.
func Load() (*Config, error) {
	path := EnvFilePath()
	log.Printf("config: loading env file %s", path)
	if err := godotenv.Load(path); err != nil {
		log.Printf("config: env file not loaded (%v), using process environment", err)
	}

	key, err := requireEnv("GROQ_API_KEY")
	if err != nil {
		return nil, err
	}
	log.Printf("config: GROQ_API_KEY found (starts with %s...)", prefix(key, 5))

	cfg := &Config{
		Host: getEnv("HOST", "127.0.0.1"),
		Port: getEnv("PORT", "8000"),

		GroqAPIKey:  key,
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		DeepseekAPIKey:  getEnv("DEEPSEEK_API_KEY", ""),
		DeepseekModel:   getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		DeepseekBaseURL: getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),

		DefaultLLM: strings.ToLower(getEnv("DEFAULT_LLM", "groq")),

		ErrorStatusMode: strings.ToLower(getEnv("ERROR_STATUS_MODE", ModeInband)),
		PromptFile:      getEnv("PROMPT_FILE", ""),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	if cfg.ParseTimeout, err = getDuration("PARSE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.JournalRetention, err = getDuration("JOURNAL_RETENTION", 720*time.Hour); err != nil {
		return nil, err
	}
	switch cfg.ErrorStatusMode {
	case ModeInband, ModeHTTP:
	default:
		return nil, &ConfigurationError{Key: "ERROR_STATUS_MODE", Reason: fmt.Sprintf("want %q or %q, got %q", ModeInband, ModeHTTP, cfg.ErrorStatusMode)}
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// RequireTelegram is checked by the bot entry point only.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return &ConfigurationError{Key: "TELEGRAM_BOT_TOKEN", Reason: "not set"}
	}
	return nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
