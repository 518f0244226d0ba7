package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	OpenAIAPIKey         string `yaml:"openai_api_key"`
	OpenAIBaseURL        string `yaml:"openai_base_url"`
	OpenAIModel          string `yaml:"openai_model"`
	OpenAITimeoutSeconds int    `yaml:"openai_timeout_seconds"`

	SessionTTLMinutes   int    `yaml:"session_ttl_minutes"`
	SessionSweepMinutes int    `yaml:"session_sweep_minutes"`
	DefaultPersona      string `yaml:"default_persona"`

	MaxUploadMB int `yaml:"max_upload_mb"`

	OCRPdftoppmBin  string `yaml:"ocr_pdftoppm_bin"`
	OCRTesseractBin string `yaml:"ocr_tesseract_bin"`
	OCRDPI          int    `yaml:"ocr_dpi"`
	OCRMaxPages     int    `yaml:"ocr_max_pages"`

	NATSURL           string `yaml:"nats_url"`
	NATSSubjectPrefix string `yaml:"nats_subject_prefix"`
	EventsEnabled     bool   `yaml:"events_enabled"`

	ArtifactsPath string `yaml:"artifacts_path"`

	APIRateLimitRPS   float64 `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst int     `yaml:"api_rate_limit_burst"`
	APIMaxConcurrent  int     `yaml:"api_max_concurrent"`
	APIQueueTimeoutMS int     `yaml:"api_queue_timeout_ms"`
}

// Load resolves configuration in three layers: built-in defaults, an
// optional YAML file named by LDA_CONFIG_FILE, then environment variables
// on top.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("LDA_CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func defaults() Config {
	return Config{
		APIPort:  "8080",
		LogLevel: "info",

		OpenAIBaseURL:        "https://api.openai.com/v1",
		OpenAIModel:          "gpt-4o",
		OpenAITimeoutSeconds: 120,

		SessionTTLMinutes:   60,
		SessionSweepMinutes: 10,

		MaxUploadMB: 20,

		OCRPdftoppmBin:  "pdftoppm",
		OCRTesseractBin: "tesseract",
		OCRDPI:          300,
		OCRMaxPages:     25,

		NATSURL:           "nats://localhost:4222",
		NATSSubjectPrefix: "lda.sessions",

		ArtifactsPath: "./data/artifacts",

		APIQueueTimeoutMS: 100,
	}
}

func (c *Config) applyEnv() {
	c.APIPort = mustEnv("API_PORT", c.APIPort)
	c.LogLevel = mustEnv("LOG_LEVEL", c.LogLevel)

	c.OpenAIAPIKey = mustEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = mustEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.OpenAIModel = mustEnv("OPENAI_MODEL", c.OpenAIModel)
	c.OpenAITimeoutSeconds = mustEnvInt("OPENAI_TIMEOUT_SECONDS", c.OpenAITimeoutSeconds)

	c.SessionTTLMinutes = mustEnvInt("SESSION_TTL_MINUTES", c.SessionTTLMinutes)
	c.SessionSweepMinutes = mustEnvInt("SESSION_SWEEP_MINUTES", c.SessionSweepMinutes)
	c.DefaultPersona = mustEnv("DEFAULT_PERSONA", c.DefaultPersona)

	c.MaxUploadMB = mustEnvInt("MAX_UPLOAD_MB", c.MaxUploadMB)

	c.OCRPdftoppmBin = mustEnv("OCR_PDFTOPPM_BIN", c.OCRPdftoppmBin)
	c.OCRTesseractBin = mustEnv("OCR_TESSERACT_BIN", c.OCRTesseractBin)
	c.OCRDPI = mustEnvInt("OCR_DPI", c.OCRDPI)
	c.OCRMaxPages = mustEnvInt("OCR_MAX_PAGES", c.OCRMaxPages)

	c.NATSURL = mustEnv("NATS_URL", c.NATSURL)
	c.NATSSubjectPrefix = mustEnv("NATS_SUBJECT_PREFIX", c.NATSSubjectPrefix)
	c.EventsEnabled = mustEnvBool("EVENTS_ENABLED", c.EventsEnabled)

	c.ArtifactsPath = mustEnv("ARTIFACTS_PATH", c.ArtifactsPath)

	c.APIRateLimitRPS = mustEnvFloat("API_RATE_LIMIT_RPS", c.APIRateLimitRPS)
	c.APIRateLimitBurst = mustEnvInt("API_RATE_LIMIT_BURST", c.APIRateLimitBurst)
	c.APIMaxConcurrent = mustEnvInt("API_MAX_CONCURRENT", c.APIMaxConcurrent)
	c.APIQueueTimeoutMS = mustEnvInt("API_QUEUE_TIMEOUT_MS", c.APIQueueTimeoutMS)
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
