// Package config loads settings from defaults, an optional YAML file, and
// environment variables, in that order of increasing precedence. Command
// line flags are applied on top by the CLI layer.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Gemini generation
	GeminiAPIKey     string  `yaml:"gemini_api_key"`
	Model            string  `yaml:"model"`
	Temperature      float64 `yaml:"temperature"`
	QuestionsPerPage int     `yaml:"questions_per_page"`

	// Batching and output
	BatchSize    int    `yaml:"batch_size"`
	OutputFormat string `yaml:"output_format"`
	OutputDir    string `yaml:"output_dir"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	// HTTP server
	Port           string        `yaml:"port"`
	ServeAPIKey    string        `yaml:"serve_api_key"`
	WorkerCount    int           `yaml:"worker_count"`
	MaxQueueSize   int           `yaml:"max_queue_size"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	JobTTL         time.Duration `yaml:"job_ttl"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Model:            "gemini-2.0-flash",
		Temperature:      0.7,
		QuestionsPerPage: 15,

		BatchSize:    5,
		OutputFormat: "csv",
		OutputDir:    "dataset",

		PDFFallbackPdftotext: true,

		Port:           "8090",
		WorkerCount:    2,
		MaxQueueSize:   100,
		MaxUploadBytes: 52428800, // 50MB
		JobTTL:         1 * time.Hour,
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty), then environment variables. A .env file
// in the working directory is folded into the environment first.
func Load(path string) (Config, error) {
	// Missing .env is fine; an explicit file is only for local runs.
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.GeminiAPIKey = envOr("GEMINI_API_KEY", envOr("GOOGLE_API_KEY", cfg.GeminiAPIKey))
	cfg.Model = envOr("GEMINI_MODEL", cfg.Model)
	cfg.Temperature = envFloat("GEMINI_TEMPERATURE", cfg.Temperature)
	cfg.QuestionsPerPage = envInt("QUESTIONS_PER_PAGE", cfg.QuestionsPerPage)

	cfg.BatchSize = envInt("BATCH_SIZE", cfg.BatchSize)
	cfg.OutputFormat = envOr("OUTPUT_FORMAT", cfg.OutputFormat)
	cfg.OutputDir = envOr("OUTPUT_DIR", cfg.OutputDir)

	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.ServeAPIKey = envOr("QAGEN_API_KEY", cfg.ServeAPIKey)
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)

	return cfg, nil
}

// Validate reports the first invalid setting. The API key is checked
// separately by the model client so offline commands like merge still work.
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.QuestionsPerPage < 1 {
		return fmt.Errorf("questions_per_page must be at least 1, got %d", c.QuestionsPerPage)
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" {
		return fmt.Errorf("output_format must be csv or json, got %q", c.OutputFormat)
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %g", c.Temperature)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker_count must be at least 1, got %d", c.WorkerCount)
	}
	if c.MaxQueueSize < 1 {
		return fmt.Errorf("max_queue_size must be at least 1, got %d", c.MaxQueueSize)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
