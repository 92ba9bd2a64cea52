package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds all configuration for the RAG processor.
type Config struct {
	Logging    LoggingConfig
	Processing ProcessingConfig
	Output     OutputConfig
}

// LoggingConfig holds structured logging configuration.
type LoggingConfig struct {
	Level  string `json:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Format string `json:"format" validate:"oneof=json console"`
	Output string `json:"output" validate:"oneof=stdout stderr"`
}

// ProcessingConfig holds chunking and analysis configuration.
type ProcessingConfig struct {
	MinDocumentLength int `json:"min_document_length" validate:"gt=0"`
	MinChunkSize      int `json:"min_chunk_size" validate:"gt=0"`
	MaxChunkSize      int `json:"max_chunk_size" validate:"gtefield=MinChunkSize"`
	DefaultOverlap    int `json:"default_overlap" validate:"gte=0"`
}

// OutputConfig holds CLI output configuration.
type OutputConfig struct {
	Format string `json:"format" validate:"oneof=json text"`
}

var validate = validator.New()

// Load builds configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  getEnv("RAG_LOG_LEVEL", "info"),
			Format: getEnv("RAG_LOG_FORMAT", "console"),
			Output: getEnv("RAG_LOG_OUTPUT", "stderr"),
		},
		Processing: ProcessingConfig{
			MinDocumentLength: getEnvInt("RAG_MIN_DOCUMENT_LENGTH", MinimumDocumentLength),
			MinChunkSize:      getEnvInt("RAG_MIN_CHUNK_SIZE", MinimumChunkSize),
			MaxChunkSize:      getEnvInt("RAG_MAX_CHUNK_SIZE", MaximumChunkSize),
			DefaultOverlap:    getEnvInt("RAG_DEFAULT_OVERLAP", DefaultChunkOverlap),
		},
		Output: OutputConfig{
			Format: getEnv("RAG_OUTPUT_FORMAT", "text"),
		},
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
