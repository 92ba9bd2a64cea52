package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContextKey is used to store correlation IDs in context.
type ContextKey string

const CorrelationIDKey ContextKey = "correlation_id"

// Logger wraps zerolog with processing-specific helpers.
type Logger struct {
	*zerolog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string
	Format string
	Output string
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// New creates a new structured logger.
func New(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	var output io.Writer
	switch config.Output {
	case "stdout":
		output = os.Stdout
	default:
		output = os.Stderr
	}

	var logger zerolog.Logger
	if config.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}).
			Level(level).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(output).
			Level(level).
			With().
			Timestamp().
			Logger()
	}

	return &Logger{Logger: &logger}, nil
}

// WithCorrelationID adds a fresh correlation ID to the context.
func WithCorrelationID(ctx context.Context) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, uuid.New().String())
}

// FromContext creates a logger carrying context values.
func (l *Logger) FromContext(ctx context.Context) *zerolog.Logger {
	logger := l.Logger.With()

	if correlationID, ok := ctx.Value(CorrelationIDKey).(string); ok {
		logger = logger.Str("correlation_id", correlationID)
	}

	contextLogger := logger.Logger()
	return &contextLogger
}

// LogProcessingStart logs when document processing starts.
func (l *Logger) LogProcessingStart(ctx context.Context, filename string, contentLength int) {
	l.FromContext(ctx).Info().
		Str("filename", filename).
		Int("content_length", contentLength).
		Msg("Document processing started")
}

// LogProcessingComplete logs when document processing completes.
func (l *Logger) LogProcessingComplete(ctx context.Context, filename, strategy string, chunks int, duration time.Duration) {
	l.FromContext(ctx).Info().
		Str("filename", filename).
		Str("strategy", strategy).
		Int("chunk_count", chunks).
		Dur("processing_duration", duration).
		Msg("Document processing completed")
}

// LogValidationResult logs the outcome of a validation pass.
func (l *Logger) LogValidationResult(ctx context.Context, valid bool, issues int, score float64) {
	l.FromContext(ctx).Info().
		Bool("valid", valid).
		Int("issue_count", issues).
		Float64("quality_score", score).
		Msg("Document validation finished")
}

// Global logger instance.
var globalLogger *Logger

// Init initializes the global logger.
func Init(config *Config) error {
	logger, err := New(config)
	if err != nil {
		return err
	}
	globalLogger = logger
	return nil
}

// Get returns the global logger, falling back to defaults.
func Get() *Logger {
	if globalLogger == nil {
		logger, _ := New(DefaultConfig())
		globalLogger = logger
	}
	return globalLogger
}
