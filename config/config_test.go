package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaultsAreValid(t *testing.T) {
	cfg := Load()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, MinimumChunkSize, cfg.Processing.MinChunkSize)
	assert.Equal(t, MaximumChunkSize, cfg.Processing.MaxChunkSize)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("RAG_LOG_LEVEL", "debug")
	t.Setenv("RAG_MIN_CHUNK_SIZE", "80")

	cfg := Load()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 80, cfg.Processing.MinChunkSize)
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("RAG_LOG_LEVEL", "shouting")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsInvertedChunkBounds(t *testing.T) {
	cfg := Load()
	cfg.Processing.MinChunkSize = 5000
	cfg.Processing.MaxChunkSize = 100

	assert.Error(t, cfg.Validate())
}

func TestLoadIgnoresUnparsableIntEnv(t *testing.T) {
	t.Setenv("RAG_MAX_CHUNK_SIZE", "not-a-number")

	cfg := Load()
	assert.Equal(t, MaximumChunkSize, cfg.Processing.MaxChunkSize)
}
