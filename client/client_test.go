package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptionPatternBounds(t *testing.T) {
	cfg := NewDefault()

	assert.False(t, ValidateFieldFormat(cfg, "description", strings.Repeat("x", 9)))
	assert.True(t, ValidateFieldFormat(cfg, "description", strings.Repeat("x", 10)))
	assert.True(t, ValidateFieldFormat(cfg, "description", strings.Repeat("x", 2000)))
	assert.False(t, ValidateFieldFormat(cfg, "description", strings.Repeat("x", 2001)))
	assert.True(t, ValidateFieldFormat(cfg, "description", "line one\nline two of a multiline description"))
}

func TestValidateFieldFormat(t *testing.T) {
	cfg := NewDefault()

	assert.True(t, ValidateFieldFormat(cfg, "email", "user@example.com"))
	assert.False(t, ValidateFieldFormat(cfg, "email", "not-an-email"))
	assert.True(t, ValidateFieldFormat(cfg, "date", "2026-08-25"))
	assert.False(t, ValidateFieldFormat(cfg, "date", "25/08/2026"))
	assert.True(t, ValidateFieldFormat(cfg, "unregistered", "anything goes"))
}
