package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(StrategyError, "UNKNOWN_STRATEGY", "unknown strategy")
	assert.Equal(t, "UNKNOWN_STRATEGY: unknown strategy", err.Error())

	wrapped := Wrap(stderrors.New("boom"), ProcessingError, "PROCESSING_FAILED", "chunking failed")
	assert.Equal(t, "PROCESSING_FAILED: chunking failed (boom)", wrapped.Error())
}

func TestWrapPreservesInnerError(t *testing.T) {
	inner := stderrors.New("disk on fire")
	err := Wrap(inner, FileError, "FILE_READ", "could not read document")

	assert.True(t, stderrors.Is(err, inner))
}

func TestWithContext(t *testing.T) {
	err := NewUnknownStrategyError("nosuch/strategy").
		WithContext("available", []string{"faq/qa-pairs"})

	require.NotNil(t, err.Context)
	assert.Equal(t, []string{"faq/qa-pairs"}, err.Context["available"])
}

func TestTypeAndCodeChecks(t *testing.T) {
	err := NewFileNotFoundError("/tmp/missing.rag")

	assert.True(t, IsType(err, FileError))
	assert.False(t, IsType(err, DirectiveError))
	assert.True(t, IsCode(err, "FILE_NOT_FOUND"))
	assert.False(t, IsCode(stderrors.New("plain"), "FILE_NOT_FOUND"))
}

func TestConstructorsCarryLocation(t *testing.T) {
	err := NewValidationError("document failed validation")

	assert.NotEmpty(t, err.File)
	assert.NotZero(t, err.Line)
	assert.False(t, err.Timestamp.IsZero())
}
