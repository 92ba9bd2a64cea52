package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagDefaultsComeFromEnvironment(t *testing.T) {
	t.Setenv("RAG_LOG_LEVEL", "debug")
	t.Setenv("RAG_LOG_FORMAT", "json")
	t.Setenv("RAG_OUTPUT_FORMAT", "json")

	root := newRootCmd()

	level, err := root.PersistentFlags().GetString("log-level")
	require.NoError(t, err)
	assert.Equal(t, "debug", level)

	format, err := root.PersistentFlags().GetString("log-format")
	require.NoError(t, err)
	assert.Equal(t, "json", format)

	jsonOut, err := root.PersistentFlags().GetBool("json")
	require.NoError(t, err)
	assert.True(t, jsonOut)
}

func TestInvalidLogLevelFailsBeforeRunning(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"strategies", "--log-level", "shouting"})

	assert.Error(t, root.Execute())
}
