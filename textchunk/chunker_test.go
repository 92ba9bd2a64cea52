package textchunk

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkBySizeCoversWholeText(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon ", 100)

	c := NewChunker()
	chunks := c.ChunkBySize(text, 500, 0, 50)

	require.NotEmpty(t, chunks)
	assert.Equal(t, 0, chunks[0].StartPos)
	assert.Equal(t, len(text), chunks[len(chunks)-1].EndPos)
	for i := 1; i < len(chunks); i++ {
		assert.GreaterOrEqual(t, chunks[i].StartPos, chunks[i-1].StartPos,
			"chunk starts must be monotonic")
	}
}

func TestChunkBySizeSnapsToWordBoundaries(t *testing.T) {
	text := strings.Repeat("boundary ", 200)

	c := NewChunker()
	chunks := c.ChunkBySize(text, 300, 0, 50)

	for _, chunk := range chunks {
		assert.False(t, strings.HasPrefix(chunk.Text, "oundary"),
			"chunks must not start mid-word")
		assert.False(t, strings.HasSuffix(chunk.Text, "bound"),
			"chunks must not end mid-word")
	}
}

func TestChunkBySizeOverlapMakesAdjacentChunksShareText(t *testing.T) {
	text := strings.Repeat("shared overlap content ", 100)

	c := NewChunker()
	chunks := c.ChunkBySize(text, 400, 100, 50)

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		assert.Less(t, chunks[i].StartPos, chunks[i-1].EndPos)
	}
}

func TestChunkBySizeForwardProgressWithLargeOverlap(t *testing.T) {
	text := strings.Repeat("word ", 200)

	c := NewChunker()
	// Overlap larger than the chunk size must still terminate.
	chunks := c.ChunkBySize(text, 100, 150, 10)

	assert.NotEmpty(t, chunks)
	assert.Equal(t, len(text), chunks[len(chunks)-1].EndPos)
}

func TestChunkBySizeEmptyInput(t *testing.T) {
	c := NewChunker()
	assert.Empty(t, c.ChunkBySize("", 500, 100, 50))
}

func TestChunkBySizeKeepsShortTail(t *testing.T) {
	text := strings.Repeat("x", 510) + " tail"

	c := NewChunker()
	chunks := c.ChunkBySize(text, 500, 0, 50)

	// The final chunk may be under the minimum size; dropping it would
	// lose text.
	require.NotEmpty(t, chunks)
	assert.Equal(t, len(text), chunks[len(chunks)-1].EndPos)
}

func TestChunkByPatternSplitsAtBoundaries(t *testing.T) {
	text := "Section: one\n" + strings.Repeat("content line one. ", 5) +
		"\nSection: two\n" + strings.Repeat("content line two. ", 5) +
		"\nSection: three\n" + strings.Repeat("content line three. ", 5)

	c := NewChunker()
	chunks := c.ChunkByPattern(text, regexp.MustCompile(`(?m)^Section:`), 0, 50, 2000)

	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.Equal(t, "pattern-based", chunk.Metadata["chunking_method"])
	}
}

func TestChunkByPatternDropsSmallChunks(t *testing.T) {
	text := "Section: one\ntiny\nSection: two\n" + strings.Repeat("real content here. ", 10)

	c := NewChunker()
	chunks := c.ChunkByPattern(text, regexp.MustCompile(`(?m)^Section:`), 0, 50, 2000)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "real content")
}

func TestChunkByPatternSplitsOversizedChunks(t *testing.T) {
	text := "Section: big\n" + strings.Repeat("lots of words in this oversized section. ", 40)

	c := NewChunker()
	chunks := c.ChunkByPattern(text, regexp.MustCompile(`(?m)^Section:`), 0, 50, 500)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), 500)
	}
}

func TestChunkByPatternFallsBackWithoutMatches(t *testing.T) {
	text := strings.Repeat("plain text without any boundaries ", 30)

	c := NewChunker()
	chunks := c.ChunkByPattern(text, regexp.MustCompile(`(?m)^NEVER MATCHES`), 0, 50, 400)

	require.NotEmpty(t, chunks)
	assert.Equal(t, "size-based", chunks[0].Metadata["chunking_method"])
}

func TestChunkCounts(t *testing.T) {
	chunk := Chunk{Text: "five words are in here"}

	assert.Equal(t, 22, chunk.CharacterCount())
	assert.Equal(t, 5, chunk.WordCount())
}

func TestExtractStructureInfo(t *testing.T) {
	text := "First paragraph with a sentence. And another one!\n\nSecond paragraph here?"

	c := NewChunker()
	info := c.ExtractStructureInfo(text)

	assert.Equal(t, 3, info.TotalLines)
	assert.Equal(t, 2, info.NonEmptyLines)
	assert.Equal(t, 1, info.ParagraphCount)
	assert.Equal(t, 3, info.SentenceCount)
	assert.Equal(t, len(text), info.CharacterCount)
}
