// Package textchunk provides generic pattern-based and size-based text
// splitting with word-boundary snapping and overlap control. Every
// processing strategy uses it as a fallback.
package textchunk

import (
	"regexp"
	"strings"

	"github.com/erickva/rag-processor/config"
)

// Chunk is a bounded span of document text plus metadata. Positions are
// byte offsets into the text handed to the chunking call.
type Chunk struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	StartPos int                    `json:"start_position"`
	EndPos   int                    `json:"end_position"`
}

// CharacterCount returns the chunk text length.
func (c *Chunk) CharacterCount() int {
	return len(c.Text)
}

// WordCount returns the number of whitespace-separated words.
func (c *Chunk) WordCount() int {
	return len(strings.Fields(c.Text))
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Chunker splits text at pattern boundaries or fixed sizes.
type Chunker struct{}

// NewChunker creates a chunker.
func NewChunker() *Chunker {
	return &Chunker{}
}

// ChunkByPattern splits text at regex boundary matches. Each chunk spans
// from one boundary start to the next. Chunks below minSize are dropped;
// chunks above maxSize are recursively size-split. With zero matches the
// call degrades to size-based splitting.
func (c *Chunker) ChunkByPattern(text string, pattern *regexp.Regexp, overlap, minSize, maxSize int) []Chunk {
	boundaries := pattern.FindAllStringIndex(text, -1)
	if len(boundaries) == 0 {
		return c.ChunkBySize(text, maxSize, overlap, minSize)
	}

	var chunks []Chunk
	start := 0

	for i, boundary := range boundaries {
		end := len(text)
		if i < len(boundaries)-1 {
			end = boundaries[i+1][0]
		}

		chunkText := strings.TrimSpace(text[start:end])

		switch {
		case len(chunkText) < minSize:
			// Dropped entirely, not merged into a neighbor.
		case len(chunkText) > maxSize:
			chunks = append(chunks, c.splitLargeChunk(chunkText, maxSize, overlap, start, len(chunks))...)
		default:
			chunks = append(chunks, Chunk{
				Text: chunkText,
				Metadata: map[string]interface{}{
					"chunk_index":      len(chunks),
					"boundary_pattern": text[boundary[0]:boundary[1]],
					"chunking_method":  "pattern-based",
				},
				StartPos: start,
				EndPos:   end,
			})
		}

		start = max(0, end-overlap)
	}

	return chunks
}

// ChunkBySize splits text into windows of roughly chunkSize characters,
// snapping each cut to the nearest whitespace run within 100 characters
// of the target so words are not broken. Forward progress is guaranteed
// even when overlap >= chunkSize.
func (c *Chunker) ChunkBySize(text string, chunkSize, overlap, minSize int) []Chunk {
	var chunks []Chunk
	start := 0

	for start < len(text) {
		end := min(start+chunkSize, len(text))

		if end < len(text) {
			windowStart := max(end-100, start)
			windowEnd := min(end+100, len(text))
			window := text[windowStart:windowEnd]

			if boundaries := whitespaceRun.FindAllStringIndex(window, -1); len(boundaries) > 0 {
				target := end - windowStart
				closest := boundaries[0]
				for _, b := range boundaries {
					if abs(b[0]-target) < abs(closest[0]-target) {
						closest = b
					}
				}
				end = windowStart + closest[1]
			}
		}

		chunkText := strings.TrimSpace(text[start:end])
		if len(chunkText) >= minSize || end >= len(text) {
			chunks = append(chunks, Chunk{
				Text: chunkText,
				Metadata: map[string]interface{}{
					"chunk_index":     len(chunks),
					"chunking_method": "size-based",
					"target_size":     chunkSize,
				},
				StartPos: start,
				EndPos:   end,
			})
		}

		if end >= len(text) {
			break
		}
		start = max(start+1, end-overlap)
	}

	return chunks
}

// splitLargeChunk breaks an oversized chunk at word boundaries.
func (c *Chunker) splitLargeChunk(chunkText string, maxSize, overlap, baseStart, baseIndex int) []Chunk {
	var chunks []Chunk
	start := 0

	for start < len(chunkText) {
		end := min(start+maxSize, len(chunkText))

		if end < len(chunkText) {
			if lastSpace := strings.LastIndex(chunkText[start:end], " "); lastSpace > 0 {
				end = start + lastSpace
			}
		}

		subText := strings.TrimSpace(chunkText[start:end])
		if subText != "" {
			chunks = append(chunks, Chunk{
				Text: subText,
				Metadata: map[string]interface{}{
					"chunk_index":     baseIndex + len(chunks),
					"chunking_method": "large-chunk-split",
					"parent_chunk":    true,
				},
				StartPos: baseStart + start,
				EndPos:   baseStart + end,
			})
		}

		if end >= len(chunkText) {
			break
		}
		start = max(start+1, end-overlap)
	}

	return chunks
}

// StructureInfo holds structural statistics for a body of text.
type StructureInfo struct {
	TotalLines        int     `json:"total_lines"`
	NonEmptyLines     int     `json:"non_empty_lines"`
	AverageLineLength float64 `json:"average_line_length"`
	ParagraphCount    int     `json:"paragraph_count"`
	SentenceCount     int     `json:"sentence_count"`
	WordCount         int     `json:"word_count"`
	CharacterCount    int     `json:"character_count"`
}

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	sentenceEnd    = regexp.MustCompile(`[.!?]+`)
)

// ExtractStructureInfo computes structural statistics over text.
func (c *Chunker) ExtractStructureInfo(text string) StructureInfo {
	lines := strings.Split(text, "\n")

	nonEmpty := 0
	totalLen := 0
	for _, line := range lines {
		totalLen += len(line)
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}

	avg := 0.0
	if len(lines) > 0 {
		avg = float64(totalLen) / float64(len(lines))
	}

	return StructureInfo{
		TotalLines:        len(lines),
		NonEmptyLines:     nonEmpty,
		AverageLineLength: avg,
		ParagraphCount:    len(paragraphBreak.FindAllString(text, -1)),
		SentenceCount:     len(sentenceEnd.FindAllString(text, -1)),
		WordCount:         len(strings.Fields(text)),
		CharacterCount:    len(text),
	}
}

// DefaultMinSize returns the configured minimum chunk size.
func DefaultMinSize() int { return config.MinimumChunkSize }

// DefaultMaxSize returns the configured maximum chunk size.
func DefaultMaxSize() int { return config.MaximumChunkSize }

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
