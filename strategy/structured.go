package strategy

import (
	"regexp"
	"strings"

	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/directive"
	"github.com/erickva/rag-processor/textchunk"
)

// blockSpan is one structural block with its position in the document.
type blockSpan struct {
	text  string
	start int
	end   int
}

var fieldLinePattern = regexp.MustCompile(`(?m)^([a-zA-Z][a-zA-Z\s]*?):\s*([^\n]*)`)

// StructuredBlocks splits documents at a configurable block separator.
// The three variants share all processing logic and differ only in how
// blocks are delimited.
type StructuredBlocks struct {
	name        string
	description string
	pattern     *regexp.Regexp
	split       func(content string) []blockSpan
	example     string
}

// NewEmptyLineSeparated splits at blank-line gaps. This is the most
// universal structured format and the auto-detection default.
func NewEmptyLineSeparated() *StructuredBlocks {
	pattern := regexp.MustCompile(`\n\s*\n`)
	return &StructuredBlocks{
		name:        "structured-blocks/empty-line-separated",
		description: "Splits documents into blocks separated by empty lines",
		pattern:     pattern,
		split: func(content string) []blockSpan {
			return splitBetween(content, pattern)
		},
		example: "Name: Example Item\nDescription: A short description of the item\nPrice: $10.00\n\nName: Second Item\nDescription: Another description\nPrice: $12.50\n",
	}
}

// NewHeadingSeparated splits at markdown headings; each block runs from
// one heading to the next.
func NewHeadingSeparated() *StructuredBlocks {
	pattern := regexp.MustCompile(`(?m)^#{1,6}\s+`)
	return &StructuredBlocks{
		name:        "structured-blocks/heading-separated",
		description: "Splits documents into blocks at markdown headings",
		pattern:     pattern,
		split: func(content string) []blockSpan {
			return splitAtBoundaries(content, pattern)
		},
		example: "# First Section\n\nContent of the first section.\n\n# Second Section\n\nContent of the second section.\n",
	}
}

// NewNumberedSeparated splits at numbered list markers.
func NewNumberedSeparated() *StructuredBlocks {
	pattern := regexp.MustCompile(`(?m)^\d+\.\s+`)
	return &StructuredBlocks{
		name:        "structured-blocks/numbered-separated",
		description: "Splits documents into blocks at numbered item markers",
		pattern:     pattern,
		split: func(content string) []blockSpan {
			return splitAtBoundaries(content, pattern)
		},
		example: "1. First numbered item with its full description.\n2. Second numbered item with its full description.\n3. Third numbered item with its full description.\n",
	}
}

func (s *StructuredBlocks) Name() string                   { return s.name }
func (s *StructuredBlocks) Description() string            { return s.description }
func (s *StructuredBlocks) DefaultPattern() *regexp.Regexp { return s.pattern }
func (s *StructuredBlocks) DefaultOverlap() int            { return 0 }

// Process splits content into blocks and extracts field metadata from
// each. Content with no recognizable blocks degrades to size-based
// chunking.
func (s *StructuredBlocks) Process(content string, d *directive.Directive, cfg client.Config) []textchunk.Chunk {
	blocks := s.split(content)
	if len(blocks) < 2 {
		return sizeFallback(content, s.name, 1000, s.DefaultOverlap())
	}

	var chunks []textchunk.Chunk
	for _, block := range blocks {
		text := strings.TrimSpace(block.text)
		if len(text) < config.MinimumChunkSize {
			continue
		}

		extra := map[string]interface{}{
			"block_index": len(chunks),
		}
		if fields := extractFields(text); len(fields) > 0 {
			extra["fields"] = fields
		}

		chunks = append(chunks, newChunk(text, block.start, block.end, len(chunks), s.name, extra))
	}

	if len(chunks) == 0 {
		return sizeFallback(content, s.name, 1000, s.DefaultOverlap())
	}
	return chunks
}

// ValidateContent reports when the separator this variant needs is
// absent or too rare.
func (s *StructuredBlocks) ValidateContent(content string) []string {
	var issues []string

	separators := len(s.pattern.FindAllString(content, -1))
	if separators == 0 {
		issues = append(issues, "no block separators found - content will fall back to size-based chunking")
	} else if separators == 1 {
		issues = append(issues, "only one block separator found - consider a different strategy")
	}

	if !fieldLinePattern.MatchString(content) {
		issues = append(issues, "no 'Field: value' lines detected - block metadata will be empty")
	}

	return issues
}

// CreateTemplate renders an example document for this variant.
func (s *StructuredBlocks) CreateTemplate(cfg client.Config) string {
	return templateHeader(s.name, cfg) + s.example
}

// splitBetween returns the spans between separator matches.
func splitBetween(content string, separator *regexp.Regexp) []blockSpan {
	gaps := separator.FindAllStringIndex(content, -1)

	var blocks []blockSpan
	start := 0
	for _, gap := range gaps {
		if gap[0] > start {
			blocks = append(blocks, blockSpan{text: content[start:gap[0]], start: start, end: gap[0]})
		}
		start = gap[1]
	}
	if start < len(content) {
		blocks = append(blocks, blockSpan{text: content[start:], start: start, end: len(content)})
	}

	return blocks
}

// splitAtBoundaries returns spans running from each boundary match to
// the next; text before the first boundary is its own block.
func splitAtBoundaries(content string, boundary *regexp.Regexp) []blockSpan {
	marks := boundary.FindAllStringIndex(content, -1)
	if len(marks) == 0 {
		return nil
	}

	var blocks []blockSpan
	if marks[0][0] > 0 {
		blocks = append(blocks, blockSpan{text: content[:marks[0][0]], start: 0, end: marks[0][0]})
	}

	for i, mark := range marks {
		end := len(content)
		if i < len(marks)-1 {
			end = marks[i+1][0]
		}
		blocks = append(blocks, blockSpan{text: content[mark[0]:end], start: mark[0], end: end})
	}

	return blocks
}

// extractFields pulls "Field: value" lines out of a block.
func extractFields(text string) map[string]string {
	matches := fieldLinePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	fields := make(map[string]string, len(matches))
	for _, m := range matches {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		fields[key] = strings.TrimSpace(m[2])
	}
	return fields
}

// sizeFallback chunks content by size, tagging the originating strategy.
func sizeFallback(content, strategyName string, chunkSize, overlap int) []textchunk.Chunk {
	chunker := textchunk.NewChunker()
	chunks := chunker.ChunkBySize(content, chunkSize, overlap, config.MinimumChunkSize)

	for i := range chunks {
		chunks[i].Metadata["strategy"] = strategyName
		chunks[i].Metadata["fallback"] = true
	}
	return chunks
}
