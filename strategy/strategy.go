// Package strategy implements the chunking strategies. Each strategy
// turns one document body into retrieval-ready chunks with metadata
// describing how the split was made.
package strategy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/directive"
	"github.com/erickva/rag-processor/textchunk"
)

// Strategy is one way of splitting a document into chunks.
type Strategy interface {
	// Name is the canonical "category/method" identifier.
	Name() string

	// Description summarizes what content the strategy suits.
	Description() string

	// DefaultPattern returns the boundary regex, or nil when the strategy
	// does not split on a single pattern.
	DefaultPattern() *regexp.Regexp

	// DefaultOverlap is the character overlap between adjacent chunks.
	DefaultOverlap() int

	// Process splits content into chunks. The directive and client config
	// may refine behavior but are never required.
	Process(content string, d *directive.Directive, cfg client.Config) []textchunk.Chunk

	// ValidateContent reports structural problems that would degrade the
	// strategy's output on this content.
	ValidateContent(content string) []string

	// CreateTemplate renders an example document for this strategy,
	// including a directive header.
	CreateTemplate(cfg client.Config) string
}

// newChunk builds a chunk with the metadata every strategy shares.
// Extra metadata entries override nothing and are merged in as-is.
func newChunk(text string, start, end, index int, strategyName string, extra map[string]interface{}) textchunk.Chunk {
	metadata := map[string]interface{}{
		"strategy":        strategyName,
		"chunk_index":     index,
		"character_count": len(text),
		"word_count":      len(strings.Fields(text)),
	}
	for k, v := range extra {
		metadata[k] = v
	}

	return textchunk.Chunk{
		Text:     text,
		Metadata: metadata,
		StartPos: start,
		EndPos:   end,
	}
}

// templateHeader renders the directive header for a strategy template.
func templateHeader(strategyName string, cfg client.Config) string {
	parser := directive.NewParser()

	metadata := map[string]interface{}{}
	if cfg != nil {
		for k, v := range cfg.TemplateMetadata() {
			metadata[k] = v
		}
	}

	header, err := parser.CreateHeader(&directive.Directive{
		Strategy: strategyName,
		Metadata: metadata,
	})
	if err != nil {
		// Template metadata comes from static config; marshal failures
		// mean a programming error, so fall back to the bare header.
		return fmt.Sprintf("%s\n@strategy: %s\n\n", directive.InterpreterMarker, strategyName)
	}
	return header
}

// overlapTail returns up to overlap characters from the end of text,
// snapped forward to a word boundary.
func overlapTail(text string, overlap int) string {
	if overlap <= 0 || len(text) <= overlap {
		if overlap <= 0 {
			return ""
		}
		return text
	}

	tail := text[len(text)-overlap:]
	if idx := strings.IndexAny(tail, " \t\n"); idx >= 0 {
		tail = tail[idx+1:]
	}
	return tail
}
