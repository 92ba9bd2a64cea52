package strategy

import (
	"regexp"
	"strings"

	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/directive"
	"github.com/erickva/rag-processor/textchunk"
)

// productBoundaries are tried against the document and the one with the
// most matches wins. English and Portuguese catalogs both appear in
// production data.
var productBoundaries = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^Name:\s*[^\n]*`),
	regexp.MustCompile(`(?im)^Product:\s*[^\n]*`),
	regexp.MustCompile(`(?im)^Item:\s*[^\n]*`),
	regexp.MustCompile(`(?im)^Nome:\s*[^\n]*`),
	regexp.MustCompile(`(?im)^Produto:\s*[^\n]*`),
}

var productFieldPatterns = map[string]*regexp.Regexp{
	"name":        regexp.MustCompile(`(?i)(?:Name|Nome|Product|Produto|Item):\s*([^\n]*)`),
	"description": regexp.MustCompile(`(?i)(?:Description|Descrição):\s*([^\n]*)`),
	"price":       regexp.MustCompile(`(?i)(?:Price|Preço):\s*([^\n]*)`),
	"category":    regexp.MustCompile(`(?i)(?:Category|Categoria):\s*([^\n]*)`),
	"brand":       regexp.MustCompile(`(?i)(?:Brand|Marca):\s*([^\n]*)`),
	"model":       regexp.MustCompile(`(?i)(?:Model|Modelo):\s*([^\n]*)`),
}

// Products chunks product catalogs so that each chunk is exactly one
// product entry, keeping a product self-contained for retrieval.
type Products struct{}

// NewProducts creates the products strategy.
func NewProducts() *Products {
	return &Products{}
}

func (s *Products) Name() string { return "products/semantic-boundary" }

func (s *Products) Description() string {
	return "Splits product catalogs so each chunk holds one complete product entry"
}

func (s *Products) DefaultPattern() *regexp.Regexp { return productBoundaries[0] }

// Product entries must stay self-contained, so adjacent chunks never
// share text.
func (s *Products) DefaultOverlap() int { return config.ProductsChunkOverlap }

// Process splits content at the product boundary pattern that matches
// most often. Catalogs without a recognizable name field fall back to
// blank-line sections that contain at least one field line.
func (s *Products) Process(content string, d *directive.Directive, cfg client.Config) []textchunk.Chunk {
	boundary := s.bestBoundary(content)
	if boundary == nil {
		return s.processSections(content)
	}

	spans := splitAtBoundaries(content, boundary)

	var chunks []textchunk.Chunk
	for _, span := range spans {
		text := strings.TrimSpace(span.text)
		if len(text) < config.MinimumChunkSize {
			continue
		}
		if !boundary.MatchString(text) {
			// Preamble before the first product entry.
			continue
		}

		chunks = append(chunks, newChunk(text, span.start, span.end, len(chunks), s.Name(),
			s.productMetadata(text)))
	}

	if len(chunks) == 0 {
		return s.processSections(content)
	}
	return chunks
}

// bestBoundary returns the boundary pattern with the most matches, or
// nil when none matches.
func (s *Products) bestBoundary(content string) *regexp.Regexp {
	var best *regexp.Regexp
	bestCount := 0

	for _, boundary := range productBoundaries {
		count := len(boundary.FindAllString(content, -1))
		if count > bestCount {
			best = boundary
			bestCount = count
		}
	}
	return best
}

// processSections is the fallback for catalogs without name fields:
// blank-line sections that carry at least one "field: value" line.
func (s *Products) processSections(content string) []textchunk.Chunk {
	sections := splitBetween(content, regexp.MustCompile(`\n\s*\n`))

	var chunks []textchunk.Chunk
	for _, section := range sections {
		text := strings.TrimSpace(section.text)
		if len(text) < config.MinimumChunkSize || !fieldLinePattern.MatchString(text) {
			continue
		}

		chunks = append(chunks, newChunk(text, section.start, section.end, len(chunks), s.Name(),
			s.productMetadata(text)))
	}
	return chunks
}

// productMetadata extracts the recognized product fields from one entry.
func (s *Products) productMetadata(text string) map[string]interface{} {
	extra := map[string]interface{}{
		"content_type": "product",
	}

	for field, pattern := range productFieldPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			value := strings.TrimSpace(m[1])
			if value != "" {
				extra[field] = value
			}
		}
	}
	return extra
}

// ValidateContent reports catalogs the boundary patterns cannot split.
func (s *Products) ValidateContent(content string) []string {
	var issues []string

	if s.bestBoundary(content) == nil {
		issues = append(issues, "no product name fields found (Name:, Product:, Item:)")
	}
	if !productFieldPatterns["price"].MatchString(content) {
		issues = append(issues, "no price fields found - product entries may be incomplete")
	}
	if !productFieldPatterns["description"].MatchString(content) {
		issues = append(issues, "no description fields found - product entries may be incomplete")
	}

	return issues
}

// CreateTemplate renders an example product catalog.
func (s *Products) CreateTemplate(cfg client.Config) string {
	return templateHeader(s.Name(), cfg) +
		"Name: Example Product\n" +
		"Description: What the product is and who it is for\n" +
		"Price: $99.00\n" +
		"Category: Example Category\n" +
		"Brand: Example Brand\n" +
		"\n" +
		"Name: Second Product\n" +
		"Description: Another product description\n" +
		"Price: $149.00\n" +
		"Category: Example Category\n"
}
