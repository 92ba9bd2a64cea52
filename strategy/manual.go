package strategy

import (
	"regexp"
	"strings"

	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/directive"
	"github.com/erickva/rag-processor/textchunk"
)

// sectionHeaders are tried in order; the first pattern with matches
// defines the document's sectioning scheme.
var sectionHeaders = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`),
	regexp.MustCompile(`(?m)^(\d+(?:\.\d+)*)\.?\s+(.+)$`),
	regexp.MustCompile(`(?m)^(Chapter\s+\d+)[:.]?\s*(.*)$`),
	regexp.MustCompile(`(?m)^(Section\s+\d+)[:.]?\s*(.*)$`),
	regexp.MustCompile(`(?m)^()([A-Z][A-Z\s]{3,})$`),
}

var (
	codeFence     = regexp.MustCompile("```")
	listMarker    = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	tableRow      = regexp.MustCompile(`(?m)^\|.+\|`)
	imageEmbed    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	dottedNumbers = regexp.MustCompile(`^\d+(\.\d+)*$`)
)

// Manual chunks user manuals and guides by section, preserving the
// heading hierarchy in chunk metadata so retrieval can show breadcrumbs.
type Manual struct{}

// NewManual creates the manual strategy.
func NewManual() *Manual {
	return &Manual{}
}

func (s *Manual) Name() string { return "manual/section-based" }

func (s *Manual) Description() string {
	return "Splits manuals at section headings, keeping heading hierarchy in metadata"
}

func (s *Manual) DefaultPattern() *regexp.Regexp { return sectionHeaders[0] }
func (s *Manual) DefaultOverlap() int            { return config.ManualChunkOverlap }

type manualSection struct {
	title string
	level int
	span  blockSpan
}

// Process splits content at section headings. Each chunk carries its
// heading, level, parent section, and structural flags. Content without
// headings degrades to size-based chunking.
func (s *Manual) Process(content string, d *directive.Directive, cfg client.Config) []textchunk.Chunk {
	header := s.detectHeaderScheme(content)
	if header == nil {
		return sizeFallback(content, s.Name(), config.MaximumChunkSize, s.DefaultOverlap())
	}

	sections := s.extractSections(content, header)

	var chunks []textchunk.Chunk
	var prevText string
	for i, section := range sections {
		text := strings.TrimSpace(section.span.text)
		if len(text) < config.MinimumDocumentLength {
			prevText = text
			continue
		}

		chunkText := text
		if s.DefaultOverlap() > 0 && prevText != "" {
			chunkText = overlapTail(prevText, s.DefaultOverlap()) + "\n\n" + text
		}

		extra := map[string]interface{}{
			"section_title":    section.title,
			"section_level":    section.level,
			"subsection_count": s.countSubsections(sections, i),
			"has_code":         codeFence.MatchString(text),
			"has_lists":        listMarker.MatchString(text),
			"has_tables":       tableRow.MatchString(text),
			"has_images":       imageEmbed.MatchString(text),
		}
		if parent := s.findParent(sections, section); parent != "" {
			extra["parent_section"] = parent
		}

		chunks = append(chunks, newChunk(chunkText, section.span.start, section.span.end,
			len(chunks), s.Name(), extra))
		prevText = text
	}

	if len(chunks) == 0 {
		return sizeFallback(content, s.Name(), config.MaximumChunkSize, s.DefaultOverlap())
	}
	return chunks
}

// detectHeaderScheme returns the first heading pattern that matches.
func (s *Manual) detectHeaderScheme(content string) *regexp.Regexp {
	for _, header := range sectionHeaders {
		if header.MatchString(content) {
			return header
		}
	}
	return nil
}

// extractSections builds the ordered section list with levels.
func (s *Manual) extractSections(content string, header *regexp.Regexp) []manualSection {
	marks := header.FindAllStringSubmatchIndex(content, -1)

	var sections []manualSection
	for i, mark := range marks {
		end := len(content)
		if i < len(marks)-1 {
			end = marks[i+1][0]
		}

		marker := content[mark[2]:mark[3]]
		title := strings.TrimSpace(content[mark[4]:mark[5]])
		if title == "" {
			title = strings.TrimSpace(marker)
		}

		sections = append(sections, manualSection{
			title: title,
			level: headerLevel(marker),
			span:  blockSpan{text: content[mark[0]:end], start: mark[0], end: end},
		})
	}
	return sections
}

// headerLevel derives nesting depth from the heading marker: markdown
// hash count, dotted-number depth, or 1 for everything else.
func headerLevel(marker string) int {
	marker = strings.TrimSpace(marker)

	if strings.HasPrefix(marker, "#") {
		return strings.Count(marker, "#")
	}
	if dottedNumbers.MatchString(marker) {
		return strings.Count(marker, ".") + 1
	}
	return 1
}

// findParent scans backwards for the nearest shallower section.
func (s *Manual) findParent(sections []manualSection, current manualSection) string {
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].span.start >= current.span.start {
			continue
		}
		if sections[i].level < current.level {
			return sections[i].title
		}
	}
	return ""
}

// countSubsections counts the immediately deeper headings nested under
// section idx, stopping at the next heading of the same or a shallower
// level. Section spans end at the following heading, so nesting must be
// read from the ordered heading list, not from span containment.
func (s *Manual) countSubsections(sections []manualSection, idx int) int {
	current := sections[idx]
	count := 0
	for _, other := range sections[idx+1:] {
		if other.level <= current.level {
			break
		}
		if other.level == current.level+1 {
			count++
		}
	}
	return count
}

// ValidateContent reports manuals without usable sectioning.
func (s *Manual) ValidateContent(content string) []string {
	var issues []string

	header := s.detectHeaderScheme(content)
	if header == nil {
		issues = append(issues, "no section headings found - content will fall back to size-based chunking")
		return issues
	}

	if len(header.FindAllString(content, -1)) < 2 {
		issues = append(issues, "only one section heading found - sections may be too large")
	}
	return issues
}

// CreateTemplate renders an example manual.
func (s *Manual) CreateTemplate(cfg client.Config) string {
	return templateHeader(s.Name(), cfg) +
		"# Getting Started\n\n" +
		"Introduce the product and what this manual covers.\n\n" +
		"## Installation\n\n" +
		"Step 1: Download the installer.\n" +
		"Step 2: Run the installer and follow the prompts.\n\n" +
		"## Configuration\n\n" +
		"Describe the settings users need to adjust after installing.\n"
}
