package strategy

import (
	"regexp"
	"strings"

	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/directive"
	"github.com/erickva/rag-processor/textchunk"
)

// legalSectionPatterns are tried in order; the first with matches
// defines the sectioning scheme. The all-caps pattern stays
// case-sensitive on purpose.
var legalSectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^(?:Article|Artigo)\s+\d+`),
	regexp.MustCompile(`(?im)^(?:Section|Seção)\s+\d+`),
	regexp.MustCompile(`(?m)^\d+\.\s+[A-Z]`),
	regexp.MustCompile(`(?m)^[A-Z][A-Z\s]{5,}$`),
}

var (
	legalSubsection = regexp.MustCompile(`(?m)^\s*\d+\.\d+\s+`)
	legalTerms      = map[string]*regexp.Regexp{
		"shall":       regexp.MustCompile(`(?i)\bshall\b`),
		"whereas":     regexp.MustCompile(`(?i)\bwhereas\b|\bconsiderando\b`),
		"hereby":      regexp.MustCompile(`(?i)\bhereby\b`),
		"liability":   regexp.MustCompile(`(?i)\bliability\b|\bresponsabilidade\b`),
		"termination": regexp.MustCompile(`(?i)\btermination\b|\brescisão\b`),
	}
)

// legalCategories map keyword presence to a section classification,
// checked in order.
var legalCategories = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"definitions", regexp.MustCompile(`(?i)definition|means|shall mean|definição`)},
	{"obligations", regexp.MustCompile(`(?i)obligation|shall provide|must|responsibilit|obrigação`)},
	{"termination", regexp.MustCompile(`(?i)termination|terminate|expiry|rescisão`)},
	{"payment", regexp.MustCompile(`(?i)payment|fee|invoice|compensation|pagamento`)},
	{"liability", regexp.MustCompile(`(?i)liability|liable|indemnif|damages|responsabilidade`)},
	{"dispute_resolution", regexp.MustCompile(`(?i)dispute|arbitration|mediation|litígio`)},
	{"governing_law", regexp.MustCompile(`(?i)governing law|jurisdiction|applicable law|lei aplicável`)},
}

// Legal chunks contracts and policies by clause structure, keeping each
// numbered article or section whole where size permits.
type Legal struct{}

// NewLegal creates the legal strategy.
func NewLegal() *Legal {
	return &Legal{}
}

func (s *Legal) Name() string { return "legal/paragraph-based" }

func (s *Legal) Description() string {
	return "Splits legal documents at article and section boundaries with clause classification"
}

func (s *Legal) DefaultPattern() *regexp.Regexp { return legalSectionPatterns[0] }
func (s *Legal) DefaultOverlap() int            { return config.LegalChunkOverlap }

// Process splits content at the first matching section scheme.
// Oversized sections are re-split at numbered subsections, or by
// paragraph accumulation when there are none. Documents without any
// section structure get plain paragraph accumulation.
func (s *Legal) Process(content string, d *directive.Directive, cfg client.Config) []textchunk.Chunk {
	scheme := s.detectScheme(content)
	if scheme == nil {
		return s.processParagraphs(content, nil)
	}

	sections := splitAtBoundaries(content, scheme)

	var chunks []textchunk.Chunk
	for _, section := range sections {
		text := strings.TrimSpace(section.text)
		if len(text) < config.MinimumChunkSize {
			continue
		}

		if len(text) > config.MaximumChunkSize {
			chunks = append(chunks, s.splitLargeSection(section, len(chunks))...)
			continue
		}

		chunks = append(chunks, newChunk(text, section.start, section.end, len(chunks), s.Name(),
			s.legalMetadata(text)))
	}

	if len(chunks) == 0 {
		return s.processParagraphs(content, nil)
	}
	return chunks
}

// detectScheme returns the first section pattern that matches.
func (s *Legal) detectScheme(content string) *regexp.Regexp {
	for _, pattern := range legalSectionPatterns {
		if pattern.MatchString(content) {
			return pattern
		}
	}
	return nil
}

// splitLargeSection re-splits an oversized section at numbered
// subsections when present, otherwise by paragraph accumulation.
func (s *Legal) splitLargeSection(section blockSpan, baseIndex int) []textchunk.Chunk {
	if legalSubsection.MatchString(section.text) {
		subs := splitAtBoundaries(section.text, legalSubsection)

		var chunks []textchunk.Chunk
		for _, sub := range subs {
			text := strings.TrimSpace(sub.text)
			if len(text) < config.MinimumChunkSize {
				continue
			}
			chunk := newChunk(text, section.start+sub.start, section.start+sub.end,
				baseIndex+len(chunks), s.Name(), s.legalMetadata(text))
			chunk.Metadata["subsection"] = true
			chunks = append(chunks, chunk)
		}
		if len(chunks) > 0 {
			return chunks
		}
	}

	return s.processParagraphs(section.text, &section)
}

// processParagraphs accumulates blank-line paragraphs up to 1500
// characters per chunk.
func (s *Legal) processParagraphs(content string, parent *blockSpan) []textchunk.Chunk {
	const accumulationLimit = 1500

	offset := 0
	if parent != nil {
		offset = parent.start
	}

	paragraphs := splitBetween(content, regexp.MustCompile(`\n\s*\n`))

	var chunks []textchunk.Chunk
	var current []blockSpan
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		parts := make([]string, len(current))
		for i, p := range current {
			parts[i] = strings.TrimSpace(p.text)
		}
		text := strings.Join(parts, "\n\n")

		if len(text) >= config.MinimumChunkSize {
			chunks = append(chunks, newChunk(text,
				offset+current[0].start, offset+current[len(current)-1].end,
				len(chunks), s.Name(), s.legalMetadata(text)))
		}
		current = nil
		currentLen = 0
	}

	for _, para := range paragraphs {
		if currentLen > 0 && currentLen+len(para.text) > accumulationLimit {
			flush()
		}
		current = append(current, para)
		currentLen += len(para.text)
	}
	flush()

	return chunks
}

// legalMetadata classifies a clause and counts signal terms.
func (s *Legal) legalMetadata(text string) map[string]interface{} {
	termCounts := make(map[string]int, len(legalTerms))
	for term, pattern := range legalTerms {
		if count := len(pattern.FindAllString(text, -1)); count > 0 {
			termCounts[term] = count
		}
	}

	extra := map[string]interface{}{
		"content_type":  "legal_clause",
		"clause_type":   classifyClause(text),
		"section_title": firstLine(text),
	}
	if len(termCounts) > 0 {
		extra["legal_terms"] = termCounts
	}
	return extra
}

// classifyClause labels a section by the first matching category.
func classifyClause(text string) string {
	for _, category := range legalCategories {
		if category.pattern.MatchString(text) {
			return category.name
		}
	}
	return "general"
}

// ValidateContent reports documents without legal structure.
func (s *Legal) ValidateContent(content string) []string {
	var issues []string

	if s.detectScheme(content) == nil {
		issues = append(issues, "no article or section structure found - paragraph accumulation will be used")
	}

	hasTerms := false
	for _, pattern := range legalTerms {
		if pattern.MatchString(content) {
			hasTerms = true
			break
		}
	}
	if !hasTerms {
		issues = append(issues, "no legal terminology detected - verify this is a legal document")
	}

	return issues
}

// CreateTemplate renders an example legal document.
func (s *Legal) CreateTemplate(cfg client.Config) string {
	return templateHeader(s.Name(), cfg) +
		"Article 1. Definitions\n\n" +
		"In this Agreement, the following terms shall have the meanings set out below.\n\n" +
		"Article 2. Obligations\n\n" +
		"The Provider shall deliver the services described in Schedule A.\n\n" +
		"Article 3. Termination\n\n" +
		"Either party may terminate this Agreement with thirty days written notice.\n"
}
