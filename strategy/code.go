package strategy

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/directive"
	"github.com/erickva/rag-processor/textchunk"
)

// codeBoundaries are tried in order; the first with at least two
// matches defines the unit of documentation.
var codeBoundaries = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{2,6}\s+`),
	regexp.MustCompile(`(?m)^(?:def|func|function)\s+\w+\s*\(`),
	regexp.MustCompile(`(?m)^class\s+\w+`),
}

var (
	functionName = regexp.MustCompile(`(?m)^(?:def|func|function)\s+(\w+)\s*\(`)
	paramTag     = regexp.MustCompile(`@param\b`)
	returnTag    = regexp.MustCompile(`@returns?\b`)
)

// Code chunks API and code documentation so each chunk covers one
// documented function, class, or section.
type Code struct {
	markdown goldmark.Markdown
}

// NewCode creates the code documentation strategy.
func NewCode() *Code {
	return &Code{markdown: goldmark.New()}
}

func (s *Code) Name() string { return "code/function-based" }

func (s *Code) Description() string {
	return "Splits code documentation at function, class, and section boundaries"
}

func (s *Code) DefaultPattern() *regexp.Regexp { return codeBoundaries[0] }
func (s *Code) DefaultOverlap() int            { return config.CodeChunkOverlap }

// Process splits content at documentation unit boundaries. Each chunk
// records the languages of its fenced code blocks and any documented
// function names.
func (s *Code) Process(content string, d *directive.Directive, cfg client.Config) []textchunk.Chunk {
	boundary := s.detectBoundary(content)
	if boundary == nil {
		return sizeFallback(content, s.Name(), config.MaximumChunkSize, s.DefaultOverlap())
	}

	spans := splitAtBoundaries(content, boundary)

	var chunks []textchunk.Chunk
	for _, span := range spans {
		text := strings.TrimSpace(span.text)
		if len(text) < config.MinimumChunkSize {
			continue
		}

		if len(text) > config.MaximumChunkSize {
			sub := sizeFallback(text, s.Name(), config.MaximumChunkSize, s.DefaultOverlap())
			for i := range sub {
				sub[i].StartPos += span.start
				sub[i].EndPos += span.start
				sub[i].Metadata["chunk_index"] = len(chunks)
				s.annotate(sub[i].Text, sub[i].Metadata)
				chunks = append(chunks, sub[i])
			}
			continue
		}

		extra := map[string]interface{}{}
		s.annotate(text, extra)
		chunks = append(chunks, newChunk(text, span.start, span.end, len(chunks), s.Name(), extra))
	}

	if len(chunks) == 0 {
		return sizeFallback(content, s.Name(), config.MaximumChunkSize, s.DefaultOverlap())
	}
	return chunks
}

// detectBoundary returns the first boundary pattern that yields at
// least two documentation units.
func (s *Code) detectBoundary(content string) *regexp.Regexp {
	for _, boundary := range codeBoundaries {
		if len(boundary.FindAllString(content, -1)) >= 2 {
			return boundary
		}
	}
	for _, boundary := range codeBoundaries {
		if boundary.MatchString(content) {
			return boundary
		}
	}
	return nil
}

// annotate fills code-specific metadata for one chunk.
func (s *Code) annotate(text string, metadata map[string]interface{}) {
	metadata["content_type"] = "code_documentation"

	if languages := s.fenceLanguages(text); len(languages) > 0 {
		metadata["code_languages"] = languages
		metadata["has_code"] = true
	} else {
		metadata["has_code"] = strings.Contains(text, "```")
	}

	if names := functionName.FindAllStringSubmatch(text, -1); len(names) > 0 {
		functions := make([]string, 0, len(names))
		for _, m := range names {
			functions = append(functions, m[1])
		}
		metadata["functions"] = functions
	}

	metadata["has_param_docs"] = paramTag.MatchString(text) || returnTag.MatchString(text)
}

// fenceLanguages parses the chunk as markdown and collects the info
// strings of its fenced code blocks.
func (s *Code) fenceLanguages(chunkText string) []string {
	source := []byte(chunkText)
	doc := s.markdown.Parser().Parse(text.NewReader(source))

	seen := map[string]bool{}
	var languages []string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fc, ok := n.(*ast.FencedCodeBlock); ok {
			if lang := fc.Language(source); lang != nil {
				name := string(lang)
				if !seen[name] {
					seen[name] = true
					languages = append(languages, name)
				}
			}
		}
		return ast.WalkContinue, nil
	})

	return languages
}

// ValidateContent reports documentation without recognizable units.
func (s *Code) ValidateContent(content string) []string {
	var issues []string

	if s.detectBoundary(content) == nil {
		issues = append(issues, "no function, class, or section boundaries found")
	}
	if !strings.Contains(content, "```") && !functionName.MatchString(content) {
		issues = append(issues, "no code blocks or signatures detected - verify this is code documentation")
	}

	return issues
}

// CreateTemplate renders an example documentation page.
func (s *Code) CreateTemplate(cfg client.Config) string {
	return templateHeader(s.Name(), cfg) +
		"## connect\n\n" +
		"Opens a connection to the service.\n\n" +
		"```go\n" +
		"func connect(addr string) (*Conn, error)\n" +
		"```\n\n" +
		"@param addr the service address\n" +
		"@return an open connection or an error\n\n" +
		"## close\n\n" +
		"Closes an open connection and releases its resources.\n"
}
