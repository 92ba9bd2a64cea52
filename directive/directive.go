// Package directive parses the processing header embedded at the top of
// .rag documents: an optional interpreter marker line followed by
// @-prefixed key/value lines.
package directive

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	apperrors "github.com/erickva/rag-processor/pkg/errors"
)

// InterpreterMarker is the shebang-style first line of a .rag file.
const InterpreterMarker = "#!/usr/bin/env rag-processor"

const directivePrefix = "@"

// Directive holds the parsed processing instructions from a document header.
type Directive struct {
	Strategy  string                 `json:"strategy,omitempty"`
	SourceURL string                 `json:"source_url,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

var (
	strategyPattern  = regexp.MustCompile(`^@strategy:\s*(.+)$`)
	sourceURLPattern = regexp.MustCompile(`^@source-url:\s*(.+)$`)
	metadataPattern  = regexp.MustCompile(`^@metadata:\s*(.+)$`)
)

// Parser extracts processing directives and body text from raw documents.
type Parser struct{}

// NewParser creates a directive parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the directive header from document content. Malformed JSON
// in the metadata directive is a hard failure; unrecognized directive
// keys are ignored for forward compatibility.
func (p *Parser) Parse(content string) (*Directive, error) {
	headerLines, _ := p.splitHeader(content)
	directive := &Directive{Metadata: map[string]interface{}{}}

	for _, line := range headerLines {
		if m := strategyPattern.FindStringSubmatch(line); m != nil {
			directive.Strategy = strings.TrimSpace(m[1])
			continue
		}
		if m := sourceURLPattern.FindStringSubmatch(line); m != nil {
			directive.SourceURL = strings.TrimSpace(m[1])
			continue
		}
		if m := metadataPattern.FindStringSubmatch(line); m != nil {
			var parsed map[string]interface{}
			if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &parsed); err != nil {
				return nil, apperrors.Wrap(err, apperrors.DirectiveError, "INVALID_DIRECTIVE",
					"invalid JSON in metadata directive")
			}
			directive.Metadata = parsed
		}
	}

	return directive, nil
}

// ExtractContent returns the document body without the directive header.
func (p *Parser) ExtractContent(content string) string {
	_, body := p.splitHeader(content)
	return strings.TrimSpace(body)
}

// splitHeader is the single canonical header scan shared by Parse and
// ExtractContent. The header consists of leading interpreter-marker and
// @-prefixed lines; the first line that is neither ends the header and
// starts the body.
func (p *Parser) splitHeader(content string) (headerLines []string, body string) {
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#!/") {
			continue
		}
		if strings.HasPrefix(trimmed, directivePrefix) {
			headerLines = append(headerLines, trimmed)
			continue
		}
		return headerLines, strings.Join(lines[i:], "\n")
	}

	return headerLines, ""
}

// CreateHeader renders a directive back into a .rag file header. The
// output round-trips through Parse.
func (p *Parser) CreateHeader(d *Directive) (string, error) {
	lines := []string{InterpreterMarker}

	if d.Strategy != "" {
		lines = append(lines, fmt.Sprintf("@strategy: %s", d.Strategy))
	}
	if d.SourceURL != "" {
		lines = append(lines, fmt.Sprintf("@source-url: %s", d.SourceURL))
	}
	if len(d.Metadata) > 0 {
		encoded, err := json.Marshal(d.Metadata)
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.DirectiveError, "INVALID_DIRECTIVE",
				"metadata is not JSON-serializable")
		}
		lines = append(lines, fmt.Sprintf("@metadata: %s", encoded))
	}

	return strings.Join(lines, "\n") + "\n\n", nil
}

// ValidateDirective checks a directive for common authoring mistakes.
func (p *Parser) ValidateDirective(d *Directive) []string {
	var issues []string

	if d.Strategy != "" && !strings.Contains(d.Strategy, "/") {
		issues = append(issues, "strategy must be in format 'category/method'")
	}
	if d.SourceURL != "" && !strings.HasPrefix(d.SourceURL, "http://") && !strings.HasPrefix(d.SourceURL, "https://") {
		issues = append(issues, "source URL must be a valid HTTP/HTTPS URL")
	}

	return issues
}
