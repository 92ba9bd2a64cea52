// Package validation checks documents before processing: encoding,
// length, structure, directive correctness, client rules, strategy
// fit, and an aggregate quality score.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/erickva/rag-processor/analyzer"
	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/directive"
	"github.com/erickva/rag-processor/strategy"
)

// Level grades a validation issue.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Issue is one validation finding.
type Issue struct {
	Level      Level  `json:"level"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result is the outcome of validating one document. A document is valid
// when it has no error-level issues.
type Result struct {
	Valid        bool    `json:"valid"`
	Issues       []Issue `json:"issues"`
	QualityScore float64 `json:"quality_score"`
	Strategy     string  `json:"strategy,omitempty"`
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int { return r.countLevel(LevelError) }

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int { return r.countLevel(LevelWarning) }

// InfoCount returns the number of info-level issues.
func (r *Result) InfoCount() int { return r.countLevel(LevelInfo) }

func (r *Result) countLevel(level Level) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Level == level {
			count++
		}
	}
	return count
}

func (r *Result) addIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// pasteArtifacts are characters that betray a lossy copy-paste from a
// word processor or a broken decode. One warning per distinct artifact.
var pasteArtifacts = []struct {
	char        string
	description string
}{
	{"�", "Unicode replacement characters"},
	{"\u00a0", "non-breaking spaces"},
	{"“", "smart double quotes"},
	{"‘", "smart single quotes"},
}

// ocrArtifacts are patterns that show up in badly OCR-scanned text.
// Each is only reported when it occurs often enough to be systematic.
var ocrArtifacts = []struct {
	pattern     *regexp.Regexp
	description string
}{
	{regexp.MustCompile(`\b[a-z]\s[a-z]\s[a-z]\b`), "single letters separated by spaces"},
	{regexp.MustCompile(`\b\d\s\d\s\d\b`), "single digits separated by spaces"},
	{regexp.MustCompile(`[Il1|]{3,}`), "runs of easily-confused characters (I, l, 1, |)"},
}

const (
	ocrArtifactThreshold = 5
	longLineThreshold    = 500
	nearEmptyLineRatio   = 0.3
)

var (
	paragraphGap = regexp.MustCompile(`\n\s*\n`)
	sentenceMark = regexp.MustCompile(`[.!?]+`)
)

// StrategyLookup resolves a strategy name for fit checking. A nil
// lookup skips strategy-specific validation.
type StrategyLookup func(name string) (strategy.Strategy, bool)

// Engine runs the validation passes.
type Engine struct {
	parser   *directive.Parser
	analyzer *analyzer.Analyzer
	lookup   StrategyLookup
}

// NewEngine creates a validation engine. lookup may be nil.
func NewEngine(lookup StrategyLookup) *Engine {
	return &Engine{
		parser:   directive.NewParser(),
		analyzer: analyzer.New(),
		lookup:   lookup,
	}
}

// Validate runs every pass under the default client configuration.
func (e *Engine) Validate(content string) *Result {
	return e.ValidateForClient(content, client.NewDefault())
}

// ValidateForClient runs every pass over a raw document (directive
// header included) and returns the aggregated result.
func (e *Engine) ValidateForClient(content string, cfg client.Config) *Result {
	result := &Result{}

	if !utf8.ValidString(content) {
		result.addIssue(Issue{
			Level:      LevelError,
			Code:       "INVALID_ENCODING",
			Message:    config.ErrInvalidEncodingMsg,
			Suggestion: "Re-save the file as UTF-8",
		})
		result.Valid = false
		return result
	}

	body := e.parser.ExtractContent(content)
	analysis := e.analyzer.Analyze(body)

	e.checkUniversal(body, result)
	e.checkArtifacts(body, result)
	e.checkStructure(body, result)
	strategyIssues := e.validateDirective(content, analysis, result)
	e.checkClientRules(body, string(analysis.DocumentType), cfg, result)
	result.QualityScore = e.scoreQuality(body, strategyIssues, result)

	result.Valid = result.ErrorCount() == 0
	return result
}

// ValidateDirectiveOnly checks just the directive header, for fast
// feedback in editors.
func (e *Engine) ValidateDirectiveOnly(content string) *Result {
	result := &Result{}
	body := e.parser.ExtractContent(content)
	e.validateDirective(content, e.analyzer.Analyze(body), result)
	result.Valid = result.ErrorCount() == 0
	return result
}

// checkUniversal enforces the hard floor on document substance.
func (e *Engine) checkUniversal(body string, result *Result) {
	if strings.TrimSpace(body) == "" {
		result.addIssue(Issue{
			Level:      LevelError,
			Code:       "EMPTY_DOCUMENT",
			Message:    "document body is empty or whitespace-only",
			Suggestion: "Add content below the directive header",
		})
		return
	}

	if len(body) < config.MinimumDocumentLength {
		result.addIssue(Issue{
			Level:      LevelError,
			Code:       "DOCUMENT_TOO_SHORT",
			Message:    config.ErrDocumentTooShortMsg,
			Suggestion: "Add more content or merge with a related document",
		})
	}

	// Blank lines are paragraph structure; only non-empty fragments
	// count as corruption.
	lines := strings.Split(body, "\n")
	nearEmpty := 0
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" && len(trimmed) < 3 {
			nearEmpty++
		}
	}
	if len(lines) > 3 && float64(nearEmpty)/float64(len(lines)) > nearEmptyLineRatio {
		result.addIssue(Issue{
			Level:      LevelWarning,
			Code:       "FORMATTING_CORRUPTION",
			Message:    fmt.Sprintf("%d of %d lines are near-empty", nearEmpty, len(lines)),
			Suggestion: "The document may have broken line wrapping",
		})
	}
}

// checkArtifacts flags copy-paste and OCR residue.
func (e *Engine) checkArtifacts(body string, result *Result) {
	for _, artifact := range pasteArtifacts {
		if strings.Contains(body, artifact.char) {
			result.addIssue(Issue{
				Level:      LevelWarning,
				Code:       "PASTE_ARTIFACTS",
				Message:    fmt.Sprintf("document contains %s", artifact.description),
				Suggestion: "Clean up characters introduced by copy-paste",
			})
		}
	}

	for _, artifact := range ocrArtifacts {
		count := len(artifact.pattern.FindAllString(body, -1))
		if count > ocrArtifactThreshold {
			result.addIssue(Issue{
				Level:      LevelInfo,
				Code:       "OCR_ARTIFACTS",
				Message:    fmt.Sprintf("found %d occurrences of %s", count, artifact.description),
				Suggestion: "Content may come from OCR - consider cleaning it up",
			})
		}
	}
}

// checkStructure flags layouts that chunk poorly.
func (e *Engine) checkStructure(body string, result *Result) {
	longLines := 0
	for _, line := range strings.Split(body, "\n") {
		if len(line) > longLineThreshold {
			longLines++
		}
	}
	if longLines > 0 {
		result.addIssue(Issue{
			Level:      LevelWarning,
			Code:       "LONG_LINES",
			Message:    fmt.Sprintf("%d line(s) exceed %d characters", longLines, longLineThreshold),
			Suggestion: "Break very long lines into paragraphs",
		})
	}

	if len(body) > 1000 && !paragraphGap.MatchString(body) {
		result.addIssue(Issue{
			Level:      LevelWarning,
			Code:       "NO_PARAGRAPHS",
			Message:    "no blank-line paragraph breaks in a long document",
			Suggestion: "Separate logical sections with blank lines",
		})
	}
}

// validateDirective parses the header, checks its fields, and runs
// strategy fit checks. It returns the strategy's content issues for
// quality scoring.
func (e *Engine) validateDirective(content string, analysis *analyzer.Analysis, result *Result) []string {
	d, err := e.parser.Parse(content)
	if err != nil {
		result.addIssue(Issue{
			Level:      LevelError,
			Code:       "INVALID_DIRECTIVE",
			Message:    config.ErrInvalidDirectiveMsg,
			Suggestion: "Check that @metadata holds a valid JSON object",
		})
		return nil
	}

	for _, problem := range e.parser.ValidateDirective(d) {
		result.addIssue(Issue{
			Level:   LevelWarning,
			Code:    "DIRECTIVE_FORMAT",
			Message: problem,
		})
	}

	if len(d.Metadata) > 0 {
		for _, key := range []string{"document_type", "version"} {
			if _, ok := d.Metadata[key]; !ok {
				result.addIssue(Issue{
					Level:   LevelInfo,
					Code:    "METADATA_RECOMMENDED",
					Message: fmt.Sprintf("metadata key %q is recommended", key),
				})
			}
		}
	}

	strategyName := d.Strategy
	if strategyName == "" && analysis.Confidence >= config.HighConfidenceThreshold {
		strategyName = analysis.RecommendedStrategy
	}
	result.Strategy = strategyName

	if strategyName == "" || e.lookup == nil {
		return nil
	}

	s, ok := e.lookup(strategyName)
	if !ok {
		result.addIssue(Issue{
			Level:      LevelWarning,
			Code:       "UNKNOWN_STRATEGY",
			Message:    fmt.Sprintf("strategy %q is not registered", strategyName),
			Suggestion: "Use one of the registered strategies or remove the directive",
		})
		return nil
	}

	body := e.parser.ExtractContent(content)
	issues := s.ValidateContent(body)
	for _, problem := range issues {
		result.addIssue(Issue{
			Level:   LevelWarning,
			Code:    "STRATEGY_FIT",
			Message: problem,
		})
	}
	return issues
}

var fieldValueLine = regexp.MustCompile(`(?im)^([a-zA-Z][a-zA-Z\s]*?):\s*([^\n]*)$`)

// checkClientRules applies the deployment-specific overrides: length
// floor, required fields, and field format patterns.
func (e *Engine) checkClientRules(body, docType string, cfg client.Config, result *Result) {
	if cfg == nil {
		return
	}
	rules := cfg.ValidationRules()

	if rules.MinDocumentLength > config.MinimumDocumentLength && len(body) < rules.MinDocumentLength {
		result.addIssue(Issue{
			Level:   LevelWarning,
			Code:    "CLIENT_MIN_LENGTH",
			Message: fmt.Sprintf("client %q requires at least %d characters", cfg.Name(), rules.MinDocumentLength),
		})
	}
	if rules.MaxDocumentLength > 0 && len(body) > rules.MaxDocumentLength {
		result.addIssue(Issue{
			Level:   LevelWarning,
			Code:    "CLIENT_MAX_LENGTH",
			Message: fmt.Sprintf("client %q caps documents at %d characters", cfg.Name(), rules.MaxDocumentLength),
		})
	}

	lower := strings.ToLower(body)
	for _, field := range cfg.RequiredFields(docType) {
		if !strings.Contains(lower, strings.ToLower(field)+":") {
			result.addIssue(Issue{
				Level:      LevelWarning,
				Code:       "MISSING_REQUIRED_FIELD",
				Message:    fmt.Sprintf("required field %q not found for document type %s", field, docType),
				Suggestion: fmt.Sprintf("Add a %q line to each block", field+": value"),
			})
		}
	}

	patterns := cfg.FieldPatterns()
	if len(patterns) == 0 {
		return
	}
	for _, m := range fieldValueLine.FindAllStringSubmatch(body, -1) {
		field := strings.ToLower(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])
		if _, known := patterns[field]; !known || value == "" {
			continue
		}
		if !client.ValidateFieldFormat(cfg, field, value) {
			result.addIssue(Issue{
				Level:   LevelWarning,
				Code:    "FIELD_FORMAT",
				Message: fmt.Sprintf("value of field %q does not match the expected format", field),
			})
		}
	}
}

// scoreQuality computes the weighted quality score and files the level
// issues it implies.
func (e *Engine) scoreQuality(body string, strategyIssues []string, result *Result) float64 {
	lengthScore := scoreLength(len(body))
	structureScore := scoreStructure(body)
	languageScore := e.scoreLanguage(body, result)
	fitScore := scoreStrategyFit(len(strategyIssues))

	score := lengthScore*0.2 + structureScore*0.3 + languageScore*0.2 + fitScore*0.3

	switch {
	case score < 0.4:
		result.addIssue(Issue{
			Level:      LevelWarning,
			Code:       "LOW_QUALITY",
			Message:    fmt.Sprintf("document quality score is low (%.2f)", score),
			Suggestion: "Improve structure and sentence flow before processing",
		})
	case score > 0.8:
		result.addIssue(Issue{
			Level:   LevelInfo,
			Code:    "HIGH_QUALITY",
			Message: fmt.Sprintf("document quality score is high (%.2f)", score),
		})
	}

	return score
}

func scoreLength(length int) float64 {
	switch {
	case length < 500:
		return 0.3
	case length > 10000:
		return 0.9
	default:
		return minFloat(0.8, float64(length)/5000.0)
	}
}

func scoreStructure(body string) float64 {
	paragraphs := len(paragraphGap.FindAllString(body, -1)) + 1

	switch {
	case paragraphs < 3:
		return 0.4
	case paragraphs > 20:
		return 0.9
	default:
		return minFloat(0.8, float64(paragraphs)/10.0)
	}
}

// scoreLanguage bands average sentence length in words.
func (e *Engine) scoreLanguage(body string, result *Result) float64 {
	sentences := len(sentenceMark.FindAllString(body, -1))
	if sentences == 0 {
		return 0.2
	}

	avgWords := float64(len(strings.Fields(body))) / float64(sentences)
	switch {
	case avgWords >= 10 && avgWords <= 30:
		return 0.8
	case avgWords >= 5 && avgWords <= 50:
		return 0.6
	default:
		result.addIssue(Issue{
			Level:      LevelInfo,
			Code:       "SENTENCE_LENGTH",
			Message:    fmt.Sprintf("average sentence length is unusual (%.1f words)", avgWords),
			Suggestion: "Very short or very long sentences reduce retrieval quality",
		})
		return 0.4
	}
}

func scoreStrategyFit(issueCount int) float64 {
	switch {
	case issueCount == 0:
		return 0.9
	case issueCount <= 2:
		return 0.7
	default:
		return 0.4
	}
}

// RenderReport formats a result as a human-readable report.
func RenderReport(result *Result) string {
	var b strings.Builder

	if result.Valid {
		b.WriteString("Document is valid")
	} else {
		b.WriteString("Document is invalid")
	}
	fmt.Fprintf(&b, " (quality score %.2f)\n", result.QualityScore)

	if result.Strategy != "" {
		fmt.Fprintf(&b, "Strategy: %s\n", result.Strategy)
	}

	if len(result.Issues) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d error(s), %d warning(s), %d info\n",
		result.ErrorCount(), result.WarningCount(), result.InfoCount())
	for _, issue := range result.Issues {
		fmt.Fprintf(&b, "  [%s] %s: %s\n", strings.ToUpper(string(issue.Level)), issue.Code, issue.Message)
		if issue.Suggestion != "" {
			fmt.Fprintf(&b, "      suggestion: %s\n", issue.Suggestion)
		}
	}

	return b.String()
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
