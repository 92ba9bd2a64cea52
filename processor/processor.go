// Package processor orchestrates document processing: directive
// parsing, validation, strategy selection, and chunking.
package processor

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erickva/rag-processor/analyzer"
	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/directive"
	apperrors "github.com/erickva/rag-processor/pkg/errors"
	"github.com/erickva/rag-processor/pkg/logger"
	"github.com/erickva/rag-processor/pkg/metrics"
	"github.com/erickva/rag-processor/strategy"
	"github.com/erickva/rag-processor/textchunk"
	"github.com/erickva/rag-processor/validation"
)

// typeStrategies maps a detected document type to its processing
// strategy. The generic structured type instead uses the analyzer's
// variant recommendation.
var typeStrategies = map[analyzer.DocumentType]string{
	analyzer.ProductCatalog:    "products/semantic-boundary",
	analyzer.UserManual:        "manual/section-based",
	analyzer.FAQ:               "faq/qa-pairs",
	analyzer.Article:           "article/sentence-based",
	analyzer.LegalDocument:     "legal/paragraph-based",
	analyzer.CodeDocumentation: "code/function-based",
}

const fallbackStrategy = "article/sentence-based"

// Result is the outcome of processing one document.
type Result struct {
	ID           string                 `json:"id"`
	SourceFile   string                 `json:"source_file,omitempty"`
	Strategy     string                 `json:"strategy"`
	DocumentType string                 `json:"document_type,omitempty"`
	Confidence   float64                `json:"confidence,omitempty"`
	Chunks       []textchunk.Chunk      `json:"chunks"`
	Validation   *validation.Result     `json:"validation"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Duration     time.Duration          `json:"duration_ns"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Processor wires the analyzer, validator, and strategy registry
// together. It is safe to share across goroutines after registration
// is done.
type Processor struct {
	parser     *directive.Parser
	analyzer   *analyzer.Analyzer
	validator  *validation.Engine
	strategies map[string]strategy.Strategy
	clients    map[string]client.Config
	log        *logger.Logger
}

// New creates a processor with all built-in strategies and the default
// client configuration registered.
func New() *Processor {
	p := &Processor{
		parser:     directive.NewParser(),
		analyzer:   analyzer.New(),
		strategies: make(map[string]strategy.Strategy),
		clients:    make(map[string]client.Config),
		log:        logger.Get(),
	}

	for _, s := range []strategy.Strategy{
		strategy.NewEmptyLineSeparated(),
		strategy.NewHeadingSeparated(),
		strategy.NewNumberedSeparated(),
		strategy.NewProducts(),
		strategy.NewManual(),
		strategy.NewFAQ(),
		strategy.NewArticle(),
		strategy.NewLegal(),
		strategy.NewCode(),
	} {
		p.RegisterStrategy(s)
	}
	p.RegisterClient(client.NewDefault())

	p.validator = validation.NewEngine(func(name string) (strategy.Strategy, bool) {
		s, ok := p.strategies[name]
		return s, ok
	})

	return p
}

// RegisterStrategy adds or replaces a strategy under its own name.
func (p *Processor) RegisterStrategy(s strategy.Strategy) {
	p.strategies[s.Name()] = s
}

// RegisterClient adds or replaces a client configuration.
func (p *Processor) RegisterClient(cfg client.Config) {
	p.clients[cfg.Name()] = cfg
}

// AvailableStrategies lists registered strategy names, sorted.
func (p *Processor) AvailableStrategies() []string {
	names := make([]string, 0, len(p.strategies))
	for name := range p.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableClients lists registered client configuration names, sorted.
func (p *Processor) AvailableClients() []string {
	names := make([]string, 0, len(p.clients))
	for name := range p.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strategy returns a registered strategy by name.
func (p *Processor) Strategy(name string) (strategy.Strategy, bool) {
	s, ok := p.strategies[name]
	return s, ok
}

// Client returns a registered client configuration, falling back to the
// default one.
func (p *Processor) Client(name string) client.Config {
	if cfg, ok := p.clients[name]; ok {
		return cfg
	}
	return p.clients["default"]
}

// ProcessContent processes a raw document (directive header included)
// and returns its chunks.
func (p *Processor) ProcessContent(ctx context.Context, content string) (*Result, error) {
	return p.process(ctx, content, "", "default")
}

// ProcessFile reads and processes a .rag file. Other extensions are
// rejected so callers cannot accidentally feed binary formats through
// text chunking.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	if filepath.Ext(path) != config.RAGFileExtension {
		return nil, apperrors.NewFileExtensionError(path, config.RAGFileExtension)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewFileNotFoundError(path)
		}
		return nil, apperrors.Wrap(err, apperrors.FileError, "FILE_READ", "could not read document")
	}

	return p.process(ctx, string(data), path, "default")
}

// ProcessForClient processes content under a named client configuration.
func (p *Processor) ProcessForClient(ctx context.Context, content, clientName string) (*Result, error) {
	return p.process(ctx, content, "", clientName)
}

func (p *Processor) process(ctx context.Context, content, sourceFile, clientName string) (*Result, error) {
	started := time.Now()
	ctx = logger.WithCorrelationID(ctx)
	p.log.LogProcessingStart(ctx, sourceFile, len(content))

	d, err := p.parser.Parse(content)
	if err != nil {
		return nil, err
	}
	body := p.parser.ExtractContent(content)
	cfg := p.Client(clientName)

	// Content-quality findings are data, not errors: the document is
	// still chunked and the caller decides what to do with an invalid
	// result. Only structural failures abort processing.
	validationResult := p.validator.ValidateForClient(content, cfg)
	p.log.LogValidationResult(ctx, validationResult.Valid,
		len(validationResult.Issues), validationResult.QualityScore)

	analysis := p.analyzer.Analyze(body)

	selected, err := p.selectStrategy(d, analysis)
	if err != nil {
		return nil, err
	}

	chunks := selected.Process(body, d, cfg)
	if len(chunks) == 0 && validationResult.Valid {
		return nil, apperrors.NewProcessingError("strategy produced no chunks").
			WithContext("strategy", selected.Name())
	}

	elapsed := time.Since(started)
	p.log.LogProcessingComplete(ctx, sourceFile, selected.Name(), len(chunks), elapsed)
	metrics.ObserveProcessing(selected.Name(), len(chunks), validationResult.Valid, elapsed)

	metadata := map[string]interface{}{
		"client": cfg.Name(),
	}
	if d.SourceURL != "" {
		metadata["source_url"] = d.SourceURL
	}
	for k, v := range d.Metadata {
		metadata[k] = v
	}

	return &Result{
		ID:           uuid.New().String(),
		SourceFile:   sourceFile,
		Strategy:     selected.Name(),
		DocumentType: string(analysis.DocumentType),
		Confidence:   analysis.Confidence,
		Chunks:       chunks,
		Validation:   validationResult,
		Metadata:     metadata,
		Duration:     elapsed,
		CreatedAt:    started.UTC(),
	}, nil
}

// selectStrategy picks the strategy: an explicit directive wins, then a
// confident auto-detection, then the sentence-based fallback.
func (p *Processor) selectStrategy(d *directive.Directive, analysis *analyzer.Analysis) (strategy.Strategy, error) {
	if d != nil && d.Strategy != "" {
		s, ok := p.strategies[d.Strategy]
		if !ok {
			return nil, apperrors.NewUnknownStrategyError(d.Strategy).
				WithContext("available", p.AvailableStrategies())
		}
		return s, nil
	}

	if analysis.Confidence >= config.HighConfidenceThreshold {
		name := analysis.RecommendedStrategy
		if mapped, ok := typeStrategies[analysis.DocumentType]; ok {
			name = mapped
		}
		if s, ok := p.strategies[name]; ok {
			return s, nil
		}
	}

	s, ok := p.strategies[fallbackStrategy]
	if !ok {
		return nil, apperrors.New(apperrors.StrategyError, "NO_STRATEGY", config.ErrNoStrategyMsg)
	}
	return s, nil
}

// AnalyzeDocument runs type detection on a raw document without
// processing it.
func (p *Processor) AnalyzeDocument(content string) (*analyzer.Analysis, error) {
	if _, err := p.parser.Parse(content); err != nil {
		return nil, err
	}
	return p.analyzer.Analyze(p.parser.ExtractContent(content)), nil
}

// ValidateDocument runs the validation passes without processing.
func (p *Processor) ValidateDocument(content string) *validation.Result {
	return p.validator.Validate(content)
}

// CreateTemplate renders an example document for a strategy, using the
// named client's template metadata.
func (p *Processor) CreateTemplate(strategyName, clientName string) (string, error) {
	s, ok := p.strategies[strategyName]
	if !ok {
		return "", apperrors.NewUnknownStrategyError(strategyName).
			WithContext("available", p.AvailableStrategies())
	}
	return s.CreateTemplate(p.Client(clientName)), nil
}

// SuggestImprovements returns authoring suggestions for a document.
func (p *Processor) SuggestImprovements(content string) []string {
	body := p.parser.ExtractContent(content)
	analysis := p.analyzer.Analyze(body)

	suggestions := p.analyzer.SuggestImprovements(analysis)
	if !strings.Contains(content, directive.InterpreterMarker) {
		level := p.analyzer.ConfidenceLevel(analysis.Confidence)
		if level != "High" {
			suggestions = append(suggestions,
				"Add an explicit @strategy directive to skip auto-detection")
		}
	}
	return suggestions
}
