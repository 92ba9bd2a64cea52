// Package client defines per-deployment configuration: validation
// rules, required fields, field format patterns, and template metadata
// that strategies consult while processing.
package client

import "regexp"

// Rules tunes the validation engine for one client deployment.
type Rules struct {
	MinDocumentLength  int
	MaxDocumentLength  int
	RequireDirective   bool
	AllowedStrategies  []string
	ForbiddenPatterns  []*regexp.Regexp
	RequiredMetadata   []string
	StrictFieldFormats bool
}

// Config describes one client deployment. Implementations customize
// validation and template generation without touching strategy code.
type Config interface {
	// Name identifies the client configuration.
	Name() string

	// Description summarizes the deployment this configuration serves.
	Description() string

	// ValidationRules returns the validation tuning for this client.
	ValidationRules() Rules

	// RequiredFields lists field names a document of the given type must
	// carry for this client.
	RequiredFields(documentType string) []string

	// FieldPatterns maps field names to format validation patterns.
	FieldPatterns() map[string]*regexp.Regexp

	// TemplateMetadata returns metadata to embed in generated templates.
	TemplateMetadata() map[string]interface{}

	// StrategyCustomizations returns per-strategy option overrides keyed
	// by strategy name.
	StrategyCustomizations(strategy string) map[string]interface{}
}

var defaultFieldPatterns = map[string]*regexp.Regexp{
	"title": regexp.MustCompile(`^.{3,200}$`),
	// regexp/syntax caps repeat counts at 1000, so the 10-2000 char
	// range is stacked from two repeats.
	"description": regexp.MustCompile(`(?s)^.{10,1000}.{0,1000}$`),
	"url":         regexp.MustCompile(`^https?://[^\s]+$`),
	"email":       regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
	"phone":       regexp.MustCompile(`^\+?[\d\s().-]{7,20}$`),
	"date":        regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
}

// Default is the client configuration used when no deployment-specific
// one is registered.
type Default struct{}

// NewDefault creates the default client configuration.
func NewDefault() *Default {
	return &Default{}
}

func (d *Default) Name() string        { return "default" }
func (d *Default) Description() string { return "General-purpose configuration with permissive rules" }

func (d *Default) ValidationRules() Rules {
	return Rules{
		MinDocumentLength: 100,
		MaxDocumentLength: 1_000_000,
		RequireDirective:  false,
	}
}

func (d *Default) RequiredFields(documentType string) []string {
	switch documentType {
	case "product_catalog":
		return []string{"name", "description"}
	case "faq":
		return nil
	default:
		return nil
	}
}

func (d *Default) FieldPatterns() map[string]*regexp.Regexp {
	return defaultFieldPatterns
}

func (d *Default) TemplateMetadata() map[string]interface{} {
	return map[string]interface{}{
		"client":  d.Name(),
		"version": "1.0",
	}
}

func (d *Default) StrategyCustomizations(strategy string) map[string]interface{} {
	return nil
}

// ValidateFieldFormat checks a field value against the client's pattern
// for that field. Fields without a registered pattern always pass.
func ValidateFieldFormat(cfg Config, field, value string) bool {
	pattern, ok := cfg.FieldPatterns()[field]
	if !ok {
		return true
	}
	return pattern.MatchString(value)
}
