package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productCatalogSample = `Name: Chocolate Cake
Description: Rich chocolate cake with ganache topping
Price: $45.00
Category: Desserts

Name: Vanilla Cupcake
Description: Classic vanilla cupcake with buttercream
Price: $5.50
Category: Desserts

Name: Red Velvet Cake
Description: Red velvet with cream cheese frosting
Price: $48.00
Category: Desserts`

const faqSample = `Q: How do I reset my password?
A: Click the "Forgot Password" link on the login page.

Q: Where can I find my invoices?
A: Invoices are under Account Settings, in the Billing tab.

Q: Why was my payment declined?
A: Payments are declined when the card has expired or lacks funds.`

const manualSample = `# Getting Started

## Installation

Follow the steps below to install the application on your system.

## Configuration

Step 1: Open the settings panel.
Step 2: Enter your license key.

## Troubleshooting

If the application fails to start, check the log file.`

func TestAnalyzeProductCatalog(t *testing.T) {
	a := New()
	analysis := a.Analyze(productCatalogSample)

	require.NotNil(t, analysis)
	assert.True(t, strings.HasPrefix(analysis.RecommendedStrategy, "structured-blocks/"),
		"catalog content should map to a structured-blocks strategy, got %s", analysis.RecommendedStrategy)
	assert.Greater(t, analysis.Confidence, 0.7)
	assert.NotEmpty(t, analysis.DetectedPatterns)
}

func TestAnalyzeFAQ(t *testing.T) {
	a := New()
	analysis := a.Analyze(faqSample)

	assert.Equal(t, FAQ, analysis.DocumentType)
	assert.Equal(t, "faq/qa-pairs", analysis.RecommendedStrategy)
}

func TestAnalyzeManualRecommendsHeadingSeparated(t *testing.T) {
	a := New()
	analysis := a.Analyze(manualSample)

	// Markdown headers dominate, so the recommendation must use them.
	assert.Contains(t, []string{
		"structured-blocks/heading-separated",
		"manual/section-based",
	}, analysis.RecommendedStrategy)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := New()

	first := a.Analyze(productCatalogSample)
	for i := 0; i < 5; i++ {
		again := a.Analyze(productCatalogSample)
		assert.Equal(t, first.DocumentType, again.DocumentType)
		assert.Equal(t, first.Confidence, again.Confidence)
		assert.Equal(t, first.RecommendedStrategy, again.RecommendedStrategy)
	}
}

func TestConfidenceBounds(t *testing.T) {
	a := New()

	samples := []string{
		"",
		"x",
		productCatalogSample,
		faqSample,
		manualSample,
		strings.Repeat("Name: item\nPrice: $1\n\n", 500),
	}

	for _, sample := range samples {
		analysis := a.Analyze(sample)
		assert.GreaterOrEqual(t, analysis.Confidence, 0.0)
		assert.LessOrEqual(t, analysis.Confidence, 0.95)
	}
}

func TestEmptyContentHasZeroConfidence(t *testing.T) {
	a := New()
	analysis := a.Analyze("")
	assert.Equal(t, 0.0, analysis.Confidence)
}

func TestConfidenceLevel(t *testing.T) {
	a := New()

	assert.Equal(t, "High", a.ConfidenceLevel(0.85))
	assert.Equal(t, "High", a.ConfidenceLevel(0.7))
	assert.Equal(t, "Medium", a.ConfidenceLevel(0.5))
	assert.Equal(t, "Medium", a.ConfidenceLevel(0.4))
	assert.Equal(t, "Low", a.ConfidenceLevel(0.39))
	assert.Equal(t, "Low", a.ConfidenceLevel(0.0))
}

func TestSuggestImprovements(t *testing.T) {
	a := New()

	lowConfidence := a.Analyze("plain short text with no structure at all")
	suggestions := a.SuggestImprovements(lowConfidence)
	assert.NotEmpty(t, suggestions)

	strong := a.Analyze(strings.Repeat(productCatalogSample+"\n\n", 3))
	assert.Empty(t, a.SuggestImprovements(strong))
}

func TestAnalyzeIgnoresLetterCase(t *testing.T) {
	a := New()

	catalog := "Nome: Bolo de Chocolate\nDescrição: Bolo rico com cobertura de ganache\nPreço: R$ 45,00"
	lower := a.Analyze(catalog)
	upper := a.Analyze(strings.ToUpper(catalog))

	assert.Equal(t, ProductCatalog, lower.DocumentType)
	assert.Equal(t, lower.DocumentType, upper.DocumentType)
	assert.Equal(t, lower.Confidence, upper.Confidence)

	code := "def parse(text):\n    return text\n\nclass Parser:\n    pass\n\nimport json\n\n@param text raw input\n@return parsed output\n"
	lowerCode := a.Analyze(code)
	upperCode := a.Analyze(strings.ToUpper(code))

	assert.Equal(t, lowerCode.DocumentType, upperCode.DocumentType)
	assert.Equal(t, lowerCode.Confidence, upperCode.Confidence)
}

func TestStructuredBlocksSubSelection(t *testing.T) {
	a := New()

	numbered := `1. First item in the list with enough detail
2. Second item in the list with enough detail
3. Third item in the list with enough detail
4. Fourth item in the list with enough detail`
	assert.Equal(t, "structured-blocks/numbered-separated",
		a.structuredBlocksStrategy(numbered))

	headings := "# One\ntext\n# Two\ntext\n# Three\ntext"
	assert.Equal(t, "structured-blocks/heading-separated",
		a.structuredBlocksStrategy(headings))

	blocks := "alpha\n\nbeta\n\ngamma\n\ndelta"
	assert.Equal(t, "structured-blocks/empty-line-separated",
		a.structuredBlocksStrategy(blocks))
}
