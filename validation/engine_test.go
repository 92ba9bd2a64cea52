package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erickva/rag-processor/strategy"
)

func testLookup() StrategyLookup {
	registry := map[string]strategy.Strategy{
		"faq/qa-pairs":               strategy.NewFAQ(),
		"products/semantic-boundary": strategy.NewProducts(),
		"article/sentence-based":     strategy.NewArticle(),
	}
	return func(name string) (strategy.Strategy, bool) {
		s, ok := registry[name]
		return s, ok
	}
}

const validArticle = `The quick brown fox jumps over the lazy dog near the river bank. ` +
	`It was a bright morning and the animals were already busy with their routines. ` +
	`Every creature in the forest had a role to play in the day ahead.

The fox continued along the trail, noting each landmark as it passed. ` +
	`By midday it had covered several miles and stopped to rest in the shade. ` +
	`The afternoon brought cooler air and an easier pace for the journey home.

Evening settled over the valley as the fox returned to its den. ` +
	`The day had been long but productive, and tomorrow promised more of the same.`

func TestValidateAcceptsGoodDocument(t *testing.T) {
	e := NewEngine(testLookup())
	result := e.Validate(validArticle)

	assert.True(t, result.Valid)
	assert.Zero(t, result.ErrorCount())
	assert.Greater(t, result.QualityScore, 0.4)
}

func TestValidateRejectsShortDocument(t *testing.T) {
	e := NewEngine(testLookup())
	result := e.Validate("Too short to process.")

	require.False(t, result.Valid)
	require.NotEmpty(t, result.Issues)
	assert.Equal(t, "DOCUMENT_TOO_SHORT", result.Issues[0].Code)
	assert.Equal(t, LevelError, result.Issues[0].Level)
	assert.NotEmpty(t, result.Issues[0].Suggestion)
}

func TestValidateRejectsInvalidUTF8(t *testing.T) {
	e := NewEngine(testLookup())
	result := e.Validate("valid prefix \xff\xfe invalid bytes")

	require.False(t, result.Valid)
	assert.Equal(t, "INVALID_ENCODING", result.Issues[0].Code)
	// Encoding failure short-circuits the remaining passes.
	assert.Len(t, result.Issues, 1)
}

func TestValidateMalformedMetadataIsError(t *testing.T) {
	content := "@strategy: faq/qa-pairs\n@metadata: {not json}\n\n" + validArticle

	e := NewEngine(testLookup())
	result := e.Validate(content)

	require.False(t, result.Valid)
	found := false
	for _, issue := range result.Issues {
		if issue.Code == "INVALID_DIRECTIVE" {
			found = true
			assert.Equal(t, LevelError, issue.Level)
		}
	}
	assert.True(t, found)
}

func TestValidateUnknownStrategyWarns(t *testing.T) {
	content := "@strategy: nosuch/strategy\n\n" + validArticle

	e := NewEngine(testLookup())
	result := e.Validate(content)

	assert.True(t, result.Valid, "unknown strategy in validation is a warning, not an error")
	found := false
	for _, issue := range result.Issues {
		if issue.Code == "UNKNOWN_STRATEGY" {
			found = true
			assert.Equal(t, LevelWarning, issue.Level)
		}
	}
	assert.True(t, found)
}

func TestValidateDirectiveFormatWarnings(t *testing.T) {
	content := "@strategy: missing-slash\n@source-url: ftp://example.com\n\n" + validArticle

	e := NewEngine(testLookup())
	result := e.Validate(content)

	codes := map[string]int{}
	for _, issue := range result.Issues {
		codes[issue.Code]++
	}
	assert.Equal(t, 2, codes["DIRECTIVE_FORMAT"])
}

func TestValidateFlagsOCRArtifacts(t *testing.T) {
	content := validArticle + "\n\n" + strings.Repeat("t h e quick brown ", 10)

	e := NewEngine(testLookup())
	result := e.Validate(content)

	found := false
	for _, issue := range result.Issues {
		if issue.Code == "OCR_ARTIFACTS" {
			found = true
			assert.Equal(t, LevelInfo, issue.Level)
		}
	}
	assert.True(t, found)
}

func TestValidateDirectiveOnlySkipsContentChecks(t *testing.T) {
	e := NewEngine(testLookup())

	// Body is far too short, but directive-only validation ignores that.
	result := e.ValidateDirectiveOnly("@strategy: faq/qa-pairs\n\nshort body")
	assert.True(t, result.Valid)
	assert.Equal(t, "faq/qa-pairs", result.Strategy)
}

func TestQualityScoreBands(t *testing.T) {
	e := NewEngine(nil)

	long := e.Validate(strings.Repeat(validArticle+"\n\n", 20))
	short := e.Validate(validArticle[:150])

	assert.Greater(t, long.QualityScore, short.QualityScore)
	assert.GreaterOrEqual(t, short.QualityScore, 0.0)
	assert.LessOrEqual(t, long.QualityScore, 1.0)
}

func TestValidateFlagsPasteArtifacts(t *testing.T) {
	content := validArticle + "\n\nA line with a replacement char � and “smart quotes” in it."

	e := NewEngine(testLookup())
	result := e.Validate(content)

	count := 0
	for _, issue := range result.Issues {
		if issue.Code == "PASTE_ARTIFACTS" {
			count++
			assert.Equal(t, LevelWarning, issue.Level)
		}
	}
	assert.Equal(t, 2, count, "one warning per distinct artifact kind")
}

func TestValidateFlagsLongLines(t *testing.T) {
	content := validArticle + "\n\n" + strings.Repeat("x", 600)

	e := NewEngine(testLookup())
	result := e.Validate(content)

	found := false
	for _, issue := range result.Issues {
		if issue.Code == "LONG_LINES" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateFlagsMissingParagraphBreaks(t *testing.T) {
	content := strings.Repeat("all one line of text without breaks ", 40)

	e := NewEngine(testLookup())
	result := e.Validate(content)

	found := false
	for _, issue := range result.Issues {
		if issue.Code == "NO_PARAGRAPHS" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateEmptyBodyIsError(t *testing.T) {
	e := NewEngine(testLookup())
	result := e.Validate("@strategy: faq/qa-pairs\n\n   \n")

	require.False(t, result.Valid)
	assert.Equal(t, "EMPTY_DOCUMENT", result.Issues[0].Code)
}

func TestValidateMetadataNudges(t *testing.T) {
	content := "@metadata: {\"client\": \"x\"}\n\n" + validArticle

	e := NewEngine(testLookup())
	result := e.Validate(content)

	nudges := 0
	for _, issue := range result.Issues {
		if issue.Code == "METADATA_RECOMMENDED" {
			nudges++
			assert.Equal(t, LevelInfo, issue.Level)
		}
	}
	assert.Equal(t, 2, nudges, "document_type and version are both recommended")
}

func TestValidityMatchesErrorCount(t *testing.T) {
	e := NewEngine(testLookup())

	for _, content := range []string{
		validArticle,
		"too short",
		"@strategy: nosuch/strategy\n\n" + validArticle,
		"@metadata: {broken\n\n" + validArticle,
	} {
		result := e.Validate(content)
		assert.Equal(t, result.ErrorCount() == 0, result.Valid)
	}
}

func TestRenderReport(t *testing.T) {
	e := NewEngine(testLookup())
	result := e.Validate("Too short to process.")

	report := RenderReport(result)
	assert.Contains(t, report, "Document is invalid")
	assert.Contains(t, report, "DOCUMENT_TOO_SHORT")
	assert.Contains(t, report, "suggestion:")
}
