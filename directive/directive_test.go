package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/erickva/rag-processor/pkg/errors"
)

func TestParseFullHeader(t *testing.T) {
	content := `#!/usr/bin/env rag-processor
@strategy: products/semantic-boundary
@source-url: https://example.com/catalog
@metadata: {"client": "bakery", "version": 2}

Name: Chocolate Cake
Price: $45.00`

	p := NewParser()
	d, err := p.Parse(content)

	require.NoError(t, err)
	assert.Equal(t, "products/semantic-boundary", d.Strategy)
	assert.Equal(t, "https://example.com/catalog", d.SourceURL)
	assert.Equal(t, "bakery", d.Metadata["client"])
	assert.Equal(t, float64(2), d.Metadata["version"])
}

func TestParseWithoutHeader(t *testing.T) {
	p := NewParser()
	d, err := p.Parse("Just plain content with no directives at all")

	require.NoError(t, err)
	assert.Empty(t, d.Strategy)
	assert.Empty(t, d.SourceURL)
	assert.Empty(t, d.Metadata)
}

func TestParseMalformedMetadataFails(t *testing.T) {
	p := NewParser()
	_, err := p.Parse("@metadata: {not valid json}\n\nbody text")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "INVALID_DIRECTIVE"))
}

func TestParseIgnoresUnknownDirectives(t *testing.T) {
	p := NewParser()
	d, err := p.Parse("@strategy: faq/qa-pairs\n@future-key: something\n\nbody")

	require.NoError(t, err)
	assert.Equal(t, "faq/qa-pairs", d.Strategy)
}

func TestExtractContentStripsHeader(t *testing.T) {
	content := "#!/usr/bin/env rag-processor\n@strategy: faq/qa-pairs\n\nQ: A question?\nA: An answer."

	p := NewParser()
	body := p.ExtractContent(content)

	assert.Equal(t, "Q: A question?\nA: An answer.", body)
}

func TestExtractContentKeepsLaterAtLines(t *testing.T) {
	// Once the body starts, @-prefixed lines belong to the content.
	content := "@strategy: faq/qa-pairs\n\nContact us\n@support on the forum"

	p := NewParser()
	body := p.ExtractContent(content)

	assert.Contains(t, body, "@support on the forum")
}

func TestCreateHeaderRoundTrips(t *testing.T) {
	original := &Directive{
		Strategy:  "legal/paragraph-based",
		SourceURL: "https://example.com/terms",
		Metadata:  map[string]interface{}{"jurisdiction": "BR"},
	}

	p := NewParser()
	header, err := p.CreateHeader(original)
	require.NoError(t, err)

	parsed, err := p.Parse(header + "body text goes here")
	require.NoError(t, err)
	assert.Equal(t, original.Strategy, parsed.Strategy)
	assert.Equal(t, original.SourceURL, parsed.SourceURL)
	assert.Equal(t, "BR", parsed.Metadata["jurisdiction"])
}

func TestValidateDirective(t *testing.T) {
	p := NewParser()

	assert.Empty(t, p.ValidateDirective(&Directive{
		Strategy:  "faq/qa-pairs",
		SourceURL: "https://example.com",
	}))

	issues := p.ValidateDirective(&Directive{
		Strategy:  "no-slash",
		SourceURL: "ftp://example.com",
	})
	assert.Len(t, issues, 2)
}
