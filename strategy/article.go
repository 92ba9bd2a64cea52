package strategy

import (
	"regexp"
	"strings"

	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/directive"
	"github.com/erickva/rag-processor/textchunk"
)

// Sentence accumulation bounds, in characters.
const (
	articleTargetSize = 1000
	articleMaxSize    = 1500
	articleMinSize    = 500
)

var (
	sentenceBoundary = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	dialogueQuote    = regexp.MustCompile(`["“”]`)
	listLine         = regexp.MustCompile(`(?m)^\s*[-*+\d]\s*[.)]?\s+`)
)

// sentenceSpan is one sentence with its position in the document.
type sentenceSpan struct {
	text  string
	start int
	end   int
}

// Article chunks prose by accumulating whole sentences until a size
// target, so no chunk ever cuts a sentence in half.
type Article struct{}

// NewArticle creates the article strategy.
func NewArticle() *Article {
	return &Article{}
}

func (s *Article) Name() string { return "article/sentence-based" }

func (s *Article) Description() string {
	return "Splits prose at sentence boundaries, accumulating sentences to a target size"
}

func (s *Article) DefaultPattern() *regexp.Regexp { return sentenceBoundary }
func (s *Article) DefaultOverlap() int            { return config.ArticleChunkOverlap }

// Process accumulates sentences into chunks of roughly the target size.
// Adjacent chunks share trailing sentences up to the overlap budget.
func (s *Article) Process(content string, d *directive.Directive, cfg client.Config) []textchunk.Chunk {
	sentences := splitSentences(content)
	if len(sentences) == 0 {
		return sizeFallback(content, s.Name(), articleTargetSize, s.DefaultOverlap())
	}

	var chunks []textchunk.Chunk
	var current []sentenceSpan
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, s.buildChunk(current, len(chunks)))

		// Carry trailing sentences into the next chunk as overlap.
		overlap := tailSentences(current, s.DefaultOverlap())
		current = append([]sentenceSpan(nil), overlap...)
		currentLen = 0
		for _, sp := range current {
			currentLen += len(sp.text)
		}
	}

	for _, sentence := range sentences {
		if currentLen > 0 && currentLen+len(sentence.text) > articleMaxSize && currentLen >= articleMinSize {
			flush()
		}

		current = append(current, sentence)
		currentLen += len(sentence.text)

		if currentLen >= articleTargetSize {
			flush()
		}
	}

	if currentLen >= config.MinimumChunkSize && !onlyOverlap(current, chunks) {
		chunks = append(chunks, s.buildChunk(current, len(chunks)))
	}

	return chunks
}

// onlyOverlap reports whether the pending sentences are all carried
// over from the previous flush.
func onlyOverlap(current []sentenceSpan, chunks []textchunk.Chunk) bool {
	if len(chunks) == 0 || len(current) == 0 {
		return false
	}
	last := chunks[len(chunks)-1]
	return current[len(current)-1].end <= last.EndPos
}

func (s *Article) buildChunk(sentences []sentenceSpan, index int) textchunk.Chunk {
	parts := make([]string, len(sentences))
	for i, sp := range sentences {
		parts[i] = strings.TrimSpace(sp.text)
	}
	text := strings.Join(parts, " ")

	return newChunk(text, sentences[0].start, sentences[len(sentences)-1].end, index, s.Name(),
		map[string]interface{}{
			"sentence_count": len(sentences),
			"content_type":   classifyProse(text, len(sentences)),
			"readability":    classifyReadability(text, len(sentences)),
		})
}

// tailSentences returns the trailing sentences whose combined length
// fits the overlap character budget.
func tailSentences(sentences []sentenceSpan, budget int) []sentenceSpan {
	if budget <= 0 {
		return nil
	}

	total := 0
	cut := len(sentences)
	for i := len(sentences) - 1; i >= 0; i-- {
		if total+len(sentences[i].text) > budget {
			break
		}
		total += len(sentences[i].text)
		cut = i
	}
	return sentences[cut:]
}

// splitSentences finds sentence spans using terminal punctuation.
func splitSentences(content string) []sentenceSpan {
	ends := sentenceBoundary.FindAllStringIndex(content, -1)

	var sentences []sentenceSpan
	start := 0
	for _, end := range ends {
		text := strings.TrimSpace(content[start:end[1]])
		if text != "" {
			sentences = append(sentences, sentenceSpan{text: text, start: start, end: end[1]})
		}
		start = end[1]
	}
	if start < len(content) {
		if text := strings.TrimSpace(content[start:]); text != "" {
			sentences = append(sentences, sentenceSpan{text: text, start: start, end: len(content)})
		}
	}
	return sentences
}

// classifyProse labels the dominant texture of a chunk.
func classifyProse(text string, sentenceCount int) string {
	switch {
	case len(dialogueQuote.FindAllString(text, -1)) >= 4:
		return "dialogue"
	case len(listLine.FindAllString(text, -1)) >= 3:
		return "list"
	case sentenceCount == 1:
		return "single_sentence"
	default:
		return "narrative"
	}
}

// classifyReadability bands average sentence length in characters.
func classifyReadability(text string, sentenceCount int) string {
	if sentenceCount == 0 {
		return "unknown"
	}

	avg := float64(len(text)) / float64(sentenceCount)
	switch {
	case avg < 50:
		return "easy"
	case avg > 120:
		return "complex"
	default:
		return "moderate"
	}
}

// ValidateContent reports prose the sentence splitter cannot handle.
func (s *Article) ValidateContent(content string) []string {
	var issues []string

	sentences := splitSentences(content)
	if len(sentences) == 0 {
		issues = append(issues, "no sentence boundaries found - content will fall back to size-based chunking")
		return issues
	}
	if len(sentences) < 3 {
		issues = append(issues, "very few sentences found - article chunking adds little value")
	}

	return issues
}

// CreateTemplate renders an example article.
func (s *Article) CreateTemplate(cfg client.Config) string {
	return templateHeader(s.Name(), cfg) +
		"Open with a short introduction that frames the topic. " +
		"Follow with the main argument, one idea per paragraph.\n\n" +
		"Each paragraph should hold a few complete sentences. " +
		"Close with a conclusion that summarizes the takeaways.\n"
}
