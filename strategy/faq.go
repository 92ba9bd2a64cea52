package strategy

import (
	"regexp"
	"strings"

	"github.com/erickva/rag-processor/client"
	"github.com/erickva/rag-processor/config"
	"github.com/erickva/rag-processor/directive"
	"github.com/erickva/rag-processor/textchunk"
)

var (
	questionMarker = regexp.MustCompile(`(?im)^\s*(Q:|Question:|Pergunta:)`)
	answerMarker   = regexp.MustCompile(`(?im)^\s*(A:|Answer:|Resposta:)`)
	numberedFAQ    = regexp.MustCompile(`(?m)^\d+\.\s*(.+\?)\s*$`)
	questionLine   = regexp.MustCompile(`(?m)^(.+\?)\s*$`)
	topicWord      = regexp.MustCompile(`[A-Za-zÀ-ÿ]{4,}`)
)

// qaPair is one extracted question with its answer and positions.
type qaPair struct {
	question string
	answer   string
	start    int
	end      int
}

// FAQ chunks question/answer documents so each chunk is one complete
// Q/A pair. Three extraction passes run in order; the first that finds
// pairs wins.
type FAQ struct{}

// NewFAQ creates the FAQ strategy.
func NewFAQ() *FAQ {
	return &FAQ{}
}

func (s *FAQ) Name() string { return "faq/qa-pairs" }

func (s *FAQ) Description() string {
	return "Splits FAQ documents so each chunk holds one question and its answer"
}

func (s *FAQ) DefaultPattern() *regexp.Regexp { return questionMarker }
func (s *FAQ) DefaultOverlap() int            { return config.FAQChunkOverlap }

// Process extracts Q/A pairs. Marker-based extraction runs first, then
// numbered questions, then bare question-mark lines. Content with no
// recognizable pairs degrades to size-based chunking.
func (s *FAQ) Process(content string, d *directive.Directive, cfg client.Config) []textchunk.Chunk {
	pairs := s.extractMarkerPairs(content)
	if len(pairs) == 0 {
		pairs = s.extractNumberedPairs(content)
	}
	if len(pairs) == 0 {
		pairs = s.extractQuestionLines(content)
	}
	if len(pairs) == 0 {
		return sizeFallback(content, s.Name(), config.MaximumChunkSize, s.DefaultOverlap())
	}

	var chunks []textchunk.Chunk
	for _, pair := range pairs {
		// Q/A pairs are semantic units: even a very short pair stays a
		// chunk, so the minimum-size floor does not apply here.
		text := strings.TrimSpace(pair.question)
		if pair.answer != "" {
			text += "\n" + strings.TrimSpace(pair.answer)
		}
		if text == "" {
			continue
		}

		chunks = append(chunks, newChunk(text, pair.start, pair.end, len(chunks), s.Name(),
			map[string]interface{}{
				"content_type":  "qa_pair",
				"question":      firstLine(pair.question),
				"question_type": classifyQuestion(pair.question),
				"topics":        extractTopics(pair.question),
				"difficulty":    classifyDifficulty(pair.answer),
			}))
	}

	return chunks
}

// extractMarkerPairs pairs each Q: marker with the first A: marker that
// follows it before the next question.
func (s *FAQ) extractMarkerPairs(content string) []qaPair {
	questions := questionMarker.FindAllStringIndex(content, -1)
	answers := answerMarker.FindAllStringIndex(content, -1)
	if len(questions) == 0 {
		return nil
	}

	var pairs []qaPair
	for i, q := range questions {
		end := len(content)
		if i < len(questions)-1 {
			end = questions[i+1][0]
		}

		aStart := -1
		for _, a := range answers {
			if a[0] > q[0] && a[0] < end {
				aStart = a[0]
				break
			}
		}

		pair := qaPair{start: q[0], end: end}
		if aStart >= 0 {
			pair.question = content[q[0]:aStart]
			pair.answer = content[aStart:end]
		} else {
			pair.question = content[q[0]:end]
		}
		pairs = append(pairs, pair)
	}

	return pairs
}

// extractNumberedPairs handles "1. Question?" lists where the answer
// runs until the next numbered question.
func (s *FAQ) extractNumberedPairs(content string) []qaPair {
	marks := numberedFAQ.FindAllStringSubmatchIndex(content, -1)

	var pairs []qaPair
	for i, mark := range marks {
		end := len(content)
		if i < len(marks)-1 {
			end = marks[i+1][0]
		}

		question := content[mark[2]:mark[3]]
		answer := strings.TrimSpace(content[mark[1]:end])

		pairs = append(pairs, qaPair{
			question: question,
			answer:   answer,
			start:    mark[0],
			end:      end,
		})
	}
	return pairs
}

// extractQuestionLines handles documents where questions are plain
// lines ending in a question mark, each followed by its answer text.
func (s *FAQ) extractQuestionLines(content string) []qaPair {
	marks := questionLine.FindAllStringSubmatchIndex(content, -1)

	var pairs []qaPair
	for i, mark := range marks {
		end := len(content)
		if i < len(marks)-1 {
			end = marks[i+1][0]
		}

		question := content[mark[2]:mark[3]]
		answer := strings.TrimSpace(content[mark[1]:end])
		if answer == "" {
			continue
		}

		pairs = append(pairs, qaPair{
			question: question,
			answer:   answer,
			start:    mark[0],
			end:      end,
		})
	}
	return pairs
}

// classifyQuestion labels a question by its interrogative, with
// Portuguese alternates.
func classifyQuestion(question string) string {
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "what") || strings.Contains(q, "o que"):
		return "definition"
	case strings.Contains(q, "how") || strings.Contains(q, "como"):
		return "procedure"
	case strings.Contains(q, "why") || strings.Contains(q, "por que"):
		return "explanation"
	case strings.Contains(q, "when") || strings.Contains(q, "quando"):
		return "timing"
	case strings.Contains(q, "where") || strings.Contains(q, "onde"):
		return "location"
	default:
		return "general"
	}
}

// extractTopics pulls up to five significant words from the question.
func extractTopics(question string) []string {
	words := topicWord.FindAllString(question, -1)

	topics := make([]string, 0, 5)
	for _, word := range words {
		topics = append(topics, strings.ToLower(word))
		if len(topics) == 5 {
			break
		}
	}
	return topics
}

// classifyDifficulty bands an answer by word count.
func classifyDifficulty(answer string) string {
	words := len(strings.Fields(answer))

	switch {
	case words < 20:
		return "basic"
	case words > 100:
		return "advanced"
	default:
		return "intermediate"
	}
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}

// ValidateContent reports documents the FAQ extractors cannot pair.
func (s *FAQ) ValidateContent(content string) []string {
	var issues []string

	questions := len(questionMarker.FindAllString(content, -1))
	answers := len(answerMarker.FindAllString(content, -1))

	if questions == 0 && !questionLine.MatchString(content) {
		issues = append(issues, "no questions found (Q:, Question:, or lines ending in ?)")
	}
	if questions > 0 && answers == 0 {
		issues = append(issues, "question markers found but no answer markers (A:, Answer:)")
	}
	if questions > 0 && answers > 0 && questions != answers {
		issues = append(issues, "question and answer marker counts differ - some pairs may be incomplete")
	}

	return issues
}

// CreateTemplate renders an example FAQ document.
func (s *FAQ) CreateTemplate(cfg client.Config) string {
	return templateHeader(s.Name(), cfg) +
		"Q: What does this product do?\n" +
		"A: Explain the product's purpose in one or two sentences.\n" +
		"\n" +
		"Q: How do I get started?\n" +
		"A: Describe the first steps a new user should take.\n" +
		"\n" +
		"Q: Where can I get support?\n" +
		"A: Point users at the support channel.\n"
}
