// Package nlp extracts keywords, entities, sentiment, topics, and a summary
// from page text using small fixed word tables rather than trained models.
package nlp

import (
	"math"
	"sort"
	"strings"
)

// Keyword is one ranked term.
type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Sentiment is the balance of positive and negative vocabulary in the text.
// With no sentiment words at all, both sides are 0.5 and confidence is 0.
type Sentiment struct {
	Positive   float64 `json:"positive"`
	Negative   float64 `json:"negative"`
	Overall    string  `json:"overall"`
	Confidence float64 `json:"confidence"`
}

// Insights is the full analysis output for one text.
type Insights struct {
	Keywords    []Keyword           `json:"keywords"`
	Entities    map[string][]string `json:"entities"`
	Sentiment   Sentiment           `json:"sentiment"`
	Topics      map[string]float64  `json:"topics"`
	Summary     string              `json:"summary"`
	WordCount   int                 `json:"word_count"`
	UniqueWords int                 `json:"unique_words"`
}

// Engine runs the text analyses. It is stateless and safe for concurrent use.
type Engine struct{}

// NewEngine builds an engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Preprocess lowercases the text, strips HTML tags and non-alphanumeric
// characters, and collapses whitespace.
func (e *Engine) Preprocess(text string) string {
	text = strings.ToLower(text)
	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = nonAlphanumPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Keywords ranks terms by a TF-IDF-like score: term frequency times a
// log-scaled rarity weight. Stop words and terms shorter than four characters
// are excluded. Ties keep first-occurrence order.
func (e *Engine) Keywords(text string, limit int) []Keyword {
	tokens := strings.Fields(e.Preprocess(text))

	freq := make(map[string]int)
	var order []string
	total := 0
	for _, tok := range tokens {
		if _, stop := stopWords[tok]; stop || len(tok) <= 3 {
			continue
		}
		if freq[tok] == 0 {
			order = append(order, tok)
		}
		freq[tok]++
		total++
	}
	if total == 0 {
		return []Keyword{}
	}

	keywords := make([]Keyword, 0, len(order))
	for _, term := range order {
		tf := float64(freq[term]) / float64(total)
		idf := math.Log(float64(total) / float64(1+freq[term]))
		keywords = append(keywords, Keyword{Term: term, Score: tf * idf})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Score > keywords[j].Score
	})
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

// Entities extracts pattern-matched entities from the raw text. Every
// category is present in the result, empty when nothing matched.
func (e *Engine) Entities(text string) map[string][]string {
	entities := make(map[string][]string, len(entityPatterns))
	for _, p := range entityPatterns {
		matches := p.re.FindAllString(text, -1)
		if matches == nil {
			matches = []string{}
		}
		entities[p.category] = matches
	}
	return entities
}

// AnalyzeSentiment counts positive and negative vocabulary and normalizes
// over the matched total.
func (e *Engine) AnalyzeSentiment(text string) Sentiment {
	tokens := strings.Fields(e.Preprocess(text))

	var positive, negative int
	for _, tok := range tokens {
		if _, ok := positiveWords[tok]; ok {
			positive++
		}
		if _, ok := negativeWords[tok]; ok {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return Sentiment{Positive: 0.5, Negative: 0.5, Overall: "neutral", Confidence: 0}
	}

	pos := float64(positive) / float64(total)
	neg := float64(negative) / float64(total)
	overall := "neutral"
	switch {
	case pos > neg:
		overall = "positive"
	case neg > pos:
		overall = "negative"
	}
	return Sentiment{
		Positive:   pos,
		Negative:   neg,
		Overall:    overall,
		Confidence: math.Abs(pos - neg),
	}
}

// Topics scores topic affinity as the share of each topic's vocabulary that
// appears in the text. Topics with no matches are omitted.
func (e *Engine) Topics(text string) map[string]float64 {
	tokenSet := make(map[string]struct{})
	for _, tok := range strings.Fields(e.Preprocess(text)) {
		tokenSet[tok] = struct{}{}
	}

	topics := make(map[string]float64)
	for topic, vocab := range topicDictionaries {
		matches := 0
		for word := range vocab {
			if _, ok := tokenSet[word]; ok {
				matches++
			}
		}
		if matches > 0 {
			topics[topic] = float64(matches) / float64(len(vocab))
		}
	}
	return topics
}

// Summarize extracts the highest-scoring sentences, re-emitted in their
// original order. Texts with no more sentences than requested come back
// unchanged.
func (e *Engine) Summarize(text string, numSentences int) string {
	var sentences []string
	for _, s := range sentenceSplitter.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= numSentences {
		return text
	}

	keywordSet := make(map[string]struct{})
	for _, kw := range e.Keywords(text, 20) {
		keywordSet[kw.Term] = struct{}{}
	}

	type scored struct {
		index int
		score int
	}
	ranked := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		seen := make(map[string]struct{})
		score := 0
		for _, tok := range strings.Fields(e.Preprocess(sentence)) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			if _, ok := keywordSet[tok]; ok {
				score++
			}
		}
		ranked = append(ranked, scored{index: i, score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	selected := make(map[int]struct{}, numSentences)
	for _, r := range ranked[:numSentences] {
		selected[r.index] = struct{}{}
	}

	var summary []string
	for i, sentence := range sentences {
		if _, ok := selected[i]; ok {
			summary = append(summary, sentence)
		}
	}
	return strings.Join(summary, ". ") + "."
}

// Analyze runs the full set of analyses over one text.
func (e *Engine) Analyze(text string) *Insights {
	return &Insights{
		Keywords:    e.Keywords(text, 15),
		Entities:    e.Entities(text),
		Sentiment:   e.AnalyzeSentiment(text),
		Topics:      e.Topics(text),
		Summary:     e.Summarize(text, 5),
		WordCount:   len(strings.Fields(text)),
		UniqueWords: e.countUnique(text),
	}
}

func (e *Engine) countUnique(text string) int {
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(e.Preprocess(text)) {
		seen[tok] = struct{}{}
	}
	return len(seen)
}
