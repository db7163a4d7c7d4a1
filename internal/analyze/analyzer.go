package analyze

import (
	"errors"
	"strings"
	"unicode"
)

// Polarity is the label side of a sentiment result.
type Polarity string

const (
	Positive Polarity = "POSITIVE"
	Negative Polarity = "NEGATIVE"
)

// ErrNoText is returned when the input has no scoreable content.
var ErrNoText = errors.New("analyze: no scoreable text")

// Scorer classifies text into a polarity label with a confidence in [0, 1].
type Scorer interface {
	Score(text string) (Polarity, float64, error)
}

// Analyzer performs sentiment scoring and keyword extraction.
type Analyzer struct {
	scorer    Scorer
	stopwords map[string]bool
}

// New creates an Analyzer backed by the given scorer. A nil scorer selects
// the built-in lexicon scorer.
func New(scorer Scorer) *Analyzer {
	if scorer == nil {
		scorer = NewLexiconScorer()
	}
	return &Analyzer{
		scorer:    scorer,
		stopwords: loadStopwords(),
	}
}

// Score returns a sentiment score in [-1, 1]: the sign carries the scorer's
// polarity label, the magnitude its confidence. Degenerate input fails
// closed with an error; callers treat that as a per-record failure.
func (a *Analyzer) Score(text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrNoText
	}

	label, confidence, err := a.scorer.Score(text)
	if err != nil {
		return 0, err
	}

	if label == Negative {
		return -confidence, nil
	}
	return confidence, nil
}

// Keywords tokenizes text, lowercases it, and retains only alphabetic
// tokens outside the stopword set. Token order is preserved and duplicates
// are kept; output is deterministic for identical input.
func (a *Analyzer) Keywords(text string) []string {
	words := tokenize(text)

	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if !isAlphabetic(word) {
			continue
		}
		if a.stopwords[word] {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// Entities returns the entity map for text. Extraction is not implemented;
// the fixed category keys are returned with empty lists so the field keeps
// its shape through transform and storage.
func (a *Analyzer) Entities(text string) map[string][]string {
	return map[string][]string{
		"companies": {},
		"people":    {},
		"locations": {},
	}
}

// tokenize lowercases text and splits it on anything that is not a letter
// or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isAlphabetic(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(word) > 0
}
