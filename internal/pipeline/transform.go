package pipeline

import "github.com/thaskell/market-magic/internal/model"

// TextAnalyzer scores text-bearing records. Implementations must be pure:
// identical input yields identical output.
type TextAnalyzer interface {
	Score(text string) (float64, error)
	Keywords(text string) []string
	Entities(text string) map[string][]string
}

// transformer maps raw records to processed records, invoking the analyzer
// exactly once per text-bearing field.
type transformer struct {
	analyzer TextAnalyzer
}

// transform produces a processed record from a raw one. The input is never
// mutated. Market bars carry no text and get an empty analysis; articles
// are analyzed on their body, posts on their text.
func (t *transformer) transform(raw model.Record) (model.Processed, error) {
	switch rec := raw.(type) {
	case model.MarketBar:
		return model.Processed{Record: rec}, nil

	case model.NewsArticle:
		analysis, err := t.analyze(rec.Body)
		if err != nil {
			return model.Processed{}, &TransformError{Kind: rec.Kind(), Err: err}
		}
		return model.Processed{Record: rec, Analysis: analysis}, nil

	case model.SocialPost:
		analysis, err := t.analyze(rec.Text)
		if err != nil {
			return model.Processed{}, &TransformError{Kind: rec.Kind(), Err: err}
		}
		return model.Processed{Record: rec, Analysis: analysis}, nil

	default:
		return model.Processed{}, &TransformError{Kind: raw.Kind(), Err: errUnknownKind}
	}
}

func (t *transformer) analyze(text string) (model.Analysis, error) {
	score, err := t.analyzer.Score(text)
	if err != nil {
		return model.Analysis{}, err
	}
	return model.Analysis{
		SentimentScore: score,
		Keywords:       t.analyzer.Keywords(text),
		Entities:       t.analyzer.Entities(text),
	}, nil
}
