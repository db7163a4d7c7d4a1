package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/thaskell/market-magic/internal/model"
)

// barRow is one market_data_partitioned row.
type barRow struct {
	Symbol   string
	Datetime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
}

// newsRow is one news_sentiment row.
type newsRow struct {
	Datetime       time.Time
	SourceID       int64
	Title          string
	SentimentScore float64
	Entities       []byte // JSON object: category -> entity list
	Keywords       []byte // JSON array
}

// socialRow is one social_media_sentiment row.
type socialRow struct {
	Datetime       time.Time
	PlatformID     int64
	UserHandle     string
	Text           string
	URL            string
	SentimentScore float64
	Entities       []byte
	Keywords       []byte
}

func toBarRow(bar model.MarketBar) barRow {
	return barRow{
		Symbol:   bar.Symbol,
		Datetime: bar.Timestamp,
		Open:     bar.Open,
		High:     bar.High,
		Low:      bar.Low,
		Close:    bar.Close,
		Volume:   bar.Volume,
	}
}

func toNewsRow(article model.NewsArticle, analysis model.Analysis, sourceID int64) (newsRow, error) {
	keywords, entities, err := encodeAnalysis(analysis)
	if err != nil {
		return newsRow{}, err
	}
	return newsRow{
		Datetime:       article.Timestamp,
		SourceID:       sourceID,
		Title:          article.Title,
		SentimentScore: analysis.SentimentScore,
		Entities:       entities,
		Keywords:       keywords,
	}, nil
}

func toSocialRow(post model.SocialPost, analysis model.Analysis, platformID int64) (socialRow, error) {
	keywords, entities, err := encodeAnalysis(analysis)
	if err != nil {
		return socialRow{}, err
	}
	return socialRow{
		Datetime:       post.Timestamp,
		PlatformID:     platformID,
		UserHandle:     post.Author,
		Text:           post.Text,
		URL:            post.URL,
		SentimentScore: analysis.SentimentScore,
		Entities:       entities,
		Keywords:       keywords,
	}, nil
}

// encodeAnalysis JSON-encodes the keyword list and entity map for storage.
// A nil keyword list encodes as the empty array, not JSON null.
func encodeAnalysis(a model.Analysis) (keywords, entities []byte, err error) {
	kw := a.Keywords
	if kw == nil {
		kw = []string{}
	}
	keywords, err = json.Marshal(kw)
	if err != nil {
		return nil, nil, fmt.Errorf("encode keywords: %w", err)
	}

	ents := a.Entities
	if ents == nil {
		ents = map[string][]string{}
	}
	entities, err = json.Marshal(ents)
	if err != nil {
		return nil, nil, fmt.Errorf("encode entities: %w", err)
	}

	return keywords, entities, nil
}
