package model

import "time"

// Kind discriminates the raw record variants.
type Kind int

const (
	KindMarketBar Kind = iota
	KindNewsArticle
	KindSocialPost
)

// String returns the kind name used in logs and the run report.
func (k Kind) String() string {
	switch k {
	case KindMarketBar:
		return "market_bar"
	case KindNewsArticle:
		return "news_article"
	case KindSocialPost:
		return "social_post"
	default:
		return "unknown"
	}
}

// Record is the tagged-variant interface satisfied by every raw record kind.
type Record interface {
	Kind() Kind
}

// MarketBar is one OHLCV price bar for a symbol.
type MarketBar struct {
	Symbol    string    // Ticker symbol (e.g., "AAPL")
	Timestamp time.Time // Bar timestamp
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

func (MarketBar) Kind() Kind { return KindMarketBar }

// NewsArticle is one article fetched from a news source.
type NewsArticle struct {
	Title      string
	Body       string
	URL        string
	Timestamp  time.Time // Publish time; adapter fills in fetch time if absent
	SourceName string    // Dimension name (e.g., "Reuters")
}

func (NewsArticle) Kind() Kind { return KindNewsArticle }

// SocialPost is one post fetched from a social platform.
type SocialPost struct {
	Text         string
	URL          string
	Timestamp    time.Time
	PlatformName string // Dimension name (e.g., "Reddit")
	Author       string
}

func (SocialPost) Kind() Kind { return KindSocialPost }

// Analysis holds the output of text analysis for one record.
type Analysis struct {
	// SentimentScore is in [-1, 1]; sign is polarity, magnitude is confidence.
	SentimentScore float64

	// Keywords preserves token order and may contain duplicates.
	Keywords []string

	// Entities maps a category name to the entities found in that category.
	// The current analyzer returns the fixed empty-category map.
	Entities map[string][]string
}

// Processed is a raw record with its analysis attached. Immutable once
// produced; it never aliases mutable state of the raw record.
type Processed struct {
	Record   Record
	Analysis Analysis
}
