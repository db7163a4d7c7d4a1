// Package model defines the record types flowing through the ingestion
// pipeline.
//
// Raw records are a tagged variant over three kinds:
//   - MarketBar: one OHLCV price bar from the spreadsheet feed
//   - NewsArticle: one article from a news source
//   - SocialPost: one post from a social platform
//
// A Processed record wraps a raw record together with the analysis attached
// to it (sentiment score, keywords, entities). Raw records are never mutated
// after an adapter produces them.
package model
