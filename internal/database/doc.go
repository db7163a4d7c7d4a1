// Package database provides connection pool management for PostgreSQL.
//
// One database holds everything this pipeline writes:
//   - dimension tables: news_sources, social_media_platforms
//   - fact tables: market_data, news_sentiment, social_media_sentiment
package database
