// Package store persists processed records into PostgreSQL.
//
// Two concerns live here:
//   - Resolver: maps human-readable dimension names (news sources, social
//     platforms) to surrogate ids, creating rows lazily on first sighting.
//   - Upserter: loads a batch of processed records in one transaction,
//     applying the per-kind conflict policy on each fact table.
//
// Conflict policies:
//   - market_data_partitioned (symbol, datetime): update close_price and
//     volume; open/high/low are immutable once written
//   - news_sentiment (datetime, title): insert-or-ignore
//   - social_media_sentiment (datetime, text): insert-or-ignore
package store
