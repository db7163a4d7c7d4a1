package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thaskell/market-magic/internal/model"
)

const (
	upsertBarSQL = `
		INSERT INTO market_data_partitioned
			(symbol, datetime, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, datetime) DO UPDATE
		SET close_price = EXCLUDED.close_price,
		    volume = EXCLUDED.volume
		RETURNING (xmax = 0)
	`

	insertNewsSQL = `
		INSERT INTO news_sentiment
			(datetime, source_id, title, sentiment_score, entity_recognition, keywords)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (datetime, title) DO NOTHING
	`

	insertSocialSQL = `
		INSERT INTO social_media_sentiment
			(datetime, platform_id, user_handle, text, url, sentiment_score, entity_recognition, keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (datetime, text) DO NOTHING
	`
)

// Upserter loads batches of processed records. One Load call is one
// transaction: every record in the batch commits, or none do.
type Upserter struct {
	db        DB
	sources   *Resolver
	platforms *Resolver
	logger    *slog.Logger
}

// NewUpserter creates an Upserter with run-scoped dimension resolvers.
func NewUpserter(db DB, logger *slog.Logger) *Upserter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Upserter{
		db:        db,
		sources:   NewResolver(db, NewsSources, logger),
		platforms: NewResolver(db, SocialPlatforms, logger),
		logger:    logger,
	}
}

// Load persists a batch, splitting it by record kind. Dimension names are
// resolved before the transaction opens; all fact upserts then run inside
// one transaction with a single commit. Any statement failure rolls back
// the whole batch.
func (u *Upserter) Load(ctx context.Context, batch []model.Processed) (map[model.Kind]model.LoadCounts, error) {
	if len(batch) == 0 {
		return map[model.Kind]model.LoadCounts{}, nil
	}

	sourceIDs, err := u.sources.ResolveAll(ctx, dimensionNames(batch, model.KindNewsArticle))
	if err != nil {
		return nil, fmt.Errorf("resolve news sources: %w", err)
	}
	platformIDs, err := u.platforms.ResolveAll(ctx, dimensionNames(batch, model.KindSocialPost))
	if err != nil {
		return nil, fmt.Errorf("resolve social platforms: %w", err)
	}

	start := time.Now()

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	counts := map[model.Kind]model.LoadCounts{}

	for _, p := range batch {
		kind := p.Record.Kind()
		c := counts[kind]

		switch rec := p.Record.(type) {
		case model.MarketBar:
			row := toBarRow(rec)
			var inserted bool
			// xmax is zero only for rows this transaction freshly inserted.
			err := tx.QueryRow(ctx, upsertBarSQL,
				row.Symbol, row.Datetime, row.Open, row.High, row.Low, row.Close, row.Volume,
			).Scan(&inserted)
			if err != nil {
				return nil, fmt.Errorf("upsert bar %s@%s: %w", row.Symbol, row.Datetime.Format(time.RFC3339), err)
			}
			if inserted {
				c.Inserts++
			} else {
				c.Updates++
			}

		case model.NewsArticle:
			row, err := toNewsRow(rec, p.Analysis, sourceIDs[rec.SourceName])
			if err != nil {
				return nil, err
			}
			ct, err := tx.Exec(ctx, insertNewsSQL,
				row.Datetime, row.SourceID, row.Title, row.SentimentScore, row.Entities, row.Keywords,
			)
			if err != nil {
				return nil, fmt.Errorf("insert article %q: %w", row.Title, err)
			}
			if ct.RowsAffected() == 0 {
				c.Conflicts++
			} else {
				c.Inserts++
			}

		case model.SocialPost:
			row, err := toSocialRow(rec, p.Analysis, platformIDs[rec.PlatformName])
			if err != nil {
				return nil, err
			}
			ct, err := tx.Exec(ctx, insertSocialSQL,
				row.Datetime, row.PlatformID, row.UserHandle, row.Text, row.URL,
				row.SentimentScore, row.Entities, row.Keywords,
			)
			if err != nil {
				return nil, fmt.Errorf("insert post: %w", err)
			}
			if ct.RowsAffected() == 0 {
				c.Conflicts++
			} else {
				c.Inserts++
			}

		default:
			return nil, fmt.Errorf("unknown record kind %v", kind)
		}

		counts[kind] = c
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	u.logger.Info("batch loaded",
		"records", len(batch),
		"duration", time.Since(start),
	)

	return counts, nil
}

// dimensionNames collects the distinct dimension names referenced by the
// batch for one record kind, in first-sighting order.
func dimensionNames(batch []model.Processed, kind model.Kind) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range batch {
		if p.Record.Kind() != kind {
			continue
		}
		var name string
		switch rec := p.Record.(type) {
		case model.NewsArticle:
			name = rec.SourceName
		case model.SocialPost:
			name = rec.PlatformName
		}
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
