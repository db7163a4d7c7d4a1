package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the store depends on.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Dimension identifies one dimension table and its natural-key column.
type Dimension struct {
	Table      string
	NameColumn string
}

// The two dimension tables referenced by fact rows.
var (
	NewsSources     = Dimension{Table: "news_sources", NameColumn: "source_name"}
	SocialPlatforms = Dimension{Table: "social_media_platforms", NameColumn: "platform_name"}
)

// Resolver maps dimension names to surrogate ids for one dimension table.
//
// Resolution is two-phase: unknown names are inserted with
// ON CONFLICT DO NOTHING, then the full table is read back and the name→id
// map rebuilt from that read. The insert never needs to return generated
// ids, and concurrent writers doing the same insert-if-absent are harmless.
//
// The cache lives for one pipeline run. A dimension row renamed or removed
// by an outside writer mid-run is not detected; no cross-run invalidation
// policy is defined.
type Resolver struct {
	db     DB
	dim    Dimension
	logger *slog.Logger
	cache  map[string]int64
}

// NewResolver creates a Resolver for the given dimension table.
func NewResolver(db DB, dim Dimension, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		db:     db,
		dim:    dim,
		logger: logger,
		cache:  make(map[string]int64),
	}
}

// ResolveAll returns the name→id mapping for every requested name, creating
// dimension rows for names seen for the first time. Names already resolved
// in this run are served from the cache without touching the store.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) (map[string]int64, error) {
	missing := false
	for _, name := range names {
		if _, ok := r.cache[name]; !ok {
			missing = true
			break
		}
	}

	if missing {
		if err := r.refresh(ctx, names); err != nil {
			return nil, err
		}
	}

	resolved := make(map[string]int64, len(names))
	for _, name := range names {
		id, ok := r.cache[name]
		if !ok {
			return nil, fmt.Errorf("resolve %s: name %q missing after insert", r.dim.Table, name)
		}
		resolved[name] = id
	}
	return resolved, nil
}

// refresh inserts unknown names and rebuilds the cache from a bulk read.
func (r *Resolver) refresh(ctx context.Context, names []string) error {
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES ($1) ON CONFLICT (%s) DO NOTHING",
		r.dim.Table, r.dim.NameColumn, r.dim.NameColumn,
	)

	for _, name := range names {
		if _, ok := r.cache[name]; ok {
			continue
		}
		ct, err := r.db.Exec(ctx, insertSQL, name)
		if err != nil {
			return fmt.Errorf("insert %s %q: %w", r.dim.Table, name, err)
		}
		if ct.RowsAffected() > 0 {
			r.logger.Info("created dimension row",
				"table", r.dim.Table,
				"name", name,
			)
		}
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT id, %s FROM %s", r.dim.NameColumn, r.dim.Table))
	if err != nil {
		return fmt.Errorf("read %s: %w", r.dim.Table, err)
	}
	defer rows.Close()

	cache := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scan %s: %w", r.dim.Table, err)
		}
		cache[name] = id
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read %s: %w", r.dim.Table, err)
	}

	r.cache = cache
	return nil
}
