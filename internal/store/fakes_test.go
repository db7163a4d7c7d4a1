package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeStore is an in-memory stand-in for the PostgreSQL surface the store
// package uses: dimension insert-if-absent and bulk read on the pool, plus
// transactional fact upserts with the per-kind conflict policies.
type fakeStore struct {
	dims      map[string]map[string]int64 // table -> name -> id
	nextDimID int64

	dimInserts int // Exec calls that hit a dimension table
	dimReads   int // Query calls that hit a dimension table

	bars   map[string]barFact // committed facts, keyed by natural key
	news   map[string]newsFact
	social map[string]socialFact

	failOnTitle string // statement error injected when a news title matches
	beginErr    error
	begun       int
}

type barFact struct {
	open, high, low, closePrice float64
	volume                      int64
}

type newsFact struct {
	sourceID int64
	score    float64
	keywords string
	entities string
}

type socialFact struct {
	platformID int64
	author     string
	url        string
	score      float64
	keywords   string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		dims: map[string]map[string]int64{
			NewsSources.Table:     {},
			SocialPlatforms.Table: {},
		},
		bars:   map[string]barFact{},
		news:   map[string]newsFact{},
		social: map[string]socialFact{},
	}
}

func barKey(symbol string, ts time.Time) string {
	return fmt.Sprintf("%s|%d", symbol, ts.Unix())
}

func newsKey(ts time.Time, title string) string {
	return fmt.Sprintf("%d|%s", ts.Unix(), title)
}

func socialKey(ts time.Time, text string) string {
	return fmt.Sprintf("%d|%s", ts.Unix(), text)
}

func (f *fakeStore) dimTable(sql string) string {
	for _, table := range []string{NewsSources.Table, SocialPlatforms.Table} {
		if strings.Contains(sql, table) {
			return table
		}
	}
	return ""
}

func (f *fakeStore) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	table := f.dimTable(sql)
	if table == "" {
		return pgconn.CommandTag{}, fmt.Errorf("fakeStore.Exec: unexpected sql %q", sql)
	}
	f.dimInserts++

	name := args[0].(string)
	if _, ok := f.dims[table][name]; ok {
		return pgconn.NewCommandTag("INSERT 0 0"), nil
	}
	f.nextDimID++
	f.dims[table][name] = f.nextDimID
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeStore) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	table := f.dimTable(sql)
	if table == "" {
		return nil, fmt.Errorf("fakeStore.Query: unexpected sql %q", sql)
	}
	f.dimReads++

	rows := &fakeRows{}
	for name, id := range f.dims[table] {
		rows.data = append(rows.data, dimRow{id: id, name: name})
	}
	return rows, nil
}

func (f *fakeStore) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	f.begun++
	return &fakeTx{
		store:  f,
		bars:   map[string]barFact{},
		news:   map[string]newsFact{},
		social: map[string]socialFact{},
	}, nil
}

// fakeRows implements pgx.Rows over the dimension table contents.
type dimRow struct {
	id   int64
	name string
}

type fakeRows struct {
	data []dimRow
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	*(dest[0].(*int64)) = row.id
	*(dest[1].(*string)) = row.name
	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	row := r.data[r.pos-1]
	return []any{row.id, row.name}, nil
}

// fakeTx stages fact writes and merges them into the fakeStore only on
// Commit, so rollback-on-error behavior is observable in tests.
type fakeTx struct {
	pgx.Tx // panics on anything the store does not use

	store      *fakeStore
	bars       map[string]barFact
	news       map[string]newsFact
	social     map[string]socialFact
	committed  bool
	rolledBack bool
}

var errTitleRejected = errors.New("value too long for column title")

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	switch {
	case strings.Contains(sql, "news_sentiment"):
		ts := args[0].(time.Time)
		title := args[2].(string)
		if t.store.failOnTitle != "" && title == t.store.failOnTitle {
			return pgconn.CommandTag{}, errTitleRejected
		}
		key := newsKey(ts, title)
		if _, ok := t.store.news[key]; ok {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		if _, ok := t.news[key]; ok {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		t.news[key] = newsFact{
			sourceID: args[1].(int64),
			score:    args[3].(float64),
			entities: string(args[4].([]byte)),
			keywords: string(args[5].([]byte)),
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil

	case strings.Contains(sql, "social_media_sentiment"):
		ts := args[0].(time.Time)
		text := args[3].(string)
		key := socialKey(ts, text)
		if _, ok := t.store.social[key]; ok {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		if _, ok := t.social[key]; ok {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		t.social[key] = socialFact{
			platformID: args[1].(int64),
			author:     args[2].(string),
			url:        args[4].(string),
			score:      args[5].(float64),
			keywords:   string(args[7].([]byte)),
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil

	default:
		return pgconn.CommandTag{}, fmt.Errorf("fakeTx.Exec: unexpected sql %q", sql)
	}
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if !strings.Contains(sql, "market_data_partitioned") {
		return &fakeRow{err: fmt.Errorf("fakeTx.QueryRow: unexpected sql %q", sql)}
	}

	symbol := args[0].(string)
	ts := args[1].(time.Time)
	key := barKey(symbol, ts)

	if existing, ok := t.existingBar(key); ok {
		// Conflict path: only close and volume move.
		existing.closePrice = args[5].(float64)
		existing.volume = args[6].(int64)
		t.bars[key] = existing
		return &fakeRow{inserted: false}
	}

	t.bars[key] = barFact{
		open:       args[2].(float64),
		high:       args[3].(float64),
		low:        args[4].(float64),
		closePrice: args[5].(float64),
		volume:     args[6].(int64),
	}
	return &fakeRow{inserted: true}
}

func (t *fakeTx) existingBar(key string) (barFact, bool) {
	if fact, ok := t.bars[key]; ok {
		return fact, true
	}
	fact, ok := t.store.bars[key]
	return fact, ok
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	for k, v := range t.bars {
		t.store.bars[k] = v
	}
	for k, v := range t.news {
		t.store.news[k] = v
	}
	for k, v := range t.social {
		t.store.social[k] = v
	}
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeRow implements pgx.Row for the bar upsert's RETURNING clause.
type fakeRow struct {
	inserted bool
	err      error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*bool)) = r.inserted
	return nil
}
