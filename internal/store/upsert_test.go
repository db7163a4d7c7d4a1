package store

import (
	"context"
	"testing"
	"time"

	"github.com/thaskell/market-magic/internal/model"
)

var t0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func processedBar(symbol string, ts time.Time, open, high, low, closePrice float64, volume int64) model.Processed {
	return model.Processed{
		Record: model.MarketBar{
			Symbol:    symbol,
			Timestamp: ts,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		},
	}
}

func processedArticle(title string, ts time.Time, source string, score float64) model.Processed {
	return model.Processed{
		Record: model.NewsArticle{
			Title:      title,
			Body:       "body of " + title,
			Timestamp:  ts,
			SourceName: source,
		},
		Analysis: model.Analysis{
			SentimentScore: score,
			Keywords:       []string{"fed", "rates"},
			Entities:       map[string][]string{"companies": {}, "people": {}, "locations": {}},
		},
	}
}

func processedPost(text string, ts time.Time, platform string, score float64) model.Processed {
	return model.Processed{
		Record: model.SocialPost{
			Text:         text,
			URL:          "https://forum.example.com/p/1",
			Timestamp:    ts,
			PlatformName: platform,
			Author:       "trader42",
		},
		Analysis: model.Analysis{SentimentScore: score},
	}
}

func TestUpserter_Load_MarketBar(t *testing.T) {
	db := newFakeStore()
	u := NewUpserter(db, nil)

	batch := []model.Processed{
		processedBar("AAPL", t0, 185.0, 186.0, 184.0, 185.5, 1000),
	}

	counts, err := u.Load(context.Background(), batch)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := counts[model.KindMarketBar].Inserts; got != 1 {
		t.Errorf("Inserts = %d, want 1", got)
	}

	fact, ok := db.bars[barKey("AAPL", t0)]
	if !ok {
		t.Fatal("bar row missing after load")
	}
	if fact.open != 185.0 || fact.high != 186.0 || fact.low != 184.0 {
		t.Errorf("bar OHL = %v/%v/%v, want 185/186/184", fact.open, fact.high, fact.low)
	}
	if fact.closePrice != 185.5 || fact.volume != 1000 {
		t.Errorf("bar close/volume = %v/%d, want 185.5/1000", fact.closePrice, fact.volume)
	}
}

func TestUpserter_Load_MarketBar_UpdateOnConflict(t *testing.T) {
	db := newFakeStore()
	u := NewUpserter(db, nil)
	ctx := context.Background()

	first := []model.Processed{processedBar("AAPL", t0, 185.0, 186.0, 184.0, 185.5, 1000)}
	if _, err := u.Load(ctx, first); err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	// Same natural key, different prices everywhere.
	second := []model.Processed{processedBar("AAPL", t0, 999.0, 999.0, 1.0, 186.0, 2000)}
	counts, err := u.Load(ctx, second)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if got := counts[model.KindMarketBar].Updates; got != 1 {
		t.Errorf("Updates = %d, want 1", got)
	}
	if len(db.bars) != 1 {
		t.Fatalf("bar rows = %d, want exactly 1 per (symbol, timestamp)", len(db.bars))
	}

	fact := db.bars[barKey("AAPL", t0)]
	if fact.closePrice != 186.0 || fact.volume != 2000 {
		t.Errorf("close/volume = %v/%d, want updated 186/2000", fact.closePrice, fact.volume)
	}
	// Open/high/low are immutable once written.
	if fact.open != 185.0 || fact.high != 186.0 || fact.low != 184.0 {
		t.Errorf("OHL = %v/%v/%v, want original 185/186/184", fact.open, fact.high, fact.low)
	}
}

func TestUpserter_Load_News_IdempotentAppend(t *testing.T) {
	db := newFakeStore()
	u := NewUpserter(db, nil)
	ctx := context.Background()

	batch := []model.Processed{
		processedArticle("Fed holds rates", t0, "Reuters", 0.87),
	}

	counts, err := u.Load(ctx, batch)
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	if got := counts[model.KindNewsArticle].Inserts; got != 1 {
		t.Errorf("Inserts = %d, want 1", got)
	}

	counts, err = u.Load(ctx, batch)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if got := counts[model.KindNewsArticle].Conflicts; got != 1 {
		t.Errorf("Conflicts = %d, want 1: second load is a no-op", got)
	}

	if len(db.news) != 1 {
		t.Fatalf("news rows = %d, want exactly 1 per (timestamp, title)", len(db.news))
	}
	fact := db.news[newsKey(t0, "Fed holds rates")]
	if fact.score != 0.87 {
		t.Errorf("sentiment = %v, want 0.87", fact.score)
	}
	if fact.keywords != `["fed","rates"]` {
		t.Errorf("keywords = %s, want JSON-encoded list", fact.keywords)
	}
}

func TestUpserter_Load_Social_IdempotentAppend(t *testing.T) {
	db := newFakeStore()
	u := NewUpserter(db, nil)
	ctx := context.Background()

	batch := []model.Processed{
		processedPost("AAPL to the moon", t0, "Reddit", 0.6),
	}

	if _, err := u.Load(ctx, batch); err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	counts, err := u.Load(ctx, batch)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if got := counts[model.KindSocialPost].Conflicts; got != 1 {
		t.Errorf("Conflicts = %d, want 1", got)
	}
	if len(db.social) != 1 {
		t.Errorf("social rows = %d, want exactly 1 per (timestamp, text)", len(db.social))
	}
}

func TestUpserter_Load_MixedBatch_ResolvesDimensions(t *testing.T) {
	db := newFakeStore()
	u := NewUpserter(db, nil)

	batch := []model.Processed{
		processedBar("AAPL", t0, 185.0, 186.0, 184.0, 185.5, 1000),
		processedArticle("Fed holds rates", t0, "Reuters", 0.87),
		processedArticle("Tech rally continues", t0.Add(time.Hour), "Bloomberg", 0.4),
		processedPost("AAPL breakout", t0, "Reddit", 0.6),
	}

	if _, err := u.Load(context.Background(), batch); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(db.dims[NewsSources.Table]) != 2 {
		t.Errorf("news sources = %d, want Reuters and Bloomberg", len(db.dims[NewsSources.Table]))
	}
	if len(db.dims[SocialPlatforms.Table]) != 1 {
		t.Errorf("platforms = %d, want Reddit", len(db.dims[SocialPlatforms.Table]))
	}

	reuters := db.dims[NewsSources.Table]["Reuters"]
	if got := db.news[newsKey(t0, "Fed holds rates")].sourceID; got != reuters {
		t.Errorf("article sourceID = %d, want resolved Reuters id %d", got, reuters)
	}
	reddit := db.dims[SocialPlatforms.Table]["Reddit"]
	if got := db.social[socialKey(t0, "AAPL breakout")].platformID; got != reddit {
		t.Errorf("post platformID = %d, want resolved Reddit id %d", got, reddit)
	}
}

func TestUpserter_Load_FailureRollsBackWholeBatch(t *testing.T) {
	db := newFakeStore()
	db.failOnTitle = "poison pill"
	u := NewUpserter(db, nil)

	batch := []model.Processed{
		processedBar("AAPL", t0, 185.0, 186.0, 184.0, 185.5, 1000),
		processedArticle("perfectly fine article", t0, "Reuters", 0.5),
		processedArticle("poison pill", t0.Add(time.Hour), "Reuters", 0.5),
		processedPost("unrelated valid post", t0, "Reddit", 0.1),
	}

	_, err := u.Load(context.Background(), batch)
	if err == nil {
		t.Fatal("Load() = nil, want error from poisoned statement")
	}

	// Nothing from the batch persisted, including records issued before the
	// failing statement.
	if len(db.bars) != 0 {
		t.Errorf("bars persisted = %d, want 0 after rollback", len(db.bars))
	}
	if len(db.news) != 0 {
		t.Errorf("news persisted = %d, want 0 after rollback", len(db.news))
	}
	if len(db.social) != 0 {
		t.Errorf("social persisted = %d, want 0 after rollback", len(db.social))
	}

	// Dimension rows are created outside the batch transaction and survive.
	if len(db.dims[NewsSources.Table]) != 1 {
		t.Errorf("news sources = %d, want 1", len(db.dims[NewsSources.Table]))
	}
}

func TestUpserter_Load_EmptyBatch(t *testing.T) {
	db := newFakeStore()
	u := NewUpserter(db, nil)

	counts, err := u.Load(context.Background(), nil)
	if err != nil {
		t.Fatalf("Load(nil) error = %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("counts = %v, want empty", counts)
	}
	if db.begun != 0 {
		t.Errorf("transactions begun = %d, want 0 for empty batch", db.begun)
	}
}
