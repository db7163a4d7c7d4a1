package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/thaskell/market-magic/internal/config"
	"github.com/thaskell/market-magic/internal/model"
)

var errUnknownKind = errors.New("unknown record kind")

// BarSource fetches market bars for every tracked symbol in one call; the
// sheet feed lays all companies out side by side.
type BarSource interface {
	Fetch(ctx context.Context) ([]model.MarketBar, error)
}

// ArticleSource fetches articles for one symbol from one news source.
type ArticleSource interface {
	Fetch(ctx context.Context, symbol string, source config.NewsSource) ([]model.NewsArticle, error)
}

// PostSource fetches social posts mentioning one symbol.
type PostSource interface {
	Fetch(ctx context.Context, symbol string) ([]model.SocialPost, error)
}

// Loader persists a batch of processed records all-or-nothing.
type Loader interface {
	Load(ctx context.Context, batch []model.Processed) (map[model.Kind]model.LoadCounts, error)
}

// Deps bundles the collaborators an Orchestrator drives.
type Deps struct {
	Bars     BarSource
	News     ArticleSource
	Social   PostSource
	Loader   Loader
	Analyzer TextAnalyzer
	Logger   *slog.Logger
}

// Orchestrator runs the fetch → transform → load pipeline once.
type Orchestrator struct {
	cfg    *config.IngestConfig
	deps   Deps
	logger *slog.Logger
}

// New creates an Orchestrator.
func New(cfg *config.IngestConfig, deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
	}
}

// Run executes one pipeline pass and returns the run report. The returned
// error is non-nil only for a load failure or cancellation; per-unit fetch
// and per-record transform failures are isolated and collected into the
// report instead.
func (o *Orchestrator) Run(ctx context.Context) (*model.RunReport, error) {
	report := &model.RunReport{RunID: uuid.New()}
	logger := o.logger.With("run_id", report.RunID)

	logger.Info("starting ingestion run",
		"symbols", len(o.cfg.Pipeline.Symbols),
		"sources", o.cfg.Pipeline.Sources,
	)

	tf := &transformer{analyzer: o.deps.Analyzer}
	var batch []model.Processed

	if o.cfg.Pipeline.HasSource("market") {
		batch = o.runMarket(ctx, logger, tf, report, batch)
	}
	if o.cfg.Pipeline.HasSource("news") {
		batch = o.runNews(ctx, logger, tf, report, batch)
	}
	if o.cfg.Pipeline.HasSource("social") {
		batch = o.runSocial(ctx, logger, tf, report, batch)
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.Batched = len(batch)

	if len(batch) == 0 {
		logger.Info("nothing to load",
			"units", len(report.Units),
			"failed_units", len(report.FailedUnits()),
		)
		return report, nil
	}

	counts, err := o.deps.Loader.Load(ctx, batch)
	if err != nil {
		report.LoadErr = &LoadError{Records: len(batch), Err: err}
		logger.Error("load failed, batch rolled back",
			"records", len(batch),
			"err", err,
		)
		return report, report.LoadErr
	}
	report.Loaded = counts

	o.logSummary(logger, report)
	return report, nil
}

// runMarket fetches the sheet once and accumulates bars per configured
// symbol. A sheet fetch failure skips every bar unit in this run.
func (o *Orchestrator) runMarket(ctx context.Context, logger *slog.Logger, tf *transformer, report *model.RunReport, batch []model.Processed) []model.Processed {
	if ctx.Err() != nil {
		return batch
	}

	bars, err := o.deps.Bars.Fetch(ctx)
	if err != nil {
		fErr := &FetchError{Source: "sheet", Err: err}
		logger.Error("sheet fetch failed, skipping market bars", "err", err)
		report.Units = append(report.Units, model.UnitOutcome{
			Source: "sheet",
			Kind:   model.KindMarketBar,
			Err:    fErr,
		})
		return batch
	}

	bySymbol := make(map[string][]model.MarketBar)
	for _, bar := range bars {
		bySymbol[bar.Symbol] = append(bySymbol[bar.Symbol], bar)
	}

	for _, symbol := range o.cfg.Pipeline.Symbols {
		unit := model.UnitOutcome{Symbol: symbol, Kind: model.KindMarketBar}
		for _, bar := range bySymbol[symbol] {
			unit.Fetched++
			p, err := tf.transform(bar)
			if err != nil {
				unit.Dropped++
				logger.Debug("record dropped", "symbol", symbol, "err", err)
				continue
			}
			batch = append(batch, p)
		}
		logger.Info("unit processed",
			"kind", model.KindMarketBar,
			"symbol", symbol,
			"fetched", unit.Fetched,
		)
		report.Units = append(report.Units, unit)
	}
	return batch
}

// runNews iterates symbol × source units in configuration order.
func (o *Orchestrator) runNews(ctx context.Context, logger *slog.Logger, tf *transformer, report *model.RunReport, batch []model.Processed) []model.Processed {
	for _, symbol := range o.cfg.Pipeline.Symbols {
		for _, source := range o.cfg.News.Sources {
			if ctx.Err() != nil {
				return batch
			}

			unit := model.UnitOutcome{Symbol: symbol, Source: source.Name, Kind: model.KindNewsArticle}

			articles, err := o.deps.News.Fetch(ctx, symbol, source)
			if err != nil {
				unit.Err = &FetchError{Symbol: symbol, Source: source.Name, Err: err}
				logger.Warn("unit skipped",
					"kind", model.KindNewsArticle,
					"symbol", symbol,
					"source", source.Name,
					"err", err,
				)
				report.Units = append(report.Units, unit)
				continue
			}

			unit.Fetched = len(articles)
			for _, article := range articles {
				p, err := tf.transform(article)
				if err != nil {
					unit.Dropped++
					logger.Debug("record dropped",
						"symbol", symbol,
						"source", source.Name,
						"title", article.Title,
						"err", err,
					)
					continue
				}
				batch = append(batch, p)
			}

			logger.Info("unit processed",
				"kind", model.KindNewsArticle,
				"symbol", symbol,
				"source", source.Name,
				"fetched", unit.Fetched,
				"dropped", unit.Dropped,
			)
			report.Units = append(report.Units, unit)
		}
	}
	return batch
}

// runSocial iterates one unit per symbol.
func (o *Orchestrator) runSocial(ctx context.Context, logger *slog.Logger, tf *transformer, report *model.RunReport, batch []model.Processed) []model.Processed {
	for _, symbol := range o.cfg.Pipeline.Symbols {
		if ctx.Err() != nil {
			return batch
		}

		unit := model.UnitOutcome{Symbol: symbol, Kind: model.KindSocialPost}

		posts, err := o.deps.Social.Fetch(ctx, symbol)
		if err != nil {
			unit.Err = &FetchError{Symbol: symbol, Err: err}
			logger.Warn("unit skipped",
				"kind", model.KindSocialPost,
				"symbol", symbol,
				"err", err,
			)
			report.Units = append(report.Units, unit)
			continue
		}

		unit.Fetched = len(posts)
		for _, post := range posts {
			p, err := tf.transform(post)
			if err != nil {
				unit.Dropped++
				logger.Debug("record dropped", "symbol", symbol, "err", err)
				continue
			}
			batch = append(batch, p)
		}

		logger.Info("unit processed",
			"kind", model.KindSocialPost,
			"symbol", symbol,
			"fetched", unit.Fetched,
			"dropped", unit.Dropped,
		)
		report.Units = append(report.Units, unit)
	}
	return batch
}

// logSummary emits the end-of-run totals, listing failed units separately
// from succeeded ones.
func (o *Orchestrator) logSummary(logger *slog.Logger, report *model.RunReport) {
	var inserts, updates, conflicts int64
	for _, c := range report.Loaded {
		inserts += c.Inserts
		updates += c.Updates
		conflicts += c.Conflicts
	}

	logger.Info("run complete",
		"units", len(report.Units),
		"fetched", report.TotalFetched(),
		"dropped", report.TotalDropped(),
		"loaded", report.Batched,
		"inserts", inserts,
		"updates", updates,
		"conflicts", conflicts,
	)

	for _, u := range report.FailedUnits() {
		logger.Warn("unit failed",
			"kind", u.Kind,
			"symbol", u.Symbol,
			"source", u.Source,
			"err", u.Err,
		)
	}
}
