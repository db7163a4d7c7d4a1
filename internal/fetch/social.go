package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/thaskell/market-magic/internal/config"
	"github.com/thaskell/market-magic/internal/model"
)

// ForumScraper collects social posts from the configured platforms.
//
// Each platform is described by a search URL with a {symbol} placeholder
// and a table of CSS selectors for post containers. Only posts that mention
// the symbol as a case-insensitive whole word and fall inside the lookback
// window are returned.
type ForumScraper struct {
	cfg    config.SocialConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewForumScraper creates a ForumScraper.
func NewForumScraper(cfg config.SocialConfig, logger *slog.Logger) *ForumScraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForumScraper{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Fetch scrapes every configured platform for posts mentioning the symbol.
// A platform failure is logged and skipped; the call errors only when every
// platform failed, so one broken platform cannot empty the whole unit.
func (s *ForumScraper) Fetch(ctx context.Context, symbol string) ([]model.SocialPost, error) {
	mention, err := symbolPattern(symbol)
	if err != nil {
		return nil, fmt.Errorf("symbol pattern %q: %w", symbol, err)
	}

	cutoff := s.now().Add(-s.cfg.Lookback)

	var posts []model.SocialPost
	var failures int

	for i, platform := range s.cfg.Platforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := s.scrapePlatform(platform, symbol, mention, cutoff)
		if err != nil {
			s.logger.Warn("platform scrape failed",
				"platform", platform.Name,
				"symbol", symbol,
				"err", err,
			)
			failures++
			continue
		}
		posts = append(posts, found...)

		// Rate limiting between platforms
		if i < len(s.cfg.Platforms)-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(platform.RateLimit):
			}
		}
	}

	if failures == len(s.cfg.Platforms) {
		return nil, fmt.Errorf("all %d platforms failed for %s", failures, symbol)
	}

	s.logger.Debug("fetched posts",
		"symbol", symbol,
		"count", len(posts),
	)
	return posts, nil
}

func (s *ForumScraper) scrapePlatform(platform config.PlatformConfig, symbol string, mention *regexp.Regexp, cutoff time.Time) ([]model.SocialPost, error) {
	searchURL := strings.ReplaceAll(platform.SearchURL, "{symbol}", url.QueryEscape(symbol))
	sel := platform.Selectors

	var posts []model.SocialPost

	c := colly.NewCollector(
		colly.MaxDepth(1),
	)

	c.OnHTML(sel.Post, func(e *colly.HTMLElement) {
		text := strings.TrimSpace(e.ChildText(sel.Text))
		if text == "" || !mention.MatchString(text) {
			return
		}

		ts := s.parsePostTime(e, sel.Timestamp)
		if ts.Before(cutoff) {
			return
		}

		posts = append(posts, model.SocialPost{
			Text:         text,
			URL:          e.Request.AbsoluteURL(e.ChildAttr(sel.Link, "href")),
			Timestamp:    ts,
			PlatformName: platform.Name,
			Author:       strings.TrimSpace(e.ChildText(sel.Author)),
		})
	})

	var visitErr error
	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(searchURL); err != nil {
		return nil, err
	}
	c.Wait()

	if visitErr != nil {
		return nil, visitErr
	}
	return posts, nil
}

// parsePostTime reads the post timestamp from the element's datetime
// attribute or text, falling back to the scrape time when neither parses.
func (s *ForumScraper) parsePostTime(e *colly.HTMLElement, selector string) time.Time {
	candidates := []string{
		e.ChildAttr(selector, "datetime"),
		strings.TrimSpace(e.ChildText(selector)),
	}
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts
			}
		}
	}
	return s.now()
}

// symbolPattern builds the case-insensitive whole-word matcher for a
// ticker symbol.
func symbolPattern(symbol string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(symbol) + `\b`)
}
