package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultSheetHeaderRows = 3
	DefaultSheetGroupWidth = 7
	DefaultSheetTimeout    = 30 * time.Second
	DefaultNewsTimeout     = 30 * time.Second
	DefaultSocialLookback  = 24 * time.Hour
	DefaultSocialRateLimit = 2 * time.Second
)

func (c *IngestConfig) applyDefaults() {
	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Sheet defaults
	if c.Sheet.HeaderRows == 0 {
		c.Sheet.HeaderRows = DefaultSheetHeaderRows
	}
	if c.Sheet.GroupWidth == 0 {
		c.Sheet.GroupWidth = DefaultSheetGroupWidth
	}
	if c.Sheet.Timeout == 0 {
		c.Sheet.Timeout = DefaultSheetTimeout
	}

	// News defaults
	if c.News.Timeout == 0 {
		c.News.Timeout = DefaultNewsTimeout
	}

	// Social defaults
	if c.Social.Lookback == 0 {
		c.Social.Lookback = DefaultSocialLookback
	}
	for i := range c.Social.Platforms {
		if c.Social.Platforms[i].RateLimit == 0 {
			c.Social.Platforms[i].RateLimit = DefaultSocialRateLimit
		}
	}

	// Pipeline defaults: run everything unless narrowed.
	if len(c.Pipeline.Sources) == 0 {
		c.Pipeline.Sources = []string{"market", "news", "social"}
	}
}
