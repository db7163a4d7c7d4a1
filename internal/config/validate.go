package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
// A failure here is fatal at startup: the run must not begin fetching with
// incomplete credentials or connection parameters.
func (c *IngestConfig) Validate() error {
	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if len(c.Pipeline.Symbols) == 0 {
		return errors.New("pipeline.symbols is required")
	}
	for _, s := range c.Pipeline.Sources {
		switch s {
		case "market", "news", "social":
		default:
			return fmt.Errorf("pipeline.sources: unknown source %q", s)
		}
	}

	if c.Pipeline.HasSource("market") {
		if c.Sheet.CSVURL == "" {
			return errors.New("sheet.csv_url is required")
		}
		if c.Sheet.GroupWidth < 7 {
			return fmt.Errorf("sheet.group_width must be >= 7, got %d", c.Sheet.GroupWidth)
		}
	}

	if c.Pipeline.HasSource("news") {
		if c.News.APIKey == "" {
			return errors.New("news.api_key is required")
		}
		if len(c.News.Sources) == 0 {
			return errors.New("news.sources is required")
		}
		for i, src := range c.News.Sources {
			if src.Name == "" {
				return fmt.Errorf("news.sources[%d].name is required", i)
			}
			if src.URL == "" {
				return fmt.Errorf("news.sources[%d].url is required", i)
			}
		}
	}

	if c.Pipeline.HasSource("social") {
		if len(c.Social.Platforms) == 0 {
			return errors.New("social.platforms is required")
		}
		for i, p := range c.Social.Platforms {
			if p.Name == "" {
				return fmt.Errorf("social.platforms[%d].name is required", i)
			}
			if p.SearchURL == "" {
				return fmt.Errorf("social.platforms[%d].search_url is required", i)
			}
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
