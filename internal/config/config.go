package config

import "time"

// IngestConfig is the root configuration for one ingestion run.
type IngestConfig struct {
	Database DBConfig       `yaml:"database"`
	Sheet    SheetConfig    `yaml:"sheet"`
	News     NewsConfig     `yaml:"news"`
	Social   SocialConfig   `yaml:"social"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// DBConfig holds the PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SheetConfig holds the spreadsheet feed settings for market bars.
type SheetConfig struct {
	// CSVURL is the CSV export URL of the shared sheet.
	CSVURL string `yaml:"csv_url"`

	// HeaderRows is the number of banner rows above the column headers.
	HeaderRows int `yaml:"header_rows"`

	// GroupWidth is the number of columns per company block
	// (Symbol, Date, Open, High, Low, Close, Volume).
	GroupWidth int `yaml:"group_width"`

	Timeout time.Duration `yaml:"timeout"`
}

// NewsConfig holds the news API settings.
type NewsConfig struct {
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	Sources []NewsSource  `yaml:"sources"`
}

// NewsSource names one news source and its article listing endpoint.
type NewsSource struct {
	Name string `yaml:"name"` // Dimension name (e.g., "Reuters")
	URL  string `yaml:"url"`
}

// SocialConfig holds the forum scraper settings.
type SocialConfig struct {
	// Lookback bounds how far back posts are collected.
	Lookback  time.Duration    `yaml:"lookback"`
	Platforms []PlatformConfig `yaml:"platforms"`
}

// PlatformConfig describes how to scrape one social platform.
type PlatformConfig struct {
	Name      string        `yaml:"name"` // Dimension name (e.g., "Reddit")
	SearchURL string        `yaml:"search_url"`
	Selectors SelectorsConfig `yaml:"selectors"`
	RateLimit time.Duration `yaml:"rate_limit"`
}

// SelectorsConfig holds the CSS selectors for extracting posts.
type SelectorsConfig struct {
	Post      string `yaml:"post"`
	Text      string `yaml:"text"`
	Author    string `yaml:"author"`
	Link      string `yaml:"link"`
	Timestamp string `yaml:"timestamp"`
}

// PipelineConfig selects what one run processes.
type PipelineConfig struct {
	// Symbols is the tracked symbol list, iterated in order.
	Symbols []string `yaml:"symbols"`

	// Sources selects which pipelines run: "market", "news", "social".
	Sources []string `yaml:"sources"`
}

// HasSource reports whether the named pipeline is enabled for this run.
func (p PipelineConfig) HasSource(name string) bool {
	for _, s := range p.Sources {
		if s == name {
			return true
		}
	}
	return false
}
