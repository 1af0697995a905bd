// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all dexterm configuration.
type Config struct {
	API        API        `yaml:"api"`
	Browse     Browse     `yaml:"browse"`
	Log        Log        `yaml:"log"`
	Metrics    Metrics    `yaml:"metrics"`
	Highlights Highlights `yaml:"highlights"`
}

// API holds upstream catalog settings.
type API struct {
	BaseURL    string        `yaml:"base_url"`
	IndexLimit int           `yaml:"index_limit"`
	Timeout    time.Duration `yaml:"timeout"` // 0 disables the per-request timeout.
}

// Browse holds list, search, and page-loading settings.
type Browse struct {
	PageSize         int           `yaml:"page_size"`
	PageSizeOptions  []int         `yaml:"page_size_options"`
	SearchDebounce   time.Duration `yaml:"search_debounce"`
	FetchConcurrency int           `yaml:"fetch_concurrency"` // 0 is unbounded.
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `yaml:"format"` // "text" | "json"
	File   string `yaml:"file"`
}

// Metrics holds the optional Prometheus endpoint.
type Metrics struct {
	Addr string `yaml:"addr"`
}

// Highlights holds the location of a local highlights table override.
type Highlights struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL:    "https://pokeapi.co/api/v2",
			IndexLimit: 2000,
		},
		Browse: Browse{
			PageSize:        50,
			PageSizeOptions: []int{20, 50, 100},
			SearchDebounce:  250 * time.Millisecond,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPaths returns the config layers in increasing priority: the user
// config, then the project-local file.
func DefaultPaths() []string {
	return []string{
		os.ExpandEnv("$HOME/.config/dexterm/config.yaml"),
		".dexterm.yaml",
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones field by field. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url cannot be empty")
	}
	if c.API.IndexLimit <= 0 {
		return fmt.Errorf("config: api.index_limit must be positive, got %d", c.API.IndexLimit)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must be non-negative, got %v", c.API.Timeout)
	}
	if len(c.Browse.PageSizeOptions) == 0 {
		return errors.New("config: browse.page_size_options cannot be empty")
	}
	for _, n := range c.Browse.PageSizeOptions {
		if n <= 0 {
			return fmt.Errorf("config: browse.page_size_options must be positive, got %d", n)
		}
	}
	if c.Browse.PageSize <= 0 {
		return fmt.Errorf("config: browse.page_size must be positive, got %d", c.Browse.PageSize)
	}
	if !slices.Contains(c.Browse.PageSizeOptions, c.Browse.PageSize) {
		return fmt.Errorf("config: browse.page_size %d is not one of page_size_options %v", c.Browse.PageSize, c.Browse.PageSizeOptions)
	}
	if c.Browse.SearchDebounce < 0 {
		return fmt.Errorf("config: browse.search_debounce must be non-negative, got %v", c.Browse.SearchDebounce)
	}
	if c.Browse.FetchConcurrency < 0 {
		return fmt.Errorf("config: browse.fetch_concurrency must be non-negative, got %d", c.Browse.FetchConcurrency)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
		// valid
	default:
		return fmt.Errorf("config: log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: DEXTERM_API_BASE_URL, DEXTERM_API_TIMEOUT,
// DEXTERM_PAGE_SIZE, DEXTERM_LOG_LEVEL, DEXTERM_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DEXTERM_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("DEXTERM_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid DEXTERM_API_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("DEXTERM_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid DEXTERM_PAGE_SIZE %q: %w", v, err)
		}
		c.Browse.PageSize = n
	}
	if v := os.Getenv("DEXTERM_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DEXTERM_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API        *rawAPI        `yaml:"api"`
	Browse     *rawBrowse     `yaml:"browse"`
	Log        *rawLog        `yaml:"log"`
	Metrics    *rawMetrics    `yaml:"metrics"`
	Highlights *rawHighlights `yaml:"highlights"`
}

type rawAPI struct {
	BaseURL    *string        `yaml:"base_url"`
	IndexLimit *int           `yaml:"index_limit"`
	Timeout    *time.Duration `yaml:"timeout"`
}

type rawBrowse struct {
	PageSize         *int           `yaml:"page_size"`
	PageSizeOptions  *[]int         `yaml:"page_size_options"`
	SearchDebounce   *time.Duration `yaml:"search_debounce"`
	FetchConcurrency *int           `yaml:"fetch_concurrency"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	File   *string `yaml:"file"`
}

type rawMetrics struct {
	Addr *string `yaml:"addr"`
}

type rawHighlights struct {
	Dir *string `yaml:"dir"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if a := layer.API; a != nil {
		set(&c.API.BaseURL, a.BaseURL)
		set(&c.API.IndexLimit, a.IndexLimit)
		set(&c.API.Timeout, a.Timeout)
	}
	if b := layer.Browse; b != nil {
		set(&c.Browse.PageSize, b.PageSize)
		if b.PageSizeOptions != nil {
			c.Browse.PageSizeOptions = slices.Clone(*b.PageSizeOptions)
		}
		set(&c.Browse.SearchDebounce, b.SearchDebounce)
		set(&c.Browse.FetchConcurrency, b.FetchConcurrency)
	}
	if l := layer.Log; l != nil {
		set(&c.Log.Level, l.Level)
		set(&c.Log.Format, l.Format)
		set(&c.Log.File, l.File)
	}
	if layer.Metrics != nil {
		set(&c.Metrics.Addr, layer.Metrics.Addr)
	}
	if layer.Highlights != nil {
		set(&c.Highlights.Dir, layer.Highlights.Dir)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
