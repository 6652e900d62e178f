package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	AppName = "slidesearch"

	EnvDataDir  = "SLIDESEARCH_DATA_DIR"
	EnvLogLevel = "SLIDESEARCH_LOG_LEVEL"

	defaultDebounce = 500 * time.Millisecond
	defaultWorkers  = 4
)

type SearchConfig struct {
	Debounce      string `yaml:"debounce"`
	Limit         int    `yaml:"limit" validate:"gte=0,lte=100000"`
	ExcerptLength int    `yaml:"excerpt_length" validate:"gte=0"`
}

type IngestConfig struct {
	Workers           int  `yaml:"workers" validate:"gte=0,lte=64"`
	ExtractThumbnails bool `yaml:"extract_thumbnails"`
}

type StitchConfig struct {
	OutputDir string `yaml:"output_dir"`
	OpenAfter bool   `yaml:"open_after"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Stitch  StitchConfig  `yaml:"stitch"`
	Logging LoggingConfig `yaml:"logging"`
}

// DebounceDuration is the search quiet period, defaulting to 500ms.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Search.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}

// IngestWorkers returns the number of files parsed concurrently.
func (c *Config) IngestWorkers() int {
	if c.Ingest.Workers <= 0 {
		return defaultWorkers
	}
	return c.Ingest.Workers
}

// OutputDir is where stitched decks are written, defaulting to the
// Downloads folder.
func (c *Config) OutputDir() string {
	if c.Stitch.OutputDir != "" {
		return expandHome(c.Stitch.OutputDir)
	}
	if xdg.UserDirs.Download != "" {
		return xdg.UserDirs.Download
	}
	return filepath.Join(xdg.Home, "Downloads")
}

// LogLevel returns the configured level, overridden by SLIDESEARCH_LOG_LEVEL.
func (c *Config) LogLevel() string {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		return lvl
	}
	return c.Logging.Level
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DataDir holds the database and extracted previews.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, AppName)
}

func DatabasePath() string {
	return filepath.Join(DataDir(), AppName+".db")
}

func PreviewDir() string {
	return filepath.Join(DataDir(), "previews")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (the XDG location when empty). Values the
// file leaves out keep their defaults. A missing file is created from the
// defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// non-fatal: the embedded defaults still apply
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	if cfg.Search.Debounce != "" {
		d, err := time.ParseDuration(cfg.Search.Debounce)
		if err != nil {
			return fmt.Errorf("search.debounce: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("search.debounce must not be negative, got %s", d)
		}
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" {
		return xdg.Home
	}
	if len(p) > 1 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator) {
		return filepath.Join(xdg.Home, p[2:])
	}
	return p
}
