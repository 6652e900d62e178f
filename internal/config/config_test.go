package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.Search.Debounce != "500ms" {
		t.Errorf("expected debounce 500ms, got %q", cfg.Search.Debounce)
	}
	if cfg.Search.Limit != 500 {
		t.Errorf("expected limit 500, got %d", cfg.Search.Limit)
	}
	if !cfg.Stitch.OpenAfter {
		t.Error("expected open_after to default to true")
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults do not validate: %v", err)
	}
}

func TestDebounceDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"250ms", 250 * time.Millisecond},
		{"1s", time.Second},
		{"", 500 * time.Millisecond},
		{"0s", 500 * time.Millisecond},
		{"soon", 500 * time.Millisecond},
	}
	for _, tt := range tests {
		cfg := &Config{Search: SearchConfig{Debounce: tt.input}}
		if got := cfg.DebounceDuration(); got != tt.want {
			t.Errorf("DebounceDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIngestWorkers(t *testing.T) {
	if got := (&Config{}).IngestWorkers(); got != 4 {
		t.Errorf("expected default 4 workers, got %d", got)
	}
	cfg := &Config{Ingest: IngestConfig{Workers: 2}}
	if got := cfg.IngestWorkers(); got != 2 {
		t.Errorf("expected 2 workers, got %d", got)
	}
}

func TestOutputDir(t *testing.T) {
	cfg := &Config{Stitch: StitchConfig{OutputDir: "/tmp/out"}}
	if got := cfg.OutputDir(); got != "/tmp/out" {
		t.Errorf("OutputDir() = %q", got)
	}

	cfg.Stitch.OutputDir = "~/stitched"
	if got, want := cfg.OutputDir(), filepath.Join(xdg.Home, "stitched"); got != want {
		t.Errorf("OutputDir() = %q, want %q", got, want)
	}

	cfg.Stitch.OutputDir = ""
	if got := cfg.OutputDir(); got == "" {
		t.Error("expected a default output dir")
	}
}

func TestLogLevelEnvOverride(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "info"}}
	t.Setenv(EnvLogLevel, "")
	if got := cfg.LogLevel(); got != "info" {
		t.Errorf("LogLevel() = %q, want info", got)
	}
	t.Setenv(EnvLogLevel, "debug")
	if got := cfg.LogLevel(); got != "debug" {
		t.Errorf("LogLevel() = %q, want debug", got)
	}
}

func TestDataDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	if got := DataDir(); got != dir {
		t.Errorf("DataDir() = %q, want %q", got, dir)
	}
	if got := DatabasePath(); got != filepath.Join(dir, "slidesearch.db") {
		t.Errorf("DatabasePath() = %q", got)
	}
	if got := PreviewDir(); got != filepath.Join(dir, "previews") {
		t.Errorf("PreviewDir() = %q", got)
	}
	if !strings.HasSuffix(LogPath(), filepath.Join("slidesearch", "slidesearch.log")) {
		t.Errorf("LogPath() = %q", LogPath())
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `search:
  debounce: 300ms
stitch:
  output_dir: /srv/decks
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DebounceDuration() != 300*time.Millisecond {
		t.Errorf("expected 300ms, got %v", cfg.DebounceDuration())
	}
	if cfg.Stitch.OutputDir != "/srv/decks" {
		t.Errorf("expected output dir /srv/decks, got %s", cfg.Stitch.OutputDir)
	}
	// keys left out of the file keep their defaults
	if cfg.Search.Limit != 500 || !cfg.Stitch.OpenAfter {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.Limit != 500 {
		t.Errorf("expected default limit, got %d", cfg.Search.Limit)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "search: [\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"negative limit", "search:\n  limit: -1\n"},
		{"bad debounce", "search:\n  debounce: soon\n"},
		{"too many workers", "ingest:\n  workers: 1000\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(cfgPath, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(cfgPath); err == nil {
				t.Errorf("Load(%q): expected error", tt.content)
			}
		})
	}
}
