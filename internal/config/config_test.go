package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultPuzzleConfig()
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultPuzzleConfig() {
		t.Errorf("embedded defaults = %+v, want %+v", cfg, DefaultPuzzleConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadCustomPathKeepsMissingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzle.yaml")
	data := []byte("grid:\n  size: 5\ntiming:\n  play_seconds: 90\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Grid.Size != 5 {
		t.Errorf("Grid.Size = %d, want 5", cfg.Grid.Size)
	}
	if cfg.Timing.PlaySeconds != 90 {
		t.Errorf("PlaySeconds = %d, want 90", cfg.Timing.PlaySeconds)
	}
	if cfg.Timing.RevealSeconds != 5 {
		t.Errorf("RevealSeconds = %d, want default 5", cfg.Timing.RevealSeconds)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file succeeded")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed file succeeded")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PuzzleConfig)
		ok     bool
	}{
		{"defaults", func(*PuzzleConfig) {}, true},
		{"grid too small", func(c *PuzzleConfig) { c.Grid.Size = 1 }, false},
		{"grid too large", func(c *PuzzleConfig) { c.Grid.Size = 9 }, false},
		{"no play time", func(c *PuzzleConfig) { c.Timing.PlaySeconds = 0 }, false},
		{"zero reveal allowed", func(c *PuzzleConfig) { c.Timing.RevealSeconds = 0 }, true},
		{"zero frame rate", func(c *PuzzleConfig) { c.Animation.FrameRate = 0 }, false},
		{"zero frame rate without animation", func(c *PuzzleConfig) {
			c.Animation.Enabled = false
			c.Animation.FrameRate = 0
		}, true},
		{"zero tile width", func(c *PuzzleConfig) { c.Input.TileWidth = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPuzzleConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"easy", 3},
		{"normal", 4},
		{"hard", 5},
	}

	for _, tt := range tests {
		preset, err := ParsePreset(tt.name)
		if err != nil {
			t.Fatalf("ParsePreset(%q) error = %v", tt.name, err)
		}
		cfg := DefaultPuzzleConfig()
		ApplyPreset(&cfg, preset)
		if cfg.Grid.Size != tt.size {
			t.Errorf("%s grid = %d, want %d", tt.name, cfg.Grid.Size, tt.size)
		}
	}

	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset accepted an unknown name")
	}
	if got := PresetLabel(DifficultyNormal); got != "normal (4x4)" {
		t.Errorf("PresetLabel = %q", got)
	}
}

func TestSettings(t *testing.T) {
	cfg := DefaultPuzzleConfig()
	cfg.Grid.Size = 4
	s := cfg.Settings(120)

	if s.GridSize != 4 || s.PlaySeconds != 30 || s.RevealSeconds != 5 {
		t.Errorf("settings = %+v", s)
	}
	if s.TimeoutDelay != 3*time.Second || s.AutoSolveStep != 100*time.Millisecond {
		t.Errorf("delays = %v, %v", s.TimeoutDelay, s.AutoSolveStep)
	}
	if s.SlideDuration != 150*time.Millisecond || !s.AnimateSlides {
		t.Errorf("slide = %v, %v", s.SlideDuration, s.AnimateSlides)
	}
	if s.Geometry.TileW != 10 || s.Geometry.TileH != 5 {
		t.Errorf("geometry = %+v, want 10x5", s.Geometry)
	}

	compact := cfg.Settings(40)
	if compact.Geometry.TileW != 6 || compact.Geometry.TileH != 3 {
		t.Errorf("compact geometry = %+v, want 6x3", compact.Geometry)
	}
}
