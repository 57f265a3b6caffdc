package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the puzzle configuration. Values missing from a file keep their
// defaults.
// Search order: customPath -> ~/.slidepuzzle/configs/puzzle.yaml -> ./configs/puzzle.yaml -> embedded default
func Load(customPath string) (PuzzleConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg := DefaultPuzzleConfig()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("puzzle.yaml"); userCfgPath != "" {
		if cfg, ok := parseFile(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := parseFile(filepath.Join("configs", "puzzle.yaml")); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg := DefaultPuzzleConfig()
	if err := yaml.Unmarshal(defaultPuzzleYAML, &cfg); err != nil {
		return DefaultPuzzleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseFile reads an optional config file; unreadable or invalid files are skipped.
func parseFile(path string) (PuzzleConfig, bool) {
	cfg := DefaultPuzzleConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".slidepuzzle", "configs", filename)
}

// Validate rejects configurations no session could run with.
func (c PuzzleConfig) Validate() error {
	switch {
	case c.Grid.Size < MinGridSize || c.Grid.Size > MaxGridSize:
		return fmt.Errorf("config: grid size %d outside %d..%d", c.Grid.Size, MinGridSize, MaxGridSize)
	case c.Timing.RevealSeconds < 0:
		return fmt.Errorf("config: reveal_seconds must not be negative")
	case c.Timing.PlaySeconds <= 0:
		return fmt.Errorf("config: play_seconds must be positive")
	case c.Timing.TimeoutDelayMs < 0 || c.Timing.AutoSolveStepMs <= 0:
		return fmt.Errorf("config: timeout_delay_ms and auto_solve_step_ms must be positive")
	case c.Animation.Enabled && (c.Animation.SlideMs <= 0 || c.Animation.FrameRate <= 0):
		return fmt.Errorf("config: slide_ms and frame_rate must be positive when animation is enabled")
	case c.Input.TileWidth <= 0 || c.Input.TileHeight <= 0:
		return fmt.Errorf("config: tile size must be positive")
	case c.Input.SwipeThreshold <= 0:
		return fmt.Errorf("config: swipe_threshold must be positive")
	case c.Authority.ShuffleMultiplier <= 0:
		return fmt.Errorf("config: shuffle_multiplier must be positive")
	}
	return nil
}
