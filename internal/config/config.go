// Package config provides YAML-based puzzle configuration loading and
// difficulty presets for the slide puzzle.
package config

// PuzzleConfig contains all configuration for a puzzle session and the
// authority that serves it.
type PuzzleConfig struct {
	Grid         GridConfig         `yaml:"grid"`
	Timing       TimingConfig       `yaml:"timing"`
	Animation    AnimationConfig    `yaml:"animation"`
	Input        InputConfig        `yaml:"input"`
	Authority    AuthorityConfig    `yaml:"authority"`
	Presentation PresentationConfig `yaml:"presentation"`
}

// GridConfig defines the board dimensions.
type GridConfig struct {
	Size int `yaml:"size"` // N for an N×N board
}

// TimingConfig defines phase durations.
type TimingConfig struct {
	RevealSeconds   int `yaml:"reveal_seconds"`
	PlaySeconds     int `yaml:"play_seconds"`
	TimeoutDelayMs  int `yaml:"timeout_delay_ms"`   // "Not quite" pause before auto-solve
	AutoSolveStepMs int `yaml:"auto_solve_step_ms"` // Pause between auto-solve swaps
}

// AnimationConfig defines tile slide animation.
type AnimationConfig struct {
	Enabled   bool `yaml:"enabled"`
	SlideMs   int  `yaml:"slide_ms"`
	FrameRate int  `yaml:"frame_rate"`
}

// InputConfig defines tile geometry and gesture recognition, in terminal cells.
type InputConfig struct {
	SwipeThreshold int `yaml:"swipe_threshold"`
	TileWidth      int `yaml:"tile_width"`
	TileHeight     int `yaml:"tile_height"`
}

// AuthorityConfig defines where moves are validated.
type AuthorityConfig struct {
	URL               string `yaml:"url"`    // Remote authority; empty runs it in-process
	Listen            string `yaml:"listen"` // Address for `serve`
	ImagesDir         string `yaml:"images_dir"`
	DefaultImage      string `yaml:"default_image"`
	ShuffleMultiplier int    `yaml:"shuffle_multiplier"` // Shuffle walks N²·multiplier steps
}

// PresentationConfig shrinks tiles on narrow terminals. It never changes
// game rules or timings.
type PresentationConfig struct {
	CompactBelowWidth int `yaml:"compact_below_width"`
	CompactTileWidth  int `yaml:"compact_tile_width"`
	CompactTileHeight int `yaml:"compact_tile_height"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)
