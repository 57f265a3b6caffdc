package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

// Grid size limits. Beyond 8 the board no longer fits a terminal.
const (
	MinGridSize = 2
	MaxGridSize = 8
)

// Presets lists the difficulty presets in menu order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParsePreset converts a preset name.
func ParsePreset(name string) (DifficultyPreset, error) {
	for _, p := range Presets() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", name)
}

// GridSizeForPreset returns the board size for a difficulty preset.
func GridSizeForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 3
	case DifficultyNormal:
		return 4
	case DifficultyHard:
		return 5
	default:
		return 3
	}
}

// PresetLabel returns the menu label for a preset.
func PresetLabel(preset DifficultyPreset) string {
	n := GridSizeForPreset(preset)
	return fmt.Sprintf("%s (%dx%d)", preset, n, n)
}

// ApplyPreset sets the grid size from a difficulty preset.
func ApplyPreset(cfg *PuzzleConfig, preset DifficultyPreset) {
	cfg.Grid.Size = GridSizeForPreset(preset)
}

// Geometry picks the tile size for a terminal of the given width. A zero
// width means unknown and keeps the regular size.
func (c PuzzleConfig) Geometry(screenW int) puzzle.Geometry {
	p := c.Presentation
	if screenW > 0 && screenW < p.CompactBelowWidth && p.CompactTileWidth > 0 && p.CompactTileHeight > 0 {
		return puzzle.Geometry{TileW: p.CompactTileWidth, TileH: p.CompactTileHeight}
	}
	return puzzle.Geometry{TileW: c.Input.TileWidth, TileH: c.Input.TileHeight}
}

// Settings converts the configuration into controller settings.
func (c PuzzleConfig) Settings(screenW int) puzzle.Settings {
	s := puzzle.DefaultSettings(c.Grid.Size)
	s.RevealSeconds = c.Timing.RevealSeconds
	s.PlaySeconds = c.Timing.PlaySeconds
	s.TimeoutDelay = time.Duration(c.Timing.TimeoutDelayMs) * time.Millisecond
	s.AutoSolveStep = time.Duration(c.Timing.AutoSolveStepMs) * time.Millisecond
	s.AnimateSlides = c.Animation.Enabled
	s.SlideDuration = time.Duration(c.Animation.SlideMs) * time.Millisecond
	if c.Animation.FrameRate > 0 {
		s.FrameInterval = time.Second / time.Duration(c.Animation.FrameRate)
	}
	s.Geometry = c.Geometry(screenW)
	return s
}
