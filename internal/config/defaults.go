package config

import (
	_ "embed"
)

//go:embed defaults/puzzle.yaml
var defaultPuzzleYAML []byte

// DefaultPuzzleConfig returns the hardcoded puzzle configuration, used when
// the embedded YAML cannot be parsed and as the base every load starts from.
func DefaultPuzzleConfig() PuzzleConfig {
	return PuzzleConfig{
		Grid: GridConfig{Size: 3},
		Timing: TimingConfig{
			RevealSeconds:   5,
			PlaySeconds:     30,
			TimeoutDelayMs:  3000,
			AutoSolveStepMs: 100,
		},
		Animation: AnimationConfig{
			Enabled:   true,
			SlideMs:   150,
			FrameRate: 60,
		},
		Input: InputConfig{
			SwipeThreshold: 3,
			TileWidth:      10,
			TileHeight:     5,
		},
		Authority: AuthorityConfig{
			Listen:            ":5000",
			ImagesDir:         "static/images",
			DefaultImage:      "static/images/default.png",
			ShuffleMultiplier: 10,
		},
		Presentation: PresentationConfig{
			CompactBelowWidth: 60,
			CompactTileWidth:  6,
			CompactTileHeight: 3,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultPuzzleYAML
}
