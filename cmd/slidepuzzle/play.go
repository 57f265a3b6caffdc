package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/slidepuzzle/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one board right away",
	Long: `Start a single puzzle at the configured difficulty.

The picture is shown whole for a few seconds, then shuffled. Slide tiles
with the arrow keys, WASD or the mouse. Press Esc to give up.

Examples:
  slidepuzzle play
  slidepuzzle play --difficulty easy
  slidepuzzle play --server http://localhost:5000`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI(true)
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Choose a difficulty and keep playing",
	Long: `Open the difficulty menu. After every game you are returned to the
menu with the outcome of the last session.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI(false)
	},
}

// runTUI runs the local session flow, either starting in a game or in the menu.
func runTUI(skipMenu bool) {
	cfg := loadConfig()
	rc := runtimeConfig()

	logger, closeLog := fileLogger()
	defer closeLog()

	auth, opener, err := newService(cfg, flagSeed)
	if err != nil {
		fatalf("%v", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	svc := tui.Services{
		Authority: auth,
		Opener:    opener,
		Store:     store,
		Logger:    logger,
	}
	logger.Info("starting", "grid", cfg.Grid.Size, "server", cfg.Authority.URL)

	if err := tui.Run(cfg, rc, svc, skipMenu); err != nil {
		fatalf("%v", err)
	}
}
