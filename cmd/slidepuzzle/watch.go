package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/slidepuzzle/internal/authority"
	"github.com/vovakirdan/slidepuzzle/internal/platform/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <session>",
	Short: "Spectate a session on an HTTP authority",
	Long: `Follow another player's board live. The session id is the
slidepuzzle_session cookie the authority hands out on start_game.

Examples:
  slidepuzzle watch 6f0c2a1e-... --server http://localhost:5000`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg.Authority.URL == "" {
			fatalf("watch needs --server or authority.url in the config")
		}

		wsURL, err := authority.WatchURL(cfg.Authority.URL, args[0])
		if err != nil {
			fatalf("%v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rc := runtimeConfig()
		if err := tui.RunWatch(ctx, wsURL, args[0], cfg.Geometry(rc.ScreenW), rc); err != nil {
			fatalf("%v", err)
		}
	},
}
