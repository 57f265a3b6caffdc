package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/slidepuzzle/internal/authority"
	"github.com/vovakirdan/slidepuzzle/internal/config"
	"github.com/vovakirdan/slidepuzzle/internal/core"
	"github.com/vovakirdan/slidepuzzle/internal/platform/tui"
	"github.com/vovakirdan/slidepuzzle/internal/storage"
)

// fatalf prints an error and exits, the way every command reports failure.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the puzzle config and applies the global flags.
func loadConfig() config.PuzzleConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			fatalf("%v", err)
		}
		config.ApplyPreset(&cfg, preset)
	}
	if flagServer != "" {
		cfg.Authority.URL = flagServer
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	return cfg
}

// runtimeConfig reads the terminal size.
func runtimeConfig() core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	rc.Seed = flagSeed
	return rc
}

// stderrLogger is used by the server commands.
func stderrLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// fileLogger writes to ~/.slidepuzzle/slidepuzzle.log while a TUI owns the
// terminal. If the file cannot be opened, logs are discarded.
func fileLogger() (*log.Logger, func()) {
	var w io.Writer = io.Discard
	closeFn := func() {}

	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".slidepuzzle")
		//nolint:errcheck // Best-effort directory creation
		os.MkdirAll(dir, 0o755)
		if f, err := os.OpenFile(filepath.Join(dir, "slidepuzzle.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err == nil {
			w = f
			closeFn = func() { f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "slidepuzzle",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn
}

// openStore opens the results database; the game still works without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		return nil
	}
	return store
}

// newService returns the authority sessions play against: a remote HTTP
// authority when one is configured, otherwise an in-process one.
func newService(cfg config.PuzzleConfig, seed int64) (authority.Service, tui.Opener, error) {
	if cfg.Authority.URL != "" {
		client, err := authority.NewClient(cfg.Authority.URL)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}

	opts := []authority.LocalOption{
		authority.WithCatalog(&authority.Catalog{
			Dir:      cfg.Authority.ImagesDir,
			Fallback: cfg.Authority.DefaultImage,
		}),
		authority.WithShuffleMultiplier(cfg.Authority.ShuffleMultiplier),
	}
	if seed != 0 {
		opts = append(opts, authority.WithSeed(seed))
	}
	return authority.NewLocal(opts...), tui.FileOpener{}, nil
}
