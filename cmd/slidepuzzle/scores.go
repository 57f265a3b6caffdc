package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/slidepuzzle/internal/config"
	"github.com/vovakirdan/slidepuzzle/internal/platform/tui"
	"github.com/vovakirdan/slidepuzzle/internal/storage"
)

var (
	scoresText  bool
	scoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the fastest solves",
	Long: `Show the best results for the configured grid size. Without --text the
interactive scoreboard opens, with a tab per grid size.

Examples:
  slidepuzzle scores
  slidepuzzle scores --difficulty hard --text
  slidepuzzle scores --grid-clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List difficulty presets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Difficulty presets:")
		fmt.Println()
		for _, p := range config.Presets() {
			fmt.Printf("  %s\n", config.PresetLabel(p))
		}
		fmt.Println()
		fmt.Println("Use --difficulty <name> with play, menu or scores.")
	},
}

func init() {
	scoresCmd.Flags().BoolVar(&scoresText, "text", false, "Print a plain listing instead of the scoreboard")
	scoresCmd.Flags().BoolVar(&scoresClear, "grid-clear", false, "Delete all results for the grid size")
}

func runScores(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	n := cfg.Grid.Size

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening results database: %v", err)
	}
	defer store.Close()

	if scoresClear {
		if err := store.ClearResults(n); err != nil {
			fatalf("clearing results: %v", err)
		}
		fmt.Printf("Cleared results for %dx%d.\n", n, n)
		return
	}

	if !scoresText {
		rc := runtimeConfig()
		if err := tui.RunScoreboard(store, n, rc.ScreenW, rc.ScreenH); err != nil {
			fatalf("%v", err)
		}
		return
	}

	results, err := store.BestResults(n, 10)
	if err != nil {
		fatalf("retrieving results: %v", err)
	}

	fmt.Printf("Fastest solves - %dx%d\n", n, n)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No solves recorded yet.")
		fmt.Println()
		fmt.Println("Play 'slidepuzzle play' to set the first time!")
		return
	}

	fmt.Printf("  %-4s  %-6s  %-5s  %s\n", "Rank", "Time", "Moves", "Date")
	fmt.Printf("  %-4s  %-6s  %-5s  %s\n", "----", "----", "-----", "----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-6s  %-5d  %s\n",
			i+1,
			fmt.Sprintf("%d:%02d", r.ElapsedSecs/60, r.ElapsedSecs%60),
			r.Moves,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	stats, err := store.Stats(n)
	if err == nil && stats.Games > 0 {
		fmt.Println()
		fmt.Printf("Games: %d  Wins: %d  Win rate: %.0f%%\n", stats.Games, stats.Wins, stats.WinRate()*100)
	}
}
