// slidepuzzle is a sliding-tile picture puzzle for the terminal.
//
// Usage:
//
//	slidepuzzle play              - Play one board right away
//	slidepuzzle menu              - Pick a difficulty, play, repeat
//	slidepuzzle serve             - Run the HTTP move authority
//	slidepuzzle ssh               - Serve the puzzle over SSH
//	slidepuzzle mcp               - Expose the authority as MCP tools on stdio
//	slidepuzzle watch <session>   - Spectate a session on an HTTP authority
//	slidepuzzle scores            - Show the fastest solves
//	slidepuzzle presets           - List difficulty presets
//
// Global flags:
//
//	--config <path>       - Puzzle config YAML
//	--difficulty <name>   - easy, normal or hard
//	--server <url>        - Play against a remote HTTP authority
//	--seed <value>        - Seed the in-process authority
//	--db <path>           - Results database (default: ~/.slidepuzzle/results.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is reported to MCP clients.
const version = "0.1.0"

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagServer     string
	flagSeed       int64
	flagDBPath     string
	flagDebug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slidepuzzle",
	Short: "Slide Puzzle - unscramble a picture before the clock runs out",
	Long: `Slide Puzzle shows you a picture for a few seconds, shuffles it into
tiles and gives you half a minute to slide it back together.

Available commands:
  play     - Play one board right away
  menu     - Difficulty menu; returns there after every game
  serve    - Run the HTTP move authority other clients play against
  ssh      - Serve the puzzle over SSH
  mcp      - Let an MCP client play through tools on stdio
  watch    - Spectate a session on an HTTP authority
  scores   - Show the fastest solves
  presets  - List difficulty presets

Examples:
  slidepuzzle play --difficulty hard
  slidepuzzle menu --server http://localhost:5000
  slidepuzzle serve --listen :5000
  slidepuzzle watch 3f1c... --server http://localhost:5000`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to puzzle config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "HTTP authority URL (empty = in-process)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for the in-process authority (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.slidepuzzle/results.db", "Path to results database")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(presetsCmd)
}
