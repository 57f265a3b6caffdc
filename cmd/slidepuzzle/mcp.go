package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/slidepuzzle/internal/authority"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the authority as MCP tools on stdio",
	Long: `Serve start_game, move and board as Model Context Protocol tools over
stdin/stdout. With --server the tools drive a remote HTTP authority,
otherwise an in-process one.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		// stdout carries the protocol.
		logger := stderrLogger("slidepuzzle-mcp")

		svc, _, err := newService(cfg, flagSeed)
		if err != nil {
			fatalf("%v", err)
		}

		logger.Info("serving MCP tools on stdio", "server", cfg.Authority.URL)
		if err := authority.NewToolServer(svc, version).ServeStdio(); err != nil {
			fatalf("%v", err)
		}
	},
}
