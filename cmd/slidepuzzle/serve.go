package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/slidepuzzle/internal/authority"
	"github.com/vovakirdan/slidepuzzle/internal/platform/tui"
	"github.com/vovakirdan/slidepuzzle/internal/puzzle"
)

var (
	serveListen    string
	serveStaticDir string

	sshAddress string
	sshHostKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP move authority",
	Long: `Run the move authority over HTTP. Each client cookie gets its own
board. Pictures are served under /static/ and spectators can follow a
session on /ws/<session>.

Examples:
  slidepuzzle serve
  slidepuzzle serve --listen :8080 --static ./static`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Serve the puzzle over SSH",
	Long: `Start an SSH server so players can connect with any SSH client.

Examples:
  slidepuzzle ssh
  slidepuzzle ssh --address :2222

Players connect with:
  ssh -p 23235 localhost`,
	Args: cobra.NoArgs,
	Run:  runSSH,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveStaticDir, "static", "static", "Directory served under /static/")

	sshCmd.Flags().StringVar(&sshAddress, "address", ":23235", "SSH server address (host:port)")
	sshCmd.Flags().StringVar(&sshHostKey, "host-key", "", "Path to SSH host key (auto-generated if empty)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := stderrLogger("slidepuzzle-http")

	listen := serveListen
	if listen == "" {
		listen = cfg.Authority.Listen
	}

	srv := authority.NewServer(authority.ServerConfig{
		Catalog: &authority.Catalog{
			Dir:      cfg.Authority.ImagesDir,
			Fallback: cfg.Authority.DefaultImage,
		},
		StaticDir:         serveStaticDir,
		ShuffleMultiplier: cfg.Authority.ShuffleMultiplier,
		Seed:              flagSeed,
		Logger:            logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, listen); err != nil {
		fatalf("server error: %v", err)
	}
}

func runSSH(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := stderrLogger("slidepuzzle-ssh")

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = sshAddress
	sshCfg.HostKeyPath = sshHostKey
	sshCfg.DBPath = flagDBPath
	sshCfg.Puzzle = cfg
	// Visitors never share a board, so each one gets its own authority.
	sshCfg.NewAuthority = func(user string) (puzzle.Authority, tui.Opener, error) {
		svc, opener, err := newService(cfg, 0)
		if err != nil {
			return nil, nil, err
		}
		return svc, opener, nil
	}

	server, err := tui.NewSSHServer(sshCfg, logger)
	if err != nil {
		fatalf("creating SSH server: %v", err)
	}

	if err := server.ListenAndServe(); err != nil {
		fatalf("server error: %v", err)
	}
}
