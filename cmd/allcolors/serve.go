package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/allcolors/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the allcolors SSH server",
	Long: `Start an SSH server that streams a live generation to each visitor.

Every SSH connection gets its own worker running the configured canvas.
Runs from all sessions are recorded in the server's database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.allcolors/host_key

Examples:
  allcolors serve                           # Listen on :23235 with auto-generated key
  allcolors serve --ssh :2222               # Listen on port 2222
  allcolors serve --preset small            # Cheap canvas for many visitors
  allcolors serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	gen, err := resolveConfig(cmd)
	if err != nil {
		fail("loading config", err)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      dbPath(cmd, gen),
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Generation:  gen,
	}

	server, err := tui.NewSSHServer(cfg, newLogger("allcolors-ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting allcolors SSH server on %s\n", server.Addr())
	fmt.Printf("Canvas %dx%d, depth %d, policy %s\n", gen.Width, gen.Height, gen.Depth, gen.Policy)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
