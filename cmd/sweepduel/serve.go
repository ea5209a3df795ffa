package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sweepduel/internal/config"
	"github.com/vovakirdan/sweepduel/internal/logging"
	"github.com/vovakirdan/sweepduel/internal/platform/tui"
	"github.com/vovakirdan/sweepduel/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sweepduel SSH server",
	Long: `Start an SSH server that hosts duels.

Each SSH connection gets its own match with both players at the
connecting keyboard. Results are recorded in the server's database and
all sessions share one save slot.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses server.host_key_path from the config

Examples:
  sweepduel serve                           # Listen on the configured address
  sweepduel serve --ssh :2222               # Listen on port 2222
  sweepduel serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ssh") {
		cfg.Server.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		cfg.Server.HostKeyPath = flagHostKey
	}
	if cmd.Flags().Changed("idle-timeout") {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}

	logger, logCloser, err := logging.New(cfg.Log, os.Stderr, "sweepduel-ssh")
	if err != nil {
		return err
	}
	defer logCloser.Close()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open database, results will not be recorded", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if store == nil && cfg.Storage.SaveBackend == config.SaveBackendSQLite {
		return fmt.Errorf("save backend %q needs the database", cfg.Storage.SaveBackend)
	}
	slot, err := openSlot(cfg, store)
	if err != nil {
		return fmt.Errorf("opening save slot: %w", err)
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     cfg.Server.Address,
		HostKeyPath: cfg.Server.HostKeyPath,
		IdleTimeout: cfg.Server.IdleTimeout,
	}, store, slot, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Starting sweepduel SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Serve(ctx)
}
