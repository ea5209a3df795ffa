package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/duel"
	"github.com/vovakirdan/sweepduel/internal/logging"
	"github.com/vovakirdan/sweepduel/internal/platform/tui"
	"github.com/vovakirdan/sweepduel/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Duel on this terminal",
	Long: `Start a duel with both players sharing this keyboard.

Controls:
  Player 1     w/a/s/d move, f reveal, g flag
  Player 2     arrows move, enter reveal, / flag
  n            New game (after a 5 second countdown)
  p / r        Pause / resume
  ctrl+s       Save the paused match
  ctrl+l       Load the saved match
  x            Delete the saved match
  q / ctrl+c   Quit

Examples:
  sweepduel play
  sweepduel play --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the game, so logs go to the configured file or nowhere.
	logger, logCloser, err := logging.New(cfg.Log, nil, "sweepduel")
	if err != nil {
		return err
	}
	defer logCloser.Close()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	slot, err := openSlot(cfg, store)
	if err != nil {
		return fmt.Errorf("opening save slot: %w", err)
	}

	rc := core.DefaultConfig()
	rc.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rc.ScreenW, rc.ScreenH = w, h
	}

	var opts []duel.Option
	if rc.Seed != 0 {
		opts = append(opts, duel.WithSeed(rc.Seed))
	}
	engine, err := duel.NewEngine(duel.DefaultRules(), opts...)
	if err != nil {
		return err
	}
	ctl := duel.NewController(engine, slot,
		duel.WithRecorder(store),
		duel.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("local duel started", "seed", rc.Seed, "backend", cfg.Storage.SaveBackend)
	return tui.Run(ctx, ctl, rc)
}
