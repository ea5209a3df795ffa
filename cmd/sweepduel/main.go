// sweepduel is a two-player competitive minesweeper for the terminal.
//
// Usage:
//
//	sweepduel play           - Duel on this terminal
//	sweepduel serve          - Start SSH server for remote duels
//	sweepduel history        - Show finished matches
//	sweepduel save show      - Describe the saved match
//	sweepduel save delete    - Delete the saved match
//
// Global flags:
//
//	--config <path> - Configuration file (default: search ~/.sweepduel, ./configs)
//	--seed <value>  - Set RNG seed for reproducible boards
//	--db <path>     - Override the database path
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sweepduel/internal/config"
	"github.com/vovakirdan/sweepduel/internal/savegame"
	"github.com/vovakirdan/sweepduel/internal/storage"
)

var (
	// Global flags
	flagConfig string
	flagSeed   uint64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sweepduel",
	Short: "Sweepduel - head-to-head minesweeper in your terminal",
	Long: `Sweepduel puts two minesweeper boards side by side. Both players race
the same clock: hit a mine and you lose, clear your board faster than
your opponent (wrong flags cost 5 seconds each) and you win.

Available commands:
  play     - Duel on this terminal
  serve    - Start SSH server for remote duels
  history  - Show finished matches
  save     - Inspect or delete the saved match

Examples:
  sweepduel play
  sweepduel play --seed 42
  sweepduel serve --ssh :2222
  sweepduel history`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(saveCmd)
}

// loadConfig reads and validates the configuration, applying global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openSlot returns the save slot selected by the configuration.
func openSlot(cfg config.Config, store *storage.Store) (savegame.Slot, error) {
	if cfg.Storage.SaveBackend == config.SaveBackendSQLite {
		return store.SaveSlot(), nil
	}
	return savegame.NewFileSlot(cfg.Storage.SavePath)
}
