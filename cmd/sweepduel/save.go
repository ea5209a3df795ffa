package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sweepduel/internal/savegame"
	"github.com/vovakirdan/sweepduel/internal/storage"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Inspect or delete the saved match",
}

var saveShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Describe the saved match",
	Args:  cobra.NoArgs,
	RunE:  runSaveShow,
}

var saveDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the saved match",
	Args:  cobra.NoArgs,
	RunE:  runSaveDelete,
}

func init() {
	saveCmd.AddCommand(saveShowCmd)
	saveCmd.AddCommand(saveDeleteCmd)
}

// withSlot opens the configured save slot for the duration of fn.
func withSlot(fn func(savegame.Slot) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	slot, err := openSlot(cfg, store)
	if err != nil {
		return fmt.Errorf("opening save slot: %w", err)
	}
	return fn(slot)
}

func runSaveShow(_ *cobra.Command, _ []string) error {
	return withSlot(func(slot savegame.Slot) error {
		data, err := slot.Read()
		if errors.Is(err, savegame.ErrNoSave) {
			fmt.Println("No saved match.")
			return nil
		}
		if err != nil {
			return err
		}

		snap, err := savegame.Decode(data)
		if err != nil {
			return fmt.Errorf("saved match is unreadable: %w", err)
		}

		if dated, ok := slot.(interface{ SavedAt() (time.Time, error) }); ok {
			if at, err := dated.SavedAt(); err == nil {
				fmt.Printf("Saved at:  %s\n", at.Local().Format("2006-01-02 15:04"))
			}
		}
		fmt.Printf("Time left: %d:%02d\n", snap.RemainingTime/60, snap.RemainingTime%60)
		for i, p := range []savegame.PlayerRecord{snap.Player1, snap.Player2} {
			b := p.Board
			fmt.Printf("Player %d:  %dx%d board, %d safe cells revealed, %d flags",
				i+1, b.Rows(), b.Cols(), b.RevealedSafe(), p.FlagsPlaced)
			if p.TimeTaken != nil {
				fmt.Printf(", finished in %ds", *p.TimeTaken)
			}
			fmt.Println()
		}
		return nil
	})
}

func runSaveDelete(_ *cobra.Command, _ []string) error {
	return withSlot(func(slot savegame.Slot) error {
		if !slot.Exists() {
			fmt.Println("No saved match.")
			return nil
		}
		if err := slot.Remove(); err != nil {
			return err
		}
		fmt.Println("Saved match deleted.")
		return nil
	})
}
