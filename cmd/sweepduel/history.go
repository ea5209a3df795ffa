package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/platform/tui"
	"github.com/vovakirdan/sweepduel/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryPlain bool
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished matches",
	Long: `Show recently finished matches and the overall tally.

On a terminal the history opens as an interactive table. Use --plain
(or pipe the output) for a text listing.

Examples:
  sweepduel history
  sweepduel history --plain --limit 5
  sweepduel history --clear`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of matches to list in plain mode")
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print a text listing instead of the table")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded matches")
}

func runHistory(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearResults(); err != nil {
			return err
		}
		fmt.Println("Match history cleared.")
		return nil
	}

	if !flagHistoryPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		rc := core.DefaultConfig()
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			rc.ScreenW, rc.ScreenH = w, h
		}
		return tui.RunHistory(store, rc.ScreenW, rc.ScreenH)
	}

	results, err := store.RecentResults(flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'sweepduel play' to record the first one!")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-8s  %-16s  %s\n", "Ended", "Winner", "How", "P1 safe/bad/time", "P2 safe/bad/time")
	fmt.Printf("  %-16s  %-8s  %-8s  %-16s  %s\n", "-----", "------", "---", "----------------", "----------------")
	for _, r := range results {
		winner := "draw"
		if r.Winner != core.PlayerNone {
			winner = fmt.Sprintf("P%d", r.Winner)
		}
		fmt.Printf("  %-16s  %-8s  %-8s  %-16s  %s\n",
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			winner,
			r.Reason,
			playerSummary(r.Players[0]),
			playerSummary(r.Players[1]),
		)
	}

	tally, err := store.Tally()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Total: %d matches, P1 %d wins, P2 %d wins, %d draws\n",
		tally.Matches, tally.Player1Wins, tally.Player2Wins, tally.Draws)
	return nil
}

func playerSummary(p storage.PlayerRecord) string {
	t := "-"
	if p.TimeTaken != nil {
		t = fmt.Sprintf("%ds", *p.TimeTaken)
	}
	return fmt.Sprintf("%d/%d/%s", p.RevealedSafe, p.IncorrectFlags, t)
}
