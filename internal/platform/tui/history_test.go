package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/duel"
	"github.com/vovakirdan/sweepduel/internal/storage"
)

type fakeHistory struct {
	results []storage.MatchRecord
	tally   storage.Tally
	err     error
}

func (f fakeHistory) RecentResults(limit int) ([]storage.MatchRecord, error) {
	if len(f.results) > limit {
		return f.results[:limit], f.err
	}
	return f.results, f.err
}

func (f fakeHistory) Tally() (storage.Tally, error) {
	return f.tally, f.err
}

func TestHistoryRows(t *testing.T) {
	took := 65
	rows := historyRows([]storage.MatchRecord{
		{
			Winner:  core.Player1,
			Reason:  duel.EndCleared,
			Players: [2]storage.PlayerRecord{{RevealedSafe: 87, IncorrectFlags: 1, TimeTaken: &took}, {RevealedSafe: 40}},
			EndedAt: time.Date(2026, 3, 4, 10, 30, 0, 0, time.Local),
		},
		{Reason: duel.EndTimeout, EndedAt: time.Now()},
	})

	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	want := []string{"Mar 04 10:30", "Player 1", "cleared", "87/1/65s", "40/0/-"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("row 0 col %d = %q, want %q", i, rows[0][i], cell)
		}
	}
	if rows[1][1] != "draw" || rows[1][2] != "timeout" {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestHistoryView(t *testing.T) {
	tests := []struct {
		name   string
		source HistorySource
		want   string
	}{
		{"no store", nil, "No matches recorded yet."},
		{"empty", fakeHistory{}, "No matches recorded yet."},
		{"error", fakeHistory{err: errors.New("disk gone")}, "Could not load history: disk gone"},
		{
			"tally",
			fakeHistory{
				results: []storage.MatchRecord{{Winner: core.Player2, Reason: duel.EndMine}},
				tally:   storage.Tally{Matches: 1, Player2Wins: 1, MineLosses: 1},
			},
			"1 matches  P1 0  P2 1  draws 0  mines 1  timeouts 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewHistoryModel(tt.source, 100, 30)
			if view := m.View(); !strings.Contains(view, tt.want) {
				t.Errorf("view missing %q:\n%s", tt.want, view)
			}
		})
	}
}
