package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/duel"
)

// MatchRecord is one stored finished match.
type MatchRecord struct {
	ID      int64
	MatchID string
	Winner  core.PlayerID
	Loser   core.PlayerID
	Reason  duel.EndReason
	Elapsed int
	Players [2]PlayerRecord
	EndedAt time.Time
}

// PlayerRecord is one player's line of a MatchRecord.
type PlayerRecord struct {
	RevealedSafe   int
	IncorrectFlags int
	// TimeTaken is the adjusted finish time; nil if the player did not clear.
	TimeTaken *int
}

// Tally aggregates all stored matches.
type Tally struct {
	Matches     int
	Player1Wins int
	Player2Wins int
	Draws       int
	MineLosses  int
	Timeouts    int
}

// ErrMatchNotFound is returned by MatchByID for an unknown match.
var ErrMatchNotFound = errors.New("storage: match not found")

// SaveMatchResult implements duel.ResultRecorder.
// Recording the same match twice keeps the first record.
func (s *Store) SaveMatchResult(r duel.Result) error {
	finish := func(p duel.PlayerResult) any {
		if !p.Finished {
			return nil
		}
		return p.TimeTaken
	}

	endedAt := r.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO match_results (
			match_id, winner, loser, end_reason, elapsed_secs,
			p1_revealed, p1_bad_flags, p1_time,
			p2_revealed, p2_bad_flags, p2_time,
			ended_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO NOTHING`,
		r.MatchID, int(r.Winner), int(r.Loser), r.Reason.String(), r.Elapsed,
		r.Players[0].RevealedSafe, r.Players[0].IncorrectFlags, finish(r.Players[0]),
		r.Players[1].RevealedSafe, r.Players[1].IncorrectFlags, finish(r.Players[1]),
		endedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save match result: %w", err)
	}
	return nil
}

var _ duel.ResultRecorder = (*Store)(nil)

const matchColumns = `id, match_id, winner, loser, end_reason, elapsed_secs,
	p1_revealed, p1_bad_flags, p1_time,
	p2_revealed, p2_bad_flags, p2_time,
	ended_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var (
		m              MatchRecord
		winner, loser  int
		reason         string
		p1Time, p2Time sql.NullInt64
		endedAt        any
	)
	err := row.Scan(
		&m.ID, &m.MatchID, &winner, &loser, &reason, &m.Elapsed,
		&m.Players[0].RevealedSafe, &m.Players[0].IncorrectFlags, &p1Time,
		&m.Players[1].RevealedSafe, &m.Players[1].IncorrectFlags, &p2Time,
		&endedAt,
	)
	if err != nil {
		return MatchRecord{}, err
	}

	m.Winner = core.PlayerID(winner)
	m.Loser = core.PlayerID(loser)
	m.Reason = duel.ParseEndReason(reason)
	m.EndedAt = scanTime(endedAt)
	for i, t := range [2]sql.NullInt64{p1Time, p2Time} {
		if t.Valid {
			v := int(t.Int64)
			m.Players[i].TimeTaken = &v
		}
	}
	return m, nil
}

// RecentResults returns the most recent matches, newest first.
func (s *Store) RecentResults(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM match_results
		 ORDER BY ended_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match results: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// MatchByID retrieves one match by its match ID.
func (s *Store) MatchByID(matchID string) (MatchRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+matchColumns+` FROM match_results WHERE match_id = ?`,
		matchID,
	)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, ErrMatchNotFound
	}
	if err != nil {
		return MatchRecord{}, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return m, nil
}

// Tally counts wins, draws and end reasons over all stored matches.
func (s *Store) Tally() (Tally, error) {
	var t Tally
	err := s.db.QueryRow(
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN winner = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN end_reason = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN end_reason = ? THEN 1 ELSE 0 END), 0)
		 FROM match_results`,
		int(core.Player1), int(core.Player2), duel.EndMine.String(), duel.EndTimeout.String(),
	).Scan(&t.Matches, &t.Player1Wins, &t.Player2Wins, &t.Draws, &t.MineLosses, &t.Timeouts)
	if err != nil {
		return Tally{}, fmt.Errorf("storage: cannot tally match results: %w", err)
	}
	return t, nil
}

// ClearResults deletes the whole match history.
func (s *Store) ClearResults() error {
	_, err := s.db.Exec("DELETE FROM match_results")
	if err != nil {
		return fmt.Errorf("storage: cannot clear match results: %w", err)
	}
	return nil
}
