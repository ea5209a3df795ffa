package duel

import "errors"

var (
	// ErrInvalidRules is returned by Rules.Validate.
	ErrInvalidRules = errors.New("duel: invalid rules")

	// ErrOutOfBounds is returned for a cell coordinate outside the board.
	// The match is never modified when it is returned.
	ErrOutOfBounds = errors.New("duel: cell out of bounds")

	// ErrUnknownPlayer is returned for an action by core.PlayerNone or an
	// unknown player ID.
	ErrUnknownPlayer = errors.New("duel: unknown player")

	// ErrBoardMismatch is returned when a board does not fit the rules.
	ErrBoardMismatch = errors.New("duel: board does not match rules")

	// ErrMatchInProgress is returned by ApplySnapshot while a match is
	// counting down or being played.
	ErrMatchInProgress = errors.New("duel: match in progress")

	// ErrSaveFailed wraps encode and write failures on save.
	ErrSaveFailed = errors.New("duel: save failed")

	// ErrNoSavedMatch wraps read, decode and apply failures on load.
	ErrNoSavedMatch = errors.New("duel: no saved match")

	// ErrStopped is returned by controller commands once Run has returned.
	ErrStopped = errors.New("duel: controller stopped")
)
