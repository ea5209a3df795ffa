package duel

// Status is the phase of a match.
type Status int

const (
	StatusIdle Status = iota
	StatusCountdown
	StatusPlaying
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCountdown:
		return "countdown"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// acceptsNewMatch reports whether a new or loaded match may replace the
// current one.
func (s Status) acceptsNewMatch() bool {
	return s == StatusIdle || s == StatusPaused || s == StatusGameOver
}

// EndReason records how a finished match was decided.
type EndReason int

const (
	EndNone EndReason = iota
	EndMine
	EndTimeout
	EndCleared
)

func (r EndReason) String() string {
	switch r {
	case EndMine:
		return "mine"
	case EndTimeout:
		return "timeout"
	case EndCleared:
		return "cleared"
	default:
		return "none"
	}
}

// ParseEndReason is the inverse of EndReason.String.
// Unknown names map to EndNone.
func ParseEndReason(s string) EndReason {
	switch s {
	case "mine":
		return EndMine
	case "timeout":
		return EndTimeout
	case "cleared":
		return EndCleared
	default:
		return EndNone
	}
}

// Notice is the outcome of the most recent save, load or delete.
type Notice int

const (
	NoticeNone Notice = iota
	NoticeSaved
	NoticeSaveFailed
	NoticeLoaded
	NoticeNoSavedMatch
	NoticeSaveDeleted
)

// String returns the message shown to players.
func (n Notice) String() string {
	switch n {
	case NoticeSaved:
		return "Match saved"
	case NoticeSaveFailed:
		return "Save failed"
	case NoticeLoaded:
		return "Saved match loaded"
	case NoticeNoSavedMatch:
		return "No saved match"
	case NoticeSaveDeleted:
		return "Saved match deleted"
	default:
		return ""
	}
}
