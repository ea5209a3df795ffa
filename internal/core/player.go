package core

// PlayerID identifies one side of a duel.
// The zero value means "no player" and is used for an undecided or tied match.
type PlayerID int

const (
	PlayerNone PlayerID = iota
	Player1
	Player2
)

// Players lists both sides in board order (left, right).
var Players = [2]PlayerID{Player1, Player2}

// Valid reports whether the ID names an actual player.
func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// Index returns the zero-based slot of the player, or -1 for PlayerNone.
func (p PlayerID) Index() int {
	if !p.Valid() {
		return -1
	}
	return int(p) - 1
}

// Other returns the opponent. PlayerNone has no opponent.
func (p PlayerID) Other() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return PlayerNone
	}
}

// String returns a human-readable name for the player.
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	default:
		return "None"
	}
}
