package duel

import "sync"

// Subscription delivers published states to one observer.
// A slow observer loses the oldest pending state, never the newest.
type Subscription struct {
	mu     sync.Mutex
	ch     chan State
	closed bool
}

func newSubscription(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 16
	}
	return &Subscription{ch: make(chan State, buffer)}
}

// C returns the channel of states. It is closed by Close or when the
// controller stops.
func (s *Subscription) C() <-chan State {
	return s.ch
}

func (s *Subscription) send(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- st:
	default:
		// Full: drop the oldest and retry once.
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- st:
		default:
		}
	}
}

// Close stops delivery and closes the channel. Safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *Subscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
