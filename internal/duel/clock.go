package duel

import "time"

// Clock creates tickers and tells the time. RealClock is used outside tests.
type Clock interface {
	NewTicker(d time.Duration) Ticker
	Now() time.Time
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock is a Clock backed by the time package.
type RealClock struct{}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

func (RealClock) Now() time.Time {
	return time.Now()
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r realTicker) Stop() {
	r.t.Stop()
}
