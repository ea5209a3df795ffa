package duel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sweepduel/internal/core"
	"github.com/vovakirdan/sweepduel/internal/savegame"
)

// Controller runs one Engine on one goroutine. Timer ticks and player
// commands are serialized through Run, so the engine never sees concurrent
// access. Every command blocks until it has been applied and the resulting
// state published.
type Controller struct {
	engine   *Engine
	slot     savegame.Slot
	clock    Clock
	recorder ResultRecorder
	logger   *log.Logger

	cmds chan command
	done chan struct{}
	once sync.Once

	mu    sync.RWMutex
	state State

	subsMu sync.Mutex
	subs   []*Subscription
}

type command struct {
	name  string
	apply func() error
	reply chan error
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithClock replaces the real clock.
func WithClock(c Clock) ControllerOption {
	return func(ctl *Controller) {
		ctl.clock = c
	}
}

// WithRecorder hands every finished match to r.
func WithRecorder(r ResultRecorder) ControllerOption {
	return func(ctl *Controller) {
		ctl.recorder = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) ControllerOption {
	return func(ctl *Controller) {
		ctl.logger = l
	}
}

// NewController wraps engine. slot holds the single saved match.
func NewController(engine *Engine, slot savegame.Slot, opts ...ControllerOption) *Controller {
	c := &Controller{
		engine: engine,
		slot:   slot,
		clock:  RealClock{},
		logger: log.New(io.Discard),
		cmds:   make(chan command),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.engine.SetSavedMatch(slot.Exists(), NoticeNone)
	c.state = c.engine.State()
	return c
}

// State returns the last published state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe returns a subscription that immediately receives the current
// state and then every change.
func (c *Controller) Subscribe(buffer int) *Subscription {
	sub := newSubscription(buffer)

	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	select {
	case <-c.done:
		sub.Close()
		return sub
	default:
	}
	sub.send(c.State())
	c.subs = append(c.subs, sub)
	return sub
}

// Done is closed when Run returns.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run drives the match until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	var countdown, match Ticker
	var countdownGen, matchGen uint64

	defer func() {
		if countdown != nil {
			countdown.Stop()
		}
		if match != nil {
			match.Stop()
		}
		c.shutdown()
	}()

	for {
		var countdownC, matchC <-chan time.Time
		if countdown != nil {
			countdownC = countdown.C()
		}
		if match != nil {
			matchC = match.C()
		}

		var pending *command
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.cmds:
			pending = &cmd
		case <-countdownC:
			c.engine.CountdownTick()
		case <-matchC:
			c.engine.MatchTick()
		}

		var err error
		if pending != nil {
			err = pending.apply()
			if err != nil {
				c.logger.Debug("command rejected", "cmd", pending.name, "err", err)
			}
		}

		// Reconcile tickers with the engine before anything is published,
		// so a stopped timer can never deliver another tick.
		t := c.engine.Timers()
		if countdown != nil && (!t.CountdownRunning || t.CountdownGen != countdownGen) {
			countdown.Stop()
			countdown = nil
		}
		if countdown == nil && t.CountdownRunning {
			countdown = c.clock.NewTicker(c.engine.Rules().TickInterval)
			countdownGen = t.CountdownGen
		}
		if match != nil && (!t.MatchRunning || t.MatchGen != matchGen) {
			match.Stop()
			match = nil
		}
		if match == nil && t.MatchRunning {
			match = c.clock.NewTicker(c.engine.Rules().TickInterval)
			matchGen = t.MatchGen
		}

		c.publish()

		if pending != nil {
			pending.reply <- err
		}
	}
}

func (c *Controller) publish() {
	next := c.engine.State()

	c.mu.Lock()
	prev := c.state
	c.state = next
	c.mu.Unlock()

	if next == prev {
		return
	}

	if next.Status != prev.Status {
		c.logger.Debug("status changed", "match", next.MatchID, "from", prev.Status, "to", next.Status)
	}
	if next.Status == StatusGameOver && prev.Status != StatusGameOver {
		c.record(next)
	}

	c.subsMu.Lock()
	live := c.subs[:0]
	for _, sub := range c.subs {
		if sub.isClosed() {
			continue
		}
		sub.send(next)
		live = append(live, sub)
	}
	c.subs = live
	c.subsMu.Unlock()
}

func (c *Controller) record(s State) {
	result, ok := s.Result(c.engine.Rules(), c.clock.Now())
	if !ok {
		return
	}
	c.logger.Info("match over",
		"match", result.MatchID,
		"winner", result.Winner,
		"reason", result.Reason,
		"elapsed", result.Elapsed,
	)
	if c.recorder == nil {
		return
	}
	if err := c.recorder.SaveMatchResult(result); err != nil {
		c.logger.Warn("cannot record match result", "match", result.MatchID, "err", err)
	}
}

func (c *Controller) shutdown() {
	c.once.Do(func() {
		c.subsMu.Lock()
		close(c.done)
		for _, sub := range c.subs {
			sub.Close()
		}
		c.subs = nil
		c.subsMu.Unlock()
	})
}

// do sends a command to the Run loop and waits for it to be applied.
func (c *Controller) do(name string, apply func() error) error {
	cmd := command{name: name, apply: apply, reply: make(chan error, 1)}

	select {
	case c.cmds <- cmd:
	case <-c.done:
		return ErrStopped
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-c.done:
		select {
		case err := <-cmd.reply:
			return err
		default:
			return ErrStopped
		}
	}
}

// StartNewGame deals new boards and starts the countdown.
func (c *Controller) StartNewGame() error {
	return c.do("new", c.engine.StartNewGame)
}

// ResumeGame resumes a paused match through the countdown.
func (c *Controller) ResumeGame() error {
	return c.do("resume", func() error {
		c.engine.ResumeGame()
		return nil
	})
}

// PauseGame pauses a running match.
func (c *Controller) PauseGame() error {
	return c.do("pause", func() error {
		c.engine.PauseGame()
		return nil
	})
}

// CellClick reveals a cell for player p.
func (c *Controller) CellClick(p core.PlayerID, row, col int) error {
	return c.do("click", func() error {
		return c.engine.CellClick(p, row, col)
	})
}

// CellLongPress toggles a flag for player p.
func (c *Controller) CellLongPress(p core.PlayerID, row, col int) error {
	return c.do("flag", func() error {
		return c.engine.CellLongPress(p, row, col)
	})
}

// SaveGame writes the paused match to the save slot. It does nothing
// unless the match is paused.
func (c *Controller) SaveGame() error {
	return c.do("save", c.save)
}

func (c *Controller) save() error {
	snap, ok := c.engine.SaveSnapshot()
	if !ok {
		return nil
	}

	data, err := savegame.Encode(snap)
	if err == nil {
		err = c.slot.Write(data)
	}
	if err != nil {
		c.engine.SetSavedMatch(c.engine.State().HasSavedMatch, NoticeSaveFailed)
		c.logger.Error("save failed", "err", err)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	c.engine.SetSavedMatch(true, NoticeSaved)
	c.logger.Info("match saved", "match", c.engine.State().MatchID)
	return nil
}

// LoadGame replaces the current match with the saved one, paused. A missing
// or unreadable save leaves the match as it was.
func (c *Controller) LoadGame() error {
	return c.do("load", c.load)
}

func (c *Controller) load() error {
	if !c.engine.State().Status.acceptsNewMatch() {
		return nil
	}

	data, err := c.slot.Read()
	var snap savegame.Snapshot
	if err == nil {
		snap, err = savegame.Decode(data)
	}
	if err == nil {
		err = c.engine.ApplySnapshot(snap)
	}
	if err != nil {
		c.engine.SetSavedMatch(false, NoticeNoSavedMatch)
		if !errors.Is(err, savegame.ErrNoSave) {
			c.logger.Warn("cannot load saved match", "err", err)
		}
		return fmt.Errorf("%w: %w", ErrNoSavedMatch, err)
	}

	c.engine.SetSavedMatch(true, NoticeLoaded)
	c.logger.Info("match loaded", "match", c.engine.State().MatchID)
	return nil
}

// DeleteSavedGame empties the save slot.
func (c *Controller) DeleteSavedGame() error {
	return c.do("delete", func() error {
		if err := c.slot.Remove(); err != nil {
			c.logger.Error("cannot delete saved match", "err", err)
			return err
		}
		c.engine.SetSavedMatch(false, NoticeSaveDeleted)
		return nil
	})
}
