// Package clock owns the level clock: which level the tournament is
// on, how much time remains, and whether the countdown is running.
// The countdown reaching zero never advances the level by itself;
// moving to the next level is always an explicit caller operation.
package clock

import (
	"sync"
	"time"

	"github.com/mkarpis/railbird/internal/models"
)

// LevelClock is the tournament level state machine. A clock built from
// an empty structure is idle: every operation on it is a nil no-op,
// since an empty structure is a valid, if degenerate, configuration.
type LevelClock struct {
	mu        sync.Mutex
	levels    []models.Level
	index     int
	remaining time.Duration
	running   bool
	finished  bool
}

// New creates a clock positioned on the first level, full duration,
// not running.
func New(levels []models.Level) *LevelClock {
	c := &LevelClock{levels: levels}
	if len(levels) > 0 {
		c.remaining = levels[0].Duration()
	}
	return c
}

func (c *LevelClock) idle() bool { return len(c.levels) == 0 }

// Start begins the countdown. No-op if already running, finished, or
// idle.
func (c *LevelClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idle() || c.finished {
		return
	}
	c.running = true
}

// Pause freezes the countdown at whatever value the last tick
// produced.
func (c *LevelClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// Tick decreases the remaining time by elapsed, floored at zero. It
// has no effect while paused and never advances the level.
func (c *LevelClock) Tick(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.remaining -= elapsed
	if c.remaining < 0 {
		c.remaining = 0
	}
}

// Advance moves to the next level and resets the countdown to its full
// duration, preserving the running state. Past the last level the
// clock transitions to finished with zero remaining and Advance
// returns nil. The returned level lets the caller announce it.
func (c *LevelClock) Advance() *models.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idle() || c.finished {
		return nil
	}
	if c.index+1 >= len(c.levels) {
		c.finished = true
		c.remaining = 0
		return nil
	}
	c.index++
	lvl := c.levels[c.index]
	c.remaining = lvl.Duration()
	return &lvl
}

// Retreat moves to the previous level, floored at the first, and
// resets the countdown to that level's full duration. Retreating from
// a finished clock reopens the last level.
func (c *LevelClock) Retreat() *models.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idle() {
		return nil
	}
	if c.finished {
		c.finished = false
	} else if c.index > 0 {
		c.index--
	}
	lvl := c.levels[c.index]
	c.remaining = lvl.Duration()
	return &lvl
}

// ResetCurrent resets the countdown to the current level's full
// duration; the running state is unchanged.
func (c *LevelClock) ResetCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idle() || c.finished {
		return
	}
	c.remaining = c.levels[c.index].Duration()
}

// Restart forces the clock back to the first level and starts the
// countdown. Distinct from Advance/ResetCurrent in that it always
// leaves the clock running; the confirmation gate in front of it is a
// caller concern.
func (c *LevelClock) Restart() *models.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idle() {
		return nil
	}
	c.index = 0
	c.finished = false
	lvl := c.levels[0]
	c.remaining = lvl.Duration()
	c.running = true
	return &lvl
}

// State returns the externally visible clock state.
func (c *LevelClock) State() models.ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.ClockState{
		CurrentLevelIndex: c.index,
		RemainingMs:       c.remaining.Milliseconds(),
		Running:           c.running,
		Finished:          c.finished,
	}
}

// CurrentLevel returns the level the clock is on, or nil when idle or
// finished.
func (c *LevelClock) CurrentLevel() *models.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idle() || c.finished {
		return nil
	}
	lvl := c.levels[c.index]
	return &lvl
}

// PeekNext returns the level Advance would land on, or nil at the end.
func (c *LevelClock) PeekNext() *models.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idle() || c.finished || c.index+1 >= len(c.levels) {
		return nil
	}
	lvl := c.levels[c.index+1]
	return &lvl
}

// Levels returns a copy of the schedule the clock was built from.
func (c *LevelClock) Levels() []models.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Level, len(c.levels))
	copy(out, c.levels)
	return out
}
