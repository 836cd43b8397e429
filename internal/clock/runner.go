package clock

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mkarpis/railbird/internal/models"
)

const tickInterval = time.Second

// Runner drives a LevelClock's countdown from a wall-clock ticker,
// once per second. It is the only recurring background operation in
// the process; starting a runner while one is active cancels the old
// ticker first so a session restart cannot leak tickers.
type Runner struct {
	clock *LevelClock
	wall  clockwork.Clock

	// OnTick is invoked after every decrement with the fresh state.
	OnTick func(models.ClockState)
	// OnHeartbeat is invoked when the countdown crosses a minute
	// boundary while running.
	OnHeartbeat func(remaining time.Duration)

	mu         sync.Mutex
	cancel     context.CancelFunc
	done       chan struct{}
	lastMinute int64
}

// NewRunner creates a runner for the given clock. Pass
// clockwork.NewRealClock() in production and a FakeClock in tests.
func NewRunner(c *LevelClock, wall clockwork.Clock) *Runner {
	return &Runner{clock: c, wall: wall, lastMinute: -1}
}

// Start launches the tick loop. Any previously started loop is stopped
// and waited for before the new one begins.
func (r *Runner) Start(ctx context.Context) {
	r.Stop()

	r.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.lastMinute = r.clock.State().RemainingMs / 60000
	r.mu.Unlock()

	go r.loop(loopCtx, done)
	log.Info().Dur("interval", tickInterval).Msg("clock runner started")
}

// Stop cancels the tick loop and blocks until it has exited. Safe to
// call when no loop is running.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Info().Msg("clock runner stopped")
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := r.wall.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.clock.Tick(tickInterval)
			state := r.clock.State()
			if r.OnTick != nil {
				r.OnTick(state)
			}
			r.heartbeat(state)
		}
	}
}

// heartbeat fires OnHeartbeat once per minute boundary while the
// countdown is running.
func (r *Runner) heartbeat(state models.ClockState) {
	if !state.Running || r.OnHeartbeat == nil {
		return
	}
	minute := state.RemainingMs / 60000
	r.mu.Lock()
	crossed := minute != r.lastMinute
	r.lastMinute = minute
	r.mu.Unlock()
	if crossed {
		r.OnHeartbeat(time.Duration(state.RemainingMs) * time.Millisecond)
	}
}
