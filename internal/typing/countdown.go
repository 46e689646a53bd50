package typing

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Countdown is the 1-tick-per-second race timer. It is started when the
// machine consumes its first key and must stop cleanly when the race or
// its owner is torn down.
type Countdown struct {
	clock    clockwork.Clock
	duration time.Duration
}

// NewCountdown returns a countdown for the given race duration. The
// clock is injected so tests can drive it deterministically.
func NewCountdown(clock clockwork.Clock, duration time.Duration) *Countdown {
	return &Countdown{clock: clock, duration: duration}
}

// Run ticks once per second until the duration is spent or ctx is
// cancelled. onTick receives the remaining whole seconds after each
// tick; onExpire fires exactly once when the timer reaches zero. Run
// blocks, so callers start it in their own goroutine.
func (c *Countdown) Run(ctx context.Context, onTick func(remaining int), onExpire func()) {
	remaining := int(c.duration / time.Second)
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for remaining > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			remaining--
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
	if onExpire != nil {
		onExpire()
	}
}
