package game

import (
	"context"
	"time"
)

// Clock delivers one token per interval for a single armed tick stream.
type Clock struct {
	interval time.Duration
}

// NewClock returns a Clock ticking every interval. Non-positive intervals default to one second.
func NewClock(interval time.Duration) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	return &Clock{interval: interval}
}

// Run sends token on the returned channel once per interval until ctx is done.
// The channel is closed when the stream stops.
func (c *Clock) Run(ctx context.Context, token TimerToken) <-chan TimerToken {
	out := make(chan TimerToken)
	go func() {
		defer close(out)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- token:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Drive ticks s from a clock stream until the session expires, the token goes stale or ctx is done.
// It returns the last tick result.
func (c *Clock) Drive(ctx context.Context, s *Session) TickResult {
	token := s.TimerToken()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	last := TickResult{Remaining: s.Remaining()}
	for t := range c.Run(ctx, token) {
		res, ok := s.TickFor(t)
		if !ok {
			return last
		}
		last = res
		if res.Expired {
			return last
		}
	}
	return last
}
