package interpreter

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer optionally throttles adapter-call rate, independent of the
// session's wall-clock deadline — a defensive bound against a runaway
// template driving many cheap no-op actions inside the timeout. A nil
// Pacer (the zero value's embedded limiter) never throttles.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer builds a pacer allowing at most r actions per second with the
// given burst. Pass r == 0 to disable pacing entirely.
func NewPacer(r rate.Limit, burst int) *Pacer {
	if r == 0 {
		return &Pacer{}
	}
	return &Pacer{limiter: rate.NewLimiter(r, burst)}
}

// Wait blocks until the next adapter call is permitted, or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
