package reddit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between remote calls. With a burst of 1
// the limiter admits the first call immediately and then spaces subsequent
// calls 60s/requestsPerMinute apart, blocking for at most the remainder of
// the interval since the previous call.
type Pacer struct {
	lim *rate.Limiter
}

// NewPacer creates a pacer allowing requestsPerMinute calls per minute.
// Values <= 0 disable pacing.
func NewPacer(requestsPerMinute int) *Pacer {
	if requestsPerMinute <= 0 {
		return &Pacer{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	return &Pacer{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the pacing interval has elapsed since the last admitted
// call, then records the call. It must be invoked immediately before every
// remote request, including the first of a batch.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
