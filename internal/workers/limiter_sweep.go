package workers

import (
	"context"
	"time"

	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/ratelimit"
)

// LimiterSweep periodically purges expired rate-limit windows so the
// limiter's memory stays proportional to recent, not historical, traffic.
type LimiterSweep struct {
	limiter  *ratelimit.Limiter
	interval time.Duration
	logger   *logger.Logger
}

// NewLimiterSweep constructs the limiter sweeper.
func NewLimiterSweep(limiter *ratelimit.Limiter, interval time.Duration, log *logger.Logger) *LimiterSweep {
	return &LimiterSweep{
		limiter:  limiter,
		interval: interval,
		logger:   log,
	}
}

// Run implements [Worker].
func (w *LimiterSweep) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info().Dur("interval", w.interval).Msg("rate-limit window sweeper started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("rate-limit window sweeper stopped")
			return
		case <-ticker.C:
			w.limiter.Sweep()
		}
	}
}
