package workers

import (
	"context"
	"time"

	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/store"
)

// SessionGC periodically deletes expired session rows. Expiry is already
// enforced at lookup time, so this job only bounds table growth; its
// interval can be generous.
type SessionGC struct {
	sessions store.SessionRepository
	interval time.Duration
	logger   *logger.Logger
}

// NewSessionGC constructs the session garbage collector.
func NewSessionGC(sessions store.SessionRepository, interval time.Duration, log *logger.Logger) *SessionGC {
	return &SessionGC{
		sessions: sessions,
		interval: interval,
		logger:   log,
	}
}

// Run implements [Worker].
func (w *SessionGC) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info().Dur("interval", w.interval).Msg("session garbage collector started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("session garbage collector stopped")
			return
		case <-ticker.C:
			w.collect(ctx)
		}
	}
}

func (w *SessionGC) collect(ctx context.Context) {
	removed, err := w.sessions.DeleteExpiredSessions(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to delete expired sessions")
		return
	}

	if removed > 0 {
		w.logger.Info().Int64("removed", removed).Msg("expired sessions deleted")
	}
}
