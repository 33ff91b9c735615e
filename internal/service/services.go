package service

import (
	"context"

	"github.com/foliocms/folio/internal/config"
	"github.com/foliocms/folio/internal/crypto"
	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/ratelimit"
	"github.com/foliocms/folio/internal/store"
	"github.com/foliocms/folio/internal/utils"
	"github.com/foliocms/folio/models"
)

// Services aggregates all business-logic services behind one constructor
// so the server wires a single value.
type Services struct {
	Auth      AuthService
	TwoFactor TwoFactorService
	Session   SessionService
}

// NewServices constructs the service layer on top of the repositories,
// crypto primitives, and limiter.
func NewServices(
	repos *store.Repositories,
	cfg *config.StructuredConfig,
	limiter *ratelimit.Limiter,
	hasher crypto.PasswordHasher,
	totp crypto.TOTPEngine,
	log *logger.Logger,
) *Services {
	audit := &auditor{repo: repos.Audit, logger: log}
	sessions := newSessionService(repos.Sessions, repos.Admins, cfg.App.SessionTTL, audit, log)
	twoFactor := newTwoFactorService(repos, hasher, totp, audit, log)

	return &Services{
		Auth:      newAuthService(repos, cfg, limiter, hasher, sessions, twoFactor, audit, log),
		TwoFactor: twoFactor,
		Session:   sessions,
	}
}

// auditor writes audit entries as side effects. A failed write is logged
// and swallowed: auditing must never fail the action that produced it.
type auditor struct {
	repo   store.AuditRepository
	logger *logger.Logger
}

func (a *auditor) record(ctx context.Context, adminID int64, action string, meta models.ClientMeta) {
	entry := models.AuditEntry{
		AuditID:   utils.NewUUID(),
		AdminID:   adminID,
		Action:    action,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}

	if err := a.repo.InsertEntry(ctx, entry); err != nil {
		a.logger.Error().Err(err).
			Int64("admin_id", adminID).
			Str("action", action).
			Msg("failed to write audit entry")
	}
}
