package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foliocms/folio/internal/config"
	"github.com/foliocms/folio/internal/crypto"
	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/ratelimit"
	"github.com/foliocms/folio/internal/store"
	"github.com/foliocms/folio/models"
)

// minPasswordLength is the floor for registration passwords.
const minPasswordLength = 8

// timingDummyHash is a valid bcrypt hash of a random throwaway value.
// Compared against when the email is unknown so the unknown-email and
// wrong-password paths cost roughly the same.
const timingDummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

type authService struct {
	admins store.AdminRepository
	audit  *auditor

	cfg     *config.StructuredConfig
	limiter *ratelimit.Limiter
	hasher  crypto.PasswordHasher

	sessions  SessionService
	twoFactor TwoFactorService

	logger *logger.Logger
}

func newAuthService(
	repos *store.Repositories,
	cfg *config.StructuredConfig,
	limiter *ratelimit.Limiter,
	hasher crypto.PasswordHasher,
	sessions SessionService,
	twoFactor TwoFactorService,
	audit *auditor,
	log *logger.Logger,
) *authService {
	return &authService{
		admins:    repos.Admins,
		audit:     audit,
		cfg:       cfg,
		limiter:   limiter,
		hasher:    hasher,
		sessions:  sessions,
		twoFactor: twoFactor,
		logger:    log,
	}
}

// Register creates an admin account. Gated by the registration feature
// flag and the registration rate-limit window.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest, meta models.ClientMeta) (models.Admin, error) {
	if !a.cfg.EnableRegistration {
		return models.Admin{}, ErrRegistrationDisabled
	}

	limit := ratelimit.Policy{Max: a.cfg.Limits.RegisterMax, Window: a.cfg.Limits.RegisterWindow}
	if !a.limiter.CheckPolicy("register:"+meta.IPAddress, limit).Allowed {
		return models.Admin{}, ErrRateLimited
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if err := validateRegistration(email, req.Password); err != nil {
		return models.Admin{}, err
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return models.Admin{}, fmt.Errorf("hashing password: %w", err)
	}

	admin, err := a.admins.CreateAdmin(ctx, models.Admin{
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return models.Admin{}, err
	}

	a.audit.record(ctx, admin.AdminID, models.AuditActionRegister, meta)
	a.logger.Info().Int64("admin_id", admin.AdminID).Msg("admin account registered")

	return admin, nil
}

// Login runs the full authentication protocol:
//
//  1. rate-limit check, before any account lookup
//  2. account lookup and password verification, with unknown email and
//     wrong password indistinguishable to the caller
//  3. for enrolled accounts, second-factor verification under its own
//     tighter rate limit
//  4. session issue and audit record
func (a *authService) Login(ctx context.Context, req models.LoginRequest, meta models.ClientMeta) (LoginResult, error) {
	limit := ratelimit.Policy{Max: a.cfg.Limits.LoginMax, Window: a.cfg.Limits.LoginWindow}
	if !a.limiter.CheckPolicy("login:"+meta.IPAddress, limit).Allowed {
		return LoginResult{}, ErrRateLimited
	}

	if req.Email == "" || req.Password == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", ErrInvalidDataProvided)
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	admin, err := a.admins.FindAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoAdminWasFound) {
			// burn a comparable amount of work before rejecting
			a.hasher.Verify(req.Password, timingDummyHash)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !a.hasher.Verify(req.Password, admin.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	if admin.TOTPEnabled {
		if req.TOTPCode == "" && req.BackupCode == "" {
			return LoginResult{}, ErrTwoFactorRequired
		}

		twoFactorLimit := ratelimit.Policy{Max: a.cfg.Limits.TwoFactorMax, Window: a.cfg.Limits.TwoFactorWindow}
		if !a.limiter.CheckPolicy("2fa:"+meta.IPAddress, twoFactorLimit).Allowed {
			return LoginResult{}, ErrRateLimited
		}

		if err := a.twoFactor.VerifySecondFactor(ctx, admin, req.TOTPCode, req.BackupCode); err != nil {
			return LoginResult{}, err
		}
	}

	session, err := a.sessions.Create(ctx, admin.AdminID, meta)
	if err != nil {
		return LoginResult{}, err
	}

	a.audit.record(ctx, admin.AdminID, models.AuditActionLogin, meta)
	a.logger.Info().Int64("admin_id", admin.AdminID).Msg("admin logged in")

	return LoginResult{Admin: admin, Session: session}, nil
}

// Logout revokes the presented session and records the audit entry.
func (a *authService) Logout(ctx context.Context, token string, admin models.Admin, meta models.ClientMeta) error {
	if err := a.sessions.Revoke(ctx, token); err != nil {
		return err
	}

	a.audit.record(ctx, admin.AdminID, models.AuditActionLogout, meta)

	return nil
}

// RevokeAdmin deletes the target account. Sessions and backup codes go
// with it (cascade plus an explicit session sweep so live sessions die
// before the row does).
func (a *authService) RevokeAdmin(ctx context.Context, actorID, targetID int64, meta models.ClientMeta) error {
	if actorID == targetID {
		return ErrSelfRevocation
	}

	target, err := a.admins.FindAdminByID(ctx, targetID)
	if err != nil {
		return err
	}

	if err := a.sessions.RevokeAll(ctx, target.AdminID); err != nil {
		return err
	}

	if err := a.admins.DeleteAdmin(ctx, target.AdminID); err != nil {
		return err
	}

	a.audit.record(ctx, target.AdminID, models.AuditActionAdminRevoked, meta)
	a.logger.Info().
		Int64("actor_id", actorID).
		Int64("admin_id", target.AdminID).
		Msg("admin account revoked")

	return nil
}

// ListAudit returns audit entries matching filter, newest first.
func (a *authService) ListAudit(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error) {
	return a.audit.repo.ListEntries(ctx, filter)
}

func validateRegistration(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidDataProvided)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidDataProvided, minPasswordLength)
	}

	return nil
}
