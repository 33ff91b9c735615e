// Package service implements the business logic of the authentication
// core: credential verification, two-factor enrollment and recovery,
// session lifecycle, rate limiting, and the login orchestration that ties
// them together. Services depend on store repositories and crypto
// primitives through interfaces and return sentinel errors the HTTP layer
// maps to status codes.
package service

import (
	"context"
	"time"

	"github.com/foliocms/folio/models"
)

// LoginResult is what a fully authenticated login produces: the admin
// identity and a freshly issued session.
type LoginResult struct {
	Admin   models.Admin
	Session models.Session
}

// TwoFactorSetup is the enrollment material returned when an admin begins
// TOTP setup. RawSecret is populated only after password re-verification;
// the provisioning URI is always present for QR encoding.
type TwoFactorSetup struct {
	RawSecret       string
	EncryptedSecret string
	ProvisioningURI string
}

// AuthService orchestrates account registration, login, and revocation.
type AuthService interface {
	// Register creates an admin account. Returns ErrRegistrationDisabled
	// while the registration feature flag is off, ErrRateLimited when the
	// client exceeds the registration window, and
	// store.ErrEmailAlreadyExists on a duplicate email.
	Register(ctx context.Context, req models.RegisterRequest, meta models.ClientMeta) (models.Admin, error)

	// Login runs the full authentication protocol: rate-limit check,
	// password verification, and second-factor verification for enrolled
	// accounts. Unknown email and wrong password are indistinguishable
	// (both ErrInvalidCredentials); a verified password on an enrolled
	// account without a second factor yields ErrTwoFactorRequired.
	Login(ctx context.Context, req models.LoginRequest, meta models.ClientMeta) (LoginResult, error)

	// Logout revokes the session holding token and records the audit
	// entry. Idempotent: revoking an unknown token is not an error.
	Logout(ctx context.Context, token string, admin models.Admin, meta models.ClientMeta) error

	// RevokeAdmin deletes the target account and all its sessions.
	// Returns ErrSelfRevocation when actorID == targetID.
	RevokeAdmin(ctx context.Context, actorID, targetID int64, meta models.ClientMeta) error

	// ListAudit returns audit-log entries matching filter, newest first.
	ListAudit(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error)
}

// TwoFactorService manages TOTP enrollment, verification, and recovery
// codes for one admin account.
type TwoFactorService interface {
	// BeginSetup generates fresh enrollment material. The raw secret is
	// included only when password is supplied and verifies against the
	// account. Nothing is persisted until ConfirmSetup.
	BeginSetup(ctx context.Context, admin models.Admin, password string) (TwoFactorSetup, error)

	// ConfirmSetup validates code against encryptedSecret, persists the
	// secret, and returns the plaintext backup codes. The codes are shown
	// exactly once; only their hashes are stored.
	ConfirmSetup(ctx context.Context, admin models.Admin, encryptedSecret, code string, meta models.ClientMeta) ([]string, error)

	// Disable turns off two-factor authentication after password
	// re-verification and deletes the account's backup codes.
	Disable(ctx context.Context, admin models.Admin, password string, meta models.ClientMeta) error

	// VerifySecondFactor validates either a TOTP code or a backup code
	// for an enrolled account. A backup code is atomically consumed on
	// success; a wrong, unknown, or already-used code yields
	// ErrInvalidTwoFactorCode.
	VerifySecondFactor(ctx context.Context, admin models.Admin, totpCode, backupCode string) error
}

// SessionService manages opaque-token session lifecycle.
type SessionService interface {
	// Create issues a new session for adminID with a fresh random token.
	Create(ctx context.Context, adminID int64, meta models.ClientMeta) (models.Session, error)

	// Resolve maps a presented token to its admin account, touching the
	// session's last-seen timestamp best-effort. Missing, unknown, and
	// expired tokens all yield ErrUnauthenticated.
	Resolve(ctx context.Context, token string) (models.Admin, error)

	// Refresh atomically replaces the session holding token with a new
	// token and a renewed lifetime. Returns ErrUnauthenticated when token
	// matches no live session.
	Refresh(ctx context.Context, token string, meta models.ClientMeta) (models.Session, error)

	// Revoke deletes the session holding token. Idempotent.
	Revoke(ctx context.Context, token string) error

	// RevokeAll deletes every session belonging to adminID.
	RevokeAll(ctx context.Context, adminID int64) error

	// TTL reports the configured session lifetime, used by the HTTP layer
	// to set cookie expiry.
	TTL() time.Duration
}
