package store

import (
	"context"

	"github.com/foliocms/folio/models"
)

// AdminRepository is the data-access contract for admin accounts.
type AdminRepository interface {
	// CreateAdmin persists a new admin and returns it with server-assigned
	// fields populated. Returns ErrEmailAlreadyExists on a duplicate email.
	CreateAdmin(ctx context.Context, admin models.Admin) (models.Admin, error)

	// FindAdminByEmail returns ErrNoAdminWasFound when no account matches.
	FindAdminByEmail(ctx context.Context, email string) (models.Admin, error)

	// FindAdminByID returns ErrNoAdminWasFound when no account matches.
	FindAdminByID(ctx context.Context, adminID int64) (models.Admin, error)

	// EnableTwoFactor stores the encrypted secret, sets the enrollment
	// flag, and clears any legacy plaintext secret.
	EnableTwoFactor(ctx context.Context, adminID int64, encryptedSecret string) error

	// DisableTwoFactor clears the enrollment flag and both secret columns.
	DisableTwoFactor(ctx context.Context, adminID int64) error

	// MigrateLegacySecret replaces a legacy plaintext secret with its
	// encrypted form. A no-op if the legacy column is already empty.
	MigrateLegacySecret(ctx context.Context, adminID int64, encryptedSecret string) error

	// DeleteAdmin removes the account. Dependent sessions and backup codes
	// are removed by the schema's ON DELETE CASCADE.
	DeleteAdmin(ctx context.Context, adminID int64) error
}

// SessionRepository is the data-access contract for login sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)

	// FindSessionByToken only matches unexpired sessions; an expired token
	// yields ErrNoSessionWasFound exactly like an unknown one.
	FindSessionByToken(ctx context.Context, token string) (models.Session, error)

	// TouchSession updates last_seen_at. Best-effort: callers ignore errors.
	TouchSession(ctx context.Context, token string) error

	// RotateSession atomically deletes the session holding oldToken and
	// inserts replacement bound to the same admin. Returns
	// ErrNoSessionWasFound when oldToken matches no live session.
	RotateSession(ctx context.Context, oldToken string, replacement models.Session) (models.Session, error)

	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteSessionsByAdmin(ctx context.Context, adminID int64) error

	// DeleteExpiredSessions garbage-collects expired rows and reports how
	// many were removed.
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// BackupCodeRepository is the data-access contract for two-factor recovery
// codes.
type BackupCodeRepository interface {
	// ReplaceCodes transactionally deletes all existing codes for the
	// admin and inserts the new batch.
	ReplaceCodes(ctx context.Context, adminID int64, codes []models.BackupCode) error

	ListUnusedCodes(ctx context.Context, adminID int64) ([]models.BackupCode, error)

	// ConsumeCode marks the code used via a single conditional update
	// (used_at IS NULL). Reports false when the code was already consumed,
	// including by a concurrent request.
	ConsumeCode(ctx context.Context, backupCodeID string) (bool, error)

	DeleteCodesByAdmin(ctx context.Context, adminID int64) error
}

// AuditRepository is the data-access contract for the append-only audit log.
type AuditRepository interface {
	InsertEntry(ctx context.Context, entry models.AuditEntry) error
	ListEntries(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error)
}
