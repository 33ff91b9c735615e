package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/models"
	"github.com/jackc/pgerrcode"
)

// adminRepository is the PostgreSQL-backed implementation of
// [AdminRepository]. It handles account creation, lookup, and two-factor
// enrollment state against the "admins" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type adminRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAdminRepository constructs an [AdminRepository] backed by the provided
// database connection and logger.
func NewAdminRepository(db *DB, logger *logger.Logger) AdminRepository {
	logger.Debug().Msg("creating admin repository")
	return &adminRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAdmin persists a new admin record and returns the fully populated
// [models.Admin] with server-assigned fields (AdminID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → wrapped [ErrScanningRow].
func (r *adminRepository) CreateAdmin(ctx context.Context, admin models.Admin) (models.Admin, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAdmin, admin.Email, admin.PasswordHash)

	var created models.Admin
	if err := scanAdmin(row, &created); err != nil {
		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Admin{}, ErrEmailAlreadyExists
		}

		log.Err(err).Str("func", "*adminRepository.CreateAdmin").Msg("error creating admin")
		return models.Admin{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

// FindAdminByEmail retrieves the admin whose email matches exactly
// (case-sensitive, matching the unique index).
func (r *adminRepository) FindAdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findAdminByEmail, email)

	var found models.Admin
	if err := scanAdmin(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Admin{}, ErrNoAdminWasFound
		}

		log.Err(err).Str("func", "*adminRepository.FindAdminByEmail").Msg("error finding admin")
		return models.Admin{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// FindAdminByID retrieves the admin by its internal identifier.
func (r *adminRepository) FindAdminByID(ctx context.Context, adminID int64) (models.Admin, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findAdminByID, adminID)

	var found models.Admin
	if err := scanAdmin(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Admin{}, ErrNoAdminWasFound
		}

		log.Err(err).Str("func", "*adminRepository.FindAdminByID").Msg("error finding admin")
		return models.Admin{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// EnableTwoFactor marks the account enrolled and stores only the encrypted
// secret form; the legacy column is cleared in the same statement so the
// two can never coexist.
func (r *adminRepository) EnableTwoFactor(ctx context.Context, adminID int64, encryptedSecret string) error {
	return r.execExpectingRow(ctx, "EnableTwoFactor", enableTwoFactor, adminID, encryptedSecret)
}

// DisableTwoFactor clears the enrollment flag and both secret columns.
func (r *adminRepository) DisableTwoFactor(ctx context.Context, adminID int64) error {
	return r.execExpectingRow(ctx, "DisableTwoFactor", disableTwoFactor, adminID)
}

// MigrateLegacySecret swaps a legacy plaintext secret for its encrypted
// form. The WHERE guard makes it a no-op when another request migrated
// the row first.
func (r *adminRepository) MigrateLegacySecret(ctx context.Context, adminID int64, encryptedSecret string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, migrateLegacySecret, adminID, encryptedSecret); err != nil {
		log.Err(err).Str("func", "*adminRepository.MigrateLegacySecret").Msg("error migrating legacy secret")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteAdmin removes the account; sessions and backup codes cascade.
func (r *adminRepository) DeleteAdmin(ctx context.Context, adminID int64) error {
	return r.execExpectingRow(ctx, "DeleteAdmin", deleteAdmin, adminID)
}

// execExpectingRow runs a DML statement that must affect exactly one admin
// row, mapping zero affected rows to [ErrNoAdminWasFound].
func (r *adminRepository) execExpectingRow(ctx context.Context, name, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*adminRepository."+name).Msg("error executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNoAdminWasFound
	}

	return nil
}

// scanAdmin reads one admins row into dst. Nullable secret columns scan
// into *string fields directly (nil on SQL NULL).
func scanAdmin(row *sql.Row, dst *models.Admin) error {
	if err := row.Err(); err != nil {
		return err
	}

	if err := row.Scan(
		&dst.AdminID,
		&dst.Email,
		&dst.PasswordHash,
		&dst.TOTPEnabled,
		&dst.TOTPSecretEncrypted,
		&dst.TOTPSecretLegacy,
		&dst.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return nil
}
