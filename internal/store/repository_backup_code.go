package store

import (
	"context"
	"fmt"

	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/models"
)

// backupCodeRepository is the PostgreSQL-backed implementation of
// [BackupCodeRepository].
type backupCodeRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewBackupCodeRepository constructs a [BackupCodeRepository] backed by the
// provided database connection and logger.
func NewBackupCodeRepository(db *DB, logger *logger.Logger) BackupCodeRepository {
	logger.Debug().Msg("creating backup code repository")
	return &backupCodeRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceCodes deletes every code for the admin and inserts the fresh
// batch inside one transaction, so a partially written set can never be
// observed.
func (r *backupCodeRepository) ReplaceCodes(ctx context.Context, adminID int64, codes []models.BackupCode) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*backupCodeRepository.ReplaceCodes").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, deleteBackupCodesByAdmin, adminID); err != nil {
		log.Err(err).Str("func", "*backupCodeRepository.ReplaceCodes").Msg("error deleting old codes")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	for _, code := range codes {
		if _, err := tx.ExecContext(ctx, insertBackupCode, code.BackupCodeID, adminID, code.CodeHash); err != nil {
			log.Err(err).Str("func", "*backupCodeRepository.ReplaceCodes").Msg("error inserting code")
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*backupCodeRepository.ReplaceCodes").Msg("error committing codes")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// ListUnusedCodes returns the admin's not-yet-consumed codes.
func (r *backupCodeRepository) ListUnusedCodes(ctx context.Context, adminID int64) ([]models.BackupCode, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listUnusedBackupCodes, adminID)
	if err != nil {
		log.Err(err).Str("func", "*backupCodeRepository.ListUnusedCodes").Msg("error listing codes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var codes []models.BackupCode
	for rows.Next() {
		var code models.BackupCode
		if err := rows.Scan(&code.BackupCodeID, &code.AdminID, &code.CodeHash, &code.UsedAt, &code.CreatedAt); err != nil {
			log.Err(err).Str("func", "*backupCodeRepository.ListUnusedCodes").Msg("error scanning code")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return codes, nil
}

// ConsumeCode marks a code used with a single conditional UPDATE. Exactly
// one of any number of concurrent attempts observes an affected row; the
// rest see the used_at guard fail and report false.
func (r *backupCodeRepository) ConsumeCode(ctx context.Context, backupCodeID string) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, consumeBackupCode, backupCodeID)
	if err != nil {
		log.Err(err).Str("func", "*backupCodeRepository.ConsumeCode").Msg("error consuming code")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return affected == 1, nil
}

// DeleteCodesByAdmin removes every code for the admin. Called when 2FA is
// disabled.
func (r *backupCodeRepository) DeleteCodesByAdmin(ctx context.Context, adminID int64) error {
	if _, err := r.db.ExecContext(ctx, deleteBackupCodesByAdmin, adminID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}
