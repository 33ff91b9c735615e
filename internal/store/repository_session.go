package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/models"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository]. Sessions are the sole source of truth for who is
// logged in; nothing about them is held in process memory.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection and logger.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSession persists a new session row and returns it with
// server-assigned timestamps.
func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createSession,
		session.SessionID,
		session.AdminID,
		session.Token,
		session.IPAddress,
		session.UserAgent,
		session.ExpiresAt,
	)

	var created models.Session
	if err := scanSession(row, &created); err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error creating session")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

// FindSessionByToken retrieves a live session. The SQL filters on
// expires_at, so an expired token produces [ErrNoSessionWasFound] exactly
// like an unknown one; no distinguishing signal leaks to the caller.
func (r *sessionRepository) FindSessionByToken(ctx context.Context, token string) (models.Session, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findSessionByToken, token)

	var found models.Session
	if err := scanSession(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrNoSessionWasFound
		}

		log.Err(err).Str("func", "*sessionRepository.FindSessionByToken").Msg("error finding session")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// TouchSession bumps last_seen_at. Best-effort: failures are logged by the
// caller and never affect request handling.
func (r *sessionRepository) TouchSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, touchSession, token); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// RotateSession deletes the old session and inserts the replacement in one
// transaction, binding the replacement to the admin that owned the old
// token. The delete doubles as the liveness check: rotating an expired or
// unknown token fails with [ErrNoSessionWasFound].
func (r *sessionRepository) RotateSession(ctx context.Context, oldToken string, replacement models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.RotateSession").Msg("error beginning transaction")
		return models.Session{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var adminID int64
	if err := tx.QueryRowContext(ctx, deleteSessionByTokenReturning, oldToken).Scan(&adminID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrNoSessionWasFound
		}

		log.Err(err).Str("func", "*sessionRepository.RotateSession").Msg("error invalidating old session")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	replacement.AdminID = adminID

	row := tx.QueryRowContext(ctx, createSession,
		replacement.SessionID,
		replacement.AdminID,
		replacement.Token,
		replacement.IPAddress,
		replacement.UserAgent,
		replacement.ExpiresAt,
	)

	var created models.Session
	if err := scanSession(row, &created); err != nil {
		log.Err(err).Str("func", "*sessionRepository.RotateSession").Msg("error creating replacement session")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*sessionRepository.RotateSession").Msg("error committing rotation")
		return models.Session{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return created, nil
}

// DeleteSessionByToken removes one session. Deleting an unknown token is
// not an error: logout is idempotent.
func (r *sessionRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionByToken, token); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteSessionsByAdmin removes every session belonging to the admin.
func (r *sessionRepository) DeleteSessionsByAdmin(ctx context.Context, adminID int64) error {
	if _, err := r.db.ExecContext(ctx, deleteSessionsByAdmin, adminID); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// DeleteExpiredSessions garbage-collects expired rows.
func (r *sessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, deleteExpiredSessions)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return affected, nil
}

// scanSession reads one sessions row into dst.
func scanSession(row *sql.Row, dst *models.Session) error {
	if err := row.Err(); err != nil {
		return err
	}

	if err := row.Scan(
		&dst.SessionID,
		&dst.AdminID,
		&dst.Token,
		&dst.IPAddress,
		&dst.UserAgent,
		&dst.CreatedAt,
		&dst.LastSeenAt,
		&dst.ExpiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return nil
}
