package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/models"
)

// defaultAuditLimit caps unbounded audit listings.
const defaultAuditLimit = 100

// auditRepository is the PostgreSQL-backed implementation of
// [AuditRepository]. Inserts are fire-and-forget from the caller's point of
// view; listings are built dynamically from the filter.
type auditRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAuditRepository constructs an [AuditRepository] backed by the provided
// database connection and logger.
func NewAuditRepository(db *DB, logger *logger.Logger) AuditRepository {
	logger.Debug().Msg("creating audit repository")
	return &auditRepository{
		db:     db,
		logger: logger,
	}
}

// InsertEntry appends one audit record.
func (r *auditRepository) InsertEntry(ctx context.Context, entry models.AuditEntry) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, insertAuditEntry,
		entry.AuditID,
		entry.AdminID,
		entry.Action,
		entry.IPAddress,
		entry.UserAgent,
	); err != nil {
		log.Err(err).Str("func", "*auditRepository.InsertEntry").Msg("error inserting audit entry")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// ListEntries returns audit records matching the filter, newest first.
// The query is assembled with squirrel so that each zero-valued filter
// field simply contributes no predicate.
func (r *auditRepository) ListEntries(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error) {
	log := logger.FromContext(ctx)

	builder := sq.
		Select("audit_id", "admin_id", "action", "ip_address", "user_agent", "created_at").
		From(models.AuditEntry{}.TableName()).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.AdminID != 0 {
		builder = builder.Where(sq.Eq{"admin_id": filter.AdminID})
	}
	if filter.Action != "" {
		builder = builder.Where(sq.Eq{"action": filter.Action})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.Since})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultAuditLimit
	}
	builder = builder.Limit(limit)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.ListEntries").Msg("error building audit query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.ListEntries").Msg("error listing audit entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		if err := rows.Scan(&entry.AuditID, &entry.AdminID, &entry.Action, &entry.IPAddress, &entry.UserAgent, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}
