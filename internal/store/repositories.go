package store

import (
	"github.com/foliocms/folio/internal/logger"
)

// Repositories bundles every repository backed by the shared database
// connection. Constructed once at startup and handed to the service layer.
type Repositories struct {
	Admins      AdminRepository
	Sessions    SessionRepository
	BackupCodes BackupCodeRepository
	Audit       AuditRepository
}

// NewRepositories constructs all repositories over the given connection.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		Admins:      NewAdminRepository(db, log),
		Sessions:    NewSessionRepository(db, log),
		BackupCodes: NewBackupCodeRepository(db, log),
		Audit:       NewAuditRepository(db, log),
	}
}
