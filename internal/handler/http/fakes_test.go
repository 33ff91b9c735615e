package http

import (
	"context"
	"sync"
	"time"

	"github.com/foliocms/folio/internal/store"
	"github.com/foliocms/folio/models"
)

// In-memory repositories backing the end-to-end handler tests. Same
// sentinel-error contract as the Postgres implementations.

type memAdminRepo struct {
	mu     sync.Mutex
	nextID int64
	admins map[int64]models.Admin
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{admins: make(map[int64]models.Admin)}
}

func (r *memAdminRepo) CreateAdmin(_ context.Context, admin models.Admin) (models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.admins {
		if existing.Email == admin.Email {
			return models.Admin{}, store.ErrEmailAlreadyExists
		}
	}

	r.nextID++
	admin.AdminID = r.nextID
	admin.CreatedAt = time.Now()
	r.admins[admin.AdminID] = admin

	return admin, nil
}

func (r *memAdminRepo) FindAdminByEmail(_ context.Context, email string) (models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, admin := range r.admins {
		if admin.Email == email {
			return admin, nil
		}
	}

	return models.Admin{}, store.ErrNoAdminWasFound
}

func (r *memAdminRepo) FindAdminByID(_ context.Context, adminID int64) (models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin, ok := r.admins[adminID]
	if !ok {
		return models.Admin{}, store.ErrNoAdminWasFound
	}

	return admin, nil
}

func (r *memAdminRepo) EnableTwoFactor(_ context.Context, adminID int64, encryptedSecret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin, ok := r.admins[adminID]
	if !ok {
		return store.ErrNoAdminWasFound
	}

	admin.TOTPEnabled = true
	admin.TOTPSecretEncrypted = &encryptedSecret
	admin.TOTPSecretLegacy = nil
	r.admins[adminID] = admin

	return nil
}

func (r *memAdminRepo) DisableTwoFactor(_ context.Context, adminID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin, ok := r.admins[adminID]
	if !ok {
		return store.ErrNoAdminWasFound
	}

	admin.TOTPEnabled = false
	admin.TOTPSecretEncrypted = nil
	admin.TOTPSecretLegacy = nil
	r.admins[adminID] = admin

	return nil
}

func (r *memAdminRepo) MigrateLegacySecret(_ context.Context, adminID int64, encryptedSecret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin, ok := r.admins[adminID]
	if !ok {
		return store.ErrNoAdminWasFound
	}
	if admin.TOTPSecretLegacy == nil {
		return nil
	}

	admin.TOTPSecretEncrypted = &encryptedSecret
	admin.TOTPSecretLegacy = nil
	r.admins[adminID] = admin

	return nil
}

func (r *memAdminRepo) DeleteAdmin(_ context.Context, adminID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.admins[adminID]; !ok {
		return store.ErrNoAdminWasFound
	}
	delete(r.admins, adminID)

	return nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]models.Session)}
}

func (r *memSessionRepo) CreateSession(_ context.Context, session models.Session) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session.CreatedAt = time.Now()
	session.LastSeenAt = session.CreatedAt
	r.sessions[session.Token] = session

	return session, nil
}

func (r *memSessionRepo) FindSessionByToken(_ context.Context, token string) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return models.Session{}, store.ErrNoSessionWasFound
	}

	return session, nil
}

func (r *memSessionRepo) TouchSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return store.ErrNoSessionWasFound
	}

	session.LastSeenAt = time.Now()
	r.sessions[token] = session

	return nil
}

func (r *memSessionRepo) RotateSession(_ context.Context, oldToken string, replacement models.Session) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.sessions[oldToken]
	if !ok || !old.ExpiresAt.After(time.Now()) {
		return models.Session{}, store.ErrNoSessionWasFound
	}

	delete(r.sessions, oldToken)

	replacement.AdminID = old.AdminID
	replacement.CreatedAt = time.Now()
	replacement.LastSeenAt = replacement.CreatedAt
	r.sessions[replacement.Token] = replacement

	return replacement, nil
}

func (r *memSessionRepo) DeleteSessionByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)

	return nil
}

func (r *memSessionRepo) DeleteSessionsByAdmin(_ context.Context, adminID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, session := range r.sessions {
		if session.AdminID == adminID {
			delete(r.sessions, token)
		}
	}

	return nil
}

func (r *memSessionRepo) DeleteExpiredSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for token, session := range r.sessions {
		if !session.ExpiresAt.After(time.Now()) {
			delete(r.sessions, token)
			removed++
		}
	}

	return removed, nil
}

type memBackupCodeRepo struct {
	mu    sync.Mutex
	codes map[string]models.BackupCode
}

func newMemBackupCodeRepo() *memBackupCodeRepo {
	return &memBackupCodeRepo{codes: make(map[string]models.BackupCode)}
}

func (r *memBackupCodeRepo) ReplaceCodes(_ context.Context, adminID int64, codes []models.BackupCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, code := range r.codes {
		if code.AdminID == adminID {
			delete(r.codes, id)
		}
	}
	for _, code := range codes {
		code.AdminID = adminID
		code.CreatedAt = time.Now()
		r.codes[code.BackupCodeID] = code
	}

	return nil
}

func (r *memBackupCodeRepo) ListUnusedCodes(_ context.Context, adminID int64) ([]models.BackupCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var unused []models.BackupCode
	for _, code := range r.codes {
		if code.AdminID == adminID && code.UsedAt == nil {
			unused = append(unused, code)
		}
	}

	return unused, nil
}

func (r *memBackupCodeRepo) ConsumeCode(_ context.Context, backupCodeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.codes[backupCodeID]
	if !ok || code.UsedAt != nil {
		return false, nil
	}

	now := time.Now()
	code.UsedAt = &now
	r.codes[backupCodeID] = code

	return true, nil
}

func (r *memBackupCodeRepo) DeleteCodesByAdmin(_ context.Context, adminID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, code := range r.codes {
		if code.AdminID == adminID {
			delete(r.codes, id)
		}
	}

	return nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (r *memAuditRepo) InsertEntry(_ context.Context, entry models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, entry)

	return nil
}

func (r *memAuditRepo) ListEntries(_ context.Context, filter models.AuditFilter) ([]models.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.AuditEntry
	for _, entry := range r.entries {
		if filter.AdminID != 0 && entry.AdminID != filter.AdminID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		out = append(out, entry)
	}

	return out, nil
}

var _ store.AdminRepository = (*memAdminRepo)(nil)
var _ store.SessionRepository = (*memSessionRepo)(nil)
var _ store.BackupCodeRepository = (*memBackupCodeRepo)(nil)
var _ store.AuditRepository = (*memAuditRepo)(nil)
