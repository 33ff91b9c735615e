package service

import (
	"context"
	"sync"
	"time"

	"github.com/foliocms/folio/internal/crypto"
	"github.com/foliocms/folio/internal/store"
	"github.com/foliocms/folio/models"
)

// In-memory repository fakes. They honor the same sentinel-error contract
// as the Postgres implementations so errors.Is checks behave identically.

type fakeAdminRepo struct {
	mu     sync.Mutex
	nextID int64
	admins map[int64]models.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[int64]models.Admin)}
}

func (r *fakeAdminRepo) CreateAdmin(_ context.Context, admin models.Admin) (models.Admin, error) {
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

func (r *fakeAdminRepo) FindAdminByEmail(_ context.Context, email string) (models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, admin := range r.admins {
		if admin.Email == email {
			return admin, nil
		}
	}

	return models.Admin{}, store.ErrNoAdminWasFound
}

func (r *fakeAdminRepo) FindAdminByID(_ context.Context, adminID int64) (models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin, ok := r.admins[adminID]
	if !ok {
		return models.Admin{}, store.ErrNoAdminWasFound
	}

	return admin, nil
}

func (r *fakeAdminRepo) EnableTwoFactor(_ context.Context, adminID int64, encryptedSecret string) error {
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

func (r *fakeAdminRepo) DisableTwoFactor(_ context.Context, adminID int64) error {
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

func (r *fakeAdminRepo) MigrateLegacySecret(_ context.Context, adminID int64, encryptedSecret string) error {
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

func (r *fakeAdminRepo) DeleteAdmin(_ context.Context, adminID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.admins[adminID]; !ok {
		return store.ErrNoAdminWasFound
	}
	delete(r.admins, adminID)

	return nil
}

// put seeds an admin directly, bypassing CreateAdmin.
func (r *fakeAdminRepo) put(admin models.Admin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if admin.AdminID > r.nextID {
		r.nextID = admin.AdminID
	}
	r.admins[admin.AdminID] = admin
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.Session // keyed by token
	now      func() time.Time
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: make(map[string]models.Session),
		now:      time.Now,
	}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, session models.Session) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session.CreatedAt = r.now()
	session.LastSeenAt = session.CreatedAt
	r.sessions[session.Token] = session

	return session, nil
}

func (r *fakeSessionRepo) FindSessionByToken(_ context.Context, token string) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok || !session.ExpiresAt.After(r.now()) {
		return models.Session{}, store.ErrNoSessionWasFound
	}

	return session, nil
}

func (r *fakeSessionRepo) TouchSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return store.ErrNoSessionWasFound
	}

	session.LastSeenAt = r.now()
	r.sessions[token] = session

	return nil
}

func (r *fakeSessionRepo) RotateSession(_ context.Context, oldToken string, replacement models.Session) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.sessions[oldToken]
	if !ok || !old.ExpiresAt.After(r.now()) {
		return models.Session{}, store.ErrNoSessionWasFound
	}

	delete(r.sessions, oldToken)

	replacement.AdminID = old.AdminID
	replacement.CreatedAt = r.now()
	replacement.LastSeenAt = replacement.CreatedAt
	r.sessions[replacement.Token] = replacement

	return replacement, nil
}

func (r *fakeSessionRepo) DeleteSessionByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)

	return nil
}

func (r *fakeSessionRepo) DeleteSessionsByAdmin(_ context.Context, adminID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, session := range r.sessions {
		if session.AdminID == adminID {
			delete(r.sessions, token)
		}
	}

	return nil
}

func (r *fakeSessionRepo) DeleteExpiredSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for token, session := range r.sessions {
		if !session.ExpiresAt.After(r.now()) {
			delete(r.sessions, token)
			removed++
		}
	}

	return removed, nil
}

type fakeBackupCodeRepo struct {
	mu    sync.Mutex
	codes map[string]models.BackupCode // keyed by id
}

func newFakeBackupCodeRepo() *fakeBackupCodeRepo {
	return &fakeBackupCodeRepo{codes: make(map[string]models.BackupCode)}
}

func (r *fakeBackupCodeRepo) ReplaceCodes(_ context.Context, adminID int64, codes []models.BackupCode) error {
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

func (r *fakeBackupCodeRepo) ListUnusedCodes(_ context.Context, adminID int64) ([]models.BackupCode, error) {
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

func (r *fakeBackupCodeRepo) ConsumeCode(_ context.Context, backupCodeID string) (bool, error) {
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

func (r *fakeBackupCodeRepo) DeleteCodesByAdmin(_ context.Context, adminID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, code := range r.codes {
		if code.AdminID == adminID {
			delete(r.codes, id)
		}
	}

	return nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (r *fakeAuditRepo) InsertEntry(_ context.Context, entry models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, entry)

	return nil
}

func (r *fakeAuditRepo) ListEntries(_ context.Context, filter models.AuditFilter) ([]models.AuditEntry, error) {
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

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.Action)
	}

	return out
}

// fakeClock drives limiter windows deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

var _ store.AdminRepository = (*fakeAdminRepo)(nil)
var _ store.SessionRepository = (*fakeSessionRepo)(nil)
var _ store.BackupCodeRepository = (*fakeBackupCodeRepo)(nil)
var _ store.AuditRepository = (*fakeAuditRepo)(nil)
var _ crypto.TOTPEngine = (*fakeTOTPEngine)(nil)

// fakeTOTPEngine accepts exactly one code per secret, keeping TOTP
// semantics out of orchestration tests.
type fakeTOTPEngine struct {
	// validCodes maps encrypted secret -> the single accepted code.
	validCodes map[string]string

	// validRawCodes maps raw (legacy) secret -> the single accepted code.
	validRawCodes map[string]string

	backupCodes []string
}

func (f *fakeTOTPEngine) GenerateEnrollment(account string) (crypto.Enrollment, error) {
	return crypto.Enrollment{
		RawSecret:       "RAWSECRET" + account,
		EncryptedSecret: "enc:RAWSECRET" + account,
		ProvisioningURI: "otpauth://totp/folio:" + account,
	}, nil
}

func (f *fakeTOTPEngine) ProvisioningURI(account, rawSecret string) (string, error) {
	return "otpauth://totp/folio:" + account, nil
}

func (f *fakeTOTPEngine) EncryptSecret(rawSecret string) (string, error) {
	return "enc:" + rawSecret, nil
}

func (f *fakeTOTPEngine) VerifyCode(encryptedSecret, code string) bool {
	return f.validCodes[encryptedSecret] == code && code != ""
}

func (f *fakeTOTPEngine) VerifyRawCode(rawSecret, code string) bool {
	return f.validRawCodes[rawSecret] == code && code != ""
}

func (f *fakeTOTPEngine) GenerateBackupCodes(count int) ([]string, error) {
	if f.backupCodes != nil {
		return f.backupCodes, nil
	}

	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		codes = append(codes, "CODE"+string(rune('A'+i)))
	}

	return codes, nil
}
