package models

import "time"

// BackupCode is a single-use two-factor recovery code.
//
// The plaintext code is shown to the admin exactly once at generation
// time; only the bcrypt hash is persisted. Consuming a code records
// UsedAt, and a used code must never verify again.
type BackupCode struct {
	// BackupCodeID is the internal row identifier (UUIDv7).
	BackupCodeID string

	// AdminID is the owning admin account.
	AdminID int64

	// CodeHash is the bcrypt hash of the plaintext code.
	CodeHash string

	// UsedAt is nil while the code is still usable.
	UsedAt *time.Time

	CreatedAt time.Time
}

// TableName returns the name of the database table
// associated with the BackupCode model.
func (b BackupCode) TableName() string {
	return "backup_codes"
}
