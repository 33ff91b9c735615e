package models

import "time"

// Admin represents a dashboard operator account used for authentication.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type Admin struct {
	// AdminID is the internal unique identifier of the admin.
	AdminID int64 `json:"id"`

	// Email is the unique admin login identifier. The service layer
	// normalizes it to lowercase before storage and lookup.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the admin's password.
	// This value MUST be a hash, never plaintext, and is never logged.
	PasswordHash string `json:"-"`

	// TOTPEnabled reports whether the account has completed two-factor
	// enrollment. When true, TOTPSecretEncrypted must be populated.
	TOTPEnabled bool `json:"totp_enabled"`

	// TOTPSecretEncrypted is the AES-GCM encrypted TOTP secret,
	// base64-encoded nonce-prefixed blob. Nil when 2FA is disabled.
	TOTPSecretEncrypted *string `json:"-"`

	// TOTPSecretLegacy is the pre-encryption plaintext secret column kept
	// for accounts enrolled before encryption-at-rest was introduced.
	// Mutually exclusive with TOTPSecretEncrypted; populated rows are
	// migrated on their next successful verification.
	TOTPSecretLegacy *string `json:"-"`

	// CreatedAt is the timestamp when the admin account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Admin model.
func (a Admin) TableName() string {
	return "admins"
}
