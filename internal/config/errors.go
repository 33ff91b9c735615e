package config

import "errors"

// Validation errors reported by [StructuredConfig.validate]. Each one is a
// startup failure: the process refuses to run with an incomplete security
// configuration.
var (
	// ErrNoEncryptionKey is returned when APP_ENCRYPTION_KEY is absent.
	// Generating a throwaway key instead would make every previously
	// encrypted TOTP secret unrecoverable after a restart.
	ErrNoEncryptionKey = errors.New("encryption key is not configured")

	// ErrBadEncryptionKey is returned when the configured key does not
	// decode (base64 or hex) to exactly 32 bytes.
	ErrBadEncryptionKey = errors.New("encryption key must decode to 32 bytes")

	// ErrNoDatabaseDSN is returned when no PostgreSQL DSN is configured.
	ErrNoDatabaseDSN = errors.New("database DSN is not configured")
)
