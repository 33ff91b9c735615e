package config

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// validate checks that the merged configuration is complete enough to run.
// Cryptographic misconfiguration is loud and fatal at startup rather than
// discovered on the first login attempt.
func (c *StructuredConfig) validate() error {
	if c.Storage.DB.DSN == "" {
		return ErrNoDatabaseDSN
	}

	if c.App.EncryptionKey == "" {
		return ErrNoEncryptionKey
	}
	if _, err := c.App.DecodedEncryptionKey(); err != nil {
		return err
	}

	return nil
}

// DecodedEncryptionKey decodes the configured secret-encryption key.
// Both standard base64 and hex encodings are accepted; the decoded key
// must be exactly 32 bytes (AES-256). An encoding only counts if it
// yields the right length: a 64-character hex key is also syntactically
// valid base64 (decoding to 48 bytes), so a length check alone cannot
// pick the encoding.
func (a App) DecodedEncryptionKey() ([]byte, error) {
	if key, err := base64.StdEncoding.DecodeString(a.EncryptionKey); err == nil && len(key) == 32 {
		return key, nil
	}

	if key, err := hex.DecodeString(a.EncryptionKey); err == nil && len(key) == 32 {
		return key, nil
	}

	return nil, fmt.Errorf("%w: value must be the base64 or hex encoding of exactly 32 bytes", ErrBadEncryptionKey)
}
