// Package crypto implements the cryptographic primitives of the
// authentication core: adaptive password hashing, authenticated encryption
// of TOTP secrets at rest, and time-based one-time-password verification
// with backup-code generation.
package crypto

// PasswordHasher produces and verifies one-way salted password hashes.
//
// Hash is non-deterministic: the same input yields a different hash on
// every call because a fresh salt is generated per call. Verify must never
// return an error for a malformed stored hash; it simply reports false.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// SecretCipher provides authenticated encryption for small secrets stored
// at rest. The encrypted blob is self-contained: nonce, ciphertext, and
// authentication tag are all embedded, so decryption needs only the blob
// and the process-wide key.
type SecretCipher interface {
	EncryptString(plaintext string) (string, error)
	DecryptString(blob string) (string, error)
}

// Enrollment is the material produced when an admin begins TOTP setup.
// RawSecret exists only transiently: it is rendered as a QR code during
// the enrollment flow and must never be persisted.
type Enrollment struct {
	// RawSecret is the base32-encoded shared secret for the
	// authenticator app.
	RawSecret string

	// EncryptedSecret is the at-rest form, produced immediately at
	// generation time. Only this form may be stored.
	EncryptedSecret string

	// ProvisioningURI is the otpauth:// URI for QR encoding.
	ProvisioningURI string
}

// TOTPEngine issues and verifies time-based one-time passwords and
// generates backup codes.
type TOTPEngine interface {
	GenerateEnrollment(account string) (Enrollment, error)
	ProvisioningURI(account, rawSecret string) (string, error)

	// EncryptSecret converts a raw base32 secret to its at-rest encrypted
	// form. Used when migrating legacy plaintext secrets.
	EncryptSecret(rawSecret string) (string, error)

	// VerifyCode decrypts the stored secret and validates code within the
	// configured clock-drift window. It fails closed: any decryption or
	// validation error yields false, never an accepting state.
	VerifyCode(encryptedSecret, code string) bool

	// VerifyRawCode validates code against an unencrypted secret. Used
	// only for the legacy plaintext storage path.
	VerifyRawCode(rawSecret, code string) bool

	GenerateBackupCodes(count int) ([]string, error)
}
