package crypto

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"time"

	"github.com/foliocms/folio/internal/logger"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// totpPeriod is the standard TOTP time step.
	totpPeriod = 30

	// totpSecretSize is the raw secret length in bytes (160 bits before
	// base32 encoding).
	totpSecretSize = 20

	// backupCodeLength is the length of a generated backup code.
	backupCodeLength = 8
)

// backupCodeAlphabet is restricted to unambiguous uppercase letters and
// digits so codes stay human-typable.
const backupCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// totpEngine is the concrete implementation of [TOTPEngine] built on
// github.com/pquerna/otp.
type totpEngine struct {
	issuer string
	cipher SecretCipher

	// skew is the accepted clock drift in 30-second steps on either side
	// of the current one.
	skew uint

	// now is injectable for deterministic tests.
	now func() time.Time

	logger *logger.Logger
}

// NewTOTPEngine constructs a [TOTPEngine]. issuer is the label embedded in
// provisioning URIs; cipher encrypts secrets at rest. Verification accepts
// one 30-second step of clock drift on either side.
func NewTOTPEngine(issuer string, cipher SecretCipher, log *logger.Logger) TOTPEngine {
	return &totpEngine{
		issuer: issuer,
		cipher: cipher,
		skew:   1,
		now:    time.Now,
		logger: log,
	}
}

// validateOpts returns the shared verification parameters: 6 digits,
// SHA-1, 30-second period. This is what mainstream authenticator apps emit.
func (t *totpEngine) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      t.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// GenerateEnrollment implements [TOTPEngine]. The raw secret is encrypted
// immediately; callers hold the raw form only long enough to render the QR
// code and must never persist it.
func (t *totpEngine) GenerateEnrollment(account string) (Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      t.issuer,
		AccountName: account,
		SecretSize:  totpSecretSize,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Enrollment{}, fmt.Errorf("error generating TOTP secret: %w", err)
	}

	encrypted, err := t.cipher.EncryptString(key.Secret())
	if err != nil {
		return Enrollment{}, fmt.Errorf("error encrypting TOTP secret: %w", err)
	}

	return Enrollment{
		RawSecret:       key.Secret(),
		EncryptedSecret: encrypted,
		ProvisioningURI: key.URL(),
	}, nil
}

// ProvisioningURI implements [TOTPEngine]. It is a pure formatting
// function: the same account and secret always produce the same URI.
func (t *totpEngine) ProvisioningURI(account, rawSecret string) (string, error) {
	secretBytes, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(rawSecret)
	if err != nil {
		return "", fmt.Errorf("error decoding TOTP secret: %w", err)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      t.issuer,
		AccountName: account,
		Secret:      secretBytes,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("error building provisioning URI: %w", err)
	}

	return key.URL(), nil
}

// EncryptSecret implements [TOTPEngine]. Used when upgrading a legacy
// plaintext secret to at-rest encryption.
func (t *totpEngine) EncryptSecret(rawSecret string) (string, error) {
	encrypted, err := t.cipher.EncryptString(rawSecret)
	if err != nil {
		return "", fmt.Errorf("error encrypting TOTP secret: %w", err)
	}

	return encrypted, nil
}

// VerifyCode implements [TOTPEngine]. A decryption failure (key mismatch,
// corrupted ciphertext) is logged and reported as a failed verification;
// a malformed stored secret must never be treated as "any code accepted".
func (t *totpEngine) VerifyCode(encryptedSecret, code string) bool {
	rawSecret, err := t.cipher.DecryptString(encryptedSecret)
	if err != nil {
		t.logger.Warn().Err(err).Msg("stored TOTP secret failed to decrypt, rejecting code")
		return false
	}

	return t.VerifyRawCode(rawSecret, code)
}

// VerifyRawCode implements [TOTPEngine].
func (t *totpEngine) VerifyRawCode(rawSecret, code string) bool {
	valid, err := totp.ValidateCustom(code, rawSecret, t.now().UTC(), t.validateOpts())
	if err != nil {
		t.logger.Warn().Err(err).Msg("TOTP validation error, rejecting code")
		return false
	}

	return valid
}

// GenerateBackupCodes implements [TOTPEngine]. Codes are drawn from the OS
// CSPRNG; the caller hashes each one before storage and returns the
// plaintext to the admin exactly once.
func (t *totpEngine) GenerateBackupCodes(count int) ([]string, error) {
	codes := make([]string, 0, count)

	for i := 0; i < count; i++ {
		buf := make([]byte, backupCodeLength)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("error generating backup code: %w", err)
		}

		code := make([]byte, backupCodeLength)
		for i, b := range buf {
			code[i] = backupCodeAlphabet[int(b)%len(backupCodeAlphabet)]
		}
		codes = append(codes, string(code))
	}

	return codes, nil
}
