package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// secretBox is the AES-256-GCM implementation of [SecretCipher].
//
// Blob layout: base64(nonce ‖ ciphertext ‖ tag). A random 12-byte nonce is
// generated per encryption call and prepended so that the decryption side
// can locate it without extra bookkeeping.
type secretBox struct {
	key []byte
}

// NewSecretBox constructs a [SecretCipher] from a 32-byte key. A key of
// any other length is rejected at construction time so that a
// misconfigured deployment fails at startup rather than on the first
// verification attempt.
func NewSecretBox(key []byte) (SecretCipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("secretbox key must be 32 bytes, got %d", len(key))
	}
	return &secretBox{key: key}, nil
}

// EncryptString implements [SecretCipher]. Every call draws a fresh nonce
// from the OS CSPRNG.
func (s *secretBox) EncryptString(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	blob := append(nonce, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptString implements [SecretCipher]. It returns an error on a
// truncated blob, a wrong key, or a corrupted ciphertext
// (authentication-tag mismatch). Callers in the verification path must
// treat any error as a failed verification.
func (s *secretBox) DecryptString(encryptedB64 string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encryptedB64)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt secret: %w", err)
	}

	return string(plaintext), nil
}
