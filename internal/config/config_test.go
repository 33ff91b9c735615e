package config

import (
	"encoding/base64"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validKey() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 32))
}

func TestValidate_MissingDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.App.EncryptionKey = validKey()

	err := cfg.validate()
	require.ErrorIs(t, err, ErrNoDatabaseDSN)
}

func TestValidate_MissingEncryptionKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.Storage.DB.DSN = "postgres://localhost/folio"

	err := cfg.validate()
	require.ErrorIs(t, err, ErrNoEncryptionKey)
}

func TestValidate_ShortEncryptionKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.Storage.DB.DSN = "postgres://localhost/folio"
	cfg.App.EncryptionKey = base64.StdEncoding.EncodeToString(make([]byte, 16))

	err := cfg.validate()
	require.ErrorIs(t, err, ErrBadEncryptionKey)
}

func TestDecodedEncryptionKey_Hex(t *testing.T) {
	app := App{EncryptionKey: "000102030405060708090a0b0c0d0e0f000102030405060708090a0b0c0d0e0f"}

	key, err := app.DecodedEncryptionKey()
	require.NoError(t, err)
	require.Len(t, key, 32)

	// a 64-char hex string is also syntactically valid base64; the hex
	// reading must win because only it yields 32 bytes
	expected, err := hex.DecodeString(app.EncryptionKey)
	require.NoError(t, err)
	assert.Equal(t, expected, key)
}

func TestDecodedEncryptionKey_Base64(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	app := App{EncryptionKey: base64.StdEncoding.EncodeToString(raw)}

	key, err := app.DecodedEncryptionKey()
	require.NoError(t, err)
	assert.Equal(t, raw, key)
}

func TestDecodedEncryptionKey_RejectsWrongLengths(t *testing.T) {
	// 64 characters of valid base64 that are not valid hex: decodes to
	// 48 bytes one way and fails the other
	app := App{EncryptionKey: "ZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ"}
	_, err := app.DecodedEncryptionKey()
	require.ErrorIs(t, err, ErrBadEncryptionKey)

	// 16-byte hex key is too short in either reading
	app = App{EncryptionKey: "000102030405060708090a0b0c0d0e0f"}
	_, err = app.DecodedEncryptionKey()
	require.ErrorIs(t, err, ErrBadEncryptionKey)
}

func TestDefaults_AppliedWhenEnvEmpty(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, time.Hour, cfg.App.SessionTTL)
	assert.Equal(t, 5, cfg.Limits.LoginMax)
	assert.Equal(t, 15*time.Minute, cfg.Limits.LoginWindow)
	assert.Equal(t, 3, cfg.Limits.RegisterMax)
	assert.Equal(t, 10, cfg.Limits.TwoFactorMax)
	assert.False(t, cfg.EnableRegistration, "registration must be off by default")
}

func TestBuilder_EnvThenDefaults(t *testing.T) {
	t.Setenv("APP_SESSION_TTL", "2h")
	t.Setenv("APP_ENCRYPTION_KEY", validKey())
	t.Setenv("STORAGE_DB_DATABASE_URI", "postgres://localhost/folio")

	cfg, err := newConfigBuilder().withEnv().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.App.SessionTTL, "env value wins over default")
	assert.Equal(t, 5, cfg.Limits.LoginMax, "default fills unset field")
}
