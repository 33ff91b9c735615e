package models

// Request and response bodies for the /api/auth surface.

// LoginRequest is the body of POST /api/auth/login. TOTPCode and
// BackupCode are optional second factors; at most one is expected.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TOTPCode   string `json:"totpCode,omitempty"`
	BackupCode string `json:"backupCode,omitempty"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication alongside the
// session cookie.
type LoginResponse struct {
	Admin Admin `json:"admin"`
}

// TwoFactorSetupRequest is the optional body of POST /api/auth/2fa/setup.
// When Password is supplied and verifies, the response includes the raw
// secret for manual authenticator entry.
type TwoFactorSetupRequest struct {
	Password string `json:"password,omitempty"`
}

// TwoFactorSetupResponse carries the enrollment material. Secret is
// populated only after password re-verification; the provisioning URI is
// always present for QR encoding.
type TwoFactorSetupResponse struct {
	Secret          string `json:"secret,omitempty"`
	ProvisioningURI string `json:"provisioningUri"`
	EncryptedSecret string `json:"encryptedSecret"`
}

// TwoFactorVerifyRequest is the body of POST /api/auth/2fa/verify.
type TwoFactorVerifyRequest struct {
	TOTPCode        string `json:"totpCode"`
	EncryptedSecret string `json:"encryptedSecret"`
}

// TwoFactorVerifyResponse returns the plaintext backup codes exactly
// once, at enrollment time.
type TwoFactorVerifyResponse struct {
	BackupCodes []string `json:"backupCodes"`
}

// TwoFactorDisableRequest is the body of POST /api/auth/2fa/disable.
type TwoFactorDisableRequest struct {
	Password string `json:"password"`
}

// ErrorResponse is the uniform error body. Requires2FA distinguishes the
// "second factor needed" signal from a generic authentication failure so
// the client can prompt without re-submitting the password.
type ErrorResponse struct {
	Error       string `json:"error"`
	Requires2FA bool   `json:"requires2FA,omitempty"`
}
