package service

import "errors"

var (
	// ErrInvalidDataProvided reports malformed or missing request fields.
	// Safe to surface with detail.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are deliberately indistinguishable to prevent account
	// enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTwoFactorRequired signals that the password verified but a second
	// factor is needed. Distinct from a failure so the client can prompt
	// without re-submitting the password.
	ErrTwoFactorRequired = errors.New("two-factor code required")

	// ErrInvalidTwoFactorCode covers both a wrong TOTP code and a wrong or
	// already-used backup code; the two are not distinguished.
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor code")

	// ErrRateLimited reports a denied fixed-window check. Reported
	// distinctly from authentication failures since it carries no
	// secret-dependent signal.
	ErrRateLimited = errors.New("too many requests")

	// ErrRegistrationDisabled is returned while the registration feature
	// flag is off (the production default).
	ErrRegistrationDisabled = errors.New("registration is disabled")

	// ErrSelfRevocation rejects an admin deleting their own identity,
	// regardless of privilege.
	ErrSelfRevocation = errors.New("admins cannot revoke their own account")

	// ErrTwoFactorNotEnabled is returned by operations that require an
	// enrolled account.
	ErrTwoFactorNotEnabled = errors.New("two-factor authentication is not enabled")

	// ErrUnauthenticated is the uniform failure for session resolution:
	// missing, unknown, and expired tokens all produce it.
	ErrUnauthenticated = errors.New("not authenticated")
)
