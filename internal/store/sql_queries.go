package store

const (
	createAdmin = `INSERT INTO admins (email, password_hash)
    VALUES ($1, $2)
    RETURNING admin_id, email, password_hash, totp_enabled, totp_secret_encrypted, totp_secret_legacy, created_at;`

	findAdminByEmail = `SELECT admin_id, email, password_hash, totp_enabled, totp_secret_encrypted, totp_secret_legacy, created_at
    FROM admins
    WHERE email = $1;`

	findAdminByID = `SELECT admin_id, email, password_hash, totp_enabled, totp_secret_encrypted, totp_secret_legacy, created_at
    FROM admins
    WHERE admin_id = $1;`

	enableTwoFactor = `UPDATE admins
    SET totp_enabled = TRUE, totp_secret_encrypted = $2, totp_secret_legacy = NULL
    WHERE admin_id = $1;`

	disableTwoFactor = `UPDATE admins
    SET totp_enabled = FALSE, totp_secret_encrypted = NULL, totp_secret_legacy = NULL
    WHERE admin_id = $1;`

	migrateLegacySecret = `UPDATE admins
    SET totp_secret_encrypted = $2, totp_secret_legacy = NULL
    WHERE admin_id = $1 AND totp_secret_legacy IS NOT NULL;`

	deleteAdmin = `DELETE FROM admins
    WHERE admin_id = $1;`

	createSession = `INSERT INTO sessions (session_id, admin_id, token, ip_address, user_agent, expires_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING session_id, admin_id, token, ip_address, user_agent, created_at, last_seen_at, expires_at;`

	// Expiry is enforced here: an expired session is filtered out by the
	// WHERE clause and becomes indistinguishable from an absent one.
	findSessionByToken = `SELECT session_id, admin_id, token, ip_address, user_agent, created_at, last_seen_at, expires_at
    FROM sessions
    WHERE token = $1 AND expires_at > now();`

	touchSession = `UPDATE sessions
    SET last_seen_at = now()
    WHERE token = $1;`

	deleteSessionByTokenReturning = `DELETE FROM sessions
    WHERE token = $1 AND expires_at > now()
    RETURNING admin_id;`

	deleteSessionByToken = `DELETE FROM sessions
    WHERE token = $1;`

	deleteSessionsByAdmin = `DELETE FROM sessions
    WHERE admin_id = $1;`

	deleteExpiredSessions = `DELETE FROM sessions
    WHERE expires_at <= now();`

	insertBackupCode = `INSERT INTO backup_codes (backup_code_id, admin_id, code_hash)
    VALUES ($1, $2, $3);`

	listUnusedBackupCodes = `SELECT backup_code_id, admin_id, code_hash, used_at, created_at
    FROM backup_codes
    WHERE admin_id = $1 AND used_at IS NULL;`

	// The used_at IS NULL guard makes consumption at-most-once under
	// concurrent attempts; callers check the affected-row count.
	consumeBackupCode = `UPDATE backup_codes
    SET used_at = now()
    WHERE backup_code_id = $1 AND used_at IS NULL;`

	deleteBackupCodesByAdmin = `DELETE FROM backup_codes
    WHERE admin_id = $1;`

	insertAuditEntry = `INSERT INTO audit_log (audit_id, admin_id, action, ip_address, user_agent)
    VALUES ($1, $2, $3, $4, $5);`
)
