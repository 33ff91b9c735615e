package models

import "time"

// Audit actions recorded by the authentication core.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionRegister       = "REGISTER"
	AuditActionTwoFactorOn    = "2FA_ENABLED"
	AuditActionTwoFactorOff   = "2FA_DISABLED"
	AuditActionAdminRevoked   = "ADMIN_REVOKED"
	AuditActionSessionRefresh = "SESSION_REFRESH"
)

// AuditEntry is an append-only record of a security-relevant action.
// Writing an entry is a side effect of the action, never a precondition:
// an audit-write failure must not fail the action itself.
type AuditEntry struct {
	AuditID   string    `json:"id"`
	AdminID   int64     `json:"admin_id"`
	Action    string    `json:"action"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the AuditEntry model.
func (e AuditEntry) TableName() string {
	return "audit_log"
}

// AuditFilter narrows audit-log listings. Zero values mean "no filter".
type AuditFilter struct {
	AdminID int64
	Action  string
	Since   time.Time
	Limit   uint64
}
