package models

import "time"

// Session is a persisted login session bound to an admin account.
//
// The Token is the only value that leaves the server (as an HttpOnly
// cookie); it carries at least 256 bits of entropy encoded as hex and is
// unguessable. An expired session behaves identically to a nonexistent
// one at lookup time.
type Session struct {
	// SessionID is the internal row identifier (UUIDv7).
	SessionID string `json:"-"`

	// AdminID is the owning admin account.
	AdminID int64 `json:"admin_id"`

	// Token is the opaque session token presented by the client.
	// Never logged in full.
	Token string `json:"-"`

	// IPAddress and UserAgent are client metadata recorded for audit.
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`

	CreatedAt time.Time `json:"created_at"`

	// LastSeenAt is updated best-effort on each successful resolve.
	LastSeenAt time.Time `json:"last_seen_at"`

	// ExpiresAt is enforced in SQL at lookup time (expires_at > now()).
	ExpiresAt time.Time `json:"expires_at"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}

// ClientMeta carries per-request client attribution attached to sessions
// and audit entries.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}
