// Package http implements the inbound HTTP surface of the folio
// authentication server: the /api/auth endpoints, the session-cookie
// middleware, and the mapping from service-layer sentinel errors to HTTP
// status codes.
package http

import (
	"net/http"

	"github.com/foliocms/folio/internal/config"
	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/service"
	"github.com/foliocms/folio/internal/utils"
	"github.com/foliocms/folio/models"
)

// sessionCookieName is the cookie carrying the opaque session token.
const sessionCookieName = "folio_session"

// Handler holds the dependencies of all HTTP endpoints.
type Handler struct {
	services *service.Services
	cfg      *config.StructuredConfig
	logger   *logger.Logger
}

// NewHandler constructs the HTTP handler on top of the service layer.
func NewHandler(services *service.Services, cfg *config.StructuredConfig, log *logger.Logger) *Handler {
	return &Handler{
		services: services,
		cfg:      cfg,
		logger:   log,
	}
}

// clientMeta extracts the client attribution recorded on sessions and
// audit entries.
func clientMeta(r *http.Request) models.ClientMeta {
	return models.ClientMeta{
		IPAddress: utils.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// sessionToken reads the session cookie. An absent cookie yields an
// empty token, which the service layer treats as unauthenticated.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// setSessionCookie writes the session token as an HttpOnly, SameSite=Lax
// cookie. The Secure flag follows the connection unless the configuration
// forces it (TLS-terminating proxy in front).
func (h *Handler) setSessionCookie(w http.ResponseWriter, r *http.Request, session models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil || h.cfg.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (h *Handler) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil || h.cfg.Server.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
