package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/service"
	"github.com/foliocms/folio/internal/utils"
	"github.com/foliocms/folio/models"
	"github.com/go-chi/chi/v5"
)

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: malformed JSON body", service.ErrInvalidDataProvided))
		return
	}

	admin, err := h.services.Auth.Register(r.Context(), req, clientMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.LoginResponse{Admin: admin}, http.StatusCreated)
}

// Login handles POST /api/auth/login. On success the session token is set
// as an HttpOnly cookie and only the admin identity goes in the body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: malformed JSON body", service.ErrInvalidDataProvided))
		return
	}

	result, err := h.services.Auth.Login(r.Context(), req, clientMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, r, result.Session)
	utils.WriteJSON(w, models.LoginResponse{Admin: result.Admin}, http.StatusOK)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	admin, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	if err := h.services.Auth.Logout(r.Context(), sessionToken(r), admin, clientMeta(r)); err != nil {
		writeError(w, r, err)
		return
	}

	h.clearSessionCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me, returning the authenticated admin.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	admin, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	utils.WriteJSON(w, models.LoginResponse{Admin: admin}, http.StatusOK)
}

// Refresh handles POST /api/auth/refresh. The presented token is
// atomically replaced; the old token is invalid once the response is
// written.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, err := h.services.Session.Refresh(r.Context(), sessionToken(r), clientMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, r, session)
	w.WriteHeader(http.StatusNoContent)
}

// RevokeAdmin handles DELETE /api/admin/admins/{adminID}.
func (h *Handler) RevokeAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "adminID"), 10, 64)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: adminID must be an integer", service.ErrInvalidDataProvided))
		return
	}

	if err := h.services.Auth.RevokeAdmin(r.Context(), actor.AdminID, targetID, clientMeta(r)); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAudit handles GET /api/admin/audit. Supported query parameters:
// admin_id, action, since (RFC 3339), limit.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAuditFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := h.services.Auth.ListAudit(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if entries == nil {
		entries = []models.AuditEntry{}
	}

	utils.WriteJSON(w, entries, http.StatusOK)

	logger.FromRequest(r).Debug().Int("entries", len(entries)).Msg("audit log listed")
}

func parseAuditFilter(r *http.Request) (models.AuditFilter, error) {
	var filter models.AuditFilter
	query := r.URL.Query()

	if raw := query.Get("admin_id"); raw != "" {
		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("%w: admin_id must be an integer", service.ErrInvalidDataProvided)
		}
		filter.AdminID = adminID
	}

	filter.Action = query.Get("action")

	if raw := query.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, fmt.Errorf("%w: since must be an RFC 3339 timestamp", service.ErrInvalidDataProvided)
		}
		filter.Since = since
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("%w: limit must be a positive integer", service.ErrInvalidDataProvided)
		}
		filter.Limit = limit
	}

	return filter, nil
}
