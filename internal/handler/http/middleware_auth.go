package http

import (
	"net/http"

	"github.com/foliocms/folio/internal/utils"
)

// requireSession resolves the session cookie to an admin account and
// stores it in the request context. Requests with a missing, unknown, or
// expired token are rejected with an identical 401 body.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, err := h.services.Session.Resolve(r.Context(), sessionToken(r))
		if err != nil {
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithAdmin(r.Context(), admin)))
	})
}
