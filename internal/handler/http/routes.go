package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// Routes assembles the router: recovery, trace-id, request logging, a
// per-IP edge limit, and the /api surface. The finer per-action limits
// live inside the service layer, keyed the same way as audit records.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(h.traceID)
	r.Use(h.requestLogger)
	r.Use(middleware.Timeout(h.cfg.Server.RequestTimeout))
	r.Use(httprate.LimitByIP(h.cfg.Server.EdgeRequestsPerMinute, time.Minute))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)

			// refresh authenticates by cookie itself, not the middleware:
			// the rotation must be atomic with the lookup
			r.Post("/refresh", h.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(h.requireSession)

				r.Post("/logout", h.Logout)
				r.Get("/me", h.Me)

				r.Route("/2fa", func(r chi.Router) {
					r.Post("/setup", h.TwoFactorSetup)
					r.Post("/verify", h.TwoFactorVerify)
					r.Post("/disable", h.TwoFactorDisable)
				})
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireSession)

			r.Delete("/admins/{adminID}", h.RevokeAdmin)
			r.Get("/audit", h.ListAudit)
		})
	})

	return r
}
