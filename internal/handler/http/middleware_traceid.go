package http

import (
	"net/http"

	"github.com/foliocms/folio/internal/utils"
)

// traceIDHeader carries the request's trace id back to the client.
const traceIDHeader = "X-Trace-Id"

// traceID assigns each request a trace id, attaches a request-scoped
// logger carrying it to the context, and echoes it in the response
// headers so client reports can be matched against server logs.
func (h *Handler) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trace := r.Header.Get(traceIDHeader)
		if trace == "" {
			trace = utils.NewUUID()
		}

		requestLogger := h.logger.With().Str("trace_id", trace).Logger()
		ctx := requestLogger.WithContext(r.Context())

		w.Header().Set(traceIDHeader, trace)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
