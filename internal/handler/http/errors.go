package http

import (
	"errors"
	"net/http"

	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/service"
	"github.com/foliocms/folio/internal/store"
	"github.com/foliocms/folio/internal/utils"
	"github.com/foliocms/folio/models"
)

// errorStatusMap translates service-layer sentinel errors to HTTP status
// codes. Anything not listed is treated as an internal error and its
// detail is never leaked to the client.
var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:  http.StatusBadRequest,
	service.ErrInvalidCredentials:   http.StatusUnauthorized,
	service.ErrUnauthenticated:      http.StatusUnauthorized,
	service.ErrInvalidTwoFactorCode: http.StatusUnauthorized,
	service.ErrTwoFactorRequired:    http.StatusForbidden,
	service.ErrRegistrationDisabled: http.StatusForbidden,
	service.ErrSelfRevocation:       http.StatusForbidden,
	service.ErrTwoFactorNotEnabled:  http.StatusConflict,
	service.ErrRateLimited:          http.StatusTooManyRequests,
	store.ErrEmailAlreadyExists:     http.StatusConflict,
	store.ErrNoAdminWasFound:        http.StatusNotFound,
}

// writeError maps err to a status code and writes the uniform error body.
// Credential failures share one sentinel, so unknown-email and
// wrong-password responses come out byte-identical; the same holds for
// wrong TOTP codes and spent backup codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for sentinel, status := range errorStatusMap {
		if errors.Is(err, sentinel) {
			body := models.ErrorResponse{
				Error:       sentinel.Error(),
				Requires2FA: errors.Is(err, service.ErrTwoFactorRequired),
			}

			// invalid-data errors carry safe detail past the sentinel
			if errors.Is(err, service.ErrInvalidDataProvided) {
				body.Error = err.Error()
			}

			utils.WriteJSON(w, body, status)
			return
		}
	}

	logger.FromRequest(r).Error().Err(err).Msg("unhandled error in HTTP handler")
	utils.WriteJSON(w, models.ErrorResponse{Error: "internal server error"}, http.StatusInternalServerError)
}
