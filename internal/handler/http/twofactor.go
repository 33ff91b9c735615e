package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/foliocms/folio/internal/service"
	"github.com/foliocms/folio/internal/utils"
	"github.com/foliocms/folio/models"
)

// TwoFactorSetup handles POST /api/auth/2fa/setup. The body is optional;
// supplying the account password reveals the raw secret for manual entry
// alongside the provisioning URI.
func (h *Handler) TwoFactorSetup(w http.ResponseWriter, r *http.Request) {
	admin, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	var req models.TwoFactorSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, fmt.Errorf("%w: malformed JSON body", service.ErrInvalidDataProvided))
		return
	}

	setup, err := h.services.TwoFactor.BeginSetup(r.Context(), admin, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.TwoFactorSetupResponse{
		Secret:          setup.RawSecret,
		ProvisioningURI: setup.ProvisioningURI,
		EncryptedSecret: setup.EncryptedSecret,
	}, http.StatusOK)
}

// TwoFactorVerify handles POST /api/auth/2fa/verify, completing the
// enrollment started by TwoFactorSetup. The response carries the
// plaintext backup codes exactly once.
func (h *Handler) TwoFactorVerify(w http.ResponseWriter, r *http.Request) {
	admin, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	var req models.TwoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: malformed JSON body", service.ErrInvalidDataProvided))
		return
	}

	codes, err := h.services.TwoFactor.ConfirmSetup(r.Context(), admin, req.EncryptedSecret, req.TOTPCode, clientMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.TwoFactorVerifyResponse{BackupCodes: codes}, http.StatusOK)
}

// TwoFactorDisable handles POST /api/auth/2fa/disable. Password
// re-verification is mandatory here even though the caller already holds
// a session.
func (h *Handler) TwoFactorDisable(w http.ResponseWriter, r *http.Request) {
	admin, ok := utils.GetAdminFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	var req models.TwoFactorDisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: malformed JSON body", service.ErrInvalidDataProvided))
		return
	}

	if err := h.services.TwoFactor.Disable(r.Context(), admin, req.Password, clientMeta(r)); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
