package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/colegiolink/enrollment/internal/enrollment/service"
	"github.com/colegiolink/enrollment/pkg/httpx"
	"github.com/colegiolink/enrollment/pkg/slogx"
)

type VerifyCodeHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP checks whether a registration code is still redeemable. It never
// consumes the code; registration redeems it atomically on its own.
func (h *VerifyCodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, statusResponse{
			Success: false,
			Message: msgCodeInvalid,
		})
		return
	}

	if err := h.RegistrationService.CheckCode(ctx, req.Code); err != nil {
		if errors.Is(err, service.ErrInvalidOrUsedCode) {
			httpx.WriteJSON(w, http.StatusBadRequest, statusResponse{
				Success: false,
				Message: msgCodeInvalid,
			})
			return
		}

		log.Error("failed to check registration code", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
			Message: msgServerError,
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: msgCodeValid,
	})
}
