package http

import (
	"errors"
	"net/http"

	"github.com/colegiolink/enrollment/internal/enrollment/service"
	"github.com/colegiolink/enrollment/pkg/httpx"
	"github.com/colegiolink/enrollment/pkg/slogx"
)

type VerifyEmailHandler struct {
	VerificationService *service.VerificationService
}

// ServeHTTP consumes the signed link from the verification email. Bad,
// expired, and orphaned tokens all collapse to the same client answer.
func (h *VerifyEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")

	if err := h.VerificationService.VerifyEmail(ctx, token); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrUnknownParent):
			httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{
				Message: msgInvalidToken,
			})
		default:
			log.Error("failed to verify email", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
				Message: msgServerError,
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, messageResponse{
		Message: msgEmailVerified,
	})
}
