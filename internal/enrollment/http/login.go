package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/colegiolink/enrollment/internal/enrollment/service"
	"github.com/colegiolink/enrollment/pkg/httpx"
	"github.com/colegiolink/enrollment/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP exchanges (documentNumber, password) for a login token. Unknown
// accounts and wrong passwords get the same answer.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req struct {
		DocumentNumber string `json:"documentNumber"`
		Password       string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{
			Message: msgBadCredentials,
		})
		return
	}

	token, err := h.AuthService.Login(ctx, req.DocumentNumber, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{
				Message: msgBadCredentials,
			})
		case errors.Is(err, service.ErrEmailNotVerified):
			httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{
				Message: msgEmailUnverified,
			})
		default:
			log.Error("failed to log parent in", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
				Message: msgServerError,
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{Token: token})
}
