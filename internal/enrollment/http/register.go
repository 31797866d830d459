package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/colegiolink/enrollment/internal/enrollment/service"
	"github.com/colegiolink/enrollment/internal/enrollment/validate"
	"github.com/colegiolink/enrollment/pkg/httpx"
	"github.com/colegiolink/enrollment/pkg/slogx"
)

type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

type registerRequest struct {
	ParentData service.ParentData `json:"parentData"`
	ChildData  service.ChildData  `json:"childData"`
	Code       string             `json:"code"`
}

// ServeHTTP redeems a registration code and creates the linked parent and
// child accounts. Field problems come back together as a validation payload
// so clients can annotate the whole form in one round trip.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A non-numeric age is the one type mismatch clients actually send;
		// report it in the same shape as the other field errors.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "childData.age" {
			httpx.WriteJSON(w, http.StatusBadRequest, validationResponse{
				Message: msgValidationFailed,
				Errors: []validate.FieldError{
					{Field: "age", Message: msgAgeNotInteger},
				},
			})
			return
		}

		httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{
			Message: msgValidationFailed,
		})
		return
	}

	result, err := h.RegistrationService.Register(ctx, req.ParentData, req.ChildData, req.Code)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrInvalidOrUsedCode):
			httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{
				Message: msgCodeInvalid,
			})
		case errors.As(err, &verr):
			httpx.WriteJSON(w, http.StatusBadRequest, validationResponse{
				Message: msgValidationFailed,
				Errors:  verr.Fields,
			})
		default:
			log.Error("failed to register parent", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
				Message: msgServerError,
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		Message: msgRegistered,
		Token:   result.SessionToken,
		User: userSummary{
			ID:        result.Parent.ID,
			Email:     result.Parent.Email,
			FirstName: result.Parent.FirstName,
			LastName:  result.Parent.LastName,
		},
	})
}
