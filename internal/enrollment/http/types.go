package http

import "github.com/colegiolink/enrollment/internal/enrollment/validate"

// User-facing messages. These are API contract, not decoration: clients and
// tests match on the exact strings.
const (
	msgServerError      = "Error en el servidor"
	msgCodeValid        = "Código válido"
	msgCodeInvalid      = "Código inválido o ya utilizado"
	msgRegistered       = "Registro exitoso. Por favor, verifica tu correo electrónico."
	msgValidationFailed = "Error de validación"
	msgBadCredentials   = "Credenciales inválidas"
	msgEmailUnverified  = "Por favor, verifica tu correo electrónico antes de iniciar sesión"
	msgEmailVerified    = "Correo electrónico verificado exitosamente"
	msgInvalidToken     = "Token inválido"
	msgAgeNotInteger    = "La edad debe ser un número entero"
)

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type validationResponse struct {
	Message string                `json:"message"`
	Errors  []validate.FieldError `json:"errors"`
}

type userSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type registerResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userSummary `json:"user"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type healthChecks struct {
	Database string `json:"database"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}
