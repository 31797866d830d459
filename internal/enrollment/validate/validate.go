// Package validate wraps go-playground/validator with the Spanish,
// field-scoped messages the API contract promises.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	estranslations "github.com/go-playground/validator/v10/translations/es"
)

// FieldError is one field-scoped validation failure, shaped exactly like
// the API's errors array entries.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// messages pins the exact wording for the known field/tag pairs. Anything
// not listed falls back to the stock Spanish translations.
var messages = map[string]string{
	"firstName.required":      "El nombre no puede estar vacío",
	"lastName.required":       "El apellido no puede estar vacío",
	"documentNumber.required": "El número de documento no puede estar vacío",
	"phoneNumber.required":    "El número de teléfono no puede estar vacío",
	"email.required":          "El correo electrónico no puede estar vacío",
	"email.email":             "Por favor, introduce un correo electrónico válido",
	"password.required":       "La contraseña debe tener al menos 6 caracteres",
	"password.min":            "La contraseña debe tener al menos 6 caracteres",
	"password.max":            "La contraseña debe tener al menos 6 caracteres",
	"age.gte":                 "La edad no puede ser negativa",
	"age.lte":                 "La edad no puede ser mayor a 18 años",
}

// UniqueMessages maps store columns to the messages used when a unique
// constraint rejects a row. Keyed by column name, valued as field + message.
var UniqueMessages = map[string]FieldError{
	"email":           {Field: "email", Message: "Este correo electrónico ya está registrado"},
	"document_number": {Field: "documentNumber", Message: "Este número de documento ya está registrado"},
	"code":            {Field: "code", Message: "Este código ya está en uso"},
}

type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json names so errors match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	esLocale := es.New()
	uni := ut.New(esLocale, esLocale)
	trans, ok := uni.GetTranslator("es")
	if !ok {
		return nil, errors.New("validate: es translator not found")
	}

	if err := estranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	return &Validator{v: v, trans: trans}, nil
}

// Struct validates s and returns every field error, not just the first.
// A nil return means the value is valid.
func (va *Validator) Struct(s any) []FieldError {
	err := va.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: va.messageFor(fe),
		})
	}
	return out
}

func (va *Validator) messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fe.Translate(va.trans)
}
