package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/colegiolink/enrollment/internal/enrollment/domain"
	"github.com/colegiolink/enrollment/internal/enrollment/store"
	"github.com/colegiolink/enrollment/internal/enrollment/validate"
	"github.com/colegiolink/enrollment/pkg/cryptox"
	"github.com/colegiolink/enrollment/pkg/idx"
	"github.com/colegiolink/enrollment/pkg/jwtx"
	"github.com/colegiolink/enrollment/pkg/slogx"
)

var ErrInvalidOrUsedCode = errors.New("registration code invalid or already used")

// ValidationError aggregates every field-scoped failure of a registration
// payload so callers can return them together.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ParentData is the parent portion of a registration request.
type ParentData struct {
	FirstName      string `json:"firstName"      validate:"required"`
	LastName       string `json:"lastName"       validate:"required"`
	DocumentNumber string `json:"documentNumber" validate:"required"`
	PhoneNumber    string `json:"phoneNumber"    validate:"required"`
	Email          string `json:"email"          validate:"required,email"`
	Password       string `json:"password"       validate:"required,min=6,max=100"`
}

// ChildData is the child portion of a registration request.
type ChildData struct {
	FirstName      string `json:"firstName"      validate:"required"`
	LastName       string `json:"lastName"       validate:"required"`
	Age            int    `json:"age"            validate:"gte=0,lte=18"`
	DocumentNumber string `json:"documentNumber" validate:"required"`
}

// RegistrationResult is what a successful registration hands back: the
// created parent and the session token for immediate use.
type RegistrationResult struct {
	Parent       domain.Parent
	SessionToken string
}

// Mailer is the one mail capability registration needs. The SMTP
// implementation lives in internal/enrollment/mail; tests inject a recorder.
type Mailer interface {
	SendVerification(to, verificationURL string) error
}

type RegistrationService struct {
	Store     store.Store
	Validator *validate.Validator
	Signer    *jwtx.Signer
	Mailer    Mailer

	Issuer          string
	VerifyBaseURL   string // Base URL the verification link is built on
	SessionTTL      time.Duration
	VerificationTTL time.Duration
}

// CheckCode is the stateless pre-flight check: does an unused code with
// this value exist? It has no side effects and is NOT the gate the
// registration transaction relies on — Register re-checks atomically.
func (s *RegistrationService) CheckCode(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrInvalidOrUsedCode
	}

	_, err := s.Store.Codes().GetActiveCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOrUsedCode
		}
		return err
	}
	return nil
}

// Register redeems a registration code and creates the linked parent and
// child records. Either all of {code consumed, parent created, child
// created} commit, or none do. The verification email is dispatched after
// commit and never affects the outcome.
func (s *RegistrationService) Register(
	ctx context.Context,
	parentData ParentData,
	childData ChildData,
	code string,
) (RegistrationResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Cheap pre-flight on the code before any expensive work.
	if err := s.CheckCode(ctx, code); err != nil {
		return RegistrationResult{}, err
	}

	// 2. Validate both payloads, collecting every field error.
	fields := s.Validator.Struct(parentData)
	fields = append(fields, s.Validator.Struct(childData)...)
	if len(fields) > 0 {
		return RegistrationResult{}, &ValidationError{Fields: fields}
	}

	// 3. Hash the password before opening the transaction; argon2 is slow
	// on purpose and must not hold a write transaction open.
	passwordHash, err := cryptox.HashPassword(parentData.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return RegistrationResult{}, err
	}

	parent := domain.Parent{
		ID:             idx.New().String(),
		FirstName:      parentData.FirstName,
		LastName:       parentData.LastName,
		DocumentNumber: parentData.DocumentNumber,
		PhoneNumber:    parentData.PhoneNumber,
		Email:          parentData.Email,
		PasswordHash:   passwordHash,
	}
	child := domain.Child{
		ID:             idx.New().String(),
		FirstName:      childData.FirstName,
		LastName:       childData.LastName,
		Age:            childData.Age,
		DocumentNumber: childData.DocumentNumber,
		ParentID:       parent.ID,
	}

	// 4. One transaction: consume the code, create parent, create child.
	// MarkCodeUsed's unused predicate is the authoritative redemption gate;
	// of two racing registrations exactly one sees a row flip.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Codes().MarkCodeUsed(ctx, code, parent.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidOrUsedCode
			}
			return err
		}

		if err := tx.Parents().CreateParent(ctx, parent); err != nil {
			return mapUniqueViolation(err)
		}

		if err := tx.Children().CreateChild(ctx, child); err != nil {
			return mapUniqueViolation(err)
		}

		return nil
	})
	if err != nil {
		return RegistrationResult{}, err
	}

	now := time.Now().UTC()

	sessionToken, err := s.Signer.Sign(
		jwtx.NewSessionClaims(parent.ID, parent.Email, s.Issuer, s.SessionTTL, now),
	)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return RegistrationResult{}, err
	}

	verificationToken, err := s.Signer.Sign(
		jwtx.NewVerificationClaims(parent.Email, s.Issuer, s.VerificationTTL, now),
	)
	if err != nil {
		log.Error("failed to sign verification token", slog.Any("error", err))
		return RegistrationResult{}, err
	}

	// 5. Best-effort mail dispatch; the registration already committed, so
	// mail latency or failure must not touch the response.
	s.dispatchVerification(log, parent.Email, verificationToken)

	log.Info("parent registered",
		slog.String("parent_id", parent.ID),
		slog.String("child_id", child.ID),
	)

	return RegistrationResult{Parent: parent, SessionToken: sessionToken}, nil
}

func (s *RegistrationService) dispatchVerification(log *slog.Logger, email, token string) {
	url := strings.TrimRight(s.VerifyBaseURL, "/") + "/verify-email/" + token

	go func() {
		if err := s.Mailer.SendVerification(email, url); err != nil {
			log.Error("failed to send verification email", slog.Any("error", err))
		}
	}()
}

// mapUniqueViolation translates store unique-constraint failures into the
// same field-scoped shape as payload validation errors.
func mapUniqueViolation(err error) error {
	var uv *store.UniqueViolationError
	if !errors.As(err, &uv) {
		return err
	}

	if fe, ok := validate.UniqueMessages[uv.Column]; ok {
		return &ValidationError{Fields: []validate.FieldError{fe}}
	}
	return &ValidationError{Fields: []validate.FieldError{{
		Field:   uv.Column,
		Message: "Este valor ya está registrado",
	}}}
}
