package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/colegiolink/enrollment/internal/enrollment/store"
	"github.com/colegiolink/enrollment/pkg/cryptox"
	"github.com/colegiolink/enrollment/pkg/jwtx"
	"github.com/colegiolink/enrollment/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
)

type AuthService struct {
	Store  store.Store
	Signer *jwtx.Signer

	Issuer   string
	LoginTTL time.Duration
}

// Login exchanges (documentNumber, password) for a short-lived session
// token. Unknown document numbers and wrong passwords are indistinguishable
// to the caller.
func (s *AuthService) Login(
	ctx context.Context,
	documentNumber string,
	password string,
) (string, error) {
	log := slogx.FromContext(ctx)

	parent, err := s.Store.Parents().GetParentByDocumentNumber(ctx, documentNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		log.Error("failed to fetch parent", slog.Any("error", err))
		return "", err
	}

	if err := cryptox.VerifyPassword(password, parent.PasswordHash); err != nil {
		log.Warn("login attempt with wrong password",
			slog.String("parent_id", parent.ID),
		)
		return "", ErrInvalidCredentials
	}

	if !parent.IsEmailVerified {
		return "", ErrEmailNotVerified
	}

	token, err := s.Signer.Sign(
		jwtx.NewLoginClaims(parent.ID, s.Issuer, s.LoginTTL, time.Now().UTC()),
	)
	if err != nil {
		log.Error("failed to sign login token", slog.Any("error", err))
		return "", err
	}

	log.Info("parent logged in", slog.String("parent_id", parent.ID))

	return token, nil
}
