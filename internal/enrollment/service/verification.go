package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/colegiolink/enrollment/internal/enrollment/store"
	"github.com/colegiolink/enrollment/pkg/jwtx"
	"github.com/colegiolink/enrollment/pkg/slogx"
)

var (
	ErrInvalidToken  = errors.New("invalid verification token")
	ErrUnknownParent = errors.New("no parent for verification token")
)

type VerificationService struct {
	Store    store.Store
	Verifier *jwtx.Verifier
}

// VerifyEmail marks the parent named by the token as verified. Within the
// token's validity window the operation is idempotent: verifying an
// already-verified parent succeeds again.
func (s *VerificationService) VerifyEmail(ctx context.Context, token string) error {
	log := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		log.Warn("email verification with bad token", slog.Any("error", err))
		return ErrInvalidToken
	}

	if claims.Email == "" {
		// Login tokens carry no email and cannot verify anything.
		return ErrInvalidToken
	}

	parent, err := s.Store.Parents().GetParentByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownParent
		}
		log.Error("failed to fetch parent", slog.Any("error", err))
		return err
	}

	if err := s.Store.Parents().MarkEmailVerified(ctx, parent.ID); err != nil {
		log.Error("failed to mark email verified",
			slog.String("parent_id", parent.ID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("email verified", slog.String("parent_id", parent.ID))

	return nil
}
