package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/colegiolink/enrollment/internal/enrollment/service"
	"github.com/colegiolink/enrollment/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	mailer := newRecordingMailer()
	reg := newRegistrationService(t, st, mailer)
	ver := &service.VerificationService{
		Store:    st,
		Verifier: jwtx.NewVerifier(testSecret, testIssuer),
	}

	seedCode(t, st, "ABC123")
	result, err := reg.Register(ctx, validParent(), validChild(), "ABC123")
	require.NoError(t, err)

	mail := mailer.waitForSend(t)
	token := mail.URL[strings.LastIndex(mail.URL, "/")+1:]

	t.Run("marks the parent verified", func(t *testing.T) {
		require.NoError(t, ver.VerifyEmail(ctx, token))

		parent, err := st.Parents().GetParentByID(ctx, result.Parent.ID)
		require.NoError(t, err)
		require.True(t, parent.IsEmailVerified)
	})

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, ver.VerifyEmail(ctx, token))

		parent, err := st.Parents().GetParentByID(ctx, result.Parent.ID)
		require.NoError(t, err)
		require.True(t, parent.IsEmailVerified)
	})

	t.Run("rejects tampered tokens", func(t *testing.T) {
		forged := jwtx.NewSigner("other-secret", testIssuer)
		bad, err := forged.Sign(jwtx.NewVerificationClaims(
			"ana@example.com", testIssuer, time.Hour, time.Now().UTC(),
		))
		require.NoError(t, err)

		require.ErrorIs(t, ver.VerifyEmail(ctx, bad), service.ErrInvalidToken)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		signer := jwtx.NewSigner(testSecret, testIssuer)
		expired, err := signer.Sign(jwtx.NewVerificationClaims(
			"ana@example.com", testIssuer, time.Minute, time.Now().UTC().Add(-time.Hour),
		))
		require.NoError(t, err)

		require.ErrorIs(t, ver.VerifyEmail(ctx, expired), service.ErrInvalidToken)
	})

	t.Run("rejects tokens for unknown parents", func(t *testing.T) {
		signer := jwtx.NewSigner(testSecret, testIssuer)
		orphan, err := signer.Sign(jwtx.NewVerificationClaims(
			"nadie@example.com", testIssuer, time.Hour, time.Now().UTC(),
		))
		require.NoError(t, err)

		require.ErrorIs(t, ver.VerifyEmail(ctx, orphan), service.ErrUnknownParent)
	})

	t.Run("rejects login tokens", func(t *testing.T) {
		signer := jwtx.NewSigner(testSecret, testIssuer)
		login, err := signer.Sign(jwtx.NewLoginClaims(
			result.Parent.ID, testIssuer, time.Hour, time.Now().UTC(),
		))
		require.NoError(t, err)

		require.ErrorIs(t, ver.VerifyEmail(ctx, login), service.ErrInvalidToken)
	})
}
