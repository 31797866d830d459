package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/colegiolink/enrollment/internal/enrollment/service"
	"github.com/colegiolink/enrollment/internal/enrollment/store"
	"github.com/colegiolink/enrollment/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestCheckCode(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newRegistrationService(t, st, newRecordingMailer())

	seedCode(t, st, "ABC123")

	t.Run("unused code is valid", func(t *testing.T) {
		require.NoError(t, svc.CheckCode(ctx, "ABC123"))
	})

	t.Run("unknown code is rejected", func(t *testing.T) {
		require.ErrorIs(t, svc.CheckCode(ctx, "NOPE"), service.ErrInvalidOrUsedCode)
	})

	t.Run("empty code is rejected", func(t *testing.T) {
		require.ErrorIs(t, svc.CheckCode(ctx, "  "), service.ErrInvalidOrUsedCode)
	})
}

func TestRegisterHappyPath(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	mailer := newRecordingMailer()
	svc := newRegistrationService(t, st, mailer)

	seedCode(t, st, "ABC123")

	result, err := svc.Register(ctx, validParent(), validChild(), "ABC123")
	require.NoError(t, err)
	require.NotEmpty(t, result.SessionToken)
	require.Equal(t, "ana@example.com", result.Parent.Email)
	require.False(t, result.Parent.IsEmailVerified)

	// Session token carries the registration claim shape.
	claims, err := jwtx.NewVerifier(testSecret, testIssuer).Verify(result.SessionToken)
	require.NoError(t, err)
	require.Equal(t, result.Parent.ID, claims.ParentID)
	require.Equal(t, "ana@example.com", claims.Email)
	require.Empty(t, claims.UserID)

	// Child was linked to the parent.
	children, err := st.Children().ListChildrenByParent(ctx, result.Parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, "Luis", children[0].FirstName)
	require.Equal(t, 7, children[0].Age)

	// Code is consumed and no longer active.
	_, err = st.Codes().GetActiveCode(ctx, "ABC123")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, svc.CheckCode(ctx, "ABC123"), service.ErrInvalidOrUsedCode)

	// Verification mail went to the parent with an embedded token.
	mail := mailer.waitForSend(t)
	require.Equal(t, "ana@example.com", mail.To)
	require.Contains(t, mail.URL, "http://localhost:3000/verify-email/")

	verifyToken := strings.TrimPrefix(mail.URL, "http://localhost:3000/verify-email/")
	vclaims, err := jwtx.NewVerifier(testSecret, testIssuer).Verify(verifyToken)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", vclaims.Email)
	require.Empty(t, vclaims.ParentID)
}

func TestRegisterRejectsUsedCode(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	mailer := newRecordingMailer()
	svc := newRegistrationService(t, st, mailer)

	seedCode(t, st, "ABC123")

	_, err := svc.Register(ctx, validParent(), validChild(), "ABC123")
	require.NoError(t, err)
	mailer.waitForSend(t)

	second := validParent()
	second.DocumentNumber = "99999999"
	second.Email = "otra@example.com"
	secondChild := validChild()
	secondChild.DocumentNumber = "88888888"

	_, err = svc.Register(ctx, second, secondChild, "ABC123")
	require.ErrorIs(t, err, service.ErrInvalidOrUsedCode)

	// Nothing from the failed attempt was persisted.
	_, err = st.Parents().GetParentByEmail(ctx, "otra@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegisterCollectsAllFieldErrors(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newRegistrationService(t, st, newRecordingMailer())

	seedCode(t, st, "ABC123")

	parent := service.ParentData{Email: "broken", Password: "ab"}
	child := service.ChildData{Age: 19}

	_, err := svc.Register(ctx, parent, child, "ABC123")

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make(map[string]string, len(verr.Fields))
	for _, fe := range verr.Fields {
		fields[fe.Field] = fe.Message
	}

	require.Equal(t, "Por favor, introduce un correo electrónico válido", fields["email"])
	require.Equal(t, "La contraseña debe tener al menos 6 caracteres", fields["password"])
	require.Equal(t, "La edad no puede ser mayor a 18 años", fields["age"])
	require.Contains(t, fields, "firstName")
	require.Contains(t, fields, "documentNumber")

	// Validation failures must not consume the code.
	require.NoError(t, svc.CheckCode(ctx, "ABC123"))
}

func TestRegisterChildAgeBoundaries(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	mailer := newRecordingMailer()
	svc := newRegistrationService(t, st, mailer)

	t.Run("0 and 18 accepted", func(t *testing.T) {
		for i, age := range []int{0, 18} {
			code := "AGEOK" + string(rune('0'+i))
			seedCode(t, st, code)

			parent := validParent()
			parent.DocumentNumber = "1000000" + string(rune('0'+i))
			parent.Email = parent.DocumentNumber + "@example.com"
			child := validChild()
			child.DocumentNumber = "2000000" + string(rune('0'+i))
			child.Age = age

			_, err := svc.Register(ctx, parent, child, code)
			require.NoError(t, err, "age %d must register", age)
			mailer.waitForSend(t)
		}
	})

	t.Run("-1 and 19 rejected", func(t *testing.T) {
		seedCode(t, st, "AGEBAD")

		for _, age := range []int{-1, 19} {
			child := validChild()
			child.Age = age

			_, err := svc.Register(ctx, validParent(), child, "AGEBAD")

			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr, "age %d must be rejected", age)
			require.Len(t, verr.Fields, 1)
			require.Equal(t, "age", verr.Fields[0].Field)
		}
	})
}

func TestRegisterReportsUniqueViolationsPerField(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	mailer := newRecordingMailer()
	svc := newRegistrationService(t, st, mailer)

	seedCode(t, st, "FIRST1")
	seedCode(t, st, "SECOND")

	_, err := svc.Register(ctx, validParent(), validChild(), "FIRST1")
	require.NoError(t, err)
	mailer.waitForSend(t)

	// Same parent email again on a fresh code.
	dup := validParent()
	dup.DocumentNumber = "55555555"
	dupChild := validChild()
	dupChild.DocumentNumber = "66666666"

	_, err = svc.Register(ctx, dup, dupChild, "SECOND")

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	require.Equal(t, "email", verr.Fields[0].Field)
	require.Equal(t, "Este correo electrónico ya está registrado", verr.Fields[0].Message)

	// The failed attempt rolled back the code consumption too.
	require.NoError(t, svc.CheckCode(ctx, "SECOND"))
}

func TestConcurrentRedemptionConsumesCodeOnce(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	mailer := newRecordingMailer()
	svc := newRegistrationService(t, st, mailer)

	seedCode(t, st, "RACE01")

	const attempts = 2
	results := make([]error, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			parent := validParent()
			parent.DocumentNumber = "3000000" + string(rune('0'+i))
			parent.Email = parent.DocumentNumber + "@example.com"
			child := validChild()
			child.DocumentNumber = "4000000" + string(rune('0'+i))

			_, results[i] = svc.Register(ctx, parent, child, "RACE01")
		}()
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			// The loser must see the domain rejection, not a driver error.
			require.ErrorIs(t, err, service.ErrInvalidOrUsedCode)
			rejected++
		}
	}

	require.Equal(t, 1, succeeded, "exactly one redemption must win")
	require.Equal(t, 1, rejected)
}
