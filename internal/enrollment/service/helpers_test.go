package service_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/colegiolink/enrollment/internal/enrollment/domain"
	"github.com/colegiolink/enrollment/internal/enrollment/service"
	"github.com/colegiolink/enrollment/internal/enrollment/store/drivers/sqlite"
	"github.com/colegiolink/enrollment/internal/enrollment/validate"
	"github.com/colegiolink/enrollment/pkg/cryptox"
	"github.com/colegiolink/enrollment/pkg/idx"
	"github.com/colegiolink/enrollment/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "service-test-secret"
	testIssuer = "enrollment-test"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}

	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "enrollment.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// recordingMailer captures dispatches and signals on a channel so tests can
// wait for the fire-and-forget goroutine.
type recordingMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	sendC chan struct{}
	err   error
}

type sentMail struct {
	To  string
	URL string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sendC: make(chan struct{}, 16)}
}

func (m *recordingMailer) SendVerification(to, url string) error {
	m.mu.Lock()
	m.sent = append(m.sent, sentMail{To: to, URL: url})
	err := m.err
	m.mu.Unlock()

	m.sendC <- struct{}{}
	return err
}

func (m *recordingMailer) waitForSend(t *testing.T) sentMail {
	t.Helper()
	select {
	case <-m.sendC:
	case <-time.After(5 * time.Second):
		t.Fatal("verification email was never dispatched")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func newRegistrationService(t *testing.T, st *sqlite.Store, mailer service.Mailer) *service.RegistrationService {
	t.Helper()

	v, err := validate.New()
	require.NoError(t, err)

	return &service.RegistrationService{
		Store:           st,
		Validator:       v,
		Signer:          jwtx.NewSigner(testSecret, testIssuer),
		Mailer:          mailer,
		Issuer:          testIssuer,
		VerifyBaseURL:   "http://localhost:3000",
		SessionTTL:      jwtx.DefaultSessionTTL,
		VerificationTTL: jwtx.DefaultVerificationTTL,
	}
}

func seedCode(t *testing.T, st *sqlite.Store, code string) {
	t.Helper()
	require.NoError(t, st.Codes().CreateCode(context.Background(), domain.RegistrationCode{
		ID:   idx.New().String(),
		Code: code,
	}))
}

func validParent() service.ParentData {
	return service.ParentData{
		FirstName:      "Ana",
		LastName:       "García",
		DocumentNumber: "12345678",
		PhoneNumber:    "+51 999 888 777",
		Email:          "ana@example.com",
		Password:       "secreta1",
	}
}

func validChild() service.ChildData {
	return service.ChildData{
		FirstName:      "Luis",
		LastName:       "García",
		Age:            7,
		DocumentNumber: "87654321",
	}
}
