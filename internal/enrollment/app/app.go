package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/colegiolink/enrollment/internal/enrollment/http"
	"github.com/colegiolink/enrollment/internal/enrollment/mail"
	"github.com/colegiolink/enrollment/internal/enrollment/service"
	"github.com/colegiolink/enrollment/internal/enrollment/store"
	"github.com/colegiolink/enrollment/internal/enrollment/store/drivers/sqlite"
	"github.com/colegiolink/enrollment/internal/enrollment/validate"
	"github.com/colegiolink/enrollment/pkg/cryptox"
	"github.com/colegiolink/enrollment/pkg/jwtx"
	"github.com/colegiolink/enrollment/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the enrollment service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	registrationService *service.RegistrationService
	authService         *service.AuthService
	verificationService *service.VerificationService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "enrollment-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing and load it before the server
	// takes traffic, so concurrent first registrations share one pepper.
	cryptox.SetPepperPath(app.cfg.PepperFile)
	cryptox.GetPepper()

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("enrollment service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down enrollment service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("enrollment service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	signer := jwtx.NewSigner(app.cfg.TokenSecret, app.cfg.Issuer)

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Username: app.cfg.SMTPUsername,
		Password: app.cfg.SMTPPassword,
		From:     app.cfg.SMTPFrom,
	})

	validator, err := validate.New()
	if err != nil {
		return fmt.Errorf("failed to build validator: %w", err)
	}

	app.registrationService = &service.RegistrationService{
		Store:           app.db,
		Validator:       validator,
		Signer:          signer,
		Mailer:          mailer,
		Issuer:          app.cfg.Issuer,
		VerifyBaseURL:   app.cfg.VerifyBaseURL,
		SessionTTL:      app.cfg.SessionTTL,
		VerificationTTL: app.cfg.VerificationTTL,
	}
	app.authService = &service.AuthService{
		Store:    app.db,
		Signer:   signer,
		Issuer:   app.cfg.Issuer,
		LoginTTL: app.cfg.LoginTTL,
	}
	app.verificationService = &service.VerificationService{
		Store:    app.db,
		Verifier: jwtx.NewVerifier(app.cfg.TokenSecret, app.cfg.Issuer),
	}

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.cfg.AllowedOrigins,
		app.db,
		app.logger,
	)

	router.RegistrationService = app.registrationService
	router.AuthService = app.authService
	router.VerificationService = app.verificationService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
