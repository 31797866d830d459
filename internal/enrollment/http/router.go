package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/colegiolink/enrollment/internal/enrollment/service"
	"github.com/colegiolink/enrollment/internal/enrollment/store"
	"github.com/colegiolink/enrollment/pkg/httpx"
	"github.com/colegiolink/enrollment/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	RegistrationService *service.RegistrationService
	AuthService         *service.AuthService
	VerificationService *service.VerificationService
}

func NewRouter(
	buildVersion string,
	allowedOrigins []string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(allowedOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerEnrollment()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerEnrollment() {
	r.Mux.Handle("POST /verify-code", &VerifyCodeHandler{
		RegistrationService: r.RegistrationService,
	})
	r.Mux.Handle("POST /register", &RegisterHandler{
		RegistrationService: r.RegistrationService,
	})
	r.Mux.Handle("POST /login", &LoginHandler{
		AuthService: r.AuthService,
	})
	r.Mux.Handle("GET /verify-email/{token}", &VerifyEmailHandler{
		VerificationService: r.VerificationService,
	})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
