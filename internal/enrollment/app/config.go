package app

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Issuer      string `env:"ENROLLMENT_ISSUER"       envDefault:"colegiolink-enrollment"`
	TokenSecret string `env:"ENROLLMENT_TOKEN_SECRET"` // Required: HS256 signing secret

	// Base URL the emailed verification link points at; usually the public
	// frontend, which forwards the token to GET /verify-email/{token}.
	VerifyBaseURL  string   `env:"ENROLLMENT_VERIFY_BASE_URL" envDefault:"http://localhost:8080"`
	AllowedOrigins []string `env:"ENROLLMENT_ALLOWED_ORIGINS" envSeparator:","`

	DatabaseFile string `env:"ENROLLMENT_DATABASE_FILE" envDefault:"enrollment.db"`
	PepperFile   string `env:"ENROLLMENT_PEPPER_FILE"   envDefault:"pepper"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	SessionTTL      time.Duration `env:"ENROLLMENT_SESSION_TTL"      envDefault:"24h"`
	LoginTTL        time.Duration `env:"ENROLLMENT_LOGIN_TTL"        envDefault:"1h"`
	VerificationTTL time.Duration `env:"ENROLLMENT_VERIFICATION_TTL" envDefault:"12h"`

	Env                 string        `env:"ENV"                   envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if cfg.TokenSecret == "" {
		return Config{}, errors.New("ENROLLMENT_TOKEN_SECRET is required")
	}

	return cfg, nil
}
