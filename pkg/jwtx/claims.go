package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the enrollment flows. These can be
// overridden per-service via configuration.
const (
	// DefaultSessionTTL is the lifetime of the session token issued at
	// registration.
	DefaultSessionTTL = 24 * time.Hour

	// DefaultLoginTTL is the lifetime of the session token issued at login.
	// Intentionally shorter than the registration token.
	DefaultLoginTTL = time.Hour

	// DefaultVerificationTTL is the lifetime of the email-verification token.
	DefaultVerificationTTL = 12 * time.Hour
)

// Claims covers the three token shapes this service issues. The shapes are
// intentionally divergent (the original API contract): registration session
// tokens carry "id" and "email", login tokens carry "userId" only, and
// email-verification tokens carry "email" only. Callers must not assume a
// uniform shape.
type Claims struct {
	jwt.RegisteredClaims

	// ParentID is set on registration session tokens.
	ParentID string `json:"id,omitempty"`

	// UserID is set on login session tokens.
	UserID string `json:"userId,omitempty"`

	// Email is set on registration session tokens and verification tokens.
	Email string `json:"email,omitempty"`
}

// NewSessionClaims builds the claims for the token returned by /register.
func NewSessionClaims(parentID, email, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(issuer, ttl, now),
		ParentID:         parentID,
		Email:            email,
	}
}

// NewLoginClaims builds the claims for the token returned by /login.
func NewLoginClaims(userID, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(issuer, ttl, now),
		UserID:           userID,
	}
}

// NewVerificationClaims builds the claims embedded in the email
// verification link. It is bound to the email address, not the parent ID.
func NewVerificationClaims(email, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(issuer, ttl, now),
		Email:            email,
	}
}

func registered(issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}
