package domain

import "time"

type Parent struct {
	ID              string
	FirstName       string
	LastName        string
	DocumentNumber  string // Globally unique
	PhoneNumber     string
	Email           string // Globally unique
	PasswordHash    string // argon2 encoded, never plaintext
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
