package domain

import "time"

type Child struct {
	ID             string
	FirstName      string
	LastName       string
	Age            int    // 0..18 inclusive
	DocumentNumber string // Globally unique
	ParentID       string // Foreign key to parents table
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
