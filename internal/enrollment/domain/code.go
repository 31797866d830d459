package domain

import "time"

// RegistrationCode is a single-use invite gating account creation. Rows are
// minted out-of-band, flipped to used exactly once, and never deleted.
type RegistrationCode struct {
	ID        string
	Code      string // Unique invite value handed to the parent
	IsUsed    bool
	UsedBy    string // Parent ID that consumed the code, empty until used
	CreatedAt time.Time
	UpdatedAt time.Time
}
