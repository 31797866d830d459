package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/colegiolink/enrollment/internal/enrollment/domain"
)

var ErrNotFound = errors.New("store: not found")

// UniqueViolationError reports a unique-constraint failure along with the
// column that caused it, so callers can surface a field-scoped error
// instead of a generic one.
type UniqueViolationError struct {
	Column string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("store: unique constraint violated on %s", e.Column)
}

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Parents() Parents
	Children() Children
	Codes() Codes

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Multi-step
	// mutations (code redemption + parent/child creation) must go through
	// this so no partial state survives a failure.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos but adds
// Commit/Rollback.
type Tx interface {
	Parents() Parents
	Children() Children
	Codes() Codes

	Commit() error
	Rollback() error
}

type Parents interface {
	// GetParentByID returns a parent by id.
	GetParentByID(ctx context.Context, id string) (domain.Parent, error)

	// GetParentByDocumentNumber is used during login.
	GetParentByDocumentNumber(ctx context.Context, documentNumber string) (domain.Parent, error)

	// GetParentByEmail is used during email verification.
	GetParentByEmail(ctx context.Context, email string) (domain.Parent, error)

	// CreateParent inserts a new parent (id is provided by app via ULID).
	// Returns *UniqueViolationError when email or document_number collide.
	CreateParent(ctx context.Context, p domain.Parent) error

	// MarkEmailVerified sets is_email_verified and bumps updated_at.
	// Idempotent: verifying an already-verified parent is not an error.
	MarkEmailVerified(ctx context.Context, parentID string) error
}

type Children interface {
	// CreateChild inserts a new child linked to its parent.
	// Returns *UniqueViolationError when document_number collides.
	CreateChild(ctx context.Context, c domain.Child) error

	// ListChildrenByParent returns all children owned by a parent.
	ListChildrenByParent(ctx context.Context, parentID string) ([]domain.Child, error)
}

type Codes interface {
	// CreateCode mints a new registration code (seed/admin path).
	CreateCode(ctx context.Context, c domain.RegistrationCode) error

	// GetActiveCode returns the code row iff it exists and is unused.
	// This is the read-only variant of the redeem-if-unused primitive,
	// used by the pre-flight /verify-code check.
	GetActiveCode(ctx context.Context, code string) (domain.RegistrationCode, error)

	// MarkCodeUsed conditionally flips is_used on an unused code and
	// records who consumed it. Returns ErrNotFound when the code is absent
	// or already used, which is what makes concurrent redemption safe:
	// the predicate and the write are a single statement.
	MarkCodeUsed(ctx context.Context, code string, usedByParentID string) error
}
