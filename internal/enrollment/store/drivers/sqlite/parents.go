package sqlite

import (
	"context"

	"github.com/colegiolink/enrollment/internal/enrollment/domain"
)

type parentsRepo struct {
	db dbtx
}

const parentColumns = `id, first_name, last_name, document_number, phone_number, email, password_hash, is_email_verified, created_at, updated_at`

func (r *parentsRepo) GetParentByID(ctx context.Context, id string) (domain.Parent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+parentColumns+` FROM parents WHERE id = ?`, id)
	return scanParent(row)
}

func (r *parentsRepo) GetParentByDocumentNumber(
	ctx context.Context,
	documentNumber string,
) (domain.Parent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+parentColumns+` FROM parents WHERE document_number = ?`, documentNumber)
	return scanParent(row)
}

func (r *parentsRepo) GetParentByEmail(ctx context.Context, email string) (domain.Parent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+parentColumns+` FROM parents WHERE email = ?`, email)
	return scanParent(row)
}

func (r *parentsRepo) CreateParent(ctx context.Context, p domain.Parent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO parents (id, first_name, last_name, document_number, phone_number, email, password_hash, is_email_verified)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FirstName, p.LastName, p.DocumentNumber, p.PhoneNumber,
		p.Email, p.PasswordHash, p.IsEmailVerified,
	)
	return mapConstraint(err)
}

func (r *parentsRepo) MarkEmailVerified(ctx context.Context, parentID string) error {
	// No is_email_verified predicate: verifying twice is fine.
	_, err := r.db.ExecContext(ctx,
		`UPDATE parents SET is_email_verified = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		parentID,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParent(row rowScanner) (domain.Parent, error) {
	var p domain.Parent
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.DocumentNumber, &p.PhoneNumber,
		&p.Email, &p.PasswordHash, &p.IsEmailVerified, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Parent{}, mapNotFound(err)
	}
	return p, nil
}
