package sqlite

import (
	"context"

	"github.com/colegiolink/enrollment/internal/enrollment/domain"
	"github.com/colegiolink/enrollment/internal/enrollment/store"
)

type codesRepo struct {
	db dbtx
}

func (r *codesRepo) CreateCode(ctx context.Context, c domain.RegistrationCode) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO registration_codes (id, code, is_used) VALUES (?, ?, ?)`,
		c.ID, c.Code, c.IsUsed,
	)
	return mapConstraint(err)
}

func (r *codesRepo) GetActiveCode(
	ctx context.Context,
	code string,
) (domain.RegistrationCode, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, code, is_used, COALESCE(used_by, ''), created_at, updated_at
		 FROM registration_codes WHERE code = ? AND is_used = 0`, code)

	var c domain.RegistrationCode
	err := row.Scan(&c.ID, &c.Code, &c.IsUsed, &c.UsedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.RegistrationCode{}, mapNotFound(err)
	}
	return c, nil
}

// MarkCodeUsed is the redeem-if-unused primitive: the unused predicate and
// the flip happen in one statement, so two racing redemptions cannot both
// observe is_used = 0.
func (r *codesRepo) MarkCodeUsed(ctx context.Context, code string, usedByParentID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE registration_codes
		 SET is_used = 1, used_by = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE code = ? AND is_used = 0`,
		usedByParentID, code,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
