package sqlite

import (
	"context"

	"github.com/colegiolink/enrollment/internal/enrollment/domain"
)

type childrenRepo struct {
	db dbtx
}

func (r *childrenRepo) CreateChild(ctx context.Context, c domain.Child) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO children (id, first_name, last_name, age, document_number, parent_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.FirstName, c.LastName, c.Age, c.DocumentNumber, c.ParentID,
	)
	return mapConstraint(err)
}

func (r *childrenRepo) ListChildrenByParent(
	ctx context.Context,
	parentID string,
) ([]domain.Child, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, age, document_number, parent_id, created_at, updated_at
		 FROM children WHERE parent_id = ? ORDER BY created_at`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Child
	for rows.Next() {
		var c domain.Child
		if err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Age, &c.DocumentNumber,
			&c.ParentID, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}
