package sqlite

import (
	"database/sql"

	"github.com/colegiolink/enrollment/internal/enrollment/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Parents() store.Parents   { return &parentsRepo{db: t.tx} }
func (t *txStore) Children() store.Children { return &childrenRepo{db: t.tx} }
func (t *txStore) Codes() store.Codes       { return &codesRepo{db: t.tx} }
