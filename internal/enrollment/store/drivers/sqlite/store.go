package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/colegiolink/enrollment/internal/enrollment/store"

	_ "modernc.org/sqlite"
)

// dbtx is the subset of *sql.DB and *sql.Tx the repositories need, so the
// same repo types serve both the plain store and transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	// DSN pragmas apply to every connection the pool opens; a one-shot
	// PRAGMA exec would only configure whichever connection served it.
	// The busy timeout makes racing writers queue instead of failing,
	// which the single-use code redemption depends on.
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	wrapped := newTx(tx)

	// Rollback if fn errors or panics; safe to call after commit.
	defer func() {
		_ = wrapped.Rollback()
	}()

	if err := fn(wrapped); err != nil {
		return err
	}

	return wrapped.Commit()
}

func (s *Store) Parents() store.Parents   { return &parentsRepo{db: s.db} }
func (s *Store) Children() store.Children { return &childrenRepo{db: s.db} }
func (s *Store) Codes() store.Codes       { return &codesRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns sqlite's textual unique-violation errors into
// store.UniqueViolationError carrying the offending column. modernc/sqlite
// reports them as "UNIQUE constraint failed: <table>.<column>".
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}

	const marker = "UNIQUE constraint failed: "
	msg := err.Error()
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return err
	}

	target := msg[idx+len(marker):]
	if end := strings.IndexAny(target, " ,("); end > 0 {
		target = target[:end]
	}
	if dot := strings.LastIndex(target, "."); dot >= 0 {
		target = target[dot+1:]
	}

	return &store.UniqueViolationError{Column: target}
}
