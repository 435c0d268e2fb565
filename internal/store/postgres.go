package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Breezy-Bae/ddl.github.io/internal/sqlutil"
)

// maxTxAttempts bounds how often a serialization loser is re-run before the
// conflict surfaces to the caller as ErrConflict.
const maxTxAttempts = 5

// querier is satisfied by both *sql.DB and *sql.Tx so the query helpers serve
// transactional and snapshot reads alike.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the Postgres-backed document store. All transactions run at
// SERIALIZABLE so concurrent read-modify-write cycles on the same documents
// cannot lose updates; losers are retried whole.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ UnitOfWork = (*Store)(nil)

// Atomic implements UnitOfWork.
func (s *Store) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = sqlutil.Run(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(tx *sql.Tx) error {
			return fn(&pgTx{q: tx})
		})
		if err == nil || !sqlutil.IsRetryable(err) {
			return err
		}

		log.Debug().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: %v", ErrConflict, err)
}

// pgTx exposes the document surface bound to one open transaction.
type pgTx struct {
	q querier
}

var _ Tx = (*pgTx)(nil)
