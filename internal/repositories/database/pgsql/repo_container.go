package pgsql

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerStore composes the per-table repositories into one LedgerStore.
type PgxLedgerStore struct {
	*PgxAccountRepository
	*PgxTransactionRepository
	*reportingRepository
	*PgxSuggestionRepository
	base BaseRepository
}

var _ portsrepo.LedgerStore = (*PgxLedgerStore)(nil)

func newStore(pool *pgxpool.Pool, db dbtx, inTx bool) *PgxLedgerStore {
	base := BaseRepository{Pool: pool, db: db, inTx: inTx}
	return &PgxLedgerStore{
		PgxAccountRepository:     &PgxAccountRepository{BaseRepository: base},
		PgxTransactionRepository: &PgxTransactionRepository{BaseRepository: base},
		reportingRepository:      &reportingRepository{BaseRepository: base},
		PgxSuggestionRepository:  &PgxSuggestionRepository{BaseRepository: base},
		base:                     base,
	}
}

// NewLedgerStore creates a Postgres-backed LedgerStore on the pool.
func NewLedgerStore(dbPool *pgxpool.Pool) *PgxLedgerStore {
	return newStore(dbPool, dbPool, false)
}

// WithinTx runs fn inside one database transaction. Any error from fn rolls
// the whole transaction back.
func (s *PgxLedgerStore) WithinTx(ctx context.Context, fn func(tx portsrepo.Store) error) error {
	tx, err := s.base.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.base.Rollback(ctx, tx) // no-op after a successful commit

	if err := fn(newStore(s.base.Pool, tx, true)); err != nil {
		return err
	}
	return s.base.Commit(ctx, tx)
}

// ReadSnapshot runs fn inside a read-only REPEATABLE READ transaction, so
// every statement fn issues sees the same snapshot.
func (s *PgxLedgerStore) ReadSnapshot(ctx context.Context, fn func(tx portsrepo.Store) error) error {
	tx, err := s.base.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin read snapshot", err)
	}
	defer s.base.Rollback(ctx, tx) // no-op after a successful commit

	if err := fn(newStore(s.base.Pool, tx, false)); err != nil {
		return err
	}
	return s.base.Commit(ctx, tx)
}
