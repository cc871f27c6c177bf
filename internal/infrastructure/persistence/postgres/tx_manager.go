package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

// TxManager implements port.TxManager on a pgx pool. The transaction rides in
// the context handed to fn, where the repositories pick it up.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager on the pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

// RunInTx executes fn inside a single transaction.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return pgdb.WithTransaction(ctx, m.pool, fn)
}
