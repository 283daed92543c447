package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/antifraude-api/internal/application/admin"
	"github.com/jhoicas/antifraude-api/internal/application/intake"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

// Ensure TxRunner implements intake.SequenceTxRunner and admin.AdminTxRunner.
var _ intake.SequenceTxRunner = (*TxRunner)(nil)
var _ admin.AdminTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera de
// SELECT ... FOR UPDATE dentro de cada transacción (SET LOCAL lock_timeout).
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// RunSequence inicia una transacción, ejecuta fn con el repo de consecutivos atado a la tx
// y hace Commit o Rollback.
func (r *TxRunner) RunSequence(ctx context.Context, fn func(seqRepo repository.CaseSequenceRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCaseSequenceRepository(tx))
	})
}

// RunAdmin transacción con consecutivos y registros (reinicios administrativos).
func (r *TxRunner) RunAdmin(ctx context.Context, fn func(
	seqRepo repository.CaseSequenceRepository,
	recordRepo repository.CaseRecordRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCaseSequenceRepository(tx), NewCaseRecordRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapBeginErr(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// is_local = true: equivale a SET LOCAL, muere con la transacción.
		ms := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, ms); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
