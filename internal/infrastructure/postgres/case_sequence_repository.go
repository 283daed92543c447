package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

var _ repository.CaseSequenceRepository = (*CaseSequenceRepo)(nil)

// CaseSequenceRepo consecutivos por categoría sobre la tabla case_serial (usable con pool o tx).
type CaseSequenceRepo struct {
	q Querier
}

// NewCaseSequenceRepository construye el adaptador. Para asignar, pasar la tx.
func NewCaseSequenceRepository(q Querier) *CaseSequenceRepo {
	return &CaseSequenceRepo{q: q}
}

// EnsureExists INSERT ... ON CONFLICT DO NOTHING: dos inicializadores concurrentes
// no fallan; el segundo espera a que el primero confirme y no inserta nada.
func (r *CaseSequenceRepo) EnsureExists(ctx context.Context, category string, maxValue int) error {
	query := `
		INSERT INTO case_serial (category, next_val, max_val)
		VALUES ($1, 1, $2)
		ON CONFLICT (category) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, category, maxValue); err != nil {
		return wrapLockErr("ensure case_serial", category, err)
	}
	return nil
}

// GetForUpdate SELECT FOR UPDATE de la fila de la categoría.
func (r *CaseSequenceRepo) GetForUpdate(ctx context.Context, category string) (*entity.CaseSequence, error) {
	query := `
		SELECT category, next_val, max_val
		FROM case_serial WHERE category = $1
		FOR UPDATE`
	var s entity.CaseSequence
	err := r.q.QueryRow(ctx, query, category).Scan(&s.Category, &s.NextValue, &s.MaxValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapLockErr("lock case_serial", category, err)
	}
	return &s, nil
}

func (r *CaseSequenceRepo) Advance(ctx context.Context, category string) error {
	tag, err := r.q.Exec(ctx, `UPDATE case_serial SET next_val = next_val + 1 WHERE category = $1`, category)
	if err != nil {
		return wrapLockErr("advance case_serial", category, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("advance case_serial %q: fila inexistente", category)
	}
	return nil
}

func (r *CaseSequenceRepo) Get(ctx context.Context, category string) (*entity.CaseSequence, error) {
	var s entity.CaseSequence
	err := r.q.QueryRow(ctx,
		`SELECT category, next_val, max_val FROM case_serial WHERE category = $1`, category,
	).Scan(&s.Category, &s.NextValue, &s.MaxValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get case_serial: %w", err)
	}
	return &s, nil
}

func (r *CaseSequenceRepo) List(ctx context.Context) ([]*entity.CaseSequence, error) {
	rows, err := r.q.Query(ctx, `SELECT category, next_val, max_val FROM case_serial ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list case_serial: %w", err)
	}
	defer rows.Close()
	var list []*entity.CaseSequence
	for rows.Next() {
		var s entity.CaseSequence
		if err := rows.Scan(&s.Category, &s.NextValue, &s.MaxValue); err != nil {
			return nil, fmt.Errorf("scan case_serial: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *CaseSequenceRepo) Reset(ctx context.Context, category string) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE case_serial SET next_val = 1 WHERE category = $1`, category)
	if err != nil {
		return false, wrapLockErr("reset case_serial", category, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CaseSequenceRepo) ResetAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `UPDATE case_serial SET next_val = 1`); err != nil {
		return wrapLockErr("reset case_serial", "*", err)
	}
	return nil
}
