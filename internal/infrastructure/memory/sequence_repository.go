package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

var _ repository.CaseSequenceRepository = (*txSequenceRepo)(nil)

// txSequenceRepo repositorio de consecutivos atado a una transacción en memoria.
type txSequenceRepo struct {
	tx *memTx
}

// EnsureExists toma el bloqueo de la categoría y crea la fila pendiente si falta.
// Otro inicializador concurrente espera el bloqueo y ve la fila al confirmarse esta.
func (r *txSequenceRepo) EnsureExists(ctx context.Context, category string, maxValue int) error {
	if err := r.tx.lock(ctx, category); err != nil {
		return err
	}
	if _, ok := r.tx.read(category); ok {
		return nil
	}
	r.tx.pending[category] = entity.CaseSequence{Category: category, NextValue: 1, MaxValue: maxValue}
	return nil
}

func (r *txSequenceRepo) GetForUpdate(ctx context.Context, category string) (*entity.CaseSequence, error) {
	if err := r.tx.lock(ctx, category); err != nil {
		return nil, err
	}
	seq, ok := r.tx.read(category)
	if !ok {
		return nil, nil
	}
	return &seq, nil
}

func (r *txSequenceRepo) Advance(ctx context.Context, category string) error {
	if !r.tx.held[category] {
		return fmt.Errorf("advance case_serial %q sin bloqueo previo", category)
	}
	seq, ok := r.tx.read(category)
	if !ok {
		return fmt.Errorf("advance case_serial %q: fila inexistente", category)
	}
	seq.NextValue++
	r.tx.pending[category] = seq
	return nil
}

func (r *txSequenceRepo) Get(ctx context.Context, category string) (*entity.CaseSequence, error) {
	seq, ok := r.tx.read(category)
	if !ok {
		return nil, nil
	}
	return &seq, nil
}

func (r *txSequenceRepo) List(ctx context.Context) ([]*entity.CaseSequence, error) {
	var list []*entity.CaseSequence
	for _, c := range r.tx.s.sortedCategories() {
		seq, _ := r.tx.read(c)
		list = append(list, &seq)
	}
	return list, nil
}

func (r *txSequenceRepo) Reset(ctx context.Context, category string) (bool, error) {
	if err := r.tx.lock(ctx, category); err != nil {
		return false, err
	}
	seq, ok := r.tx.read(category)
	if !ok {
		return false, nil
	}
	seq.NextValue = 1
	r.tx.pending[category] = seq
	return true, nil
}

// ResetAll bloquea todas las categorías en orden alfabético (sin interbloqueos) y las reinicia.
func (r *txSequenceRepo) ResetAll(ctx context.Context) error {
	for _, c := range r.tx.s.sortedCategories() {
		if _, err := r.Reset(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
