package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/antifraude-api/internal/application/admin"
	"github.com/jhoicas/antifraude-api/internal/application/intake"
	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

var _ intake.SequenceTxRunner = (*TxRunner)(nil)
var _ admin.AdminTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción en memoria.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// RunSequence transacción con el repositorio de consecutivos.
func (r *TxRunner) RunSequence(ctx context.Context, fn func(seqRepo repository.CaseSequenceRepository) error) error {
	tx := r.begin()
	defer tx.release()

	if err := fn(&txSequenceRepo{tx: tx}); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// RunAdmin transacción con consecutivos y registros (reinicios administrativos).
func (r *TxRunner) RunAdmin(ctx context.Context, fn func(
	seqRepo repository.CaseSequenceRepository,
	recordRepo repository.CaseRecordRepository,
) error) error {
	tx := r.begin()
	defer tx.release()

	recs := &txRecordRepo{CaseRecordRepo: NewCaseRecordRepository(r.s), tx: tx}
	if err := fn(&txSequenceRepo{tx: tx}, recs); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (r *TxRunner) begin() *memTx {
	return &memTx{
		s:       r.s,
		held:    make(map[string]bool),
		pending: make(map[string]entity.CaseSequence),
	}
}

// memTx cambios pendientes y bloqueos tomados por una transacción.
type memTx struct {
	s              *Store
	held           map[string]bool
	pending        map[string]entity.CaseSequence
	deleteAll      bool
	deletePrefixes []string
	deleteIDs      []string
	done           bool
}

// lock toma el bloqueo exclusivo de la categoría hasta el fin de la transacción.
func (tx *memTx) lock(ctx context.Context, category string) error {
	if tx.held[category] {
		return nil
	}
	lctx, cancel := context.WithTimeout(ctx, tx.s.lockTimeout)
	defer cancel()
	if err := tx.s.rowLock(category).Acquire(lctx, 1); err != nil {
		return fmt.Errorf("%w: categoría %q: %v", domain.ErrLockTimeout, category, err)
	}
	tx.held[category] = true
	return nil
}

// read devuelve la versión visible para esta transacción.
func (tx *memTx) read(category string) (entity.CaseSequence, bool) {
	if seq, ok := tx.pending[category]; ok {
		return seq, true
	}
	return tx.s.Sequence(category)
}

func (tx *memTx) commit() {
	s := tx.s
	s.mu.Lock()
	for cat, seq := range tx.pending {
		s.sequences[cat] = seq
	}
	if tx.deleteAll {
		s.records = make(map[string]*storedRecord)
	}
	for _, prefix := range tx.deletePrefixes {
		for id, r := range s.records {
			if strings.HasPrefix(r.rec.CaseNo, prefix) {
				delete(s.records, id)
			}
		}
	}
	for _, id := range tx.deleteIDs {
		delete(s.records, id)
	}
	s.mu.Unlock()
	tx.pending = nil
}

// release libera los bloqueos; sin commit previo equivale a Rollback.
func (tx *memTx) release() {
	if tx.done {
		return
	}
	tx.done = true
	cats := make([]string, 0, len(tx.held))
	for c := range tx.held {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		tx.s.rowLock(c).Release(1)
	}
}
