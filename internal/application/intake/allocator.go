package intake

import (
	"context"
	"fmt"

	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/fraud"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

var _ CaseAllocator = (*SerialAllocator)(nil)

// SerialAllocator genera identificadores <código><5 dígitos> con un contador durable por categoría.
//
// Cada asignación es una transacción propia: crea la fila si falta, la bloquea con
// SELECT ... FOR UPDATE, verifica el techo e incrementa. Dos asignaciones de la misma
// categoría nunca leen el mismo next_val; categorías distintas no se bloquean entre sí.
// Una vez confirmada, el valor no se devuelve aunque el registro posterior falle.
type SerialAllocator struct {
	txRunner SequenceTxRunner
	maxValue int
}

// NewSerialAllocator construye el asignador. maxValue <= 0 usa el techo por defecto (99999);
// un techo mayor que 99999 no cabe en el campo de 5 dígitos y se rechaza.
func NewSerialAllocator(txRunner SequenceTxRunner, maxValue int) (*SerialAllocator, error) {
	if maxValue <= 0 {
		maxValue = entity.DefaultSequenceMax
	}
	if maxValue > fraud.MaxCaseValue {
		return nil, fmt.Errorf("%w: techo %d excede %d dígitos", domain.ErrInvalidInput, maxValue, fraud.CaseDigits)
	}
	return &SerialAllocator{txRunner: txRunner, maxValue: maxValue}, nil
}

// Allocate devuelve el siguiente identificador de la categoría.
//
// Errores:
//   - domain.ErrInvalidInput: código que no es un único carácter alfanumérico.
//   - domain.ErrAllocationExhausted: next_val superó el techo; el contador no cambia.
//   - domain.ErrLockTimeout: no se obtuvo el bloqueo de la fila a tiempo (reintentable).
func (a *SerialAllocator) Allocate(ctx context.Context, code string) (string, error) {
	if !fraud.ValidCode(code) {
		return "", fmt.Errorf("%w: código de categoría %q", domain.ErrInvalidInput, code)
	}

	var value int
	err := a.txRunner.RunSequence(ctx, func(seqRepo repository.CaseSequenceRepository) error {
		if err := seqRepo.EnsureExists(ctx, code, a.maxValue); err != nil {
			return err
		}
		seq, err := seqRepo.GetForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if seq == nil {
			return fmt.Errorf("consecutivo %q desapareció tras inicializarse", code)
		}
		if seq.NextValue < 1 {
			return fmt.Errorf("consecutivo %q con next_val inválido: %d", code, seq.NextValue)
		}
		// El campo es de 5 dígitos: filas con max_val mayor se limitan a 99999.
		if seq.Exhausted(fraud.MaxCaseValue) {
			return fmt.Errorf("%w: categoría %q (next_val=%d, max_val=%d)",
				domain.ErrAllocationExhausted, code, seq.NextValue, seq.MaxValue)
		}
		if err := seqRepo.Advance(ctx, code); err != nil {
			return err
		}
		value = seq.NextValue
		return nil
	})
	if err != nil {
		return "", err
	}
	return fraud.FormatCaseID(code, value), nil
}
