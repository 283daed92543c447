package repository

import (
	"context"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
)

// CaseSequenceRepository puerto de persistencia de los consecutivos por categoría (tabla case_serial).
// Las operaciones de asignación solo tienen sentido dentro de una transacción:
// GetForUpdate mantiene el bloqueo de la fila hasta Commit/Rollback.
type CaseSequenceRepository interface {
	// EnsureExists crea la fila (next_val = 1) si no existe; si ya existe no hace nada.
	// Es atómico frente a otros inicializadores concurrentes.
	EnsureExists(ctx context.Context, category string, maxValue int) error

	// GetForUpdate lee la fila y la bloquea en exclusiva (SELECT ... FOR UPDATE).
	// Devuelve nil, nil si la fila no existe. Si el bloqueo no se obtiene a tiempo
	// devuelve un error que envuelve domain.ErrLockTimeout.
	GetForUpdate(ctx context.Context, category string) (*entity.CaseSequence, error)

	// Advance incrementa next_val en uno. Requiere haber bloqueado la fila antes.
	Advance(ctx context.Context, category string) error

	Get(ctx context.Context, category string) (*entity.CaseSequence, error)
	List(ctx context.Context) ([]*entity.CaseSequence, error)

	// Reset vuelve next_val a 1. Devuelve false si la categoría no existe.
	Reset(ctx context.Context, category string) (bool, error)
	// ResetAll vuelve next_val a 1 en todas las categorías.
	ResetAll(ctx context.Context) error
}
