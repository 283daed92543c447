package intake

import (
	"context"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

// SequenceTxRunner ejecuta fn dentro de una transacción con el repositorio de consecutivos
// atado a ella. Commit si fn devuelve nil; Rollback en cualquier otro caso.
// Los bloqueos de fila tomados dentro de fn se liberan al terminar la transacción.
type SequenceTxRunner interface {
	RunSequence(ctx context.Context, fn func(seqRepo repository.CaseSequenceRepository) error) error
}

// CaseAllocator asigna identificadores de caso únicos por código de categoría.
type CaseAllocator interface {
	Allocate(ctx context.Context, code string) (string, error)
}

// LocalClassifier clasificador local, total y determinista (respaldo del remoto).
type LocalClassifier interface {
	Classify(text string) entity.ClassificationResult
}

// CategoryCoder mapa categoría → código de una letra.
type CategoryCoder interface {
	CodeFor(category string) string
}
