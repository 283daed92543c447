package ports

import (
	"context"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
)

// RemoteClassifier puerto de salida hacia un servicio de clasificación externo
// (modelo propio por HTTP o un LLM). Cualquier fallo (red, estado HTTP, respuesta
// malformada o timeout) se devuelve envolviendo domain.ErrRemoteUnavailable; el
// pipeline lo trata como señal para usar el clasificador local.
type RemoteClassifier interface {
	ClassifyRemote(ctx context.Context, text string) (*entity.ClassificationResult, error)
}
