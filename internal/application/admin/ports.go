package admin

import (
	"context"

	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

// AdminTxRunner ejecuta operaciones administrativas que tocan consecutivos y registros
// en una sola transacción (reinicios).
type AdminTxRunner interface {
	RunAdmin(ctx context.Context, fn func(
		seqRepo repository.CaseSequenceRepository,
		recordRepo repository.CaseRecordRepository,
	) error) error
}

