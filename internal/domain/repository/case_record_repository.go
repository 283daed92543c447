package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
)

// CaseRecordFilter filtros y paginación del listado de administración.
type CaseRecordFilter struct {
	FraudType string
	IsFraud   *bool
	Keyword   string // busca en el texto y en el nombre de usuario (sin distinguir mayúsculas)
	Limit     int
	Offset    int
}

// FraudTypeShare tipo de fraude más frecuente y su participación (%) sobre los registros de fraude.
type FraudTypeShare struct {
	FraudType  string
	Count      int
	Percentage decimal.Decimal // 2 decimales
}

// CaseRecordRepository puerto de persistencia para los registros de casos (tabla sms_record).
type CaseRecordRepository interface {
	// Create inserta el registro. Un case_no repetido devuelve domain.ErrDuplicate.
	Create(ctx context.Context, rec *entity.CaseRecord) error
	GetByID(ctx context.Context, id string) (*entity.CaseRecord, error)
	GetByCaseNo(ctx context.Context, caseNo string) (*entity.CaseRecord, error)

	// List devuelve la página pedida (orden de creación ascendente) y el total sin paginar.
	List(ctx context.Context, f CaseRecordFilter) ([]*entity.CaseRecordView, int, error)

	// Delete elimina un registro; domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	// DeleteByCategory elimina los registros cuyo case_no empieza por el código.
	DeleteByCategory(ctx context.Context, code string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)

	CountSince(ctx context.Context, since time.Time) (int, error)
	CountFraud(ctx context.Context) (int, error)
	// TopFraudType devuelve nil, nil si no hay registros de fraude.
	TopFraudType(ctx context.Context) (*FraudTypeShare, error)
}
