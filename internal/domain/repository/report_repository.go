package repository

import (
	"context"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
)

// ReportFilter filtros del listado de denuncias.
type ReportFilter struct {
	Status     string
	ReportType string
	Limit      int
	Offset     int
}

// ReportRepository puerto de persistencia de denuncias (tabla report_record).
type ReportRepository interface {
	Create(ctx context.Context, r *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	// List ordena por fecha de creación descendente; devuelve además el total sin paginar.
	List(ctx context.Context, f ReportFilter) ([]*entity.ReportView, int, error)
	// UpdateStatus devuelve el estado anterior; domain.ErrNotFound si no existe.
	UpdateStatus(ctx context.Context, id, status string) (string, error)
	BatchUpdateStatus(ctx context.Context, ids []string, status string) (int64, error)
}
