// Package report contiene los casos de uso de denuncias de fraude enviadas por los usuarios.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/antifraude-api/internal/application/dto"
	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

// ReportUseCase alta, listado y cambio de estado de denuncias.
type ReportUseCase struct {
	repo repository.ReportRepository
	now  func() time.Time
}

func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo, now: time.Now}
}

// Submit registra una denuncia en estado pending. userID vacío = denuncia anónima.
func (uc *ReportUseCase) Submit(ctx context.Context, userID string, in dto.SubmitReportRequest) (*dto.SubmitReportResponse, error) {
	if !entity.ValidReportType(in.Type) {
		return nil, fmt.Errorf("%w: tipo de denuncia %q", domain.ErrInvalidInput, in.Type)
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: contenido vacío", domain.ErrInvalidInput)
	}
	now := uc.now()
	r := &entity.Report{
		ID:         uuid.New().String(),
		UserID:     userID,
		ReportType: in.Type,
		Content:    content,
		SourceInfo: strings.TrimSpace(in.Source),
		Status:     entity.ReportStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return &dto.SubmitReportResponse{ReportID: r.ID}, nil
}

// List página de denuncias, más recientes primero.
func (uc *ReportUseCase) List(ctx context.Context, in dto.ReportListRequest) (*dto.ReportListResponse, error) {
	in.DefaultPage()
	if in.Status != "" && !entity.ValidReportStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	rows, total, err := uc.repo.List(ctx, repository.ReportFilter{
		Status:     in.Status,
		ReportType: in.Type,
		Limit:      in.PerPage,
		Offset:     in.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ReportListResponse{
		Data:         make([]dto.ReportDTO, 0, len(rows)),
		PageResponse: dto.NewPageResponse(in.PageRequest, total),
	}
	for _, r := range rows {
		out.Data = append(out.Data, dto.ReportDTO{
			ID:         r.ID,
			UserID:     r.UserID,
			Username:   r.Username,
			ReportType: r.ReportType,
			Content:    r.Content,
			SourceInfo: r.SourceInfo,
			Status:     r.Status,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return out, nil
}

// UpdateStatus cambia el estado de una denuncia y devuelve el anterior.
func (uc *ReportUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateReportStatusRequest) (*dto.UpdateReportStatusResponse, error) {
	if !entity.ValidReportStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	old, err := uc.repo.UpdateStatus(ctx, id, in.Status)
	if err != nil {
		return nil, err
	}
	return &dto.UpdateReportStatusResponse{ReportID: id, OldStatus: old, NewStatus: in.Status}, nil
}

// BatchUpdateStatus cambia el estado de varias denuncias; ids inexistentes se ignoran.
func (uc *ReportUseCase) BatchUpdateStatus(ctx context.Context, in dto.BatchUpdateReportsRequest) (*dto.BatchUpdateReportsResponse, error) {
	if len(in.ReportIDs) == 0 {
		return nil, fmt.Errorf("%w: report_ids vacío", domain.ErrInvalidInput)
	}
	if !entity.ValidReportStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	n, err := uc.repo.BatchUpdateStatus(ctx, in.ReportIDs, in.Status)
	if err != nil {
		return nil, err
	}
	return &dto.BatchUpdateReportsResponse{UpdatedCount: n, NewStatus: in.Status}, nil
}
