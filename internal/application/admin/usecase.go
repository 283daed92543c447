// Package admin contiene los casos de uso de administración de casos:
// listado y borrado de registros, estadísticas y reinicio de consecutivos.
package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/antifraude-api/internal/application/dto"
	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/fraud"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
	"github.com/jhoicas/antifraude-api/pkg/logger"
)

// noTopFraudType valor de TopFraudType cuando no hay registros de fraude.
const noTopFraudType = "无"

// AdminUseCase operaciones de administración (solo rol admin).
type AdminUseCase struct {
	recordRepo repository.CaseRecordRepository
	txRunner   AdminTxRunner
	catalog    *fraud.Catalog
	log        *logger.Logger
	now        func() time.Time
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(
	recordRepo repository.CaseRecordRepository,
	txRunner AdminTxRunner,
	catalog *fraud.Catalog,
	log *logger.Logger,
) *AdminUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminUseCase{recordRepo: recordRepo, txRunner: txRunner, catalog: catalog, log: log, now: time.Now}
}

// ListRecords página de registros con filtros. is_fraud acepta "true"/"false" (o 1/0); vacío no filtra.
func (uc *AdminUseCase) ListRecords(ctx context.Context, in dto.RecordListRequest) (*dto.RecordListResponse, error) {
	in.DefaultPage()
	f := repository.CaseRecordFilter{
		FraudType: strings.TrimSpace(in.FraudType),
		Keyword:   strings.TrimSpace(in.Keyword),
		Limit:     in.PerPage,
		Offset:    in.Offset(),
	}
	if in.IsFraud != "" {
		v, err := strconv.ParseBool(in.IsFraud)
		if err != nil {
			return nil, fmt.Errorf("%w: is_fraud %q", domain.ErrInvalidInput, in.IsFraud)
		}
		f.IsFraud = &v
	}

	rows, total, err := uc.recordRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.RecordListResponse{
		Data:         make([]dto.RecordDTO, 0, len(rows)),
		PageResponse: dto.NewPageResponse(in.PageRequest, total),
	}
	for _, r := range rows {
		out.Data = append(out.Data, dto.RecordDTO{
			ID:        r.ID,
			UserID:    r.UserID,
			Username:  r.Username,
			CaseNo:    r.CaseNo,
			SMSText:   r.SMSText,
			IsFraud:   r.IsFraud,
			FraudType: r.FraudType,
			Detail:    r.Detail,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// DeleteRecord elimina un registro. No devuelve su número al consecutivo.
func (uc *AdminUseCase) DeleteRecord(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id vacío", domain.ErrInvalidInput)
	}
	if err := uc.recordRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("record_id", id).Msg("registro eliminado")
	return nil
}

// Stats resumen del panel: registros de hoy, total de fraudes y tipo más frecuente.
// Las tres consultas van en paralelo.
func (uc *AdminUseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		today      int
		fraudCount int
		top        *repository.FraudTypeShare
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		today, err = uc.recordRepo.CountSince(gctx, todayStart)
		return err
	})
	g.Go(func() error {
		var err error
		fraudCount, err = uc.recordRepo.CountFraud(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		top, err = uc.recordRepo.TopFraudType(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	out := &dto.StatsResponse{
		TodayNewRecords:   today,
		TotalFraudRecords: fraudCount,
		TopFraudType:      dto.TopFraudTypeDTO{Type: noTopFraudType},
	}
	if top != nil {
		out.TopFraudType = dto.TopFraudTypeDTO{Type: top.FraudType, Percentage: top.Percentage}
	}
	return out, nil
}

// ListSequences estado actual de los consecutivos.
func (uc *AdminUseCase) ListSequences(ctx context.Context) ([]dto.SequenceDTO, error) {
	var seqs []*entity.CaseSequence
	err := uc.txRunner.RunAdmin(ctx, func(seqRepo repository.CaseSequenceRepository, _ repository.CaseRecordRepository) error {
		var err error
		seqs, err = seqRepo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SequenceDTO, 0, len(seqs))
	for _, s := range seqs {
		name, _ := uc.catalog.CategoryFor(s.Category)
		out = append(out, dto.SequenceDTO{
			Category:  s.Category,
			FraudType: name,
			NextValue: s.NextValue,
			MaxValue:  s.MaxValue,
			Exhausted: s.Exhausted(fraud.MaxCaseValue),
		})
	}
	return out, nil
}

// ResetCategory borra los registros de la categoría y devuelve su consecutivo a 1,
// en una transacción. Los identificadores borrados vuelven a emitirse después.
func (uc *AdminUseCase) ResetCategory(ctx context.Context, code string) (*dto.ResetCategoryResponse, error) {
	if !fraud.ValidCode(code) {
		return nil, fmt.Errorf("%w: código de categoría %q", domain.ErrInvalidInput, code)
	}
	var deleted int64
	err := uc.txRunner.RunAdmin(ctx, func(seqRepo repository.CaseSequenceRepository, recordRepo repository.CaseRecordRepository) error {
		// Primero el consecutivo: su bloqueo frena asignaciones concurrentes de la categoría.
		found, err := seqRepo.Reset(ctx, code)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: consecutivo %q", domain.ErrNotFound, code)
		}
		deleted, err = recordRepo.DeleteByCategory(ctx, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Warn().Str("category", code).Int64("deleted_records", deleted).Msg("consecutivo reiniciado")
	return &dto.ResetCategoryResponse{Category: code, DeletedRecords: deleted}, nil
}

// ResetAll borra todos los registros y reinicia todos los consecutivos.
func (uc *AdminUseCase) ResetAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := uc.txRunner.RunAdmin(ctx, func(seqRepo repository.CaseSequenceRepository, recordRepo repository.CaseRecordRepository) error {
		if err := seqRepo.ResetAll(ctx); err != nil {
			return err
		}
		var err error
		deleted, err = recordRepo.DeleteAll(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	uc.log.Warn().Int64("deleted_records", deleted).Msg("datos reiniciados")
	return deleted, nil
}
