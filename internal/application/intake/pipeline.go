// Package intake contiene el flujo de recepción de textos sospechosos:
// clasificación (remota con respaldo local) → código de categoría → consecutivo → registro.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/antifraude-api/internal/application/dto"
	"github.com/jhoicas/antifraude-api/internal/application/ports"
	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
	"github.com/jhoicas/antifraude-api/pkg/logger"
)

// Config tiempos y reintentos del pipeline.
type Config struct {
	RemoteTimeout     time.Duration // límite de la llamada al clasificador remoto (5 s por defecto)
	AllocationTimeout time.Duration // límite de la transacción del consecutivo, espera del bloqueo incluida
	PersistTimeout    time.Duration // límite del INSERT del registro
	Retry             RetryPolicy   // reintentos ante domain.ErrLockTimeout
}

func (c Config) withDefaults() Config {
	if c.RemoteTimeout <= 0 {
		c.RemoteTimeout = 5 * time.Second
	}
	if c.AllocationTimeout <= 0 {
		c.AllocationTimeout = 10 * time.Second
	}
	if c.PersistTimeout <= 0 {
		c.PersistTimeout = 5 * time.Second
	}
	return c
}

// IntakeUseCase orquesta clasificación, asignación del número de caso y registro.
//
// La asignación y el registro no son una única transacción: el consecutivo se confirma
// primero y el registro después. Si el registro falla el número queda consumido (hueco
// en la numeración) pero nunca se reutiliza.
type IntakeUseCase struct {
	remote     ports.RemoteClassifier // opcional
	local      LocalClassifier
	coder      CategoryCoder
	allocator  CaseAllocator
	recordRepo repository.CaseRecordRepository
	log        *logger.Logger
	cfg        Config
	now        func() time.Time
}

// NewIntakeUseCase construye el caso de uso. remote puede ser nil (solo clasificador local).
func NewIntakeUseCase(
	remote ports.RemoteClassifier,
	local LocalClassifier,
	coder CategoryCoder,
	allocator CaseAllocator,
	recordRepo repository.CaseRecordRepository,
	log *logger.Logger,
	cfg Config,
) *IntakeUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &IntakeUseCase{
		remote:     remote,
		local:      local,
		coder:      coder,
		allocator:  allocator,
		recordRepo: recordRepo,
		log:        log,
		cfg:        cfg.withDefaults(),
		now:        time.Now,
	}
}

// Analyze ejecuta el pipeline completo para el texto enviado por userID.
//
// Devuelve un resultado completo o uno de: domain.ErrValidation, domain.ErrAllocationExhausted,
// domain.ErrLockTimeout, domain.ErrPersistenceFailure. Los fallos del clasificador remoto
// nunca llegan al llamador.
func (uc *IntakeUseCase) Analyze(ctx context.Context, userID, text string) (*dto.AnalyzeResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: texto vacío", domain.ErrValidation)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: usuario ausente", domain.ErrValidation)
	}

	result := uc.classify(ctx, text)
	code := uc.coder.CodeFor(result.FraudType)

	// Sin cancelación cooperativa: si el llamador abandona, la asignación y el registro
	// terminan (o fallan) por su cuenta, acotados por sus propios límites.
	detached := context.WithoutCancel(ctx)

	caseID, err := uc.allocate(detached, code)
	if err != nil {
		uc.log.Error().Err(err).Str("category", code).Str("fraud_type", result.FraudType).
			Msg("asignación de número de caso")
		return nil, err
	}

	rec := &entity.CaseRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		CaseNo:    caseID,
		SMSText:   text,
		IsFraud:   result.IsFraud,
		FraudType: result.FraudType,
		Detail:    result.Detail,
		CreatedAt: uc.now(),
	}
	persistCtx, cancel := context.WithTimeout(detached, uc.cfg.PersistTimeout)
	defer cancel()
	if err := uc.recordRepo.Create(persistCtx, rec); err != nil {
		// El número ya está confirmado en case_serial: queda como hueco.
		uc.log.Error().Err(err).Str("case_id", caseID).Msg("registro del caso; número consumido")
		return nil, fmt.Errorf("%w: caso %s: %w", domain.ErrPersistenceFailure, caseID, err)
	}

	uc.log.Info().
		Str("case_id", caseID).
		Str("fraud_type", result.FraudType).
		Bool("is_fraud", result.IsFraud).
		Str("source", result.Source).
		Msg("caso registrado")

	return &dto.AnalyzeResponse{
		CaseID:    caseID,
		IsFraud:   result.IsFraud,
		FraudType: result.FraudType,
		Detail:    result.Detail,
	}, nil
}

// classify intenta el clasificador remoto y, ante cualquier fallo, usa el local.
// Siempre produce exactamente un resultado.
func (uc *IntakeUseCase) classify(ctx context.Context, text string) entity.ClassificationResult {
	if uc.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, uc.cfg.RemoteTimeout)
		res, err := uc.remote.ClassifyRemote(rctx, text)
		cancel()
		if err == nil && res != nil {
			out := *res
			out.Source = entity.SourceRemote
			return out
		}
		if err == nil {
			err = fmt.Errorf("%w: respuesta vacía", domain.ErrRemoteUnavailable)
		}
		uc.log.Warn().Err(err).Msg("clasificador remoto no disponible, usando palabras clave")
	}
	return uc.local.Classify(text)
}

func (uc *IntakeUseCase) allocate(ctx context.Context, code string) (string, error) {
	var caseID string
	err := withRetry(ctx, uc.cfg.Retry, isLockTimeout, func(attempt int) error {
		actx, cancel := context.WithTimeout(ctx, uc.cfg.AllocationTimeout)
		defer cancel()
		id, err := uc.allocator.Allocate(actx, code)
		if err != nil {
			if isLockTimeout(err) {
				uc.log.Warn().Err(err).Str("category", code).Int("attempt", attempt).
					Msg("bloqueo del consecutivo agotado")
			}
			return err
		}
		caseID = id
		return nil
	})
	return caseID, err
}

func isLockTimeout(err error) bool {
	return errors.Is(err, domain.ErrLockTimeout)
}
