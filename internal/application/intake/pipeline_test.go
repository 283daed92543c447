package intake_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/antifraude-api/internal/application/intake"
	"github.com/jhoicas/antifraude-api/internal/application/ports"
	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/fraud"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
	"github.com/jhoicas/antifraude-api/internal/infrastructure/memory"
)

// fakeRemote clasificador remoto controlable; respeta la cancelación del contexto.
type fakeRemote struct {
	res   *entity.ClassificationResult
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeRemote) ClassifyRemote(ctx context.Context, text string) (*entity.ClassificationResult, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, ctx.Err())
		}
	}
	return f.res, f.err
}

// failingRecords repositorio cuyo Create siempre falla (con err, o "conexión perdida").
type failingRecords struct {
	repository.CaseRecordRepository
	err error
}

func (f failingRecords) Create(ctx context.Context, rec *entity.CaseRecord) error {
	if f.err != nil {
		return f.err
	}
	return errors.New("conexión perdida")
}

// flakyAllocator devuelve ErrLockTimeout las primeras `fails` veces.
type flakyAllocator struct {
	fails int32
	calls atomic.Int32
	next  intake.CaseAllocator
}

func (f *flakyAllocator) Allocate(ctx context.Context, code string) (string, error) {
	if f.calls.Add(1) <= f.fails {
		return "", fmt.Errorf("%w: simulado", domain.ErrLockTimeout)
	}
	return f.next.Allocate(ctx, code)
}

type pipelineFixture struct {
	store   *memory.Store
	records *memory.CaseRecordRepo
	alloc   *intake.SerialAllocator
	catalog *fraud.Catalog
}

func newPipelineFixture(t *testing.T, maxValue int) *pipelineFixture {
	store := memory.NewStore(time.Second)
	return &pipelineFixture{
		store:   store,
		records: memory.NewCaseRecordRepository(store),
		alloc:   newAllocator(t, store, maxValue),
		catalog: fraud.DefaultCatalog(),
	}
}

func (f *pipelineFixture) useCase(remote ports.RemoteClassifier, alloc intake.CaseAllocator, records repository.CaseRecordRepository, cfg intake.Config) *intake.IntakeUseCase {
	if alloc == nil {
		alloc = f.alloc
	}
	if records == nil {
		records = f.records
	}
	return intake.NewIntakeUseCase(remote, fraud.NewKeywordClassifier(f.catalog), f.catalog, alloc, records, nil, cfg)
}

func TestAnalyze_PalabrasClaveDeExtremoAExtremo(t *testing.T) {
	f := newPipelineFixture(t, 0)
	uc := f.useCase(nil, nil, nil, intake.Config{})

	out, err := uc.Analyze(context.Background(), "u1", "免费领取海外代购清仓")
	require.NoError(t, err)
	assert.Equal(t, "f00001", out.CaseID)
	assert.True(t, out.IsFraud)
	assert.Equal(t, "虚假购物、服务类", out.FraudType)
	assert.Contains(t, out.Detail, "虚假购物、服务类")

	rec, err := f.records.GetByCaseNo(context.Background(), "f00001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "免费领取海外代购清仓", rec.SMSText)
}

func TestAnalyze_TextoNormalUsaCodigoPorDefecto(t *testing.T) {
	f := newPipelineFixture(t, 0)
	uc := f.useCase(nil, nil, nil, intake.Config{})

	out, err := uc.Analyze(context.Background(), "u1", "明天下午三点开会")
	require.NoError(t, err)
	assert.Equal(t, "z00001", out.CaseID)
	assert.False(t, out.IsFraud)
	assert.Equal(t, entity.FraudTypeNormal, out.FraudType)
}

func TestAnalyze_Validacion(t *testing.T) {
	f := newPipelineFixture(t, 0)
	uc := f.useCase(nil, nil, nil, intake.Config{})
	ctx := context.Background()

	_, err := uc.Analyze(ctx, "u1", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Analyze(ctx, "u1", "   \n\t")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Analyze(ctx, "", "刷单")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, ok := f.store.Sequence("a")
	assert.False(t, ok, "la validación falla antes de tocar el consecutivo")
}

func TestAnalyze_RemotoExitoso(t *testing.T) {
	f := newPipelineFixture(t, 0)
	remote := &fakeRemote{res: &entity.ClassificationResult{
		IsFraud: true, FraudType: "冒充公检法及政府机关类", Detail: "modelo",
	}}
	uc := f.useCase(remote, nil, nil, intake.Config{})

	out, err := uc.Analyze(context.Background(), "u1", "texto cualquiera")
	require.NoError(t, err)
	assert.Equal(t, "g00001", out.CaseID)
	assert.Equal(t, "modelo", out.Detail)
	assert.EqualValues(t, 1, remote.calls.Load())
}

func TestAnalyze_RemotoConCategoriaDesconocida(t *testing.T) {
	f := newPipelineFixture(t, 0)
	remote := &fakeRemote{res: &entity.ClassificationResult{IsFraud: true, FraudType: "otra cosa"}}
	uc := f.useCase(remote, nil, nil, intake.Config{})

	out, err := uc.Analyze(context.Background(), "u1", "x")
	require.NoError(t, err)
	assert.Equal(t, "z00001", out.CaseID)
	assert.Equal(t, "otra cosa", out.FraudType)
}

func TestAnalyze_RemotoLentoUsaRespaldo(t *testing.T) {
	f := newPipelineFixture(t, 0)
	remote := &fakeRemote{
		res:   &entity.ClassificationResult{IsFraud: false, FraudType: entity.FraudTypeNormal},
		delay: time.Second,
	}
	uc := f.useCase(remote, nil, nil, intake.Config{RemoteTimeout: 20 * time.Millisecond})

	start := time.Now()
	out, err := uc.Analyze(context.Background(), "u1", "刷单返利，日结")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, "a00001", out.CaseID)
	assert.Equal(t, "刷单返利类", out.FraudType)
}

func TestAnalyze_RemotoConErrorUsaRespaldo(t *testing.T) {
	f := newPipelineFixture(t, 0)
	remote := &fakeRemote{err: fmt.Errorf("%w: status 502", domain.ErrRemoteUnavailable)}
	uc := f.useCase(remote, nil, nil, intake.Config{})

	out, err := uc.Analyze(context.Background(), "u1", "您的包裹丢失，客服为您退款")
	require.NoError(t, err)
	assert.Equal(t, "c00001", out.CaseID)
}

func TestAnalyze_AgotadoNoCreaRegistro(t *testing.T) {
	f := newPipelineFixture(t, 1)
	uc := f.useCase(nil, nil, nil, intake.Config{})
	ctx := context.Background()

	_, err := uc.Analyze(ctx, "u1", "刷单")
	require.NoError(t, err)

	_, err = uc.Analyze(ctx, "u1", "刷单")
	require.ErrorIs(t, err, domain.ErrAllocationExhausted)

	_, total, err := f.records.List(ctx, repository.CaseRecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestAnalyze_FalloAlGuardarConservaLaCausa(t *testing.T) {
	f := newPipelineFixture(t, 0)
	broken := f.useCase(nil, nil, failingRecords{CaseRecordRepository: f.records, err: domain.ErrDuplicate}, intake.Config{})

	_, err := broken.Analyze(context.Background(), "u1", "刷单")
	require.ErrorIs(t, err, domain.ErrPersistenceFailure)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAnalyze_FalloAlGuardarConsumeElNumero(t *testing.T) {
	f := newPipelineFixture(t, 0)
	broken := f.useCase(nil, nil, failingRecords{CaseRecordRepository: f.records}, intake.Config{})
	ctx := context.Background()

	_, err := broken.Analyze(ctx, "u1", "刷单")
	require.ErrorIs(t, err, domain.ErrPersistenceFailure)
	assert.Contains(t, err.Error(), "a00001")

	ok := f.useCase(nil, nil, nil, intake.Config{})
	out, err := ok.Analyze(ctx, "u1", "刷单")
	require.NoError(t, err)
	assert.Equal(t, "a00002", out.CaseID, "el número fallido no se reutiliza")
}

func TestAnalyze_ReintentaBloqueoAgotado(t *testing.T) {
	f := newPipelineFixture(t, 0)
	flaky := &flakyAllocator{fails: 2, next: f.alloc}
	uc := f.useCase(nil, flaky, nil, intake.Config{
		Retry: intake.RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond},
	})

	out, err := uc.Analyze(context.Background(), "u1", "刷单")
	require.NoError(t, err)
	assert.Equal(t, "a00001", out.CaseID)
	assert.EqualValues(t, 3, flaky.calls.Load())
}

func TestAnalyze_BloqueoAgotadoTrasReintentos(t *testing.T) {
	f := newPipelineFixture(t, 0)
	flaky := &flakyAllocator{fails: 10, next: f.alloc}
	uc := f.useCase(nil, flaky, nil, intake.Config{
		Retry: intake.RetryPolicy{MaxAttempts: 2, InitialDelay: time.Millisecond},
	})

	_, err := uc.Analyze(context.Background(), "u1", "刷单")
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.EqualValues(t, 2, flaky.calls.Load())
}

func TestAnalyze_CancelacionDelLlamadorNoInterrumpeElRegistro(t *testing.T) {
	f := newPipelineFixture(t, 0)
	uc := f.useCase(nil, nil, nil, intake.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := uc.Analyze(ctx, "u1", "刷单")
	require.NoError(t, err)
	assert.Equal(t, "a00001", out.CaseID)
}
