package intake_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/antifraude-api/internal/application/intake"
	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
	"github.com/jhoicas/antifraude-api/internal/infrastructure/memory"
)

func newAllocator(t *testing.T, store *memory.Store, maxValue int) *intake.SerialAllocator {
	t.Helper()
	a, err := intake.NewSerialAllocator(memory.NewTxRunner(store), maxValue)
	require.NoError(t, err)
	return a
}

func TestAllocate_Monotonico(t *testing.T) {
	store := memory.NewStore(time.Second)
	a := newAllocator(t, store, 0)
	ctx := context.Background()

	for _, want := range []string{"a00001", "a00002", "a00003"} {
		got, err := a.Allocate(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAllocate_PrimerUsoDejaNextValEnDos(t *testing.T) {
	store := memory.NewStore(time.Second)
	a := newAllocator(t, store, 0)

	_, ok := store.Sequence("f")
	require.False(t, ok)

	got, err := a.Allocate(context.Background(), "f")
	require.NoError(t, err)
	assert.Equal(t, "f00001", got)

	seq, ok := store.Sequence("f")
	require.True(t, ok)
	assert.Equal(t, 2, seq.NextValue)
	assert.Equal(t, entity.DefaultSequenceMax, seq.MaxValue)
}

func TestAllocate_TechoPorDefectoAgotado(t *testing.T) {
	store := memory.NewStore(time.Second)
	store.SetSequence(entity.CaseSequence{Category: "a", NextValue: 100000, MaxValue: 99999})
	a := newAllocator(t, store, 0)

	_, err := a.Allocate(context.Background(), "a")
	require.ErrorIs(t, err, domain.ErrAllocationExhausted)

	seq, ok := store.Sequence("a")
	require.True(t, ok)
	assert.Equal(t, 100000, seq.NextValue)
	assert.Equal(t, 99999, seq.MaxValue)
}

func TestAllocate_AgotadoNoCambiaContador(t *testing.T) {
	store := memory.NewStore(time.Second)
	a := newAllocator(t, store, 3)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := a.Allocate(ctx, "b")
		require.NoError(t, err)
	}
	_, err := a.Allocate(ctx, "b")
	require.ErrorIs(t, err, domain.ErrAllocationExhausted)

	seq, _ := store.Sequence("b")
	assert.Equal(t, 4, seq.NextValue)

	_, err = a.Allocate(ctx, "b")
	require.ErrorIs(t, err, domain.ErrAllocationExhausted)
	seq, _ = store.Sequence("b")
	assert.Equal(t, 4, seq.NextValue, "un intento agotado no avanza el contador")

	// Otras categorías no se ven afectadas.
	got, err := a.Allocate(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "c00001", got)
}

func TestAllocate_MaxValMayorQueCincoDigitosSeLimita(t *testing.T) {
	store := memory.NewStore(time.Second)
	store.SetSequence(entity.CaseSequence{Category: "d", NextValue: 99999, MaxValue: 1000000})
	a := newAllocator(t, store, 0)
	ctx := context.Background()

	got, err := a.Allocate(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "d99999", got)

	_, err = a.Allocate(ctx, "d")
	assert.ErrorIs(t, err, domain.ErrAllocationExhausted)
}

func TestNewSerialAllocator_TechoInvalido(t *testing.T) {
	_, err := intake.NewSerialAllocator(memory.NewTxRunner(memory.NewStore(time.Second)), 100000)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllocate_CodigoInvalido(t *testing.T) {
	a := newAllocator(t, memory.NewStore(time.Second), 0)
	for _, code := range []string{"", "ab", "ñ", "-"} {
		_, err := a.Allocate(context.Background(), code)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "código %q", code)
	}
}

func TestAllocate_ConcurrenteUnicoYContiguo(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := memory.NewStore(5 * time.Second)
	a := newAllocator(t, store, 0)
	const n = 50

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids []string
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := a.Allocate(context.Background(), "a")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			ids = append(ids, id)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, ids, n)
	sort.Strings(ids)
	for i, id := range ids {
		assert.Equal(t, fmt.Sprintf("a%05d", i+1), id)
	}
	seq, _ := store.Sequence("a")
	assert.Equal(t, n+1, seq.NextValue)
}

func TestAllocate_BloqueoAgotado(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := memory.NewStore(50 * time.Millisecond)
	runner := memory.NewTxRunner(store)
	a := newAllocator(t, store, 0)

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runner.RunSequence(context.Background(), func(seqRepo repository.CaseSequenceRepository) error {
			if err := seqRepo.EnsureExists(context.Background(), "g", entity.DefaultSequenceMax); err != nil {
				return err
			}
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	_, err := a.Allocate(context.Background(), "g")
	assert.ErrorIs(t, err, domain.ErrLockTimeout)

	// Categorías distintas no esperan.
	got, err := a.Allocate(context.Background(), "h")
	require.NoError(t, err)
	assert.Equal(t, "h00001", got)

	close(release)
	require.NoError(t, <-done)

	got, err = a.Allocate(context.Background(), "g")
	require.NoError(t, err)
	assert.Equal(t, "g00001", got)
}
