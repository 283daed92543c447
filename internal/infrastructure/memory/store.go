// Package memory implementa los puertos de persistencia en memoria del proceso.
//
// Sirve para desarrollo local (DB_DRIVER=memory) y para las pruebas de los casos de uso.
// Reproduce la semántica que importa de PostgreSQL: bloqueo exclusivo por categoría
// mantenido hasta el fin de la transacción, con espera acotada, y cambios que solo se
// hacen visibles al confirmar.
package memory

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
)

const defaultLockTimeout = 3 * time.Second

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu          sync.Mutex
	sequences   map[string]entity.CaseSequence
	rowLocks    map[string]*semaphore.Weighted
	records     map[string]*storedRecord
	recordSeq   int64
	users       map[string]*entity.User
	reports     map[string]*storedReport
	reportSeq   int64
	lockTimeout time.Duration
}

type storedRecord struct {
	rec entity.CaseRecord
	seq int64 // orden de inserción (equivalente al id autoincremental)
}

type storedReport struct {
	rep entity.Report
	seq int64
}

// NewStore crea un almacén vacío. lockTimeout acota la espera por el bloqueo de una
// categoría (equivalente a lock_timeout de PostgreSQL); <= 0 usa 3 s.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &Store{
		sequences:   make(map[string]entity.CaseSequence),
		rowLocks:    make(map[string]*semaphore.Weighted),
		records:     make(map[string]*storedRecord),
		users:       make(map[string]*entity.User),
		reports:     make(map[string]*storedReport),
		lockTimeout: lockTimeout,
	}
}

// rowLock devuelve el semáforo de la categoría, creándolo si hace falta.
func (s *Store) rowLock(category string) *semaphore.Weighted {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rowLocks[category]
	if !ok {
		l = semaphore.NewWeighted(1)
		s.rowLocks[category] = l
	}
	return l
}

// SetSequence fija el estado de un consecutivo sin pasar por el asignador
// (reinicios externos y preparación de pruebas).
func (s *Store) SetSequence(seq entity.CaseSequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[seq.Category] = seq
}

// Sequence devuelve el estado confirmado de un consecutivo.
func (s *Store) Sequence(category string) (entity.CaseSequence, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, ok := s.sequences[category]
	return seq, ok
}

func (s *Store) sortedCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := make([]string, 0, len(s.sequences))
	for c := range s.sequences {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}
