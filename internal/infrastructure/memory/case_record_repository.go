package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

var _ repository.CaseRecordRepository = (*CaseRecordRepo)(nil)

// CaseRecordRepo registros de casos en memoria.
type CaseRecordRepo struct {
	s *Store
}

// NewCaseRecordRepository construye el repositorio sobre el almacén.
func NewCaseRecordRepository(s *Store) *CaseRecordRepo {
	return &CaseRecordRepo{s: s}
}

func (r *CaseRecordRepo) Create(ctx context.Context, rec *entity.CaseRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sr := range r.s.records {
		if sr.rec.CaseNo == rec.CaseNo {
			return fmt.Errorf("%w: case_no %s", domain.ErrDuplicate, rec.CaseNo)
		}
	}
	r.s.recordSeq++
	r.s.records[rec.ID] = &storedRecord{rec: *rec, seq: r.s.recordSeq}
	return nil
}

func (r *CaseRecordRepo) GetByID(ctx context.Context, id string) (*entity.CaseRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sr, ok := r.s.records[id]
	if !ok {
		return nil, nil
	}
	rec := sr.rec
	return &rec, nil
}

func (r *CaseRecordRepo) GetByCaseNo(ctx context.Context, caseNo string) (*entity.CaseRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sr := range r.s.records {
		if sr.rec.CaseNo == caseNo {
			rec := sr.rec
			return &rec, nil
		}
	}
	return nil, nil
}

// List filtra, ordena por inserción y pagina.
func (r *CaseRecordRepo) List(ctx context.Context, f repository.CaseRecordFilter) ([]*entity.CaseRecordView, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	keyword := strings.ToLower(f.Keyword)
	var matched []*storedRecord
	for _, sr := range r.s.records {
		if f.FraudType != "" && sr.rec.FraudType != f.FraudType {
			continue
		}
		if f.IsFraud != nil && sr.rec.IsFraud != *f.IsFraud {
			continue
		}
		if keyword != "" {
			username := ""
			if u, ok := r.s.users[sr.rec.UserID]; ok {
				username = u.Username
			}
			if !strings.Contains(strings.ToLower(sr.rec.SMSText), keyword) &&
				!strings.Contains(strings.ToLower(username), keyword) {
				continue
			}
		}
		matched = append(matched, sr)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	total := len(matched)
	page := paginate(len(matched), f.Limit, f.Offset)
	out := make([]*entity.CaseRecordView, 0, page.end-page.start)
	for _, sr := range matched[page.start:page.end] {
		v := &entity.CaseRecordView{CaseRecord: sr.rec}
		if u, ok := r.s.users[sr.rec.UserID]; ok {
			v.Username = u.Username
		}
		out = append(out, v)
	}
	return out, total, nil
}

func (r *CaseRecordRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.records[id]; !ok {
		return fmt.Errorf("%w: registro %s", domain.ErrNotFound, id)
	}
	delete(r.s.records, id)
	return nil
}

func (r *CaseRecordRepo) DeleteByCategory(ctx context.Context, code string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, sr := range r.s.records {
		if strings.HasPrefix(sr.rec.CaseNo, code) {
			delete(r.s.records, id)
			n++
		}
	}
	return n, nil
}

func (r *CaseRecordRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.records))
	r.s.records = make(map[string]*storedRecord)
	return n, nil
}

func (r *CaseRecordRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sr := range r.s.records {
		if !sr.rec.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *CaseRecordRepo) CountFraud(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, sr := range r.s.records {
		if sr.rec.IsFraud {
			n++
		}
	}
	return n, nil
}

// TopFraudType empates por nombre ascendente, igual que la consulta SQL.
func (r *CaseRecordRepo) TopFraudType(ctx context.Context) (*repository.FraudTypeShare, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[string]int)
	total := 0
	for _, sr := range r.s.records {
		if sr.rec.IsFraud {
			counts[sr.rec.FraudType]++
			total++
		}
	}
	if total == 0 {
		return nil, nil
	}
	var best string
	bestCount := -1
	for t, c := range counts {
		if c > bestCount || (c == bestCount && t < best) {
			best, bestCount = t, c
		}
	}
	pct := decimal.NewFromInt(int64(bestCount) * 100).
		DivRound(decimal.NewFromInt(int64(total)), 2)
	return &repository.FraudTypeShare{FraudType: best, Count: bestCount, Percentage: pct}, nil
}

// txRecordRepo vista de registros dentro de una transacción administrativa:
// los borrados quedan pendientes hasta el commit.
type txRecordRepo struct {
	*CaseRecordRepo
	tx *memTx
}

func (r *txRecordRepo) Delete(ctx context.Context, id string) error {
	rec, err := r.CaseRecordRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: registro %s", domain.ErrNotFound, id)
	}
	r.tx.deleteIDs = append(r.tx.deleteIDs, id)
	return nil
}

func (r *txRecordRepo) DeleteByCategory(ctx context.Context, code string) (int64, error) {
	r.s.mu.Lock()
	var n int64
	for _, sr := range r.s.records {
		if strings.HasPrefix(sr.rec.CaseNo, code) {
			n++
		}
	}
	r.s.mu.Unlock()
	r.tx.deletePrefixes = append(r.tx.deletePrefixes, code)
	return n, nil
}

func (r *txRecordRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	n := int64(len(r.s.records))
	r.s.mu.Unlock()
	r.tx.deleteAll = true
	return n, nil
}

type pageBounds struct{ start, end int }

// paginate recorta [offset, offset+limit) a n elementos; limit <= 0 devuelve todo.
func paginate(n, limit, offset int) pageBounds {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return pageBounds{start: offset, end: end}
}
