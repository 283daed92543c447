package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo denuncias en memoria.
type ReportRepo struct {
	s   *Store
	now func() time.Time
}

func NewReportRepository(s *Store) *ReportRepo {
	return &ReportRepo{s: s, now: time.Now}
}

func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[rep.ID]; ok {
		return fmt.Errorf("%w: denuncia %s", domain.ErrDuplicate, rep.ID)
	}
	r.s.reportSeq++
	r.s.reports[rep.ID] = &storedReport{rep: *rep, seq: r.s.reportSeq}
	return nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sr, ok := r.s.reports[id]
	if !ok {
		return nil, nil
	}
	rep := sr.rep
	return &rep, nil
}

// List más recientes primero.
func (r *ReportRepo) List(ctx context.Context, f repository.ReportFilter) ([]*entity.ReportView, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*storedReport
	for _, sr := range r.s.reports {
		if f.Status != "" && sr.rep.Status != f.Status {
			continue
		}
		if f.ReportType != "" && sr.rep.ReportType != f.ReportType {
			continue
		}
		matched = append(matched, sr)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq > matched[j].seq })

	page := paginate(len(matched), f.Limit, f.Offset)
	out := make([]*entity.ReportView, 0, page.end-page.start)
	for _, sr := range matched[page.start:page.end] {
		v := &entity.ReportView{Report: sr.rep}
		if u, ok := r.s.users[sr.rep.UserID]; ok {
			v.Username = u.Username
		}
		out = append(out, v)
	}
	return out, len(matched), nil
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, id, status string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sr, ok := r.s.reports[id]
	if !ok {
		return "", fmt.Errorf("%w: denuncia %s", domain.ErrNotFound, id)
	}
	old := sr.rep.Status
	sr.rep.Status = status
	sr.rep.UpdatedAt = r.now()
	return old, nil
}

func (r *ReportRepo) BatchUpdateStatus(ctx context.Context, ids []string, status string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := r.now()
	for _, id := range ids {
		if sr, ok := r.s.reports[id]; ok {
			sr.rep.Status = status
			sr.rep.UpdatedAt = now
			n++
		}
	}
	return n, nil
}
