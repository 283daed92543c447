package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo denuncias sobre la tabla report_record.
type ReportRepo struct {
	q Querier
}

func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	query := `
		INSERT INTO report_record (id, user_id, report_type, content, source_info, status, created_at, updated_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		rep.ID, rep.UserID, rep.ReportType, rep.Content, rep.SourceInfo, rep.Status, rep.CreatedAt, rep.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: denuncia %s", domain.ErrDuplicate, rep.ID)
		}
		return fmt.Errorf("insert report_record: %w", err)
	}
	return nil
}

func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	query := `
		SELECT id, COALESCE(user_id::text, ''), report_type, content, source_info, status, created_at, updated_at
		FROM report_record WHERE id = $1`
	var rep entity.Report
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rep.ID, &rep.UserID, &rep.ReportType, &rep.Content, &rep.SourceInfo, &rep.Status, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report_record: %w", err)
	}
	return &rep, nil
}

func (r *ReportRepo) List(ctx context.Context, f repository.ReportFilter) ([]*entity.ReportView, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if f.ReportType != "" {
		args = append(args, f.ReportType)
		conds = append(conds, fmt.Sprintf("r.report_type = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	from := `FROM report_record r LEFT JOIN users u ON u.id = r.user_id ` + where

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count report_record: %w", err)
	}

	query := `
		SELECT r.id, COALESCE(r.user_id::text, ''), r.report_type, r.content, r.source_info, r.status,
		       r.created_at, r.updated_at, COALESCE(u.username, '') ` + from + `
		ORDER BY r.created_at DESC, r.id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list report_record: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReportView
	for rows.Next() {
		var v entity.ReportView
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.ReportType, &v.Content, &v.SourceInfo, &v.Status,
			&v.CreatedAt, &v.UpdatedAt, &v.Username,
		); err != nil {
			return nil, 0, fmt.Errorf("scan report_record: %w", err)
		}
		list = append(list, &v)
	}
	return list, total, rows.Err()
}

// UpdateStatus la subconsulta lee el estado anterior antes del UPDATE en la misma sentencia.
func (r *ReportRepo) UpdateStatus(ctx context.Context, id, status string) (string, error) {
	query := `
		UPDATE report_record r SET status = $2, updated_at = now()
		FROM (SELECT id, status FROM report_record WHERE id = $1 FOR UPDATE) old
		WHERE r.id = old.id
		RETURNING old.status`
	var old string
	err := r.q.QueryRow(ctx, query, id, status).Scan(&old)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return "", fmt.Errorf("%w: denuncia %s", domain.ErrNotFound, id)
		}
		return "", fmt.Errorf("update report_record status: %w", err)
	}
	return old, nil
}

func (r *ReportRepo) BatchUpdateStatus(ctx context.Context, ids []string, status string) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE report_record SET status = $2, updated_at = now() WHERE id::text = ANY($1::text[])`, ids, status)
	if err != nil {
		return 0, fmt.Errorf("batch update report_record: %w", err)
	}
	return tag.RowsAffected(), nil
}
