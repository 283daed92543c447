package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/repository"
)

var _ repository.CaseRecordRepository = (*CaseRecordRepo)(nil)

// CaseRecordRepo registros de casos sobre la tabla sms_record (usable con pool o tx).
type CaseRecordRepo struct {
	q Querier
}

// NewCaseRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCaseRecordRepository(q Querier) *CaseRecordRepo {
	return &CaseRecordRepo{q: q}
}

const recordColumns = `r.id, COALESCE(r.user_id::text, ''), r.case_no, r.sms_text, r.is_fraud, r.fraud_type, r.detail, r.created_at`

// Create inserta el registro; case_no repetido -> domain.ErrDuplicate.
func (r *CaseRecordRepo) Create(ctx context.Context, rec *entity.CaseRecord) error {
	query := `
		INSERT INTO sms_record (id, user_id, case_no, sms_text, is_fraud, fraud_type, detail, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.UserID, rec.CaseNo, rec.SMSText, rec.IsFraud, rec.FraudType, rec.Detail, rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: case_no %s", domain.ErrDuplicate, rec.CaseNo)
		}
		return fmt.Errorf("insert sms_record: %w", err)
	}
	return nil
}

func (r *CaseRecordRepo) GetByID(ctx context.Context, id string) (*entity.CaseRecord, error) {
	return r.getOne(ctx, `SELECT `+recordColumns+` FROM sms_record r WHERE r.id = $1`, id)
}

func (r *CaseRecordRepo) GetByCaseNo(ctx context.Context, caseNo string) (*entity.CaseRecord, error) {
	return r.getOne(ctx, `SELECT `+recordColumns+` FROM sms_record r WHERE r.case_no = $1`, caseNo)
}

func (r *CaseRecordRepo) getOne(ctx context.Context, query string, arg any) (*entity.CaseRecord, error) {
	var rec entity.CaseRecord
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&rec.ID, &rec.UserID, &rec.CaseNo, &rec.SMSText, &rec.IsFraud, &rec.FraudType, &rec.Detail, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sms_record: %w", err)
	}
	return &rec, nil
}

// List registros con el username del remitente; el total se calcula con la misma condición.
func (r *CaseRecordRepo) List(ctx context.Context, f repository.CaseRecordFilter) ([]*entity.CaseRecordView, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.FraudType != "" {
		args = append(args, f.FraudType)
		conds = append(conds, fmt.Sprintf("r.fraud_type = $%d", len(args)))
	}
	if f.IsFraud != nil {
		args = append(args, *f.IsFraud)
		conds = append(conds, fmt.Sprintf("r.is_fraud = $%d", len(args)))
	}
	if f.Keyword != "" {
		args = append(args, "%"+escapeLike(f.Keyword)+"%")
		conds = append(conds, fmt.Sprintf("(r.sms_text ILIKE $%d OR u.username ILIKE $%d)", len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	from := `FROM sms_record r LEFT JOIN users u ON u.id = r.user_id ` + where

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sms_record: %w", err)
	}

	query := `SELECT ` + recordColumns + `, COALESCE(u.username, '') ` + from + ` ORDER BY r.created_at, r.id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sms_record: %w", err)
	}
	defer rows.Close()
	var list []*entity.CaseRecordView
	for rows.Next() {
		var v entity.CaseRecordView
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.CaseNo, &v.SMSText, &v.IsFraud, &v.FraudType, &v.Detail, &v.CreatedAt, &v.Username,
		); err != nil {
			return nil, 0, fmt.Errorf("scan sms_record: %w", err)
		}
		list = append(list, &v)
	}
	return list, total, rows.Err()
}

func (r *CaseRecordRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sms_record WHERE id = $1`, id)
	if isInvalidText(err) {
		return fmt.Errorf("%w: registro %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete sms_record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: registro %s", domain.ErrNotFound, id)
	}
	return nil
}

// DeleteByCategory el código es un único carácter alfanumérico: no necesita escape en LIKE.
func (r *CaseRecordRepo) DeleteByCategory(ctx context.Context, code string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM sms_record WHERE case_no LIKE $1 || '%'`, code)
	if err != nil {
		return 0, fmt.Errorf("delete sms_record by category: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *CaseRecordRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM sms_record`)
	if err != nil {
		return 0, fmt.Errorf("delete sms_record: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *CaseRecordRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sms_record WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sms_record since: %w", err)
	}
	return n, nil
}

func (r *CaseRecordRepo) CountFraud(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sms_record WHERE is_fraud`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count fraud sms_record: %w", err)
	}
	return n, nil
}

// TopFraudType el porcentaje sale como NUMERIC y se escanea a decimal.Decimal
// (codec registrado en AfterConnect).
func (r *CaseRecordRepo) TopFraudType(ctx context.Context) (*repository.FraudTypeShare, error) {
	query := `
		SELECT fraud_type, COUNT(*) AS cnt,
		       ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 2) AS pct
		FROM sms_record
		WHERE is_fraud
		GROUP BY fraud_type
		ORDER BY cnt DESC, fraud_type
		LIMIT 1`
	var s repository.FraudTypeShare
	err := r.q.QueryRow(ctx, query).Scan(&s.FraudType, &s.Count, &s.Percentage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("top fraud type: %w", err)
	}
	return &s, nil
}

// escapeLike escapa los comodines de LIKE/ILIKE (escape por defecto: barra invertida).
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
