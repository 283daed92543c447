package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/antifraude-api/internal/domain"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual
// sobre el pool o dentro de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE usados.
const (
	codeUniqueViolation  = "23505"
	codeInvalidText      = "22P02"
	codeLockNotAvailable = "55P03"
	codeQueryCanceled    = "57014"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isInvalidText un id que no es UUID válido (22P02); para el llamador equivale a "no existe".
func isInvalidText(err error) bool {
	return pgCode(err) == codeInvalidText
}

// isLockWaitFailure lock_timeout vencido (55P03), statement cancelado (57014) o contexto vencido
// mientras se esperaba el bloqueo.
func isLockWaitFailure(err error) bool {
	switch pgCode(err) {
	case codeLockNotAvailable, codeQueryCanceled:
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// wrapBeginErr Begin que vence esperando conexión del pool es reintentable, como el bloqueo.
func wrapBeginErr(err error) error {
	if isLockWaitFailure(err) {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrLockTimeout, err)
	}
	return fmt.Errorf("begin transaction: %w", err)
}

// wrapLockErr traduce fallos de espera de bloqueo a domain.ErrLockTimeout.
func wrapLockErr(op, category string, err error) error {
	if isLockWaitFailure(err) {
		return fmt.Errorf("%w: %s %q: %v", domain.ErrLockTimeout, op, category, err)
	}
	return fmt.Errorf("%s %q: %w", op, category, err)
}
