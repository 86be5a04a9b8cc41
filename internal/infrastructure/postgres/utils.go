package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE de unique_violation.
const codigoDuplicado = "23505"

// isUniqueViolation detecta choques de clave única (matrícula, número de
// póliza, configs activas) para que el repositorio los traduzca a
// domain.ErrDuplicate.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codigoDuplicado
}
