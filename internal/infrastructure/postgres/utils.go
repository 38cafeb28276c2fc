package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505") // unique_violation
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503):
// insertar con una referencia inexistente o borrar una fila todavía referenciada.
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503") // foreign_key_violation
}

// isOutOfRange verifica si un valor no cabe en el tipo de la columna (22003).
func isOutOfRange(err error) bool {
	return hasCode(err, "22003") // numeric_value_out_of_range
}

// hasCode compara solo el SQLSTATE de un *pgconn.PgError; el texto del error no cuenta.
func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// nullIfEmpty convierte "" en NULL para columnas UUID opcionales.
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
