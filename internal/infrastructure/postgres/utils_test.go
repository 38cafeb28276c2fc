package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestCodigosSQLState(t *testing.T) {
	dup := fmt.Errorf("insert item: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	rng := fmt.Errorf("upsert inventory count: %w", &pgconn.PgError{Code: "22003"})

	assert.True(t, isUniqueViolation(dup))
	assert.False(t, isForeignKeyViolation(dup))
	assert.True(t, isForeignKeyViolation(fk))
	assert.True(t, isOutOfRange(rng))
}

func TestCodigosSQLState_IgnoraElTexto(t *testing.T) {
	err := errors.New(`item "23505" no encontrado en lote 23503`)
	assert.False(t, isUniqueViolation(err))
	assert.False(t, isForeignKeyViolation(err))
	assert.False(t, isOutOfRange(nil))
}
