package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatePgError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translatePgError("airline", nil))
	})

	t.Run("no rows", func(t *testing.T) {
		err := translatePgError("airline", fmt.Errorf("scan: %w", pgx.ErrNoRows))
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.Equal(t, core.KindNotFound, core.KindOf(err))
	})

	t.Run("unique violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:           "23505",
			TableName:      "airlines",
			ConstraintName: "airlines_iata_code_key",
		}
		err := translatePgError("airline", pgErr)

		var ce *core.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "airline", ce.Entity)
		assert.Equal(t, "iata_code", ce.Field)
		assert.Equal(t, "airline with this iata_code already exists", ce.Error())
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("other pg error passes through", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23502"}
		err := translatePgError("airport", pgErr)
		assert.Same(t, pgErr, err)
		assert.Equal(t, core.KindInternal, core.KindOf(err))
	})
}

func TestConflictField(t *testing.T) {
	tests := []struct {
		table, constraint, want string
	}{
		{"airlines", "airlines_numeric_code_key", "numeric_code"},
		{"airports", "airports_icao_code_key", "icao_code"},
		{"", "airports_iata_code_key", "iata_code"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, conflictField(tt.table, tt.constraint), tt.constraint)
	}
}

func TestTranslateSQLiteError(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		assert.ErrorIs(t, translateSQLiteError("airport", sql.ErrNoRows), core.ErrNotFound)
	})

	t.Run("unique violation", func(t *testing.T) {
		err := translateSQLiteError("airport", errors.New("UNIQUE constraint failed: airports.icao_code"))

		var ce *core.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "airport", ce.Entity)
		assert.Equal(t, "icao_code", ce.Field)
		assert.Equal(t, core.KindConflict, core.KindOf(err))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		orig := errors.New("database is locked")
		assert.Same(t, orig, translateSQLiteError("airline", orig))
	})
}
