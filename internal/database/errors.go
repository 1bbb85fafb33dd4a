package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// sqliteUniquePrefix starts the message of a SQLite unique constraint
// failure, e.g. "UNIQUE constraint failed: airlines.iata_code".
const sqliteUniquePrefix = "UNIQUE constraint failed: "

// translatePgError maps pgx errors onto the core store contract.
func translatePgError(entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &core.ConflictError{
			Entity: entity,
			Field:  conflictField(pgErr.TableName, pgErr.ConstraintName),
			Err:    err,
		}
	}
	return err
}

// conflictField derives the column from a "<table>_<column>_key" constraint
// name.
func conflictField(table, constraint string) string {
	field := strings.TrimSuffix(constraint, "_key")
	if table != "" {
		field = strings.TrimPrefix(field, table+"_")
	} else if i := strings.Index(field, "_"); i >= 0 {
		field = field[i+1:]
	}
	return field
}

// translateSQLiteError maps database/sql and go-sqlite3 errors onto the core
// store contract. go-sqlite3 builds without cgo as a stub, so the unique
// violation is recognized by message rather than by sqlite3.Error.
func translateSQLiteError(entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}

	msg := err.Error()
	if i := strings.Index(msg, sqliteUniquePrefix); i >= 0 {
		target := msg[i+len(sqliteUniquePrefix):]
		if j := strings.IndexAny(target, ", "); j >= 0 {
			target = target[:j]
		}
		if k := strings.LastIndex(target, "."); k >= 0 {
			target = target[k+1:]
		}
		return &core.ConflictError{Entity: entity, Field: target, Err: err}
	}
	return err
}
