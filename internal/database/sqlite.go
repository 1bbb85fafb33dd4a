package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// executor abstracts the sqlx operations shared by *sqlx.DB and *sqlx.Tx.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLiteStore implements core.Store on SQLite through sqlx.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens the database at dsn and bootstraps the schema.
// dsn may carry a "sqlite:" or "sqlite://" prefix.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", sqliteDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite serializes writers; a single connection also keeps an
	// in-memory database alive for the life of the store.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func sqliteDSN(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		dsn = strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "sqlite:"):
		dsn = strings.TrimPrefix(dsn, "sqlite:")
	}
	if dsn == "" {
		dsn = ":memory:"
	}
	if !strings.Contains(dsn, "_busy_timeout") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_busy_timeout=5000"
	}
	return dsn
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// withTx runs fn in a transaction, rolling back when it fails.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(executor) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed after error %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// =============================================================================
// Airlines
// =============================================================================

type airlineRow struct {
	ID          string  `db:"id"`
	NumericCode string  `db:"numeric_code"`
	IATACode    string  `db:"iata_code"`
	Name        string  `db:"name"`
	CountryCode *string `db:"country_code"`
	Active      bool    `db:"active"`
	CreatedAt   string  `db:"created_at"`
	UpdatedAt   string  `db:"updated_at"`
}

func newAirlineRow(a core.Airline) airlineRow {
	return airlineRow{
		ID:          a.ID.String(),
		NumericCode: a.NumericCode,
		IATACode:    a.IATACode,
		Name:        a.Name,
		CountryCode: a.CountryCode,
		Active:      a.Active,
		CreatedAt:   formatSQLiteTime(a.CreatedAt),
		UpdatedAt:   formatSQLiteTime(a.UpdatedAt),
	}
}

func (r airlineRow) toAirline() (core.Airline, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return core.Airline{}, fmt.Errorf("airline id %q: %w", r.ID, err)
	}
	created, err := parseSQLiteTime(r.CreatedAt)
	if err != nil {
		return core.Airline{}, fmt.Errorf("airline created_at: %w", err)
	}
	updated, err := parseSQLiteTime(r.UpdatedAt)
	if err != nil {
		return core.Airline{}, fmt.Errorf("airline updated_at: %w", err)
	}
	return core.Airline{
		ID:          id,
		NumericCode: r.NumericCode,
		IATACode:    r.IATACode,
		Name:        r.Name,
		CountryCode: r.CountryCode,
		Active:      r.Active,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

func (s *SQLiteStore) ListAirlines(ctx context.Context) ([]core.Airline, error) {
	var rows []airlineRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+airlineColumns+` FROM airlines ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("query airlines: %w", err)
	}

	airlines := make([]core.Airline, 0, len(rows))
	for _, r := range rows {
		a, err := r.toAirline()
		if err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, nil
}

func (s *SQLiteStore) GetAirline(ctx context.Context, id uuid.UUID) (core.Airline, error) {
	return getAirline(ctx, s.db, id)
}

func getAirline(ctx context.Context, exec executor, id uuid.UUID) (core.Airline, error) {
	var row airlineRow
	err := exec.GetContext(ctx, &row, `SELECT `+airlineColumns+` FROM airlines WHERE id = ?`, id.String())
	if err != nil {
		return core.Airline{}, translateSQLiteError("airline", err)
	}
	return row.toAirline()
}

func (s *SQLiteStore) InsertAirline(ctx context.Context, a core.Airline) (core.Airline, error) {
	var out core.Airline
	err := s.withTx(ctx, func(exec executor) error {
		_, err := exec.NamedExecContext(ctx,
			`INSERT INTO airlines (`+airlineColumns+`)
			VALUES (:id, :numeric_code, :iata_code, :name, :country_code, :active, :created_at, :updated_at)`,
			newAirlineRow(a))
		if err != nil {
			return translateSQLiteError("airline", err)
		}
		out, err = getAirline(ctx, exec, a.ID)
		return err
	})
	return out, err
}

func (s *SQLiteStore) UpdateAirline(ctx context.Context, id uuid.UUID, patch core.AirlinePatch, updatedAt time.Time) (core.Airline, error) {
	var out core.Airline
	err := s.withTx(ctx, func(exec executor) error {
		current, err := getAirline(ctx, exec, id)
		if err != nil {
			return err
		}
		stamp := core.NextUpdatedAt(current.UpdatedAt, updatedAt)
		query, args := buildUpdate("airlines", patch.Assignments(), formatSQLiteTime(stamp), id.String(), sqliteDialect)
		if err := execAffectingOne(ctx, exec, "airline", query, args...); err != nil {
			return err
		}
		out, err = getAirline(ctx, exec, id)
		return err
	})
	return out, err
}

func (s *SQLiteStore) DeleteAirline(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "airline", `DELETE FROM airlines WHERE id = ?`, id)
}

// =============================================================================
// Airports
// =============================================================================

type airportRow struct {
	ID          string   `db:"id"`
	IATACode    string   `db:"iata_code"`
	ICAOCode    *string  `db:"icao_code"`
	Name        string   `db:"name"`
	City        string   `db:"city"`
	CountryCode string   `db:"country_code"`
	Latitude    *float64 `db:"latitude"`
	Longitude   *float64 `db:"longitude"`
	Elevation   *int     `db:"elevation"`
	Timezone    *string  `db:"timezone"`
	Active      bool     `db:"active"`
	CreatedAt   string   `db:"created_at"`
	UpdatedAt   string   `db:"updated_at"`
}

func newAirportRow(a core.Airport) airportRow {
	return airportRow{
		ID:          a.ID.String(),
		IATACode:    a.IATACode,
		ICAOCode:    a.ICAOCode,
		Name:        a.Name,
		City:        a.City,
		CountryCode: a.CountryCode,
		Latitude:    a.Latitude,
		Longitude:   a.Longitude,
		Elevation:   a.Elevation,
		Timezone:    a.Timezone,
		Active:      a.Active,
		CreatedAt:   formatSQLiteTime(a.CreatedAt),
		UpdatedAt:   formatSQLiteTime(a.UpdatedAt),
	}
}

func (r airportRow) toAirport() (core.Airport, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return core.Airport{}, fmt.Errorf("airport id %q: %w", r.ID, err)
	}
	created, err := parseSQLiteTime(r.CreatedAt)
	if err != nil {
		return core.Airport{}, fmt.Errorf("airport created_at: %w", err)
	}
	updated, err := parseSQLiteTime(r.UpdatedAt)
	if err != nil {
		return core.Airport{}, fmt.Errorf("airport updated_at: %w", err)
	}
	return core.Airport{
		ID:          id,
		IATACode:    r.IATACode,
		ICAOCode:    r.ICAOCode,
		Name:        r.Name,
		City:        r.City,
		CountryCode: r.CountryCode,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Elevation:   r.Elevation,
		Timezone:    r.Timezone,
		Active:      r.Active,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

func (s *SQLiteStore) ListAirports(ctx context.Context) ([]core.Airport, error) {
	var rows []airportRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+airportColumns+` FROM airports ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("query airports: %w", err)
	}

	airports := make([]core.Airport, 0, len(rows))
	for _, r := range rows {
		a, err := r.toAirport()
		if err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, nil
}

func (s *SQLiteStore) GetAirport(ctx context.Context, id uuid.UUID) (core.Airport, error) {
	return getAirport(ctx, s.db, id)
}

func getAirport(ctx context.Context, exec executor, id uuid.UUID) (core.Airport, error) {
	var row airportRow
	err := exec.GetContext(ctx, &row, `SELECT `+airportColumns+` FROM airports WHERE id = ?`, id.String())
	if err != nil {
		return core.Airport{}, translateSQLiteError("airport", err)
	}
	return row.toAirport()
}

func (s *SQLiteStore) InsertAirport(ctx context.Context, a core.Airport) (core.Airport, error) {
	var out core.Airport
	err := s.withTx(ctx, func(exec executor) error {
		_, err := exec.NamedExecContext(ctx,
			`INSERT INTO airports (`+airportColumns+`)
			VALUES (:id, :iata_code, :icao_code, :name, :city, :country_code, :latitude, :longitude,
				:elevation, :timezone, :active, :created_at, :updated_at)`,
			newAirportRow(a))
		if err != nil {
			return translateSQLiteError("airport", err)
		}
		out, err = getAirport(ctx, exec, a.ID)
		return err
	})
	return out, err
}

func (s *SQLiteStore) UpdateAirport(ctx context.Context, id uuid.UUID, patch core.AirportPatch, updatedAt time.Time) (core.Airport, error) {
	var out core.Airport
	err := s.withTx(ctx, func(exec executor) error {
		current, err := getAirport(ctx, exec, id)
		if err != nil {
			return err
		}
		stamp := core.NextUpdatedAt(current.UpdatedAt, updatedAt)
		query, args := buildUpdate("airports", patch.Assignments(), formatSQLiteTime(stamp), id.String(), sqliteDialect)
		if err := execAffectingOne(ctx, exec, "airport", query, args...); err != nil {
			return err
		}
		out, err = getAirport(ctx, exec, id)
		return err
	})
	return out, err
}

func (s *SQLiteStore) DeleteAirport(ctx context.Context, id uuid.UUID) (bool, error) {
	return deleteByID(ctx, s.db, "airport", `DELETE FROM airports WHERE id = ?`, id)
}

// =============================================================================
// Helpers
// =============================================================================

// execAffectingOne runs an UPDATE and reports ErrNotFound when no row
// matched.
func execAffectingOne(ctx context.Context, exec executor, entity, query string, args ...any) error {
	res, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return translateSQLiteError(entity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, exec executor, entity, query string, id uuid.UUID) (bool, error) {
	res, err := exec.ExecContext(ctx, query, id.String())
	if err != nil {
		return false, translateSQLiteError(entity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
