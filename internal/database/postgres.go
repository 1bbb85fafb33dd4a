package database

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/iatacodes/internal/config"
	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements core.Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool sized from cfg, verifies it and
// bootstraps the schema.
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Ping checks the pool connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// =============================================================================
// Airlines
// =============================================================================

func scanAirline(row pgx.Row) (core.Airline, error) {
	var (
		a           core.Airline
		id          pgtype.UUID
		countryCode pgtype.Text
		created     pgtype.Timestamptz
		updated     pgtype.Timestamptz
	)
	if err := row.Scan(&id, &a.NumericCode, &a.IATACode, &a.Name, &countryCode, &a.Active, &created, &updated); err != nil {
		return core.Airline{}, err
	}
	a.ID = fromPgUUID(id)
	a.CountryCode = fromPgText(countryCode)
	a.CreatedAt = fromPgTimestamptz(created)
	a.UpdatedAt = fromPgTimestamptz(updated)
	return a, nil
}

func (s *PostgresStore) ListAirlines(ctx context.Context) ([]core.Airline, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+airlineColumns+` FROM airlines ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query airlines: %w", err)
	}
	defer rows.Close()

	airlines := []core.Airline{}
	for rows.Next() {
		a, err := scanAirline(rows)
		if err != nil {
			return nil, fmt.Errorf("scan airline: %w", err)
		}
		airlines = append(airlines, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate airlines: %w", err)
	}
	return airlines, nil
}

func (s *PostgresStore) GetAirline(ctx context.Context, id uuid.UUID) (core.Airline, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+airlineColumns+` FROM airlines WHERE id = $1`, toPgUUID(id))
	a, err := scanAirline(row)
	return a, translatePgError("airline", err)
}

func (s *PostgresStore) InsertAirline(ctx context.Context, a core.Airline) (core.Airline, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO airlines (`+airlineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+airlineColumns,
		toPgUUID(a.ID), a.NumericCode, a.IATACode, a.Name, a.CountryCode, a.Active,
		toPgTimestamptz(a.CreatedAt), toPgTimestamptz(a.UpdatedAt),
	)
	out, err := scanAirline(row)
	return out, translatePgError("airline", err)
}

func (s *PostgresStore) UpdateAirline(ctx context.Context, id uuid.UUID, patch core.AirlinePatch, updatedAt time.Time) (core.Airline, error) {
	query, args := buildUpdate("airlines", patch.Assignments(), toPgTimestamptz(updatedAt), toPgUUID(id), postgresDialect)
	out, err := scanAirline(s.pool.QueryRow(ctx, query+` RETURNING `+airlineColumns, args...))
	return out, translatePgError("airline", err)
}

func (s *PostgresStore) DeleteAirline(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM airlines WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return false, translatePgError("airline", err)
	}
	return tag.RowsAffected() > 0, nil
}

// =============================================================================
// Airports
// =============================================================================

func scanAirport(row pgx.Row) (core.Airport, error) {
	var (
		a         core.Airport
		id        pgtype.UUID
		icao      pgtype.Text
		latitude  pgtype.Float8
		longitude pgtype.Float8
		elevation pgtype.Int4
		timezone  pgtype.Text
		created   pgtype.Timestamptz
		updated   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &a.IATACode, &icao, &a.Name, &a.City, &a.CountryCode,
		&latitude, &longitude, &elevation, &timezone, &a.Active, &created, &updated); err != nil {
		return core.Airport{}, err
	}
	a.ID = fromPgUUID(id)
	a.ICAOCode = fromPgText(icao)
	a.Latitude = fromPgFloat8(latitude)
	a.Longitude = fromPgFloat8(longitude)
	a.Elevation = fromPgInt4(elevation)
	a.Timezone = fromPgText(timezone)
	a.CreatedAt = fromPgTimestamptz(created)
	a.UpdatedAt = fromPgTimestamptz(updated)
	return a, nil
}

func (s *PostgresStore) ListAirports(ctx context.Context) ([]core.Airport, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+airportColumns+` FROM airports ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query airports: %w", err)
	}
	defer rows.Close()

	airports := []core.Airport{}
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan airport: %w", err)
		}
		airports = append(airports, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate airports: %w", err)
	}
	return airports, nil
}

func (s *PostgresStore) GetAirport(ctx context.Context, id uuid.UUID) (core.Airport, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+airportColumns+` FROM airports WHERE id = $1`, toPgUUID(id))
	a, err := scanAirport(row)
	return a, translatePgError("airport", err)
}

func (s *PostgresStore) InsertAirport(ctx context.Context, a core.Airport) (core.Airport, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO airports (`+airportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+airportColumns,
		toPgUUID(a.ID), a.IATACode, a.ICAOCode, a.Name, a.City, a.CountryCode,
		a.Latitude, a.Longitude, a.Elevation, a.Timezone, a.Active,
		toPgTimestamptz(a.CreatedAt), toPgTimestamptz(a.UpdatedAt),
	)
	out, err := scanAirport(row)
	return out, translatePgError("airport", err)
}

func (s *PostgresStore) UpdateAirport(ctx context.Context, id uuid.UUID, patch core.AirportPatch, updatedAt time.Time) (core.Airport, error) {
	query, args := buildUpdate("airports", patch.Assignments(), toPgTimestamptz(updatedAt), toPgUUID(id), postgresDialect)
	out, err := scanAirport(s.pool.QueryRow(ctx, query+` RETURNING `+airportColumns, args...))
	return out, translatePgError("airport", err)
}

func (s *PostgresStore) DeleteAirport(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM airports WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return false, translatePgError("airport", err)
	}
	return tag.RowsAffected() > 0, nil
}
