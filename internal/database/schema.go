package database

// Unique constraints are named so a violation can be traced back to the
// field that caused it (see conflictField).

// postgresSchema bootstraps the PostgreSQL tables. Every statement is
// idempotent.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS airlines (
		id           UUID PRIMARY KEY,
		numeric_code TEXT NOT NULL,
		iata_code    TEXT NOT NULL,
		name         TEXT NOT NULL,
		country_code TEXT,
		active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL,
		CONSTRAINT airlines_numeric_code_key UNIQUE (numeric_code),
		CONSTRAINT airlines_iata_code_key UNIQUE (iata_code)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_airlines_name ON airlines(name)`,
	`CREATE TABLE IF NOT EXISTS airports (
		id           UUID PRIMARY KEY,
		iata_code    TEXT NOT NULL,
		icao_code    TEXT,
		name         TEXT NOT NULL,
		city         TEXT NOT NULL,
		country_code TEXT NOT NULL,
		latitude     DOUBLE PRECISION,
		longitude    DOUBLE PRECISION,
		elevation    INTEGER,
		timezone     TEXT,
		active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL,
		CONSTRAINT airports_iata_code_key UNIQUE (iata_code),
		CONSTRAINT airports_icao_code_key UNIQUE (icao_code)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_airports_name ON airports(name)`,
}

// sqliteSchema bootstraps the SQLite tables. Timestamps are stored as
// RFC 3339 text in UTC.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS airlines (
		id           TEXT PRIMARY KEY,
		numeric_code TEXT NOT NULL UNIQUE,
		iata_code    TEXT NOT NULL UNIQUE,
		name         TEXT NOT NULL,
		country_code TEXT,
		active       BOOLEAN NOT NULL DEFAULT 1,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_airlines_name ON airlines(name)`,
	`CREATE TABLE IF NOT EXISTS airports (
		id           TEXT PRIMARY KEY,
		iata_code    TEXT NOT NULL UNIQUE,
		icao_code    TEXT UNIQUE,
		name         TEXT NOT NULL,
		city         TEXT NOT NULL,
		country_code TEXT NOT NULL,
		latitude     REAL,
		longitude    REAL,
		elevation    INTEGER,
		timezone     TEXT,
		active       BOOLEAN NOT NULL DEFAULT 1,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_airports_name ON airports(name)`,
}

const (
	airlineColumns = `id, numeric_code, iata_code, name, country_code, active, created_at, updated_at`
	airportColumns = `id, iata_code, icao_code, name, city, country_code, latitude, longitude, elevation, timezone, active, created_at, updated_at`
)
