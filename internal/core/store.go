package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AirlineStore persists airlines. Implementations must:
//   - return rows of ListAirlines ordered by name ascending
//   - return ErrNotFound (possibly wrapped) when no row matches an id
//   - return a *ConflictError when a unique code is already taken
//   - perform each mutation as a single atomic statement
type AirlineStore interface {
	ListAirlines(ctx context.Context) ([]Airline, error)
	GetAirline(ctx context.Context, id uuid.UUID) (Airline, error)
	InsertAirline(ctx context.Context, a Airline) (Airline, error)
	// UpdateAirline applies a normalized patch and stamps updated_at.
	UpdateAirline(ctx context.Context, id uuid.UUID, patch AirlinePatch, updatedAt time.Time) (Airline, error)
	// DeleteAirline reports whether a row was removed.
	DeleteAirline(ctx context.Context, id uuid.UUID) (bool, error)
}

// AirportStore persists airports under the same contract as AirlineStore.
type AirportStore interface {
	ListAirports(ctx context.Context) ([]Airport, error)
	GetAirport(ctx context.Context, id uuid.UUID) (Airport, error)
	InsertAirport(ctx context.Context, a Airport) (Airport, error)
	UpdateAirport(ctx context.Context, id uuid.UUID, patch AirportPatch, updatedAt time.Time) (Airport, error)
	DeleteAirport(ctx context.Context, id uuid.UUID) (bool, error)
}

// Store is the record store adapter the service depends on.
type Store interface {
	AirlineStore
	AirportStore

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close()
}
