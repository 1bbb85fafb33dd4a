package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/google/uuid"
)

// MemoryStore implements core.Store in process memory. It enforces the same
// uniqueness rules as the SQL schemas and is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	airlines map[uuid.UUID]core.Airline
	airports map[uuid.UUID]core.Airport
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		airlines: make(map[uuid.UUID]core.Airline),
		airports: make(map[uuid.UUID]core.Airport),
	}
}

// Ping always succeeds unless ctx is done.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *MemoryStore) Close() {}

// =============================================================================
// Airlines
// =============================================================================

func (s *MemoryStore) ListAirlines(ctx context.Context) ([]core.Airline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Airline, 0, len(s.airlines))
	for _, a := range s.airlines {
		out = append(out, cloneAirline(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *MemoryStore) GetAirline(ctx context.Context, id uuid.UUID) (core.Airline, error) {
	if err := ctx.Err(); err != nil {
		return core.Airline{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.airlines[id]
	if !ok {
		return core.Airline{}, core.ErrNotFound
	}
	return cloneAirline(a), nil
}

func (s *MemoryStore) InsertAirline(ctx context.Context, a core.Airline) (core.Airline, error) {
	if err := ctx.Err(); err != nil {
		return core.Airline{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.airlines[a.ID]; exists {
		return core.Airline{}, &core.ConflictError{Entity: "airline", Field: "id"}
	}
	if err := s.checkAirlineUnique(a); err != nil {
		return core.Airline{}, err
	}
	s.airlines[a.ID] = cloneAirline(a)
	return cloneAirline(a), nil
}

func (s *MemoryStore) UpdateAirline(ctx context.Context, id uuid.UUID, patch core.AirlinePatch, updatedAt time.Time) (core.Airline, error) {
	if err := ctx.Err(); err != nil {
		return core.Airline{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.airlines[id]
	if !ok {
		return core.Airline{}, core.ErrNotFound
	}

	next := cloneAirline(current)
	patch.Apply(&next)
	next.UpdatedAt = core.NextUpdatedAt(current.UpdatedAt, updatedAt)
	if err := s.checkAirlineUnique(next); err != nil {
		return core.Airline{}, err
	}
	s.airlines[id] = next
	return cloneAirline(next), nil
}

func (s *MemoryStore) DeleteAirline(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.airlines[id]; !ok {
		return false, nil
	}
	delete(s.airlines, id)
	return true, nil
}

// checkAirlineUnique must be called with mu held.
func (s *MemoryStore) checkAirlineUnique(a core.Airline) error {
	for id, other := range s.airlines {
		if id == a.ID {
			continue
		}
		if other.NumericCode == a.NumericCode {
			return &core.ConflictError{Entity: "airline", Field: "numeric_code"}
		}
		if other.IATACode == a.IATACode {
			return &core.ConflictError{Entity: "airline", Field: "iata_code"}
		}
	}
	return nil
}

// =============================================================================
// Airports
// =============================================================================

func (s *MemoryStore) ListAirports(ctx context.Context) ([]core.Airport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Airport, 0, len(s.airports))
	for _, a := range s.airports {
		out = append(out, cloneAirport(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *MemoryStore) GetAirport(ctx context.Context, id uuid.UUID) (core.Airport, error) {
	if err := ctx.Err(); err != nil {
		return core.Airport{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.airports[id]
	if !ok {
		return core.Airport{}, core.ErrNotFound
	}
	return cloneAirport(a), nil
}

func (s *MemoryStore) InsertAirport(ctx context.Context, a core.Airport) (core.Airport, error) {
	if err := ctx.Err(); err != nil {
		return core.Airport{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.airports[a.ID]; exists {
		return core.Airport{}, &core.ConflictError{Entity: "airport", Field: "id"}
	}
	if err := s.checkAirportUnique(a); err != nil {
		return core.Airport{}, err
	}
	s.airports[a.ID] = cloneAirport(a)
	return cloneAirport(a), nil
}

func (s *MemoryStore) UpdateAirport(ctx context.Context, id uuid.UUID, patch core.AirportPatch, updatedAt time.Time) (core.Airport, error) {
	if err := ctx.Err(); err != nil {
		return core.Airport{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.airports[id]
	if !ok {
		return core.Airport{}, core.ErrNotFound
	}

	next := cloneAirport(current)
	patch.Apply(&next)
	next.UpdatedAt = core.NextUpdatedAt(current.UpdatedAt, updatedAt)
	if err := s.checkAirportUnique(next); err != nil {
		return core.Airport{}, err
	}
	s.airports[id] = next
	return cloneAirport(next), nil
}

func (s *MemoryStore) DeleteAirport(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.airports[id]; !ok {
		return false, nil
	}
	delete(s.airports, id)
	return true, nil
}

// checkAirportUnique must be called with mu held. A null ICAO code never
// conflicts.
func (s *MemoryStore) checkAirportUnique(a core.Airport) error {
	for id, other := range s.airports {
		if id == a.ID {
			continue
		}
		if other.IATACode == a.IATACode {
			return &core.ConflictError{Entity: "airport", Field: "iata_code"}
		}
		if a.ICAOCode != nil && other.ICAOCode != nil && *a.ICAOCode == *other.ICAOCode {
			return &core.ConflictError{Entity: "airport", Field: "icao_code"}
		}
	}
	return nil
}

// =============================================================================
// Copies
// =============================================================================

// Records hold pointers; copies keep callers from mutating stored state.

func cloneAirline(a core.Airline) core.Airline {
	a.CountryCode = clonePtr(a.CountryCode)
	return a
}

func cloneAirport(a core.Airport) core.Airport {
	a.ICAOCode = clonePtr(a.ICAOCode)
	a.Latitude = clonePtr(a.Latitude)
	a.Longitude = clonePtr(a.Longitude)
	a.Elevation = clonePtr(a.Elevation)
	a.Timezone = clonePtr(a.Timezone)
	return a
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
