package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/iatacodes/internal/logging"
	"github.com/google/uuid"
)

const entityAirline = "airline"

// ListAirlines returns all airlines ordered by name. An empty table yields an
// empty, non-nil slice.
func (s *Service) ListAirlines(ctx context.Context) (airlines []Airline, err error) {
	defer func() { s.observe(entityAirline, "list", err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	airlines, err = s.store.ListAirlines(ctx)
	if err != nil {
		return nil, fmt.Errorf("list airlines: %w", err)
	}
	if airlines == nil {
		airlines = []Airline{}
	}
	return airlines, nil
}

// GetAirline retrieves an airline by ID.
func (s *Service) GetAirline(ctx context.Context, id string) (airline *Airline, err error) {
	defer func() { s.observe(entityAirline, "get", err) }()

	uid, err := parseID(entityAirline, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.store.GetAirline(ctx, uid)
	if err != nil {
		return nil, wrapStoreError(entityAirline, "get", uid, err)
	}
	return &result, nil
}

// CreateAirline validates in, assigns an ID and timestamps, and persists it.
func (s *Service) CreateAirline(ctx context.Context, in AirlineInput) (airline *Airline, err error) {
	defer func() { s.observe(entityAirline, "create", err) }()

	rec, err := in.normalize()
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	rec.ID = uuid.New()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.store.InsertAirline(ctx, rec)
	if err != nil {
		return nil, wrapStoreError(entityAirline, "create", rec.ID, err)
	}

	s.audit(ctx, "created", entityAirline, result.ID)
	return &result, nil
}

// UpdateAirline merges patch into the airline at id. Only supplied fields are
// validated and written; updated_at is always refreshed.
func (s *Service) UpdateAirline(ctx context.Context, id string, patch AirlinePatch) (airline *Airline, err error) {
	defer func() { s.observe(entityAirline, "update", err) }()

	uid, err := parseID(entityAirline, id)
	if err != nil {
		return nil, err
	}

	patch, err = patch.normalize()
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.store.UpdateAirline(ctx, uid, patch, s.timestamp())
	if err != nil {
		return nil, wrapStoreError(entityAirline, "update", uid, err)
	}

	s.audit(ctx, "updated", entityAirline, result.ID)
	return &result, nil
}

// DeleteAirline removes the airline at id. Deleting an id that does not
// exist succeeds.
func (s *Service) DeleteAirline(ctx context.Context, id string) (err error) {
	defer func() { s.observe(entityAirline, "delete", err) }()

	uid, err := parseID(entityAirline, id)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	deleted, err := s.store.DeleteAirline(ctx, uid)
	if err != nil {
		return fmt.Errorf("delete airline: %w", err)
	}
	if !deleted {
		logging.WithFields(ctx, "entity", entityAirline, "id", uid.String()).Debug("delete matched no rows")
		return nil
	}

	s.audit(ctx, "deleted", entityAirline, uid)
	return nil
}

// wrapStoreError adds operation context to a store failure and replaces a
// bare ErrNotFound with a NotFoundError that names the entity.
func wrapStoreError(entity, op string, id uuid.UUID, err error) error {
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id.String()}
	}
	var ce *ConflictError
	if errors.As(err, &ce) && ce.Entity == "" {
		ce.Entity = entity
	}
	return fmt.Errorf("%s %s: %w", op, entity, err)
}

func (in AirlineInput) normalize() (Airline, error) {
	var (
		a   Airline
		err error
	)

	if a.NumericCode, err = NormalizeNumericCode(in.NumericCode); err != nil {
		return Airline{}, err
	}
	if a.IATACode, err = NormalizeAirlineIATA(in.IATACode); err != nil {
		return Airline{}, err
	}
	if a.Name, err = ValidateText("name", in.Name); err != nil {
		return Airline{}, err
	}
	if a.CountryCode, err = normalizeOptionalCode(in.CountryCode, NormalizeCountryCode); err != nil {
		return Airline{}, err
	}

	a.Active = true
	if in.Active != nil {
		a.Active = *in.Active
	}
	return a, nil
}

func (p AirlinePatch) normalize() (AirlinePatch, error) {
	var err error

	if p.NumericCode, err = patchRequiredCode("numeric_code", p.NumericCode, NormalizeNumericCode); err != nil {
		return p, err
	}
	if p.IATACode, err = patchRequiredCode("iata_code", p.IATACode, NormalizeAirlineIATA); err != nil {
		return p, err
	}
	if p.Name, err = patchRequiredText("name", p.Name); err != nil {
		return p, err
	}
	if p.CountryCode, err = patchOptionalCode(p.CountryCode, NormalizeCountryCode); err != nil {
		return p, err
	}
	if err = patchRequiredBool("active", p.Active); err != nil {
		return p, err
	}
	return p, nil
}
