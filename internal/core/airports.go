package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/iatacodes/internal/logging"
	"github.com/google/uuid"
)

const entityAirport = "airport"

// ListAirports returns all airports ordered by name. An empty table yields an
// empty, non-nil slice.
func (s *Service) ListAirports(ctx context.Context) (airports []Airport, err error) {
	defer func() { s.observe(entityAirport, "list", err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	airports, err = s.store.ListAirports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list airports: %w", err)
	}
	if airports == nil {
		airports = []Airport{}
	}
	return airports, nil
}

// GetAirport retrieves an airport by ID.
func (s *Service) GetAirport(ctx context.Context, id string) (airport *Airport, err error) {
	defer func() { s.observe(entityAirport, "get", err) }()

	uid, err := parseID(entityAirport, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.store.GetAirport(ctx, uid)
	if err != nil {
		return nil, wrapStoreError(entityAirport, "get", uid, err)
	}
	return &result, nil
}

// CreateAirport validates in, assigns an ID and timestamps, and persists it.
func (s *Service) CreateAirport(ctx context.Context, in AirportInput) (airport *Airport, err error) {
	defer func() { s.observe(entityAirport, "create", err) }()

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

	result, err := s.store.InsertAirport(ctx, rec)
	if err != nil {
		return nil, wrapStoreError(entityAirport, "create", rec.ID, err)
	}

	s.audit(ctx, "created", entityAirport, result.ID)
	return &result, nil
}

// UpdateAirport merges patch into the airport at id. Only supplied fields are
// validated and written; updated_at is always refreshed.
func (s *Service) UpdateAirport(ctx context.Context, id string, patch AirportPatch) (airport *Airport, err error) {
	defer func() { s.observe(entityAirport, "update", err) }()

	uid, err := parseID(entityAirport, id)
	if err != nil {
		return nil, err
	}

	patch, err = patch.normalize()
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.store.UpdateAirport(ctx, uid, patch, s.timestamp())
	if err != nil {
		return nil, wrapStoreError(entityAirport, "update", uid, err)
	}

	s.audit(ctx, "updated", entityAirport, result.ID)
	return &result, nil
}

// DeleteAirport removes the airport at id. Deleting an id that does not
// exist succeeds.
func (s *Service) DeleteAirport(ctx context.Context, id string) (err error) {
	defer func() { s.observe(entityAirport, "delete", err) }()

	uid, err := parseID(entityAirport, id)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	deleted, err := s.store.DeleteAirport(ctx, uid)
	if err != nil {
		return fmt.Errorf("delete airport: %w", err)
	}
	if !deleted {
		logging.WithFields(ctx, "entity", entityAirport, "id", uid.String()).Debug("delete matched no rows")
		return nil
	}

	s.audit(ctx, "deleted", entityAirport, uid)
	return nil
}

func (in AirportInput) normalize() (Airport, error) {
	var (
		a   Airport
		err error
	)

	if a.IATACode, err = NormalizeAirportIATA(in.IATACode); err != nil {
		return Airport{}, err
	}
	if a.ICAOCode, err = normalizeOptionalCode(in.ICAOCode, NormalizeICAO); err != nil {
		return Airport{}, err
	}
	if a.Name, err = ValidateText("name", in.Name); err != nil {
		return Airport{}, err
	}
	if a.City, err = ValidateText("city", in.City); err != nil {
		return Airport{}, err
	}
	if a.CountryCode, err = NormalizeCountryCode(in.CountryCode); err != nil {
		return Airport{}, err
	}
	if in.Latitude != nil {
		if err = ValidateLatitude(*in.Latitude); err != nil {
			return Airport{}, err
		}
	}
	if in.Longitude != nil {
		if err = ValidateLongitude(*in.Longitude); err != nil {
			return Airport{}, err
		}
	}
	if in.Elevation != nil {
		if err = ValidateElevation(*in.Elevation); err != nil {
			return Airport{}, err
		}
	}

	a.Latitude = in.Latitude
	a.Longitude = in.Longitude
	a.Elevation = in.Elevation
	a.Timezone = normalizeOptionalText(in.Timezone)

	a.Active = true
	if in.Active != nil {
		a.Active = *in.Active
	}
	return a, nil
}

func (p AirportPatch) normalize() (AirportPatch, error) {
	var err error

	if p.IATACode, err = patchRequiredCode("iata_code", p.IATACode, NormalizeAirportIATA); err != nil {
		return p, err
	}
	if p.ICAOCode, err = patchOptionalCode(p.ICAOCode, NormalizeICAO); err != nil {
		return p, err
	}
	if p.Name, err = patchRequiredText("name", p.Name); err != nil {
		return p, err
	}
	if p.City, err = patchRequiredText("city", p.City); err != nil {
		return p, err
	}
	if p.CountryCode, err = patchRequiredCode("country_code", p.CountryCode, NormalizeCountryCode); err != nil {
		return p, err
	}
	if p.Latitude.Present() {
		if err = ValidateLatitude(p.Latitude.Value); err != nil {
			return p, err
		}
	}
	if p.Longitude.Present() {
		if err = ValidateLongitude(p.Longitude.Value); err != nil {
			return p, err
		}
	}
	if p.Elevation.Present() {
		if err = ValidateElevation(p.Elevation.Value); err != nil {
			return p, err
		}
	}
	p.Timezone = patchOptionalText(p.Timezone)
	if err = patchRequiredBool("active", p.Active); err != nil {
		return p, err
	}
	return p, nil
}
