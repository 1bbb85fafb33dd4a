package core

import (
	"time"

	"github.com/google/uuid"
)

// Airline is a carrier identified by its IATA designator and numeric
// (accounting) code.
type Airline struct {
	ID          uuid.UUID `json:"id"`
	NumericCode string    `json:"numeric_code"`
	IATACode    string    `json:"iata_code"`
	Name        string    `json:"name"`
	CountryCode *string   `json:"country_code"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Airport is an aerodrome identified by its IATA location code and,
// optionally, its ICAO indicator. Elevation is in meters.
type Airport struct {
	ID          uuid.UUID `json:"id"`
	IATACode    string    `json:"iata_code"`
	ICAOCode    *string   `json:"icao_code"`
	Name        string    `json:"name"`
	City        string    `json:"city"`
	CountryCode string    `json:"country_code"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Elevation   *int      `json:"elevation"`
	Timezone    *string   `json:"timezone"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AirlineInput carries the fields of a create request.
// Active defaults to true when omitted.
type AirlineInput struct {
	NumericCode string  `json:"numeric_code"`
	IATACode    string  `json:"iata_code"`
	Name        string  `json:"name"`
	CountryCode *string `json:"country_code"`
	Active      *bool   `json:"active"`
}

// AirportInput carries the fields of a create request.
// Active defaults to true when omitted.
type AirportInput struct {
	IATACode    string   `json:"iata_code"`
	ICAOCode    *string  `json:"icao_code"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	CountryCode string   `json:"country_code"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Elevation   *int     `json:"elevation"`
	Timezone    *string  `json:"timezone"`
	Active      *bool    `json:"active"`
}

// AirlinePatch is a merge-patch for an airline: only fields with Set == true
// are changed.
type AirlinePatch struct {
	NumericCode Optional[string] `json:"numeric_code"`
	IATACode    Optional[string] `json:"iata_code"`
	Name        Optional[string] `json:"name"`
	CountryCode Optional[string] `json:"country_code"`
	Active      Optional[bool]   `json:"active"`
}

// AirportPatch is a merge-patch for an airport: only fields with Set == true
// are changed.
type AirportPatch struct {
	IATACode    Optional[string]  `json:"iata_code"`
	ICAOCode    Optional[string]  `json:"icao_code"`
	Name        Optional[string]  `json:"name"`
	City        Optional[string]  `json:"city"`
	CountryCode Optional[string]  `json:"country_code"`
	Latitude    Optional[float64] `json:"latitude"`
	Longitude   Optional[float64] `json:"longitude"`
	Elevation   Optional[int]     `json:"elevation"`
	Timezone    Optional[string]  `json:"timezone"`
	Active      Optional[bool]    `json:"active"`
}

// Assignment is one "column = value" pair of an UPDATE statement.
// A nil Value writes NULL.
type Assignment struct {
	Column string
	Value  any
}

// Assignments lists the columns this patch changes, in table column order.
func (p AirlinePatch) Assignments() []Assignment {
	var set []Assignment
	set = appendAssignment(set, "numeric_code", p.NumericCode)
	set = appendAssignment(set, "iata_code", p.IATACode)
	set = appendAssignment(set, "name", p.Name)
	set = appendAssignment(set, "country_code", p.CountryCode)
	set = appendAssignment(set, "active", p.Active)
	return set
}

// Apply merges the patch into a.
func (p AirlinePatch) Apply(a *Airline) {
	applyValue(&a.NumericCode, p.NumericCode)
	applyValue(&a.IATACode, p.IATACode)
	applyValue(&a.Name, p.Name)
	applyPtr(&a.CountryCode, p.CountryCode)
	applyValue(&a.Active, p.Active)
}

// Assignments lists the columns this patch changes, in table column order.
func (p AirportPatch) Assignments() []Assignment {
	var set []Assignment
	set = appendAssignment(set, "iata_code", p.IATACode)
	set = appendAssignment(set, "icao_code", p.ICAOCode)
	set = appendAssignment(set, "name", p.Name)
	set = appendAssignment(set, "city", p.City)
	set = appendAssignment(set, "country_code", p.CountryCode)
	set = appendAssignment(set, "latitude", p.Latitude)
	set = appendAssignment(set, "longitude", p.Longitude)
	set = appendAssignment(set, "elevation", p.Elevation)
	set = appendAssignment(set, "timezone", p.Timezone)
	set = appendAssignment(set, "active", p.Active)
	return set
}

// Apply merges the patch into a.
func (p AirportPatch) Apply(a *Airport) {
	applyValue(&a.IATACode, p.IATACode)
	applyPtr(&a.ICAOCode, p.ICAOCode)
	applyValue(&a.Name, p.Name)
	applyValue(&a.City, p.City)
	applyValue(&a.CountryCode, p.CountryCode)
	applyPtr(&a.Latitude, p.Latitude)
	applyPtr(&a.Longitude, p.Longitude)
	applyPtr(&a.Elevation, p.Elevation)
	applyPtr(&a.Timezone, p.Timezone)
	applyValue(&a.Active, p.Active)
}

func appendAssignment[T any](set []Assignment, column string, o Optional[T]) []Assignment {
	if !o.Set {
		return set
	}
	if o.Null {
		return append(set, Assignment{Column: column, Value: nil})
	}
	return append(set, Assignment{Column: column, Value: o.Value})
}

func applyValue[T any](dst *T, o Optional[T]) {
	if o.Present() {
		*dst = o.Value
	}
}

func applyPtr[T any](dst **T, o Optional[T]) {
	if o.Set {
		*dst = o.Ptr()
	}
}
