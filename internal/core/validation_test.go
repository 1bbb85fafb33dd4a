package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCodes(t *testing.T) {
	tests := []struct {
		name    string
		norm    func(string) (string, error)
		input   string
		want    string
		wantErr string
	}{
		{"numeric ok", NormalizeNumericCode, "180", "180", ""},
		{"numeric trimmed", NormalizeNumericCode, " 074 ", "074", ""},
		{"numeric too short", NormalizeNumericCode, "18", "", "numeric_code: must be exactly 3 digits"},
		{"numeric letters", NormalizeNumericCode, "1A0", "", "numeric_code: must be exactly 3 digits"},
		{"numeric blank", NormalizeNumericCode, "  ", "", "numeric_code: is required"},

		{"airline iata uppercased", NormalizeAirlineIATA, "ke", "KE", ""},
		{"airline iata trimmed", NormalizeAirlineIATA, " oz ", "OZ", ""},
		{"airline iata with digit", NormalizeAirlineIATA, "7C", "", "iata_code: must be exactly 2 letters (A-Z)"},
		{"airline iata too long", NormalizeAirlineIATA, "KAL", "", "iata_code: must be exactly 2 letters (A-Z)"},

		{"airport iata ok", NormalizeAirportIATA, "icn", "ICN", ""},
		{"airport iata too short", NormalizeAirportIATA, "IC", "", "iata_code: must be exactly 3 letters (A-Z)"},
		{"airport iata empty", NormalizeAirportIATA, "", "", "iata_code: is required"},

		{"icao ok", NormalizeICAO, "rksi", "RKSI", ""},
		{"icao too short", NormalizeICAO, "RKS", "", "icao_code: must be exactly 4 letters (A-Z)"},

		{"country ok", NormalizeCountryCode, "kr", "KR", ""},
		{"country non ascii", NormalizeCountryCode, "한국", "", "country_code: must be exactly 2 letters (A-Z)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.norm(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.Equal(t, KindInvalidArgument, KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateText(t *testing.T) {
	got, err := ValidateText("name", "  Korean Air ")
	require.NoError(t, err)
	assert.Equal(t, "Korean Air", got)

	_, err = ValidateText("city", " \t")
	require.Error(t, err)
	assert.Equal(t, "city: is required", err.Error())
}

func TestValidateCoordinates(t *testing.T) {
	for _, v := range []float64{-90, 0, 37.4602, 90} {
		assert.NoError(t, ValidateLatitude(v), v)
	}
	for _, v := range []float64{-90.0001, 90.5, math.NaN(), math.Inf(1)} {
		assert.Error(t, ValidateLatitude(v), v)
	}
	for _, v := range []float64{-180, 126.4407, 180} {
		assert.NoError(t, ValidateLongitude(v), v)
	}
	for _, v := range []float64{-181, 180.01, math.Inf(-1)} {
		assert.Error(t, ValidateLongitude(v), v)
	}

	err := ValidateLongitude(200)
	require.Error(t, err)
	assert.Equal(t, "longitude: must be between -180 and 180", err.Error())
}

func TestValidateElevation(t *testing.T) {
	for _, v := range []int{math.MinInt32, -7, 0, 5545, math.MaxInt32} {
		assert.NoError(t, ValidateElevation(v), v)
	}

	err := ValidateElevation(3000000000)
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "elevation", ve.Field)
	assert.Equal(t, "3000000000", ve.Value)

	assert.Error(t, ValidateElevation(math.MinInt32-1))
}

func TestNormalizeOptionalCode(t *testing.T) {
	got, err := normalizeOptionalCode(nil, NormalizeICAO)
	require.NoError(t, err)
	assert.Nil(t, got)

	blank := "  "
	got, err = normalizeOptionalCode(&blank, NormalizeICAO)
	require.NoError(t, err)
	assert.Nil(t, got, "blank is treated as null")

	code := "rkss"
	got, err = normalizeOptionalCode(&code, NormalizeICAO)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "RKSS", *got)

	bad := "RK"
	_, err = normalizeOptionalCode(&bad, NormalizeICAO)
	assert.Error(t, err)
}

func TestAirlineInputNormalize(t *testing.T) {
	country := " kr "
	in := AirlineInput{NumericCode: "180", IATACode: "ke", Name: " Korean Air ", CountryCode: &country}

	a, err := in.normalize()
	require.NoError(t, err)
	assert.Equal(t, "180", a.NumericCode)
	assert.Equal(t, "KE", a.IATACode)
	assert.Equal(t, "Korean Air", a.Name)
	require.NotNil(t, a.CountryCode)
	assert.Equal(t, "KR", *a.CountryCode)
	assert.True(t, a.Active, "active defaults to true")

	inactive := false
	in.Active = &inactive
	a, err = in.normalize()
	require.NoError(t, err)
	assert.False(t, a.Active)

	in.Name = ""
	_, err = in.normalize()
	assert.EqualError(t, err, "name: is required")
}

func TestAirportInputNormalize(t *testing.T) {
	lat, lon := 37.4602, 126.4407
	icao, tz := "rksi", "  "
	in := AirportInput{
		IATACode:    "icn",
		ICAOCode:    &icao,
		Name:        "Incheon International Airport",
		City:        "Incheon",
		CountryCode: "kr",
		Latitude:    &lat,
		Longitude:   &lon,
		Timezone:    &tz,
	}

	a, err := in.normalize()
	require.NoError(t, err)
	assert.Equal(t, "ICN", a.IATACode)
	require.NotNil(t, a.ICAOCode)
	assert.Equal(t, "RKSI", *a.ICAOCode)
	assert.Equal(t, "KR", a.CountryCode)
	assert.Nil(t, a.Timezone, "blank timezone becomes null")
	assert.True(t, a.Active)

	in.CountryCode = ""
	_, err = in.normalize()
	assert.EqualError(t, err, "country_code: is required")

	in.CountryCode = "KR"
	badLat := 91.0
	in.Latitude = &badLat
	_, err = in.normalize()
	assert.EqualError(t, err, "latitude: must be between -90 and 90")
}

func TestAirlinePatchNormalize(t *testing.T) {
	tests := []struct {
		name    string
		patch   AirlinePatch
		wantErr string
		check   func(t *testing.T, p AirlinePatch)
	}{
		{
			name:  "empty patch",
			patch: AirlinePatch{},
			check: func(t *testing.T, p AirlinePatch) { assert.Empty(t, p.Assignments()) },
		},
		{
			name:  "codes normalized",
			patch: AirlinePatch{IATACode: Some("oz"), CountryCode: Some(" kr")},
			check: func(t *testing.T, p AirlinePatch) {
				assert.Equal(t, Some("OZ"), p.IATACode)
				assert.Equal(t, Some("KR"), p.CountryCode)
			},
		},
		{
			name:  "blank country becomes null",
			patch: AirlinePatch{CountryCode: Some("")},
			check: func(t *testing.T, p AirlinePatch) { assert.Equal(t, Null[string](), p.CountryCode) },
		},
		{
			name:  "null country kept",
			patch: AirlinePatch{CountryCode: Null[string]()},
			check: func(t *testing.T, p AirlinePatch) { assert.True(t, p.CountryCode.Null) },
		},
		{
			name:    "null name rejected",
			patch:   AirlinePatch{Name: Null[string]()},
			wantErr: "name: is required",
		},
		{
			name:    "null active rejected",
			patch:   AirlinePatch{Active: Null[bool]()},
			wantErr: "active: is required",
		},
		{
			name:    "invalid numeric code",
			patch:   AirlinePatch{NumericCode: Some("12")},
			wantErr: "numeric_code: must be exactly 3 digits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.patch.normalize()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestAirportPatchNormalize(t *testing.T) {
	p, err := AirportPatch{ICAOCode: Some(""), Timezone: Some(" Asia/Seoul ")}.normalize()
	require.NoError(t, err)
	assert.Equal(t, Null[string](), p.ICAOCode)
	assert.Equal(t, Some("Asia/Seoul"), p.Timezone)

	_, err = AirportPatch{City: Null[string]()}.normalize()
	assert.EqualError(t, err, "city: is required")

	_, err = AirportPatch{Longitude: Some(-190.0)}.normalize()
	assert.EqualError(t, err, "longitude: must be between -180 and 180")

	_, err = AirportPatch{Elevation: Some(3000000000)}.normalize()
	assert.EqualError(t, err, "elevation: must be between -2147483648 and 2147483647")

	p, err = AirportPatch{Elevation: Null[int]()}.normalize()
	require.NoError(t, err)
	assert.Equal(t, []Assignment{{Column: "elevation", Value: nil}}, p.Assignments())

	p, err = AirportPatch{Latitude: Null[float64]()}.normalize()
	require.NoError(t, err)
	assert.Equal(t, []Assignment{{Column: "latitude", Value: nil}}, p.Assignments())
}
