package core

// validation.go provides field-level validation for reference codes.
//
// Every validator takes the raw client value and returns the normalized form
// (trimmed, letter codes uppercased) or a ValidationError naming the field.
// Validation always runs before the store is touched, so a rejected request
// never mutates state.

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	numericCodeRE = regexp.MustCompile(`^[0-9]{3}$`)
	airlineIATARE = regexp.MustCompile(`^[A-Z]{2}$`)
	airportIATARE = regexp.MustCompile(`^[A-Z]{3}$`)
	icaoCodeRE    = regexp.MustCompile(`^[A-Z]{4}$`)
	countryCodeRE = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // JSON field name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// requiredError reports a missing or null required field.
func requiredError(field string) error {
	return ValidationError{Field: field, Message: "is required"}
}

// NormalizeNumericCode validates a 3-digit airline numeric code.
func NormalizeNumericCode(value string) (string, error) {
	return normalizeCode("numeric_code", value, false, numericCodeRE, "must be exactly 3 digits")
}

// NormalizeAirlineIATA validates and uppercases a 2-letter airline designator.
func NormalizeAirlineIATA(value string) (string, error) {
	return normalizeCode("iata_code", value, true, airlineIATARE, "must be exactly 2 letters (A-Z)")
}

// NormalizeAirportIATA validates and uppercases a 3-letter airport code.
func NormalizeAirportIATA(value string) (string, error) {
	return normalizeCode("iata_code", value, true, airportIATARE, "must be exactly 3 letters (A-Z)")
}

// NormalizeICAO validates and uppercases a 4-letter ICAO airport indicator.
func NormalizeICAO(value string) (string, error) {
	return normalizeCode("icao_code", value, true, icaoCodeRE, "must be exactly 4 letters (A-Z)")
}

// NormalizeCountryCode validates and uppercases a 2-letter country code.
func NormalizeCountryCode(value string) (string, error) {
	return normalizeCode("country_code", value, true, countryCodeRE, "must be exactly 2 letters (A-Z)")
}

func normalizeCode(field, value string, upper bool, re *regexp.Regexp, msg string) (string, error) {
	code := strings.TrimSpace(value)
	if code == "" {
		return "", requiredError(field)
	}
	if upper {
		code = strings.ToUpper(code)
	}
	if !re.MatchString(code) {
		return "", ValidationError{Field: field, Value: value, Message: msg}
	}
	return code, nil
}

// ValidateText trims a required free-text field and rejects blank values.
func ValidateText(field, value string) (string, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", requiredError(field)
	}
	return text, nil
}

// ValidateLatitude checks that v lies in [-90, 90].
func ValidateLatitude(v float64) error {
	return checkRange("latitude", v, -90, 90)
}

// ValidateLongitude checks that v lies in [-180, 180].
func ValidateLongitude(v float64) error {
	return checkRange("longitude", v, -180, 180)
}

// ValidateElevation checks that v fits the 32-bit integer column every store
// keeps elevation in.
func ValidateElevation(v int) error {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return ValidationError{
			Field:   "elevation",
			Value:   fmt.Sprint(v),
			Message: fmt.Sprintf("must be between %d and %d", math.MinInt32, math.MaxInt32),
		}
	}
	return nil
}

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < lo || v > hi {
		return ValidationError{
			Field:   field,
			Value:   fmt.Sprint(v),
			Message: fmt.Sprintf("must be between %g and %g", lo, hi),
		}
	}
	return nil
}

// normalizeOptionalCode applies norm to an optional code. A blank string is
// treated as null because form clients submit "" for an empty input.
func normalizeOptionalCode(value *string, norm func(string) (string, error)) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	code, err := norm(*value)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// normalizeOptionalText trims an optional free-text value; blank becomes null.
func normalizeOptionalText(value *string) *string {
	if value == nil {
		return nil
	}
	text := strings.TrimSpace(*value)
	if text == "" {
		return nil
	}
	return &text
}

// patchRequiredCode validates a supplied required code in a patch.
func patchRequiredCode(field string, o Optional[string], norm func(string) (string, error)) (Optional[string], error) {
	if !o.Set {
		return o, nil
	}
	if o.Null {
		return o, requiredError(field)
	}
	code, err := norm(o.Value)
	if err != nil {
		return o, err
	}
	return Some(code), nil
}

// patchRequiredText validates a supplied required text field in a patch.
func patchRequiredText(field string, o Optional[string]) (Optional[string], error) {
	if !o.Set {
		return o, nil
	}
	if o.Null {
		return o, requiredError(field)
	}
	text, err := ValidateText(field, o.Value)
	if err != nil {
		return o, err
	}
	return Some(text), nil
}

// patchOptionalCode validates a supplied nullable code in a patch.
func patchOptionalCode(o Optional[string], norm func(string) (string, error)) (Optional[string], error) {
	if !o.Present() {
		return o, nil
	}
	code, err := normalizeOptionalCode(&o.Value, norm)
	if err != nil {
		return o, err
	}
	if code == nil {
		return Null[string](), nil
	}
	return Some(*code), nil
}

// patchOptionalText trims a supplied nullable text field in a patch.
func patchOptionalText(o Optional[string]) Optional[string] {
	if !o.Present() {
		return o
	}
	if text := normalizeOptionalText(&o.Value); text != nil {
		return Some(*text)
	}
	return Null[string]()
}

// patchRequiredBool rejects an explicit null for a non-nullable flag.
func patchRequiredBool(field string, o Optional[bool]) error {
	if o.Set && o.Null {
		return requiredError(field)
	}
	return nil
}
