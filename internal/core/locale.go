package core

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Default export locale settings.
const (
	DefaultLocale   = "ko-KR"
	DefaultTimezone = "Asia/Seoul"
)

// supportedLocales lists the export locales in preference order; the first
// entry is the fallback.
var supportedLocales = []language.Tag{language.Korean, language.English}

var localeMatcher = language.NewMatcher(supportedLocales)

// Catalog keys used for export headers and values. The English text doubles
// as the key.
const (
	LabelID          = "ID"
	LabelNumericCode = "Numeric code"
	LabelIATACode    = "IATA code"
	LabelICAOCode    = "ICAO code"
	LabelAirlineName = "Airline name"
	LabelAirportName = "Airport name"
	LabelCity        = "City"
	LabelCountryCode = "Country code"
	LabelLatitude    = "Latitude"
	LabelLongitude   = "Longitude"
	LabelElevation   = "Elevation"
	LabelTimezone    = "Timezone"
	LabelStatus      = "Status"
	LabelCreatedAt   = "Created at"
	LabelUpdatedAt   = "Updated at"
	LabelActive      = "Active"
	LabelInactive    = "Inactive"
	LabelAirlines    = "Airlines"
	LabelAirports    = "Airports"
)

var koreanLabels = map[string]string{
	LabelID:          "ID",
	LabelNumericCode: "숫자코드",
	LabelIATACode:    "IATA코드",
	LabelICAOCode:    "ICAO코드",
	LabelAirlineName: "항공사명",
	LabelAirportName: "공항명",
	LabelCity:        "도시",
	LabelCountryCode: "국가코드",
	LabelLatitude:    "위도",
	LabelLongitude:   "경도",
	LabelElevation:   "고도",
	LabelTimezone:    "시간대",
	LabelStatus:      "활성상태",
	LabelCreatedAt:   "생성일",
	LabelUpdatedAt:   "수정일",
	LabelActive:      "활성",
	LabelInactive:    "비활성",
	LabelAirlines:    "항공사",
	LabelAirports:    "공항",
}

var labelCatalog = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, ko := range koreanLabels {
		// Keys are fixed literals; SetString only fails on malformed messages.
		_ = b.SetString(language.Korean, key, ko)
		_ = b.SetString(language.English, key, key)
	}
	return b
}

// Formatter renders export cells for one locale and time zone.
type Formatter struct {
	tag     language.Tag
	loc     *time.Location
	printer *message.Printer
}

// NewFormatter matches locale against the supported export locales and
// returns a Formatter rendering times in loc. A nil loc means UTC.
func NewFormatter(locale string, loc *time.Location) (*Formatter, error) {
	requested, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	_, index, confidence := localeMatcher.Match(requested)
	if confidence == language.No {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	if loc == nil {
		loc = time.UTC
	}

	tag := supportedLocales[index]
	return &Formatter{
		tag:     tag,
		loc:     loc,
		printer: message.NewPrinter(tag, message.Catalog(labelCatalog)),
	}, nil
}

// DefaultFormatter returns the Korean formatter in Asia/Seoul, falling back
// to UTC when the zone database is unavailable.
func DefaultFormatter() *Formatter {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	f, err := NewFormatter(DefaultLocale, loc)
	if err != nil {
		panic(err)
	}
	return f
}

// Locale returns the matched locale tag.
func (f *Formatter) Locale() string { return f.tag.String() }

// Location returns the time zone timestamps are rendered in.
func (f *Formatter) Location() *time.Location { return f.loc }

// Label translates a catalog key.
func (f *Formatter) Label(key string) string {
	return f.printer.Sprintf(key)
}

// Bool renders an active flag.
func (f *Formatter) Bool(active bool) string {
	if active {
		return f.Label(LabelActive)
	}
	return f.Label(LabelInactive)
}

// Time renders t as a locale date-time string in the formatter's zone.
func (f *Formatter) Time(t time.Time) string {
	t = t.In(f.loc)

	if f.tag != language.Korean {
		return t.Format("1/2/2006, 3:04:05 PM")
	}

	meridiem := "오전"
	if t.Hour() >= 12 {
		meridiem = "오후"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d. %d. %d. %s %d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), meridiem, hour, t.Minute(), t.Second())
}

// Text renders an optional string; nil is empty.
func (f *Formatter) Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Float renders an optional number in shortest round-trip form.
func (f *Formatter) Float(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Int renders an optional integer.
func (f *Formatter) Int(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
