package tables

import (
	"context"

	"github.com/JonMunkholm/iatacodes/internal/core"
)

func init() {
	registerAirports()
}

func registerAirports() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "airports",
			Label: core.LabelAirports,
		},
		Columns: []core.ColumnSpec{
			{Header: core.LabelID},
			{Header: core.LabelIATACode},
			{Header: core.LabelICAOCode},
			{Header: core.LabelAirportName, Quoted: true},
			{Header: core.LabelCity, Quoted: true},
			{Header: core.LabelCountryCode},
			{Header: core.LabelLatitude},
			{Header: core.LabelLongitude},
			{Header: core.LabelElevation},
			{Header: core.LabelTimezone},
			{Header: core.LabelStatus},
			{Header: core.LabelCreatedAt},
			{Header: core.LabelUpdatedAt},
		},
		Rows: airportRows,
	})
}

func airportRows(ctx context.Context, store core.Store, f *core.Formatter) ([][]string, error) {
	airports, err := store.ListAirports(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(airports))
	for _, a := range airports {
		rows = append(rows, []string{
			a.ID.String(),
			a.IATACode,
			f.Text(a.ICAOCode),
			a.Name,
			a.City,
			a.CountryCode,
			f.Float(a.Latitude),
			f.Float(a.Longitude),
			f.Int(a.Elevation),
			f.Text(a.Timezone),
			f.Bool(a.Active),
			f.Time(a.CreatedAt),
			f.Time(a.UpdatedAt),
		})
	}
	return rows, nil
}
