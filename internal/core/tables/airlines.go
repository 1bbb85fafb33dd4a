package tables

import (
	"context"

	"github.com/JonMunkholm/iatacodes/internal/core"
)

func init() {
	registerAirlines()
}

func registerAirlines() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   "airlines",
			Label: core.LabelAirlines,
		},
		Columns: []core.ColumnSpec{
			{Header: core.LabelID},
			{Header: core.LabelNumericCode},
			{Header: core.LabelIATACode},
			{Header: core.LabelAirlineName, Quoted: true},
			{Header: core.LabelCountryCode},
			{Header: core.LabelStatus},
			{Header: core.LabelCreatedAt},
			{Header: core.LabelUpdatedAt},
		},
		Rows: airlineRows,
	})
}

func airlineRows(ctx context.Context, store core.Store, f *core.Formatter) ([][]string, error) {
	airlines, err := store.ListAirlines(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(airlines))
	for _, a := range airlines {
		rows = append(rows, []string{
			a.ID.String(),
			a.NumericCode,
			a.IATACode,
			a.Name,
			f.Text(a.CountryCode),
			f.Bool(a.Active),
			f.Time(a.CreatedAt),
			f.Time(a.UpdatedAt),
		})
	}
	return rows, nil
}
