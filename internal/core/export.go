package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// utf8BOM makes spreadsheet applications detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Export is a fully rendered CSV document.
type Export struct {
	Key      string
	Filename string
	Content  []byte
	Rows     int
}

// Export renders every record of the dataset registered under key as CSV.
// The whole document is built before it is returned, so a store failure
// never yields a partial file.
func (s *Service) Export(ctx context.Context, key string) (out *Export, err error) {
	defer func() { s.observe(key, "export", err) }()

	def, ok := Get(key)
	if !ok {
		return nil, fmt.Errorf("unknown table: %s", key)
	}

	if s.exports != nil {
		if err := s.exports.Acquire(ctx); err != nil {
			return nil, err
		}
		defer s.exports.Release()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := def.Rows(ctx, s.store, s.formatter)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", key, err)
	}

	headers := make([]string, len(def.Columns))
	for i, col := range def.Columns {
		headers[i] = s.formatter.Label(col.Header)
	}

	return &Export{
		Key:      key,
		Filename: fmt.Sprintf("%s_%s.csv", key, s.now().UTC().Format("2006-01-02")),
		Content:  EncodeCSV(def.Columns, headers, rows),
		Rows:     len(rows),
	}, nil
}

// EncodeCSV renders a header line and rows as a BOM-prefixed document.
// Lines are joined with "\n" without a trailing newline. Cells of quoted
// columns are always wrapped in double quotes; any other cell is quoted only
// when it contains a comma, a double quote, CR or LF. Embedded quotes are
// doubled.
func EncodeCSV(columns []ColumnSpec, headers []string, rows [][]string) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	writeLine := func(cells []string, forceQuote bool) {
		for i, cell := range cells {
			if i > 0 {
				buf.WriteByte(',')
			}
			quote := forceQuote && i < len(columns) && columns[i].Quoted
			buf.WriteString(encodeField(cell, quote))
		}
	}

	writeLine(headers, false)
	for _, row := range rows {
		buf.WriteByte('\n')
		writeLine(row, true)
	}

	return buf.Bytes()
}

func encodeField(v string, always bool) string {
	if !always && !strings.ContainsAny(v, ",\"\r\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// TableStat summarizes one registered dataset.
type TableStat struct {
	Key   string
	Label string
	Rows  int
}

// Tables lists every registered dataset with its localized label and
// current row count.
func (s *Service) Tables(ctx context.Context) ([]TableStat, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	defs := All()
	stats := make([]TableStat, 0, len(defs))
	for _, def := range defs {
		rows, err := def.Rows(ctx, s.store, s.formatter)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", def.Info.Key, err)
		}
		stats = append(stats, TableStat{
			Key:   def.Info.Key,
			Label: s.formatter.Label(def.Info.Label),
			Rows:  len(rows),
		})
	}
	return stats, nil
}
