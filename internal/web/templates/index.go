// Package templates renders the HTML pages of the web server with templ.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// Dataset is one row of the index page.
type Dataset struct {
	Key   string
	Label string
	Rows  int
}

// Index renders the landing page: every dataset with its record count,
// API link and CSV export link.
func Index(title string, datasets []Dataset) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		sw := &stickyWriter{w: w}

		sw.write(`<!DOCTYPE html><html lang="ko"><head><meta charset="utf-8">`)
		sw.write(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		sw.write(`<title>` + templ.EscapeString(title) + `</title></head><body>`)
		sw.write(`<main><h1>` + templ.EscapeString(title) + `</h1>`)

		if len(datasets) == 0 {
			sw.write(`<p>No datasets registered.</p>`)
		} else {
			sw.write(`<table><thead><tr><th>Dataset</th><th>Records</th><th></th><th></th></tr></thead><tbody>`)
			for _, d := range datasets {
				sw.write(datasetRow(d))
			}
			sw.write(`</tbody></table>`)
		}

		sw.write(`</main></body></html>`)
		return sw.err
	})
}

func datasetRow(d Dataset) string {
	key := templ.EscapeString(d.Key)
	return `<tr><td>` + templ.EscapeString(d.Label) + `</td>` +
		`<td>` + strconv.Itoa(d.Rows) + `</td>` +
		`<td><a href="/` + key + `">JSON</a></td>` +
		`<td><a href="/` + key + `/export" download>CSV</a></td></tr>`
}

// stickyWriter keeps the first write error and skips later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) write(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}
