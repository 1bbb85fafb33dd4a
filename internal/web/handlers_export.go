package web

import (
	"fmt"
	"net/http"
	"strconv"
)

// handleExport streams the CSV export of a dataset. The document is fully
// rendered before the first byte is written, so failures still produce a
// JSON error.
func (s *Server) handleExport(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		export, err := s.service.Export(r.Context(), key)
		if err != nil {
			respondError(w, r, err)
			return
		}

		if s.metrics != nil {
			s.metrics.ObserveExport(export.Key, export.Rows)
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Content-Length", strconv.Itoa(len(export.Content)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(export.Content)
	}
}
