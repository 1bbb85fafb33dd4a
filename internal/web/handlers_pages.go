package web

import (
	"net/http"

	"github.com/JonMunkholm/iatacodes/internal/logging"
	"github.com/JonMunkholm/iatacodes/internal/web/templates"
	"github.com/a-h/templ"
)

// handleIndex renders the landing page listing every dataset.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Tables(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	datasets := make([]templates.Dataset, len(stats))
	for i, st := range stats {
		datasets[i] = templates.Dataset{Key: st.Key, Label: st.Label, Rows: st.Rows}
	}

	templ.Handler(templates.Index("IATA Codes", datasets)).ServeHTTP(w, r)
}

// handleHealth reports whether the record store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
