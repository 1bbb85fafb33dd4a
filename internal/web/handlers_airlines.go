package web

import (
	"net/http"

	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListAirlines(w http.ResponseWriter, r *http.Request) {
	airlines, err := s.service.ListAirlines(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, airlines)
}

func (s *Server) handleCreateAirline(w http.ResponseWriter, r *http.Request) {
	var in core.AirlineInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, invalidBody(err))
		return
	}

	airline, err := s.service.CreateAirline(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, airline)
}

func (s *Server) handleGetAirline(w http.ResponseWriter, r *http.Request) {
	airline, err := s.service.GetAirline(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, airline)
}

func (s *Server) handleUpdateAirline(w http.ResponseWriter, r *http.Request) {
	var patch core.AirlinePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, invalidBody(err))
		return
	}

	airline, err := s.service.UpdateAirline(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, airline)
}

func (s *Server) handleDeleteAirline(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteAirline(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
