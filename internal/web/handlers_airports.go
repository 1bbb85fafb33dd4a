package web

import (
	"net/http"

	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListAirports(w http.ResponseWriter, r *http.Request) {
	airports, err := s.service.ListAirports(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, airports)
}

func (s *Server) handleCreateAirport(w http.ResponseWriter, r *http.Request) {
	var in core.AirportInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, invalidBody(err))
		return
	}

	airport, err := s.service.CreateAirport(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, airport)
}

func (s *Server) handleGetAirport(w http.ResponseWriter, r *http.Request) {
	airport, err := s.service.GetAirport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, airport)
}

func (s *Server) handleUpdateAirport(w http.ResponseWriter, r *http.Request) {
	var patch core.AirportPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, invalidBody(err))
		return
	}

	airport, err := s.service.UpdateAirport(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, airport)
}

func (s *Server) handleDeleteAirport(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteAirport(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
