package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomitschek/crptrial/internal/domain"
)

const defaultRunLimit = 50

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []*domain.Run{}
	}
	respondJSON(w, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	respondJSON(w, run)
}

func (s *Server) handleGetObservations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.runs.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	ds, err := s.observations.ListByRunID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, observationsPayload(ds))
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := s.analyses.GetByRunID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if result == nil {
		http.Error(w, "analysis not found", http.StatusNotFound)
		return
	}
	respondJSON(w, result)
}

// observationRow mirrors the tidy CSV schema; missing CRP encodes as null.
type observationRow struct {
	PatientID int64        `json:"patient_id"`
	Group     domain.Group `json:"group"`
	Day       int          `json:"day"`
	CRP       domain.Float `json:"crp"`
}

func observationsPayload(ds *domain.Dataset) []observationRow {
	rows := make([]observationRow, 0, ds.Len())
	for _, o := range ds.Observations {
		rows = append(rows, observationRow{
			PatientID: o.PatientID,
			Group:     o.Group,
			Day:       o.Day,
			CRP:       domain.Float(o.CRP),
		})
	}
	return rows
}

func respondJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
