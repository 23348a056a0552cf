package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
)

func (s *Server) handleListFuelLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.fuelLogs.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleCreateFuelLog(w http.ResponseWriter, r *http.Request) {
	var l domain.FuelLog
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	created, err := s.fuelLogs.Create(r.Context(), l)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetFuelLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	l, err := s.fuelLogs.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdateFuelLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	var l domain.FuelLog
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}
	l.ID = id

	updated, err := s.fuelLogs.Update(r.Context(), l)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteFuelLog(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	if err := s.fuelLogs.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
