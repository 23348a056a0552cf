package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
)

func (s *Server) handleListMaintenance(w http.ResponseWriter, r *http.Request) {
	records, err := s.maintenance.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCreateMaintenance(w http.ResponseWriter, r *http.Request) {
	var m domain.Maintenance
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	created, err := s.maintenance.Create(r.Context(), m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	m, err := s.maintenance.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleUpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	var m domain.Maintenance
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}
	m.ID = id

	updated, err := s.maintenance.Update(r.Context(), m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	if err := s.maintenance.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
