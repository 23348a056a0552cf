package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// driverResponse decorates a driver with the derived license validity flag.
type driverResponse struct {
	domain.Driver
	LicenseExpired bool `json:"cnh_vencida"`
}

func newDriverResponse(d domain.Driver) driverResponse {
	return driverResponse{Driver: d, LicenseExpired: d.LicenseExpired(domain.DateOf(timeNow()))}
}

func (s *Server) handleListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := s.drivers.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]driverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, newDriverResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDriver(w http.ResponseWriter, r *http.Request) {
	var d domain.Driver
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	created, err := s.drivers.Create(r.Context(), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newDriverResponse(created))
}

func (s *Server) handleGetDriver(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	d, err := s.drivers.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDriverResponse(d))
}

func (s *Server) handleUpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	var d domain.Driver
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}
	d.ID = id

	updated, err := s.drivers.Update(r.Context(), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDriverResponse(updated))
}

func (s *Server) handleDeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	if err := s.drivers.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
