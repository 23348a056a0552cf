package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// vehicleResponse decorates a vehicle with the derived document flags the
// listing screens render as badges.
type vehicleResponse struct {
	domain.Vehicle
	IPVAExpired      bool `json:"ipva_vencido"`
	LicensingExpired bool `json:"licenciamento_vencido"`
}

func newVehicleResponse(v domain.Vehicle) vehicleResponse {
	today := domain.DateOf(timeNow())
	return vehicleResponse{
		Vehicle:          v,
		IPVAExpired:      v.IPVAExpired(today),
		LicensingExpired: v.LicensingExpired(today),
	}
}

// handleListVehicles handles GET /api/veiculos/ with optional placa, status,
// and tipo_combustivel query filters.
func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.VehicleFilter{
		Plate:    q.Get("placa"),
		Status:   domain.VehicleStatus(q.Get("status")),
		FuelType: domain.FuelType(q.Get("tipo_combustivel")),
	}

	vehicles, err := s.vehicles.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, newVehicleResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateVehicle handles POST /api/veiculos/.
func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var v domain.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	created, err := s.vehicles.Create(r.Context(), v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newVehicleResponse(created))
}

// handleGetVehicle handles GET /api/veiculos/{id}/.
func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	v, err := s.vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVehicleResponse(v))
}

// handleUpdateVehicle handles PUT /api/veiculos/{id}/.
func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	var v domain.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}
	v.ID = id

	updated, err := s.vehicles.Update(r.Context(), v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newVehicleResponse(updated))
}

// handleDeleteVehicle handles DELETE /api/veiculos/{id}/.
func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	if err := s.vehicles.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
