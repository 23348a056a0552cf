package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// tripResponse decorates a trip with the derived distance field.
type tripResponse struct {
	domain.Trip
	Distance int `json:"km_percorridos"`
}

func newTripResponse(t domain.Trip) tripResponse {
	return tripResponse{Trip: t, Distance: t.Distance()}
}

// handleListTrips handles GET /api/viagens/ with optional status and
// motorista query filters.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.TripFilter{Status: domain.TripStatus(q.Get("status"))}
	if raw := q.Get("motorista"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "motorista inválido")
			return
		}
		filter.DriverID = id
	}

	trips, err := s.trips.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, newTripResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var t domain.Trip
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	created, err := s.trips.Create(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTripResponse(created))
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	t, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTripResponse(t))
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	var t domain.Trip
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}
	t.ID = id

	updated, err := s.trips.Update(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTripResponse(updated))
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// activeTripResponse wraps the snapshot so the body is always an object:
// {"viagem": {...}} while a trip runs, {"viagem": null} otherwise.
type activeTripResponse struct {
	Trip *domain.ActiveTrip `json:"viagem"`
}

// handleActiveTrip handles GET /api/viagens/em-andamento/.
// 200 with a null viagem is the normal idle answer, not an error.
func (s *Server) handleActiveTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.ActiveTrip(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activeTripResponse{Trip: trip})
}

type startTripRequest struct {
	DurationMinutes int `json:"duracao_minutos"`
}

// handleStartTrip handles POST /api/viagens/{id}/iniciar/.
func (s *Server) handleStartTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	var req startTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	snapshot, err := s.trips.Start(r.Context(), actorFrom(r.Context()), id, req.DurationMinutes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activeTripResponse{Trip: &snapshot})
}

type finishTripRequest struct {
	EndOdometer int `json:"hodometro_chegada"`
}

// handleFinishTrip handles POST /api/viagens/{id}/finalizar/.
// Finishing an already finished trip answers 409; clients that raced an
// automatic finish treat that as success.
func (s *Server) handleFinishTrip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "id inválido")
		return
	}

	var req finishTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "corpo da requisição inválido")
		return
	}

	trip, err := s.trips.Finish(r.Context(), actorFrom(r.Context()), id, req.EndOdometer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTripResponse(trip))
}
