package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
// Transitions are strictly NÃO_INICIADA → EM_ANDAMENTO → FINALIZADA;
// there is no cancel path and FINALIZADA is terminal.
type TripStatus string

const (
	TripNotStarted TripStatus = "NÃO_INICIADA"
	TripInProgress TripStatus = "EM_ANDAMENTO"
	TripFinished   TripStatus = "FINALIZADA"
)

// Trip is a planned or executed journey of one vehicle with one driver.
//
// StartedAt and EndedAt are nil until the trip starts. While the trip is in
// progress EndedAt holds the scheduled end (start + requested duration);
// finishing overwrites it with the actual end time.
type Trip struct {
	ID            uuid.UUID  `json:"id"`
	VehicleID     uuid.UUID  `json:"veiculo"`
	DriverID      uuid.UUID  `json:"motorista"`
	StartedAt     *time.Time `json:"data_hora_inicio"`
	EndedAt       *time.Time `json:"data_hora_fim"`
	StartOdometer int        `json:"hodometro_saida"`
	EndOdometer   int        `json:"hodometro_chegada"`
	Origin        string     `json:"origem"`
	Destination   string     `json:"destino"`
	Purpose       string     `json:"finalidade,omitempty"`
	Status        TripStatus `json:"status"`
	CreatedAt     time.Time  `json:"criado_em"`
	UpdatedAt     time.Time  `json:"atualizado_em"`
}

// Distance returns the kilometres covered, never negative.
func (t Trip) Distance() int {
	if d := t.EndOdometer - t.StartOdometer; d > 0 {
		return d
	}
	return 0
}

// ActiveTrip is the lightweight snapshot of a driver's in-progress trip,
// as served by the em-andamento endpoint. EndsAt is the scheduled end the
// client counts down against.
type ActiveTrip struct {
	ID            uuid.UUID `json:"id"`
	VehicleID     uuid.UUID `json:"veiculo"`
	DriverID      uuid.UUID `json:"motorista"`
	StartedAt     time.Time `json:"data_hora_inicio"`
	EndsAt        time.Time `json:"data_hora_fim"`
	StartOdometer int       `json:"hodometro_saida"`
	Origin        string    `json:"origem"`
	Destination   string    `json:"destino"`
	Purpose       string    `json:"finalidade,omitempty"`
}

// TripFilter narrows trip listings. Zero values mean "no filter".
type TripFilter struct {
	Status   TripStatus
	DriverID uuid.UUID
}
