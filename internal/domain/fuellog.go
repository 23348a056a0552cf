package domain

import (
	"time"

	"github.com/google/uuid"
)

// FuelLog records one refuelling of a vehicle.
// AvgKmPerLiter is derived at creation time from the previous fuel log of the
// same vehicle: (odometer delta) / liters. It stays nil when there is no
// prior log or the odometer did not advance.
type FuelLog struct {
	ID            uuid.UUID `json:"id"`
	VehicleID     uuid.UUID `json:"veiculo"`
	Date          Date      `json:"data"`
	Odometer      int       `json:"hodometro"`
	Liters        float64   `json:"litros"`
	TotalCost     float64   `json:"custo_total"`
	FuelType      FuelType  `json:"tipo_combustivel"`
	Station       string    `json:"posto,omitempty"`
	AvgKmPerLiter *float64  `json:"media_km_l"`
	CreatedAt     time.Time `json:"criado_em"`
	UpdatedAt     time.Time `json:"atualizado_em"`
}
