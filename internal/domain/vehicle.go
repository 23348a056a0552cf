package domain

import (
	"time"

	"github.com/google/uuid"
)

// FuelType enumerates the fuel options shared by vehicles and fuel logs.
type FuelType string

const (
	FuelGasoline FuelType = "GASOLINA"
	FuelDiesel   FuelType = "DIESEL"
	FuelEthanol  FuelType = "ETANOL"
	FuelFlex     FuelType = "FLEX"
	FuelCNG      FuelType = "GNV"
	FuelElectric FuelType = "ELETRICO"
)

// Valid reports whether f is a known fuel type.
func (f FuelType) Valid() bool {
	switch f {
	case FuelGasoline, FuelDiesel, FuelEthanol, FuelFlex, FuelCNG, FuelElectric:
		return true
	}
	return false
}

// VehicleStatus is the operational state of a vehicle.
type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "ATIVO"
	VehicleMaintenance VehicleStatus = "MANUTENCAO"
	VehicleInactive    VehicleStatus = "INATIVO"
)

// Valid reports whether s is a known vehicle status.
func (s VehicleStatus) Valid() bool {
	return s == VehicleActive || s == VehicleMaintenance || s == VehicleInactive
}

// Vehicle is a fleet vehicle. Plate is unique across the fleet.
// IPVADue and LicensingDue are document validity dates; nil means the date
// was never recorded.
type Vehicle struct {
	ID           uuid.UUID     `json:"id"`
	Plate        string        `json:"placa"`
	Brand        string        `json:"marca"`
	Model        string        `json:"modelo"`
	Year         int           `json:"ano"`
	Color        string        `json:"cor,omitempty"`
	Chassis      string        `json:"chassi,omitempty"`
	FuelType     FuelType      `json:"tipo_combustivel"`
	Status       VehicleStatus `json:"status"`
	Odometer     int           `json:"hodometro_atual"`
	IPVADue      *Date         `json:"ipva_validade"`
	LicensingDue *Date         `json:"licenciamento_validade"`
	CreatedAt    time.Time     `json:"criado_em"`
	UpdatedAt    time.Time     `json:"atualizado_em"`
}

// IPVAExpired reports whether the IPVA document lapsed before today.
func (v Vehicle) IPVAExpired(today Date) bool {
	return v.IPVADue != nil && v.IPVADue.Before(today)
}

// LicensingExpired reports whether the licensing document lapsed before today.
func (v Vehicle) LicensingExpired(today Date) bool {
	return v.LicensingDue != nil && v.LicensingDue.Before(today)
}

// VehicleFilter narrows vehicle listings. Zero values mean "no filter".
// Plate matches as a case-insensitive substring.
type VehicleFilter struct {
	Plate    string
	Status   VehicleStatus
	FuelType FuelType
}
