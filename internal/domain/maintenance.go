package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceType distinguishes scheduled service from repairs.
type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "PREVENTIVA"
	MaintenanceCorrective MaintenanceType = "CORRETIVA"
)

// Valid reports whether t is a known maintenance type.
func (t MaintenanceType) Valid() bool {
	return t == MaintenancePreventive || t == MaintenanceCorrective
}

// MaintenanceStatus tracks whether a maintenance record was carried out.
type MaintenanceStatus string

const (
	MaintenancePending MaintenanceStatus = "PENDENTE"
	MaintenanceDone    MaintenanceStatus = "CONCLUIDA"
	MaintenanceOverdue MaintenanceStatus = "VENCIDA"
)

// Valid reports whether s is a known maintenance status.
func (s MaintenanceStatus) Valid() bool {
	return s == MaintenancePending || s == MaintenanceDone || s == MaintenanceOverdue
}

// Maintenance is one service record for a vehicle.
// NextDueKM and NextDueDate, when set, schedule the follow-up service.
type Maintenance struct {
	ID          uuid.UUID         `json:"id"`
	VehicleID   uuid.UUID         `json:"veiculo"`
	Date        Date              `json:"data"`
	Type        MaintenanceType   `json:"tipo"`
	Description string            `json:"descricao"`
	Cost        float64           `json:"custo"`
	Vendor      string            `json:"fornecedor,omitempty"`
	Odometer    *int              `json:"hodometro"`
	NextDueKM   *int              `json:"proxima_manutencao_km"`
	NextDueDate *Date             `json:"proxima_manutencao_data"`
	Status      MaintenanceStatus `json:"status"`
	CreatedAt   time.Time         `json:"criado_em"`
	UpdatedAt   time.Time         `json:"atualizado_em"`
}
