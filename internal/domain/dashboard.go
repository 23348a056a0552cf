package domain

// DashboardSummary is the aggregate count set behind the dashboard cards.
// All counts are computed in a single round trip by the repo layer.
type DashboardSummary struct {
	ActiveVehicles      int `json:"veiculos_ativos"`
	MaintenanceVehicles int `json:"veiculos_manutencao"`
	InactiveVehicles    int `json:"veiculos_inativos"`
	PendingMaintenance  int `json:"manutencoes_pendentes"`
	OverdueMaintenance  int `json:"manutencoes_vencidas"`
	ExpiredDocuments    int `json:"documentacao_vencida"`
}
