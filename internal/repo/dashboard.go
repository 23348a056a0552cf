package repo

import (
	"context"
	"fmt"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// DashboardRepo computes the aggregate counts behind the dashboard cards.
type DashboardRepo interface {
	// Summary returns all dashboard counts in a single query.
	Summary(ctx context.Context) (domain.DashboardSummary, error)
}

type pgDashboardRepo struct {
	db db
}

// NewDashboardRepo constructs a DashboardRepo backed by the provided db connection.
func NewDashboardRepo(db db) DashboardRepo {
	return &pgDashboardRepo{db: db}
}

// Summary counts vehicles by status, maintenance by status, and vehicles with
// any expired document. One round trip; the filtered counts run over two
// small tables so subselects stay cheap.
func (r *pgDashboardRepo) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	const q = `
		SELECT
			(SELECT count(*) FROM vehicles WHERE status = 'ATIVO'),
			(SELECT count(*) FROM vehicles WHERE status = 'MANUTENCAO'),
			(SELECT count(*) FROM vehicles WHERE status = 'INATIVO'),
			(SELECT count(*) FROM maintenance WHERE status = 'PENDENTE'),
			(SELECT count(*) FROM maintenance WHERE status = 'VENCIDA'),
			(SELECT count(*) FROM vehicles
				WHERE ipva_due < current_date OR licensing_due < current_date)`

	var s domain.DashboardSummary
	err := r.db.QueryRow(ctx, q).Scan(
		&s.ActiveVehicles, &s.MaintenanceVehicles, &s.InactiveVehicles,
		&s.PendingMaintenance, &s.OverdueMaintenance, &s.ExpiredDocuments,
	)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("repo.DashboardRepo.Summary: %w", err)
	}
	return s, nil
}
