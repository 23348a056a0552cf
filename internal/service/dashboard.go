package service

import (
	"context"
	"fmt"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
)

// DashboardService exposes the aggregate counts for the dashboard cards.
type DashboardService struct {
	dashboard repo.DashboardRepo
}

// NewDashboardService constructs a DashboardService backed by the provided repo.
func NewDashboardService(dashboard repo.DashboardRepo) *DashboardService {
	return &DashboardService{dashboard: dashboard}
}

// Summary returns the current dashboard counts.
func (s *DashboardService) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	summary, err := s.dashboard.Summary(ctx)
	if err != nil {
		return domain.DashboardSummary{}, fmt.Errorf("service.DashboardService.Summary: %w", err)
	}
	return summary, nil
}
