package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
)

// MaintenanceService implements business logic for maintenance records.
// It holds the vehicle repo as well because creating a record requires
// verifying the vehicle exists.
type MaintenanceService struct {
	maintenance repo.MaintenanceRepo
	vehicles    repo.VehicleRepo
}

// NewMaintenanceService constructs a MaintenanceService backed by the provided repos.
func NewMaintenanceService(maintenance repo.MaintenanceRepo, vehicles repo.VehicleRepo) *MaintenanceService {
	return &MaintenanceService{maintenance: maintenance, vehicles: vehicles}
}

// Create validates the record, verifies the vehicle exists, then persists.
// Status defaults to PENDENTE.
func (s *MaintenanceService) Create(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error) {
	if m.Status == "" {
		m.Status = domain.MaintenancePending
	}
	if err := validateMaintenance(m); err != nil {
		return domain.Maintenance{}, err
	}
	if _, err := s.vehicles.GetByID(ctx, m.VehicleID); err != nil {
		return domain.Maintenance{}, fmt.Errorf("service.MaintenanceService.Create: %w", err)
	}
	result, err := s.maintenance.Create(ctx, m)
	if err != nil {
		return domain.Maintenance{}, fmt.Errorf("service.MaintenanceService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single maintenance record by ID.
func (s *MaintenanceService) GetByID(ctx context.Context, id uuid.UUID) (domain.Maintenance, error) {
	result, err := s.maintenance.GetByID(ctx, id)
	if err != nil {
		return domain.Maintenance{}, fmt.Errorf("service.MaintenanceService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all maintenance records.
// Always returns a non-nil slice so handlers serialize [] instead of null.
func (s *MaintenanceService) List(ctx context.Context) ([]domain.Maintenance, error) {
	records, err := s.maintenance.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.MaintenanceService.List: %w", err)
	}
	if records == nil {
		return []domain.Maintenance{}, nil
	}
	return records, nil
}

// Update validates and updates an existing maintenance record.
func (s *MaintenanceService) Update(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error) {
	if err := validateMaintenance(m); err != nil {
		return domain.Maintenance{}, err
	}
	result, err := s.maintenance.Update(ctx, m)
	if err != nil {
		return domain.Maintenance{}, fmt.Errorf("service.MaintenanceService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a maintenance record by ID.
func (s *MaintenanceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.maintenance.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.MaintenanceService.Delete: %w", err)
	}
	return nil
}

// validateMaintenance enforces business rules common to Create and Update.
func validateMaintenance(m domain.Maintenance) error {
	if m.VehicleID == uuid.Nil {
		return fmt.Errorf("%w: veiculo is required", domain.ErrValidation)
	}
	if m.Date.IsZero() {
		return fmt.Errorf("%w: data is required", domain.ErrValidation)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("%w: tipo is invalid", domain.ErrValidation)
	}
	if strings.TrimSpace(m.Description) == "" {
		return fmt.Errorf("%w: descricao is required", domain.ErrValidation)
	}
	if m.Cost < 0 {
		return fmt.Errorf("%w: custo must not be negative", domain.ErrValidation)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w: status is invalid", domain.ErrValidation)
	}
	return nil
}
