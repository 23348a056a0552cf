package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
)

// FuelLogService implements business logic for fuel logs.
// Its one derived value is the average consumption: on create, it compares
// the new log against the vehicle's previous log and stores km per liter.
type FuelLogService struct {
	logs     repo.FuelLogRepo
	vehicles repo.VehicleRepo
}

// NewFuelLogService constructs a FuelLogService backed by the provided repos.
func NewFuelLogService(logs repo.FuelLogRepo, vehicles repo.VehicleRepo) *FuelLogService {
	return &FuelLogService{logs: logs, vehicles: vehicles}
}

// Create validates the log, verifies the vehicle exists, computes the average
// consumption from the previous log, then persists.
func (s *FuelLogService) Create(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error) {
	if err := validateFuelLog(l); err != nil {
		return domain.FuelLog{}, err
	}
	if _, err := s.vehicles.GetByID(ctx, l.VehicleID); err != nil {
		return domain.FuelLog{}, fmt.Errorf("service.FuelLogService.Create: %w", err)
	}

	prev, err := s.logs.LatestByVehicle(ctx, l.VehicleID)
	switch {
	case err == nil:
		if distance := l.Odometer - prev.Odometer; distance > 0 && l.Liters > 0 {
			avg := float64(distance) / l.Liters
			l.AvgKmPerLiter = &avg
		}
	case errors.Is(err, domain.ErrNotFound):
		// First log for this vehicle: no baseline, average stays null.
	default:
		return domain.FuelLog{}, fmt.Errorf("service.FuelLogService.Create: %w", err)
	}

	result, err := s.logs.Create(ctx, l)
	if err != nil {
		return domain.FuelLog{}, fmt.Errorf("service.FuelLogService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single fuel log by ID.
func (s *FuelLogService) GetByID(ctx context.Context, id uuid.UUID) (domain.FuelLog, error) {
	result, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return domain.FuelLog{}, fmt.Errorf("service.FuelLogService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all fuel logs.
// Always returns a non-nil slice so handlers serialize [] instead of null.
func (s *FuelLogService) List(ctx context.Context) ([]domain.FuelLog, error) {
	logs, err := s.logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.FuelLogService.List: %w", err)
	}
	if logs == nil {
		return []domain.FuelLog{}, nil
	}
	return logs, nil
}

// Update validates and updates an existing fuel log.
// The stored average is not recomputed on update; it reflects the state of
// the log sequence at creation time.
func (s *FuelLogService) Update(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error) {
	if err := validateFuelLog(l); err != nil {
		return domain.FuelLog{}, err
	}
	result, err := s.logs.Update(ctx, l)
	if err != nil {
		return domain.FuelLog{}, fmt.Errorf("service.FuelLogService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a fuel log by ID.
func (s *FuelLogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.logs.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.FuelLogService.Delete: %w", err)
	}
	return nil
}

// validateFuelLog enforces business rules common to Create and Update.
func validateFuelLog(l domain.FuelLog) error {
	if l.VehicleID == uuid.Nil {
		return fmt.Errorf("%w: veiculo is required", domain.ErrValidation)
	}
	if l.Date.IsZero() {
		return fmt.Errorf("%w: data is required", domain.ErrValidation)
	}
	if l.Odometer < 0 {
		return fmt.Errorf("%w: hodometro must not be negative", domain.ErrValidation)
	}
	if l.Liters <= 0 {
		return fmt.Errorf("%w: litros must be positive", domain.ErrValidation)
	}
	if l.TotalCost < 0 {
		return fmt.Errorf("%w: custo_total must not be negative", domain.ErrValidation)
	}
	if !l.FuelType.Valid() {
		return fmt.Errorf("%w: tipo_combustivel is invalid", domain.ErrValidation)
	}
	return nil
}
