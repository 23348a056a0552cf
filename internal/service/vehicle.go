package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
)

// VehicleService implements business logic for Vehicle operations.
type VehicleService struct {
	vehicles repo.VehicleRepo
}

// NewVehicleService constructs a VehicleService backed by the provided VehicleRepo.
func NewVehicleService(vehicles repo.VehicleRepo) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

// Create validates and persists a new vehicle. Status defaults to ATIVO.
func (s *VehicleService) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if v.Status == "" {
		v.Status = domain.VehicleActive
	}
	if err := validateVehicle(v); err != nil {
		return domain.Vehicle{}, err
	}
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	result, err := s.vehicles.Create(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single vehicle by ID.
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	result, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.GetByID: %w", err)
	}
	return result, nil
}

// List returns vehicles matching the filter.
// Always returns a non-nil slice so handlers serialize [] instead of null.
func (s *VehicleService) List(ctx context.Context, f domain.VehicleFilter) ([]domain.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.VehicleService.List: %w", err)
	}
	if vehicles == nil {
		return []domain.Vehicle{}, nil
	}
	return vehicles, nil
}

// Update validates and updates an existing vehicle.
func (s *VehicleService) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if err := validateVehicle(v); err != nil {
		return domain.Vehicle{}, err
	}
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	result, err := s.vehicles.Update(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a vehicle by ID.
func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	return nil
}

// validateVehicle enforces business rules common to Create and Update.
func validateVehicle(v domain.Vehicle) error {
	if strings.TrimSpace(v.Plate) == "" {
		return fmt.Errorf("%w: placa is required", domain.ErrValidation)
	}
	if strings.TrimSpace(v.Brand) == "" {
		return fmt.Errorf("%w: marca is required", domain.ErrValidation)
	}
	if strings.TrimSpace(v.Model) == "" {
		return fmt.Errorf("%w: modelo is required", domain.ErrValidation)
	}
	if v.Year < 1900 || v.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: ano is out of range", domain.ErrValidation)
	}
	if !v.FuelType.Valid() {
		return fmt.Errorf("%w: tipo_combustivel is invalid", domain.ErrValidation)
	}
	if !v.Status.Valid() {
		return fmt.Errorf("%w: status is invalid", domain.ErrValidation)
	}
	if v.Odometer < 0 {
		return fmt.Errorf("%w: hodometro_atual must not be negative", domain.ErrValidation)
	}
	return nil
}
