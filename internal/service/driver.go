package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
)

// DriverService implements business logic for Driver operations.
type DriverService struct {
	drivers repo.DriverRepo
}

// NewDriverService constructs a DriverService backed by the provided DriverRepo.
func NewDriverService(drivers repo.DriverRepo) *DriverService {
	return &DriverService{drivers: drivers}
}

// Create validates and persists a new driver.
func (s *DriverService) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	if err := validateDriver(d); err != nil {
		return domain.Driver{}, err
	}
	result, err := s.drivers.Create(ctx, d)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single driver by ID.
func (s *DriverService) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	result, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all drivers.
// Always returns a non-nil slice so handlers serialize [] instead of null.
func (s *DriverService) List(ctx context.Context) ([]domain.Driver, error) {
	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.DriverService.List: %w", err)
	}
	if drivers == nil {
		return []domain.Driver{}, nil
	}
	return drivers, nil
}

// Update validates and updates an existing driver.
func (s *DriverService) Update(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	if err := validateDriver(d); err != nil {
		return domain.Driver{}, err
	}
	result, err := s.drivers.Update(ctx, d)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a driver by ID.
func (s *DriverService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.drivers.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.DriverService.Delete: %w", err)
	}
	return nil
}

// validateDriver enforces business rules common to Create and Update.
func validateDriver(d domain.Driver) error {
	if strings.TrimSpace(d.FullName) == "" {
		return fmt.Errorf("%w: nome_completo is required", domain.ErrValidation)
	}
	if strings.TrimSpace(d.CPF) == "" {
		return fmt.Errorf("%w: cpf is required", domain.ErrValidation)
	}
	if strings.TrimSpace(d.LicenseNumber) == "" {
		return fmt.Errorf("%w: cnh_numero is required", domain.ErrValidation)
	}
	if strings.TrimSpace(d.LicenseCategory) == "" {
		return fmt.Errorf("%w: cnh_categoria is required", domain.ErrValidation)
	}
	if d.LicenseDue.IsZero() {
		return fmt.Errorf("%w: cnh_validade is required", domain.ErrValidation)
	}
	return nil
}
