package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
)

// Actor identifies the authenticated user a service call runs on behalf of.
type Actor struct {
	UserID uuid.UUID
	Role   domain.Role
}

// TripService implements business logic for Trip operations, including the
// lifecycle transitions (start, finish) and the active-trip lookup.
// It holds drivers and vehicles repos because starting a trip seeds the start
// odometer from the vehicle, and finishing advances it.
type TripService struct {
	trips    repo.TripRepo
	drivers  repo.DriverRepo
	vehicles repo.VehicleRepo

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, drivers repo.DriverRepo, vehicles repo.VehicleRepo) *TripService {
	return &TripService{
		trips:    trips,
		drivers:  drivers,
		vehicles: vehicles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and persists a new trip in NÃO_INICIADA state.
// Only managers create trips through this path; operators enter the lifecycle
// through Start.
func (s *TripService) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	t.Status = domain.TripNotStarted
	if err := validateTrip(t); err != nil {
		return domain.Trip{}, err
	}
	if _, err := s.vehicles.GetByID(ctx, t.VehicleID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if _, err := s.drivers.GetByID(ctx, t.DriverID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	result, err := s.trips.Create(ctx, t)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns trips matching the filter.
// Always returns a non-nil slice so handlers serialize [] instead of null.
func (s *TripService) List(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update validates and updates an existing trip's plan fields.
// Lifecycle fields (status, timestamps, odometers at transition) are owned by
// Start and Finish; Update preserves them from the stored record.
func (s *TripService) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	if err := validateTrip(t); err != nil {
		return domain.Trip{}, err
	}
	current, err := s.trips.GetByID(ctx, t.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	t.Status = current.Status
	t.StartedAt = current.StartedAt
	t.EndedAt = current.EndedAt
	result, err := s.trips.Update(ctx, t)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// ActiveTrip returns the snapshot of the actor's in-progress trip, or nil
// when none exists. Users with no linked driver record (typically managers)
// always get nil.
func (s *TripService) ActiveTrip(ctx context.Context, actor Actor) (*domain.ActiveTrip, error) {
	driver, err := s.drivers.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service.TripService.ActiveTrip: %w", err)
	}
	trip, err := s.trips.FindInProgressByDriver(ctx, driver.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service.TripService.ActiveTrip: %w", err)
	}
	snap := snapshot(trip)
	return &snap, nil
}

// Start transitions a trip to EM_ANDAMENTO on behalf of the actor.
// The scheduled end is now + durationMinutes; the start odometer is seeded
// from the vehicle's current reading when the trip has none.
//   - domain.ErrValidation: duration below 1 minute
//   - domain.ErrForbidden: operator starting another driver's trip
//   - domain.ErrConflict: trip not in NÃO_INICIADA, or the driver already
//     has a trip in progress
func (s *TripService) Start(ctx context.Context, actor Actor, tripID uuid.UUID, durationMinutes int) (domain.ActiveTrip, error) {
	if durationMinutes < 1 {
		return domain.ActiveTrip{}, fmt.Errorf("%w: duracao_minutos must be a positive integer", domain.ErrValidation)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.ActiveTrip{}, fmt.Errorf("service.TripService.Start: %w", err)
	}
	if err := s.authorize(ctx, actor, trip); err != nil {
		return domain.ActiveTrip{}, err
	}
	if _, err := s.trips.FindInProgressByDriver(ctx, trip.DriverID); err == nil {
		return domain.ActiveTrip{}, fmt.Errorf("%w: o motorista já possui uma viagem em andamento", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.ActiveTrip{}, fmt.Errorf("service.TripService.Start: %w", err)
	}

	startOdometer := trip.StartOdometer
	if startOdometer == 0 {
		vehicle, err := s.vehicles.GetByID(ctx, trip.VehicleID)
		if err != nil {
			return domain.ActiveTrip{}, fmt.Errorf("service.TripService.Start: %w", err)
		}
		startOdometer = vehicle.Odometer
	}

	now := s.now()
	started, err := s.trips.Start(ctx, tripID, now, now.Add(time.Duration(durationMinutes)*time.Minute), startOdometer)
	if err != nil {
		return domain.ActiveTrip{}, fmt.Errorf("service.TripService.Start: %w", err)
	}
	return snapshot(started), nil
}

// Finish transitions a trip to FINALIZADA on behalf of the actor and
// advances the vehicle's odometer to the reported reading.
//   - domain.ErrValidation: end odometer below the trip's start odometer
//   - domain.ErrForbidden: operator finishing another driver's trip
//   - domain.ErrConflict: trip not in EM_ANDAMENTO (already finished trips
//     land here, which racing clients treat as benign)
func (s *TripService) Finish(ctx context.Context, actor Actor, tripID uuid.UUID, endOdometer int) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Finish: %w", err)
	}
	if err := s.authorize(ctx, actor, trip); err != nil {
		return domain.Trip{}, err
	}
	if trip.Status != domain.TripInProgress {
		return domain.Trip{}, fmt.Errorf("%w: a viagem não está em andamento", domain.ErrConflict)
	}
	if endOdometer < trip.StartOdometer {
		return domain.Trip{}, fmt.Errorf("%w: hodometro_chegada must be at least the start odometer", domain.ErrValidation)
	}

	finished, err := s.trips.Finish(ctx, tripID, s.now(), endOdometer)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Finish: %w", err)
	}

	// The odometer write is best-effort relative to the finished trip: a
	// deleted vehicle must not roll back a completed journey.
	if err := s.vehicles.SetOdometer(ctx, finished.VehicleID, endOdometer); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Finish: %w", err)
	}
	return finished, nil
}

// authorize allows managers unconditionally; operators must be the driver of
// the trip (linked through their user account).
func (s *TripService) authorize(ctx context.Context, actor Actor, trip domain.Trip) error {
	if actor.Role == domain.RoleManager {
		return nil
	}
	driver, err := s.drivers.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("service.TripService: no driver linked to user: %w", domain.ErrForbidden)
		}
		return fmt.Errorf("service.TripService: %w", err)
	}
	if driver.ID != trip.DriverID {
		return fmt.Errorf("service.TripService: trip belongs to another driver: %w", domain.ErrForbidden)
	}
	return nil
}

// snapshot projects a trip in EM_ANDAMENTO onto its ActiveTrip view.
func snapshot(t domain.Trip) domain.ActiveTrip {
	snap := domain.ActiveTrip{
		ID:            t.ID,
		VehicleID:     t.VehicleID,
		DriverID:      t.DriverID,
		StartOdometer: t.StartOdometer,
		Origin:        t.Origin,
		Destination:   t.Destination,
		Purpose:       t.Purpose,
	}
	if t.StartedAt != nil {
		snap.StartedAt = *t.StartedAt
	}
	if t.EndedAt != nil {
		snap.EndsAt = *t.EndedAt
	}
	return snap
}

// validateTrip enforces business rules common to Create and Update.
func validateTrip(t domain.Trip) error {
	if t.VehicleID == uuid.Nil {
		return fmt.Errorf("%w: veiculo is required", domain.ErrValidation)
	}
	if t.DriverID == uuid.Nil {
		return fmt.Errorf("%w: motorista is required", domain.ErrValidation)
	}
	if strings.TrimSpace(t.Origin) == "" {
		return fmt.Errorf("%w: origem is required", domain.ErrValidation)
	}
	if strings.TrimSpace(t.Destination) == "" {
		return fmt.Errorf("%w: destino is required", domain.ErrValidation)
	}
	if t.StartOdometer < 0 || t.EndOdometer < 0 {
		return fmt.Errorf("%w: odometer readings must not be negative", domain.ErrValidation)
	}
	return nil
}
