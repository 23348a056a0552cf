package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// VehicleRepo defines the persistence operations for vehicles.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type VehicleRepo interface {
	// Create inserts a new vehicle and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	// Returns domain.ErrConflict when the plate is already registered.
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// GetByID retrieves a single vehicle by its UUID primary key.
	// Returns domain.ErrNotFound if no vehicle with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// List returns vehicles matching the filter, ordered by plate.
	List(ctx context.Context, f domain.VehicleFilter) ([]domain.Vehicle, error)

	// Update overwrites the mutable fields of an existing vehicle and returns
	// the updated record. Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// SetOdometer advances the vehicle's current odometer reading.
	SetOdometer(ctx context.Context, id uuid.UUID, odometer int) error

	// Delete removes a vehicle by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

const vehicleColumns = `id, plate, brand, model, year, color, chassis, fuel_type,
	status, odometer, ipva_due, licensing_due, created_at, updated_at`

func (r *pgVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		INSERT INTO vehicles (plate, brand, model, year, color, chassis, fuel_type,
			status, odometer, ipva_due, licensing_due)
		VALUES (@plate, @brand, @model, @year, @color, @chassis, @fuel_type,
			@status, @odometer, @ipva_due, @licensing_due)
		RETURNING ` + vehicleColumns

	result, err := scanVehicle(r.db.QueryRow(ctx, q, vehicleArgs(v)))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", domain.ErrConflict)
		}
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns vehicles ordered by plate. Filter clauses are additive:
// empty filter fields match everything.
func (r *pgVehicleRepo) List(ctx context.Context, f domain.VehicleFilter) ([]domain.Vehicle, error) {
	const q = `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE (@plate = '' OR plate ILIKE '%' || @plate || '%')
		  AND (@status = '' OR status = @status)
		  AND (@fuel_type = '' OR fuel_type = @fuel_type)
		ORDER BY plate`

	args := pgx.NamedArgs{
		"plate":     f.Plate,
		"status":    string(f.Status),
		"fuel_type": string(f.FuelType),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.List: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: rows: %w", err)
	}

	return vehicles, nil
}

func (r *pgVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles
		SET plate         = @plate,
		    brand         = @brand,
		    model         = @model,
		    year          = @year,
		    color         = @color,
		    chassis       = @chassis,
		    fuel_type     = @fuel_type,
		    status        = @status,
		    odometer      = @odometer,
		    ipva_due      = @ipva_due,
		    licensing_due = @licensing_due,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + vehicleColumns

	args := vehicleArgs(v)
	args["id"] = v.ID

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: %w", domain.ErrConflict)
		}
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) SetOdometer(ctx context.Context, id uuid.UUID, odometer int) error {
	const q = `
		UPDATE vehicles
		SET odometer = @odometer, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "odometer": odometer})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.SetOdometer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.SetOdometer: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM vehicles WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// vehicleArgs builds the shared NamedArgs for insert and update statements.
func vehicleArgs(v domain.Vehicle) pgx.NamedArgs {
	return pgx.NamedArgs{
		"plate":         v.Plate,
		"brand":         v.Brand,
		"model":         v.Model,
		"year":          v.Year,
		"color":         v.Color,
		"chassis":       v.Chassis,
		"fuel_type":     v.FuelType,
		"status":        v.Status,
		"odometer":      v.Odometer,
		"ipva_due":      dateArg(v.IPVADue),
		"licensing_due": dateArg(v.LicensingDue),
	}
}

// dateArg converts an optional domain.Date into a nullable SQL argument.
func dateArg(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

// scanVehicle maps a single database row into a domain.Vehicle.
// It handles the UUID and nullable date conversions.
func scanVehicle(s scanner) (domain.Vehicle, error) {
	var (
		v            domain.Vehicle
		id           pgtype.UUID
		ipvaDue      pgtype.Date
		licensingDue pgtype.Date
	)

	err := s.Scan(&id, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.Color, &v.Chassis,
		&v.FuelType, &v.Status, &v.Odometer, &ipvaDue, &licensingDue,
		&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, domain.ErrNotFound
		}
		return domain.Vehicle{}, err
	}

	v.ID = uuid.UUID(id.Bytes)
	if ipvaDue.Valid {
		d := domain.DateOf(ipvaDue.Time)
		v.IPVADue = &d
	}
	if licensingDue.Valid {
		d := domain.DateOf(licensingDue.Time)
		v.LicensingDue = &d
	}

	return v, nil
}
