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

// FuelLogRepo defines the persistence operations for fuel logs.
type FuelLogRepo interface {
	// Create inserts a new fuel log and returns the persisted record.
	Create(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error)

	// GetByID retrieves a single fuel log by its UUID primary key.
	// Returns domain.ErrNotFound if no log with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.FuelLog, error)

	// List returns all fuel logs ordered by date descending.
	List(ctx context.Context) ([]domain.FuelLog, error)

	// LatestByVehicle returns the most recent fuel log for a vehicle,
	// ordered by date then odometer. Returns domain.ErrNotFound when the
	// vehicle has no fuel logs yet.
	LatestByVehicle(ctx context.Context, vehicleID uuid.UUID) (domain.FuelLog, error)

	// Update overwrites the mutable fields of an existing fuel log.
	// Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error)

	// Delete removes a fuel log by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgFuelLogRepo struct {
	db db
}

// NewFuelLogRepo constructs a FuelLogRepo backed by the provided db connection.
func NewFuelLogRepo(db db) FuelLogRepo {
	return &pgFuelLogRepo{db: db}
}

const fuelLogColumns = `id, vehicle_id, date, odometer, liters, total_cost,
	fuel_type, station, avg_km_per_liter, created_at, updated_at`

func (r *pgFuelLogRepo) Create(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error) {
	const q = `
		INSERT INTO fuel_logs (vehicle_id, date, odometer, liters, total_cost,
			fuel_type, station, avg_km_per_liter)
		VALUES (@vehicle_id, @date, @odometer, @liters, @total_cost,
			@fuel_type, @station, @avg_km_per_liter)
		RETURNING ` + fuelLogColumns

	result, err := scanFuelLog(r.db.QueryRow(ctx, q, fuelLogArgs(l)))
	if err != nil {
		return domain.FuelLog{}, fmt.Errorf("repo.FuelLogRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgFuelLogRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.FuelLog, error) {
	const q = `SELECT ` + fuelLogColumns + ` FROM fuel_logs WHERE id = @id`

	result, err := scanFuelLog(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.FuelLog{}, fmt.Errorf("repo.FuelLogRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgFuelLogRepo) List(ctx context.Context) ([]domain.FuelLog, error) {
	const q = `SELECT ` + fuelLogColumns + ` FROM fuel_logs ORDER BY date DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.FuelLogRepo.List: %w", err)
	}
	defer rows.Close()

	var logs []domain.FuelLog
	for rows.Next() {
		l, err := scanFuelLog(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FuelLogRepo.List: scan: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FuelLogRepo.List: rows: %w", err)
	}

	return logs, nil
}

func (r *pgFuelLogRepo) LatestByVehicle(ctx context.Context, vehicleID uuid.UUID) (domain.FuelLog, error) {
	const q = `
		SELECT ` + fuelLogColumns + `
		FROM fuel_logs
		WHERE vehicle_id = @vehicle_id
		ORDER BY date DESC, odometer DESC
		LIMIT 1`

	result, err := scanFuelLog(r.db.QueryRow(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID}))
	if err != nil {
		return domain.FuelLog{}, fmt.Errorf("repo.FuelLogRepo.LatestByVehicle: %w", err)
	}
	return result, nil
}

func (r *pgFuelLogRepo) Update(ctx context.Context, l domain.FuelLog) (domain.FuelLog, error) {
	const q = `
		UPDATE fuel_logs
		SET vehicle_id       = @vehicle_id,
		    date             = @date,
		    odometer         = @odometer,
		    liters           = @liters,
		    total_cost       = @total_cost,
		    fuel_type        = @fuel_type,
		    station          = @station,
		    avg_km_per_liter = @avg_km_per_liter,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + fuelLogColumns

	args := fuelLogArgs(l)
	args["id"] = l.ID

	result, err := scanFuelLog(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.FuelLog{}, fmt.Errorf("repo.FuelLogRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgFuelLogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM fuel_logs WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.FuelLogRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FuelLogRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func fuelLogArgs(l domain.FuelLog) pgx.NamedArgs {
	return pgx.NamedArgs{
		"vehicle_id":       l.VehicleID,
		"date":             l.Date.Time,
		"odometer":         l.Odometer,
		"liters":           l.Liters,
		"total_cost":       l.TotalCost,
		"fuel_type":        l.FuelType,
		"station":          l.Station,
		"avg_km_per_liter": l.AvgKmPerLiter, // nil becomes NULL
	}
}

// scanFuelLog maps a single database row into a domain.FuelLog.
func scanFuelLog(s scanner) (domain.FuelLog, error) {
	var (
		l         domain.FuelLog
		id        pgtype.UUID
		vehicleID pgtype.UUID
		date      pgtype.Date
	)

	err := s.Scan(&id, &vehicleID, &date, &l.Odometer, &l.Liters, &l.TotalCost,
		&l.FuelType, &l.Station, &l.AvgKmPerLiter, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FuelLog{}, domain.ErrNotFound
		}
		return domain.FuelLog{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.VehicleID = uuid.UUID(vehicleID.Bytes)
	l.Date = domain.DateOf(date.Time)

	return l, nil
}
