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

// MaintenanceRepo defines the persistence operations for maintenance records.
type MaintenanceRepo interface {
	// Create inserts a new maintenance record and returns the persisted record.
	Create(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error)

	// GetByID retrieves a single record by its UUID primary key.
	// Returns domain.ErrNotFound if no record with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Maintenance, error)

	// List returns all maintenance records ordered by date descending.
	List(ctx context.Context) ([]domain.Maintenance, error)

	// Update overwrites the mutable fields of an existing record.
	// Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error)

	// Delete removes a record by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgMaintenanceRepo struct {
	db db
}

// NewMaintenanceRepo constructs a MaintenanceRepo backed by the provided db connection.
func NewMaintenanceRepo(db db) MaintenanceRepo {
	return &pgMaintenanceRepo{db: db}
}

const maintenanceColumns = `id, vehicle_id, date, type, description, cost, vendor,
	odometer, next_due_km, next_due_date, status, created_at, updated_at`

func (r *pgMaintenanceRepo) Create(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error) {
	const q = `
		INSERT INTO maintenance (vehicle_id, date, type, description, cost, vendor,
			odometer, next_due_km, next_due_date, status)
		VALUES (@vehicle_id, @date, @type, @description, @cost, @vendor,
			@odometer, @next_due_km, @next_due_date, @status)
		RETURNING ` + maintenanceColumns

	result, err := scanMaintenance(r.db.QueryRow(ctx, q, maintenanceArgs(m)))
	if err != nil {
		return domain.Maintenance{}, fmt.Errorf("repo.MaintenanceRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMaintenanceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Maintenance, error) {
	const q = `SELECT ` + maintenanceColumns + ` FROM maintenance WHERE id = @id`

	result, err := scanMaintenance(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Maintenance{}, fmt.Errorf("repo.MaintenanceRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgMaintenanceRepo) List(ctx context.Context) ([]domain.Maintenance, error) {
	const q = `SELECT ` + maintenanceColumns + ` FROM maintenance ORDER BY date DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.MaintenanceRepo.List: %w", err)
	}
	defer rows.Close()

	var records []domain.Maintenance
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MaintenanceRepo.List: scan: %w", err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MaintenanceRepo.List: rows: %w", err)
	}

	return records, nil
}

func (r *pgMaintenanceRepo) Update(ctx context.Context, m domain.Maintenance) (domain.Maintenance, error) {
	const q = `
		UPDATE maintenance
		SET vehicle_id    = @vehicle_id,
		    date          = @date,
		    type          = @type,
		    description   = @description,
		    cost          = @cost,
		    vendor        = @vendor,
		    odometer      = @odometer,
		    next_due_km   = @next_due_km,
		    next_due_date = @next_due_date,
		    status        = @status,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + maintenanceColumns

	args := maintenanceArgs(m)
	args["id"] = m.ID

	result, err := scanMaintenance(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Maintenance{}, fmt.Errorf("repo.MaintenanceRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgMaintenanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM maintenance WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.MaintenanceRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MaintenanceRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func maintenanceArgs(m domain.Maintenance) pgx.NamedArgs {
	return pgx.NamedArgs{
		"vehicle_id":    m.VehicleID,
		"date":          m.Date.Time,
		"type":          m.Type,
		"description":   m.Description,
		"cost":          m.Cost,
		"vendor":        m.Vendor,
		"odometer":      m.Odometer, // nil becomes NULL
		"next_due_km":   m.NextDueKM,
		"next_due_date": dateArg(m.NextDueDate),
		"status":        m.Status,
	}
}

// scanMaintenance maps a single database row into a domain.Maintenance.
func scanMaintenance(s scanner) (domain.Maintenance, error) {
	var (
		m           domain.Maintenance
		id          pgtype.UUID
		vehicleID   pgtype.UUID
		date        pgtype.Date
		nextDueDate pgtype.Date
	)

	err := s.Scan(&id, &vehicleID, &date, &m.Type, &m.Description, &m.Cost,
		&m.Vendor, &m.Odometer, &m.NextDueKM, &nextDueDate, &m.Status,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Maintenance{}, domain.ErrNotFound
		}
		return domain.Maintenance{}, err
	}

	m.ID = uuid.UUID(id.Bytes)
	m.VehicleID = uuid.UUID(vehicleID.Bytes)
	m.Date = domain.DateOf(date.Time)
	if nextDueDate.Valid {
		d := domain.DateOf(nextDueDate.Time)
		m.NextDueDate = &d
	}

	return m, nil
}
