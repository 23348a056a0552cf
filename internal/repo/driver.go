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

// DriverRepo defines the persistence operations for drivers.
type DriverRepo interface {
	// Create inserts a new driver and returns the persisted record.
	// Returns domain.ErrConflict on duplicate CPF, license number, or user link.
	Create(ctx context.Context, d domain.Driver) (domain.Driver, error)

	// GetByID retrieves a single driver by its UUID primary key.
	// Returns domain.ErrNotFound if no driver with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)

	// GetByUserID retrieves the driver linked to the given user account.
	// Returns domain.ErrNotFound when the user has no linked driver.
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Driver, error)

	// List returns all drivers ordered by full name.
	List(ctx context.Context) ([]domain.Driver, error)

	// Update overwrites the mutable fields of an existing driver and returns
	// the updated record. Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, d domain.Driver) (domain.Driver, error)

	// Delete removes a driver by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgDriverRepo struct {
	db db
}

// NewDriverRepo constructs a DriverRepo backed by the provided db connection.
func NewDriverRepo(db db) DriverRepo {
	return &pgDriverRepo{db: db}
}

const driverColumns = `id, full_name, cpf, license_number, license_category,
	license_due, active, user_id, created_at, updated_at`

func (r *pgDriverRepo) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	const q = `
		INSERT INTO drivers (full_name, cpf, license_number, license_category,
			license_due, active, user_id)
		VALUES (@full_name, @cpf, @license_number, @license_category,
			@license_due, @active, @user_id)
		RETURNING ` + driverColumns

	result, err := scanDriver(r.db.QueryRow(ctx, q, driverArgs(d)))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w", domain.ErrConflict)
		}
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	const q = `SELECT ` + driverColumns + ` FROM drivers WHERE id = @id`

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Driver, error) {
	const q = `SELECT ` + driverColumns + ` FROM drivers WHERE user_id = @user_id`

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByUserID: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) List(ctx context.Context) ([]domain.Driver, error) {
	const q = `SELECT ` + driverColumns + ` FROM drivers ORDER BY full_name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.List: %w", err)
	}
	defer rows.Close()

	var drivers []domain.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DriverRepo.List: scan: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.List: rows: %w", err)
	}

	return drivers, nil
}

func (r *pgDriverRepo) Update(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	const q = `
		UPDATE drivers
		SET full_name        = @full_name,
		    cpf              = @cpf,
		    license_number   = @license_number,
		    license_category = @license_category,
		    license_due      = @license_due,
		    active           = @active,
		    user_id          = @user_id,
		    updated_at       = now()
		WHERE id = @id
		RETURNING ` + driverColumns

	args := driverArgs(d)
	args["id"] = d.ID

	result, err := scanDriver(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Update: %w", domain.ErrConflict)
		}
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM drivers WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DriverRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DriverRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func driverArgs(d domain.Driver) pgx.NamedArgs {
	var userID any
	if d.UserID != nil {
		userID = *d.UserID
	}
	return pgx.NamedArgs{
		"full_name":        d.FullName,
		"cpf":              d.CPF,
		"license_number":   d.LicenseNumber,
		"license_category": d.LicenseCategory,
		"license_due":      d.LicenseDue.Time,
		"active":           d.Active,
		"user_id":          userID,
	}
}

// scanDriver maps a single database row into a domain.Driver.
func scanDriver(s scanner) (domain.Driver, error) {
	var (
		d          domain.Driver
		id         pgtype.UUID
		licenseDue pgtype.Date
		userID     pgtype.UUID
	)

	err := s.Scan(&id, &d.FullName, &d.CPF, &d.LicenseNumber, &d.LicenseCategory,
		&licenseDue, &d.Active, &userID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Driver{}, domain.ErrNotFound
		}
		return domain.Driver{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.LicenseDue = domain.DateOf(licenseDue.Time)
	if userID.Valid {
		uid := uuid.UUID(userID.Bytes)
		d.UserID = &uid
	}

	return d, nil
}
