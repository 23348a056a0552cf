package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/rmachado/fleet-manager/internal/domain"
)

// TripRepo defines the persistence operations for trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, t domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns trips matching the filter, most recently started first.
	List(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error)

	// FindInProgressByDriver returns the driver's in-progress trip.
	// Returns domain.ErrNotFound when the driver has none. The unique partial
	// index on (driver_id) WHERE status = EM_ANDAMENTO guarantees at most one.
	FindInProgressByDriver(ctx context.Context, driverID uuid.UUID) (domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Returns domain.ErrNotFound if the ID is unknown.
	Update(ctx context.Context, t domain.Trip) (domain.Trip, error)

	// Start transitions a trip from NÃO_INICIADA to EM_ANDAMENTO, recording
	// the actual start, the scheduled end, and the start odometer.
	// The transition is conditional on the current status, so concurrent
	// starts cannot double-fire: the loser gets domain.ErrConflict.
	Start(ctx context.Context, id uuid.UUID, startedAt, scheduledEnd time.Time, startOdometer int) (domain.Trip, error)

	// Finish transitions a trip from EM_ANDAMENTO to FINALIZADA, recording
	// the end odometer and the actual end time. Conditional on the current
	// status like Start: a second finish gets domain.ErrConflict, which
	// callers treat as "already finished".
	Finish(ctx context.Context, id uuid.UUID, endedAt time.Time, endOdometer int) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, vehicle_id, driver_id, started_at, ended_at,
	start_odometer, end_odometer, origin, destination, purpose, status,
	created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (vehicle_id, driver_id, started_at, ended_at,
			start_odometer, end_odometer, origin, destination, purpose, status)
		VALUES (@vehicle_id, @driver_id, @started_at, @ended_at,
			@start_odometer, @end_odometer, @origin, @destination, @purpose, @status)
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, tripArgs(t)))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns trips most recently started first; never-started trips sort last.
func (r *pgTripRepo) List(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE (@status = '' OR status = @status)
		  AND (@driver_id::uuid IS NULL OR driver_id = @driver_id)
		ORDER BY started_at DESC NULLS LAST, created_at DESC`

	var driverID any
	if f.DriverID != uuid.Nil {
		driverID = f.DriverID
	}
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"status":    string(f.Status),
		"driver_id": driverID,
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

func (r *pgTripRepo) FindInProgressByDriver(ctx context.Context, driverID uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = @driver_id AND status = @status`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"driver_id": driverID,
		"status":    domain.TripInProgress,
	})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.FindInProgressByDriver: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET vehicle_id     = @vehicle_id,
		    driver_id      = @driver_id,
		    started_at     = @started_at,
		    ended_at       = @ended_at,
		    start_odometer = @start_odometer,
		    end_odometer   = @end_odometer,
		    origin         = @origin,
		    destination    = @destination,
		    purpose        = @purpose,
		    status         = @status,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(t)
	args["id"] = t.ID

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Start(ctx context.Context, id uuid.UUID, startedAt, scheduledEnd time.Time, startOdometer int) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET status         = @next,
		    started_at     = @started_at,
		    ended_at       = @scheduled_end,
		    start_odometer = @start_odometer,
		    updated_at     = now()
		WHERE id = @id AND status = @expected
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":             id,
		"next":           domain.TripInProgress,
		"expected":       domain.TripNotStarted,
		"started_at":     startedAt,
		"scheduled_end":  scheduledEnd,
		"start_odometer": startOdometer,
	})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Start: %w", r.transitionErr(ctx, id, err))
	}
	return result, nil
}

func (r *pgTripRepo) Finish(ctx context.Context, id uuid.UUID, endedAt time.Time, endOdometer int) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET status       = @next,
		    ended_at     = @ended_at,
		    end_odometer = @end_odometer,
		    updated_at   = now()
		WHERE id = @id AND status = @expected
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":           id,
		"next":         domain.TripFinished,
		"expected":     domain.TripInProgress,
		"ended_at":     endedAt,
		"end_odometer": endOdometer,
	})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Finish: %w", r.transitionErr(ctx, id, err))
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// transitionErr disambiguates a zero-row conditional update: the trip either
// does not exist (ErrNotFound) or exists in the wrong status (ErrConflict).
// A unique violation on trips_driver_in_progress_uidx means a concurrent
// start won the race for the same driver, which is also a conflict.
func (r *pgTripRepo) transitionErr(ctx context.Context, id uuid.UUID, err error) error {
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	const q = `SELECT 1 FROM trips WHERE id = @id`
	var one int
	if scanErr := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&one); scanErr == nil {
		return domain.ErrConflict
	}
	return domain.ErrNotFound
}

func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"vehicle_id":     t.VehicleID,
		"driver_id":      t.DriverID,
		"started_at":     t.StartedAt, // nil becomes NULL
		"ended_at":       t.EndedAt,
		"start_odometer": t.StartOdometer,
		"end_odometer":   t.EndOdometer,
		"origin":         t.Origin,
		"destination":    t.Destination,
		"purpose":        t.Purpose,
		"status":         t.Status,
	}
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and nullable timestamp conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		vehicleID pgtype.UUID
		driverID  pgtype.UUID
		startedAt pgtype.Timestamptz
		endedAt   pgtype.Timestamptz
	)

	err := s.Scan(&id, &vehicleID, &driverID, &startedAt, &endedAt,
		&t.StartOdometer, &t.EndOdometer, &t.Origin, &t.Destination,
		&t.Purpose, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.VehicleID = uuid.UUID(vehicleID.Bytes)
	t.DriverID = uuid.UUID(driverID.Bytes)
	if startedAt.Valid {
		ts := startedAt.Time
		t.StartedAt = &ts
	}
	if endedAt.Valid {
		ts := endedAt.Time
		t.EndedAt = &ts
	}

	return t, nil
}
