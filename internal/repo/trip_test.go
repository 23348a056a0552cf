package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
	"github.com/rmachado/fleet-manager/testutil"
)

// newTestTx opens a transaction against the test database that is rolled
// back when the test finishes, giving free per-test isolation. All repos in
// a test share the same transaction so foreign keys line up.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return tx
}

// seedVehicle inserts a vehicle the trip under test can reference.
func seedVehicle(t *testing.T, tx pgx.Tx) domain.Vehicle {
	t.Helper()
	due := domain.NewDate(2027, time.March, 1)
	v, err := repo.NewVehicleRepo(tx).Create(context.Background(), domain.Vehicle{
		Plate:        "TST1A23",
		Brand:        "Fiat",
		Model:        "Strada",
		Year:         2022,
		FuelType:     domain.FuelFlex,
		Status:       domain.VehicleActive,
		Odometer:     15000,
		IPVADue:      &due,
		LicensingDue: &due,
	})
	require.NoError(t, err, "seed vehicle")
	return v
}

// seedDriver inserts a driver the trip under test can reference.
func seedDriver(t *testing.T, tx pgx.Tx) domain.Driver {
	t.Helper()
	d, err := repo.NewDriverRepo(tx).Create(context.Background(), domain.Driver{
		FullName:        "Carlos Pereira",
		CPF:             "123.456.789-00",
		LicenseNumber:   "98765432100",
		LicenseCategory: "B",
		LicenseDue:      domain.NewDate(2028, time.July, 10),
		Active:          true,
	})
	require.NoError(t, err, "seed driver")
	return d
}

// seedTrip inserts a planned trip for the given vehicle and driver.
func seedTrip(t *testing.T, tx pgx.Tx, vehicleID, driverID uuid.UUID) domain.Trip {
	t.Helper()
	created, err := repo.NewTripRepo(tx).Create(context.Background(), domain.Trip{
		VehicleID:     vehicleID,
		DriverID:      driverID,
		Origin:        "São Paulo",
		Destination:   "Campinas",
		Purpose:       "Entrega",
		StartOdometer: 15000,
		Status:        domain.TripNotStarted,
	})
	require.NoError(t, err, "seed trip")
	return created
}

func TestTripRepo_Create(t *testing.T) {
	tx := newTestTx(t)
	vehicle := seedVehicle(t, tx)
	driver := seedDriver(t, tx)

	got := seedTrip(t, tx, vehicle.ID, driver.ID)

	assert.NotEqual(t, [16]byte{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, domain.TripNotStarted, got.Status)
	assert.Nil(t, got.StartedAt)
	assert.Nil(t, got.EndedAt)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestTripRepo_Start(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	trip := seedTrip(t, tx, seedVehicle(t, tx).ID, seedDriver(t, tx).ID)

	startedAt := time.Now().UTC().Truncate(time.Second)
	scheduledEnd := startedAt.Add(45 * time.Minute)

	got, err := r.Start(ctx, trip.ID, startedAt, scheduledEnd, 15000)

	require.NoError(t, err)
	assert.Equal(t, domain.TripInProgress, got.Status)
	require.NotNil(t, got.StartedAt)
	assert.True(t, got.StartedAt.Equal(startedAt), "StartedAt mismatch")
	require.NotNil(t, got.EndedAt, "scheduled end stored in ended_at while in progress")
	assert.True(t, got.EndedAt.Equal(scheduledEnd), "scheduled end mismatch")
	assert.Equal(t, 15000, got.StartOdometer)
}

func TestTripRepo_Start_AlreadyInProgress(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	trip := seedTrip(t, tx, seedVehicle(t, tx).ID, seedDriver(t, tx).ID)

	now := time.Now().UTC()
	_, err := r.Start(ctx, trip.ID, now, now.Add(time.Hour), 15000)
	require.NoError(t, err)

	_, err = r.Start(ctx, trip.ID, now, now.Add(time.Hour), 15000)
	assert.ErrorIs(t, err, domain.ErrConflict, "second start must lose the race")
}

func TestTripRepo_Start_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	now := time.Now().UTC()
	_, err := r.Start(context.Background(), uuid.New(), now, now.Add(time.Hour), 0)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Finish(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	trip := seedTrip(t, tx, seedVehicle(t, tx).ID, seedDriver(t, tx).ID)

	now := time.Now().UTC()
	_, err := r.Start(ctx, trip.ID, now, now.Add(time.Hour), 15000)
	require.NoError(t, err)

	endedAt := now.Add(50 * time.Minute).Truncate(time.Second)
	got, err := r.Finish(ctx, trip.ID, endedAt, 15120)

	require.NoError(t, err)
	assert.Equal(t, domain.TripFinished, got.Status)
	assert.Equal(t, 15120, got.EndOdometer)
	require.NotNil(t, got.EndedAt)
	assert.True(t, got.EndedAt.Equal(endedAt), "actual end overwrites scheduled end")
	assert.Equal(t, 120, got.Distance())
}

func TestTripRepo_Finish_NotInProgress(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	trip := seedTrip(t, tx, seedVehicle(t, tx).ID, seedDriver(t, tx).ID)

	// Never started.
	_, err := r.Finish(ctx, trip.ID, time.Now().UTC(), 15120)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Started and finished; a second finish must also conflict.
	now := time.Now().UTC()
	_, err = r.Start(ctx, trip.ID, now, now.Add(time.Hour), 15000)
	require.NoError(t, err)
	_, err = r.Finish(ctx, trip.ID, now.Add(time.Minute), 15120)
	require.NoError(t, err)

	_, err = r.Finish(ctx, trip.ID, now.Add(2*time.Minute), 15130)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTripRepo_DriverSingleActiveTrip(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	vehicle := seedVehicle(t, tx)
	driver := seedDriver(t, tx)
	first := seedTrip(t, tx, vehicle.ID, driver.ID)
	second := seedTrip(t, tx, vehicle.ID, driver.ID)

	now := time.Now().UTC()
	_, err := r.Start(ctx, first.ID, now, now.Add(time.Hour), 15000)
	require.NoError(t, err)

	// The partial unique index blocks a second in-progress trip per driver.
	_, err = r.Start(ctx, second.ID, now, now.Add(time.Hour), 15000)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTripRepo_FindInProgressByDriver(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	vehicle := seedVehicle(t, tx)
	driver := seedDriver(t, tx)
	trip := seedTrip(t, tx, vehicle.ID, driver.ID)

	_, err := r.FindInProgressByDriver(ctx, driver.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "nothing started yet")

	now := time.Now().UTC()
	_, err = r.Start(ctx, trip.ID, now, now.Add(time.Hour), 15000)
	require.NoError(t, err)

	got, err := r.FindInProgressByDriver(ctx, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, domain.TripInProgress, got.Status)

	_, err = r.Finish(ctx, trip.ID, now.Add(time.Minute), 15120)
	require.NoError(t, err)

	_, err = r.FindInProgressByDriver(ctx, driver.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "finished trips are not active")
}

func TestTripRepo_ListFilters(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)
	ctx := context.Background()

	vehicle := seedVehicle(t, tx)
	driver := seedDriver(t, tx)
	planned := seedTrip(t, tx, vehicle.ID, driver.ID)
	started := seedTrip(t, tx, vehicle.ID, driver.ID)

	now := time.Now().UTC()
	_, err := r.Start(ctx, started.ID, now, now.Add(time.Hour), 15000)
	require.NoError(t, err)

	inProgress, err := r.List(ctx, domain.TripFilter{Status: domain.TripInProgress})
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, started.ID, inProgress[0].ID)

	byDriver, err := r.List(ctx, domain.TripFilter{DriverID: driver.ID})
	require.NoError(t, err)
	assert.Len(t, byDriver, 2)

	notStarted, err := r.List(ctx, domain.TripFilter{Status: domain.TripNotStarted})
	require.NoError(t, err)
	require.Len(t, notStarted, 1)
	assert.Equal(t, planned.ID, notStarted[0].ID)
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	err := r.Delete(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
