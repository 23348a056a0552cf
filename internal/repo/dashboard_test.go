package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
)

func TestDashboardRepo_Summary(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	vehicles := repo.NewVehicleRepo(tx)
	expired := domain.NewDate(2020, time.January, 1)

	active := vehicleFixture()
	active.IPVADue = &expired
	_, err := vehicles.Create(ctx, active)
	require.NoError(t, err)

	parked := vehicleFixture()
	parked.Plate = "XYZ9B87"
	parked.Status = domain.VehicleMaintenance
	parked.IPVADue = nil
	parked.LicensingDue = nil
	_, err = vehicles.Create(ctx, parked)
	require.NoError(t, err)

	got, err := repo.NewDashboardRepo(tx).Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, got.ActiveVehicles)
	assert.Equal(t, 1, got.MaintenanceVehicles)
	assert.Equal(t, 0, got.InactiveVehicles)
	assert.Equal(t, 1, got.ExpiredDocuments, "expired IPVA counts once per vehicle")
}
