package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"trackflow-service/tracking/models"
)

func newLayered(t *testing.T) (*LayeredStore, *LocalStore, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	remote, err := NewRemoteStore(db)
	require.NoError(t, err)
	local := newLocalStore(t)
	return NewLayeredStore(zap.NewNop(), remote, local), local, db
}

func breakRemote(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestLayeredStoreMirrorsWrites(t *testing.T) {
	layered, local, _ := newLayered(t)
	ctx := context.Background()

	shipment := &models.Shipment{TrackingNumber: "TRK999", CurrentStatus: models.StatusPending}
	require.NoError(t, layered.CreateShipment(ctx, shipment))

	// The cache saw the write too.
	cached, err := local.GetShipment(ctx, "TRK999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, cached.CurrentStatus)

	_, err = layered.AppendUpdate(ctx, "TRK999", models.ShipmentUpdate{Status: models.StatusInTransit})
	require.NoError(t, err)
	cached, err = local.GetShipment(ctx, "TRK999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInTransit, cached.CurrentStatus)
	assert.Len(t, cached.Updates, 2)
}

func TestLayeredStoreReadsFallBackToCache(t *testing.T) {
	layered, _, db := newLayered(t)
	ctx := context.Background()

	require.NoError(t, layered.CreateShipment(ctx, &models.Shipment{
		TrackingNumber: "TRK999",
		CurrentStatus:  models.StatusHeld,
	}))

	breakRemote(t, db)

	got, err := layered.GetShipment(ctx, "TRK999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusHeld, got.CurrentStatus)

	shipments, err := layered.ListShipments(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, shipments, 1)
}

func TestLayeredStoreWritesSurfaceBackendError(t *testing.T) {
	layered, local, db := newLayered(t)
	ctx := context.Background()

	require.NoError(t, layered.CreateShipment(ctx, &models.Shipment{
		TrackingNumber: "TRK999",
		CurrentStatus:  models.StatusPending,
	}))

	breakRemote(t, db)

	err := layered.CreateShipment(ctx, &models.Shipment{TrackingNumber: "TRK1000"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, err = layered.AppendUpdate(ctx, "TRK999", models.ShipmentUpdate{Status: models.StatusDelivered})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	// The cache kept the last consistent state.
	cached, err := local.GetShipment(ctx, "TRK999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, cached.CurrentStatus)
}

func TestLayeredStoreNotFoundIsNotABackendError(t *testing.T) {
	layered, _, _ := newLayered(t)
	_, err := layered.AppendUpdate(context.Background(), "TRK404", models.ShipmentUpdate{Status: models.StatusHeld})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrBackendUnavailable)
}

func TestLayeredStoreResync(t *testing.T) {
	layered, local, _ := newLayered(t)
	ctx := context.Background()

	require.NoError(t, layered.CreateShipment(ctx, &models.Shipment{TrackingNumber: "TRK1", CurrentStatus: models.StatusPending}))
	require.NoError(t, layered.CreateShipment(ctx, &models.Shipment{TrackingNumber: "TRK2", CurrentStatus: models.StatusPending}))

	// Simulate cache drift, then resync from the remote listing.
	require.NoError(t, local.ReplaceAll(ctx, nil))
	require.NoError(t, layered.Resync(ctx))

	all, err := local.ListShipments(ctx, ListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
