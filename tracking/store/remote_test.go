package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"trackflow-service/tracking/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func newRemoteStore(t *testing.T) *RemoteStore {
	t.Helper()
	s, err := NewRemoteStore(newTestDB(t))
	require.NoError(t, err)
	return s
}

func TestRemoteStoreCreateAndGet(t *testing.T) {
	s := newRemoteStore(t)
	ctx := context.Background()

	shipment := &models.Shipment{
		TrackingNumber: "TRK123456789",
		RecipientName:  "Emma Receive",
		Origin:         "New York, USA",
		CurrentStatus:  models.StatusPending,
	}
	require.NoError(t, s.CreateShipment(ctx, shipment))

	got, err := s.GetShipment(ctx, "trk123456789")
	require.NoError(t, err)
	assert.Equal(t, "TRK123456789", got.TrackingNumber)
	assert.Equal(t, models.StatusPending, got.CurrentStatus)
	require.Len(t, got.Updates, 1)
	assert.Equal(t, models.StatusPending, got.Updates[0].Status)
}

func TestRemoteStoreAppendUpdate(t *testing.T) {
	s := newRemoteStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateShipment(ctx, &models.Shipment{
		TrackingNumber: "TRK999",
		Origin:         "Lyon",
		CurrentStatus:  models.StatusPending,
	}))

	updated, err := s.AppendUpdate(ctx, "TRK999", models.ShipmentUpdate{
		Status:      models.StatusInTransit,
		Location:    "Paris",
		Description: "moved",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInTransit, updated.CurrentStatus)
	require.Len(t, updated.Updates, 2)

	got, err := s.GetShipment(ctx, "TRK999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInTransit, got.CurrentStatus)
	require.Len(t, got.Updates, 2)
	assert.Equal(t, "Paris", got.LatestUpdate().Location)
}

func TestRemoteStoreSoftDeleteRoundTrip(t *testing.T) {
	s := newRemoteStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateShipment(ctx, &models.Shipment{
		TrackingNumber: "TRK999",
		CurrentStatus:  models.StatusInTransit,
	}))

	_, err := s.SoftDelete(ctx, "TRK999")
	require.NoError(t, err)
	_, err = s.GetShipment(ctx, "TRK999")
	assert.ErrorIs(t, err, ErrNotFound)

	// The row still exists for the admin view.
	all, err := s.ListShipments(ctx, ListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsDeleted)

	restored, err := s.Restore(ctx, "trk999")
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	got, err := s.GetShipment(ctx, "TRK999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInTransit, got.CurrentStatus)
}

func TestRemoteStoreListOrdering(t *testing.T) {
	s := newRemoteStore(t)
	ctx := context.Background()

	for _, tn := range []string{"TRK1", "TRK2", "TRK3"} {
		require.NoError(t, s.CreateShipment(ctx, &models.Shipment{
			TrackingNumber: tn,
			CurrentStatus:  models.StatusPending,
		}))
	}

	shipments, err := s.ListShipments(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, shipments, 3)
	for i := 1; i < len(shipments); i++ {
		assert.False(t, shipments[i].CreatedAt.After(shipments[i-1].CreatedAt))
	}
}
