package resync

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"trackflow-service/tracking/models"
	"trackflow-service/tracking/store"
)

func TestWorkerResyncsCacheFromRemote(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	remote, err := store.NewRemoteStore(db)
	require.NoError(t, err)
	local, err := store.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	layered := store.NewLayeredStore(zap.NewNop(), remote, local)

	ctx := context.Background()
	require.NoError(t, layered.CreateShipment(ctx, &models.Shipment{
		TrackingNumber: "TRK999",
		CurrentStatus:  models.StatusPending,
	}))
	require.NoError(t, local.ReplaceAll(ctx, nil))

	w := NewWorker(zap.NewNop(), layered, "*/5 * * * *")
	assert.Equal(t, "*/5 * * * *", w.Schedule())
	assert.True(t, w.Ready(time.Now()))

	w.Execute()

	got, err := local.GetShipment(ctx, "TRK999")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.CurrentStatus)
	assert.True(t, w.Ready(time.Now()))
}
