package resync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"trackflow-service/tracking/store"
)

// Worker periodically replaces the local cache with the full remote listing,
// so fallback reads stay close to the source of truth. This is the recovery
// path for divergence after partial write failures.
type Worker struct {
	logger   *zap.Logger
	store    *store.LayeredStore
	schedule string

	mu   sync.Mutex
	busy bool
}

func NewWorker(logger *zap.Logger, layered *store.LayeredStore, schedule string) *Worker {
	return &Worker{logger: logger, store: layered, schedule: schedule}
}

func (w *Worker) Schedule() string {
	return w.schedule
}

func (w *Worker) Ready(time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.busy
}

func (w *Worker) Execute() {
	w.mu.Lock()
	w.busy = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := w.store.Resync(ctx); err != nil {
		w.logger.Error("Cache resync failed", zap.Error(err))
		return
	}
	w.logger.Info("Local cache resynced from remote store")
}
