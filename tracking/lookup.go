package tracking

import (
	"context"
	"strings"

	"trackflow-service/tracking/models"
	"trackflow-service/tracking/store"
)

// Lookup is the public, read-only query surface. Archived and nonexistent
// tracking numbers are indistinguishable to callers.
type Lookup struct {
	store store.RecordStore
}

func NewLookup(st store.RecordStore) *Lookup {
	return &Lookup{store: st}
}

// Track resolves a tracking number, case-insensitively. The returned
// timeline is chronological, oldest first.
func (l *Lookup) Track(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	number := strings.TrimSpace(trackingNumber)
	if number == "" {
		return nil, store.ErrNotFound
	}
	return l.store.GetShipment(ctx, number)
}
