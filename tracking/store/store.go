package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"trackflow-service/tracking/models"
)

var (
	// ErrNotFound covers both absent and soft-deleted records. Callers must
	// not be able to tell the two apart.
	ErrNotFound = errors.New("shipment not found")

	// ErrBackendUnavailable marks writes that could not reach the remote
	// store. Reads degrade to the local cache instead of returning it.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

type ListFilter struct {
	// IncludeDeleted also returns soft-deleted shipments.
	IncludeDeleted bool
}

// RecordStore is the persistence surface for shipments and their milestone
// history. Implementations keep updates chronological, oldest first.
type RecordStore interface {
	// ListShipments returns shipments ordered by creation time descending.
	ListShipments(ctx context.Context, filter ListFilter) ([]models.Shipment, error)

	// GetShipment matches a tracking number case-insensitively, excluding
	// soft-deleted records.
	GetShipment(ctx context.Context, trackingNumber string) (*models.Shipment, error)

	// CreateShipment persists a new shipment, generating its id and tracking
	// number when absent and seeding exactly one update for the initial status.
	CreateShipment(ctx context.Context, shipment *models.Shipment) error

	// AppendUpdate adds a milestone to the shipment's history, rewrites
	// CurrentStatus to the update's status and bumps UpdatedAt.
	AppendUpdate(ctx context.Context, trackingNumber string, update models.ShipmentUpdate) (*models.Shipment, error)

	SoftDelete(ctx context.Context, trackingNumber string) (*models.Shipment, error)
	Restore(ctx context.Context, trackingNumber string) (*models.Shipment, error)
}

// NewTrackingNumber generates a customer-facing identifier with the fixed TRK
// prefix and a nine-digit suffix. Collisions are not checked.
func NewTrackingNumber() string {
	return fmt.Sprintf("TRK%d", 100000000+rand.IntN(900000000))
}

// prepareNew fills generated fields on a shipment about to be created: ids,
// timestamps and the single seed update reflecting the initial status.
func prepareNew(s *models.Shipment, now time.Time) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.TrackingNumber == "" {
		s.TrackingNumber = NewTrackingNumber()
	}
	if s.CurrentStatus == "" {
		s.CurrentStatus = models.StatusPending
	}
	s.CreatedAt = now
	s.UpdatedAt = now

	if len(s.Updates) == 0 {
		s.Updates = []models.ShipmentUpdate{{
			Status:      s.CurrentStatus,
			Location:    s.Origin,
			Description: fmt.Sprintf("Shipment registered at %s. Initial status: %s", s.Origin, s.CurrentStatus),
		}}
	}
	for i := range s.Updates {
		if s.Updates[i].ID == "" {
			s.Updates[i].ID = uuid.NewString()
		}
		s.Updates[i].ShipmentID = s.TrackingNumber
		if s.Updates[i].CreatedAt.IsZero() {
			s.Updates[i].CreatedAt = now
		}
	}
}

// prepareUpdate fills generated fields on a milestone about to be appended.
func prepareUpdate(u *models.ShipmentUpdate, trackingNumber string, now time.Time) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.ShipmentID = trackingNumber
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
}
