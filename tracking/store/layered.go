package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"trackflow-service/tracking/models"
)

// LayeredStore fronts the remote store with the local cache. The remote is
// the source of truth when reachable; the cache is a read fallback only.
// Successful remote writes are mirrored into the cache best-effort, so the
// two can diverge after a partial failure. This is eventual, degraded
// consistency, not a transactional guarantee.
type LayeredStore struct {
	logger *zap.Logger
	remote *RemoteStore
	local  *LocalStore
}

// NewLayeredStore builds the dual-backend record store. remote may be nil,
// in which case every operation runs against the cache alone.
func NewLayeredStore(logger *zap.Logger, remote *RemoteStore, local *LocalStore) *LayeredStore {
	return &LayeredStore{logger: logger, remote: remote, local: local}
}

func (s *LayeredStore) ListShipments(ctx context.Context, filter ListFilter) ([]models.Shipment, error) {
	if s.remote == nil {
		return s.local.ListShipments(ctx, filter)
	}
	shipments, err := s.remote.ListShipments(ctx, filter)
	if err != nil {
		s.logger.Warn("Remote list failed, falling back to local cache", zap.Error(err))
		return s.local.ListShipments(ctx, filter)
	}
	return shipments, nil
}

func (s *LayeredStore) GetShipment(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	if s.remote == nil {
		return s.local.GetShipment(ctx, trackingNumber)
	}
	shipment, err := s.remote.GetShipment(ctx, trackingNumber)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Warn("Remote lookup failed, falling back to local cache",
			zap.String("tracking_number", trackingNumber),
			zap.Error(err),
		)
		return s.local.GetShipment(ctx, trackingNumber)
	}
	return shipment, err
}

func (s *LayeredStore) CreateShipment(ctx context.Context, shipment *models.Shipment) error {
	if s.remote == nil {
		return s.local.CreateShipment(ctx, shipment)
	}
	if err := s.remote.CreateShipment(ctx, shipment); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.mirror(ctx, shipment)
	return nil
}

func (s *LayeredStore) AppendUpdate(ctx context.Context, trackingNumber string, update models.ShipmentUpdate) (*models.Shipment, error) {
	if s.remote == nil {
		return s.local.AppendUpdate(ctx, trackingNumber, update)
	}
	shipment, err := s.remote.AppendUpdate(ctx, trackingNumber, update)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.mirror(ctx, shipment)
	return shipment, nil
}

func (s *LayeredStore) SoftDelete(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	return s.setDeleted(ctx, trackingNumber, true)
}

func (s *LayeredStore) Restore(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	return s.setDeleted(ctx, trackingNumber, false)
}

func (s *LayeredStore) setDeleted(ctx context.Context, trackingNumber string, deleted bool) (*models.Shipment, error) {
	var (
		shipment *models.Shipment
		err      error
	)
	if s.remote == nil {
		if deleted {
			return s.local.SoftDelete(ctx, trackingNumber)
		}
		return s.local.Restore(ctx, trackingNumber)
	}
	if deleted {
		shipment, err = s.remote.SoftDelete(ctx, trackingNumber)
	} else {
		shipment, err = s.remote.Restore(ctx, trackingNumber)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	s.mirror(ctx, shipment)
	return shipment, nil
}

// mirror copies a remotely-written shipment into the local cache so a later
// fallback read stays consistent. Failures are logged, not surfaced; the
// cache is non-authoritative.
func (s *LayeredStore) mirror(ctx context.Context, shipment *models.Shipment) {
	if err := s.local.Put(ctx, shipment); err != nil {
		s.logger.Warn("Failed to mirror shipment into local cache",
			zap.String("tracking_number", shipment.TrackingNumber),
			zap.Error(err),
		)
	}
}

// Resync replaces the local cache with the full remote listing. Clients that
// miss a push re-read everything; this is the store-side equivalent.
func (s *LayeredStore) Resync(ctx context.Context) error {
	if s.remote == nil {
		return nil
	}
	shipments, err := s.remote.ListShipments(ctx, ListFilter{IncludeDeleted: true})
	if err != nil {
		return fmt.Errorf("failed to fetch remote shipments: %w", err)
	}
	return s.local.ReplaceAll(ctx, shipments)
}
