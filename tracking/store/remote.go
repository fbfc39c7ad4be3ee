package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"trackflow-service/tracking/models"
)

// RemoteStore persists shipments in the hosted relational store through gorm.
// Deletion is always a mark, never a physical delete.
type RemoteStore struct {
	db *gorm.DB
}

func NewRemoteStore(db *gorm.DB) (*RemoteStore, error) {
	if err := db.AutoMigrate(&models.Shipment{}, &models.ShipmentUpdate{}); err != nil {
		return nil, fmt.Errorf("failed to migrate shipment tables: %w", err)
	}
	return &RemoteStore{db: db}, nil
}

func (s *RemoteStore) ListShipments(ctx context.Context, filter ListFilter) ([]models.Shipment, error) {
	var shipments []models.Shipment
	q := s.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC")
	if !filter.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if err := q.Find(&shipments).Error; err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	return shipments, nil
}

func (s *RemoteStore) GetShipment(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	var shipment models.Shipment
	err := s.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("LOWER(tracking_number) = ? AND is_deleted = ?", strings.ToLower(strings.TrimSpace(trackingNumber)), false).
		First(&shipment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}
	return &shipment, nil
}

func (s *RemoteStore) CreateShipment(ctx context.Context, shipment *models.Shipment) error {
	prepareNew(shipment, time.Now().UTC())
	if err := s.db.WithContext(ctx).Create(shipment).Error; err != nil {
		return fmt.Errorf("failed to insert shipment: %w", err)
	}
	return nil
}

func (s *RemoteStore) AppendUpdate(ctx context.Context, trackingNumber string, update models.ShipmentUpdate) (*models.Shipment, error) {
	shipment, err := s.GetShipment(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prepareUpdate(&update, shipment.TrackingNumber, now)
	if err := s.db.WithContext(ctx).Create(&update).Error; err != nil {
		return nil, fmt.Errorf("failed to insert shipment update: %w", err)
	}

	shipment.Updates = append(shipment.Updates, update)
	shipment.CurrentStatus = update.Status
	shipment.UpdatedAt = now
	err = s.db.WithContext(ctx).Model(&models.Shipment{}).
		Where("tracking_number = ?", shipment.TrackingNumber).
		Updates(map[string]any{"current_status": update.Status, "updated_at": now}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update shipment status: %w", err)
	}
	return shipment, nil
}

func (s *RemoteStore) SoftDelete(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	return s.setDeleted(ctx, trackingNumber, true)
}

func (s *RemoteStore) Restore(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	return s.setDeleted(ctx, trackingNumber, false)
}

func (s *RemoteStore) setDeleted(ctx context.Context, trackingNumber string, deleted bool) (*models.Shipment, error) {
	var shipment models.Shipment
	err := s.db.WithContext(ctx).
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("LOWER(tracking_number) = ?", strings.ToLower(strings.TrimSpace(trackingNumber))).
		First(&shipment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Model(&models.Shipment{}).
		Where("tracking_number = ?", shipment.TrackingNumber).
		Updates(map[string]any{"is_deleted": deleted, "updated_at": now}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to toggle shipment deletion: %w", err)
	}
	shipment.IsDeleted = deleted
	shipment.UpdatedAt = now
	return &shipment, nil
}
