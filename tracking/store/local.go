package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"trackflow-service/tracking/models"
)

// LocalStore is the durable offline cache: every shipment, updates embedded,
// serialized as one JSON array in a single file. Mutations load the whole
// array, modify it and rewrite it whole; there is no partial update and the
// last writer wins.
type LocalStore struct {
	path string
	mu   sync.Mutex
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &LocalStore{path: filepath.Join(dir, "shipments.json")}, nil
}

func (s *LocalStore) load() ([]models.Shipment, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read shipment cache: %w", err)
	}
	var shipments []models.Shipment
	if err := json.Unmarshal(data, &shipments); err != nil {
		return nil, fmt.Errorf("failed to decode shipment cache: %w", err)
	}
	for i := range shipments {
		shipments[i].CurrentStatus = models.NormalizeStatus(string(shipments[i].CurrentStatus))
	}
	return shipments, nil
}

func (s *LocalStore) save(shipments []models.Shipment) error {
	data, err := json.MarshalIndent(shipments, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode shipment cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write shipment cache: %w", err)
	}
	return nil
}

func findShipment(shipments []models.Shipment, trackingNumber string, includeDeleted bool) int {
	for i := range shipments {
		if strings.EqualFold(shipments[i].TrackingNumber, strings.TrimSpace(trackingNumber)) {
			if shipments[i].IsDeleted && !includeDeleted {
				return -1
			}
			return i
		}
	}
	return -1
}

func (s *LocalStore) ListShipments(ctx context.Context, filter ListFilter) ([]models.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipments, err := s.load()
	if err != nil {
		return nil, err
	}
	var result []models.Shipment
	for _, shipment := range shipments {
		if shipment.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		result = append(result, shipment)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *LocalStore) GetShipment(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipments, err := s.load()
	if err != nil {
		return nil, err
	}
	idx := findShipment(shipments, trackingNumber, false)
	if idx < 0 {
		return nil, ErrNotFound
	}
	shipment := shipments[idx]
	return &shipment, nil
}

func (s *LocalStore) CreateShipment(ctx context.Context, shipment *models.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipments, err := s.load()
	if err != nil {
		return err
	}
	prepareNew(shipment, time.Now().UTC())
	shipments = append(shipments, *shipment)
	return s.save(shipments)
}

func (s *LocalStore) AppendUpdate(ctx context.Context, trackingNumber string, update models.ShipmentUpdate) (*models.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipments, err := s.load()
	if err != nil {
		return nil, err
	}
	idx := findShipment(shipments, trackingNumber, false)
	if idx < 0 {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	prepareUpdate(&update, shipments[idx].TrackingNumber, now)
	shipments[idx].Updates = append(shipments[idx].Updates, update)
	shipments[idx].CurrentStatus = update.Status
	shipments[idx].UpdatedAt = now

	if err := s.save(shipments); err != nil {
		return nil, err
	}
	shipment := shipments[idx]
	return &shipment, nil
}

func (s *LocalStore) SoftDelete(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	return s.setDeleted(trackingNumber, true)
}

func (s *LocalStore) Restore(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	return s.setDeleted(trackingNumber, false)
}

func (s *LocalStore) setDeleted(trackingNumber string, deleted bool) (*models.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipments, err := s.load()
	if err != nil {
		return nil, err
	}
	idx := findShipment(shipments, trackingNumber, true)
	if idx < 0 {
		return nil, ErrNotFound
	}
	shipments[idx].IsDeleted = deleted
	shipments[idx].UpdatedAt = time.Now().UTC()

	if err := s.save(shipments); err != nil {
		return nil, err
	}
	shipment := shipments[idx]
	return &shipment, nil
}

// Put upserts a shipment by tracking number, used to mirror remote writes
// into the cache. Unlike CreateShipment it never generates fields.
func (s *LocalStore) Put(ctx context.Context, shipment *models.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipments, err := s.load()
	if err != nil {
		return err
	}
	idx := findShipment(shipments, shipment.TrackingNumber, true)
	if idx < 0 {
		shipments = append(shipments, *shipment)
	} else {
		shipments[idx] = *shipment
	}
	return s.save(shipments)
}

// ReplaceAll swaps the entire cache contents, used by the resync worker.
func (s *LocalStore) ReplaceAll(ctx context.Context, shipments []models.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(shipments)
}
