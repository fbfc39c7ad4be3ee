package tracking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"trackflow-service/tracking/models"
	"trackflow-service/tracking/store"
)

// ValidationError rejects an admin mutation before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Directory is the admin-facing surface over the record store: search,
// registration, status updates and the archive toggle.
type Directory struct {
	logger *zap.Logger
	store  store.RecordStore
}

func NewDirectory(logger *zap.Logger, st store.RecordStore) *Directory {
	return &Directory{logger: logger, store: st}
}

// RegistrationInput carries the admin registration form. Weight arrives as
// free text and parses to 0 when malformed.
type RegistrationInput struct {
	ShipmentName     string
	ItemType         string
	Description      string
	SenderName       string
	SenderEmail      string
	RecipientName    string
	RecipientAddress string
	RecipientEmail   string
	RecipientPhone   string
	Origin           string
	Destination      string
	InitialStatus    string
	Weight           string
	Dimensions       string
	PaymentMethod    string
	PaymentStatus    string

	EstimatedDelivery *time.Time
}

// List returns shipments matching the search term, case-insensitively, over
// tracking number, recipient name, shipment name and item type. showDeleted
// flips the view to archived records only.
func (d *Directory) List(ctx context.Context, query string, showDeleted bool) ([]models.Shipment, error) {
	shipments, err := d.store.ListShipments(ctx, store.ListFilter{IncludeDeleted: true})
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(query))
	var result []models.Shipment
	for _, shipment := range shipments {
		if shipment.IsDeleted != showDeleted {
			continue
		}
		if term != "" && !matchesTerm(&shipment, term) {
			continue
		}
		result = append(result, shipment)
	}
	return result, nil
}

func matchesTerm(s *models.Shipment, term string) bool {
	for _, field := range []string{s.TrackingNumber, s.RecipientName, s.ShipmentName, s.ItemType} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Register validates the form and creates the shipment with its seed update.
// Nothing is written when validation fails.
func (d *Directory) Register(ctx context.Context, input RegistrationInput) (*models.Shipment, error) {
	if strings.TrimSpace(input.RecipientName) == "" {
		return nil, &ValidationError{Field: "recipient_name", Reason: "required"}
	}
	if strings.TrimSpace(input.Origin) == "" {
		return nil, &ValidationError{Field: "origin", Reason: "required"}
	}
	if strings.TrimSpace(input.Destination) == "" {
		return nil, &ValidationError{Field: "destination", Reason: "required"}
	}

	statusLabel := input.InitialStatus
	if strings.TrimSpace(statusLabel) == "" {
		statusLabel = string(models.StatusPending)
	}
	status, err := models.ParseStatus(statusLabel)
	if err != nil {
		return nil, &ValidationError{Field: "current_status", Reason: err.Error()}
	}

	if name := strings.TrimSpace(input.ShipmentName); name != "" {
		taken, err := d.shipmentNameTaken(ctx, name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &ValidationError{Field: "shipment_name", Reason: "already in use"}
		}
	}

	shipment := &models.Shipment{
		ShipmentName:      strings.TrimSpace(input.ShipmentName),
		ItemType:          input.ItemType,
		Description:       input.Description,
		SenderName:        input.SenderName,
		SenderEmail:       input.SenderEmail,
		RecipientName:     strings.TrimSpace(input.RecipientName),
		RecipientAddress:  input.RecipientAddress,
		RecipientEmail:    input.RecipientEmail,
		RecipientPhone:    input.RecipientPhone,
		Origin:            strings.TrimSpace(input.Origin),
		Destination:       strings.TrimSpace(input.Destination),
		CurrentStatus:     status,
		Weight:            parseWeight(input.Weight),
		Dimensions:        input.Dimensions,
		PaymentMethod:     input.PaymentMethod,
		PaymentStatus:     models.PaymentStatus(input.PaymentStatus),
		EstimatedDelivery: input.EstimatedDelivery,
	}
	if err := d.store.CreateShipment(ctx, shipment); err != nil {
		return nil, err
	}

	d.logger.Info("Shipment registered",
		zap.String("tracking_number", shipment.TrackingNumber),
		zap.String("status", string(shipment.CurrentStatus)),
	)
	return shipment, nil
}

func (d *Directory) shipmentNameTaken(ctx context.Context, name string) (bool, error) {
	shipments, err := d.store.ListShipments(ctx, store.ListFilter{})
	if err != nil {
		return false, err
	}
	for _, shipment := range shipments {
		if strings.EqualFold(shipment.ShipmentName, name) {
			return true, nil
		}
	}
	return false, nil
}

// parseWeight mirrors the registration form: malformed input becomes 0.
func parseWeight(raw string) float64 {
	w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || w < 0 {
		return 0
	}
	return w
}

// UpdateStatus appends a milestone and rewrites the shipment's current
// status to match it.
func (d *Directory) UpdateStatus(ctx context.Context, trackingNumber, statusLabel, location, description string) (*models.Shipment, error) {
	status, err := models.ParseStatus(statusLabel)
	if err != nil {
		return nil, &ValidationError{Field: "status", Reason: err.Error()}
	}

	shipment, err := d.store.AppendUpdate(ctx, trackingNumber, models.ShipmentUpdate{
		Status:      status,
		Location:    location,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("Shipment status updated",
		zap.String("tracking_number", shipment.TrackingNumber),
		zap.String("status", string(status)),
	)
	return shipment, nil
}

// Archive hides a shipment from customers without destroying it.
func (d *Directory) Archive(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	shipment, err := d.store.SoftDelete(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	d.logger.Info("Shipment archived", zap.String("tracking_number", shipment.TrackingNumber))
	return shipment, nil
}

// Restore makes an archived shipment visible again, history intact.
func (d *Directory) Restore(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	shipment, err := d.store.Restore(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	d.logger.Info("Shipment restored", zap.String("tracking_number", shipment.TrackingNumber))
	return shipment, nil
}
