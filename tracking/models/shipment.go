package models

import "time"

// Shipment is one cargo consignment. TrackingNumber is the customer-facing
// identifier; ID is internal. Updates are kept chronological, oldest first.
type Shipment struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	TrackingNumber string `gorm:"size:100;not null;unique" json:"tracking_number"`
	ShipmentName   string `gorm:"size:100" json:"shipment_name,omitempty"`
	ItemType       string `gorm:"size:100" json:"item_type"`
	Description    string `json:"description"`

	SenderName       string `gorm:"size:100" json:"sender_name,omitempty"`
	SenderEmail      string `gorm:"size:100" json:"sender_email,omitempty"`
	RecipientName    string `gorm:"size:100" json:"recipient_name,omitempty"`
	RecipientAddress string `gorm:"size:256" json:"recipient_address,omitempty"`
	RecipientEmail   string `gorm:"size:100" json:"recipient_email,omitempty"`
	RecipientPhone   string `gorm:"size:50" json:"recipient_phone,omitempty"`

	Origin      string `gorm:"size:100" json:"origin,omitempty"`
	Destination string `gorm:"size:100" json:"destination,omitempty"`

	CurrentStatus Status  `gorm:"size:50;not null" json:"current_status"`
	Weight        float64 `json:"weight,omitempty"`
	Dimensions    string  `gorm:"size:100" json:"dimensions,omitempty"`

	PaymentMethod string        `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentStatus PaymentStatus `gorm:"size:50" json:"payment_status,omitempty"`

	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	IsDeleted         bool       `gorm:"not null;default:false" json:"is_deleted"`

	Updates []ShipmentUpdate `gorm:"foreignKey:ShipmentID;references:TrackingNumber" json:"updates"`
}

// ShipmentUpdate is one milestone entry in a shipment's history. Immutable
// once written; the history is append-only.
type ShipmentUpdate struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ShipmentID  string    `gorm:"size:100;not null;index" json:"shipment_id"`
	Status      Status    `gorm:"size:50;not null" json:"status"`
	Location    string    `gorm:"size:100" json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LatestUpdate returns the most recent milestone, or nil for an empty history.
func (s *Shipment) LatestUpdate() *ShipmentUpdate {
	if len(s.Updates) == 0 {
		return nil
	}
	return &s.Updates[len(s.Updates)-1]
}
