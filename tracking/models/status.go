package models

import (
	"fmt"
	"strings"
)

// Status is a shipment milestone label. Stored rows from older deployments may
// carry free-text values; Normalize maps those onto the closed set.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusInTransit      Status = "In Transit"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusHeld           Status = "Held"
	StatusPostponed      Status = "Postponed"
)

var statuses = []Status{
	StatusPending,
	StatusInTransit,
	StatusOutForDelivery,
	StatusDelivered,
	StatusHeld,
	StatusPostponed,
}

// Legacy labels written by earlier releases.
var statusAliases = map[string]Status{
	"processing": StatusPending,
}

// ParseStatus resolves a user-supplied label, case-insensitively.
func ParseStatus(s string) (Status, error) {
	trimmed := strings.TrimSpace(s)
	for _, status := range statuses {
		if strings.EqualFold(trimmed, string(status)) {
			return status, nil
		}
	}
	if status, ok := statusAliases[strings.ToLower(trimmed)]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown shipment status: %q", s)
}

// NormalizeStatus maps a stored label onto the closed set, falling back to
// Pending for values no release ever wrote. Reads must not fail on old rows.
func NormalizeStatus(s string) Status {
	status, err := ParseStatus(s)
	if err != nil {
		return StatusPending
	}
	return status
}

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "Pending"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentPaid          PaymentStatus = "Paid"
)
