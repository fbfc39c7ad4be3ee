package api

import (
	"encoding/json"
	"net/http"
	"time"

	"trackflow-service/tracking"
)

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) error {
	shipment, err := s.lookup.Track(r.Context(), r.PathValue("number"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, shipment)
	return nil
}

func (s *Server) handleListShipments(w http.ResponseWriter, r *http.Request) error {
	showDeleted := r.URL.Query().Get("deleted") == "true"
	shipments, err := s.directory.List(r.Context(), r.URL.Query().Get("q"), showDeleted)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, shipments)
	return nil
}

type registerRequest struct {
	ShipmentName      string `json:"shipment_name"`
	ItemType          string `json:"item_type"`
	Description       string `json:"description"`
	SenderName        string `json:"sender_name"`
	SenderEmail       string `json:"sender_email"`
	RecipientName     string `json:"recipient_name"`
	RecipientAddress  string `json:"recipient_address"`
	RecipientEmail    string `json:"recipient_email"`
	RecipientPhone    string `json:"recipient_phone"`
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
	CurrentStatus     string `json:"current_status"`
	Weight            string `json:"weight"`
	Dimensions        string `json:"dimensions"`
	PaymentMethod     string `json:"payment_method"`
	PaymentStatus     string `json:"payment_status"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

func (s *Server) handleRegisterShipment(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil
	}

	input := tracking.RegistrationInput{
		ShipmentName:     req.ShipmentName,
		ItemType:         req.ItemType,
		Description:      req.Description,
		SenderName:       req.SenderName,
		SenderEmail:      req.SenderEmail,
		RecipientName:    req.RecipientName,
		RecipientAddress: req.RecipientAddress,
		RecipientEmail:   req.RecipientEmail,
		RecipientPhone:   req.RecipientPhone,
		Origin:           req.Origin,
		Destination:      req.Destination,
		InitialStatus:    req.CurrentStatus,
		Weight:           req.Weight,
		Dimensions:       req.Dimensions,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    req.PaymentStatus,
	}
	if req.EstimatedDelivery != "" {
		if eta, err := time.Parse(time.RFC3339, req.EstimatedDelivery); err == nil {
			input.EstimatedDelivery = &eta
		}
	}

	shipment, err := s.directory.Register(r.Context(), input)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, shipment)
	return nil
}

type statusUpdateRequest struct {
	Status      string `json:"status"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) error {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return nil
	}
	shipment, err := s.directory.UpdateStatus(r.Context(), r.PathValue("number"), req.Status, req.Location, req.Description)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, shipment)
	return nil
}

func (s *Server) handleArchiveShipment(w http.ResponseWriter, r *http.Request) error {
	shipment, err := s.directory.Archive(r.Context(), r.PathValue("number"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, shipment)
	return nil
}

func (s *Server) handleRestoreShipment(w http.ResponseWriter, r *http.Request) error {
	shipment, err := s.directory.Restore(r.Context(), r.PathValue("number"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, shipment)
	return nil
}
