package domain

import (
	"time"

	"github.com/google/uuid"
)

type SOSStatus string

const (
	SOSActive       SOSStatus = "active"
	SOSAcknowledged SOSStatus = "acknowledged"
	SOSResolved     SOSStatus = "resolved"
)

func (s SOSStatus) Valid() bool {
	switch s {
	case SOSActive, SOSAcknowledged, SOSResolved:
		return true
	}
	return false
}

type SOSEvent struct {
	ID        int64     `json:"id"`
	TouristID int64     `json:"tourist_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Location  *string   `json:"location,omitempty"`
	Status    SOSStatus `json:"status"`
	Timestamp time.Time `json:"timestamp"`

	TouristName *string `json:"tourist_name,omitempty"`
}

type CreateSOSRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,lat"`
	Longitude *float64 `json:"longitude" validate:"required,lng"`
	Location  *string  `json:"location" validate:"omitempty,max=255"`
}

type UpdateSOSStatusRequest struct {
	Status SOSStatus `json:"status" validate:"required,oneof=active acknowledged resolved"`
}

// SOSNotification is queued after an SOS row commits; delivery is best-effort
// and runs outside the request.
type SOSNotification struct {
	EventID   uuid.UUID `json:"event_id"`
	SOSID     int64     `json:"sos_id"`
	TouristID int64     `json:"tourist_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Location  *string   `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
