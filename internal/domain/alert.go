package domain

import "time"

type AlertType string

const (
	AlertWeather  AlertType = "weather"
	AlertTraffic  AlertType = "traffic"
	AlertSecurity AlertType = "security"
	AlertMedical  AlertType = "medical"
	AlertGeneral  AlertType = "general"
)

type AlertSeverity string

const (
	AlertInfo    AlertSeverity = "info"
	AlertWarning AlertSeverity = "warning"
	AlertDanger  AlertSeverity = "danger"
)

type SafetyAlert struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	Message    string        `json:"message"`
	AlertType  AlertType     `json:"alert_type"`
	Severity   AlertSeverity `json:"severity"`
	LocationID *int64        `json:"location_id,omitempty"`
	IsActive   bool          `json:"is_active"`
	ExpiresAt  *time.Time    `json:"expires_at,omitempty"`
	CreatedBy  int64         `json:"created_by"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	LocationName *string `json:"location_name,omitempty"`
}

// Expired is derived at read time from expires_at, never stored. Active-ness
// and expiry are independent flags.
func (a SafetyAlert) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

type CreateAlertRequest struct {
	Title      string        `json:"title" validate:"required,min=3,max=200"`
	Message    string        `json:"message" validate:"required,min=5"`
	AlertType  AlertType     `json:"alert_type" validate:"required,oneof=weather traffic security medical general"`
	Severity   AlertSeverity `json:"severity" validate:"required,oneof=info warning danger"`
	LocationID *int64        `json:"location_id" validate:"omitempty,min=1"`
	IsActive   *bool         `json:"is_active"`
	ExpiresAt  *time.Time    `json:"expires_at"`
}

type UpdateAlertRequest struct {
	Title      *string        `json:"title" validate:"omitempty,min=3,max=200"`
	Message    *string        `json:"message" validate:"omitempty,min=5"`
	AlertType  *AlertType     `json:"alert_type" validate:"omitempty,oneof=weather traffic security medical general"`
	Severity   *AlertSeverity `json:"severity" validate:"omitempty,oneof=info warning danger"`
	LocationID *int64         `json:"location_id" validate:"omitempty,min=1"`
	IsActive   *bool          `json:"is_active"`
	ExpiresAt  *time.Time     `json:"expires_at"`
}

func (r UpdateAlertRequest) Empty() bool {
	return r.Title == nil && r.Message == nil && r.AlertType == nil &&
		r.Severity == nil && r.LocationID == nil && r.IsActive == nil && r.ExpiresAt == nil
}

type AlertFilter struct {
	Type     AlertType
	Severity AlertSeverity
	Search   string
}
