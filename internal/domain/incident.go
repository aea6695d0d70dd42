package domain

import "time"

type IncidentType string

const (
	IncidentTheft           IncidentType = "theft"
	IncidentAccident        IncidentType = "accident"
	IncidentMedical         IncidentType = "medical"
	IncidentLostPerson      IncidentType = "lost_person"
	IncidentNaturalDisaster IncidentType = "natural_disaster"
	IncidentOther           IncidentType = "other"
)

type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

type IncidentStatus string

const (
	StatusReported      IncidentStatus = "reported"
	StatusInvestigating IncidentStatus = "investigating"
	StatusResolved      IncidentStatus = "resolved"
	StatusClosed        IncidentStatus = "closed"
)

// Resolving reports whether writing this status stamps resolved_at.
func (s IncidentStatus) Resolving() bool {
	return s == StatusResolved || s == StatusClosed
}

type Incident struct {
	ID                int64            `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	IncidentType      IncidentType     `json:"incident_type"`
	Severity          IncidentSeverity `json:"severity"`
	Status            IncidentStatus   `json:"status"`
	LocationID        *int64           `json:"location_id,omitempty"`
	Latitude          *float64         `json:"latitude,omitempty"`
	Longitude         *float64         `json:"longitude,omitempty"`
	ReporterID        int64            `json:"reporter_id"`
	AssignedOfficerID *int64           `json:"assigned_officer_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	ResolvedAt        *time.Time       `json:"resolved_at,omitempty"`

	// joined display fields, populated on reads only
	LocationName        *string `json:"location_name,omitempty"`
	ReporterName        *string `json:"reporter_name,omitempty"`
	AssignedOfficerName *string `json:"assigned_officer_name,omitempty"`
}

// Attachment is a best-effort photo record tied to an incident. Its insert
// failing never fails the incident create.
type Attachment struct {
	ID         int64     `json:"id"`
	IncidentID int64     `json:"incident_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadedBy int64     `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}
