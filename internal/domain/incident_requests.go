package domain

type CreateIncidentRequest struct {
	Title        string           `json:"title" validate:"required,min=5,max=200"`
	Description  string           `json:"description" validate:"required,min=10"`
	IncidentType IncidentType     `json:"incident_type" validate:"required,oneof=theft accident medical lost_person natural_disaster other"`
	Severity     IncidentSeverity `json:"severity" validate:"required,oneof=low medium high critical"`
	LocationID   *int64           `json:"location_id" validate:"omitempty,min=1"`
	Latitude     *float64         `json:"latitude" validate:"omitempty,lat"`
	Longitude    *float64         `json:"longitude" validate:"omitempty,lng"`
}

// CreateSimpleIncidentRequest is the reduced-field reporting path: severity is
// forced to low and the title is derived from the category.
type CreateSimpleIncidentRequest struct {
	Category    IncidentType `json:"category" validate:"required,oneof=theft accident medical lost_person natural_disaster other"`
	Description string       `json:"description" validate:"required,min=10"`
	Latitude    *float64     `json:"latitude" validate:"omitempty,lat"`
	Longitude   *float64     `json:"longitude" validate:"omitempty,lng"`
	PhotoBase64 string       `json:"photo_base64" validate:"omitempty,base64"`
	PhotoType   string       `json:"photo_type" validate:"omitempty,oneof=image/jpeg image/png"`
}

type UpdateIncidentRequest struct {
	Status            *IncidentStatus `json:"status" validate:"omitempty,oneof=reported investigating resolved closed"`
	AssignedOfficerID *int64          `json:"assigned_officer_id" validate:"omitempty,min=1"`
	Description       *string         `json:"description" validate:"omitempty,min=10"`
}

func (r UpdateIncidentRequest) Empty() bool {
	return r.Status == nil && r.AssignedOfficerID == nil && r.Description == nil
}

type IncidentFilter struct {
	Status     IncidentStatus   `json:"status,omitempty"`
	Severity   IncidentSeverity `json:"severity,omitempty"`
	Type       IncidentType     `json:"type,omitempty"`
	LocationID *int64           `json:"location_id,omitempty"`
}

type ListIncidentsRequest struct {
	Filter IncidentFilter
	Page   int
	Limit  int
}

type ListIncidentsResponse struct {
	Incidents []Incident     `json:"incidents"`
	Page      PaginationInfo `json:"pagination"`
}

type PaginationInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}
