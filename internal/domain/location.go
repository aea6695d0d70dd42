package domain

import "time"

type LocationType string

const (
	LocationBeach    LocationType = "beach"
	LocationMountain LocationType = "mountain"
	LocationCity     LocationType = "city"
	LocationMonument LocationType = "monument"
	LocationPark     LocationType = "park"
	LocationOther    LocationType = "other"
)

type SafetyLevel string

const (
	SafetyLow    SafetyLevel = "low"
	SafetyMedium SafetyLevel = "medium"
	SafetyHigh   SafetyLevel = "high"
)

// Location is reference data for the core: incidents and alerts point at it,
// the core reads and validates but never writes it.
type Location struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	Latitude     *float64     `json:"latitude,omitempty"`
	Longitude    *float64     `json:"longitude,omitempty"`
	LocationType LocationType `json:"location_type"`
	SafetyLevel  SafetyLevel  `json:"safety_level"`
	Description  *string      `json:"description,omitempty"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
}

type LocationFilter struct {
	Type        LocationType
	SafetyLevel SafetyLevel
	Search      string
}
