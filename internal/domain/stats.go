package domain

type IncidentOverview struct {
	TotalIncidents int64 `json:"total_incidents"`

	Reported      int64 `json:"reported"`
	Investigating int64 `json:"investigating"`
	Resolved      int64 `json:"resolved"`
	Closed        int64 `json:"closed"`

	Critical int64 `json:"critical"`
	High     int64 `json:"high"`
	Medium   int64 `json:"medium"`
	Low      int64 `json:"low"`
}

type TypeCount struct {
	IncidentType IncidentType `json:"incident_type"`
	Count        int64        `json:"count"`
}

// StatsOverview bundles the four aggregates read from one snapshot of the
// store. The reads are independent queries; no isolation is assumed across
// them under concurrent writes.
type StatsOverview struct {
	Overview        IncidentOverview `json:"overview"`
	TypeBreakdown   []TypeCount      `json:"type_breakdown"`
	RecentIncidents []Incident       `json:"recent_incidents"`
}

type LocationStat struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	LocationType  LocationType `json:"location_type"`
	SafetyLevel   SafetyLevel  `json:"safety_level"`
	IncidentCount int64        `json:"incident_count"`
	AvgSeverity   float64      `json:"avg_severity"`
}

type LocationTypeStat struct {
	LocationType   LocationType `json:"location_type"`
	Count          int64        `json:"count"`
	AvgSafetyLevel float64      `json:"avg_safety_level"`
}

type LocationStats struct {
	Locations     []LocationStat     `json:"location_stats"`
	TypeBreakdown []LocationTypeStat `json:"type_stats"`
}

// AlertFeed is the combined recent-activity view: latest incidents plus
// latest SOS events.
type AlertFeed struct {
	Incidents []Incident `json:"incidents"`
	SOS       []SOSEvent `json:"sos"`
}

type EmergencyContact struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      *string `json:"email,omitempty"`
	Department *string `json:"department,omitempty"`
	LocationID *int64  `json:"location_id,omitempty"`
}

type SafetyTip struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type EmergencyInfo struct {
	Contacts []EmergencyContact `json:"contacts"`
	Tips     []SafetyTip        `json:"tips"`
}
