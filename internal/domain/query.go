package domain

import "time"

// IncidentQuery is the storage-level listing predicate: filters plus the
// caller-visibility restriction, already clamped pagination.
type IncidentQuery struct {
	Filter IncidentFilter

	// VisibleTo restricts rows to (reporter_id = *VisibleTo OR status =
	// 'resolved'). Nil means no restriction (elevated callers).
	VisibleTo *int64

	Limit  int
	Offset int
}

// IncidentUpdate carries only the fields the caller supplied. StampResolved
// makes the store write resolved_at = now() in the same statement.
type IncidentUpdate struct {
	Status            *IncidentStatus
	AssignedOfficerID *int64
	Description       *string
	StampResolved     bool
}

// AlertUpdate mirrors UpdateAlertRequest field-for-field; updated_at is always
// stamped by the store.
type AlertUpdate struct {
	Title      *string
	Message    *string
	AlertType  *AlertType
	Severity   *AlertSeverity
	LocationID *int64
	IsActive   *bool
	ExpiresAt  *time.Time
}
