package service

import "tourguard/internal/domain"

// Two visibility rules apply to tourists and they are kept as separate
// predicates on purpose: the listing rule is compiled into the SQL predicate
// (domain.IncidentQuery.VisibleTo), the direct-fetch rule lives here. Today
// both admit resolved incidents; keep them independent so either can change
// without silently dragging the other along.

// canViewIncident gates GetById. Tourists see their own reports plus any
// incident that has reached resolved.
func canViewIncident(caller domain.Identity, inc *domain.Incident) bool {
	if caller.Role.Elevated() {
		return true
	}
	return inc.ReporterID == caller.UserID || inc.Status == domain.StatusResolved
}
