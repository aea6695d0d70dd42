package domain

// TransitionPolicy decides whether an incident may move from one status to
// another. The original system allowed any overwrite; strict ordering is kept
// behind the same interface so either behavior can be wired.
type TransitionPolicy interface {
	Allowed(from, to IncidentStatus) bool
}

// FreeTransitions permits any status overwrite, including re-closing an
// already-closed incident (which re-stamps resolved_at).
type FreeTransitions struct{}

func (FreeTransitions) Allowed(from, to IncidentStatus) bool { return true }

// StrictTransitions enforces forward-only movement through the lifecycle.
// closed is terminal.
type StrictTransitions struct{}

var strictNext = map[IncidentStatus]map[IncidentStatus]bool{
	StatusReported: {
		StatusInvestigating: true,
		StatusResolved:      true,
		StatusClosed:        true,
	},
	StatusInvestigating: {
		StatusResolved: true,
		StatusClosed:   true,
	},
	StatusResolved: {
		StatusClosed: true,
	},
	StatusClosed: {},
}

func (StrictTransitions) Allowed(from, to IncidentStatus) bool {
	return strictNext[from][to]
}
