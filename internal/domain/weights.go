package domain

// Ordinal weights used by the aggregation queries. Both CASE expressions in
// storage are generated from these tables so the two scales cannot drift:
// the UI ranks "most dangerous" off these exact integers.

var SeverityWeights = map[IncidentSeverity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

var SafetyLevelWeights = map[SafetyLevel]int{
	SafetyHigh:   3,
	SafetyMedium: 2,
	SafetyLow:    1,
}
