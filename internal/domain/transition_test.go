package domain

import (
	"testing"
	"time"
)

func TestFreeTransitions_AllowsAnyOverwrite(t *testing.T) {
	t.Parallel()

	statuses := []IncidentStatus{StatusReported, StatusInvestigating, StatusResolved, StatusClosed}
	p := FreeTransitions{}

	for _, from := range statuses {
		for _, to := range statuses {
			if !p.Allowed(from, to) {
				t.Errorf("FreeTransitions should allow %s -> %s", from, to)
			}
		}
	}
}

func TestStrictTransitions(t *testing.T) {
	t.Parallel()

	p := StrictTransitions{}

	allowed := []struct{ from, to IncidentStatus }{
		{StatusReported, StatusInvestigating},
		{StatusReported, StatusResolved},
		{StatusReported, StatusClosed},
		{StatusInvestigating, StatusResolved},
		{StatusInvestigating, StatusClosed},
		{StatusResolved, StatusClosed},
	}
	for _, tc := range allowed {
		if !p.Allowed(tc.from, tc.to) {
			t.Errorf("expected %s -> %s allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to IncidentStatus }{
		{StatusInvestigating, StatusReported},
		{StatusResolved, StatusReported},
		{StatusResolved, StatusInvestigating},
		{StatusClosed, StatusReported},
		{StatusClosed, StatusInvestigating},
		{StatusClosed, StatusResolved},
		{StatusClosed, StatusClosed},
	}
	for _, tc := range denied {
		if p.Allowed(tc.from, tc.to) {
			t.Errorf("expected %s -> %s denied", tc.from, tc.to)
		}
	}
}

func TestIncidentStatus_Resolving(t *testing.T) {
	t.Parallel()

	if StatusReported.Resolving() || StatusInvestigating.Resolving() {
		t.Error("reported/investigating must not stamp resolved_at")
	}
	if !StatusResolved.Resolving() || !StatusClosed.Resolving() {
		t.Error("resolved/closed must stamp resolved_at")
	}
}

func TestSafetyAlert_Expired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	if (SafetyAlert{}).Expired(now) {
		t.Error("alert without expires_at never expires")
	}
	if !(SafetyAlert{ExpiresAt: &past}).Expired(now) {
		t.Error("past expires_at must report expired")
	}
	if (SafetyAlert{ExpiresAt: &future}).Expired(now) {
		t.Error("future expires_at must not report expired")
	}
}

func TestSeverityWeights_Ordering(t *testing.T) {
	t.Parallel()

	if SeverityWeights[SeverityCritical] != 4 ||
		SeverityWeights[SeverityHigh] != 3 ||
		SeverityWeights[SeverityMedium] != 2 ||
		SeverityWeights[SeverityLow] != 1 {
		t.Errorf("severity weights changed: %v", SeverityWeights)
	}
	if SafetyLevelWeights[SafetyHigh] != 3 ||
		SafetyLevelWeights[SafetyMedium] != 2 ||
		SafetyLevelWeights[SafetyLow] != 1 {
		t.Errorf("safety level weights changed: %v", SafetyLevelWeights)
	}
}

func TestRole_Elevated(t *testing.T) {
	t.Parallel()

	if RoleTourist.Elevated() {
		t.Error("tourist must not be elevated")
	}
	if !RoleAdmin.Elevated() || !RoleSafetyOfficer.Elevated() {
		t.Error("admin and safety_officer are elevated")
	}
}
