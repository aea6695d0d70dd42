package alerts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"

	"tourguard/internal/api/handlers/http/alerts"
	mock_alerts "tourguard/internal/api/handlers/http/alerts/mocks"
	"tourguard/internal/domain"
	"tourguard/internal/middleware"
	"tourguard/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func addChiURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asOfficer(r *http.Request) *http.Request {
	return middleware.WithIdentity(r, domain.Identity{UserID: 2, Role: domain.RoleSafetyOfficer})
}

func TestAlertsFeed_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_alerts.NewMockAlerts(ctrl)
	h := alerts.NewHandler(newTestLogger(), svc, false)

	svc.EXPECT().Feed(gomock.Any()).Return(&domain.AlertFeed{
		Incidents: []domain.Incident{{ID: 1, Title: "THEFT"}},
		SOS:       []domain.SOSEvent{},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/", nil)
	rr := httptest.NewRecorder()

	h.Feed(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var feed domain.AlertFeed
	if err := json.Unmarshal(rr.Body.Bytes(), &feed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(feed.Incidents) != 1 {
		t.Fatalf("incidents = %d, want 1", len(feed.Incidents))
	}
	if feed.SOS == nil {
		t.Fatal("sos must serialize as [], not null")
	}
}

func TestAlertsCreateSafety_ValidationErrorSurfaced(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_alerts.NewMockAlerts(ctrl)
	h := alerts.NewHandler(newTestLogger(), svc, false)

	svc.EXPECT().
		Create(gomock.Any(), gomock.Any(), int64(2)).
		Return(int64(0), e.Invalid("invalid locationId: location does not exist"))

	body := `{"title":"Storm warning","message":"Severe storm expected tonight.","alert_type":"weather","severity":"danger","location_id":99}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/safety/", bytes.NewBufferString(body))
	req = asOfficer(req)
	rr := httptest.NewRecorder()

	h.CreateSafety(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}

	var got map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got["error"] == "" {
		t.Fatal("validation detail must be surfaced in the error body")
	}
}

func TestAlertsDeleteSafety_OK(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_alerts.NewMockAlerts(ctrl)
	h := alerts.NewHandler(newTestLogger(), svc, false)

	svc.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/alerts/safety/5", nil)
	req = asOfficer(req)
	req = addChiURLParam(req, "id", "5")
	rr := httptest.NewRecorder()

	h.DeleteSafety(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}

func TestAlertsGetSafety_NotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_alerts.NewMockAlerts(ctrl)
	h := alerts.NewHandler(newTestLogger(), svc, false)

	svc.EXPECT().Get(gomock.Any(), int64(9)).Return(nil, e.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/safety/9", nil)
	req = addChiURLParam(req, "id", "9")
	rr := httptest.NewRecorder()

	h.GetSafety(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestAlertsListSafety_PassesFilter(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mock_alerts.NewMockAlerts(ctrl)
	h := alerts.NewHandler(newTestLogger(), svc, false)

	svc.EXPECT().
		List(gomock.Any(), domain.AlertFilter{
			Type:     domain.AlertWeather,
			Severity: domain.AlertDanger,
			Search:   "storm",
		}).
		Return([]domain.SafetyAlert{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/safety/?type=weather&severity=danger&search=storm", nil)
	rr := httptest.NewRecorder()

	h.ListSafety(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}
