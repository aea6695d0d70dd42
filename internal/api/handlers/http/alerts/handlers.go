package alerts

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tourguard/internal/domain"
	"tourguard/internal/middleware"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Alerts interface {
	Create(ctx context.Context, req domain.CreateAlertRequest, creatorID int64) (int64, error)
	List(ctx context.Context, f domain.AlertFilter) ([]domain.SafetyAlert, error)
	Get(ctx context.Context, id int64) (*domain.SafetyAlert, error)
	Update(ctx context.Context, id int64, req domain.UpdateAlertRequest) error
	Delete(ctx context.Context, id int64) error
	Feed(ctx context.Context) (*domain.AlertFeed, error)
	EmergencyInfo(ctx context.Context) (*domain.EmergencyInfo, error)
}

type Handler struct {
	logger *slog.Logger
	Alerts Alerts
	prod   bool
}

func NewHandler(logger *slog.Logger, alerts Alerts, prod bool) *Handler {
	return &Handler{
		logger: logger,
		Alerts: alerts,
		prod:   prod,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

// Feed is the combined alert view: recent incidents plus latest SOS events.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.Alerts.Feed(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, feed)
}

func (h *Handler) EmergencyContacts(w http.ResponseWriter, r *http.Request) {
	info, err := h.Alerts.EmergencyInfo(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, info)
}

func (h *Handler) ListSafety(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.AlertFilter{
		Type:     domain.AlertType(q.Get("type")),
		Severity: domain.AlertSeverity(q.Get("severity")),
		Search:   q.Get("search"),
	}

	alerts, err := h.Alerts.List(r.Context(), f)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (h *Handler) CreateSafety(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	caller, ok := middleware.CallerIdentity(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorBody("authentication required"))
		return
	}

	var req domain.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}

	id, err := h.Alerts.Create(r.Context(), req, caller.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("safety alert created", slog.Int64("id", id), slog.Int64("created_by", caller.UserID))
	h.writeJSON(w, http.StatusCreated, map[string]any{"message": "Safety alert created successfully", "id": id})
}

func (h *Handler) GetSafety(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id := parseInt64(chi.URLParam(r, "id"), 0)
	if id <= 0 {
		l.Warn("invalid id", slog.String("id", chi.URLParam(r, "id")))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}

	alert, err := h.Alerts.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, alert)
}

func (h *Handler) UpdateSafety(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id := parseInt64(chi.URLParam(r, "id"), 0)
	if id <= 0 {
		l.Warn("invalid id", slog.String("id", chi.URLParam(r, "id")))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}

	var req domain.UpdateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}

	if err := h.Alerts.Update(r.Context(), id, req); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("safety alert updated", slog.Int64("id", id))
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Safety alert updated successfully"})
}

func (h *Handler) DeleteSafety(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id := parseInt64(chi.URLParam(r, "id"), 0)
	if id <= 0 {
		l.Warn("invalid id", slog.String("id", chi.URLParam(r, "id")))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}

	if err := h.Alerts.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("safety alert deleted", slog.Int64("id", id))
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Safety alert deleted successfully"})
}
