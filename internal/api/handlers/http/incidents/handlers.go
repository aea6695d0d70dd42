package incidents

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
type Incidents interface {
	Create(ctx context.Context, req domain.CreateIncidentRequest, reporterID int64) (int64, error)
	CreateSimple(ctx context.Context, req domain.CreateSimpleIncidentRequest, reporterID int64) (int64, error)
	List(ctx context.Context, caller domain.Identity, req domain.ListIncidentsRequest) (*domain.ListIncidentsResponse, error)
	Get(ctx context.Context, caller domain.Identity, id int64) (*domain.Incident, error)
	Update(ctx context.Context, caller domain.Identity, id int64, req domain.UpdateIncidentRequest) error
}

type Stats interface {
	Overview(ctx context.Context) (*domain.StatsOverview, error)
}

type Handler struct {
	logger    *slog.Logger
	Incidents Incidents
	Stats     Stats
	prod      bool
}

func NewHandler(logger *slog.Logger, incidents Incidents, stats Stats, prod bool) *Handler {
	return &Handler{
		logger:    logger,
		Incidents: incidents,
		Stats:     stats,
		prod:      prod,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	caller, ok := middleware.CallerIdentity(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorBody("authentication required"))
		return
	}

	var req domain.CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}

	id, err := h.Incidents.Create(r.Context(), req, caller.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident created", slog.Int64("id", id), slog.Int64("reporter_id", caller.UserID))
	h.writeJSON(w, http.StatusCreated, createdBody("Incident reported successfully", id))
}

func (h *Handler) CreateSimple(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	caller, ok := middleware.CallerIdentity(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorBody("authentication required"))
		return
	}

	var req domain.CreateSimpleIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}

	id, err := h.Incidents.CreateSimple(r.Context(), req, caller.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident reported", slog.Int64("id", id), slog.String("category", string(req.Category)))
	h.writeJSON(w, http.StatusCreated, createdBody("Incident reported successfully", id))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerIdentity(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorBody("authentication required"))
		return
	}

	q := r.URL.Query()
	req := domain.ListIncidentsRequest{
		Filter: domain.IncidentFilter{
			Status:   domain.IncidentStatus(q.Get("status")),
			Severity: domain.IncidentSeverity(q.Get("severity")),
			Type:     domain.IncidentType(q.Get("type")),
		},
		Page:  parseInt(q.Get("page"), 1),
		Limit: parseInt(q.Get("limit"), 10),
	}
	if locID := parseInt64(q.Get("location_id"), 0); locID > 0 {
		req.Filter.LocationID = &locID
	}

	resp, err := h.Incidents.List(r.Context(), caller, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	caller, ok := middleware.CallerIdentity(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorBody("authentication required"))
		return
	}

	id := parseInt64(chi.URLParam(r, "id"), 0)
	if id <= 0 {
		l.Warn("invalid id", slog.String("id", chi.URLParam(r, "id")))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}

	inc, err := h.Incidents.Get(r.Context(), caller, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, inc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	caller, ok := middleware.CallerIdentity(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorBody("authentication required"))
		return
	}

	id := parseInt64(chi.URLParam(r, "id"), 0)
	if id <= 0 {
		l.Warn("invalid id", slog.String("id", chi.URLParam(r, "id")))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}

	var req domain.UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}

	if err := h.Incidents.Update(r.Context(), caller, id, req); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("incident updated", slog.Int64("id", id), slog.Int64("updated_by", caller.UserID))
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Incident updated successfully"})
}

func (h *Handler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Overview(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}
