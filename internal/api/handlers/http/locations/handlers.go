package locations

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tourguard/internal/domain"
	"tourguard/pkg/e"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Locations interface {
	List(ctx context.Context, f domain.LocationFilter) ([]domain.Location, error)
	Get(ctx context.Context, id int64) (*domain.Location, error)
}

type Stats interface {
	LocationStats(ctx context.Context) (*domain.LocationStats, error)
}

type Handler struct {
	logger    *slog.Logger
	Locations Locations
	Stats     Stats
	prod      bool
}

func NewHandler(logger *slog.Logger, locations Locations, stats Stats, prod bool) *Handler {
	return &Handler{
		logger:    logger,
		Locations: locations,
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.LocationFilter{
		Type:        domain.LocationType(q.Get("type")),
		SafetyLevel: domain.SafetyLevel(q.Get("safety_level")),
		Search:      q.Get("search"),
	}

	locations, err := h.Locations.List(r.Context(), f)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"locations": locations})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		l.Warn("invalid id", slog.String("id", idStr))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	loc, err := h.Locations.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, loc)
}

func (h *Handler) StatsOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.LocationStats(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	l.Error("handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	switch {
	case errors.Is(err, e.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, e.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		if h.prod {
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
