package sos

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
type SOS interface {
	Create(ctx context.Context, req domain.CreateSOSRequest, touristID int64) (int64, error)
	ListLatest(ctx context.Context, limit int) ([]domain.SOSEvent, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SOSStatus) error
}

type Handler struct {
	logger *slog.Logger
	SOS    SOS
	prod   bool
}

func NewHandler(logger *slog.Logger, sos SOS, prod bool) *Handler {
	return &Handler{
		logger: logger,
		SOS:    sos,
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	caller, ok := middleware.CallerIdentity(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorBody("authentication required"))
		return
	}

	var req domain.CreateSOSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}

	id, err := h.SOS.Create(r.Context(), req, caller.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("sos event created", slog.Int64("id", id), slog.Int64("tourist_id", caller.UserID))
	h.writeJSON(w, http.StatusCreated, map[string]any{"message": "SOS alert sent successfully", "id": id})
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 20)

	events, err := h.SOS.ListLatest(r.Context(), limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"sos_events": events})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id := parseInt64(chi.URLParam(r, "id"), 0)
	if id <= 0 {
		l.Warn("invalid id", slog.String("id", chi.URLParam(r, "id")))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}

	var req domain.UpdateSOSStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}

	if err := h.SOS.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("sos status updated", slog.Int64("id", id), slog.String("status", string(req.Status)))
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "SOS status updated successfully"})
}
