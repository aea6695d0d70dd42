package alerts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"tourguard/pkg/e"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	l.Error("handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	switch {
	case errors.Is(err, e.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, e.ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, e.ErrConflict):
		h.writeJSON(w, http.StatusConflict, errorBody("conflict"))
	default:
		if h.prod {
			h.writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		h.writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func parseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return i
}
