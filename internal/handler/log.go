package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/service"
)

// LogHandler serves exercise logs.
type LogHandler struct {
	service *service.LogService
	logger  *slog.Logger
}

func NewLogHandler(svc *service.LogService, logger *slog.Logger) *LogHandler {
	return &LogHandler{service: svc, logger: logger}
}

// HandleGet returns the user's log, optionally filtered.
//
// HTTP: GET /api/users/{id}/logs?from=2023-01-01&to=2023-02-01&limit=5
func (h *LogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.service.GetFilteredLog(r.Context(),
		chi.URLParam(r, "id"),
		q.Get("from"),
		q.Get("to"),
		q.Get("limit"),
	)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidQuery) {
			h.logger.Warn("invalid log query",
				slog.String("user_id", chi.URLParam(r, "id")),
				slog.String("query", r.URL.RawQuery),
			)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
