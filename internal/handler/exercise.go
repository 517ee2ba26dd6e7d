package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/service"
)

// ExerciseHandler serves /api/users/{id}/exercises.
type ExerciseHandler struct {
	service *service.ExerciseService
	logger  *slog.Logger
}

func NewExerciseHandler(svc *service.ExerciseService, logger *slog.Logger) *ExerciseHandler {
	return &ExerciseHandler{service: svc, logger: logger}
}

// exerciseResponse is the public shape of a recorded exercise. ID is the
// owner's ID; the exercise's own ID is ExerciseID.
type exerciseResponse struct {
	ID          string `json:"id"`
	ExerciseID  string `json:"exerciseId"`
	Username    string `json:"username"`
	Date        string `json:"date"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

func toExerciseResponse(rec *model.ExerciseRecord) exerciseResponse {
	return exerciseResponse{
		ID:          rec.Exercise.UserID,
		ExerciseID:  rec.Exercise.ID,
		Username:    rec.Username,
		Date:        rec.Exercise.DisplayDate(),
		Duration:    rec.Exercise.Duration,
		Description: rec.Exercise.Description,
	}
}

// HandleCreate records an exercise for the user in the path.
//
// HTTP: POST /api/users/{id}/exercises
// BODY: description, duration (minutes), optional date (YYYY-MM-DD)
func (h *ExerciseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	input, err := readInput(w, r)
	if err != nil {
		h.logger.Warn("invalid exercise body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	duration, err := parseDuration(input.Get("duration"))
	if err != nil {
		h.logger.Warn("invalid exercise duration",
			slog.String("user_id", chi.URLParam(r, "id")),
			slog.String("duration", input.Get("duration")),
		)
		writeError(w, err)
		return
	}

	rec, err := h.service.Record(r.Context(),
		chi.URLParam(r, "id"),
		input.Get("description"),
		duration,
		input.Get("date"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExerciseResponse(rec))
}

// HandleGet re-reads one exercise.
//
// HTTP: GET /api/users/{id}/exercises/{exerciseId}
func (h *ExerciseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "exerciseId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExerciseResponse(rec))
}
