package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/service"
)

// UserHandler serves the /api/users endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// userResponse is the public shape of a user.
type userResponse struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{Username: u.Username, ID: u.ID}
}

// HandleCreate registers a user.
//
// HTTP: POST /api/users
// BODY: username=alice (form) or {"username": "alice"} (JSON)
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	input, err := readInput(w, r)
	if err != nil {
		h.logger.Warn("invalid create user body", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	user, err := h.service.Create(r.Context(), input.Get("username"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleList returns every user in creation order.
//
// HTTP: GET /api/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet returns one user.
//
// HTTP: GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
