package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"choreboard/internal/model"
	"choreboard/internal/store"
)

type UserHandler struct {
	userStore *store.UserStore
	logger    *slog.Logger
}

func NewUserHandler(us *store.UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{userStore: us, logger: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List()
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req, err := model.ValidateUser(req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	user, err := h.userStore.Create(req.Name, req.Email)
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}
