package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"choreboard/internal/model"
	"choreboard/internal/store"
)

type ChoreHandler struct {
	choreStore *store.ChoreStore
	logger     *slog.Logger
}

func NewChoreHandler(cs *store.ChoreStore, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{choreStore: cs, logger: logger}
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores, err := h.choreStore.List()
	if err != nil {
		h.logger.Error("list chores", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list chores")
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	chore, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("get chore", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if chore == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateChore
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req, err := model.ValidateCreate(req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	chore, err := h.choreStore.Create(req.Title, req.Description, req.AssignedTo, req.DueDate, req.Priority)
	if err != nil {
		h.logger.Error("create chore", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create chore")
		return
	}

	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("get chore", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	var req model.UpdateChore
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req, err = model.ValidateUpdate(req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	chore, err := h.choreStore.Update(id, req.Title, req.Description, req.AssignedTo, req.DueDate, req.Status, req.Priority)
	if err != nil {
		h.logger.Error("update chore", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update chore")
		return
	}

	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.choreStore.Delete(id)
	if err != nil {
		h.logger.Error("delete chore", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete chore")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "chore deleted"})
}
