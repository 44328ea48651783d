package handler

import (
	"net/http"

	"github.com/relayvision/visionlog/internal/ctxkeys"
	"github.com/relayvision/visionlog/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

type goalRequest struct {
	Title     string `json:"title"`
	Color     string `json:"color"`
	IsPrivate bool   `json:"is_private"`
}

type goalPatch struct {
	IsPrivate *bool `json:"is_private"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.List(ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in goalRequest
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), ctxkeys.UserID(r.Context()), in.Title, in.Color, in.IsPrivate)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// Update currently only flips privacy.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in goalPatch
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if in.IsPrivate == nil {
		fail(w, r, newError(http.StatusBadRequest, CodeBadRequest, "is_private is required"))
		return
	}

	goal, err := h.goalService.SetPrivate(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), *in.IsPrivate)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.goalService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
