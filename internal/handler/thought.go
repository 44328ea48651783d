package handler

import (
	"net/http"

	"github.com/relayvision/visionlog/internal/ctxkeys"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/service"
)

type ThoughtHandler struct {
	thoughtService *service.ThoughtService
}

func NewThoughtHandler(thoughtService *service.ThoughtService) *ThoughtHandler {
	return &ThoughtHandler{thoughtService: thoughtService}
}

func (h *ThoughtHandler) List(w http.ResponseWriter, r *http.Request) {
	thoughts, err := h.thoughtService.List(ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thoughts)
}

func (h *ThoughtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ThoughtInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	thought, err := h.thoughtService.Create(r.Context(), ctxkeys.UserID(r.Context()), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, thought)
}

func (h *ThoughtHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.ThoughtPatch
	if err := decode(w, r, &patch); err != nil {
		fail(w, r, err)
		return
	}

	thought, err := h.thoughtService.Update(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thought)
}

func (h *ThoughtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.thoughtService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
