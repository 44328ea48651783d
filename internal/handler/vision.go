package handler

import (
	"net/http"

	"github.com/relayvision/visionlog/internal/ctxkeys"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/service"
)

type VisionHandler struct {
	visionService *service.VisionService
}

func NewVisionHandler(visionService *service.VisionService) *VisionHandler {
	return &VisionHandler{visionService: visionService}
}

func (h *VisionHandler) List(w http.ResponseWriter, r *http.Request) {
	visions, err := h.visionService.List(ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, visions)
}

func (h *VisionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.VisionInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	vision, err := h.visionService.Create(r.Context(), ctxkeys.UserID(r.Context()), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vision)
}

func (h *VisionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in model.VisionInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	vision, err := h.visionService.Update(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vision)
}

type currentRequest struct {
	MetricCurrent *float64 `json:"metric_current"`
}

func (h *VisionHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	var in currentRequest
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if in.MetricCurrent == nil {
		fail(w, r, newError(http.StatusBadRequest, CodeBadRequest, "metric_current is required"))
		return
	}

	vision, err := h.visionService.UpdateCurrent(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), *in.MetricCurrent)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vision)
}

func (h *VisionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.visionService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
