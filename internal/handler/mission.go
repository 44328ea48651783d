package handler

import (
	"net/http"
	"strconv"

	"github.com/relayvision/visionlog/internal/board"
	"github.com/relayvision/visionlog/internal/ctxkeys"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/service"
)

type MissionHandler struct {
	missionService *service.MissionService
}

func NewMissionHandler(missionService *service.MissionService) *MissionHandler {
	return &MissionHandler{missionService: missionService}
}

// List returns all missions, or only today's board with ?active=true.
func (h *MissionHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	missions, err := h.missionService.List(ctxkeys.UserID(r.Context()), activeOnly)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, missions)
}

func (h *MissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.MissionInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	mission, err := h.missionService.Create(r.Context(), ctxkeys.UserID(r.Context()), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mission)
}

type toggleRequest struct {
	Action string `json:"action"`
}

func (h *MissionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var in toggleRequest
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	action, err := board.ParseAction(in.Action)
	if err != nil {
		fail(w, r, newError(http.StatusUnprocessableEntity, CodeValidation, err.Error()))
		return
	}

	mission, err := h.missionService.Toggle(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), action)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

type cheerRequest struct {
	Note string `json:"note"`
}

func (h *MissionHandler) Cheer(w http.ResponseWriter, r *http.Request) {
	var in cheerRequest
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	mission, err := h.missionService.Cheer(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), in.Note)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

func (h *MissionHandler) Rollover(w http.ResponseWriter, r *http.Request) {
	n, err := h.missionService.Rollover(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"archived": n})
}

func (h *MissionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.missionService.Recent(ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tasks": tasks})
}

func (h *MissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.missionService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
