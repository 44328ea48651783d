package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/relayvision/visionlog/internal/ctxkeys"
	"github.com/relayvision/visionlog/internal/service"
)

type AllyHandler struct {
	allyService    *service.AllyService
	profileService *service.ProfileService
}

func NewAllyHandler(allyService *service.AllyService, profileService *service.ProfileService) *AllyHandler {
	return &AllyHandler{
		allyService:    allyService,
		profileService: profileService,
	}
}

type inviteRequest struct {
	Email string `json:"email"`
}

type confirmRequest struct {
	InviteID string `json:"invite_id"`
}

// pendingInvite is an invite as shown to its recipient.
type pendingInvite struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	FromName   string    `json:"from_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *AllyHandler) SendInvite(w http.ResponseWriter, r *http.Request) {
	var in inviteRequest
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}

	invite, err := h.allyService.SendInvite(r.Context(), ctxkeys.UserID(r.Context()), in.Email)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, invite)
}

func (h *AllyHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var in confirmRequest
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if in.InviteID == "" {
		fail(w, r, newError(http.StatusBadRequest, CodeBadRequest, "invite_id is required"))
		return
	}

	err := h.allyService.Confirm(r.Context(), ctxkeys.UserID(r.Context()), in.InviteID)
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AllyHandler) Sever(w http.ResponseWriter, r *http.Request) {
	err := h.allyService.Sever(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AllyHandler) Invites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.allyService.Pending(ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}

	out := make([]pendingInvite, 0, len(invites))
	for _, invite := range invites {
		name := ""
		profile, err := h.profileService.ByUserID(invite.FromUserID)
		if err != nil {
			slog.WarnContext(r.Context(), "failed to load inviter profile", "invite_id", invite.ID, "error", err)
		} else {
			name = profile.Name
		}
		out = append(out, pendingInvite{
			ID:         invite.ID,
			FromUserID: invite.FromUserID,
			FromName:   name,
			CreatedAt:  invite.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
