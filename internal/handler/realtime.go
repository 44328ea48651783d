package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/relayvision/visionlog/internal/ctxkeys"
	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/realtime"
)

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

func validTable(table string) bool {
	switch table {
	case "", "*", model.TableThoughts, model.TableMissions, model.TableGoals, model.TableVisions, model.TableProfiles:
		return true
	}
	return false
}

// Subscribe upgrades to a websocket streaming change events.
// ?table= and ?event= (insert, update, delete or *) narrow the stream.
func (h *RealtimeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if !validTable(table) {
		fail(w, r, newError(http.StatusBadRequest, CodeBadRequest, "unknown table"))
		return
	}

	typ := model.EventType(strings.ToUpper(r.URL.Query().Get("event")))
	switch typ {
	case "", model.EventAll, model.EventInsert, model.EventUpdate, model.EventDelete:
	default:
		fail(w, r, newError(http.StatusBadRequest, CodeBadRequest, "unknown event type"))
		return
	}

	err := h.hub.Serve(w, r, ctxkeys.UserID(r.Context()), realtime.Filter{Table: table, Type: typ})
	if err != nil {
		// Accept has already written the failure response
		slog.WarnContext(r.Context(), "realtime upgrade failed", "error", err)
	}
}
