package board

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/relayvision/visionlog/internal/model"
)

// NotificationKind classifies a partner-related mission change.
type NotificationKind string

const (
	NotifyPartnerCrushed   NotificationKind = "partner_crushed"
	NotifyPartnerCompleted NotificationKind = "partner_completed"
	NotifyCheerReceived    NotificationKind = "cheer_received"
)

// Notification is a transient toast derived from a realtime event.
type Notification struct {
	Kind      NotificationKind
	Title     string
	Message   string
	Cue       Cue
	MissionID string
	At        time.Time
}

// Classify diffs the new and old rows of a mission update. Only mission
// UPDATE events with a decodable payload can produce a notification.
func Classify(selfID, partnerID string, ev model.ChangeEvent) (Notification, bool) {
	if ev.Table != model.TableMissions || ev.Type != model.EventUpdate {
		return Notification{}, false
	}

	var newRow, oldRow model.Mission
	if err := json.Unmarshal(ev.New, &newRow); err != nil {
		return Notification{}, false
	}
	if len(ev.Old) > 0 {
		if err := json.Unmarshal(ev.Old, &oldRow); err != nil {
			return Notification{}, false
		}
	}

	at := ev.CommitTimestamp
	if at.IsZero() {
		at = time.Now()
	}

	if partnerID != "" && newRow.UserID == partnerID {
		switch {
		case newRow.Crushed && !oldRow.Crushed:
			return Notification{
				Kind:      NotifyPartnerCrushed,
				Title:     "ALLY CRUSHED IT",
				Message:   newRow.Task,
				Cue:       CueCrush,
				MissionID: newRow.ID,
				At:        at,
			}, true
		case newRow.Completed && !oldRow.Completed:
			return Notification{
				Kind:      NotifyPartnerCompleted,
				Title:     "ALLY COMPLETED",
				Message:   newRow.Task,
				MissionID: newRow.ID,
				At:        at,
			}, true
		}
		return Notification{}, false
	}

	if selfID != "" && newRow.UserID == selfID {
		note := deref(newRow.CheerNote)
		if note != "" && note != deref(oldRow.CheerNote) {
			return Notification{
				Kind:      NotifyCheerReceived,
				Title:     "CHEER RECEIVED",
				Message:   note,
				MissionID: newRow.ID,
				At:        at,
			}, true
		}
	}
	return Notification{}, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Router turns realtime events into a refetch plus optional notifications.
type Router struct {
	store  *Store
	notify func(Notification)
}

// NewRouter builds a router. notify may be nil.
func NewRouter(store *Store, notify func(Notification)) *Router {
	return &Router{store: store, notify: notify}
}

// Handle processes one event. The classification uses the identities held
// before the refetch so an unpairing event still resolves against the old link.
func (r *Router) Handle(ctx context.Context, ev model.ChangeEvent) Result {
	n, ok := Classify(r.store.UserID(), r.store.PartnerID(), ev)

	res := r.store.Refresh(ctx)
	if !res.OK() {
		slog.Warn("refetch after realtime event failed", "table", ev.Table, "type", ev.Type, "error", res.Err)
	}

	if ok && r.notify != nil {
		r.notify(n)
	}
	return res
}
