package service

import (
	"context"
	"log/slog"

	"github.com/relayvision/visionlog/internal/metrics"
	"github.com/relayvision/visionlog/internal/model"
)

// EventPublisher fans committed row changes out to realtime subscribers.
// Publish sends ev to the row owner and allyEv, when non-nil, to the owner's ally.
type EventPublisher interface {
	Publish(ctx context.Context, ownerID string, ev model.ChangeEvent, allyEv *model.ChangeEvent) error
	PublishTo(ctx context.Context, recipients []string, ev model.ChangeEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, model.ChangeEvent, *model.ChangeEvent) error {
	return nil
}
func (nopPublisher) PublishTo(context.Context, []string, model.ChangeEvent) error { return nil }

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// publish emits a change for the row owner and their ally. The ally only
// hears about rows visibleToAlly allows, so the event is narrowed to what
// they could see before and after. The mutation is already committed, so
// failures are logged and never returned.
func publish(ctx context.Context, p EventPublisher, goals goalPrivacy, ownerID, table string, typ model.EventType, newRow, oldRow any) {
	ev, err := model.NewChangeEvent(table, typ, newRow, oldRow)
	if err != nil {
		slog.Error("failed to encode change event", "table", table, "type", typ, "error", err)
		return
	}

	allyEv, err := allyEvent(ev, goals, newRow, oldRow)
	if err != nil {
		slog.Error("failed to encode ally change event", "table", table, "type", typ, "error", err)
		return
	}

	err = p.Publish(ctx, ownerID, ev, allyEv)
	if err != nil {
		slog.Warn("failed to publish change event", "table", table, "type", typ, "user_id", ownerID, "error", err)
	}
}

// allyEvent narrows ev to the ally's view. A row that leaves the ally's view
// reads as a delete and one that enters it as an insert. It returns nil when
// the ally could see neither side.
func allyEvent(ev model.ChangeEvent, goals goalPrivacy, newRow, oldRow any) (*model.ChangeEvent, error) {
	allyNew, allyOld := allyRow(newRow, goals), allyRow(oldRow, goals)
	if allyNew == nil && allyOld == nil {
		return nil, nil
	}
	if (newRow == nil) == (allyNew == nil) && (oldRow == nil) == (allyOld == nil) {
		return &ev, nil
	}

	typ := ev.Type
	switch {
	case allyNew == nil:
		typ = model.EventDelete
	case allyOld == nil:
		typ = model.EventInsert
	}
	narrowed, err := model.NewChangeEvent(ev.Table, typ, allyNew, allyOld)
	if err != nil {
		return nil, err
	}
	narrowed.CommitTimestamp = ev.CommitTimestamp
	return &narrowed, nil
}

// publishTo is publish for an explicit audience.
func publishTo(ctx context.Context, p EventPublisher, recipients []string, table string, typ model.EventType, newRow, oldRow any) {
	ev, err := model.NewChangeEvent(table, typ, newRow, oldRow)
	if err != nil {
		slog.Error("failed to encode change event", "table", table, "type", typ, "error", err)
		return
	}

	err = p.PublishTo(ctx, recipients, ev)
	if err != nil {
		slog.Warn("failed to publish change event", "table", table, "type", typ, "recipients", recipients, "error", err)
	}
}

func record(table, op string, err error) error {
	metrics.RecordMutation(table, op, err)
	return err
}
