package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/relayvision/visionlog/internal/metrics"
	"github.com/relayvision/visionlog/internal/model"
)

// Channel is the Redis pub/sub channel every instance shares.
const Channel = "visionlog:changes"

// PartnerResolver looks up the ally of a user. It returns "" when unpaired.
type PartnerResolver interface {
	PartnerOf(userID string) (string, error)
}

// envelope is what travels between instances.
type envelope struct {
	Recipients []string          `json:"recipients"`
	Event      model.ChangeEvent `json:"event"`
}

// Broker routes change events to their audience: the row owner and the owner's ally.
// Without Redis it delivers straight to the local hub.
type Broker struct {
	hub      *Hub
	partners PartnerResolver
	rdb      *redis.Client
}

// NewBroker builds a broker. rdb may be nil for single-instance deployments.
func NewBroker(hub *Hub, partners PartnerResolver, rdb *redis.Client) *Broker {
	return &Broker{hub: hub, partners: partners, rdb: rdb}
}

// Publish sends ev to the owner and allyEv to the owner's current ally.
// A nil allyEv keeps the change owner-only.
func (b *Broker) Publish(ctx context.Context, ownerID string, ev model.ChangeEvent, allyEv *model.ChangeEvent) error {
	partnerID := ""
	if allyEv != nil {
		partnerID = b.partnerOf(ownerID)
	}
	if partnerID == "" {
		return b.PublishTo(ctx, []string{ownerID}, ev)
	}
	if sameEvent(ev, *allyEv) {
		return b.PublishTo(ctx, []string{ownerID, partnerID}, ev)
	}

	if err := b.PublishTo(ctx, []string{ownerID}, ev); err != nil {
		return err
	}
	return b.PublishTo(ctx, []string{partnerID}, *allyEv)
}

func (b *Broker) partnerOf(ownerID string) string {
	if b.partners == nil {
		return ""
	}
	partnerID, err := b.partners.PartnerOf(ownerID)
	if err != nil {
		slog.Warn("realtime audience lookup failed, owner only", "user_id", ownerID, "error", err)
		return ""
	}
	return partnerID
}

func sameEvent(a, b model.ChangeEvent) bool {
	return a.Table == b.Table && a.Type == b.Type && bytes.Equal(a.New, b.New) && bytes.Equal(a.Old, b.Old)
}

// PublishTo sends ev to an explicit audience, used when the ally link itself changes.
func (b *Broker) PublishTo(ctx context.Context, recipients []string, ev model.ChangeEvent) error {
	metrics.Get().RealtimeEventsPublished.WithLabelValues(ev.Table, string(ev.Type)).Inc()

	if b.rdb == nil {
		b.hub.Deliver(recipients, ev)
		return nil
	}

	data, err := json.Marshal(envelope{Recipients: recipients, Event: ev})
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel, data).Err()
}

// Run relays events published by any instance to local clients until ctx ends.
// It returns immediately when Redis is not configured.
func (b *Broker) Run(ctx context.Context) {
	if b.rdb == nil {
		return
	}

	backoff := time.Second
	for ctx.Err() == nil {
		err := b.subscribe(ctx)
		if ctx.Err() != nil {
			return
		}
		slog.Warn("realtime subscriber disconnected, retrying", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}
}

func (b *Broker) subscribe(ctx context.Context) error {
	pubsub := b.rdb.Subscribe(ctx, Channel)
	defer pubsub.Close()

	slog.Info("realtime subscriber started", "channel", Channel)

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			return err
		}

		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			slog.Warn("failed to decode realtime envelope", "error", err)
			continue
		}
		b.hub.Deliver(env.Recipients, env.Event)
	}
}
