package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/events"
)

// Encode renders an event as a deliverable message
func Encode(event model.Event) (Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Message{}, err
	}
	return Message{Event: string(event.Type), Data: data, Recipient: event.Recipient}, nil
}

// Broadcaster publishes events to the realtime clients of their game
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "realtime-broadcaster")),
	}
}

// Publish encodes the event before returning and queues it on the game's
// hub. Games nobody watches have no hub.
func (b *Broadcaster) Publish(_ context.Context, event model.Event) {
	hub := b.hubManager.GetHub(event.GameID)
	if hub == nil {
		return
	}

	message, err := Encode(event)
	if err != nil {
		b.logger.Error("realtime failed to encode event",
			slog.String("game_id", string(event.GameID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.Broadcast(message)
}

var _ events.Publisher = (*Broadcaster)(nil)
