// Package snapshot folds the document snapshots a game publishes into the
// view one player holds. Reducers are pure: they return a new State and
// report whether the snapshot changed anything. Snapshots that arrive out
// of order or twice are ignored by comparing versions.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/dominoes-go/internal/model"
)

// State is one player's view of a game
type State struct {
	Game  *model.Game  `json:"game,omitempty"`
	Round *model.Round `json:"round,omitempty"`
	Hand  *model.Hand  `json:"hand,omitempty"`

	// PendingHand is a hand for a round not seen yet. It becomes Hand when
	// that round arrives.
	PendingHand *model.Hand `json:"-"`

	Cancelled bool `json:"cancelled"`
}

// ReduceGame applies a game snapshot. A snapshot of another game replaces
// the held one.
func ReduceGame(held, incoming *model.Game) (*model.Game, bool) {
	if incoming == nil {
		return held, false
	}
	if held != nil && held.ID == incoming.ID && incoming.Version <= held.Version {
		return held, false
	}
	return incoming, true
}

// ReduceRound applies a round snapshot. Rounds of the same game replace
// each other only forwards.
func ReduceRound(held, incoming *model.Round) (*model.Round, bool) {
	if incoming == nil {
		return held, false
	}
	if held != nil && held.GameID == incoming.GameID {
		if held.ID == incoming.ID && incoming.Version <= held.Version {
			return held, false
		}
		if held.ID != incoming.ID && incoming.Number < held.Number {
			return held, false
		}
	}
	return incoming, true
}

// ReduceHand applies a hand snapshot
func ReduceHand(held, incoming *model.Hand) (*model.Hand, bool) {
	if incoming == nil {
		return held, false
	}
	if held != nil && held.RoundID == incoming.RoundID && incoming.Version <= held.Version {
		return held, false
	}
	return incoming, true
}

// Apply folds one event into the state
func (s State) Apply(event model.Event) (State, bool) {
	if s.Cancelled {
		return s, false
	}

	var changed bool
	switch payload := event.Payload.(type) {
	case *model.Game:
		s.Game, changed = ReduceGame(s.Game, payload)
	case *model.Round:
		s.Round, changed = ReduceRound(s.Round, payload)
		if changed && s.Hand != nil && s.Hand.RoundID != s.Round.ID {
			s.Hand = nil
		}
		if s.PendingHand != nil && s.PendingHand.RoundID == s.Round.ID {
			s.Hand, _ = ReduceHand(s.Hand, s.PendingHand)
			s.PendingHand = nil
		} else if changed {
			s.PendingHand = nil
		}
	case *model.Hand:
		// A hand can beat its round here. Hold it until the round lands.
		if s.Round != nil && payload.RoundID != s.Round.ID {
			s.PendingHand, _ = ReduceHand(s.PendingHand, payload)
			return s, false
		}
		s.Hand, changed = ReduceHand(s.Hand, payload)
	default:
		if event.Type == model.EventGameCancelled {
			return State{Cancelled: true}, true
		}
	}
	return s, changed
}

// Decode parses a published event. The payload is decoded into the
// document type its event type names.
func Decode(data []byte) (model.Event, error) {
	var envelope struct {
		model.Event
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return model.Event{}, fmt.Errorf("snapshot: decode event: %w", err)
	}

	event := envelope.Event
	var err error
	switch event.Type {
	case model.EventGameUpdated:
		event.Payload, err = decodePayload[model.Game](envelope.Payload)
	case model.EventRoundUpdated:
		event.Payload, err = decodePayload[model.Round](envelope.Payload)
	case model.EventHandUpdated:
		event.Payload, err = decodePayload[model.Hand](envelope.Payload)
	case model.EventPlayerLeft:
		event.Payload, err = decodePayload[model.PlayerLeftPayload](envelope.Payload)
	case model.EventGameCancelled:
		event.Payload = nil
	default:
		return model.Event{}, fmt.Errorf("snapshot: unknown event type %q", event.Type)
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("snapshot: decode %s payload: %w", event.Type, err)
	}
	return event, nil
}

func decodePayload[T any](raw json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
