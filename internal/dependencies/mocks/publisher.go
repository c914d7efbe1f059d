package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/events"
)

// MockPublisher records published events for assertions
type MockPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

// Ensure MockPublisher implements Publisher
var _ events.Publisher = (*MockPublisher)(nil)

// NewMockPublisher creates an empty MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the event
func (p *MockPublisher) Publish(_ context.Context, event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of everything published so far
func (p *MockPublisher) Events() []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Event(nil), p.events...)
}

// OfType returns the published events of one type
func (p *MockPublisher) OfType(t model.EventType) []model.Event {
	var out []model.Event
	for _, e := range p.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets every recorded event
func (p *MockPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
