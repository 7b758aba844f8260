package engine

import "sync"

// Trigger names the host callback that started a pass.
type Trigger string

const (
	TriggerProposed Trigger = "offer-proposed"
	TriggerExamined Trigger = "agent-examined"
)

// EventKind classifies a trace event.
type EventKind string

const (
	// EventMatched records a rule whose predicate held.
	EventMatched EventKind = "matched"
	// EventSkippedRemoved records a matching ignore-removed rule whose actions
	// were not applied because the offer was already marked removed.
	EventSkippedRemoved EventKind = "skipped-removed"
	// EventActionFailed records an action that left its field untouched.
	EventActionFailed EventKind = "action-failed"
	// EventRemoved records an offer dropped from the result.
	EventRemoved EventKind = "removed"
)

// Event is one step of a pass.
type Event struct {
	Pass    string    `json:"pass"`
	Seq     int64     `json:"seq"`
	Trigger Trigger   `json:"trigger"`
	Agent   string    `json:"agent"`
	Offer   int       `json:"offer"`
	Rule    string    `json:"rule,omitempty"`
	Kind    EventKind `json:"kind"`
	Detail  string    `json:"detail,omitempty"`
}

// Observer receives trace events synchronously during a pass. Implementations
// must not block.
type Observer interface {
	Observe(Event)
}

// Collector buffers events in memory.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) Observe(ev Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

// Events returns a copy of the buffered events in arrival order.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Drain returns the buffered events and empties the buffer.
func (c *Collector) Drain() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.events
	c.events = nil
	return out
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
