package engine

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/tradepatch/internal/compiler"
	"github.com/roach88/tradepatch/internal/field"
	"github.com/roach88/tradepatch/internal/trade"
)

// Engine applies the current snapshot's rules to offers.
//
// Both triggers may be called from any goroutine; each pass reads the
// snapshot once and never blocks.
type Engine struct {
	snap     atomic.Pointer[Snapshot]
	clock    Sequencer
	ids      IDGenerator
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver reports trace events to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithClock stamps trace events from c instead of a fresh Clock.
func WithClock(c Sequencer) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithIDGenerator names passes with g instead of UUIDv7 ids.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// New creates an engine serving snap. A nil snap serves Empty().
func New(snap *Snapshot, opts ...Option) *Engine {
	if snap == nil {
		snap = Empty()
	}
	e := &Engine{
		clock:    NewClock(),
		ids:      UUIDv7Generator{},
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.snap.Store(snap)
	return e
}

// Snapshot returns the snapshot new passes will use.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Reload installs snap for subsequent passes and returns the previous one.
// Passes already running finish against the snapshot they started with.
func (e *Engine) Reload(snap *Snapshot) *Snapshot {
	old := e.snap.Swap(snap)
	slog.Info("rules reloaded", "source", snap.Source, "rules", len(snap.Rules))
	return old
}

// ReloadFile loads path against the current registry and installs the result.
// If the file cannot be loaded at all, the current snapshot stays in place and
// the error is returned.
func (e *Engine) ReloadFile(path string) (*Report, error) {
	snap, report, err := Load(e.Snapshot().Registry, path)
	if err != nil {
		slog.Error("reload failed, keeping previous rules", "source", path, "error", err)
		return nil, err
	}
	e.Reload(snap)
	return report, nil
}

// OfferProposed runs the rules over a newly generated offer. It returns the
// replacement offer, or false when the offer is vetoed.
func (e *Engine) OfferProposed(agent *trade.Agent, offer trade.Offer) (trade.Offer, bool) {
	p := e.newPass(TriggerProposed, agent)
	t := trade.New(agent, offer, trade.ProposedIndex)
	if !p.run(t) {
		return trade.Offer{}, false
	}
	return t.Offer, true
}

// AgentExamined runs the rules over every offer of an agent and returns the
// rebuilt list. Offers marked removed are excised; the rest keep their order.
func (e *Engine) AgentExamined(agent *trade.Agent, offers []trade.Offer) []trade.Offer {
	p := e.newPass(TriggerExamined, agent)
	out := make([]trade.Offer, 0, len(offers))
	for i, offer := range offers {
		t := trade.New(agent, offer, i)
		if p.run(t) {
			out = append(out, t.Offer)
		}
	}
	return out
}

// pass is one trigger invocation bound to a single snapshot.
type pass struct {
	e       *Engine
	snap    *Snapshot
	id      string
	trigger Trigger
	agent   string
}

func (e *Engine) newPass(trigger Trigger, agent *trade.Agent) *pass {
	p := &pass{e: e, snap: e.snap.Load(), id: e.ids.Generate(), trigger: trigger}
	if agent != nil {
		p.agent = agent.ID
	}
	return p
}

// run applies every rule to t in order and reports whether t survives.
func (p *pass) run(t *trade.Trade) bool {
	for _, rule := range p.snap.Rules {
		// The predicate is evaluated even when the actions will be skipped.
		if !rule.Matches(t) {
			continue
		}
		if rule.IgnoreRemoved && t.Removed() {
			p.emit(t, rule.ID, EventSkippedRemoved, "")
			continue
		}
		p.emit(t, rule.ID, EventMatched, "")
		p.apply(t, rule)
	}

	if t.Removed() {
		p.emit(t, "", EventRemoved, "")
		return false
	}
	return true
}

func (p *pass) apply(t *trade.Trade, rule *compiler.Rule) {
	for _, action := range rule.Actions {
		err := action.Apply(t)
		if err == nil {
			continue
		}
		if errors.Is(err, field.ErrReadOnly) {
			slog.Debug("action ignored", "rule", rule.ID, "action", action.Label, "error", err)
		} else {
			slog.Warn("action failed", "rule", rule.ID, "action", action.Label, "offer", t.Index, "error", err)
		}
		p.emit(t, rule.ID, EventActionFailed, err.Error())
	}
}

func (p *pass) emit(t *trade.Trade, rule string, kind EventKind, detail string) {
	p.e.observer.Observe(Event{
		Pass:    p.id,
		Seq:     p.e.clock.Next(),
		Trigger: p.trigger,
		Agent:   p.agent,
		Offer:   t.Index,
		Rule:    rule,
		Kind:    kind,
		Detail:  detail,
	})
}
