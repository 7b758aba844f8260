package trade

// ProposedIndex is the index of an offer that is being generated rather than
// examined as part of an existing list.
const ProposedIndex = -1

// Trade is the mutable façade around one live offer and its owning agent.
//
// A Trade is constructed fresh per offer per trigger invocation and discarded
// when that invocation ends. Writes to the offer or the agent take effect
// immediately; removal is the only deferred mutation and is decided by the
// caller after all rules ran.
type Trade struct {
	Agent *Agent
	Offer Offer
	Index int

	removed bool
}

// New wraps a copy of offer. The agent is shared, so agent writes are visible
// to the host.
func New(agent *Agent, offer Offer, index int) *Trade {
	if agent == nil {
		agent = &Agent{}
	}
	return &Trade{Agent: agent, Offer: offer.Clone(), Index: index}
}

// Removed reports whether an action marked the offer for removal.
func (t *Trade) Removed() bool {
	return t.removed
}

// SetRemoved marks or unmarks the offer for removal.
func (t *Trade) SetRemoved(removed bool) {
	t.removed = removed
}
