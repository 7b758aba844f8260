// Package engine applies compiled trade rules to offers.
//
// Two host callbacks drive it: OfferProposed for a single freshly generated
// offer (replace or veto) and AgentExamined for an agent's full offer list
// (rebuild). Both run synchronously on the caller's goroutine. A pass wraps
// each offer in a trade façade, walks the rules in declaration order, applies
// the actions of every matching rule, and finally drops façades marked removed.
//
// Rules and the field registry they were compiled against live together in an
// immutable Snapshot. Reload swaps the whole snapshot atomically, so a pass
// that is already running keeps the snapshot it started with.
//
// Apply-time failures never abort a pass: the failed action leaves its field
// untouched, is logged and reported to the Observer, and the pass continues.
package engine
