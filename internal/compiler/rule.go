package compiler

import (
	"log/slog"

	"github.com/roach88/tradepatch/internal/config"
	"github.com/roach88/tradepatch/internal/field"
	"github.com/roach88/tradepatch/internal/trade"
)

// Rule is a compiled rule: a predicate plus the actions to apply when it holds.
type Rule struct {
	ID            string
	Predicate     Predicate
	Actions       []Action
	IgnoreRemoved bool
}

// Matches reports whether the rule's predicate holds for t.
func (r *Rule) Matches(t *trade.Trade) bool {
	return r.Predicate.Matches(t)
}

// CompileRule compiles one rule entry. The predicate is the conjunction of the
// when block and the expr expression; a rule with neither always matches.
func CompileRule(reg *field.Registry, entry config.RuleEntry) (*Rule, []Diagnostic, error) {
	var preds AllOf

	if len(entry.When) > 0 {
		p, err := CompileConditions(reg, entry.ID, entry.When)
		if err != nil {
			return nil, nil, err
		}
		preds = append(preds, p)
	}

	if entry.Expr != "" {
		p, err := CompileExpr(reg, entry.Expr)
		if err != nil {
			return nil, nil, &CompileError{Rule: entry.ID, Field: config.KeyExpr, Message: err.Error(), Pos: entry.Pos, Err: err}
		}
		preds = append(preds, p)
	}

	actions, diags, err := CompileActions(reg, entry.ID, entry.Do)
	if err != nil {
		return nil, diags, err
	}

	rule := &Rule{
		ID:            entry.ID,
		Actions:       actions,
		IgnoreRemoved: entry.IgnoreRemoved,
	}
	switch len(preds) {
	case 0:
		rule.Predicate = Always{}
	case 1:
		rule.Predicate = preds[0]
	default:
		rule.Predicate = preds
	}
	return rule, diags, nil
}

// CompileRules compiles entries in order. A rule that fails to compile is
// dropped and its error collected; the remaining rules keep their order.
func CompileRules(reg *field.Registry, entries []config.RuleEntry) ([]*Rule, []Diagnostic, []error) {
	var (
		rules []*Rule
		diags []Diagnostic
		errs  []error
	)
	for _, entry := range entries {
		rule, d, err := CompileRule(reg, entry)
		diags = append(diags, d...)
		if err != nil {
			slog.Warn("dropping rule", "rule", entry.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		slog.Debug("compiled rule", "rule", rule.ID, "actions", len(rule.Actions), "predicate", rule.Predicate.String())
		rules = append(rules, rule)
	}
	return rules, diags, errs
}
