package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/tradepatch/internal/config"
	"github.com/roach88/tradepatch/internal/field"
	"github.com/roach88/tradepatch/internal/trade"
	"github.com/roach88/tradepatch/internal/transform"
)

// Predicate decides whether a rule applies to a trade.
type Predicate interface {
	Matches(t *trade.Trade) bool
	String() string
}

// Always matches every trade.
type Always struct{}

func (Always) Matches(*trade.Trade) bool { return true }
func (Always) String() string             { return "always" }

// AllOf matches when every member matches. Evaluation stops at the first miss.
type AllOf []Predicate

func (a AllOf) Matches(t *trade.Trade) bool {
	for _, p := range a {
		if !p.Matches(t) {
			return false
		}
	}
	return true
}

func (a AllOf) String() string {
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = p.String()
	}
	return strings.Join(parts, " and ")
}

// Condition tests a single field against configured text.
type Condition struct {
	Path  string
	Text  string
	field field.Accessor[trade.Trade]
	test  func(any) bool
}

// Matches reports whether the field currently satisfies the condition. A field
// that cannot be read does not match.
func (c Condition) Matches(t *trade.Trade) bool {
	v, err := c.field.Get(t)
	if err != nil {
		slog.Debug("condition field unreadable", "path", c.Path, "error", err)
		return false
	}
	return c.test(v)
}

func (c Condition) String() string {
	return fmt.Sprintf("%s is %s", c.Path, c.Text)
}

// FieldPredicate matches when all of its conditions match.
type FieldPredicate struct {
	Conditions []Condition
}

func (p *FieldPredicate) Matches(t *trade.Trade) bool {
	for _, c := range p.Conditions {
		if !c.Matches(t) {
			return false
		}
	}
	return true
}

func (p *FieldPredicate) String() string {
	parts := make([]string, len(p.Conditions))
	for i, c := range p.Conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " and ")
}

// CompileConditions compiles a when block. Nested blocks address the children
// of complex fields the same way action blocks do. Unlike actions, any path
// that does not resolve is an error.
func CompileConditions(reg *field.Registry, rule string, block config.Block) (*FieldPredicate, error) {
	p := &FieldPredicate{}
	if err := compileConditions(reg.Root(), rule, block, p); err != nil {
		return nil, err
	}
	return p, nil
}

func compileConditions(base field.Accessor[trade.Trade], rule string, block config.Block, p *FieldPredicate) error {
	for _, entry := range block {
		name := qualify(base, entry.Key)
		fail := func(err error) error {
			return &CompileError{Rule: rule, Field: config.KeyWhen + "." + name, Message: err.Error(), Pos: entry.Pos, Err: err}
		}

		acc, err := field.ResolveFrom(base, entry.Key, true)
		if err != nil {
			return fail(err)
		}

		if entry.IsNested() {
			if _, ok := acc.Complex(); !ok {
				return fail(fmt.Errorf("field %s does not have inner fields", name))
			}
			if err := compileConditions(acc, rule, entry.Nested, p); err != nil {
				return err
			}
			continue
		}
		if entry.Null {
			return fail(errors.New("condition requires a value"))
		}

		test, err := compileTest(acc.Kind(), entry.Text)
		if err != nil {
			return fail(err)
		}
		p.Conditions = append(p.Conditions, Condition{Path: name, Text: entry.Text, field: acc, test: test})
	}
	return nil
}

// compileTest builds the value test for one condition:
//
//	boolean  true | false
//	integer  comparison, e.g. ">= 3", "between 1 and 5", "4"
//	string   case-insensitive equality
//	item     material name, or "amount <comparison>"
func compileTest(kind field.Kind, text string) (func(any) bool, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case field.KindBool:
		var want bool
		switch {
		case strings.EqualFold(text, "true"):
			want = true
		case strings.EqualFold(text, "false"):
		default:
			return nil, &transform.Error{Kind: kind, Input: text, Err: transform.ErrInvalidBool}
		}
		return func(v any) bool {
			b, ok := v.(bool)
			return ok && b == want
		}, nil

	case field.KindInt:
		pred, err := transform.CompileIntPredicate(text)
		if err != nil {
			return nil, err
		}
		return func(v any) bool {
			n, ok := v.(int)
			return ok && pred(n)
		}, nil

	case field.KindString:
		return func(v any) bool {
			s, ok := v.(string)
			return ok && strings.EqualFold(s, text)
		}, nil

	case field.KindItem:
		if rest, ok := strings.CutPrefix(text, "amount"); ok {
			pred, err := transform.CompileIntPredicate(rest)
			if err != nil {
				return nil, err
			}
			return func(v any) bool {
				item, ok := v.(trade.Item)
				return ok && pred(item.Amount)
			}, nil
		}
		return func(v any) bool {
			item, ok := v.(trade.Item)
			return ok && strings.EqualFold(item.Material, text)
		}, nil

	default:
		return nil, &transform.Error{Kind: kind, Input: text, Err: transform.ErrUnknownKind}
	}
}
