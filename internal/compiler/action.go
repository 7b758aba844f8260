package compiler

import (
	"fmt"

	"github.com/roach88/tradepatch/internal/config"
	"github.com/roach88/tradepatch/internal/field"
	"github.com/roach88/tradepatch/internal/trade"
	"github.com/roach88/tradepatch/internal/transform"
)

// Action sets one field of a trade to a value computed from its old value.
type Action struct {
	// Label describes the action, e.g. "max-uses to *2".
	Label string
	// Path is the full dotted path of the target field.
	Path      string
	Field     field.Accessor[trade.Trade]
	Transform transform.Transformer
}

// Apply reads the field, transforms the value and writes it back. A failed
// read leaves the trade untouched. Writes to read-only fields return an error
// wrapping field.ErrReadOnly.
func (a Action) Apply(t *trade.Trade) error {
	old, err := a.Field.Get(t)
	if err != nil {
		return fmt.Errorf("apply %s: %w", a.Label, err)
	}
	if err := a.Field.Set(t, a.Transform(old)); err != nil {
		return fmt.Errorf("apply %s: %w", a.Label, err)
	}
	return nil
}

func (a Action) String() string {
	return "Set " + a.Label
}

// CompileActions compiles an action block against the registry root.
//
// Diagnostics describe skipped entries; they never fail compilation. A non-nil
// error means a value could not be compiled and the block as a whole is invalid.
func CompileActions(reg *field.Registry, rule string, block config.Block) ([]Action, []Diagnostic, error) {
	diags := &diagnostics{rule: rule}
	actions := []Action{}
	if err := compileActions(reg.Root(), rule, block, &actions, diags); err != nil {
		return nil, diags.list, err
	}
	return actions, diags.list, nil
}

func compileActions(base field.Accessor[trade.Trade], rule string, block config.Block, out *[]Action, diags *diagnostics) error {
	for _, entry := range block {
		name := qualify(base, entry.Key)

		acc, err := field.ResolveFrom(base, entry.Key, true)
		if err != nil {
			diags.warn(name, entry.Pos, "%v; skipping", err)
			continue
		}

		if entry.IsNested() {
			if _, ok := acc.Complex(); !ok {
				diags.warn(name, entry.Pos, "field %s does not have inner fields; skipping", name)
				continue
			}
			if err := compileActions(acc, rule, entry.Nested, out, diags); err != nil {
				return err
			}
			continue
		}

		if acc.ReadOnly() {
			diags.warn(name, entry.Pos, "field %s is read-only; assigning new values to it will have no effect", name)
		}

		var fn transform.Transformer
		if entry.Null {
			fn, err = transform.Reset(acc.Kind())
		} else {
			fn, err = transform.Compile(acc.Kind(), entry.Text)
		}
		if err != nil {
			return &CompileError{Rule: rule, Field: name, Message: err.Error(), Pos: entry.Pos, Err: err}
		}

		*out = append(*out, Action{
			Label:     fmt.Sprintf("%s to %s", name, entry.Value()),
			Path:      name,
			Field:     acc,
			Transform: fn,
		})
	}
	return nil
}

func qualify(base field.Accessor[trade.Trade], key string) string {
	if base.Name() == "" {
		return key
	}
	return base.Name() + "." + key
}
