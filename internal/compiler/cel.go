package compiler

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/roach88/tradepatch/internal/field"
	"github.com/roach88/tradepatch/internal/trade"
)

// FieldsVar is the CEL variable holding every listed field of the trade,
// keyed by dotted path.
const FieldsVar = "fields"

var celEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(FieldsVar, cel.MapType(cel.StringType, cel.DynType)),
	)
})

// CELPredicate evaluates a boolean CEL expression over the trade's fields.
//
// Items are exposed as maps with "material", "amount" and "max_stack_size".
// An expression that fails at evaluation time (for example by indexing a
// missing ingredient) does not match.
type CELPredicate struct {
	Source string
	reg    *field.Registry
	prg    cel.Program
}

// CompileExpr compiles a CEL expression. The expression must produce a bool.
func CompileExpr(reg *field.Registry, expr string) (*CELPredicate, error) {
	env, err := celEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", issues.Err())
	}
	switch out := ast.OutputType().String(); out {
	case "bool", "dyn":
	default:
		return nil, fmt.Errorf("CEL expression must be boolean, got %s", out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	return &CELPredicate{Source: expr, reg: reg, prg: prg}, nil
}

func (p *CELPredicate) Matches(t *trade.Trade) bool {
	out, _, err := p.prg.Eval(map[string]any{FieldsVar: Activation(p.reg, t)})
	if err != nil {
		slog.Debug("CEL eval error", "expr", p.Source, "error", err)
		return false
	}
	matched, ok := out.Value().(bool)
	if !ok {
		slog.Debug("CEL result not boolean", "expr", p.Source, "type", fmt.Sprintf("%T", out.Value()))
		return false
	}
	return matched
}

func (p *CELPredicate) String() string {
	return p.Source
}

// Activation returns the readable fields of t as CEL values keyed by path.
// Fields whose getter fails are omitted.
func Activation(reg *field.Registry, t *trade.Trade) map[string]any {
	listing := reg.List(nil, t)
	out := make(map[string]any, len(listing))
	for path, acc := range listing {
		v, err := acc.Get(t)
		if err != nil {
			continue
		}
		out[path] = celValue(v)
	}
	return out
}

func celValue(v any) any {
	switch v := v.(type) {
	case int:
		return int64(v)
	case trade.Item:
		return map[string]any{
			"material":       v.Material,
			"amount":         int64(v.Amount),
			"max_stack_size": int64(v.StackLimit()),
		}
	default:
		return v
	}
}
