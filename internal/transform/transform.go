package transform

import (
	"strings"

	"github.com/roach88/tradepatch/internal/field"
	"github.com/roach88/tradepatch/internal/trade"
)

// Transformer is a pure function from an old field value to a new one.
// A transformer given a value of the wrong type returns it unchanged.
type Transformer func(old any) any

// Compile compiles input into a transformer for a field of the given kind.
func Compile(kind field.Kind, input string) (Transformer, error) {
	trimmed := strings.TrimSpace(input)

	switch kind {
	case field.KindBool:
		var b bool
		switch {
		case strings.EqualFold(trimmed, "true"):
			b = true
		case strings.EqualFold(trimmed, "false"):
			b = false
		default:
			return nil, &Error{Kind: kind, Input: trimmed, Err: ErrInvalidBool}
		}
		return constant(b), nil

	case field.KindString:
		return constant(trimmed), nil

	case field.KindInt:
		fn, err := CompileInt(trimmed)
		if err != nil {
			return nil, err
		}
		return intTransformer(fn), nil

	case field.KindItem:
		operand, ok := strings.CutPrefix(trimmed, "amount")
		if !ok {
			return nil, &Error{Kind: kind, Input: trimmed, Err: ErrUnsupported}
		}
		fn, err := CompileInt(operand)
		if err != nil {
			return nil, err
		}
		return amountTransformer(fn), nil

	default:
		return nil, &Error{Kind: kind, Input: trimmed, Err: ErrUnknownKind}
	}
}

// Reset returns the transformer used when a field is configured without a
// value: it replaces the old value with the kind's zero value.
func Reset(kind field.Kind) (Transformer, error) {
	zero, ok := field.Zero(kind)
	if !ok {
		return nil, &Error{Kind: kind, Err: ErrUnknownKind}
	}
	return constant(zero), nil
}

func constant(v any) Transformer {
	return func(any) any { return v }
}

func intTransformer(fn IntFunc) Transformer {
	return func(old any) any {
		n, ok := old.(int)
		if !ok {
			return old
		}
		return fn(n)
	}
}

func amountTransformer(fn IntFunc) Transformer {
	return func(old any) any {
		item, ok := old.(trade.Item)
		if !ok {
			return old
		}
		return item.WithAmount(fn(item.Amount))
	}
}
