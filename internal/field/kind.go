package field

import "github.com/roach88/tradepatch/internal/trade"

// Kind is the value type of an accessor.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
	KindItem
	// KindComplex marks an accessor that exposes a namespace instead of a value.
	KindComplex
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindItem:
		return "item"
	case KindComplex:
		return "complex"
	default:
		return "invalid"
	}
}

// Scalar is the closed set of Go types a leaf accessor may carry.
type Scalar interface {
	bool | int | string | trade.Item
}

// KindOf returns the Kind for the scalar type V.
func KindOf[V Scalar]() Kind {
	var zero V
	switch any(zero).(type) {
	case bool:
		return KindBool
	case int:
		return KindInt
	case string:
		return KindString
	case trade.Item:
		return KindItem
	}
	return KindInvalid
}

// Zero returns the reset value for a leaf kind: false, 0, "" or the empty item.
func Zero(k Kind) (any, bool) {
	switch k {
	case KindBool:
		return false, true
	case KindInt:
		return 0, true
	case KindString:
		return "", true
	case KindItem:
		return trade.Item{}, true
	}
	return nil, false
}
