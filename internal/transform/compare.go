package transform

import (
	"strconv"
	"strings"

	"github.com/roach88/tradepatch/internal/field"
)

// IntPredicate tests an integer.
type IntPredicate func(int) bool

// comparators in match order: two-character operators before their prefixes.
var comparators = []struct {
	op   string
	test func(a, b int) bool
}{
	{"==", func(a, b int) bool { return a == b }},
	{"!=", func(a, b int) bool { return a != b }},
	{">=", func(a, b int) bool { return a >= b }},
	{"<=", func(a, b int) bool { return a <= b }},
	{">", func(a, b int) bool { return a > b }},
	{"<", func(a, b int) bool { return a < b }},
	{"=", func(a, b int) bool { return a == b }},
}

// CompileIntPredicate compiles a comparison such as "5", ">=5", "!=0" or
// "between 1 and 5" (inclusive).
func CompileIntPredicate(s string) (IntPredicate, error) {
	trimmed := strings.TrimSpace(s)
	invalid := &Error{Kind: field.KindInt, Input: trimmed, Err: ErrInvalidCompare}

	if rest, ok := cutPrefixFold(trimmed, "between "); ok {
		lo, hi, found := cutFold(rest, " and ")
		if !found {
			return nil, invalid
		}
		a, errA := strconv.Atoi(strings.TrimSpace(lo))
		b, errB := strconv.Atoi(strings.TrimSpace(hi))
		if errA != nil || errB != nil {
			return nil, invalid
		}
		return func(v int) bool { return v >= a && v <= b }, nil
	}

	for _, c := range comparators {
		if operand, ok := strings.CutPrefix(trimmed, c.op); ok {
			n, err := strconv.Atoi(strings.TrimSpace(operand))
			if err != nil {
				return nil, invalid
			}
			test := c.test
			return func(v int) bool { return test(v, n) }, nil
		}
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, invalid
	}
	return func(v int) bool { return v == n }, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

func cutFold(s, sep string) (before, after string, found bool) {
	i := strings.Index(strings.ToLower(s), strings.ToLower(sep))
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
