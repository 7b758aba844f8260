package transform

import (
	"strconv"
	"strings"

	"github.com/roach88/tradepatch/internal/field"
)

// IntFunc is a pure function over integers.
type IntFunc func(int) int

// ParseIntFunc parses an arithmetic expression applied to an old value.
// It returns false if s is not an expression; literals are not expressions.
func ParseIntFunc(s string) (IntFunc, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	if word, rest, ok := strings.Cut(s, " "); ok {
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return nil, false
		}
		switch strings.ToLower(word) {
		case "min":
			return func(old int) int { return min(old, n) }, true
		case "max":
			return func(old int) int { return max(old, n) }, true
		}
	}

	op, operand := s[0], strings.TrimSpace(s[1:])
	n, err := strconv.Atoi(operand)
	if err != nil || operand == "" || operand[0] == '+' {
		return nil, false
	}
	switch op {
	case '+':
		return func(old int) int { return old + n }, true
	case '-':
		if operand[0] == '-' {
			return nil, false
		}
		return func(old int) int { return old - n }, true
	case '*':
		return func(old int) int { return old * n }, true
	case '/':
		if n == 0 {
			return nil, false
		}
		return func(old int) int { return old / n }, true
	case '=':
		return func(int) int { return n }, true
	}
	return nil, false
}

// CompileInt compiles an integer expression, falling back to an integer
// literal that replaces the old value.
func CompileInt(s string) (IntFunc, error) {
	trimmed := strings.TrimSpace(s)
	if fn, ok := ParseIntFunc(trimmed); ok {
		return fn, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, &Error{Kind: field.KindInt, Input: trimmed, Err: ErrInvalidInteger}
	}
	return func(int) int { return n }, nil
}
