// Package transform compiles raw configuration text into pure value-to-value
// functions, selected by the value Kind of the target field.
//
// Grammar per kind:
//
//	boolean  true | false (case-insensitive)           → constant
//	string   any text, trimmed                         → constant
//	integer  +N | -N | *N | /N | =N | min N | max N    → arithmetic on the old value
//	         N                                         → constant
//	item     amount <integer grammar>                  → same item, new amount
//
// An integer that must be negative as a constant is written "=-N", since "-N"
// is a delta. The package also provides the integer comparison grammar used by
// field conditions.
package transform
