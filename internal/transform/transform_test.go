package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tradepatch/internal/field"
	"github.com/roach88/tradepatch/internal/trade"
)

func TestCompile_Bool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{" True ", true},
		{"false", false},
		{"False", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			fn, err := Compile(field.KindBool, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fn(!tt.want))
		})
	}
}

func TestCompile_BoolRejectsOtherText(t *testing.T) {
	_, err := Compile(field.KindBool, "yes")
	assert.ErrorIs(t, err, ErrInvalidBool)
}

func TestCompile_StringTrims(t *testing.T) {
	fn, err := Compile(field.KindString, "  Cleric \n")
	require.NoError(t, err)
	assert.Equal(t, "Cleric", fn("farmer"))
}

func TestCompile_Int(t *testing.T) {
	tests := []struct {
		input string
		old   int
		want  int
	}{
		{"+3", 1, 4},
		{"+ 3", 1, 4},
		{"-2", 10, 8},
		{"*2", 6, 12},
		{"/4", 9, 2},
		{"=7", 1, 7},
		{"=-3", 1, -3},
		{"min 5", 9, 5},
		{"min 5", 3, 3},
		{"MAX 5", 3, 5},
		{"max 5", 8, 8},
		{"5", 100, 5},
		{" 42 ", 0, 42},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			fn, err := Compile(field.KindInt, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fn(tt.old))
		})
	}
}

func TestCompile_IntDeltaAppliedTwice(t *testing.T) {
	fn, err := Compile(field.KindInt, "+3")
	require.NoError(t, err)

	assert.Equal(t, 7, fn(fn(1)))
}

func TestCompile_IntLiteralIsIdempotent(t *testing.T) {
	fn, err := Compile(field.KindInt, "5")
	require.NoError(t, err)

	for _, start := range []int{-10, 0, 5, 99} {
		assert.Equal(t, 5, fn(fn(start)))
	}
}

func TestCompile_IntInvalid(t *testing.T) {
	for _, input := range []string{"abc", "+", "/0", "--3", "-+3", "min", "min x", "3.5", ""} {
		t.Run(input, func(t *testing.T) {
			_, err := Compile(field.KindInt, input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInteger)
			assert.Contains(t, err.Error(), "invalid integer expression")
		})
	}
}

func TestCompile_IntIgnoresWrongType(t *testing.T) {
	fn, err := Compile(field.KindInt, "+1")
	require.NoError(t, err)
	assert.Equal(t, "x", fn("x"))
}

func TestCompile_ItemAmount(t *testing.T) {
	fn, err := Compile(field.KindItem, "amount *2")
	require.NoError(t, err)

	old := trade.NewItem("emerald", 3)
	got := fn(old).(trade.Item)

	assert.Equal(t, 6, got.Amount)
	assert.Equal(t, "emerald", got.Material)
	assert.Equal(t, 3, old.Amount, "the old item is not modified")

	literal, err := Compile(field.KindItem, "amount 10")
	require.NoError(t, err)
	assert.Equal(t, 10, literal(old).(trade.Item).Amount)
}

func TestCompile_ItemRejectsOtherForms(t *testing.T) {
	_, err := Compile(field.KindItem, "diamond")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "unsupported field type")

	_, err = Compile(field.KindItem, "amount lots")
	assert.ErrorIs(t, err, ErrInvalidInteger)
}

func TestCompile_UnknownKind(t *testing.T) {
	_, err := Compile(field.KindComplex, "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "don't know how to handle field of type complex", err.Error())

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, field.KindComplex, te.Kind)
}

func TestReset(t *testing.T) {
	tests := []struct {
		kind field.Kind
		old  any
		want any
	}{
		{field.KindBool, true, false},
		{field.KindInt, 12, 0},
		{field.KindString, "farmer", ""},
		{field.KindItem, trade.NewItem("emerald", 3), trade.Item{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			fn, err := Reset(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fn(tt.old))
		})
	}

	_, err := Reset(field.KindComplex)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCompileIntPredicate(t *testing.T) {
	tests := []struct {
		input string
		value int
		want  bool
	}{
		{"5", 5, true},
		{"5", 4, false},
		{"=5", 5, true},
		{"==5", 5, true},
		{"!=5", 5, false},
		{">5", 6, true},
		{">5", 5, false},
		{">=5", 5, true},
		{"<5", 4, true},
		{"<= 5", 6, false},
		{"between 1 and 5", 1, true},
		{"Between 1 AND 5", 5, true},
		{"between 1 and 5", 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pred, err := CompileIntPredicate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, pred(tt.value))
		})
	}
}

func TestCompileIntPredicate_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", ">x", "between 1", "between a and 2"} {
		_, err := CompileIntPredicate(input)
		assert.ErrorIs(t, err, ErrInvalidCompare, input)
	}
}
