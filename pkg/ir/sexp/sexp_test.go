package sexp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loom/pkg/ir"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"x",
		"(add x 1)",
		"(and (le x 0) (or (eq y 1) (ne y 2)))",
		"(select (lt x y) x y)",
	}
	//
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			s, err := Parse(input)
			require.NoError(t, err)
			assert.Equal(t, input, s.String())
		})
	}
}

func TestParseComments(t *testing.T) {
	s, err := Parse("(add x 1) ; trailing comment")
	require.NoError(t, err)
	assert.Equal(t, "(add x 1)", s.String())
}

func TestParseAll(t *testing.T) {
	forms, err := ParseAll("(vars (i 0 10))\n(conditions (eq i 3))")
	require.NoError(t, err)
	assert.Len(t, forms, 2)
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"(add x", ")", "(a))", ""} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q should fail", input)
	}
}

func TestToExpr(t *testing.T) {
	env := NewEnvironment()
	x := env.Declare("x")
	//
	s, err := Parse("(add (mul 2 x) 3)")
	require.NoError(t, err)
	//
	e, err := ToExpr(s, env)
	require.NoError(t, err)
	//
	expected := ir.Add(ir.Mul(ir.Int32(2), x), ir.Int32(3))
	assert.True(t, ir.DeepEqual(e, expected), "found %s", e.String())
}

func TestToExprBooleans(t *testing.T) {
	env := NewEnvironment()
	env.Declare("x")
	//
	s, err := Parse("(and true (not (lt x 5)))")
	require.NoError(t, err)
	//
	e, err := ToExpr(s, env)
	require.NoError(t, err)
	assert.True(t, e.Type().IsBool())
}

func TestToExprErrors(t *testing.T) {
	env := NewEnvironment()
	//
	for _, input := range []string{
		"undeclared",
		"(frobnicate 1 2)",
		"(add 1)",
		"(not)",
		"()",
	} {
		s, err := Parse(input)
		require.NoError(t, err)
		//
		_, err = ToExpr(s, env)
		assert.Error(t, err, "input %q should fail to translate", input)
	}
}

func TestDeclareIsIdempotent(t *testing.T) {
	env := NewEnvironment()
	//
	a := env.Declare("x")
	b := env.Declare("x")
	//
	assert.Same(t, a, b)
}
