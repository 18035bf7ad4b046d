package zeroelim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loom/pkg/ir"
)

func TestEliminateDivMod(t *testing.T) {
	i := intVar("i")
	vranges := vrange(i, 0, 16)
	//
	e := ir.Add(ir.Div(i, ir.Int32(4)), ir.Mod(i, ir.Int32(4)))
	res := EliminateDivMod(e, vranges)
	// One div/mod pair, one defining condition, no sign condition since
	// the dividend is non-negative.
	require.Len(t, res.NewVariables, 2)
	require.Len(t, res.Conditions, 1)
	//
	div, mod := res.NewVariables[0], res.NewVariables[1]
	//
	assert.True(t, ir.IsConstInt(res.Ranges[div].Extent, 4), "div range should be [0,4)")
	assert.True(t, ir.IsConstInt(res.Ranges[mod].Extent, 4), "mod range should be [0,4)")
	// The rewritten expression no longer divides
	assert.False(t, containsDivMod(res.Expr))
	// Substituting the definitions back must restore the original meaning
	// and validate the conditions.
	checkEquiv(t, ir.Substitute(res.Expr, res.Substitution), e, vranges)
	checkBruteforce(t, ir.Substitute(All(res.Conditions), res.Substitution), vranges, nil)
}

func TestEliminateDivModSharesVariables(t *testing.T) {
	i := intVar("i")
	vranges := vrange(i, 0, 12)
	// The same subterm in two places maps to the same variable pair
	e := ir.Add(ir.Div(i, ir.Int32(3)), ir.Div(i, ir.Int32(3)))
	res := EliminateDivMod(e, vranges)
	//
	assert.Len(t, res.NewVariables, 2)
	checkEquiv(t, ir.Substitute(res.Expr, res.Substitution), e, vranges)
}

func TestEliminateDivModSignCondition(t *testing.T) {
	i := intVar("i")
	vranges := vrange(i, -8, 16)
	// A dividend which may change sign needs the extra sign-consistency
	// condition under truncated semantics.
	e := ir.Mod(i, ir.Int32(4))
	res := EliminateDivMod(e, vranges)
	//
	require.Len(t, res.NewVariables, 2)
	assert.Len(t, res.Conditions, 2)
	//
	checkEquiv(t, ir.Substitute(res.Expr, res.Substitution), e, vranges)
	checkBruteforce(t, ir.Substitute(All(res.Conditions), res.Substitution), vranges, nil)
}

func TestEliminateDivModNegativeDivisor(t *testing.T) {
	i := intVar("i")
	vranges := vrange(i, 0, 16)
	//
	for _, e := range []ir.Expr{
		ir.Div(i, ir.Int32(-4)),
		ir.Mod(i, ir.Int32(-4)),
		ir.FloorDiv(i, ir.Int32(-4)),
		ir.FloorMod(i, ir.Int32(-4)),
	} {
		res := EliminateDivMod(e, vranges)
		checkEquiv(t, ir.Substitute(res.Expr, res.Substitution), e, vranges)
	}
}

func TestEliminateDivModUnbounded(t *testing.T) {
	j := intVar("j")
	// No range for j: bounds cannot be inferred, so the subterm stays
	res := EliminateDivMod(ir.Div(j, ir.Int32(4)), nil)
	//
	assert.Empty(t, res.NewVariables)
	assert.Empty(t, res.Conditions)
	assert.True(t, containsDivMod(res.Expr))
}

func TestEliminateDivModFromDomainConditions(t *testing.T) {
	i := intVar("i")
	vranges := vrange(i, 0, 16)
	//
	domain := NewDomain([]*ir.Var{i},
		[]ir.Expr{ir.EQ(ir.Mod(i, ir.Int32(4)), ir.Int32(0))}, vranges)
	//
	transf := EliminateDivModFromDomainConditions(domain)
	//
	assert.Len(t, transf.NewDomain.Variables, 3)
	checkDomainTransformation(t, transf)
}

func containsDivMod(e ir.Expr) bool {
	if b, ok := e.(*ir.BinOp); ok {
		switch b.Op {
		case ir.OpDiv, ir.OpMod, ir.OpFloorDiv, ir.OpFloorMod:
			return true
		}
	}
	//
	for _, child := range ir.Children(e) {
		if containsDivMod(child) {
			return true
		}
	}
	//
	return false
}
