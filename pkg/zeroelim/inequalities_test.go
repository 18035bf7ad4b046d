package zeroelim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loom/pkg/ir"
)

func TestSolveSystemOfInequalitiesSingleVar(t *testing.T) {
	x := intVar("x")
	//
	ineqs := []ir.Expr{
		ir.GE(x, ir.Int32(0)),
		ir.LT(x, ir.Int32(10)),
		ir.GE(ir.Mul(ir.Int32(2), x), ir.Int32(5)),
	}
	//
	res := SolveSystemOfInequalities(ineqs, []*ir.Var{x}, nil)
	//
	bounds, ok := res.Bounds[x]
	require.True(t, ok)
	// All bounds are scaled to the common coefficient 2
	assert.True(t, ir.IsConstInt(bounds.Coef, 2))
	assert.Empty(t, bounds.Equal)
	//
	require.Len(t, bounds.Lower, 1)
	assert.True(t, ir.IsConstInt(bounds.Lower[0], 5), "lower bound should be 5, found %s",
		bounds.Lower[0].String())
	//
	require.Len(t, bounds.Upper, 1)
	assert.True(t, ir.IsConstInt(bounds.Upper[0], 18), "upper bound should be 18, found %s",
		bounds.Upper[0].String())
	// The flattened conditions are equivalent to the inputs
	checkEquiv(t, All(res.AsConditions()), All(ineqs), vrange(x, -5, 25))
}

func TestSolveSystemOfInequalitiesTwoVars(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	vranges := vrange(x, 0, 12, y, 0, 12)
	//
	ineqs := []ir.Expr{
		ir.LE(x, y),
		ir.LE(y, ir.Int32(10)),
		ir.GE(x, ir.Int32(2)),
	}
	//
	res := SolveSystemOfInequalities(ineqs, []*ir.Var{x, y}, vranges)
	// Within the ranges, the results carry the same information
	checkBruteforce(t, All(res.AsConditions()), vranges, All(ineqs))
	checkBruteforce(t, All(ineqs), vranges, All(res.AsConditions()))
}

func TestSolveSystemOfInequalitiesEquality(t *testing.T) {
	x := intVar("x")
	vranges := vrange(x, 0, 10)
	// Matching lower and upper bounds collapse into an equality
	ineqs := []ir.Expr{
		ir.GE(x, ir.Int32(4)),
		ir.LE(x, ir.Int32(4)),
	}
	//
	res := SolveSystemOfInequalities(ineqs, []*ir.Var{x}, vranges)
	//
	bounds := res.Bounds[x]
	require.Len(t, bounds.Equal, 1)
	assert.True(t, ir.IsConstInt(bounds.Equal[0], 4))
	assert.Empty(t, bounds.Lower)
	assert.Empty(t, bounds.Upper)
}

func TestSolveSystemOfInequalitiesContradiction(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	vranges := vrange(x, 0, 10, y, 0, 10)
	// x < y and y < x cannot both hold
	ineqs := []ir.Expr{
		ir.LT(x, y),
		ir.LT(y, x),
	}
	//
	res := SolveSystemOfInequalities(ineqs, []*ir.Var{x, y}, vranges)
	//
	require.Len(t, res.OtherConditions, 1)
	assert.True(t, ir.IsFalse(res.OtherConditions[0]))
}

func TestSolveSystemOfInequalitiesNonlinear(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	vranges := vrange(x, 1, 5, y, 1, 5)
	// The nonlinear condition survives in OtherConditions
	ineqs := []ir.Expr{
		ir.LE(ir.Mul(x, y), ir.Int32(6)),
		ir.LE(x, y),
	}
	//
	res := SolveSystemOfInequalities(ineqs, []*ir.Var{x, y}, vranges)
	//
	checkBruteforce(t, All(res.AsConditions()), vranges, All(ineqs))
	checkBruteforce(t, All(ineqs), vranges, All(res.AsConditions()))
}

func TestSolveSystemOfInequalitiesOuterVar(t *testing.T) {
	k := intVar("k")
	n := intVar("n")
	vranges := vrange(k, 0, 10, n, 0, 10)
	// Bounds may refer to a variable eliminated later (or never)
	ineqs := []ir.Expr{
		ir.LE(k, n),
	}
	//
	res := SolveSystemOfInequalities(ineqs, []*ir.Var{k}, vranges)
	//
	bounds := res.Bounds[k]
	assert.True(t, ir.IsConstInt(bounds.Coef, 1))
	assert.NotEmpty(t, bounds.Upper)
	//
	checkBruteforce(t, All(res.AsConditions()), vranges, All(ineqs))
	checkBruteforce(t, All(ineqs), vranges, All(res.AsConditions()))
}
