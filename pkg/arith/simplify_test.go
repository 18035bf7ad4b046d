package arith

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loom/pkg/ir"
)

func intVar(name string) *ir.Var {
	return ir.NewVar(name, ir.Int32Type())
}

func ranges(v *ir.Var, min int64, extent int64) map[*ir.Var]ir.Range {
	return map[*ir.Var]ir.Range{v: ir.ConstRange(min, extent)}
}

func TestSimplifyLinear(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	//
	tests := []struct {
		name     string
		expr     ir.Expr
		expected ir.Expr
	}{
		{"cancel", ir.Sub(x, x), ir.Int32(0)},
		{"collect", ir.Add(ir.Mul(ir.Int32(2), x), ir.Mul(ir.Int32(3), x)),
			ir.Mul(ir.Int32(5), x)},
		{"fold consts", ir.Add(ir.Int32(2), ir.Add(x, ir.Int32(3))),
			ir.Add(x, ir.Int32(5))},
		{"zero times", ir.Mul(ir.Int32(0), ir.Add(x, y)), ir.Int32(0)},
		{"unit times", ir.Mul(ir.Int32(1), x), x},
		{"nested", ir.Sub(ir.Add(x, y), ir.Add(y, x)), ir.Int32(0)},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Simplify(tt.expr, nil)
			assert.True(t, ir.DeepEqual(res, tt.expected),
				"expected %s, found %s", tt.expected.String(), res.String())
		})
	}
}

func TestSimplifyCommutes(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	// Canonicalisation makes both argument orders structurally equal
	assert.True(t, ir.DeepEqual(
		Simplify(ir.Add(x, y), nil),
		Simplify(ir.Add(y, x), nil)))
}

func TestSimplifyDivMod(t *testing.T) {
	x := intVar("x")
	//
	tests := []struct {
		name     string
		expr     ir.Expr
		expected ir.Expr
	}{
		{"unit div", ir.Div(x, ir.Int32(1)), x},
		{"unit floordiv", ir.FloorDiv(x, ir.Int32(1)), x},
		{"unit mod", ir.Mod(x, ir.Int32(1)), ir.Int32(0)},
		{"const div", ir.Div(ir.Int32(-7), ir.Int32(2)), ir.Int32(-3)},
		{"const floordiv", ir.FloorDiv(ir.Int32(-7), ir.Int32(2)), ir.Int32(-4)},
		{"const floormod", ir.FloorMod(ir.Int32(-7), ir.Int32(2)), ir.Int32(1)},
		{"exact div", ir.Div(ir.Mul(ir.Int32(4), x), ir.Int32(2)), ir.Mul(ir.Int32(2), x)},
		{"exact mod", ir.FloorMod(ir.Mul(ir.Int32(4), x), ir.Int32(2)), ir.Int32(0)},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Simplify(tt.expr, nil)
			assert.True(t, ir.DeepEqual(res, tt.expected),
				"expected %s, found %s", tt.expected.String(), res.String())
		})
	}
}

func TestSimplifyDivModWithRanges(t *testing.T) {
	x := intVar("x")
	vr := ranges(x, 0, 4)
	// Within [0, 4), dividing by 4 vanishes and the remainder is the value
	assert.True(t, ir.IsConstZero(Simplify(ir.FloorDiv(x, ir.Int32(4)), vr)))
	assert.True(t, ir.DeepEqual(Simplify(ir.FloorMod(x, ir.Int32(4)), vr), x))
}

func TestSimplifyComparisons(t *testing.T) {
	x := intVar("x")
	vr := ranges(x, 0, 10)
	//
	assert.True(t, CanProve(ir.LT(x, ir.Int32(10)), vr))
	assert.True(t, CanProve(ir.GE(x, ir.Int32(0)), vr))
	assert.True(t, CanProve(ir.LE(ir.Sub(x, x), ir.Int32(0)), nil))
	//
	assert.True(t, ir.IsFalse(Simplify(ir.GT(x, ir.Int32(20)), vr)))
	assert.True(t, ir.IsFalse(Simplify(ir.EQ(x, ir.Int32(-1)), vr)))
	// Unprovable comparisons survive
	res := Simplify(ir.LT(x, ir.Int32(5)), vr)
	_, stillCmp := res.(*ir.Cmp)
	assert.True(t, stillCmp)
}

func TestSimplifyBooleans(t *testing.T) {
	x := intVar("x")
	cond := ir.LT(x, ir.Int32(5))
	//
	assert.True(t, ir.DeepEqual(Simplify(ir.Conj(ir.True(), cond), nil), cond))
	assert.True(t, ir.IsFalse(Simplify(ir.Conj(ir.False(), cond), nil)))
	assert.True(t, ir.IsTrue(Simplify(ir.Disj(ir.True(), cond), nil)))
	assert.True(t, ir.DeepEqual(Simplify(ir.Disj(ir.False(), cond), nil), cond))
	assert.True(t, ir.DeepEqual(Simplify(ir.Negation(ir.Negation(cond)), nil), cond))
	// Negated comparisons flip their operator
	assert.True(t, ir.DeepEqual(
		Simplify(ir.Negation(cond), nil),
		ir.GE(x, ir.Int32(5))))
}

func TestSimplifySelect(t *testing.T) {
	x := intVar("x")
	//
	assert.True(t, ir.DeepEqual(
		Simplify(ir.NewSelect(ir.True(), x, ir.Int32(0)), nil), x))
	assert.True(t, ir.IsConstZero(
		Simplify(ir.NewSelect(ir.False(), x, ir.Int32(0)), nil)))
	assert.True(t, ir.DeepEqual(
		Simplify(ir.NewSelect(ir.LT(x, ir.Int32(5)), x, x), nil), x))
}

func TestSimplifySinglePointReduction(t *testing.T) {
	i := intVar("i")
	k := intVar("k")
	// An axis of extent one folds into a single combiner application
	red := ir.NewReduce(ir.SumReducer(ir.Int32Type()), []ir.Expr{ir.Add(k, i)},
		[]*ir.IterVar{ir.NewIterVar(k, ir.ConstRange(3, 1))}, ir.True(), 0)
	//
	res := Simplify(red, ranges(i, 0, 10))
	//
	assert.True(t, ir.DeepEqual(res, ir.Add(i, ir.Int32(3))),
		"expected (i + 3), found %s", res.String())
}

func TestSimplifyEmptyReduction(t *testing.T) {
	k := intVar("k")
	//
	red := ir.NewReduce(ir.SumReducer(ir.Int32Type()), []ir.Expr{k},
		[]*ir.IterVar{ir.NewIterVar(k, ir.ConstRange(0, 5))}, ir.False(), 0)
	//
	assert.True(t, ir.IsConstZero(Simplify(red, nil)))
}

func TestSimplifyIsStable(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	//
	exprs := []ir.Expr{
		ir.Sub(ir.Add(ir.Mul(ir.Int32(3), x), y), ir.Mul(ir.Int32(2), y)),
		ir.FloorDiv(ir.Add(x, ir.Int32(7)), ir.Int32(2)),
		ir.NewSelect(ir.LT(x, y), ir.Add(x, y), ir.Sub(x, y)),
	}
	//
	for _, e := range exprs {
		once := Simplify(e, nil)
		twice := Simplify(once, nil)
		//
		require.True(t, ir.DeepEqual(once, twice),
			"simplification is not stable on %s: %s vs %s",
			e.String(), once.String(), twice.String())
	}
}
