package arith

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/math"
)

func TestEvalInterval(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	//
	ivs := map[*ir.Var]math.Interval{
		x: math.NewInterval64(0, 9),
		y: math.NewInterval64(-2, 2),
	}
	//
	tests := []struct {
		name     string
		expr     ir.Expr
		min, max int64
	}{
		{"const", ir.Int32(5), 5, 5},
		{"var", x, 0, 9},
		{"add", ir.Add(x, y), -2, 11},
		{"sub", ir.Sub(x, y), -2, 11},
		{"mul", ir.Mul(x, y), -18, 18},
		{"min", ir.Min(x, y), -2, 2},
		{"max", ir.Max(x, y), 0, 9},
		{"floordiv", ir.FloorDiv(x, ir.Int32(4)), 0, 2},
		{"floormod", ir.FloorMod(x, ir.Int32(4)), 0, 3},
		{"truncdiv", ir.Div(y, ir.Int32(2)), -1, 1},
		{"truncmod", ir.Mod(y, ir.Int32(2)), -1, 1},
		{"select", ir.NewSelect(ir.LT(x, ir.Int32(5)), x, y), -2, 9},
		{"compare", ir.LT(x, y), 0, 1},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := EvalInterval(tt.expr, ivs)
			require.True(t, iv.IsFinite(), "interval should be finite")
			//
			min := iv.Min()
			max := iv.Max()
			//
			assert.Equal(t, tt.min, min.Int64())
			assert.Equal(t, tt.max, max.Int64())
		})
	}
}

func TestEvalIntervalUnknown(t *testing.T) {
	x := intVar("x")
	// Unknown variables have unbounded intervals
	iv := EvalInterval(ir.Add(x, ir.Int32(1)), nil)
	assert.False(t, iv.IsFinite())
}

func TestRangeOf(t *testing.T) {
	x := intVar("x")
	vr := ranges(x, 0, 16)
	//
	r, ok := RangeOf(ir.FloorDiv(x, ir.Int32(4)), vr)
	require.True(t, ok)
	//
	assert.True(t, ir.IsConstZero(r.Min))
	assert.True(t, ir.IsConstInt(r.Extent, 4))
	//
	_, ok = RangeOf(intVar("unbounded"), vr)
	assert.False(t, ok)
}

func TestIntervalsOfDependent(t *testing.T) {
	n := intVar("n")
	x := intVar("x")
	// x ranges over [0, n) with n itself bounded
	vr := map[*ir.Var]ir.Range{
		n: ir.ConstRange(1, 8),
		x: ir.NewRange(ir.Int32(0), n),
	}
	//
	ivs := IntervalsOf(vr)
	//
	iv := ivs[x]
	require.True(t, iv.IsFinite())
	//
	max := iv.Max()
	assert.Equal(t, int64(7), max.Int64())
}
