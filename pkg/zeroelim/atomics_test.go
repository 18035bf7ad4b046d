package zeroelim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loom/pkg/ir"
)

func TestFactorOutAtomicFormulas(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	//
	gtX := ir.GT(x, ir.Int32(0))
	ltY := ir.LT(y, ir.Int32(5))
	gtY := ir.GT(y, ir.Int32(10))
	//
	res := FactorOutAtomicFormulas(ir.Conj(gtX, ir.Disj(ltY, gtY)))
	//
	require.Len(t, res.AtomicFormulas, 1)
	assert.True(t, ir.DeepEqual(res.AtomicFormulas[0], gtX))
	//
	_, isOr := res.Rest.(*ir.Or)
	assert.True(t, isOr, "residual should be the disjunction")
	// The factorisation must be boolean-equivalent to the input
	checkEquiv(t, res.ToExpr(), ir.Conj(gtX, ir.Disj(ltY, gtY)), vrange(x, -2, 6, y, 0, 14))
}

func TestFactorOutSharedAtoms(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	//
	shared := ir.GE(x, ir.Int32(1))
	e := ir.Disj(
		ir.Conj(shared, ir.LT(y, ir.Int32(3))),
		ir.Conj(shared, ir.GT(y, ir.Int32(7))))
	//
	res := FactorOutAtomicFormulas(e)
	//
	require.Len(t, res.AtomicFormulas, 1)
	assert.True(t, ir.DeepEqual(res.AtomicFormulas[0], shared))
	//
	checkEquiv(t, res.ToExpr(), e, vrange(x, -2, 6, y, 0, 10))
}

func TestFactorOutPushesNegation(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	//
	e := ir.Negation(ir.Disj(ir.LT(x, ir.Int32(2)), ir.GE(y, ir.Int32(4))))
	res := FactorOutAtomicFormulas(e)
	// De Morgan turns the negated disjunction into two atoms
	assert.Len(t, res.AtomicFormulas, 2)
	checkEquiv(t, res.ToExpr(), e, vrange(x, -2, 8, y, 0, 8))
}

func TestFactorOutBooleanSelect(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	//
	e := ir.NewSelect(ir.LT(x, ir.Int32(3)), ir.LT(y, ir.Int32(5)), ir.GE(y, ir.Int32(5)))
	res := FactorOutAtomicFormulas(e)
	//
	checkEquiv(t, res.ToExpr(), e, vrange(x, 0, 6, y, 0, 10))
}

func TestFactorOutRejectsNonBoolean(t *testing.T) {
	x := intVar("x")
	//
	assert.Panics(t, func() {
		FactorOutAtomicFormulas(ir.Add(x, ir.Int32(1)))
	})
}

func TestNormalizeComparisons(t *testing.T) {
	x := intVar("x")
	y := intVar("y")
	//
	tests := []struct {
		name string
		expr ir.Expr
	}{
		{"gt", ir.GT(x, ir.Int32(5))},
		{"ge", ir.GE(x, y)},
		{"lt", ir.LT(x, y)},
		{"le", ir.LE(ir.Add(x, y), ir.Int32(3))},
		{"eq", ir.EQ(ir.Mul(ir.Int32(2), x), y)},
		{"ne", ir.NE(x, ir.Int32(0))},
		{"nested", ir.Conj(ir.GT(x, ir.Int32(0)), ir.LT(y, ir.Int32(7)))},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm := NormalizeComparisons(tt.expr)
			//
			assertNormalized(t, norm)
			checkEquiv(t, norm, tt.expr, vrange(x, -3, 10, y, -3, 10))
		})
	}
}

// assertNormalized checks that every comparison has the shape `a OP 0` with
// OP one of ==, != and <=.
func assertNormalized(t *testing.T, e ir.Expr) {
	t.Helper()
	//
	if cmp, ok := e.(*ir.Cmp); ok {
		assert.Contains(t, []ir.CmpKind{ir.OpEQ, ir.OpNE, ir.OpLE}, cmp.Op)
		assert.True(t, ir.IsConstZero(cmp.B), "rhs should be zero, found %s", cmp.B.String())
		//
		return
	}
	//
	for _, child := range ir.Children(e) {
		assertNormalized(t, child)
	}
}
