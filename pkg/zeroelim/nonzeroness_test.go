package zeroelim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/tensor"
)

// boolInt casts a condition into an int32 0/1 value, mirroring how masks
// enter arithmetic.
func boolInt(cond ir.Expr) ir.Expr {
	return ir.NewCast(ir.Int32Type(), cond)
}

func TestLiftNonzeronessCondition(t *testing.T) {
	i := intVar("i")
	j := intVar("j")
	a := tensor.Placeholder("a", []ir.Expr{ir.Int32(10)}, ir.Int32Type())
	//
	evenI := ir.EQ(ir.Mod(i, ir.Int32(2)), ir.Int32(0))
	oddI := ir.EQ(ir.Mod(i, ir.Int32(2)), ir.Int32(1))
	//
	e1 := ir.NewSelect(oddI, ir.Int32(0), tensor.Access(a, i))
	e2 := ir.NewSelect(evenI, tensor.Access(a, ir.Mod(ir.Add(i, ir.Int32(1)), ir.Int32(10))), ir.Int32(0))
	e3 := ir.NewSelect(oddI, tensor.Access(a, i), ir.Int32(0))
	//
	tests := []struct {
		name   string
		expr   ir.Expr
		ranges map[*ir.Var]ir.Range
	}{
		{"plain access", tensor.Access(a, i), vrange(i, 0, 10)},
		{"access plus mask", ir.Add(tensor.Access(a, i), boolInt(evenI)), vrange(i, 0, 10)},
		{"masked access plus mask",
			ir.Add(ir.Mul(tensor.Access(a, i), boolInt(evenI)), boolInt(evenI)),
			vrange(i, 0, 10)},
		{"guarded select", ir.NewSelect(evenI, tensor.Access(a, i), ir.Int32(0)), vrange(i, 0, 10)},
		{"select plus mask",
			ir.Add(ir.NewSelect(evenI, tensor.Access(a, i), ir.Int32(0)), boolInt(evenI)),
			vrange(i, 0, 10)},
		{"sum of guarded", ir.Add(ir.Add(e1, e2), ir.Add(e3, ir.Mul(e1, e2))), vrange(i, 0, 10)},
		{"product of guarded", ir.Mul(e1, e3), vrange(i, 0, 10)},
		{"disjoint product", ir.Mul(e1, e2), vrange(i, 0, 10)},
		{"two-variable masks",
			ir.Add(
				ir.Mul(tensor.Access(a, i), boolInt(ir.EQ(i, j))),
				ir.Mul(tensor.Access(a, j), boolInt(ir.EQ(i, ir.Mul(ir.Int32(2), j))))),
			vrange(i, 0, 10, j, 0, 10)},
		{"min of masked",
			ir.Min(
				ir.Mul(tensor.Access(a, i), boolInt(ir.EQ(i, j))),
				ir.Mul(tensor.Access(a, j), boolInt(ir.EQ(i, ir.Mul(ir.Int32(2), j))))),
			vrange(i, 0, 10, j, 0, 10)},
		{"max of masked",
			ir.Max(
				ir.Mul(tensor.Access(a, i), boolInt(ir.EQ(i, j))),
				ir.Mul(tensor.Access(a, j), boolInt(ir.EQ(i, j)))),
			vrange(i, 0, 10, j, 0, 10)},
		{"difference of masked",
			ir.Sub(
				ir.Mul(tensor.Access(a, i), boolInt(ir.LT(i, j))),
				ir.Mul(tensor.Access(a, j), boolInt(ir.GT(i, j)))),
			vrange(i, 0, 10, j, 0, 10)},
		{"division keeps denominator",
			ir.Div(ir.Mul(i, boolInt(ir.LT(i, j))), ir.Add(ir.Int32(1), ir.Mul(j, boolInt(ir.GT(i, j))))),
			vrange(i, 0, 10, j, 0, 10)},
		{"if_then_else preserved",
			ir.IfThenElse(ir.LT(i, j), ir.NewSelect(ir.EQ(i, j), tensor.Access(a, i), ir.Int32(0)),
				ir.NewSelect(ir.LT(j, ir.Int32(5)), tensor.Access(a, j), ir.Int32(0))),
			vrange(i, 0, 10, j, 0, 10)},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lifted := LiftNonzeronessCondition(tt.expr)
			//
			_, isSelect := lifted.(*ir.Select)
			assert.True(t, isSelect, "lifted expression should be a select")
			//
			checkEquiv(t, tt.expr, lifted, tt.ranges)
		})
	}
}

func TestNonzeronessConditionSelect(t *testing.T) {
	i := intVar("i")
	a := tensor.Placeholder("a", []ir.Expr{ir.Int32(10)}, ir.Int32Type())
	//
	nz := NonzeronessCondition(ir.NewSelect(ir.EQ(i, ir.Int32(3)), tensor.Access(a, i), ir.Int32(0)))
	//
	require.True(t, ir.DeepEqual(nz.Cond, ir.EQ(i, ir.Int32(3))) ||
		ir.DeepEqual(nz.Cond, simplify(ir.EQ(i, ir.Int32(3)), nil)),
		"unexpected condition %s", nz.Cond.String())
	//
	assert.True(t, ir.DeepEqual(nz.Value, tensor.Access(a, i)))
}

func TestNonzeronessConditionConstants(t *testing.T) {
	assert.True(t, ir.IsFalse(NonzeronessCondition(ir.Int32(0)).Cond))
	assert.True(t, ir.IsTrue(NonzeronessCondition(ir.Int32(7)).Cond))
	assert.True(t, ir.IsFalse(NonzeronessCondition(&ir.FloatImm{T: ir.Float32Type(), Value: 0}).Cond))
}

func TestNonzeronessConditionBoolean(t *testing.T) {
	i := intVar("i")
	cond := ir.LT(i, ir.Int32(5))
	//
	nz := NonzeronessCondition(cond)
	assert.True(t, ir.DeepEqual(nz.Cond, cond))
	assert.True(t, ir.IsTrue(nz.Value))
}
