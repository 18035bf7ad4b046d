package zeroelim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/tensor"
)

func TestRemoveRedundantInequalitiesSelect(t *testing.T) {
	i := intVar("i")
	a := tensor.Placeholder("a", []ir.Expr{ir.Int32(10)}, ir.Int32Type())
	//
	guard := ir.LT(i, ir.Int32(10))
	inner := ir.NewSelect(guard, tensor.Access(a, i), ir.Int32(1))
	outer := ir.NewSelect(guard, inner, ir.Int32(2))
	//
	res := RemoveRedundantInequalities(outer, nil)
	// The inner select collapses because its condition is known true in
	// the outer true branch.
	sel, ok := res.(*ir.Select)
	if assert.True(t, ok, "result should still be a select") {
		assert.True(t, ir.DeepEqual(sel.TrueValue, tensor.Access(a, i)),
			"inner select should collapse, found %s", sel.TrueValue.String())
	}
	//
	checkEquiv(t, res, outer, vrange(i, 0, 20))
}

func TestRemoveRedundantInequalitiesKnown(t *testing.T) {
	i := intVar("i")
	//
	cond := ir.LE(i, ir.Int32(5))
	res := RemoveRedundantInequalities(cond, []ir.Expr{cond})
	//
	assert.True(t, ir.IsTrue(res))
}

func TestRemoveRedundantInequalitiesFalseBranchKeepsContext(t *testing.T) {
	i := intVar("i")
	//
	guard := ir.LT(i, ir.Int32(10))
	// The false branch must NOT learn the negated guard
	e := ir.NewSelect(guard, ir.Int32(0), ir.NewSelect(ir.GE(i, ir.Int32(10)), ir.Int32(1), ir.Int32(2)))
	//
	res := RemoveRedundantInequalities(e, nil)
	//
	sel := res.(*ir.Select)
	_, stillSelect := sel.FalseValue.(*ir.Select)
	assert.True(t, stillSelect, "the false branch select must survive")
	//
	checkEquiv(t, res, e, vrange(i, 0, 20))
}

func TestRemoveRedundantInequalitiesReduce(t *testing.T) {
	i := intVar("i")
	k := intVar("k")
	a := tensor.Placeholder("a", []ir.Expr{ir.Int32(10)}, ir.Int32Type())
	//
	axis := []*ir.IterVar{ir.NewIterVar(k, ir.ConstRange(0, 10))}
	// The condition is implied by the axis range and should vanish
	red := ir.NewReduce(ir.SumReducer(ir.Int32Type()),
		[]ir.Expr{tensor.Access(a, k)}, axis, ir.GE(k, ir.Int32(0)), 0)
	//
	res := RemoveRedundantInequalities(red, nil)
	//
	newRed := res.(*ir.Reduce)
	assert.True(t, ir.IsTrue(newRed.Condition),
		"axis-implied condition should collapse, found %s", newRed.Condition.String())
	//
	checkEquiv(t, res, red, vrange(i, 0, 1))
}
