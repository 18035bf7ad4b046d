// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package zeroelim

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/tensor"
)

// IsSumCombiner checks whether a combiner is plain summation: a single
// value with a zero identity combined by addition.
func IsSumCombiner(combiner *ir.CommReducer, vranges map[*ir.Var]ir.Range) bool {
	if len(combiner.Result) != 1 {
		return false
	}
	//
	if !ir.IsConstZero(simplify(combiner.Identity[0], vranges)) {
		return false
	}
	//
	result := simplify(combiner.Result[0], vranges)
	sum := simplify(ir.Add(combiner.Lhs[0], combiner.Rhs[0]), vranges)
	// Canonicalisation makes the two argument orders structurally equal
	return ir.DeepEqual(result, sum)
}

// CanFactorZeroFromCombiner checks whether zero can be factored out of a
// reduction with this combiner: the identity is zero and combining two
// zeros yields zero again.
func CanFactorZeroFromCombiner(combiner *ir.CommReducer, valueIndex int,
	vranges map[*ir.Var]ir.Range) bool {
	if !ir.IsConstZero(simplify(combiner.Identity[valueIndex], vranges)) {
		return false
	}
	//
	zero := ir.Zero(combiner.Result[valueIndex].Type())
	//
	in := ir.Substitute(combiner.Result[valueIndex], map[*ir.Var]ir.Expr{
		combiner.Lhs[valueIndex]: zero,
		combiner.Rhs[valueIndex]: zero,
	})
	//
	return ir.IsConstZero(simplify(in, vranges))
}

// SimplifyReductionDomain uses the condition of a reduction to tighten its
// axis.  Non-reductions pass through unchanged.
func SimplifyReductionDomain(e ir.Expr, outerVranges map[*ir.Var]ir.Range) ir.Expr {
	red, ok := e.(*ir.Reduce)
	if !ok {
		return e
	}
	//
	vranges := Merge(outerVranges, tensor.IterVarsToMap(red.Axis))
	//
	domain := NewDomain(
		tensor.IterVarsToVars(red.Axis),
		FactorOutAtomicFormulas(red.Condition).ToArray(),
		vranges)
	//
	res := SimplifyDomain(domain, true)
	//
	source := make([]ir.Expr, len(red.Source))
	for i, src := range red.Source {
		source[i] = ir.Substitute(src, res.OldToNew)
	}
	//
	newAxis := tensor.IterVarsFromMap(res.NewDomain.Variables, res.NewDomain.Ranges)
	// Simplification here mainly removes a possibly empty reduction
	return simplify(
		ir.NewReduce(red.Combiner, source, newAxis, All(res.NewDomain.Conditions), red.ValueIndex),
		outerVranges)
}

// ImplicationNotContainingVars splits a condition into an implied part free
// of the given variables and a residual: the condition implies the first,
// and the conjunction of both is equivalent to it.
func ImplicationNotContainingVars(cond ir.Expr, vars *bitset.BitSet) (ir.Expr, ir.Expr) {
	if !cond.Type().IsBool() {
		panic("the condition must be boolean")
	}
	//
	switch x := cond.(type) {
	case *ir.And:
		freeA, restA := ImplicationNotContainingVars(x.A, vars)
		freeB, restB := ImplicationNotContainingVars(x.B, vars)
		//
		return ir.Conj(freeA, freeB), ir.Conj(restA, restB)
	case *ir.Or:
		freeA, restA := ImplicationNotContainingVars(x.A, vars)
		freeB, restB := ImplicationNotContainingVars(x.B, vars)
		// (fa ∧ ra) ∨ (fb ∧ rb) implies fa ∨ fb; the residual keeps
		// enough structure for the conjunction to stay equivalent.
		free := ir.Disj(freeA, freeB)
		rest := ir.Conj(
			ir.Conj(ir.Disj(freeA, restB), ir.Disj(freeB, restA)),
			ir.Disj(restA, restB))
		//
		return free, rest
	default:
		if !ir.UsesAnyVar(cond, vars) {
			return cond, ir.True()
		}
		//
		return ir.True(), cond
	}
}

// LiftConditionsThroughReduction factors conditions out of a reduction:
// after a Fourier-Motzkin pass over all variables (reduction variables
// first, so outer bounds never depend on them), the (in)equalities which do
// not mention reduction variables move outside.  Returns the outer
// condition and the residual to keep on the reduction.
func LiftConditionsThroughReduction(cond ir.Expr, redAxis []*ir.IterVar,
	outerAxis []*ir.IterVar) (ir.Expr, ir.Expr) {
	factored := FactorOutAtomicFormulas(cond)
	atomics, rest := factored.AtomicFormulas, factored.Rest
	//
	allVars := Concat(tensor.IterVarsToVars(redAxis), tensor.IterVarsToVars(outerAxis))
	vranges := Merge(tensor.IterVarsToMap(redAxis), tensor.IterVarsToMap(outerAxis))
	//
	atomics = SolveSystemOfInequalities(atomics, allVars, vranges).AsConditions()
	//
	rewritten := ir.Conj(All(atomics), rest)
	//
	redVars := ir.VarMask(tensor.IterVarsToVars(redAxis)...)
	//
	return ImplicationNotContainingVars(rewritten, redVars)
}

// OptimizeAndLiftNonzeronessConditions is the headline transformation: for
// every body of a tensor it lifts nonzeroness conditions out of the
// expression (through the reduction where the combiner permits), tightens
// the reduction domain, and wraps the result as `select(cond, value, 0)`.
// Heavy subexpressions may be extracted into fresh tensors along the way.
func OptimizeAndLiftNonzeronessConditions(t *tensor.Tensor,
	vranges map[*ir.Var]ir.Range) *tensor.Tensor {
	return tensor.TransformBody(t, func(e ir.Expr, axis []*ir.IterVar) ir.Expr {
		return optimizeAndLift(e, axis, vranges)
	})
}

// OptimizeAndLiftExpr applies the headline transformation to a bare
// expression computed over the given axis.
func OptimizeAndLiftExpr(e ir.Expr, axis []*ir.IterVar,
	vranges map[*ir.Var]ir.Range) ir.Expr {
	return optimizeAndLift(e, axis, vranges)
}

func optimizeAndLift(exprOrig ir.Expr, axis []*ir.IterVar,
	vranges map[*ir.Var]ir.Range) ir.Expr {
	var result ir.Expr
	//
	combinedVranges := Merge(vranges, tensor.IterVarsToMap(axis))
	// Simplify first, mostly to clean up combiners
	expr := simplify(exprOrig, combinedVranges)
	//
	if red, ok := expr.(*ir.Reduce); ok {
		isSum := IsSumCombiner(red.Combiner, vranges)
		//
		if !isSum && !CanFactorZeroFromCombiner(red.Combiner, red.ValueIndex, vranges) {
			// Nothing can be lifted through this combiner; at least tighten
			// the domain.
			return SimplifyReductionDomain(expr, combinedVranges)
		}
		//
		cond := red.Condition
		source := Concat(red.Source, nil)
		// A summation lets the source's nonzeroness move into the
		// reduction condition right away.
		if isSum {
			nz := NonzeronessCondition(red.Source[red.ValueIndex])
			cond = ir.Conj(nz.Cond, cond)
			source[red.ValueIndex] = nz.Value
		}
		//
		newRed := SimplifyReductionDomain(
			ir.NewReduce(red.Combiner, source, red.Axis, cond, red.ValueIndex),
			combinedVranges)
		//
		red, ok = newRed.(*ir.Reduce)
		if !ok {
			// The reduction collapsed entirely; treat the remains as a
			// plain expression.
			return optimizeAndLift(newRed, axis, vranges)
		}
		// Lift whatever does not depend on the reduction variables
		outerCond, reduceCond := LiftConditionsThroughReduction(red.Condition, red.Axis, axis)
		//
		newSource := Concat(red.Source, nil)
		// Without a summation the source's nonzeroness is lifted here
		// instead, guarded inside the source itself.
		if !isSum {
			nz := NonzeronessCondition(red.Source[red.ValueIndex])
			nzCond := ir.Conj(reduceCond, nz.Cond)
			//
			outerNzCond, innerNzCond := LiftConditionsThroughReduction(nzCond, red.Axis, axis)
			outerCond = ir.Conj(outerCond, outerNzCond)
			newSource[red.ValueIndex] = SelectElseZero(innerNzCond, nz.Value)
		}
		//
		newReduce := ir.NewReduce(red.Combiner, newSource, red.Axis, reduceCond, red.ValueIndex)
		extracted := ExtractAsTensorMaybe(newReduce, outerCond,
			tensor.IterVarsToVars(axis), combinedVranges)
		//
		result = SelectElseZero(outerCond, extracted)
	} else {
		nz := NonzeronessCondition(expr)
		extracted := ExtractAsTensorMaybe(nz.Value, nz.Cond,
			tensor.IterVarsToVars(axis), combinedVranges)
		//
		result = SelectElseZero(nz.Cond, extracted)
	}
	// The axis bounds make many of the lifted conditions redundant.  This
	// also propagates equalities other simplifiers miss, like (i % 3) == 0.
	result = RemoveRedundantInequalities(result, tensor.IterVarsToInequalities(axis))
	// Extraction does not always fire, so reductions may remain nested
	// inside non-reductions; pull them out.
	result = ExtractNonTopReductions(result, tensor.IterVarsToVars(axis), combinedVranges)
	//
	return simplify(result, combinedVranges)
}
