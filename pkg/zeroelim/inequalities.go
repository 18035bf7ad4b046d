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
	"fmt"
	"sort"

	"github.com/loom-lang/loom/pkg/arith"
	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/util/set"
)

// VarBounds collects the bounds derived for one variable: the conjunction
// reads coef*v ∈ ⋂Equal ∩ [max(Lower), min(Upper)].
type VarBounds struct {
	Coef  ir.Expr
	Lower []ir.Expr
	Equal []ir.Expr
	Upper []ir.Expr
}

// substitute applies a variable substitution to every bound expression.
func (p VarBounds) substitute(sub map[*ir.Var]ir.Expr) VarBounds {
	apply := func(es []ir.Expr) []ir.Expr {
		res := make([]ir.Expr, len(es))
		for i, e := range es {
			res[i] = ir.Substitute(e, sub)
		}
		//
		return res
	}
	//
	return VarBounds{ir.Substitute(p.Coef, sub), apply(p.Lower), apply(p.Equal), apply(p.Upper)}
}

// SolveSystemOfInequalitiesResult holds the per-variable bounds produced by
// Fourier-Motzkin elimination, plus whatever could not be classified.
type SolveSystemOfInequalitiesResult struct {
	Variables []*ir.Var
	Bounds    map[*ir.Var]VarBounds
	// OtherConditions holds formulas which are not linear inequalities over
	// the variables; a single false here flags an empty system.
	OtherConditions []ir.Expr
}

// AsConditions flattens the bounds back into a sequence of (in)equalities.
func (p SolveSystemOfInequalitiesResult) AsConditions() []ir.Expr {
	var res []ir.Expr
	//
	for _, v := range p.Variables {
		bnds, ok := p.Bounds[v]
		if !ok {
			panic(fmt.Sprintf("no bounds for variable %s", v.Name))
		}
		//
		lhs := ir.Mul(bnds.Coef, v)
		//
		for _, rhs := range bnds.Equal {
			res = append(res, ir.EQ(lhs, rhs))
		}
		//
		for _, rhs := range bnds.Lower {
			res = append(res, ir.GE(lhs, rhs))
		}
		//
		for _, rhs := range bnds.Upper {
			res = append(res, ir.LE(lhs, rhs))
		}
	}
	//
	res = append(res, p.OtherConditions...)
	//
	return res
}

// boundedFormula is a formula of the form coef*v + rest <= 0 (or == 0),
// classified with respect to the variable currently being eliminated.
type boundedFormula struct {
	coef int64
	rest ir.Expr
}

// SolveSystemOfInequalities eliminates the given variables from a system of
// inequalities in order, Fourier-Motzkin style: for each variable, every
// lower bound is combined with every upper bound, and the variable's own
// bounds are recorded along the way.  Variable ranges supply implicit
// bounds and power the subsumption checks, so they matter a great deal for
// the quality of the result.
func SolveSystemOfInequalities(inequalities []ir.Expr, variables []*ir.Var,
	vranges map[*ir.Var]ir.Range) SolveSystemOfInequalitiesResult {
	res := SolveSystemOfInequalitiesResult{
		Variables: variables,
		Bounds:    make(map[*ir.Var]VarBounds, len(variables)),
	}
	//
	var (
		current    set.SortedSet[ir.ExprItem]
		newCurrent set.SortedSet[ir.ExprItem]
		// Formulas of the form c*v + rest <= 0 with c > 0 / c < 0
		coefPos []boundedFormula
		coefNeg []boundedFormula
		// Formulas we don't know what to do with
		rest []ir.Expr
	)
	// addToNewCurrent inserts an inequality unless it is obviously
	// redundant: implied by the ranges alone, or by one of its immediate
	// neighbours in the sorted set (in which case the weaker of the two is
	// dropped).  Neighbour subsumption is a heuristic, not a complete
	// redundancy check.
	addToNewCurrent := func(newIneq ir.Expr) {
		if canProve(newIneq, vranges) {
			return
		}
		//
		item := ir.ExprItem{Expr: newIneq}
		//
		if newLe, ok := leOfZero(newIneq); ok {
			at := newCurrent.LowerBound(item)
			//
			if at > 0 {
				if le, ok := leOfZero(newCurrent[at-1].Expr); ok {
					if canProve(ir.LE(ir.Sub(newLe, le), ir.Zero(newLe.Type())), vranges) {
						return
					} else if canProve(ir.LE(ir.Sub(le, newLe), ir.Zero(newLe.Type())), vranges) {
						newCurrent.RemoveAt(at - 1)
						at--
					}
				}
			}
			//
			if at < newCurrent.Len() {
				if le, ok := leOfZero(newCurrent[at].Expr); ok {
					if canProve(ir.LE(ir.Sub(newLe, le), ir.Zero(newLe.Type())), vranges) {
						return
					} else if canProve(ir.LE(ir.Sub(le, newLe), ir.Zero(newLe.Type())), vranges) {
						newCurrent.RemoveAt(at)
					}
				}
			}
		}
		//
		newCurrent.Insert(item)
	}
	// Normalise every inequality into `expr <= 0` form
	for _, ineq := range inequalities {
		addToNewCurrent(NormalizeComparisons(simplify(ineq, vranges)))
	}
	//
	current, newCurrent = newCurrent, nil
	//
	for _, v := range variables {
		if _, ok := res.Bounds[v]; ok {
			panic(fmt.Sprintf("variable %s appears several times in the variable list", v.Name))
		}
		//
		newCurrent = nil
		coefPos = coefPos[:0]
		coefNeg = coefNeg[:0]
		// The variable's own range contributes a bound on each side
		if r, ok := vranges[v]; ok {
			lbound := simplify(r.Min, vranges)
			ubound := simplify(ir.Sub(ir.Add(r.Min, r.Extent), ir.Const(v.T, 1)), vranges)
			//
			coefNeg = append(coefNeg, boundedFormula{-1, lbound})
			coefPos = append(coefPos, boundedFormula{1, ir.Neg(ubound)})
		}
		// Classify every formula by the polarity of its v coefficient
		for _, item := range current {
			if classified := classifyFormula(item.Expr, v, &coefPos, &coefNeg); classified {
				continue
			} else if zeroPolarity(item.Expr, v) {
				addToNewCurrent(item.Expr)
			} else {
				rest = append(rest, item.Expr)
			}
		}
		// Combine each positive inequality with each negative one
		for _, pos := range coefPos {
			for _, neg := range coefNeg {
				g := gcd(pos.coef, -neg.coef)
				//
				cPos := ir.Const(v.T, neg.coef/g)
				cNeg := ir.Const(v.T, pos.coef/g)
				//
				newLhs := ir.Sub(ir.Mul(cNeg, neg.rest), ir.Mul(cPos, pos.rest))
				newIneq := ir.LE(newLhs, ir.Zero(pos.rest.Type()))
				//
				addToNewCurrent(NormalizeComparisons(simplify(newIneq, vranges)))
			}
		}
		// The generated bounds share a common multiplier
		coefLcm := int64(1)
		//
		for _, pos := range coefPos {
			coefLcm = lcm(coefLcm, pos.coef)
		}
		//
		for _, neg := range coefNeg {
			coefLcm = lcm(coefLcm, -neg.coef)
		}
		//
		upperBounds := collectBounds(coefPos, coefLcm, v, vranges, false)
		lowerBounds := collectBounds(coefNeg, coefLcm, v, vranges, true)
		// Bounds which are both lower and upper are in fact equalities
		equal := set.Intersection(upperBounds, lowerBounds)
		newUpper := set.Difference(upperBounds, equal)
		newLower := set.Difference(lowerBounds, equal)
		//
		res.Bounds[v] = VarBounds{
			Coef:  ir.Const(v.T, coefLcm),
			Lower: unwrapItems(newLower),
			Equal: unwrapItems(equal),
			Upper: unwrapItems(newUpper),
		}
		//
		current, newCurrent = newCurrent, nil
	}
	// Everything left over becomes an unclassified condition
	for _, item := range current {
		simplified := simplify(item.Expr, vranges)
		//
		if ir.IsFalse(simplified) {
			// Contradiction: the system is empty
			res.OtherConditions = []ir.Expr{ir.False()}
			return res
		} else if ir.IsTrue(simplified) {
			continue
		}
		//
		res.OtherConditions = append(res.OtherConditions, simplified)
	}
	//
	res.OtherConditions = append(res.OtherConditions, rest...)
	//
	return res
}

// leOfZero matches a normalised inequality `a <= 0`, returning a.
func leOfZero(e ir.Expr) (ir.Expr, bool) {
	if le, ok := e.(*ir.Cmp); ok && le.Op == ir.OpLE && ir.IsConstZero(le.B) {
		return le.A, true
	}
	//
	return nil, false
}

// classifyFormula files a normalised (in)equality under the positive or
// negative bucket for v.  Equalities feed both buckets with opposite
// signs.  Zero-coefficient and non-linear formulas are left for the caller.
func classifyFormula(e ir.Expr, v *ir.Var, coefPos *[]boundedFormula, coefNeg *[]boundedFormula) bool {
	cmp, ok := e.(*ir.Cmp)
	if !ok || (cmp.Op != ir.OpLE && cmp.Op != ir.OpEQ) || !ir.IsConstZero(cmp.B) {
		return false
	}
	//
	coef, ok := arith.DetectLinearEquation(cmp.A, []*ir.Var{v})
	if !ok {
		return false
	}
	//
	c, ok := ir.ConstInt(coef[0])
	if !ok || c == 0 {
		return false
	}
	//
	rest := coef[1]
	//
	switch {
	case cmp.Op == ir.OpLE && c > 0:
		*coefPos = append(*coefPos, boundedFormula{c, rest})
	case cmp.Op == ir.OpLE:
		*coefNeg = append(*coefNeg, boundedFormula{c, rest})
	case c > 0:
		*coefPos = append(*coefPos, boundedFormula{c, rest})
		*coefNeg = append(*coefNeg, boundedFormula{-c, ir.Neg(rest)})
	default:
		*coefPos = append(*coefPos, boundedFormula{-c, ir.Neg(rest)})
		*coefNeg = append(*coefNeg, boundedFormula{c, rest})
	}
	//
	return true
}

// zeroPolarity recognises formulas which simply do not mention v and hence
// pass through this elimination round unchanged.
func zeroPolarity(e ir.Expr, v *ir.Var) bool {
	cmp, ok := e.(*ir.Cmp)
	if !ok || (cmp.Op != ir.OpLE && cmp.Op != ir.OpEQ) || !ir.IsConstZero(cmp.B) {
		return false
	}
	//
	coef, ok := arith.DetectLinearEquation(cmp.A, []*ir.Var{v})
	if !ok {
		return false
	}
	//
	return ir.IsConstZero(coef[0])
}

// collectBounds scales each classified formula to the common multiplier and
// prunes bounds provably dominated by another.  For positive coefficients
// the result is an upper bound on coefLcm*v; for negative ones a lower
// bound.
func collectBounds(formulas []boundedFormula, coefLcm int64, v *ir.Var,
	vranges map[*ir.Var]ir.Range, isLower bool) set.SortedSet[ir.ExprItem] {
	var bounds []ir.Expr
	//
	for _, f := range formulas {
		bound := simplify(ir.Mul(ir.Const(v.T, -coefLcm/f.coef), f.rest), vranges)
		// A bound is useless if an existing one is at least as tight
		dominated := false
		//
		for _, o := range bounds {
			if provesDominance(o, bound, vranges, isLower) {
				dominated = true
				break
			}
		}
		//
		if dominated {
			continue
		}
		// Conversely, drop existing bounds this one dominates
		kept := bounds[:0]
		//
		for _, o := range bounds {
			if !provesDominance(bound, o, vranges, isLower) {
				kept = append(kept, o)
			}
		}
		//
		bounds = append(kept, bound)
	}
	//
	items := make([]ir.ExprItem, len(bounds))
	for i, b := range bounds {
		items[i] = ir.ExprItem{Expr: b}
	}
	//
	return set.NewSortedSet(items...)
}

// provesDominance checks that bound a makes bound b redundant: a lower
// bound dominates smaller lower bounds, an upper bound dominates larger
// upper bounds.
func provesDominance(a ir.Expr, b ir.Expr, vranges map[*ir.Var]ir.Range, isLower bool) bool {
	diff := ir.Sub(a, b)
	if isLower {
		diff = ir.Sub(b, a)
	}
	//
	return canProve(ir.LE(diff, ir.Zero(a.Type())), vranges)
}

// unwrapItems projects a sorted expression set back onto a plain slice.
func unwrapItems(items set.SortedSet[ir.ExprItem]) []ir.Expr {
	res := make([]ir.Expr, len(items))
	for i, item := range items {
		res[i] = item.Expr
	}
	//
	sort.SliceStable(res, func(i, j int) bool {
		return ir.DeepCompare(res[i], res[j]) < 0
	})
	//
	return res
}
