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
	"github.com/loom-lang/loom/pkg/arith"
	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/math"
)

// DeskewDomain tightens every variable of a domain to a zero-based range by
// absorbing an affine offset into the substitution: each variable becomes
// `new_v + best_lower` where the bounds produced by Fourier-Motzkin
// elimination pick the tightest provable (lower, upper) pair.  Variables
// pinned by an equality disappear altogether.
func DeskewDomain(domain *Domain) *DomainTransformation {
	// The resulting ranges cover the new variables plus any outer variables
	resRanges := make(map[*ir.Var]ir.Range)
	// Order: domain variables first, then outer variables from the ranges
	vars := Concat(domain.Variables, nil)
	inDomain := ir.VarMask(domain.Variables...)
	//
	for _, entry := range ir.SortVarMap(domain.Ranges) {
		if !inDomain.Test(entry.Var.ID) {
			vars = append(vars, entry.Var)
			resRanges[entry.Var] = entry.Value
		}
	}
	//
	solved := SolveSystemOfInequalities(domain.Conditions, vars, domain.Ranges)
	//
	var (
		resOldToNew   = make(map[*ir.Var]ir.Expr)
		resNewToOld   = make(map[*ir.Var]ir.Expr)
		resVariables  []*ir.Var
		resConditions []ir.Expr
		vranges       = Merge(domain.Ranges, nil)
		newVarIntsets = arith.IntervalsOf(domain.Ranges)
	)
	// Process variables most-dependent first, so that replacements for
	// later variables can be phrased over the earlier (more independent)
	// ones.
	for i := len(domain.Variables) - 1; i >= 0; i-- {
		v := domain.Variables[i]
		// Earlier replacements must flow into this variable's bounds
		bnd := solved.Bounds[v].substitute(resOldToNew)
		//
		if ir.IsConstInt(bnd.Coef, 1) && len(bnd.Equal) > 0 {
			// An equality pins this variable exactly; the bounds are sorted
			// by complexity, so the first is the simplest.
			resOldToNew[v] = bnd.Equal[0]
			continue
		}
		//
		lowers := Concat(bnd.Equal, bnd.Lower)
		uppers := Concat(bnd.Equal, bnd.Upper)
		//
		sortExprs(lowers)
		sortExprs(uppers)
		// Try all pairs of lower and upper bounds, keeping the pair with
		// the smallest provable overapproximation of the extent.  Bounds
		// are for coef*v; the chosen lower is divided back to bound v.
		bestLower := vranges[v].Min
		bestDiffOver := simplify(ir.Sub(vranges[v].Extent, ir.Const(v.T, 1)), vranges)
		//
		for _, low := range lowers {
			for _, upp := range uppers {
				diffOver, lowDivided := evalBoundPair(low, upp, bnd.Coef, newVarIntsets, vranges)
				if diffOver == nil {
					continue
				}
				// Strictly-better only: earlier pairs are simpler and win
				// ties.
				better := ir.LT(ir.Sub(diffOver, bestDiffOver), ir.Zero(v.T))
				//
				if canProve(better, vranges) {
					bestLower = lowDivided
					bestDiffOver = diffOver
				}
			}
		}
		//
		suffix := ".shifted"
		if ir.DeepEqual(bestLower, vranges[v].Min) {
			suffix = ""
		}
		//
		newVar := v.CopyWithSuffix(suffix)
		diff := simplify(bestDiffOver, vranges)
		//
		if ir.IsConstInt(diff, 0) {
			// A single point; no variable needed
			resOldToNew[v] = bestLower
			continue
		}
		//
		resOldToNew[v] = ir.Add(newVar, bestLower)
		// bestLower is phrased over new variables, so it must be mapped
		// back before defining the new variable over the old ones.
		resNewToOld[newVar] = simplify(
			ir.Sub(v, ir.Substitute(bestLower, resNewToOld)), vranges)
		//
		newVarIntsets[newVar] = deskewInterval(diff, newVarIntsets)
		//
		r := ir.NewRange(ir.Zero(v.T), simplify(ir.Add(diff, ir.Const(v.T, 1)), vranges))
		resVariables = append(resVariables, newVar)
		resRanges[newVar] = r
		vranges[newVar] = r
	}
	// Re-emit the solved conditions under the replacements
	for _, oldCond := range solved.AsConditions() {
		newCond := simplify(ir.Substitute(oldCond, resOldToNew), vranges)
		if !ir.IsTrue(newCond) {
			resConditions = append(resConditions, newCond)
		}
	}
	// Variables were collected in reverse; restore the original order
	for i, j := 0, len(resVariables)-1; i < j; i, j = i+1, j-1 {
		resVariables[i], resVariables[j] = resVariables[j], resVariables[i]
	}
	//
	newDomain := NewDomain(resVariables, resConditions, resRanges)
	//
	return &DomainTransformation{newDomain, domain, resNewToOld, resOldToNew}
}

// evalBoundPair measures how wide the range implied by one (lower, upper)
// bound pair is.  Two candidate formulas for the extent are compared and
// the provably smaller one wins; the divided lower bound is returned
// alongside since it becomes the variable's offset.  A nil extent means the
// pair's width could not be overapproximated.
func evalBoundPair(low ir.Expr, upp ir.Expr, coef ir.Expr,
	intsets map[*ir.Var]math.Interval,
	vranges map[*ir.Var]ir.Range) (ir.Expr, ir.Expr) {
	t := low.Type()
	//
	diff1 := simplify(ir.FloorDiv(ir.Sub(upp, low), coef), vranges)
	diffOver1 := overapproxMax(diff1, intsets, vranges)
	// The lower bound for v itself uses rounding-up division
	lowDivided := simplify(
		ir.FloorDiv(ir.Sub(ir.Add(low, coef), ir.Const(t, 1)), coef), vranges)
	// A second formulation which is sometimes tighter (and sometimes not)
	diff2 := simplify(ir.Sub(ir.FloorDiv(upp, coef), lowDivided), vranges)
	diffOver2 := overapproxMax(diff2, intsets, vranges)
	//
	switch {
	case diffOver1 == nil:
		return diffOver2, lowDivided
	case diffOver2 == nil:
		return diffOver1, lowDivided
	default:
		smaller := ir.LT(ir.Sub(diffOver2, diffOver1), ir.Zero(t))
		if canProve(smaller, vranges) {
			return diffOver2, lowDivided
		}
		//
		return diffOver1, lowDivided
	}
}

// overapproxMax computes an expression bounding the given one from above
// over all assignments within the intervals, or nil if no finite bound is
// derivable.
func overapproxMax(e ir.Expr, intsets map[*ir.Var]math.Interval,
	vranges map[*ir.Var]ir.Range) (res ir.Expr) {
	iv := arith.EvalInterval(e, intsets)
	//
	if max := iv.Max(); max.IsFinite() {
		return simplify(ir.Const(e.Type(), max.Int64()), vranges)
	}
	// Without bounds the expression is only usable when it is closed
	if len(ir.FreeVars(e)) == 0 {
		return e
	}
	//
	return nil
}

// deskewInterval turns the extent overapproximation into the interval of
// the freshly created variable.
func deskewInterval(diff ir.Expr, intsets map[*ir.Var]math.Interval) math.Interval {
	upper := arith.EvalInterval(diff, intsets)
	//
	max := upper.Max()
	if max.IsFinite() && max.CmpInt64(0) < 0 {
		return math.Point(0)
	} else if !max.IsFinite() {
		return math.NewInterval(math.NewInfInt(0), math.PosInfinity)
	}
	//
	return math.NewInterval(math.NewInfInt(0), max)
}

func sortExprs(es []ir.Expr) {
	for i := 1; i < len(es); i++ {
		for j := i; j > 0 && ir.DeepCompare(es[j], es[j-1]) < 0; j-- {
			es[j], es[j-1] = es[j-1], es[j]
		}
	}
}
