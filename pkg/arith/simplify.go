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

// Package arith provides the symbolic-arithmetic primitives the loom passes
// are built on: a canonicalising simplifier with range analysis, linear
// equation detection, and interval evaluation of expressions.
package arith

import (
	"sort"

	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/math"
)

// Simplify rewrites an expression into a simpler equivalent form, using
// variable ranges to decide comparisons where possible.  Integer sums are
// canonicalised as linear combinations (terms ordered by DeepCompare), which
// is what downstream passes rely on for structural equality of equivalent
// conditions.  Two rewrite rounds run because canonicalisation can expose
// new folding opportunities.
func Simplify(e ir.Expr, vranges map[*ir.Var]ir.Range) ir.Expr {
	ivs := IntervalsOf(vranges)
	//
	res := simplifyExpr(e, ivs)
	res = simplifyExpr(res, ivs)
	//
	return res
}

// CanProve checks whether an expression simplifies to the constant true
// under the given variable ranges.
func CanProve(e ir.Expr, vranges map[*ir.Var]ir.Range) bool {
	return ir.IsTrue(Simplify(e, vranges))
}

func simplifyExpr(e ir.Expr, ivs map[*ir.Var]math.Interval) ir.Expr {
	// Bottom-up: simplify children first
	e = ir.MapChildren(e, func(child ir.Expr) ir.Expr {
		return simplifyExpr(child, ivs)
	})
	//
	switch x := e.(type) {
	case *ir.BinOp:
		return simplifyBinOp(x, ivs)
	case *ir.Cmp:
		return simplifyCmp(x, ivs)
	case *ir.And:
		return simplifyAnd(x)
	case *ir.Or:
		return simplifyOr(x)
	case *ir.Not:
		return simplifyNot(x)
	case *ir.Select:
		return simplifySelect(x)
	case *ir.Cast:
		return simplifyCast(x)
	case *ir.Call:
		if x.IsIntrinsic(ir.IfThenElseIntrinsic) {
			if ir.IsTrue(x.Args[0]) {
				return x.Args[1]
			} else if ir.IsFalse(x.Args[0]) {
				return x.Args[2]
			}
		}
		//
		return e
	case *ir.Let:
		// Inline trivial bindings
		switch x.Value.(type) {
		case *ir.IntImm, *ir.FloatImm, *ir.Var:
			return simplifyExpr(ir.SubstituteOne(x.Body, x.Var, x.Value), ivs)
		}
		//
		return e
	case *ir.Reduce:
		return simplifyReduce(x, ivs)
	default:
		return e
	}
}

// ----------------------------------------------------------------------
// Linear canonicalisation
// ----------------------------------------------------------------------

// canonTerm is one summand of a canonicalised integer sum.
type canonTerm struct {
	coef int64
	term ir.Expr
}

// sumOf flattens an integer expression into summands with integer
// coefficients plus a constant.  Non-additive nodes become opaque terms.
func sumOf(e ir.Expr) (terms []canonTerm, konst int64) {
	switch x := e.(type) {
	case *ir.IntImm:
		return nil, x.Value
	case *ir.BinOp:
		switch x.Op {
		case ir.OpAdd, ir.OpSub:
			aTerms, aConst := sumOf(x.A)
			bTerms, bConst := sumOf(x.B)
			//
			sign := int64(1)
			if x.Op == ir.OpSub {
				sign = -1
			}
			//
			for _, t := range bTerms {
				aTerms = append(aTerms, canonTerm{sign * t.coef, t.term})
			}
			//
			return aTerms, aConst + sign*bConst
		case ir.OpMul:
			if c, ok := ir.ConstInt(x.A); ok {
				ts, k := sumOf(x.B)
				return scaleTerms(ts, c), k * c
			}
			//
			if c, ok := ir.ConstInt(x.B); ok {
				ts, k := sumOf(x.A)
				return scaleTerms(ts, c), k * c
			}
		}
	}
	//
	return []canonTerm{{1, e}}, 0
}

func scaleTerms(ts []canonTerm, c int64) []canonTerm {
	for i := range ts {
		ts[i].coef *= c
	}
	//
	return ts
}

// rebuildSum produces the canonical expression for a set of summands: terms
// sorted by DeepCompare, equal terms merged, zero coefficients dropped, and
// the constant last.
func rebuildSum(terms []canonTerm, konst int64, t ir.Type) ir.Expr {
	sort.SliceStable(terms, func(i, j int) bool {
		return ir.DeepCompare(terms[i].term, terms[j].term) < 0
	})
	// Merge adjacent equal terms
	var merged []canonTerm
	//
	for _, term := range terms {
		n := len(merged)
		if n > 0 && ir.DeepEqual(merged[n-1].term, term.term) {
			merged[n-1].coef += term.coef
		} else {
			merged = append(merged, term)
		}
	}
	//
	var res ir.Expr
	//
	for _, term := range merged {
		if term.coef == 0 {
			continue
		}
		//
		switch {
		case res == nil:
			res = scaledTerm(term, t)
		case term.coef < 0:
			res = ir.Sub(res, scaledTerm(canonTerm{-term.coef, term.term}, t))
		default:
			res = ir.Add(res, scaledTerm(term, t))
		}
	}
	//
	switch {
	case res == nil:
		return ir.Const(t, konst)
	case konst > 0:
		return ir.Add(res, ir.Const(t, konst))
	case konst < 0:
		return ir.Sub(res, ir.Const(t, -konst))
	default:
		return res
	}
}

func scaledTerm(term canonTerm, t ir.Type) ir.Expr {
	if term.coef == 1 {
		return term.term
	}
	//
	return ir.Mul(ir.Const(t, term.coef), term.term)
}

// canonicalSum canonicalises an integer additive expression.
func canonicalSum(e ir.Expr) ir.Expr {
	terms, konst := sumOf(e)
	return rebuildSum(terms, konst, e.Type())
}

// ----------------------------------------------------------------------
// Per-node rules
// ----------------------------------------------------------------------

func simplifyBinOp(x *ir.BinOp, ivs map[*ir.Var]math.Interval) ir.Expr {
	if !x.Type().IsInt() {
		return foldFloatBinOp(x)
	}
	//
	switch x.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMul:
		return canonicalSum(x)
	case ir.OpMin, ir.OpMax:
		return simplifyMinMax(x, ivs)
	default:
		return simplifyDivMod(x, ivs)
	}
}

func foldFloatBinOp(x *ir.BinOp) ir.Expr {
	a, aok := x.A.(*ir.FloatImm)
	b, bok := x.B.(*ir.FloatImm)
	//
	if !aok || !bok {
		return x
	}
	//
	switch x.Op {
	case ir.OpAdd:
		return &ir.FloatImm{T: x.Type(), Value: a.Value + b.Value}
	case ir.OpSub:
		return &ir.FloatImm{T: x.Type(), Value: a.Value - b.Value}
	case ir.OpMul:
		return &ir.FloatImm{T: x.Type(), Value: a.Value * b.Value}
	case ir.OpMin:
		return &ir.FloatImm{T: x.Type(), Value: min(a.Value, b.Value)}
	case ir.OpMax:
		return &ir.FloatImm{T: x.Type(), Value: max(a.Value, b.Value)}
	default:
		return x
	}
}

func simplifyMinMax(x *ir.BinOp, ivs map[*ir.Var]math.Interval) ir.Expr {
	if ir.DeepEqual(x.A, x.B) {
		return x.A
	}
	//
	diff := EvalInterval(canonicalSum(ir.Sub(x.A, x.B)), ivs)
	//
	diffMax := diff.Max()
	diffMin := diff.Min()
	aNotAbove := diffMax.IsFinite() && diffMax.CmpInt64(0) <= 0
	aNotBelow := diffMin.IsFinite() && diffMin.CmpInt64(0) >= 0
	//
	switch {
	case aNotAbove && x.Op == ir.OpMin, aNotBelow && x.Op == ir.OpMax:
		return x.A
	case aNotAbove && x.Op == ir.OpMax, aNotBelow && x.Op == ir.OpMin:
		return x.B
	default:
		return x
	}
}

func simplifyDivMod(x *ir.BinOp, ivs map[*ir.Var]math.Interval) ir.Expr {
	div, ok := ir.ConstInt(x.B)
	if !ok || div == 0 {
		return x
	}
	//
	t := x.Type()
	// Constant dividend folds outright
	if a, ok := ir.ConstInt(x.A); ok {
		switch x.Op {
		case ir.OpDiv:
			return ir.Const(t, a/div)
		case ir.OpMod:
			return ir.Const(t, a%div)
		case ir.OpFloorDiv:
			return ir.Const(t, floorDivInt(a, div))
		default:
			return ir.Const(t, a-floorDivInt(a, div)*div)
		}
	}
	// Unit divisor
	if div == 1 {
		if x.Op == ir.OpDiv || x.Op == ir.OpFloorDiv {
			return x.A
		}
		//
		return ir.Zero(t)
	}
	// Exact division of a linear form: every coefficient and the constant
	// are multiples of the divisor, so truncation never happens.
	terms, konst := sumOf(x.A)
	if divisibleTerms(terms, konst, div) {
		if x.Op == ir.OpDiv || x.Op == ir.OpFloorDiv {
			return rebuildSum(scaleTermsExact(terms, div), konst/div, t)
		}
		//
		return ir.Zero(t)
	}
	// Dividend provably within [0, div): quotient vanishes, remainder is
	// the dividend itself.
	if div > 1 {
		iv := EvalInterval(x.A, ivs)
		ivMin := iv.Min()
		ivMax := iv.Max()
		if iv.IsFinite() && ivMin.CmpInt64(0) >= 0 && ivMax.CmpInt64(div) < 0 {
			if x.Op == ir.OpDiv || x.Op == ir.OpFloorDiv {
				return ir.Zero(t)
			}
			//
			return x.A
		}
	}
	//
	return x
}

func divisibleTerms(terms []canonTerm, konst int64, div int64) bool {
	if konst%div != 0 {
		return false
	}
	//
	for _, term := range terms {
		if term.coef%div != 0 {
			return false
		}
	}
	//
	return true
}

func scaleTermsExact(terms []canonTerm, div int64) []canonTerm {
	res := make([]canonTerm, len(terms))
	for i, term := range terms {
		res[i] = canonTerm{term.coef / div, term.term}
	}
	//
	return res
}

func simplifyCmp(x *ir.Cmp, ivs map[*ir.Var]math.Interval) ir.Expr {
	if !x.A.Type().IsInt() {
		return foldFloatCmp(x)
	}
	// Decide through the interval of the difference
	diff := EvalInterval(canonicalSum(ir.Sub(x.A, x.B)), ivs)
	//
	lo, hi := diff.Min(), diff.Max()
	// Evaluate tri-state answers for the primitive relations
	var ltTrue, ltFalse = false, false
	//
	var eqTrue, eqFalse = false, false
	//
	if hi.IsFinite() && hi.CmpInt64(0) < 0 {
		ltTrue = true
	}
	//
	if lo.IsFinite() && lo.CmpInt64(0) >= 0 {
		ltFalse = true
	}
	//
	if lo.IsFinite() && hi.IsFinite() && lo.CmpInt64(0) == 0 && hi.CmpInt64(0) == 0 {
		eqTrue = true
	}
	//
	if (lo.IsFinite() && lo.CmpInt64(0) > 0) || (hi.IsFinite() && hi.CmpInt64(0) < 0) {
		eqFalse = true
	}
	//
	switch x.Op {
	case ir.OpLT:
		if ltTrue {
			return ir.True()
		} else if ltFalse {
			return ir.False()
		}
	case ir.OpGE:
		if ltTrue {
			return ir.False()
		} else if ltFalse {
			return ir.True()
		}
	case ir.OpLE:
		if hi.IsFinite() && hi.CmpInt64(0) <= 0 {
			return ir.True()
		} else if lo.IsFinite() && lo.CmpInt64(0) > 0 {
			return ir.False()
		}
	case ir.OpGT:
		if lo.IsFinite() && lo.CmpInt64(0) > 0 {
			return ir.True()
		} else if hi.IsFinite() && hi.CmpInt64(0) <= 0 {
			return ir.False()
		}
	case ir.OpEQ:
		if eqTrue {
			return ir.True()
		} else if eqFalse {
			return ir.False()
		}
	case ir.OpNE:
		if eqTrue {
			return ir.False()
		} else if eqFalse {
			return ir.True()
		}
	}
	//
	return x
}

func foldFloatCmp(x *ir.Cmp) ir.Expr {
	a, aok := x.A.(*ir.FloatImm)
	b, bok := x.B.(*ir.FloatImm)
	//
	if !aok || !bok {
		return x
	}
	//
	switch x.Op {
	case ir.OpEQ:
		return ir.Bool(a.Value == b.Value)
	case ir.OpNE:
		return ir.Bool(a.Value != b.Value)
	case ir.OpLT:
		return ir.Bool(a.Value < b.Value)
	case ir.OpLE:
		return ir.Bool(a.Value <= b.Value)
	case ir.OpGT:
		return ir.Bool(a.Value > b.Value)
	default:
		return ir.Bool(a.Value >= b.Value)
	}
}

func simplifyAnd(x *ir.And) ir.Expr {
	switch {
	case ir.IsFalse(x.A) || ir.IsFalse(x.B):
		return ir.False()
	case ir.IsTrue(x.A):
		return x.B
	case ir.IsTrue(x.B):
		return x.A
	case ir.DeepEqual(x.A, x.B):
		return x.A
	default:
		return x
	}
}

func simplifyOr(x *ir.Or) ir.Expr {
	switch {
	case ir.IsTrue(x.A) || ir.IsTrue(x.B):
		return ir.True()
	case ir.IsFalse(x.A):
		return x.B
	case ir.IsFalse(x.B):
		return x.A
	case ir.DeepEqual(x.A, x.B):
		return x.A
	default:
		return x
	}
}

func simplifyNot(x *ir.Not) ir.Expr {
	switch a := x.A.(type) {
	case *ir.IntImm:
		return ir.Bool(a.Value == 0)
	case *ir.Not:
		return a.A
	case *ir.Cmp:
		return &ir.Cmp{Op: a.Op.Negated(), A: a.A, B: a.B}
	default:
		return x
	}
}

func simplifySelect(x *ir.Select) ir.Expr {
	switch {
	case ir.IsTrue(x.Cond):
		return x.TrueValue
	case ir.IsFalse(x.Cond):
		return x.FalseValue
	case ir.DeepEqual(x.TrueValue, x.FalseValue):
		return x.TrueValue
	default:
		return x
	}
}

func simplifyCast(x *ir.Cast) ir.Expr {
	if x.Value.Type() == x.T {
		return x.Value
	}
	//
	if imm, ok := x.Value.(*ir.IntImm); ok && x.T.IsInt() {
		return ir.Const(x.T, imm.Value)
	}
	//
	return x
}

// simplifyReduce removes reductions which are provably empty or cover a
// single point.
func simplifyReduce(x *ir.Reduce, ivs map[*ir.Var]math.Interval) ir.Expr {
	identity := x.Combiner.Identity[x.ValueIndex]
	// A reduction over an unsatisfiable condition or an empty axis is its
	// identity element.
	if ir.IsFalse(x.Condition) {
		return simplifyExpr(identity, ivs)
	}
	//
	singlePoint := true
	//
	for _, iv := range x.Axis {
		extent, ok := ir.ConstInt(iv.Dom.Extent)
		//
		switch {
		case ok && extent <= 0:
			return simplifyExpr(identity, ivs)
		case !ok || extent != 1:
			singlePoint = false
		}
	}
	//
	if len(x.Axis) > 0 && !singlePoint {
		return x
	}
	// Every axis covers exactly one point, so the fold applies the combiner
	// exactly once (or not at all if the condition fails there).
	point := make(map[*ir.Var]ir.Expr, len(x.Axis))
	for _, iv := range x.Axis {
		point[iv.Var] = iv.Dom.Min
	}
	//
	combined := make(map[*ir.Var]ir.Expr, 2*len(x.Combiner.Result))
	//
	for i := range x.Combiner.Result {
		combined[x.Combiner.Lhs[i]] = x.Combiner.Identity[i]
		combined[x.Combiner.Rhs[i]] = ir.Substitute(x.Source[i], point)
	}
	//
	once := ir.Substitute(x.Combiner.Result[x.ValueIndex], combined)
	cond := ir.Substitute(x.Condition, point)
	//
	return simplifyExpr(ir.NewSelect(cond, once, identity), ivs)
}

func floorDivInt(a int64, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	//
	return q
}
