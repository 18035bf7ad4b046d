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

	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/util/set"
)

// FactorOutAtomicFormulasResult splits a boolean formula into a sorted set
// of atomic conjuncts and a residual, with the original equivalent to the
// conjunction of all atoms with the residual.
type FactorOutAtomicFormulasResult struct {
	// AtomicFormulas holds the factored conjuncts, sorted by DeepCompare.
	AtomicFormulas []ir.Expr
	// Rest is the non-atomic residual.
	Rest ir.Expr
}

// ToExpr reassembles the conjunction of all atoms with the residual.
func (p FactorOutAtomicFormulasResult) ToExpr() ir.Expr {
	res := p.Rest
	//
	for _, atom := range p.AtomicFormulas {
		res = ir.Conj(atom, res)
	}
	//
	return res
}

// ToArray returns the atoms followed by the residual, the shape domain
// conditions are stored in.
func (p FactorOutAtomicFormulasResult) ToArray() []ir.Expr {
	res := make([]ir.Expr, 0, len(p.AtomicFormulas)+1)
	res = append(res, p.AtomicFormulas...)
	res = append(res, p.Rest)
	//
	return res
}

// FactorOutAtomicFormulas transforms a boolean formula into a conjunction
// of atomic formulas plus a non-atomic residual.  Atomic formulas are
// constants, variables, calls and comparisons, i.e. formulas without a
// logical operator on top.
func FactorOutAtomicFormulas(e ir.Expr) FactorOutAtomicFormulasResult {
	if !e.Type().IsBool() {
		panic(fmt.Sprintf("cannot factor the non-boolean formula %s", e.String()))
	}
	//
	atoms, rest := factorAtomics(e)
	//
	res := make([]ir.Expr, len(atoms))
	for i, atom := range atoms {
		res[i] = atom.Expr
	}
	//
	return FactorOutAtomicFormulasResult{res, rest}
}

func factorAtomics(e ir.Expr) (set.SortedSet[ir.ExprItem], ir.Expr) {
	switch x := e.(type) {
	case *ir.And:
		atomsA, restA := factorAtomics(x.A)
		atomsB, restB := factorAtomics(x.B)
		// Conjunction takes the union of both atom sets; a true residual
		// adds nothing to the other one.
		atoms := set.Union(atomsA, atomsB)
		//
		if ir.IsTrue(restA) {
			return atoms, restB
		} else if ir.IsTrue(restB) {
			return atoms, restA
		}
		//
		return atoms, ir.Conj(restA, restB)
	case *ir.Or:
		return factorDisjunction(x.A, x.B)
	case *ir.Not:
		// Negation is pushed inwards
		switch a := x.A.(type) {
		case *ir.Or:
			return factorAtomics(ir.Conj(ir.Negation(a.A), ir.Negation(a.B)))
		case *ir.And:
			return factorAtomics(ir.Disj(ir.Negation(a.A), ir.Negation(a.B)))
		case *ir.Select:
			return factorAtomics(ir.Conj(
				ir.Disj(ir.Negation(a.Cond), ir.Negation(a.TrueValue)),
				ir.Disj(a.Cond, ir.Negation(a.FalseValue))))
		default:
			return atomic(e)
		}
	case *ir.Select:
		// A boolean select is sugar for (c && t) || (!c && f)
		return factorAtomics(ir.Disj(
			ir.Conj(x.Cond, x.TrueValue),
			ir.Conj(ir.Negation(x.Cond), x.FalseValue)))
	case *ir.BinOp:
		if x.Op == ir.OpMul {
			// A product of booleans is a conjunction
			return factorAtomics(ir.Conj(x.A, x.B))
		}
		//
		return atomic(e)
	default:
		return atomic(e)
	}
}

func atomic(e ir.Expr) (set.SortedSet[ir.ExprItem], ir.Expr) {
	return set.NewSortedSet(ir.ExprItem{Expr: e}), ir.True()
}

// factorDisjunction intersects the atom sets of both disjuncts; the atoms
// left behind on either side rejoin that side's residual.
func factorDisjunction(a ir.Expr, b ir.Expr) (set.SortedSet[ir.ExprItem], ir.Expr) {
	atomsA, restA := factorAtomics(a)
	atomsB, restB := factorAtomics(b)
	//
	shared := set.Intersection(atomsA, atomsB)
	//
	leftA := set.Difference(atomsA, shared)
	leftB := set.Difference(atomsB, shared)
	//
	newRest := ir.Disj(
		rejoin(leftA, restA),
		rejoin(leftB, restB))
	//
	return shared, newRest
}

func rejoin(atoms set.SortedSet[ir.ExprItem], rest ir.Expr) ir.Expr {
	for _, atom := range atoms {
		rest = ir.Conj(atom.Expr, rest)
	}
	//
	return rest
}

// NormalizeComparisons rewrites every integer comparison into one of the
// forms `a == 0`, `a != 0` and `a <= 0`.  Integer strictly-less comparisons
// become non-strict by adding one; greater-than comparisons are mirrored.
// Non-integer strict comparisons stay strict, as `a < 0`.
func NormalizeComparisons(e ir.Expr) ir.Expr {
	cmp, ok := e.(*ir.Cmp)
	if !ok {
		return ir.MapChildren(e, NormalizeComparisons)
	}
	//
	a, b := cmp.A, cmp.B
	op := cmp.Op
	// Mirror > and >= so that only < and <= remain
	if op == ir.OpGT || op == ir.OpGE {
		a, b = b, a
		//
		if op == ir.OpGT {
			op = ir.OpLT
		} else {
			op = ir.OpLE
		}
	}
	//
	zero := ir.Zero(a.Type())
	// Integer a < b is a - b + 1 <= 0
	if op == ir.OpLT && a.Type().IsInt() {
		lhs := simplify(ir.Add(ir.Sub(a, b), ir.Const(a.Type(), 1)), nil)
		return ir.LE(lhs, zero)
	}
	//
	lhs := simplify(ir.Sub(a, b), nil)
	//
	return &ir.Cmp{Op: op, A: lhs, B: zero}
}
