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

// Package zeroelim rewrites tensor compute expressions so that summations
// over provably-zero regions disappear: nonzeroness conditions are lifted
// out of expressions and reductions, iteration domains are tightened by
// solving their equalities and inequalities over the integers, and
// redundant conditions are dropped.  All rewrites are conservative; on any
// uncertainty the original subexpression is kept unchanged.
package zeroelim

import (
	"github.com/loom-lang/loom/pkg/arith"
	"github.com/loom-lang/loom/pkg/ir"
)

// All combines the given boolean expressions with conjunction, yielding
// true for an empty sequence.
func All(conds []ir.Expr) ir.Expr {
	var res ir.Expr
	//
	for _, cond := range conds {
		if res == nil {
			res = cond
		} else {
			res = ir.Conj(res, cond)
		}
	}
	//
	if res == nil {
		return ir.True()
	}
	//
	return res
}

// SelectElseZero builds the expression `select(cond, onTrue, 0)`.
func SelectElseZero(cond ir.Expr, onTrue ir.Expr) ir.Expr {
	return ir.NewSelect(cond, onTrue, ir.Zero(onTrue.Type()))
}

// Merge two maps, preferring the right one on conflict.  Neither input is
// mutated.
func Merge[K comparable, V any](original map[K]V, update map[K]V) map[K]V {
	res := make(map[K]V, len(original)+len(update))
	//
	for k, v := range original {
		res[k] = v
	}
	//
	for k, v := range update {
		res[k] = v
	}
	//
	return res
}

// Concat appends two slices into a fresh one.
func Concat[T any](a []T, b []T) []T {
	res := make([]T, 0, len(a)+len(b))
	res = append(res, a...)
	res = append(res, b...)
	//
	return res
}

// simplify runs the arithmetic simplifier, pre-substituting any variable
// whose range covers a single value with that value.  The range analysis
// misses this on its own because such variables still look symbolic.
func simplify(e ir.Expr, vranges map[*ir.Var]ir.Range) ir.Expr {
	var sub map[*ir.Var]ir.Expr
	//
	for v, r := range vranges {
		if ir.IsConstInt(r.Extent, 1) {
			if sub == nil {
				sub = make(map[*ir.Var]ir.Expr)
			}
			//
			sub[v] = r.Min
		}
	}
	//
	if sub != nil {
		e = ir.Substitute(e, sub)
	}
	//
	return arith.Simplify(e, vranges)
}

// canProve checks that an expression simplifies to the constant true.
func canProve(e ir.Expr, vranges map[*ir.Var]ir.Range) bool {
	return ir.IsTrue(simplify(e, vranges))
}
