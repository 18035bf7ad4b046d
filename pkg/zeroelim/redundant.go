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
	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/tensor"
)

// RemoveRedundantInequalities prunes conditions which are already implied
// by a set of known facts: any comparison structurally equal to a known
// atom collapses to true.  Select and if_then_else conditions enrich the
// known set for their true branch; reductions enrich it with their axis
// bounds.
func RemoveRedundantInequalities(e ir.Expr, known []ir.Expr) ir.Expr {
	return newRedundancyPruner(known).mutate(e)
}

type redundancyPruner struct {
	known []ir.Expr
}

func newRedundancyPruner(known []ir.Expr) *redundancyPruner {
	simplified := make([]ir.Expr, len(known))
	for i, cond := range known {
		simplified[i] = simplify(cond, nil)
	}
	//
	return &redundancyPruner{simplified}
}

// withAtoms extends the known set with the atomic conjuncts of a
// condition.
func (p *redundancyPruner) withAtoms(cond ir.Expr) *redundancyPruner {
	atoms := FactorOutAtomicFormulas(cond).AtomicFormulas
	return &redundancyPruner{Concat(p.known, atoms)}
}

func (p *redundancyPruner) mutate(e ir.Expr) ir.Expr {
	switch x := e.(type) {
	case *ir.Cmp:
		return p.mutateAtomic(e)
	case *ir.And:
		return ir.Conj(p.mutate(x.A), p.mutate(x.B))
	case *ir.Select:
		newCond := simplify(p.mutate(x.Cond), nil)
		//
		if ir.IsTrue(newCond) {
			return p.mutate(x.TrueValue)
		} else if ir.IsFalse(newCond) {
			return p.mutate(x.FalseValue)
		}
		// Only the true branch learns the condition.  The false branch
		// would need the negation, which is a known limitation kept as-is
		// to avoid unsound inferences should conditions ever carry
		// effects.
		return ir.NewSelect(newCond,
			p.withAtoms(newCond).mutate(x.TrueValue),
			p.mutate(x.FalseValue))
	case *ir.Call:
		if x.IsIntrinsic(ir.IfThenElseIntrinsic) {
			newCond := simplify(p.mutate(x.Args[0]), nil)
			//
			if ir.IsTrue(newCond) {
				return p.mutate(x.Args[1])
			} else if ir.IsFalse(newCond) {
				return p.mutate(x.Args[2])
			}
			//
			return ir.IfThenElse(newCond,
				p.withAtoms(newCond).mutate(x.Args[1]),
				p.mutate(x.Args[2]))
		}
		//
		return ir.MapChildren(e, p.mutate)
	case *ir.Reduce:
		// Within the reduction, the axis bounds are known facts
		withAxes := &redundancyPruner{
			Concat(p.known, tensor.IterVarsToInequalities(x.Axis))}
		//
		newCond := withAxes.mutate(x.Condition)
		inner := withAxes.withAtoms(newCond)
		//
		source := make([]ir.Expr, len(x.Source))
		for i, src := range x.Source {
			source[i] = inner.mutate(src)
		}
		//
		return ir.NewReduce(x.Combiner, source, x.Axis, newCond, x.ValueIndex)
	default:
		return ir.MapChildren(e, p.mutate)
	}
}

func (p *redundancyPruner) mutateAtomic(e ir.Expr) ir.Expr {
	simplified := simplify(e, nil)
	//
	for _, other := range p.known {
		if ir.DeepEqual(simplified, other) {
			return ir.True()
		}
	}
	//
	return simplified
}
