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

// ExtractAsTensorMaybe materialises an expression guarded by a condition as
// a fresh tensor over the simplified domain of that condition, unless the
// volume of the new domain is provably at least that of the outer axis, in
// which case the expression is returned as-is (possibly simplified).  When
// neither outcome is provable, extraction fires.
func ExtractAsTensorMaybe(e ir.Expr, cond ir.Expr, outerAxis []*ir.Var,
	vranges map[*ir.Var]ir.Range) ir.Expr {
	domain := NewDomain(outerAxis, FactorOutAtomicFormulas(cond).ToArray(), vranges)
	//
	res := SimplifyDomain(domain, true)
	//
	newExpr := simplify(ir.Substitute(e, res.OldToNew), res.NewDomain.Ranges)
	// The domain conditions often render inner guards redundant; this also
	// folds if_then_else whose condition is among them, which plain
	// simplification only does for constant conditions.
	newExpr = RemoveRedundantInequalities(newExpr, res.NewDomain.Conditions)
	// Keep only the new variables the expression actually uses
	var usedVars []*ir.Var
	//
	for _, v := range res.NewDomain.Variables {
		if ir.UsesVar(newExpr, v) {
			usedVars = append(usedVars, v)
		}
	}
	// An expression free of the new domain's variables is better kept
	// inline.  Note the new expression (not the old one) is returned; it
	// mentions no new variable, so it needs no remapping.
	if len(usedVars) == 0 {
		return newExpr
	}
	// Extracting something that is already a tensor access gains nothing
	if call, ok := newExpr.(*ir.Call); ok && call.Func != nil {
		return e
	}
	// Compare the iteration volumes before and after
	oldVolume := ir.Expr(ir.Int64(1))
	for _, v := range outerAxis {
		oldVolume = ir.Mul(oldVolume, ir.NewCast(ir.Int64Type(), vranges[v].Extent))
	}
	//
	newVolume := ir.Expr(ir.Int64(1))
	for _, v := range usedVars {
		newVolume = ir.Mul(newVolume, ir.NewCast(ir.Int64Type(), res.NewDomain.Ranges[v].Extent))
	}
	// Extraction is skipped only when the volume provably does not shrink
	if canProve(ir.LE(oldVolume, newVolume), vranges) {
		return e
	}
	//
	t := tensor.FromExpr(newExpr,
		tensor.IterVarsFromMap(usedVars, res.NewDomain.Ranges), "extracted_tensor")
	//
	args := make([]ir.Expr, len(usedVars))
	for i, v := range usedVars {
		args[i] = res.NewToOld[v]
	}
	//
	return tensor.Access(t, args...)
}

// reductionExtractor pulls reductions out of an expression, materialising
// each as a tensor over the outer variables it actually uses.
type reductionExtractor struct {
	outerAxis []*ir.Var
	vranges   map[*ir.Var]ir.Range
	name      string
}

func (p *reductionExtractor) mutate(e ir.Expr) ir.Expr {
	red, ok := e.(*ir.Reduce)
	if !ok {
		return ir.MapChildren(e, p.mutate)
	}
	// Sources may contain reductions of their own; those are extracted
	// against the enlarged axis first.
	inner := &reductionExtractor{
		Concat(tensor.IterVarsToVars(red.Axis), p.outerAxis),
		Merge(p.vranges, tensor.IterVarsToMap(red.Axis)),
		p.name,
	}
	//
	source := make([]ir.Expr, len(red.Source))
	for i, src := range red.Source {
		source[i] = inner.mutate(src)
	}
	//
	newReduce := ir.NewReduce(red.Combiner, source, red.Axis, red.Condition, red.ValueIndex)
	// The tensor is indexed by the outer variables the reduction mentions
	free := ir.VarMask(ir.FreeVars(newReduce)...)
	//
	var vars []*ir.Var
	//
	for _, v := range p.outerAxis {
		if free.Test(v.ID) {
			vars = append(vars, v)
		}
	}
	//
	newAxis, sub := tensor.CloneIterVars(tensor.IterVarsFromMap(vars, p.vranges))
	newReduce = simplify(ir.Substitute(newReduce, sub), tensor.IterVarsToMap(newAxis))
	//
	t := tensor.FromExpr(newReduce, newAxis, p.name)
	//
	args := make([]ir.Expr, len(vars))
	for i, v := range vars {
		args[i] = v
	}
	//
	return tensor.Access(t, args...)
}

// ExtractReductions materialises every reduction within an expression as a
// separate tensor.
func ExtractReductions(e ir.Expr, outerAxis []*ir.Var,
	vranges map[*ir.Var]ir.Range) ir.Expr {
	extractor := &reductionExtractor{outerAxis, vranges, "extracted_reduction"}
	return extractor.mutate(e)
}

// ExtractNonTopReductions materialises every reduction except a top-level
// one, which is allowed to stay in place.
func ExtractNonTopReductions(e ir.Expr, outerAxis []*ir.Var,
	vranges map[*ir.Var]ir.Range) ir.Expr {
	red, ok := e.(*ir.Reduce)
	if !ok {
		return ExtractReductions(e, outerAxis, vranges)
	}
	//
	newOuterAxis := Concat(tensor.IterVarsToVars(red.Axis), outerAxis)
	newVranges := Merge(vranges, tensor.IterVarsToMap(red.Axis))
	//
	source := make([]ir.Expr, len(red.Source))
	for i, src := range red.Source {
		source[i] = ExtractReductions(src, newOuterAxis, newVranges)
	}
	//
	condition := ExtractReductions(red.Condition, newOuterAxis, newVranges)
	//
	return ir.NewReduce(red.Combiner, source, red.Axis, condition, red.ValueIndex)
}
