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
package tensor

import (
	"fmt"

	"github.com/loom-lang/loom/pkg/ir"
)

// IterVarsToInequalities converts an axis into the pair of inequalities
// bounding each of its variables.
func IterVarsToInequalities(axis []*ir.IterVar) []ir.Expr {
	var res []ir.Expr
	//
	for _, iv := range axis {
		res = append(res, ir.GE(iv.Var, iv.Dom.Min))
		res = append(res, ir.LT(iv.Var, ir.Add(iv.Dom.Min, iv.Dom.Extent)))
	}
	//
	return res
}

// IterVarsToMap converts an axis into a map from variables to their ranges.
func IterVarsToMap(axis []*ir.IterVar) map[*ir.Var]ir.Range {
	res := make(map[*ir.Var]ir.Range, len(axis))
	//
	for _, iv := range axis {
		res[iv.Var] = iv.Dom
	}
	//
	return res
}

// IterVarsToVars projects an axis onto its variables.
func IterVarsToVars(axis []*ir.IterVar) []*ir.Var {
	res := make([]*ir.Var, len(axis))
	//
	for i, iv := range axis {
		res[i] = iv.Var
	}
	//
	return res
}

// IterVarsFromMap builds an axis over the given variables, taking each
// variable's range from the map.  Every variable must have a range.
func IterVarsFromMap(vars []*ir.Var, vranges map[*ir.Var]ir.Range) []*ir.IterVar {
	res := make([]*ir.IterVar, len(vars))
	//
	for i, v := range vars {
		dom, ok := vranges[v]
		if !ok {
			panic(fmt.Sprintf("no range was provided for variable %s", v.Name))
		}
		//
		res[i] = ir.NewIterVar(v, dom)
	}
	//
	return res
}

// CloneIterVars makes fresh copies of the given iteration variables,
// returning the new axis together with the substitution from old variables
// to new.
func CloneIterVars(axis []*ir.IterVar) ([]*ir.IterVar, map[*ir.Var]ir.Expr) {
	var (
		res = make([]*ir.IterVar, len(axis))
		sub = make(map[*ir.Var]ir.Expr, len(axis))
	)
	//
	for i, iv := range axis {
		fresh := iv.Var.CopyWithSuffix("")
		res[i] = ir.NewIterVar(fresh, iv.Dom)
		sub[iv.Var] = fresh
	}
	//
	return res, sub
}

// CloneReduction renames the reduction axes of an expression so that no two
// reductions ever share iteration variables.  Non-reductions pass through.
func CloneReduction(e ir.Expr) ir.Expr {
	red, ok := e.(*ir.Reduce)
	if !ok {
		return e
	}
	//
	newAxis, sub := CloneIterVars(red.Axis)
	//
	source := make([]ir.Expr, len(red.Source))
	for i, src := range red.Source {
		source[i] = ir.Substitute(src, sub)
	}
	//
	return ir.NewReduce(red.Combiner, source, newAxis, ir.Substitute(red.Condition, sub), red.ValueIndex)
}
