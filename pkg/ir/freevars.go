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
package ir

import (
	"github.com/bits-and-blooms/bitset"
)

// FreeVars returns the variables occurring free in an expression, in order
// of first occurrence and without duplicates.  Variables bound by Let or by
// a reduction axis are masked for the extent of their scope.
func FreeVars(e Expr) []*Var {
	var (
		free  []*Var
		seen  = bitset.New(64)
		bound = bitset.New(64)
	)
	//
	collectFreeVars(e, bound, seen, &free)
	//
	return free
}

func collectFreeVars(e Expr, bound *bitset.BitSet, seen *bitset.BitSet, free *[]*Var) {
	switch x := e.(type) {
	case *Var:
		if !bound.Test(x.ID) && !seen.Test(x.ID) {
			seen.Set(x.ID)
			*free = append(*free, x)
		}
	case *Let:
		collectFreeVars(x.Value, bound, seen, free)
		// Mask the binder within the body only
		wasBound := bound.Test(x.Var.ID)
		bound.Set(x.Var.ID)
		collectFreeVars(x.Body, bound, seen, free)
		//
		if !wasBound {
			bound.Clear(x.Var.ID)
		}
	case *Reduce:
		var fresh []uint
		// Mask all axis variables
		for _, iv := range x.Axis {
			if !bound.Test(iv.Var.ID) {
				bound.Set(iv.Var.ID)
				fresh = append(fresh, iv.Var.ID)
			}
		}
		// Axis bounds may mention outer variables
		for _, iv := range x.Axis {
			collectFreeVars(iv.Dom.Min, bound, seen, free)
			collectFreeVars(iv.Dom.Extent, bound, seen, free)
		}
		//
		collectFreeVars(x.Condition, bound, seen, free)
		//
		for _, src := range x.Source {
			collectFreeVars(src, bound, seen, free)
		}
		//
		for _, id := range fresh {
			bound.Clear(id)
		}
	default:
		for _, child := range Children(e) {
			collectFreeVars(child, bound, seen, free)
		}
	}
}

// UsesVar checks whether a variable occurs anywhere in an expression.
// Binders are not honoured here: the engine only ever asks about variables
// which are never shadowed.
func UsesVar(e Expr, v *Var) bool {
	mask := bitset.New(v.ID + 1)
	mask.Set(v.ID)
	//
	return UsesAnyVar(e, mask)
}

// UsesAnyVar checks whether any variable from a given identity mask occurs
// in an expression.
func UsesAnyVar(e Expr, mask *bitset.BitSet) bool {
	if x, ok := e.(*Var); ok {
		return mask.Test(x.ID)
	}
	//
	for _, child := range Children(e) {
		if UsesAnyVar(child, mask) {
			return true
		}
	}
	//
	return false
}

// VarMask builds the identity mask of a sequence of variables, for use with
// UsesAnyVar.
func VarMask(vars ...*Var) *bitset.BitSet {
	mask := bitset.New(64)
	for _, v := range vars {
		mask.Set(v.ID)
	}
	//
	return mask
}
