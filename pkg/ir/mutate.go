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

import "fmt"

// Children returns the direct subexpressions of a node, in evaluation
// order.  Leaves return nil.  For reductions this includes the axis bounds,
// the condition and the sources.
func Children(e Expr) []Expr {
	switch x := e.(type) {
	case *IntImm, *FloatImm, *StringImm, *Var:
		return nil
	case *BinOp:
		return []Expr{x.A, x.B}
	case *Cmp:
		return []Expr{x.A, x.B}
	case *And:
		return []Expr{x.A, x.B}
	case *Or:
		return []Expr{x.A, x.B}
	case *Not:
		return []Expr{x.A}
	case *Select:
		return []Expr{x.Cond, x.TrueValue, x.FalseValue}
	case *Cast:
		return []Expr{x.Value}
	case *Let:
		return []Expr{x.Value, x.Body}
	case *Call:
		return x.Args
	case *Reduce:
		var children []Expr
		//
		for _, iv := range x.Axis {
			children = append(children, iv.Dom.Min, iv.Dom.Extent)
		}
		//
		children = append(children, x.Condition)
		children = append(children, x.Source...)
		//
		return children
	default:
		panic(fmt.Sprintf("unknown expression node %T", e))
	}
}

// MapChildren rebuilds a node with a function applied to each direct child.
// The original node is returned unchanged when no child changes, preserving
// sharing.  This is the traversal primitive every rewriting pass is built
// from.
func MapChildren(e Expr, f func(Expr) Expr) Expr {
	switch x := e.(type) {
	case *IntImm, *FloatImm, *StringImm, *Var:
		return e
	case *BinOp:
		a, b := f(x.A), f(x.B)
		if a == x.A && b == x.B {
			return e
		}
		//
		return &BinOp{x.Op, a, b}
	case *Cmp:
		a, b := f(x.A), f(x.B)
		if a == x.A && b == x.B {
			return e
		}
		//
		return &Cmp{x.Op, a, b}
	case *And:
		a, b := f(x.A), f(x.B)
		if a == x.A && b == x.B {
			return e
		}
		//
		return &And{a, b}
	case *Or:
		a, b := f(x.A), f(x.B)
		if a == x.A && b == x.B {
			return e
		}
		//
		return &Or{a, b}
	case *Not:
		if a := f(x.A); a != x.A {
			return &Not{a}
		}
		//
		return e
	case *Select:
		c, t, fv := f(x.Cond), f(x.TrueValue), f(x.FalseValue)
		if c == x.Cond && t == x.TrueValue && fv == x.FalseValue {
			return e
		}
		//
		return &Select{c, t, fv}
	case *Cast:
		if v := f(x.Value); v != x.Value {
			return &Cast{x.T, v}
		}
		//
		return e
	case *Let:
		v, b := f(x.Value), f(x.Body)
		if v == x.Value && b == x.Body {
			return e
		}
		//
		return &Let{x.Var, v, b}
	case *Call:
		args, changed := mapExprs(x.Args, f)
		if !changed {
			return e
		}
		//
		return &Call{x.T, x.Name, args, x.Func, x.ValueIndex}
	case *Reduce:
		var (
			axis        = make([]*IterVar, len(x.Axis))
			axisChanged = false
		)
		//
		for i, iv := range x.Axis {
			min, extent := f(iv.Dom.Min), f(iv.Dom.Extent)
			if min != iv.Dom.Min || extent != iv.Dom.Extent {
				axis[i] = &IterVar{iv.Var, Range{min, extent}}
				axisChanged = true
			} else {
				axis[i] = iv
			}
		}
		//
		cond := f(x.Condition)
		source, srcChanged := mapExprs(x.Source, f)
		//
		if !axisChanged && cond == x.Condition && !srcChanged {
			return e
		}
		//
		return &Reduce{x.Combiner, source, axis, cond, x.ValueIndex}
	default:
		panic(fmt.Sprintf("unknown expression node %T", e))
	}
}

func mapExprs(es []Expr, f func(Expr) Expr) ([]Expr, bool) {
	var (
		res     = make([]Expr, len(es))
		changed = false
	)
	//
	for i, e := range es {
		res[i] = f(e)
		changed = changed || res[i] != e
	}
	//
	if !changed {
		return es, false
	}
	//
	return res, true
}
