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
	"cmp"
	"fmt"
	"strings"
)

// DeepCompare imposes a total order on expressions: first by node kind, then
// by node fields, then lexicographically by children.  Every sorted
// container of expressions in the engine is ordered this way, which is what
// makes iteration deterministic.
func DeepCompare(a Expr, b Expr) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	//
	switch x := a.(type) {
	case *IntImm:
		y := b.(*IntImm)
		if c := x.T.cmp(y.T); c != 0 {
			return c
		}
		//
		return cmp.Compare(x.Value, y.Value)
	case *FloatImm:
		y := b.(*FloatImm)
		if c := x.T.cmp(y.T); c != 0 {
			return c
		}
		//
		return cmp.Compare(x.Value, y.Value)
	case *StringImm:
		return strings.Compare(x.Value, b.(*StringImm).Value)
	case *Var:
		y := b.(*Var)
		if c := strings.Compare(x.Name, y.Name); c != 0 {
			return c
		}
		//
		return cmp.Compare(x.ID, y.ID)
	case *BinOp:
		y := b.(*BinOp)
		if x.Op != y.Op {
			return cmp.Compare(x.Op, y.Op)
		}
		//
		return compareChildren([]Expr{x.A, x.B}, []Expr{y.A, y.B})
	case *Cmp:
		y := b.(*Cmp)
		if x.Op != y.Op {
			return cmp.Compare(x.Op, y.Op)
		}
		//
		return compareChildren([]Expr{x.A, x.B}, []Expr{y.A, y.B})
	case *And:
		y := b.(*And)
		return compareChildren([]Expr{x.A, x.B}, []Expr{y.A, y.B})
	case *Or:
		y := b.(*Or)
		return compareChildren([]Expr{x.A, x.B}, []Expr{y.A, y.B})
	case *Not:
		return DeepCompare(x.A, b.(*Not).A)
	case *Select:
		y := b.(*Select)
		return compareChildren(
			[]Expr{x.Cond, x.TrueValue, x.FalseValue},
			[]Expr{y.Cond, y.TrueValue, y.FalseValue})
	case *Cast:
		y := b.(*Cast)
		if c := x.T.cmp(y.T); c != 0 {
			return c
		}
		//
		return DeepCompare(x.Value, y.Value)
	case *Let:
		y := b.(*Let)
		if c := DeepCompare(x.Var, y.Var); c != 0 {
			return c
		}
		//
		return compareChildren([]Expr{x.Value, x.Body}, []Expr{y.Value, y.Body})
	case *Call:
		y := b.(*Call)
		if c := strings.Compare(x.Name, y.Name); c != 0 {
			return c
		}
		//
		if c := compareCallees(x.Func, y.Func); c != 0 {
			return c
		}
		//
		if x.ValueIndex != y.ValueIndex {
			return cmp.Compare(x.ValueIndex, y.ValueIndex)
		}
		//
		return compareChildren(x.Args, y.Args)
	case *Reduce:
		y := b.(*Reduce)
		if x.ValueIndex != y.ValueIndex {
			return cmp.Compare(x.ValueIndex, y.ValueIndex)
		}
		//
		if c := compareAxes(x.Axis, y.Axis); c != 0 {
			return c
		}
		//
		if c := DeepCompare(x.Condition, y.Condition); c != 0 {
			return c
		}
		//
		return compareChildren(x.Source, y.Source)
	default:
		panic(fmt.Sprintf("unknown expression node %T", a))
	}
}

// DeepEqual checks whether two expressions are structurally identical.
func DeepEqual(a Expr, b Expr) bool {
	return DeepCompare(a, b) == 0
}

// ExprItem wraps an expression for use in sorted containers keyed by
// DeepCompare.
type ExprItem struct {
	Expr Expr
}

// Cmp implementation for the set.Comparable interface.
func (p ExprItem) Cmp(o ExprItem) int {
	return DeepCompare(p.Expr, o.Expr)
}

func rank(e Expr) int {
	switch e.(type) {
	case *IntImm:
		return 0
	case *FloatImm:
		return 1
	case *StringImm:
		return 2
	case *Var:
		return 3
	case *BinOp:
		return 4
	case *Cmp:
		return 5
	case *And:
		return 6
	case *Or:
		return 7
	case *Not:
		return 8
	case *Select:
		return 9
	case *Cast:
		return 10
	case *Let:
		return 11
	case *Call:
		return 12
	case *Reduce:
		return 13
	default:
		panic(fmt.Sprintf("unknown expression node %T", e))
	}
}

func compareChildren(as []Expr, bs []Expr) int {
	if len(as) != len(bs) {
		return cmp.Compare(len(as), len(bs))
	}
	//
	for i := range as {
		if c := DeepCompare(as[i], bs[i]); c != 0 {
			return c
		}
	}
	//
	return 0
}

func compareAxes(as []*IterVar, bs []*IterVar) int {
	if len(as) != len(bs) {
		return cmp.Compare(len(as), len(bs))
	}
	//
	for i := range as {
		if c := DeepCompare(as[i].Var, bs[i].Var); c != 0 {
			return c
		}
		//
		if c := DeepCompare(as[i].Dom.Min, bs[i].Dom.Min); c != 0 {
			return c
		}
		//
		if c := DeepCompare(as[i].Dom.Extent, bs[i].Dom.Extent); c != 0 {
			return c
		}
	}
	//
	return 0
}

func compareCallees(a Callee, b Callee) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return strings.Compare(a.CalleeName(), b.CalleeName())
	}
}
