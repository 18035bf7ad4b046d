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

// Range is a half-open integer interval [Min, Min+Extent) with Extent > 0.
type Range struct {
	Min    Expr
	Extent Expr
}

// NewRange constructs a range from its minimum and extent.
func NewRange(min Expr, extent Expr) Range {
	return Range{min, extent}
}

// ConstRange constructs a range with constant bounds.
func ConstRange(min int64, extent int64) Range {
	return Range{Int32(min), Int32(extent)}
}

func (r Range) String() string {
	return "[" + r.Min.String() + ", " + r.Min.String() + "+" + r.Extent.String() + ")"
}

// IterVar is an iteration variable together with its domain of iteration.
type IterVar struct {
	Var *Var
	Dom Range
}

// NewIterVar constructs an iteration variable over a given domain.
func NewIterVar(v *Var, dom Range) *IterVar {
	return &IterVar{v, dom}
}

// CommReducer describes a commutative-associative combiner: formal
// left/right arguments, the combining results, and the identity elements.
// All three slices have the same length (the number of values combined in
// lockstep).
type CommReducer struct {
	Lhs      []*Var
	Rhs      []*Var
	Result   []Expr
	Identity []Expr
}

// SumReducer constructs the canonical summation combiner for a given
// element type.
func SumReducer(t Type) *CommReducer {
	lhs := NewVar("x", t)
	rhs := NewVar("y", t)
	//
	return &CommReducer{
		Lhs:      []*Var{lhs},
		Rhs:      []*Var{rhs},
		Result:   []Expr{Add(lhs, rhs)},
		Identity: []Expr{Zero(t)},
	}
}

// Reduce folds the source expressions over the axis domain with a
// commutative combiner, restricted to points satisfying the condition.
type Reduce struct {
	Combiner  *CommReducer
	Source    []Expr
	Axis      []*IterVar
	Condition Expr
	// ValueIndex selects which of the combined values this expression
	// denotes.
	ValueIndex int
}

// Type implementation for the Expr interface.
func (p *Reduce) Type() Type { return p.Source[p.ValueIndex].Type() }

func (p *Reduce) isExpr() {}

// NewReduce constructs a reduction node.
func NewReduce(combiner *CommReducer, source []Expr, axis []*IterVar, cond Expr, valueIndex int) Expr {
	if cond == nil {
		cond = True()
	}
	//
	return &Reduce{combiner, source, axis, cond, valueIndex}
}

// Sum constructs a summation of an expression over a reduction axis.
func Sum(source Expr, axis []*IterVar) Expr {
	return NewReduce(SumReducer(source.Type()), []Expr{source}, axis, True(), 0)
}
