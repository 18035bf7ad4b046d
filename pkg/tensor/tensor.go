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

// Package tensor provides the tensor layer above the expression IR: compute
// operations defined by a body expression per output, placeholder inputs,
// and inlining of tensor accesses.
package tensor

import (
	"fmt"

	"github.com/loom-lang/loom/pkg/ir"
)

// Operation produces one or more tensor outputs.  It implements ir.Callee
// so that expressions can reference its elements.
type Operation interface {
	ir.Callee
	// NumOutputs returns how many tensors this operation produces.
	NumOutputs() int
}

// ComputeOp defines its outputs pointwise by a body expression over an
// iteration axis.
type ComputeOp struct {
	Name string
	Axis []*ir.IterVar
	Body []ir.Expr
}

// CalleeName implementation for the ir.Callee interface.
func (p *ComputeOp) CalleeName() string { return p.Name }

// NumOutputs implementation for the Operation interface.
func (p *ComputeOp) NumOutputs() int { return len(p.Body) }

// PlaceholderOp is an input tensor: a shape and element type with no
// defining body.
type PlaceholderOp struct {
	Name  string
	Shape []ir.Expr
	T     ir.Type
}

// CalleeName implementation for the ir.Callee interface.
func (p *PlaceholderOp) CalleeName() string { return p.Name }

// NumOutputs implementation for the Operation interface.
func (p *PlaceholderOp) NumOutputs() int { return 1 }

// Tensor is one output of an operation.
type Tensor struct {
	Op         Operation
	ValueIndex int
}

// ElemType returns the scalar type of this tensor's elements.
func (p *Tensor) ElemType() ir.Type {
	switch op := p.Op.(type) {
	case *ComputeOp:
		return op.Body[p.ValueIndex].Type()
	case *PlaceholderOp:
		return op.T
	default:
		panic(fmt.Sprintf("unknown operation %T", p.Op))
	}
}

func (p *Tensor) String() string {
	return fmt.Sprintf("%s.v%d", p.Op.CalleeName(), p.ValueIndex)
}

// FromExpr creates a tensor defined pointwise by a given expression over a
// given axis.
func FromExpr(e ir.Expr, axis []*ir.IterVar, name string) *Tensor {
	op := &ComputeOp{name, axis, []ir.Expr{e}}
	return &Tensor{op, 0}
}

// Placeholder creates an input tensor of a given shape and element type.
func Placeholder(name string, shape []ir.Expr, t ir.Type) *Tensor {
	return &Tensor{&PlaceholderOp{name, shape, t}, 0}
}

// Access builds the expression reading one element of a tensor.
func Access(t *Tensor, args ...ir.Expr) ir.Expr {
	return &ir.Call{
		T:          t.ElemType(),
		Name:       t.Op.CalleeName(),
		Args:       args,
		Func:       t.Op,
		ValueIndex: t.ValueIndex,
	}
}

// TransformBody rebuilds a compute tensor with a function applied to its
// body.  The function receives the body expression and the axis it ranges
// over.  Placeholders are returned unchanged.
func TransformBody(t *Tensor, f func(ir.Expr, []*ir.IterVar) ir.Expr) *Tensor {
	op, ok := t.Op.(*ComputeOp)
	if !ok {
		return t
	}
	//
	body := make([]ir.Expr, len(op.Body))
	changed := false
	//
	for i, b := range op.Body {
		body[i] = f(b, op.Axis)
		changed = changed || body[i] != b
	}
	//
	if !changed {
		return t
	}
	//
	return &Tensor{&ComputeOp{op.Name, op.Axis, body}, t.ValueIndex}
}
