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
	"github.com/loom-lang/loom/pkg/ir"
)

// InlineThisCall replaces a tensor-element access by the defining body of
// its compute operation, with the axis variables substituted by the call
// arguments.  Anything other than a compute access is returned unchanged.
// Inlined reductions are cloned so that axis variables stay unique.
func InlineThisCall(e ir.Expr) ir.Expr {
	call, ok := e.(*ir.Call)
	if !ok {
		return e
	}
	//
	op, ok := call.Func.(*ComputeOp)
	if !ok {
		return e
	}
	//
	sub := make(map[*ir.Var]ir.Expr, len(op.Axis))
	for i, iv := range op.Axis {
		sub[iv.Var] = call.Args[i]
	}
	//
	return CloneReduction(ir.Substitute(op.Body[call.ValueIndex], sub))
}

// InlineTailCall inlines the topmost call of each body of a tensor.
func InlineTailCall(t *Tensor) *Tensor {
	return TransformBody(t, func(e ir.Expr, _ []*ir.IterVar) ir.Expr {
		return InlineThisCall(e)
	})
}

// inliner performs recursive inlining of tensor accesses within an
// expression.
type inliner struct {
	// inlineable restricts which operations may be inlined; empty means
	// any compute operation.
	inlineable map[opOutput]bool
	// inlineReductions permits inlining of bodies which are reductions.
	inlineReductions bool
}

type opOutput struct {
	op         Operation
	valueIndex int
}

func (p *inliner) mutate(e ir.Expr) ir.Expr {
	if call, ok := e.(*ir.Call); ok {
		if op, ok := call.Func.(*ComputeOp); ok {
			if len(p.inlineable) == 0 || p.inlineable[opOutput{op, call.ValueIndex}] {
				_, isReduction := op.Body[call.ValueIndex].(*ir.Reduce)
				//
				if p.inlineReductions || !isReduction {
					// Inline this call, then keep inlining inside the result
					return p.mutate(InlineThisCall(e))
				}
			}
		}
	}
	//
	return ir.MapChildren(e, p.mutate)
}

// InlineTensors inlines accesses to the given tensors (or to every compute
// tensor, if none are given) everywhere within an expression.  Reduction
// bodies are only inlined when allowed, since duplicating a reduction
// changes the cost model.
func InlineTensors(e ir.Expr, inlineable []*Tensor, inlineReductions bool) ir.Expr {
	return newInliner(inlineable, inlineReductions).mutate(e)
}

// InlineTensorsInBody applies InlineTensors to every body of a tensor.
func InlineTensorsInBody(t *Tensor, inlineable []*Tensor, inlineReductions bool) *Tensor {
	inl := newInliner(inlineable, inlineReductions)
	//
	return TransformBody(t, func(e ir.Expr, _ []*ir.IterVar) ir.Expr {
		return inl.mutate(e)
	})
}

func newInliner(inlineable []*Tensor, inlineReductions bool) *inliner {
	set := make(map[opOutput]bool, len(inlineable))
	for _, t := range inlineable {
		set[opOutput{t.Op, t.ValueIndex}] = true
	}
	//
	return &inliner{set, inlineReductions}
}
