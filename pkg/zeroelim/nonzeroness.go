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
)

// NonzeronessConditionResult decomposes an expression into a guard and a
// value such that the original is equivalent to `select(Cond, Value, 0)`.
type NonzeronessConditionResult struct {
	Cond  ir.Expr
	Value ir.Expr
}

// ToExpr reassembles the guarded expression.
func (p NonzeronessConditionResult) ToExpr() ir.Expr {
	return SelectElseZero(p.Cond, p.Value)
}

func (p NonzeronessConditionResult) String() string {
	return p.ToExpr().String()
}

// NonzeronessCondition computes the condition under which an expression may
// be nonzero, together with the expression it equals when the condition
// holds.  Wherever the condition is false, the expression is guaranteed to
// evaluate to zero.
func NonzeronessCondition(e ir.Expr) NonzeronessConditionResult {
	// Boolean expressions are non-zero whenever they are true themselves
	if e.Type().IsBool() {
		return NonzeronessConditionResult{e, ir.True()}
	}
	//
	switch x := e.(type) {
	case *ir.IntImm:
		if x.Value == 0 {
			return NonzeronessConditionResult{ir.False(), e}
		}
		//
		return NonzeronessConditionResult{ir.True(), e}
	case *ir.FloatImm:
		if x.Value == 0 {
			return NonzeronessConditionResult{ir.False(), e}
		}
		//
		return NonzeronessConditionResult{ir.True(), e}
	case *ir.BinOp:
		switch x.Op {
		case ir.OpAdd, ir.OpSub, ir.OpMin, ir.OpMax:
			return nonzeroAddLike(x, e)
		case ir.OpMul:
			return nonzeroMulLike(x, e)
		default:
			return nonzeroDivLike(x, e)
		}
	case *ir.Cast:
		nzA := NonzeronessCondition(x.Value)
		//
		if nzA.Value == x.Value {
			return NonzeronessConditionResult{nzA.Cond, e}
		}
		//
		return NonzeronessConditionResult{nzA.Cond, ir.NewCast(x.T, nzA.Value)}
	case *ir.Select:
		return nonzeroSelect(x, e)
	case *ir.Call:
		if x.IsIntrinsic(ir.IfThenElseIntrinsic) {
			return nonzeroIfThenElse(x, e)
		}
		//
		return NonzeronessConditionResult{ir.True(), e}
	default:
		// Variables, strings, tensor accesses: may be anything
		return NonzeronessConditionResult{ir.True(), e}
	}
}

// LiftNonzeronessCondition rewrites an expression into the canonical
// `select(cond, value, 0)` form.
func LiftNonzeronessCondition(e ir.Expr) ir.Expr {
	return NonzeronessCondition(e).ToExpr()
}

// nonzeroAddLike covers operators whose result may be nonzero whenever
// either argument is, so the conditions combine with Or.
func nonzeroAddLike(x *ir.BinOp, e ir.Expr) NonzeronessConditionResult {
	nzA := NonzeronessCondition(x.A)
	nzB := NonzeronessCondition(x.B)
	// If the conditions coincide there is no need for Or
	if ir.DeepEqual(nzA.Cond, nzB.Cond) {
		if nzA.Value == x.A && nzB.Value == x.B {
			return NonzeronessConditionResult{nzA.Cond, e}
		}
		//
		return NonzeronessConditionResult{nzA.Cond, &ir.BinOp{Op: x.Op, A: nzA.Value, B: nzB.Value}}
	}
	//
	newCond := simplify(ir.Disj(nzA.Cond, nzB.Cond), nil)
	// When the combined condition matches one side's own condition, that
	// side needs no guard of its own; the other side keeps its select.
	newA := nzA.Value
	if !ir.DeepEqual(nzA.Cond, newCond) {
		newA = nzA.ToExpr()
	}
	//
	newB := nzB.Value
	if !ir.DeepEqual(nzB.Cond, newCond) {
		newB = nzB.ToExpr()
	}
	//
	return NonzeronessConditionResult{newCond, &ir.BinOp{Op: x.Op, A: newA, B: newB}}
}

// nonzeroMulLike covers operators whose result can only be nonzero when
// both arguments are, so the conditions combine with And.
func nonzeroMulLike(x *ir.BinOp, e ir.Expr) NonzeronessConditionResult {
	nzA := NonzeronessCondition(x.A)
	nzB := NonzeronessCondition(x.B)
	//
	newCond := simplify(ir.Conj(nzA.Cond, nzB.Cond), nil)
	//
	if nzA.Value == x.A && nzB.Value == x.B {
		return NonzeronessConditionResult{newCond, e}
	}
	//
	return NonzeronessConditionResult{newCond, &ir.BinOp{Op: x.Op, A: nzA.Value, B: nzB.Value}}
}

// nonzeroDivLike covers quotients and remainders, which are zero whenever
// the numerator is.  The denominator is preserved untouched.
func nonzeroDivLike(x *ir.BinOp, e ir.Expr) NonzeronessConditionResult {
	nzA := NonzeronessCondition(x.A)
	//
	if nzA.Value == x.A {
		return NonzeronessConditionResult{nzA.Cond, e}
	}
	//
	return NonzeronessConditionResult{nzA.Cond, &ir.BinOp{Op: x.Op, A: nzA.Value, B: x.B}}
}

func nonzeroSelect(x *ir.Select, e ir.Expr) NonzeronessConditionResult {
	nzA := NonzeronessCondition(x.TrueValue)
	nzB := NonzeronessCondition(x.FalseValue)
	// If the false part is zero we can get rid of the select
	if ir.IsConstZero(nzB.Value) {
		newCond := simplify(ir.Conj(nzA.Cond, x.Cond), nil)
		return NonzeronessConditionResult{newCond, nzA.Value}
	}
	// If the true part is zero we can also get rid of the select
	if ir.IsConstZero(nzA.Value) {
		newCond := simplify(ir.Conj(nzB.Cond, ir.Negation(x.Cond)), nil)
		return NonzeronessConditionResult{newCond, nzB.Value}
	}
	// Otherwise retain the select and combine the conditions
	newCond := simplify(
		ir.Disj(ir.Conj(x.Cond, nzA.Cond), ir.Conj(ir.Negation(x.Cond), nzB.Cond)), nil)
	//
	if nzA.Value == x.TrueValue && nzB.Value == x.FalseValue {
		return NonzeronessConditionResult{newCond, e}
	}
	//
	return NonzeronessConditionResult{newCond, ir.NewSelect(x.Cond, nzA.Value, nzB.Value)}
}

// nonzeroIfThenElse mirrors nonzeroSelect, except that the call must be
// preserved whatever happens, so neither branch can collapse away.
func nonzeroIfThenElse(x *ir.Call, e ir.Expr) NonzeronessConditionResult {
	cond, trueVal, falseVal := x.Args[0], x.Args[1], x.Args[2]
	//
	nzA := NonzeronessCondition(trueVal)
	nzB := NonzeronessCondition(falseVal)
	//
	newCond := simplify(
		ir.Disj(ir.Conj(cond, nzA.Cond), ir.Conj(ir.Negation(cond), nzB.Cond)), nil)
	//
	if nzA.Value == trueVal && nzB.Value == falseVal {
		return NonzeronessConditionResult{newCond, e}
	}
	//
	return NonzeronessConditionResult{newCond, ir.IfThenElse(cond, nzA.Value, nzB.Value)}
}
