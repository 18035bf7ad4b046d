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
package arith

import (
	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/math"
)

// EvalInterval computes an interval overapproximating the values an integer
// expression can take, given intervals for (some of) its free variables.
// Unknown variables and uninterpreted subexpressions evaluate to the
// infinite interval.
func EvalInterval(e ir.Expr, ivs map[*ir.Var]math.Interval) math.Interval {
	switch x := e.(type) {
	case *ir.IntImm:
		return math.Point(x.Value)
	case *ir.Var:
		if iv, ok := ivs[x]; ok {
			return iv
		}
		//
		return math.INFINITY
	case *ir.BinOp:
		return evalBinOpInterval(x, ivs)
	case *ir.Cmp, *ir.And, *ir.Or, *ir.Not:
		return math.NewInterval64(0, 1)
	case *ir.Select:
		t := EvalInterval(x.TrueValue, ivs)
		f := EvalInterval(x.FalseValue, ivs)
		//
		return t.Union(f)
	case *ir.Cast:
		return EvalInterval(x.Value, ivs)
	case *ir.Let:
		// Approximate the binder by the interval of its definition
		inner := make(map[*ir.Var]math.Interval, len(ivs)+1)
		for k, v := range ivs {
			inner[k] = v
		}
		//
		inner[x.Var] = EvalInterval(x.Value, ivs)
		//
		return EvalInterval(x.Body, inner)
	case *ir.Call:
		if x.IsIntrinsic(ir.IfThenElseIntrinsic) {
			t := EvalInterval(x.Args[1], ivs)
			f := EvalInterval(x.Args[2], ivs)
			//
			return t.Union(f)
		}
		//
		return math.INFINITY
	default:
		return math.INFINITY
	}
}

func evalBinOpInterval(x *ir.BinOp, ivs map[*ir.Var]math.Interval) math.Interval {
	a := EvalInterval(x.A, ivs)
	b := EvalInterval(x.B, ivs)
	//
	switch x.Op {
	case ir.OpAdd:
		return a.Add(b)
	case ir.OpSub:
		return a.Sub(b)
	case ir.OpMul:
		return a.Mul(b)
	case ir.OpMin:
		return a.MinOf(b)
	case ir.OpMax:
		return a.MaxOf(b)
	default:
		// Division requires a constant non-zero divisor
		div, ok := ir.ConstInt(x.B)
		if !ok || div == 0 {
			return math.INFINITY
		}
		//
		switch x.Op {
		case ir.OpDiv:
			return a.DivTrunc(div)
		case ir.OpMod:
			return a.ModTrunc(div)
		case ir.OpFloorDiv:
			return a.DivFloor(div)
		default:
			return a.ModFloor(div)
		}
	}
}

// IntervalsOf evaluates a variable-range map into a variable-interval map.
// Range bounds may refer to other ranged variables, hence evaluation runs
// two rounds so that dependent bounds see their dependencies resolved.
func IntervalsOf(vranges map[*ir.Var]ir.Range) map[*ir.Var]math.Interval {
	ivs := make(map[*ir.Var]math.Interval, len(vranges))
	//
	for round := 0; round < 2; round++ {
		for _, entry := range ir.SortVarMap(vranges) {
			min := EvalInterval(entry.Value.Min, ivs)
			ext := EvalInterval(entry.Value.Extent, ivs)
			// upper = min + extent - 1
			upper := min.Add(ext).Sub(math.Point(1))
			//
			ivs[entry.Var] = math.NewInterval(min.Min(), upper.Max())
		}
	}
	//
	return ivs
}

// RangeOf infers a constant range for an expression under a variable-range
// context, or reports that its bounds cannot be inferred.
func RangeOf(e ir.Expr, vranges map[*ir.Var]ir.Range) (ir.Range, bool) {
	iv := EvalInterval(e, IntervalsOf(vranges))
	if !iv.IsFinite() {
		return ir.Range{}, false
	}
	//
	var (
		min    = iv.Min()
		max    = iv.Max()
		t      = e.Type()
		extent = max.Sub(min)
	)
	//
	one := math.NewInfInt(1)
	extent = extent.Add(one)
	//
	return ir.NewRange(ir.Const(t, min.Int64()), ir.Const(t, extent.Int64())), true
}
