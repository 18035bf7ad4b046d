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
	"errors"
	"fmt"
)

// Value is the result of concretely evaluating an expression.  Integer and
// boolean values live in Int; floating-point values live in Float.
type Value struct {
	T     Type
	Int   int64
	Float float64
}

// IntValue wraps a machine integer as an evaluation result.
func IntValue(t Type, v int64) Value { return Value{t, v, 0} }

// BoolValue wraps a boolean as an evaluation result.
func BoolValue(v bool) Value {
	if v {
		return Value{BoolType(), 1, 0}
	}
	//
	return Value{BoolType(), 0, 0}
}

// IsTrue reports whether this value is boolean truth.
func (v Value) IsTrue() bool { return v.Int != 0 }

func (v Value) String() string {
	if v.T.IsFloat() {
		return fmt.Sprintf("%g", v.Float)
	}
	//
	return fmt.Sprintf("%d", v.Int)
}

// TensorFunc resolves a tensor-element access during evaluation.
type TensorFunc func(call *Call, args []Value) (Value, error)

// Env supplies variable bindings and tensor elements to the evaluator.
type Env struct {
	Vars map[*Var]Value
	// Tensors resolves calls which reference an operation; nil makes any
	// such call an evaluation error.
	Tensors TensorFunc
}

// Bind returns a copy of this environment with one extra variable binding.
func (env Env) Bind(v *Var, val Value) Env {
	vars := make(map[*Var]Value, len(env.Vars)+1)
	for k, kv := range env.Vars {
		vars[k] = kv
	}
	//
	vars[v] = val
	//
	return Env{vars, env.Tensors}
}

// Eval computes the concrete value of an expression under an environment.
// The evaluator is the reference semantics of the IR: the test suite uses
// it to check that rewrites preserve denotation.
func Eval(e Expr, env Env) (Value, error) {
	switch x := e.(type) {
	case *IntImm:
		return IntValue(x.T, x.Value), nil
	case *FloatImm:
		return Value{x.T, 0, x.Value}, nil
	case *StringImm:
		return Value{}, errors.New("cannot evaluate a string immediate")
	case *Var:
		if val, ok := env.Vars[x]; ok {
			return val, nil
		}
		//
		return Value{}, fmt.Errorf("unbound variable %s", x.Name)
	case *BinOp:
		return evalBinOp(x, env)
	case *Cmp:
		return evalCmp(x, env)
	case *And:
		a, err := Eval(x.A, env)
		if err != nil {
			return Value{}, err
		}
		//
		if !a.IsTrue() {
			return BoolValue(false), nil
		}
		//
		return Eval(x.B, env)
	case *Or:
		a, err := Eval(x.A, env)
		if err != nil {
			return Value{}, err
		}
		//
		if a.IsTrue() {
			return BoolValue(true), nil
		}
		//
		return Eval(x.B, env)
	case *Not:
		a, err := Eval(x.A, env)
		if err != nil {
			return Value{}, err
		}
		//
		return BoolValue(!a.IsTrue()), nil
	case *Select:
		return evalConditional(x.Cond, x.TrueValue, x.FalseValue, env)
	case *Cast:
		v, err := Eval(x.Value, env)
		if err != nil {
			return Value{}, err
		}
		//
		return castValue(x.T, v), nil
	case *Let:
		v, err := Eval(x.Value, env)
		if err != nil {
			return Value{}, err
		}
		//
		return Eval(x.Body, env.Bind(x.Var, v))
	case *Call:
		if x.IsIntrinsic(IfThenElseIntrinsic) {
			return evalConditional(x.Args[0], x.Args[1], x.Args[2], env)
		}
		//
		if env.Tensors == nil || x.Func == nil {
			return Value{}, fmt.Errorf("cannot evaluate call to %s", x.Name)
		}
		//
		args := make([]Value, len(x.Args))
		for i, arg := range x.Args {
			v, err := Eval(arg, env)
			if err != nil {
				return Value{}, err
			}
			//
			args[i] = v
		}
		//
		return env.Tensors(x, args)
	case *Reduce:
		return evalReduce(x, env)
	default:
		panic(fmt.Sprintf("unknown expression node %T", e))
	}
}

func evalConditional(cond Expr, onTrue Expr, onFalse Expr, env Env) (Value, error) {
	c, err := Eval(cond, env)
	if err != nil {
		return Value{}, err
	}
	//
	if c.IsTrue() {
		return Eval(onTrue, env)
	}
	//
	return Eval(onFalse, env)
}

func evalBinOp(x *BinOp, env Env) (Value, error) {
	a, err := Eval(x.A, env)
	if err != nil {
		return Value{}, err
	}
	//
	b, err := Eval(x.B, env)
	if err != nil {
		return Value{}, err
	}
	//
	if a.T.IsFloat() {
		return evalFloatBinOp(x.Op, a, b)
	}
	//
	switch x.Op {
	case OpAdd:
		return IntValue(a.T, a.Int+b.Int), nil
	case OpSub:
		return IntValue(a.T, a.Int-b.Int), nil
	case OpMul:
		return IntValue(a.T, a.Int*b.Int), nil
	case OpMin:
		return IntValue(a.T, min(a.Int, b.Int)), nil
	case OpMax:
		return IntValue(a.T, max(a.Int, b.Int)), nil
	default:
		if b.Int == 0 {
			return Value{}, errors.New("division by zero")
		}
		//
		switch x.Op {
		case OpDiv:
			return IntValue(a.T, a.Int/b.Int), nil
		case OpMod:
			return IntValue(a.T, a.Int%b.Int), nil
		case OpFloorDiv:
			return IntValue(a.T, floorDiv(a.Int, b.Int)), nil
		default:
			return IntValue(a.T, a.Int-floorDiv(a.Int, b.Int)*b.Int), nil
		}
	}
}

func evalFloatBinOp(op BinOpKind, a Value, b Value) (Value, error) {
	var res float64
	//
	switch op {
	case OpAdd:
		res = a.Float + b.Float
	case OpSub:
		res = a.Float - b.Float
	case OpMul:
		res = a.Float * b.Float
	case OpDiv:
		res = a.Float / b.Float
	case OpMin:
		res = min(a.Float, b.Float)
	case OpMax:
		res = max(a.Float, b.Float)
	default:
		return Value{}, fmt.Errorf("operator %s undefined on floats", op.String())
	}
	//
	return Value{a.T, 0, res}, nil
}

func evalCmp(x *Cmp, env Env) (Value, error) {
	a, err := Eval(x.A, env)
	if err != nil {
		return Value{}, err
	}
	//
	b, err := Eval(x.B, env)
	if err != nil {
		return Value{}, err
	}
	//
	var c int
	//
	switch {
	case a.T.IsFloat():
		switch {
		case a.Float < b.Float:
			c = -1
		case a.Float > b.Float:
			c = 1
		}
	case a.Int < b.Int:
		c = -1
	case a.Int > b.Int:
		c = 1
	}
	//
	switch x.Op {
	case OpEQ:
		return BoolValue(c == 0), nil
	case OpNE:
		return BoolValue(c != 0), nil
	case OpLT:
		return BoolValue(c < 0), nil
	case OpLE:
		return BoolValue(c <= 0), nil
	case OpGT:
		return BoolValue(c > 0), nil
	default:
		return BoolValue(c >= 0), nil
	}
}

func evalReduce(x *Reduce, env Env) (Value, error) {
	// Evaluate axis bounds; these may depend on outer variables
	mins := make([]int64, len(x.Axis))
	extents := make([]int64, len(x.Axis))
	//
	for i, iv := range x.Axis {
		minVal, err := Eval(iv.Dom.Min, env)
		if err != nil {
			return Value{}, err
		}
		//
		extVal, err := Eval(iv.Dom.Extent, env)
		if err != nil {
			return Value{}, err
		}
		//
		mins[i], extents[i] = minVal.Int, extVal.Int
	}
	// Start from the identity elements
	acc := make([]Value, len(x.Combiner.Identity))
	//
	for i, id := range x.Combiner.Identity {
		v, err := Eval(id, env)
		if err != nil {
			return Value{}, err
		}
		//
		acc[i] = v
	}
	//
	if err := foldReduce(x, env, mins, extents, 0, acc); err != nil {
		return Value{}, err
	}
	//
	return acc[x.ValueIndex], nil
}

// foldReduce enumerates the axis space depth-first, combining every point
// which satisfies the condition into the accumulator.
func foldReduce(x *Reduce, env Env, mins []int64, extents []int64, depth int, acc []Value) error {
	if depth == len(x.Axis) {
		cond, err := Eval(x.Condition, env)
		if err != nil {
			return err
		}
		//
		if !cond.IsTrue() {
			return nil
		}
		// Evaluate the sources at this point
		combEnv := env
		//
		for i := range x.Combiner.Result {
			src, err := Eval(x.Source[i], env)
			if err != nil {
				return err
			}
			//
			combEnv = combEnv.Bind(x.Combiner.Lhs[i], acc[i])
			combEnv = combEnv.Bind(x.Combiner.Rhs[i], src)
		}
		//
		for i, res := range x.Combiner.Result {
			v, err := Eval(res, combEnv)
			if err != nil {
				return err
			}
			//
			acc[i] = v
		}
		//
		return nil
	}
	//
	iv := x.Axis[depth]
	//
	for k := mins[depth]; k < mins[depth]+extents[depth]; k++ {
		inner := env.Bind(iv.Var, IntValue(iv.Var.T, k))
		if err := foldReduce(x, inner, mins, extents, depth+1, acc); err != nil {
			return err
		}
	}
	//
	return nil
}

func castValue(t Type, v Value) Value {
	switch {
	case t.IsFloat() && v.T.IsFloat():
		return Value{t, 0, v.Float}
	case t.IsFloat():
		return Value{t, 0, float64(v.Int)}
	case v.T.IsFloat():
		return IntValue(t, int64(v.Float))
	default:
		return IntValue(t, v.Int)
	}
}

func floorDiv(a int64, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	//
	return q
}
