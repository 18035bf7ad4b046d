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

// IntImm is an integer (or boolean) immediate.
type IntImm struct {
	T     Type
	Value int64
}

// FloatImm is a floating-point immediate.
type FloatImm struct {
	T     Type
	Value float64
}

// StringImm is a string immediate.
type StringImm struct {
	Value string
}

// Type implementation for the Expr interface.
func (p *IntImm) Type() Type { return p.T }

// Type implementation for the Expr interface.
func (p *FloatImm) Type() Type { return p.T }

// Type implementation for the Expr interface.
func (p *StringImm) Type() Type { return StringType() }

func (p *IntImm) isExpr()    {}
func (p *FloatImm) isExpr()  {}
func (p *StringImm) isExpr() {}

// Const constructs an integer immediate of a given type.
func Const(t Type, value int64) Expr {
	return &IntImm{t, value}
}

// Int32 constructs a 32-bit integer immediate.
func Int32(value int64) Expr {
	return Const(Int32Type(), value)
}

// Int64 constructs a 64-bit integer immediate.
func Int64(value int64) Expr {
	return Const(Int64Type(), value)
}

// True constructs the boolean constant true.
func True() Expr {
	return Const(BoolType(), 1)
}

// False constructs the boolean constant false.
func False() Expr {
	return Const(BoolType(), 0)
}

// Bool constructs a boolean constant.
func Bool(value bool) Expr {
	if value {
		return True()
	}
	//
	return False()
}

// Zero constructs the zero value of a given type.
func Zero(t Type) Expr {
	if t.IsFloat() {
		return &FloatImm{t, 0}
	}
	//
	return Const(t, 0)
}

// ConstInt extracts the value of an integer or boolean immediate.
func ConstInt(e Expr) (int64, bool) {
	if imm, ok := e.(*IntImm); ok {
		return imm.Value, true
	}
	//
	return 0, false
}

// IsConstInt checks whether an expression is an integer or boolean immediate
// with a given value.
func IsConstInt(e Expr, value int64) bool {
	v, ok := ConstInt(e)
	return ok && v == value
}

// IsConstZero checks whether an expression is the zero immediate of its
// type, covering both the integer and floating-point cases.
func IsConstZero(e Expr) bool {
	switch imm := e.(type) {
	case *IntImm:
		return imm.Value == 0
	case *FloatImm:
		return imm.Value == 0
	default:
		return false
	}
}

// IsTrue checks whether an expression is the boolean constant true.
func IsTrue(e Expr) bool {
	return e.Type().IsBool() && IsConstInt(e, 1)
}

// IsFalse checks whether an expression is the boolean constant false.
func IsFalse(e Expr) bool {
	return e.Type().IsBool() && IsConstInt(e, 0)
}
