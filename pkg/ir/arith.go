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

// BinOpKind identifies a binary arithmetic operator.
type BinOpKind uint8

const (
	// OpAdd is addition.
	OpAdd BinOpKind = iota
	// OpSub is subtraction.
	OpSub
	// OpMul is multiplication.
	OpMul
	// OpDiv is truncated division (rounding towards zero).
	OpDiv
	// OpMod is the remainder of truncated division.
	OpMod
	// OpFloorDiv is flooring division (rounding towards negative infinity).
	OpFloorDiv
	// OpFloorMod is the remainder of flooring division.
	OpFloorMod
	// OpMin is the binary minimum.
	OpMin
	// OpMax is the binary maximum.
	OpMax
)

// BinOp is a binary arithmetic expression.  Both operands have the same type
// which is also the type of the result.
type BinOp struct {
	Op BinOpKind
	A  Expr
	B  Expr
}

// Type implementation for the Expr interface.
func (p *BinOp) Type() Type { return p.A.Type() }

func (p *BinOp) isExpr() {}

// Add constructs the sum of two expressions.
func Add(a Expr, b Expr) Expr { return &BinOp{OpAdd, a, b} }

// Sub constructs the difference of two expressions.
func Sub(a Expr, b Expr) Expr { return &BinOp{OpSub, a, b} }

// Mul constructs the product of two expressions.
func Mul(a Expr, b Expr) Expr { return &BinOp{OpMul, a, b} }

// Div constructs the truncated quotient of two expressions.
func Div(a Expr, b Expr) Expr { return &BinOp{OpDiv, a, b} }

// Mod constructs the truncated remainder of two expressions.
func Mod(a Expr, b Expr) Expr { return &BinOp{OpMod, a, b} }

// FloorDiv constructs the flooring quotient of two expressions.
func FloorDiv(a Expr, b Expr) Expr { return &BinOp{OpFloorDiv, a, b} }

// FloorMod constructs the flooring remainder of two expressions.
func FloorMod(a Expr, b Expr) Expr { return &BinOp{OpFloorMod, a, b} }

// Min constructs the minimum of two expressions.
func Min(a Expr, b Expr) Expr { return &BinOp{OpMin, a, b} }

// Max constructs the maximum of two expressions.
func Max(a Expr, b Expr) Expr { return &BinOp{OpMax, a, b} }

// Neg constructs the negation of an expression.
func Neg(a Expr) Expr { return Sub(Zero(a.Type()), a) }

func (k BinOpKind) String() string {
	switch k {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpFloorDiv:
		return "//"
	case OpFloorMod:
		return "%%"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	default:
		panic("unknown binary operator")
	}
}
