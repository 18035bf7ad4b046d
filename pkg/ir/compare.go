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

// CmpKind identifies a comparison operator.
type CmpKind uint8

const (
	// OpEQ is equality.
	OpEQ CmpKind = iota
	// OpNE is disequality.
	OpNE
	// OpLT is strictly-less-than.
	OpLT
	// OpLE is less-than-or-equal.
	OpLE
	// OpGT is strictly-greater-than.
	OpGT
	// OpGE is greater-than-or-equal.
	OpGE
)

// Cmp is a comparison between two expressions of the same type, producing a
// boolean.
type Cmp struct {
	Op CmpKind
	A  Expr
	B  Expr
}

// Type implementation for the Expr interface.
func (p *Cmp) Type() Type { return BoolType() }

func (p *Cmp) isExpr() {}

// EQ constructs an equality comparison.
func EQ(a Expr, b Expr) Expr { return &Cmp{OpEQ, a, b} }

// NE constructs a disequality comparison.
func NE(a Expr, b Expr) Expr { return &Cmp{OpNE, a, b} }

// LT constructs a strictly-less-than comparison.
func LT(a Expr, b Expr) Expr { return &Cmp{OpLT, a, b} }

// LE constructs a less-than-or-equal comparison.
func LE(a Expr, b Expr) Expr { return &Cmp{OpLE, a, b} }

// GT constructs a strictly-greater-than comparison.
func GT(a Expr, b Expr) Expr { return &Cmp{OpGT, a, b} }

// GE constructs a greater-than-or-equal comparison.
func GE(a Expr, b Expr) Expr { return &Cmp{OpGE, a, b} }

// Negated returns the comparison operator accepting exactly the pairs this
// one rejects.
func (k CmpKind) Negated() CmpKind {
	switch k {
	case OpEQ:
		return OpNE
	case OpNE:
		return OpEQ
	case OpLT:
		return OpGE
	case OpLE:
		return OpGT
	case OpGT:
		return OpLE
	default:
		return OpLT
	}
}

func (k CmpKind) String() string {
	switch k {
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	default:
		return ">="
	}
}
