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

// Select chooses between two values of the same type based on a boolean
// condition.  Unlike the if_then_else intrinsic, a Select may be collapsed
// by rewrites whenever one branch is statically irrelevant.
type Select struct {
	Cond       Expr
	TrueValue  Expr
	FalseValue Expr
}

// Type implementation for the Expr interface.
func (p *Select) Type() Type { return p.TrueValue.Type() }

func (p *Select) isExpr() {}

// NewSelect constructs a selection between two values.
func NewSelect(cond Expr, onTrue Expr, onFalse Expr) Expr {
	return &Select{cond, onTrue, onFalse}
}

// Cast converts a value to another scalar type.
type Cast struct {
	T     Type
	Value Expr
}

// Type implementation for the Expr interface.
func (p *Cast) Type() Type { return p.T }

func (p *Cast) isExpr() {}

// NewCast constructs a conversion of a value to a given type.
func NewCast(t Type, value Expr) Expr {
	return &Cast{t, value}
}

// Let binds a variable to a value within a body expression.
type Let struct {
	Var   *Var
	Value Expr
	Body  Expr
}

// Type implementation for the Expr interface.
func (p *Let) Type() Type { return p.Body.Type() }

func (p *Let) isExpr() {}
