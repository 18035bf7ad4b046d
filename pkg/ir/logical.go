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

// And is the conjunction of two boolean expressions.
type And struct {
	A Expr
	B Expr
}

// Or is the disjunction of two boolean expressions.
type Or struct {
	A Expr
	B Expr
}

// Not is the negation of a boolean expression.
type Not struct {
	A Expr
}

// Type implementation for the Expr interface.
func (p *And) Type() Type { return BoolType() }

// Type implementation for the Expr interface.
func (p *Or) Type() Type { return BoolType() }

// Type implementation for the Expr interface.
func (p *Not) Type() Type { return BoolType() }

func (p *And) isExpr() {}
func (p *Or) isExpr()  {}
func (p *Not) isExpr() {}

// Conj constructs the conjunction of two boolean expressions.
func Conj(a Expr, b Expr) Expr { return &And{a, b} }

// Disj constructs the disjunction of two boolean expressions.
func Disj(a Expr, b Expr) Expr { return &Or{a, b} }

// Negation constructs the negation of a boolean expression.
func Negation(a Expr) Expr { return &Not{a} }
