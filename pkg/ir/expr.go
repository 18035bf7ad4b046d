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

// Package ir defines the symbolic expression IR manipulated by the loom
// passes.  Expressions form a sum type: the Expr interface is implemented by
// exactly one struct per node kind, and consumers traverse them with
// exhaustive type switches.  Expressions are immutable structural values;
// rewrites always build new nodes.
package ir

// Expr is the interface implemented by every expression node.
type Expr interface {
	// Type returns the scalar type this expression evaluates to.
	Type() Type
	// String returns a compact infix rendering of this expression.
	String() string
	// isExpr restricts implementations to this package.
	isExpr()
}
