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

// IfThenElseIntrinsic is the name of the pure conditional intrinsic.  Unlike
// Select, a call to it is only folded away when its condition is the
// constant true or false; otherwise rewrites keep the call (the backend
// relies on its lazy evaluation), although its branch values may be
// rewritten.
const IfThenElseIntrinsic = "if_then_else"

// Callee is implemented by operations which can be referenced from a Call
// node, such as tensor compute operations.  It lives here (rather than in
// the tensor package) to keep the IR free of upward dependencies.
type Callee interface {
	// CalleeName returns the display name of the referenced operation.
	CalleeName() string
}

// Call is either an intrinsic invocation (Func is nil) or an element access
// of a produced tensor (Func references the producing operation).
type Call struct {
	T    Type
	Name string
	Args []Expr
	// Func references the operation this call reads from, or nil for
	// intrinsics.
	Func Callee
	// ValueIndex selects the output of a multi-valued operation.
	ValueIndex int
}

// Type implementation for the Expr interface.
func (p *Call) Type() Type { return p.T }

func (p *Call) isExpr() {}

// IsIntrinsic checks whether this call invokes a given intrinsic.
func (p *Call) IsIntrinsic(name string) bool {
	return p.Func == nil && p.Name == name
}

// IfThenElse constructs a call to the pure conditional intrinsic.
func IfThenElse(cond Expr, onTrue Expr, onFalse Expr) Expr {
	return &Call{onTrue.Type(), IfThenElseIntrinsic, []Expr{cond, onTrue, onFalse}, nil, 0}
}
