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

// Substitute replaces free occurrences of the given variables with their
// mapped expressions.  Substitution is capture-naive: binder variables are
// fresh by construction and never appear as keys, so no renaming is needed.
func Substitute(e Expr, sub map[*Var]Expr) Expr {
	if len(sub) == 0 {
		return e
	}
	//
	if v, ok := e.(*Var); ok {
		if repl, ok := sub[v]; ok {
			return repl
		}
		//
		return e
	}
	//
	return MapChildren(e, func(child Expr) Expr {
		return Substitute(child, sub)
	})
}

// SubstituteOne replaces free occurrences of a single variable.
func SubstituteOne(e Expr, v *Var, repl Expr) Expr {
	return Substitute(e, map[*Var]Expr{v: repl})
}
