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

import "fmt"

// TypeKind distinguishes the scalar families an expression can have.
type TypeKind uint8

const (
	// KindInt covers signed integers of any width.  Booleans have their own
	// kind (KindBool).
	KindInt TypeKind = iota
	// KindFloat covers floating-point values.
	KindFloat
	// KindBool is the type of conditions and logical connectives.
	KindBool
	// KindString is the type of string immediates (diagnostic payloads).
	KindString
)

// Type describes the scalar type of an expression as a kind plus bit width.
type Type struct {
	Kind TypeKind
	Bits uint8
}

// BoolType returns the type of conditions.
func BoolType() Type { return Type{KindBool, 1} }

// Int32Type returns the default integer type for iteration variables.
func Int32Type() Type { return Type{KindInt, 32} }

// Int64Type returns the wide integer type used for volume computations.
func Int64Type() Type { return Type{KindInt, 64} }

// Float32Type returns the single-precision float type.
func Float32Type() Type { return Type{KindFloat, 32} }

// Float64Type returns the double-precision float type.
func Float64Type() Type { return Type{KindFloat, 64} }

// StringType returns the type of string immediates.
func StringType() Type { return Type{KindString, 0} }

// IsBool reports whether this is the condition type.
func (t Type) IsBool() bool { return t.Kind == KindBool }

// IsInt reports whether this is an integer type.
func (t Type) IsInt() bool { return t.Kind == KindInt }

// IsFloat reports whether this is a floating-point type.
func (t Type) IsFloat() bool { return t.Kind == KindFloat }

func (t Type) String() string {
	switch t.Kind {
	case KindBool:
		return "bool"
	case KindInt:
		return fmt.Sprintf("int%d", t.Bits)
	case KindFloat:
		return fmt.Sprintf("float%d", t.Bits)
	default:
		return "string"
	}
}

// cmp provides the total order on types used by expression ordering.
func (t Type) cmp(o Type) int {
	if t.Kind != o.Kind {
		return int(t.Kind) - int(o.Kind)
	}
	//
	return int(t.Bits) - int(o.Bits)
}
