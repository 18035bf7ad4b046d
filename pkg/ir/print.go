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
	"fmt"
	"sort"
	"strings"
)

func (p *IntImm) String() string {
	if p.T.IsBool() {
		if p.Value != 0 {
			return "true"
		}
		//
		return "false"
	}
	//
	return fmt.Sprintf("%d", p.Value)
}

func (p *FloatImm) String() string {
	return fmt.Sprintf("%gf", p.Value)
}

func (p *StringImm) String() string {
	return fmt.Sprintf("%q", p.Value)
}

func (p *Var) String() string {
	return p.Name
}

func (p *BinOp) String() string {
	switch p.Op {
	case OpMin, OpMax:
		return fmt.Sprintf("%s(%s, %s)", p.Op.String(), p.A.String(), p.B.String())
	default:
		return fmt.Sprintf("(%s %s %s)", p.A.String(), p.Op.String(), p.B.String())
	}
}

func (p *Cmp) String() string {
	return fmt.Sprintf("(%s %s %s)", p.A.String(), p.Op.String(), p.B.String())
}

func (p *And) String() string {
	return fmt.Sprintf("(%s && %s)", p.A.String(), p.B.String())
}

func (p *Or) String() string {
	return fmt.Sprintf("(%s || %s)", p.A.String(), p.B.String())
}

func (p *Not) String() string {
	return fmt.Sprintf("!%s", p.A.String())
}

func (p *Select) String() string {
	return fmt.Sprintf("select(%s, %s, %s)",
		p.Cond.String(), p.TrueValue.String(), p.FalseValue.String())
}

func (p *Cast) String() string {
	return fmt.Sprintf("%s(%s)", p.T.String(), p.Value.String())
}

func (p *Let) String() string {
	return fmt.Sprintf("(let %s = %s in %s)", p.Var.Name, p.Value.String(), p.Body.String())
}

func (p *Call) String() string {
	args := make([]string, len(p.Args))
	for i, arg := range p.Args {
		args[i] = arg.String()
	}
	//
	if p.Func != nil {
		return fmt.Sprintf("%s[%s]", p.Name, strings.Join(args, ", "))
	}
	//
	return fmt.Sprintf("%s(%s)", p.Name, strings.Join(args, ", "))
}

func (p *Reduce) String() string {
	var builder strings.Builder
	//
	builder.WriteString("reduce(")
	//
	for i, src := range p.Source {
		if i > 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(src.String())
	}
	//
	builder.WriteString("; ")
	//
	for i, iv := range p.Axis {
		if i > 0 {
			builder.WriteString(", ")
		}
		//
		fmt.Fprintf(&builder, "%s in %s", iv.Var.Name, iv.Dom.String())
	}
	//
	fmt.Fprintf(&builder, "; where %s)", p.Condition.String())
	//
	return builder.String()
}

// VarMapEntry is one binding of a variable map, as produced by
// SortVarMap.
type VarMapEntry[T any] struct {
	Var   *Var
	Value T
}

// SortVarMap converts a variable-keyed map into a slice of entries sorted
// by DeepCompare of the keys.  Every iteration over a variable map in the
// engine goes through this, since Go map order is not deterministic.
func SortVarMap[T any](m map[*Var]T) []VarMapEntry[T] {
	res := make([]VarMapEntry[T], 0, len(m))
	for v, val := range m {
		res = append(res, VarMapEntry[T]{v, val})
	}
	//
	sort.Slice(res, func(i, j int) bool {
		return DeepCompare(res[i].Var, res[j].Var) < 0
	})
	//
	return res
}

// FormatVarMap renders a variable map sorted by its keys.
func FormatVarMap[T fmt.Stringer](m map[*Var]T) string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, entry := range SortVarMap(m) {
		if i > 0 {
			builder.WriteString(", ")
		}
		//
		fmt.Fprintf(&builder, "%s: %s", entry.Var.Name, entry.Value.String())
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
