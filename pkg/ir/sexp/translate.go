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
package sexp

import (
	"fmt"
	"strconv"

	"github.com/loom-lang/loom/pkg/ir"
)

// Environment resolves symbols to previously declared variables during
// translation.
type Environment struct {
	vars map[string]*ir.Var
}

// NewEnvironment creates an empty translation environment.
func NewEnvironment() *Environment {
	return &Environment{make(map[string]*ir.Var)}
}

// Declare introduces a fresh integer variable under a given name,
// returning the existing one if the name is already taken.
func (p *Environment) Declare(name string) *ir.Var {
	if v, ok := p.vars[name]; ok {
		return v
	}
	//
	v := ir.NewVar(name, ir.Int32Type())
	p.vars[name] = v
	//
	return v
}

// Lookup resolves a declared variable.
func (p *Environment) Lookup(name string) (*ir.Var, bool) {
	v, ok := p.vars[name]
	return v, ok
}

// binaryForms maps operator heads onto their IR constructors.
var binaryForms = map[string]func(ir.Expr, ir.Expr) ir.Expr{
	"add":      ir.Add,
	"sub":      ir.Sub,
	"mul":      ir.Mul,
	"div":      ir.Div,
	"mod":      ir.Mod,
	"floordiv": ir.FloorDiv,
	"floormod": ir.FloorMod,
	"min":      ir.Min,
	"max":      ir.Max,
	"eq":       ir.EQ,
	"ne":       ir.NE,
	"lt":       ir.LT,
	"le":       ir.LE,
	"gt":       ir.GT,
	"ge":       ir.GE,
	"and":      ir.Conj,
	"or":       ir.Disj,
}

// ToExpr translates a parsed s-expression into an IR expression.  Symbols
// resolve through the environment; numbers become 32-bit integer
// immediates.
func ToExpr(s SExp, env *Environment) (ir.Expr, error) {
	switch x := s.(type) {
	case *Symbol:
		return symbolToExpr(x, env)
	case *List:
		return listToExpr(x, env)
	default:
		return nil, fmt.Errorf("unknown s-expression %s", s.String())
	}
}

func symbolToExpr(x *Symbol, env *Environment) (ir.Expr, error) {
	switch x.Value {
	case "true":
		return ir.True(), nil
	case "false":
		return ir.False(), nil
	}
	//
	if value, err := strconv.ParseInt(x.Value, 10, 64); err == nil {
		return ir.Int32(value), nil
	}
	//
	if v, ok := env.Lookup(x.Value); ok {
		return v, nil
	}
	//
	return nil, fmt.Errorf("undeclared variable %s", x.Value)
}

func listToExpr(x *List, env *Environment) (ir.Expr, error) {
	if len(x.Elements) == 0 {
		return nil, fmt.Errorf("empty application")
	}
	//
	head, ok := x.Elements[0].(*Symbol)
	if !ok {
		return nil, fmt.Errorf("expected an operator, found %s", x.Elements[0].String())
	}
	//
	args, err := translateArgs(x.Elements[1:], env)
	if err != nil {
		return nil, err
	}
	//
	if form, ok := binaryForms[head.Value]; ok {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, found %d", head.Value, len(args))
		}
		//
		return form(args[0], args[1]), nil
	}
	//
	switch head.Value {
	case "not":
		if len(args) != 1 {
			return nil, fmt.Errorf("not expects 1 argument, found %d", len(args))
		}
		//
		return ir.Negation(args[0]), nil
	case "select":
		if len(args) != 3 {
			return nil, fmt.Errorf("select expects 3 arguments, found %d", len(args))
		}
		//
		return ir.NewSelect(args[0], args[1], args[2]), nil
	case "if-then-else":
		if len(args) != 3 {
			return nil, fmt.Errorf("if-then-else expects 3 arguments, found %d", len(args))
		}
		//
		return ir.IfThenElse(args[0], args[1], args[2]), nil
	default:
		return nil, fmt.Errorf("unknown operator %s", head.Value)
	}
}

func translateArgs(elements []SExp, env *Environment) ([]ir.Expr, error) {
	args := make([]ir.Expr, len(elements))
	//
	for i, element := range elements {
		arg, err := ToExpr(element, env)
		if err != nil {
			return nil, err
		}
		//
		args[i] = arg
	}
	//
	return args, nil
}
