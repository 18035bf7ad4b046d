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
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/ir/sexp"
)

// GetFlag reads an expected boolean flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return r
}

// problem is a parsed problem description: declared variables with ranges,
// domain conditions and an optional expression.
type problem struct {
	vars       []*ir.Var
	ranges     map[*ir.Var]ir.Range
	conditions []ir.Expr
	expr       ir.Expr
}

// readProblemFile parses a problem description of the form
//
//	(vars (i 0 100) (j 0 16))
//	(conditions (eq (add i (mul 2 j)) 4))
//	(expr (select (eq i 3) i 0))
//
// where each variable declaration gives the range minimum and extent.
func readProblemFile(filename string) (*problem, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	forms, err := sexp.ParseAll(string(bytes))
	if err != nil {
		return nil, err
	}
	//
	var (
		env = sexp.NewEnvironment()
		res = &problem{ranges: make(map[*ir.Var]ir.Range)}
	)
	//
	for _, form := range forms {
		list, ok := form.(*sexp.List)
		if !ok || len(list.Elements) == 0 {
			return nil, fmt.Errorf("expected a section, found %s", form.String())
		}
		//
		head, ok := list.Elements[0].(*sexp.Symbol)
		if !ok {
			return nil, fmt.Errorf("expected a section name, found %s", list.Elements[0].String())
		}
		//
		switch head.Value {
		case "vars":
			if err := res.readVars(list.Elements[1:], env); err != nil {
				return nil, err
			}
		case "conditions":
			for _, cond := range list.Elements[1:] {
				e, err := sexp.ToExpr(cond, env)
				if err != nil {
					return nil, err
				}
				//
				res.conditions = append(res.conditions, e)
			}
		case "expr":
			if len(list.Elements) != 2 {
				return nil, fmt.Errorf("expr expects a single expression")
			}
			//
			if res.expr, err = sexp.ToExpr(list.Elements[1], env); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown section %s", head.Value)
		}
	}
	//
	return res, nil
}

func (p *problem) readVars(decls []sexp.SExp, env *sexp.Environment) error {
	for _, decl := range decls {
		list, ok := decl.(*sexp.List)
		if !ok || len(list.Elements) != 3 {
			return fmt.Errorf("expected (name min extent), found %s", decl.String())
		}
		//
		name, ok := list.Elements[0].(*sexp.Symbol)
		if !ok {
			return fmt.Errorf("expected a variable name, found %s", list.Elements[0].String())
		}
		//
		min, err := parseInt(list.Elements[1])
		if err != nil {
			return err
		}
		//
		extent, err := parseInt(list.Elements[2])
		if err != nil {
			return err
		}
		//
		v := env.Declare(name.Value)
		p.vars = append(p.vars, v)
		p.ranges[v] = ir.ConstRange(min, extent)
	}
	//
	return nil
}

func parseInt(s sexp.SExp) (int64, error) {
	sym, ok := s.(*sexp.Symbol)
	if !ok {
		return 0, fmt.Errorf("expected a number, found %s", s.String())
	}
	//
	return strconv.ParseInt(sym.Value, 10, 64)
}
