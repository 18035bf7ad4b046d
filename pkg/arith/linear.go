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
package arith

import (
	"github.com/loom-lang/loom/pkg/ir"
)

// DetectLinearEquation decomposes an expression as an integer-linear
// combination of the given variables.  On success the result has one
// constant-integer coefficient per variable followed by a residual term
// which is free of all of them; the expression equals
// coef[0]*vars[0] + ... + coef[n-1]*vars[n-1] + residual.  Detection fails
// when the expression depends on a variable non-linearly or with a
// non-constant coefficient.
func DetectLinearEquation(e ir.Expr, vars []*ir.Var) ([]ir.Expr, bool) {
	form, ok := linearOf(e, ir.VarMask(vars...))
	if !ok {
		return nil, false
	}
	//
	t := e.Type()
	res := make([]ir.Expr, len(vars)+1)
	//
	for i, v := range vars {
		res[i] = ir.Const(v.T, form.coeffs[v])
	}
	//
	res[len(vars)] = form.residual(t)
	//
	return res, true
}

// linForm is an intermediate linear decomposition: integer coefficients per
// variable, plus residual parts free of all tracked variables.
type linForm struct {
	coeffs map[*ir.Var]int64
	parts  []ir.Expr
	konst  int64
}

func (p *linForm) residual(t ir.Type) ir.Expr {
	var res ir.Expr
	//
	for _, part := range p.parts {
		if res == nil {
			res = part
		} else {
			res = ir.Add(res, part)
		}
	}
	//
	switch {
	case res == nil:
		return ir.Const(t, p.konst)
	case p.konst > 0:
		return ir.Add(res, ir.Const(t, p.konst))
	case p.konst < 0:
		return ir.Sub(res, ir.Const(t, -p.konst))
	default:
		return res
	}
}

func (p *linForm) add(o linForm, sign int64) {
	for v, c := range o.coeffs {
		p.coeffs[v] += sign * c
	}
	//
	for _, part := range o.parts {
		if sign < 0 {
			part = ir.Neg(part)
		}
		//
		p.parts = append(p.parts, part)
	}
	//
	p.konst += sign * o.konst
}

func (p *linForm) scale(k int64) {
	for v := range p.coeffs {
		p.coeffs[v] *= k
	}
	//
	for i, part := range p.parts {
		p.parts[i] = ir.Mul(ir.Const(part.Type(), k), part)
	}
	//
	p.konst *= k
}

func (p *linForm) isConst() bool {
	return len(p.coeffs) == 0 && len(p.parts) == 0
}

func (p *linForm) hasVars() bool {
	return len(p.coeffs) > 0
}

func newLinForm() linForm {
	return linForm{coeffs: make(map[*ir.Var]int64)}
}

func linearOf(e ir.Expr, mask interface{ Test(uint) bool }) (linForm, bool) {
	res := newLinForm()
	//
	switch x := e.(type) {
	case *ir.IntImm:
		res.konst = x.Value
		return res, true
	case *ir.Var:
		if mask.Test(x.ID) {
			res.coeffs[x] = 1
		} else {
			res.parts = append(res.parts, x)
		}
		//
		return res, true
	case *ir.BinOp:
		switch x.Op {
		case ir.OpAdd, ir.OpSub:
			a, ok := linearOf(x.A, mask)
			if !ok {
				return res, false
			}
			//
			b, ok := linearOf(x.B, mask)
			if !ok {
				return res, false
			}
			//
			sign := int64(1)
			if x.Op == ir.OpSub {
				sign = -1
			}
			//
			a.add(b, sign)
			//
			return a, true
		case ir.OpMul:
			a, aok := linearOf(x.A, mask)
			b, bok := linearOf(x.B, mask)
			//
			switch {
			case aok && a.isConst():
				if !bok {
					return res, false
				}
				//
				b.scale(a.konst)
				//
				return b, true
			case bok && b.isConst():
				if !aok {
					return res, false
				}
				//
				a.scale(b.konst)
				//
				return a, true
			}
		}
	}
	// Fallthrough: anything else is opaque, and hence must be free of the
	// tracked variables.
	if varsInMask(e, mask) {
		return res, false
	}
	//
	res.parts = append(res.parts, e)
	//
	return res, true
}

func varsInMask(e ir.Expr, mask interface{ Test(uint) bool }) bool {
	if v, ok := e.(*ir.Var); ok {
		return mask.Test(v.ID)
	}
	//
	for _, child := range ir.Children(e) {
		if varsInMask(child, mask) {
			return true
		}
	}
	//
	return false
}
