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
package zeroelim

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/loom-lang/loom/pkg/arith"
	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/tensor"
)

// EliminateDivModResult carries the rewritten expression together with the
// variables introduced for the eliminated quotients and remainders: their
// defining substitution, the conditions tying them to the original
// subterms, and their inferred ranges.
type EliminateDivModResult struct {
	Expr         ir.Expr
	Substitution map[*ir.Var]ir.Expr
	NewVariables []*ir.Var
	Conditions   []ir.Expr
	Ranges       map[*ir.Var]ir.Range
}

// divMode distinguishes truncated from flooring division when keying
// introduced variable pairs.
type divMode uint8

const (
	truncMode divMode = iota
	floorMode
)

func divImpl(mode divMode, a ir.Expr, b ir.Expr) ir.Expr {
	if mode == truncMode {
		return ir.Div(a, b)
	}
	//
	return ir.FloorDiv(a, b)
}

func modImpl(mode divMode, a ir.Expr, b ir.Expr) ir.Expr {
	if mode == truncMode {
		return ir.Mod(a, b)
	}
	//
	return ir.FloorMod(a, b)
}

// divModEliminator accumulates the state of one EliminateDivMod call: the
// variable counter, the introduced variable pairs keyed by the replaced
// subterm, and the resulting conditions and ranges.  Scoping this to a
// single call keeps concurrent invocations deterministic.
type divModEliminator struct {
	substitution map[*ir.Var]ir.Expr
	newVariables []*ir.Var
	conditions   []ir.Expr
	ranges       map[*ir.Var]ir.Range
	cache        []divModEntry
	idx          int
}

// divModEntry maps one (mode, dividend, divisor) triple to its variable
// pair.
type divModEntry struct {
	mode divMode
	expr ir.Expr
	val  int64
	div  *ir.Var
	mod  *ir.Var
}

// EliminateDivMod replaces every subterm of the form `e / c` or `e % c`
// (both division conventions, nonzero constant `c`) with fresh paired
// variables defined by `e == div*c + mod`.  Syntactically equal subterms
// map to the same pair.  Subterms whose bounds cannot be inferred are left
// in place.
func EliminateDivMod(e ir.Expr, ranges map[*ir.Var]ir.Range) EliminateDivModResult {
	elim := &divModEliminator{
		substitution: make(map[*ir.Var]ir.Expr),
		ranges:       Merge(ranges, nil),
	}
	//
	res := elim.mutate(e)
	//
	return EliminateDivModResult{
		Expr:         res,
		Substitution: elim.substitution,
		NewVariables: elim.newVariables,
		Conditions:   elim.conditions,
		Ranges:       elim.ranges,
	}
}

func (p *divModEliminator) mutate(e ir.Expr) ir.Expr {
	x, ok := e.(*ir.BinOp)
	if !ok {
		return ir.MapChildren(e, p.mutate)
	}
	//
	imm, isConst := ir.ConstInt(x.B)
	if !isConst || imm == 0 {
		return ir.MapChildren(e, p.mutate)
	}
	//
	t := x.Type()
	//
	switch x.Op {
	case ir.OpDiv:
		if imm < 0 {
			// x / -c == -(x / c) for truncated division
			return ir.Sub(ir.Zero(t), p.mutate(ir.Div(x.A, ir.Const(t, -imm))))
		}
		//
		return p.replace(x, truncMode, imm, true)
	case ir.OpMod:
		if imm < 0 {
			// x % -c == x % c for truncated division
			return p.mutate(ir.Mod(x.A, ir.Const(t, -imm)))
		}
		//
		return p.replace(x, truncMode, imm, false)
	case ir.OpFloorDiv:
		if imm < 0 {
			// x / -c == (-x) / c for flooring division
			return p.mutate(ir.FloorDiv(ir.Sub(ir.Zero(t), x.A), ir.Const(t, -imm)))
		}
		//
		return p.replace(x, floorMode, imm, true)
	case ir.OpFloorMod:
		if imm < 0 {
			// x % -c == -(-x % c) for flooring division
			negated := ir.FloorMod(ir.Sub(ir.Zero(t), x.A), ir.Const(t, -imm))
			return p.mutate(ir.Sub(ir.Zero(t), negated))
		}
		//
		return p.replace(x, floorMode, imm, false)
	default:
		return ir.MapChildren(e, p.mutate)
	}
}

// replace swaps one div/mod subterm for its variable, introducing the pair
// on first sight.  wantDiv selects which of the pair to return.
func (p *divModEliminator) replace(x *ir.BinOp, mode divMode, val int64, wantDiv bool) ir.Expr {
	if entry := p.lookup(mode, x.A, val); entry != nil {
		return entry.pick(wantDiv)
	}
	// Rewrite the dividend first, then introduce the pair for it
	mutated := p.mutate(x.A)
	//
	if entry := p.addNewVarPair(x.A, mutated, val, mode); entry != nil {
		return entry.pick(wantDiv)
	}
	// Bounds were not inferable; keep the subterm with a rewritten dividend
	if wantDiv {
		return divImpl(mode, mutated, x.B)
	}
	//
	return modImpl(mode, mutated, x.B)
}

func (p *divModEntry) pick(wantDiv bool) ir.Expr {
	if wantDiv {
		return p.div
	}
	//
	return p.mod
}

func (p *divModEliminator) lookup(mode divMode, e ir.Expr, val int64) *divModEntry {
	for i := range p.cache {
		entry := &p.cache[i]
		if entry.mode == mode && entry.val == val && ir.DeepEqual(entry.expr, e) {
			return entry
		}
	}
	//
	return nil
}

func (p *divModEliminator) addNewVarPair(e ir.Expr, mut ir.Expr, val int64, mode divMode) *divModEntry {
	// The mutated dividend may already have a pair
	if e != mut {
		if entry := p.lookup(mode, mut, val); entry != nil {
			return entry
		}
	}
	//
	t := e.Type()
	valE := ir.Const(t, val)
	p.idx++
	// Infer ranges for the expressions we are about to replace
	divRange, divOk := arith.RangeOf(divImpl(mode, mut, valE), p.ranges)
	modRange, modOk := arith.RangeOf(modImpl(mode, mut, valE), p.ranges)
	// Unbounded variables would poison the domain, so refuse to introduce
	// them.
	if !divOk || !modOk {
		log.Warnf("EliminateDivMod: won't eliminate %s because its bounds cannot be inferred",
			divImpl(mode, e, valE).String())
		//
		return nil
	}
	//
	prefix := "t"
	if mode == floorMode {
		prefix = "f"
	}
	//
	div := ir.NewVar(fmt.Sprintf("%sdiv%d", prefix, p.idx), t)
	mod := ir.NewVar(fmt.Sprintf("%smod%d", prefix, p.idx), t)
	//
	p.newVariables = append(p.newVariables, div, mod)
	// The substitution must not mention other introduced variables
	resolved := ir.Substitute(mut, p.substitution)
	p.substitution[div] = divImpl(mode, resolved, valE)
	p.substitution[mod] = modImpl(mode, resolved, valE)
	//
	p.ranges[div] = divRange
	p.ranges[mod] = modRange
	// This condition is the definition of the new variables
	p.conditions = append(p.conditions, ir.EQ(mut, ir.Add(ir.Mul(div, valE), mod)))
	//
	if !canProve(ir.LE(modRange.Extent, valE), nil) {
		// Truncated semantics permit negative remainders, so when the
		// dividend may change sign the defining condition alone admits
		// several solutions.  Pin the remainder's sign to the dividend's.
		log.Warnf("EliminateDivMod: cannot fully eliminate %s because it may change its sign",
			modImpl(mode, e, valE).String())
		//
		p.conditions = append(p.conditions,
			ir.NewSelect(ir.GE(e, ir.Zero(t)), ir.GE(mod, ir.Zero(t)), ir.LE(mod, ir.Zero(t))))
	}
	//
	p.cache = append(p.cache, divModEntry{mode, e, val, div, mod})
	if e != mut {
		p.cache = append(p.cache, divModEntry{mode, mut, val, div, mod})
	}
	//
	return &p.cache[len(p.cache)-1]
}

// EliminateDivModFromDomainConditions applies div/mod elimination to the
// conditions of a domain, growing the domain by the introduced variables.
func EliminateDivModFromDomainConditions(domain *Domain) *DomainTransformation {
	elim := EliminateDivMod(All(domain.Conditions), domain.Ranges)
	//
	newAxis := Concat(domain.Variables, elim.NewVariables)
	newCond := ir.Conj(elim.Expr, All(elim.Conditions))
	//
	newDomain := NewDomain(newAxis, FactorOutAtomicFormulas(newCond).ToArray(), elim.Ranges)
	//
	oldToNew := make(map[*ir.Var]ir.Expr, len(domain.Variables))
	newToOld := Merge(elim.Substitution, nil)
	//
	for _, v := range domain.Variables {
		oldToNew[v] = v
		newToOld[v] = v
	}
	//
	return &DomainTransformation{newDomain, domain, newToOld, oldToNew}
}

// EliminateDivModFromReductionCondition applies div/mod elimination to the
// condition of a reduction, growing its axis by the introduced variables.
// Non-reductions pass through.
func EliminateDivModFromReductionCondition(e ir.Expr, vranges map[*ir.Var]ir.Range) ir.Expr {
	red, ok := e.(*ir.Reduce)
	if !ok {
		return e
	}
	//
	vranges = Merge(vranges, tensor.IterVarsToMap(red.Axis))
	//
	elim := EliminateDivMod(red.Condition, vranges)
	//
	newAxis := Concat(red.Axis, tensor.IterVarsFromMap(elim.NewVariables, elim.Ranges))
	newCond := ir.Conj(elim.Expr, All(elim.Conditions))
	//
	return ir.NewReduce(red.Combiner, red.Source, newAxis, newCond, red.ValueIndex)
}
