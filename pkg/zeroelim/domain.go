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
	"strings"

	"github.com/loom-lang/loom/pkg/ir"
)

// Domain is a symbolic integer polytope: an ordered sequence of variables,
// a set of boolean conditions whose conjunction defines the domain, and a
// range for every variable (including enclosing outer variables referenced
// by the conditions).  Domains are immutable once constructed.
type Domain struct {
	Variables  []*ir.Var
	Conditions []ir.Expr
	Ranges     map[*ir.Var]ir.Range
}

// NewDomain constructs a domain.
func NewDomain(variables []*ir.Var, conditions []ir.Expr, ranges map[*ir.Var]ir.Range) *Domain {
	return &Domain{variables, conditions, ranges}
}

func (p *Domain) String() string {
	var builder strings.Builder
	// The box volume is a useful at-a-glance measure of how tight the
	// domain is.
	volume := ir.Expr(ir.Int64(1))
	//
	for _, v := range p.Variables {
		r, ok := p.Ranges[v]
		if !ok {
			volume = nil
			break
		}
		//
		volume = ir.Mul(volume, ir.NewCast(ir.Int64Type(), r.Extent))
	}
	//
	if volume != nil {
		fmt.Fprintf(&builder, "Domain(box_volume=%s", simplify(volume, nil).String())
	} else {
		builder.WriteString("Domain(box_volume=inf")
	}
	//
	builder.WriteString(", variables=[")
	//
	for i, v := range p.Variables {
		if i > 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(v.Name)
	}
	//
	builder.WriteString("], conditions=[")
	//
	for i, cond := range p.Conditions {
		if i > 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(cond.String())
	}
	//
	fmt.Fprintf(&builder, "], ranges=%s)", formatRanges(p.Ranges))
	//
	return builder.String()
}

func formatRanges(ranges map[*ir.Var]ir.Range) string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, entry := range ir.SortVarMap(ranges) {
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

// DomainTransformation relates two domains through a pair of substitution
// maps: NewToOld expresses each new variable over old variables, OldToNew
// each old variable over new ones.  Both maps are sound: substituting one
// into a condition satisfied in the source domain yields a formula
// satisfied in the target domain.
type DomainTransformation struct {
	NewDomain *Domain
	OldDomain *Domain
	NewToOld  map[*ir.Var]ir.Expr
	OldToNew  map[*ir.Var]ir.Expr
}

func (p *DomainTransformation) String() string {
	return fmt.Sprintf("DomainTransformation(new_domain=%s, old_domain=%s, new_to_old=%s, old_to_new=%s)",
		p.NewDomain.String(), p.OldDomain.String(),
		ir.FormatVarMap(p.NewToOld), ir.FormatVarMap(p.OldToNew))
}

// ComposeDomainTransformations chains two transformations: the second must
// start from the domain the first produced.
func ComposeDomainTransformations(first *DomainTransformation,
	second *DomainTransformation) *DomainTransformation {
	if second.OldDomain != first.NewDomain {
		panic("composing domain transformations with mismatched boundaries")
	}
	//
	newToOld := make(map[*ir.Var]ir.Expr, len(second.NewToOld))
	oldToNew := make(map[*ir.Var]ir.Expr, len(first.OldToNew))
	//
	for v, e := range second.NewToOld {
		newToOld[v] = simplify(ir.Substitute(e, first.NewToOld), first.OldDomain.Ranges)
	}
	//
	for v, e := range first.OldToNew {
		oldToNew[v] = simplify(ir.Substitute(e, second.OldToNew), second.NewDomain.Ranges)
	}
	//
	return &DomainTransformation{second.NewDomain, first.OldDomain, newToOld, oldToNew}
}

// IdDomainTransformation is the identity transformation on a domain.
func IdDomainTransformation(domain *Domain) *DomainTransformation {
	idmap := make(map[*ir.Var]ir.Expr, len(domain.Variables))
	//
	for _, v := range domain.Variables {
		idmap[v] = v
	}
	//
	return &DomainTransformation{domain, domain, idmap, idmap}
}

// EmptyDomainTransformation maps a domain onto the canonical empty domain.
// Every old variable maps to zero, which is sound because no assignment
// satisfies the target conditions anyway.
func EmptyDomainTransformation(domain *Domain) *DomainTransformation {
	oldToNew := make(map[*ir.Var]ir.Expr, len(domain.Variables))
	//
	for _, v := range domain.Variables {
		oldToNew[v] = ir.Zero(v.T)
	}
	//
	empty := NewDomain(nil, []ir.Expr{ir.False()}, nil)
	//
	return &DomainTransformation{empty, domain, map[*ir.Var]ir.Expr{}, oldToNew}
}

// SimplifyDomain tightens a domain by composing div/mod elimination with
// equation solving and deskewing.  The solve+deskew pair runs exactly
// twice: equation solving exposes new deskew opportunities and vice versa,
// while a third round has shown no further improvement.  This is a
// heuristic iteration count, not a fixed-point guarantee.
func SimplifyDomain(domain *Domain, eliminateDivMod bool) *DomainTransformation {
	transf := IdDomainTransformation(domain)
	//
	if eliminateDivMod {
		transf = ComposeDomainTransformations(transf,
			EliminateDivModFromDomainConditions(transf.NewDomain))
	}
	//
	for i := 0; i < 2; i++ {
		transf = ComposeDomainTransformations(transf,
			SolveSystemOfEquations(transf.NewDomain))
		transf = ComposeDomainTransformations(transf,
			DeskewDomain(transf.NewDomain))
	}
	//
	return transf
}
