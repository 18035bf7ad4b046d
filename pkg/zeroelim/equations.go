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

	"github.com/loom-lang/loom/pkg/arith"
	"github.com/loom-lang/loom/pkg/ir"
)

func gcd(a int64, b int64) int64 {
	if a < 0 {
		a = -a
	}
	//
	if b < 0 {
		b = -b
	}
	//
	for b != 0 {
		a, b = b, a%b
	}
	//
	return a
}

func lcm(a int64, b int64) int64 {
	return (a * b) / gcd(a, b)
}

// xgcd returns (g, s, t) such that g = s*a + t*b and |g| = gcd(a, b); g may
// be negative when an input is.
func xgcd(a int64, b int64) (int64, int64, int64) {
	var (
		s, oldS = int64(0), int64(1)
		t, oldT = int64(1), int64(0)
		r, oldR = b, a
	)
	//
	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
		oldT, t = t, oldT-q*t
	}
	//
	if a%oldR != 0 || b%oldR != 0 || oldR != oldS*a+oldT*b {
		panic(fmt.Sprintf("xgcd invariant broken for (%d, %d)", a, b))
	}
	//
	return oldR, oldS, oldT
}

// SolveSystemOfEquations solves the equality conditions of a domain over
// the integers by diagonalising their coefficient matrix with row and
// column operations (a Smith-form-like reduction).  Variables pinned by the
// solution disappear; unconstrained directions become fresh variables.
// Conditions which cannot be read as integer-linear equalities are carried
// through untouched.  When the system is provably unsolvable, the empty
// transformation is returned.
func SolveSystemOfEquations(domain *Domain) *DomainTransformation {
	var (
		// Conditions we don't know what to do with
		rest []ir.Expr
		// Coefficient matrix, one row per recognised equality
		matrix [][]int64
		// Right-hand-side column
		rhs []ir.Expr
		// Old-to-new variable map in matrix form, one row per old variable
		oldToNew [][]int64
		// New-to-old map, directly as expressions over old variables
		newToOld []ir.Expr
	)
	//
	varsSize := len(domain.Variables)
	// Initialise old_to_new with the identity matrix
	for i, v := range domain.Variables {
		row := make([]int64, varsSize)
		row[i] = 1
		//
		oldToNew = append(oldToNew, row)
		newToOld = append(newToOld, v)
	}
	// Transform equality formulas into matrix rows
	for _, formula := range domain.Conditions {
		if row, r, ok := equationRow(formula, domain); ok {
			matrix = append(matrix, row)
			rhs = append(rhs, r)
			//
			continue
		}
		//
		rest = append(rest, formula)
	}
	//
	diagonalize(matrix, rhs, oldToNew, newToOld, varsSize)
	//
	var conditions []ir.Expr
	// Simplify right hand sides
	for i, r := range rhs {
		rhs[i] = simplify(r, domain.Ranges)
	}
	// Conditions for the existence of a solution: zero rows need a zero
	// right-hand side, nonzero diagonals must divide theirs.
	for j := 0; j < len(matrix); j++ {
		var newCond ir.Expr
		//
		if j >= varsSize || matrix[j][j] == 0 {
			newCond = ir.EQ(rhs[j], ir.Zero(rhs[j].Type()))
		} else {
			d := matrix[j][j]
			if d < 0 {
				d = -d
			}
			//
			t := rhs[j].Type()
			newCond = ir.EQ(ir.FloorMod(rhs[j], ir.Const(t, d)), ir.Zero(t))
		}
		//
		newCond = simplify(newCond, domain.Ranges)
		//
		if ir.IsFalse(newCond) {
			return EmptyDomainTransformation(domain)
		} else if !ir.IsTrue(newCond) {
			conditions = append(conditions, newCond)
		}
	}
	//
	var (
		newVars     []*ir.Var
		newToOldMap = make(map[*ir.Var]ir.Expr)
		solution    []ir.Expr
	)
	// Either solve for each variable or leave it free as a fresh one
	for j := 0; j < varsSize; j++ {
		if j >= len(matrix) || matrix[j][j] == 0 {
			// This direction can take any integer value
			toOld := simplify(newToOld[j], domain.Ranges)
			//
			nameHint := fmt.Sprintf("n%d", len(newVars))
			if old, ok := toOld.(*ir.Var); ok {
				nameHint += "_" + old.Name
			}
			//
			v := ir.NewVar(nameHint, newToOld[j].Type())
			solution = append(solution, v)
			newVars = append(newVars, v)
			newToOldMap[v] = toOld
		} else if d := matrix[j][j]; d >= 0 {
			t := rhs[j].Type()
			solution = append(solution, simplify(ir.FloorDiv(rhs[j], ir.Const(t, d)), domain.Ranges))
		} else {
			// Divide the negation instead: simplifiers struggle with
			// negative divisors.
			t := rhs[j].Type()
			neg := ir.Sub(ir.Zero(t), rhs[j])
			solution = append(solution, simplify(ir.FloorDiv(neg, ir.Const(t, -d)), domain.Ranges))
		}
	}
	// Convert the old_to_new matrix into a map
	oldToNewMap := make(map[*ir.Var]ir.Expr, varsSize)
	//
	for i, v := range domain.Variables {
		e := ir.Expr(ir.Zero(v.T))
		//
		for j := 0; j < varsSize; j++ {
			e = ir.Add(e, ir.Mul(ir.Const(v.T, oldToNew[i][j]), solution[j]))
		}
		//
		oldToNewMap[v] = simplify(e, nil)
	}
	// Sorted iteration of the old ranges keeps everything deterministic
	sortedRanges := ir.SortVarMap(domain.Ranges)
	//
	ranges := make(map[*ir.Var]ir.Range)
	// Outer variables keep their ranges
	inDomain := ir.VarMask(domain.Variables...)
	//
	for _, entry := range sortedRanges {
		if !inDomain.Test(entry.Var.ID) {
			ranges[entry.Var] = entry.Value
		}
	}
	// Infer ranges for the new variables
	for _, entry := range ir.SortVarMap(newToOldMap) {
		if r, ok := arith.RangeOf(entry.Value, domain.Ranges); ok {
			ranges[entry.Var] = r
		}
	}
	// The old variable ranges become conditions over the new variables,
	// since the inferred new ranges are usually wider.
	for _, entry := range sortedRanges {
		inTermsOfNew, ok := oldToNewMap[entry.Var]
		if !ok {
			continue
		}
		//
		lower := simplify(ir.LE(entry.Value.Min, inTermsOfNew), ranges)
		upper := simplify(ir.LT(inTermsOfNew, ir.Add(entry.Value.Min, entry.Value.Extent)), ranges)
		//
		if !ir.IsTrue(lower) {
			conditions = append(conditions, lower)
		}
		//
		if !ir.IsTrue(upper) {
			conditions = append(conditions, upper)
		}
	}
	// Carry the unrecognised conditions over
	for _, cond := range rest {
		conditions = append(conditions, ir.Substitute(cond, oldToNewMap))
	}
	//
	newDomain := NewDomain(newVars, conditions, ranges)
	//
	return &DomainTransformation{newDomain, domain, newToOldMap, oldToNewMap}
}

// equationRow reads one condition as an integer-linear equality over the
// domain variables, producing a coefficient row and a right-hand side.
func equationRow(formula ir.Expr, domain *Domain) ([]int64, ir.Expr, bool) {
	eq, ok := formula.(*ir.Cmp)
	if !ok || eq.Op != ir.OpEQ {
		return nil, nil, false
	}
	//
	diff := simplify(ir.Sub(eq.A, eq.B), domain.Ranges)
	//
	coefs, ok := arith.DetectLinearEquation(diff, domain.Variables)
	if !ok {
		return nil, nil, false
	}
	//
	row := make([]int64, len(domain.Variables))
	//
	for j := 0; j < len(row); j++ {
		c, ok := ir.ConstInt(coefs[j])
		if !ok {
			return nil, nil, false
		}
		//
		row[j] = c
	}
	// The residual moves to the right-hand side
	residual := coefs[len(coefs)-1]
	rhs := ir.Sub(ir.Zero(residual.Type()), residual)
	//
	return row, rhs, true
}

// diagonalize reduces the matrix to diagonal form in place, mirroring every
// row operation on the right-hand side and every column operation on the
// two variable maps.
func diagonalize(matrix [][]int64, rhs []ir.Expr, oldToNew [][]int64, newToOld []ir.Expr, varsSize int) {
	for index := 0; index < min(len(matrix), varsSize); index++ {
		// The submatrix above and left of `index` is already diagonal.
		// Pick the row whose index-th element has minimal absolute value:
		// small pivots keep the Bezout multipliers small.
		bestI := index
		//
		for i := bestI; i < len(matrix); i++ {
			mOld, mNew := matrix[bestI][index], matrix[i][index]
			if mNew != 0 && (mOld == 0 || abs64(mNew) < abs64(mOld)) {
				bestI = i
			}
		}
		//
		matrix[index], matrix[bestI] = matrix[bestI], matrix[index]
		rhs[index], rhs[bestI] = rhs[bestI], rhs[index]
		// If the pivot is still zero, bring in a nonzero column; swapping
		// columns swaps the corresponding new variables.
		if matrix[index][index] == 0 {
			for j := index + 1; j < varsSize; j++ {
				if matrix[index][j] != 0 {
					for i := index; i < len(matrix); i++ {
						matrix[i][index], matrix[i][j] = matrix[i][j], matrix[i][index]
					}
					//
					newToOld[index], newToOld[j] = newToOld[j], newToOld[index]
					//
					for i := range oldToNew {
						oldToNew[i][index], oldToNew[i][j] = oldToNew[i][j], oldToNew[i][index]
					}
					//
					break
				}
			}
		}
		// Pivot row and column are entirely zero; nothing to do here
		if matrix[index][index] == 0 {
			continue
		}
		// Zero the column below the pivot with row operations
		for i := index + 1; i < len(matrix); i++ {
			if matrix[i][index] == 0 {
				continue
			}
			//
			g, a, b := pivotBezout(matrix[index][index], matrix[i][index])
			// With m the pivot and n the element being zeroed,
			//
			//   [ a   b  ][ m ]   [ g ]
			//   [ n/g -m/g][ n ] = [ 0 ]
			//
			// and both rows of the transform are integer since g divides m
			// and n.
			mg := matrix[index][index] / g
			ng := matrix[i][index] / g
			//
			for j := index; j < len(matrix[i]); j++ {
				newIndexJ := a*matrix[index][j] + b*matrix[i][j]
				newIJ := ng*matrix[index][j] - mg*matrix[i][j]
				matrix[index][j], matrix[i][j] = newIndexJ, newIJ
			}
			//
			t := rhs[index].Type()
			newIndexRhs := ir.Add(ir.Mul(ir.Const(t, a), rhs[index]), ir.Mul(ir.Const(t, b), rhs[i]))
			newIRhs := ir.Sub(ir.Mul(ir.Const(t, ng), rhs[index]), ir.Mul(ir.Const(t, mg), rhs[i]))
			rhs[index], rhs[i] = newIndexRhs, newIRhs
		}
		//
		changed := false
		// Zero the row right of the pivot with column operations, applying
		// the same transform to old_to_new and its inverse to new_to_old.
		for j := index + 1; j < varsSize; j++ {
			if matrix[index][j] == 0 {
				continue
			}
			//
			g, a, b := pivotBezout(matrix[index][index], matrix[index][j])
			// Column operations may disturb the zeroed column when the
			// pivot itself changes.
			if matrix[index][j]%matrix[index][index] != 0 {
				changed = true
			}
			//
			mg := matrix[index][index] / g
			ng := matrix[index][j] / g
			//
			for i := index; i < len(matrix); i++ {
				newIIndex := a*matrix[i][index] + b*matrix[i][j]
				newIJ := ng*matrix[i][index] - mg*matrix[i][j]
				matrix[i][index], matrix[i][j] = newIIndex, newIJ
			}
			//
			for i := range oldToNew {
				newIIndex := a*oldToNew[i][index] + b*oldToNew[i][j]
				newIJ := ng*oldToNew[i][index] - mg*oldToNew[i][j]
				oldToNew[i][index], oldToNew[i][j] = newIIndex, newIJ
			}
			// The inverse transform keeps new_to_old consistent
			t := newToOld[index].Type()
			newIndex := ir.Add(ir.Mul(ir.Const(t, mg), newToOld[index]), ir.Mul(ir.Const(t, ng), newToOld[j]))
			newJ := ir.Sub(ir.Mul(ir.Const(t, b), newToOld[index]), ir.Mul(ir.Const(t, a), newToOld[j]))
			newToOld[index], newToOld[j] = newIndex, newJ
		}
		//
		if changed {
			// The pivot column may have been disturbed; redo this index
			index--
		}
	}
}

// pivotBezout returns (g, a, b) with g = a*m + b*n, avoiding any change to
// the pivot row or column when n is already a multiple of m.  The identity
// case matters: re-deriving it through xgcd could loop forever.
func pivotBezout(m int64, n int64) (int64, int64, int64) {
	if n%m != 0 {
		return xgcd(m, n)
	}
	//
	return m, 1, 0
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	//
	return x
}

// AddOuterVariablesIntoDomain copies outer variables referenced by the
// conditions into the domain's own variables, linking each copy to its
// original with an equality.  This propagates equalities on outer
// variables into the solvable system.
func AddOuterVariablesIntoDomain(domain *Domain) *DomainTransformation {
	inDomain := ir.VarMask(domain.Variables...)
	//
	var (
		newVariables  = Concat(domain.Variables, nil)
		outerToNew    = make(map[*ir.Var]ir.Expr)
		newToOld      = make(map[*ir.Var]ir.Expr)
		newConditions []ir.Expr
		newRanges     = Merge(domain.Ranges, nil)
	)
	//
	for _, cond := range domain.Conditions {
		for _, v := range ir.FreeVars(cond) {
			if inDomain.Test(v.ID) {
				continue
			}
			//
			newVar := v.CopyWithSuffix("Z")
			newVariables = append(newVariables, newVar)
			outerToNew[v] = newVar
			newToOld[newVar] = v
			//
			if r, ok := domain.Ranges[v]; ok {
				newRanges[newVar] = r
			}
			//
			inDomain.Set(newVar.ID)
			inDomain.Set(v.ID)
			//
			newConditions = append(newConditions, ir.EQ(newVar, v))
		}
		//
		newConditions = append(newConditions, ir.Substitute(cond, outerToNew))
	}
	//
	oldToNew := make(map[*ir.Var]ir.Expr, len(domain.Variables))
	//
	for _, v := range domain.Variables {
		oldToNew[v] = v
		newToOld[v] = v
	}
	//
	newDomain := NewDomain(newVariables, newConditions, newRanges)
	//
	return &DomainTransformation{newDomain, domain, newToOld, oldToNew}
}
