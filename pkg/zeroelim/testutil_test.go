package zeroelim

import (
	"fmt"
	"testing"

	"github.com/loom-lang/loom/pkg/ir"
	"github.com/loom-lang/loom/pkg/tensor"
)

// testEnv builds an evaluation environment resolving tensor accesses:
// compute tensors evaluate their body, placeholders evaluate to a fixed
// pseudo-random function of their indices.
func testEnv(vars map[*ir.Var]ir.Value) ir.Env {
	var env ir.Env
	//
	env.Vars = vars
	env.Tensors = func(call *ir.Call, args []ir.Value) (ir.Value, error) {
		switch op := call.Func.(type) {
		case *tensor.ComputeOp:
			inner := env
			for i, iv := range op.Axis {
				inner = inner.Bind(iv.Var, args[i])
			}
			//
			return ir.Eval(op.Body[call.ValueIndex], inner)
		case *tensor.PlaceholderOp:
			h := int64(callHash(op.Name))
			for _, arg := range args {
				h = h*31 + arg.Int + 7
			}
			//
			return ir.IntValue(call.T, h%13-6), nil
		default:
			return ir.Value{}, fmt.Errorf("unknown callee in %s", call.String())
		}
	}
	//
	return env
}

func callHash(name string) uint32 {
	var h uint32 = 2166136261
	//
	for i := 0; i < len(name); i++ {
		h = (h ^ uint32(name[i])) * 16777619
	}
	//
	return h
}

// forEachAssignment enumerates every integer assignment of the given
// variables within their (constant) ranges.
func forEachAssignment(t *testing.T, vranges map[*ir.Var]ir.Range,
	fn func(map[*ir.Var]ir.Value)) {
	t.Helper()
	//
	entries := ir.SortVarMap(vranges)
	assignment := make(map[*ir.Var]ir.Value, len(entries))
	//
	var recurse func(depth int)
	//
	recurse = func(depth int) {
		if depth == len(entries) {
			fn(assignment)
			return
		}
		//
		entry := entries[depth]
		//
		min, ok := ir.ConstInt(entry.Value.Min)
		if !ok {
			t.Fatalf("non-constant range for %s", entry.Var.Name)
		}
		//
		extent, ok := ir.ConstInt(entry.Value.Extent)
		if !ok {
			t.Fatalf("non-constant range for %s", entry.Var.Name)
		}
		//
		for v := min; v < min+extent; v++ {
			assignment[entry.Var] = ir.IntValue(entry.Var.T, v)
			recurse(depth + 1)
		}
		//
		delete(assignment, entry.Var)
	}
	//
	recurse(0)
}

// checkBruteforce checks that a boolean expression holds on every
// assignment within the ranges (restricted to those satisfying cond, when
// given).
func checkBruteforce(t *testing.T, boolExpr ir.Expr, vranges map[*ir.Var]ir.Range, cond ir.Expr) {
	t.Helper()
	//
	forEachAssignment(t, vranges, func(vars map[*ir.Var]ir.Value) {
		env := testEnv(vars)
		//
		if cond != nil {
			c, err := ir.Eval(cond, env)
			if err != nil {
				t.Fatalf("evaluating %s: %v", cond.String(), err)
			}
			//
			if !c.IsTrue() {
				return
			}
		}
		//
		v, err := ir.Eval(boolExpr, env)
		if err != nil {
			t.Fatalf("evaluating %s: %v", boolExpr.String(), err)
		}
		//
		if !v.IsTrue() {
			t.Fatalf("expression %s\nis false on %s", boolExpr.String(), formatAssignment(vars))
		}
	})
}

// checkEquiv checks that two expressions evaluate identically on every
// assignment within the ranges.
func checkEquiv(t *testing.T, e1 ir.Expr, e2 ir.Expr, vranges map[*ir.Var]ir.Range) {
	t.Helper()
	//
	forEachAssignment(t, vranges, func(vars map[*ir.Var]ir.Value) {
		env := testEnv(vars)
		//
		v1, err := ir.Eval(e1, env)
		if err != nil {
			t.Fatalf("evaluating %s: %v", e1.String(), err)
		}
		//
		v2, err := ir.Eval(e2, env)
		if err != nil {
			t.Fatalf("evaluating %s: %v", e2.String(), err)
		}
		//
		if v1.Int != v2.Int || v1.Float != v2.Float {
			t.Fatalf("%s and %s disagree on %s: %s vs %s",
				e1.String(), e2.String(), formatAssignment(vars), v1.String(), v2.String())
		}
	})
}

// checkDomainTransformation checks both directions of a transformation: any
// model of the source domain maps to a model of the target domain, and
// mapping there and back is the identity.
func checkDomainTransformation(t *testing.T, transf *DomainTransformation) {
	t.Helper()
	//
	checkForward(t, transf.OldDomain, transf.NewDomain, transf.OldToNew, transf.NewToOld)
	checkForward(t, transf.NewDomain, transf.OldDomain, transf.NewToOld, transf.OldToNew)
}

func checkForward(t *testing.T, from *Domain, to *Domain,
	varmap map[*ir.Var]ir.Expr, backvarmap map[*ir.Var]ir.Expr) {
	t.Helper()
	//
	fromCond := All(from.Conditions)
	// Round trip: every source variable survives mapping there and back
	roundtrip := ir.Expr(ir.True())
	//
	for _, v := range from.Variables {
		back := ir.Substitute(varmap[v], backvarmap)
		roundtrip = ir.Conj(roundtrip, ir.EQ(v, back))
	}
	// Target conditions (and target ranges) must hold after the mapping
	toCond := ir.Substitute(All(to.Conditions), backvarmap)
	//
	for _, v := range to.Variables {
		if r, ok := to.Ranges[v]; ok {
			rangeCond := ir.Conj(
				ir.GE(v, r.Min),
				ir.LT(v, ir.Add(r.Min, r.Extent)))
			toCond = ir.Conj(toCond, ir.Substitute(rangeCond, backvarmap))
		}
	}
	//
	checkBruteforce(t, ir.Conj(toCond, roundtrip), from.Ranges, fromCond)
}

func formatAssignment(vars map[*ir.Var]ir.Value) string {
	res := ""
	//
	for i, entry := range ir.SortVarMap(vars) {
		if i > 0 {
			res += ", "
		}
		//
		res += fmt.Sprintf("%s = %s", entry.Var.Name, entry.Value.String())
	}
	//
	return res
}

// vrange is shorthand for a constant range map entry.
func vrange(pairs ...any) map[*ir.Var]ir.Range {
	res := make(map[*ir.Var]ir.Range)
	//
	for i := 0; i < len(pairs); i += 3 {
		v := pairs[i].(*ir.Var)
		min := int64(pairs[i+1].(int))
		extent := int64(pairs[i+2].(int))
		res[v] = ir.ConstRange(min, extent)
	}
	//
	return res
}

func intVar(name string) *ir.Var {
	return ir.NewVar(name, ir.Int32Type())
}
