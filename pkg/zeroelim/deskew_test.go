package zeroelim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-lang/loom/pkg/ir"
)

func TestDeskewDomainShift(t *testing.T) {
	i := intVar("i")
	// The conditions confine i to [3, 7); deskewing rebases it at zero
	d := NewDomain([]*ir.Var{i},
		[]ir.Expr{
			ir.GE(i, ir.Int32(3)),
			ir.LT(i, ir.Int32(7)),
		},
		vrange(i, 0, 20))
	//
	transf := DeskewDomain(d)
	//
	require.Len(t, transf.NewDomain.Variables, 1)
	//
	v := transf.NewDomain.Variables[0]
	r := transf.NewDomain.Ranges[v]
	//
	assert.True(t, ir.IsConstZero(r.Min))
	assert.True(t, ir.IsConstInt(r.Extent, 4), "extent should be 4, found %s", r.Extent.String())
	// The shifted variable is named after the original
	assert.Equal(t, "i.shifted", v.Name)
	//
	checkDomainTransformation(t, transf)
}

func TestDeskewDomainEquality(t *testing.T) {
	i := intVar("i")
	j := intVar("j")
	// j is pinned to i, so only one variable remains
	d := NewDomain([]*ir.Var{i, j},
		[]ir.Expr{ir.EQ(j, i)},
		vrange(i, 0, 6, j, 0, 6))
	//
	transf := DeskewDomain(d)
	//
	require.Len(t, transf.NewDomain.Variables, 1)
	checkDomainTransformation(t, transf)
}

func TestDeskewDomainDependentBounds(t *testing.T) {
	i := intVar("i")
	j := intVar("j")
	// A triangular domain: the extent of j depends on i
	d := NewDomain([]*ir.Var{i, j},
		[]ir.Expr{ir.LE(j, i)},
		vrange(i, 0, 6, j, 0, 6))
	//
	transf := DeskewDomain(d)
	checkDomainTransformation(t, transf)
}

func TestDeskewExtentBound(t *testing.T) {
	i := intVar("i")
	// Every deskewed variable stays within its original range under the
	// substitution.
	d := NewDomain([]*ir.Var{i},
		[]ir.Expr{
			ir.GE(ir.Mul(ir.Int32(2), i), ir.Int32(5)),
			ir.LE(i, ir.Int32(9)),
		},
		vrange(i, 0, 20))
	//
	transf := DeskewDomain(d)
	//
	for _, v := range transf.NewDomain.Variables {
		r, ok := transf.NewDomain.Ranges[v]
		require.True(t, ok)
		assert.True(t, ir.IsConstZero(r.Min))
	}
	//
	checkDomainTransformation(t, transf)
}
