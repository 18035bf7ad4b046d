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
package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertInterval(t *testing.T, iv Interval, min int64, max int64) {
	t.Helper()
	//
	require.True(t, iv.IsFinite(), "interval %s should be finite", iv.String())
	//
	lo := iv.Min()
	hi := iv.Max()
	//
	assert.Equal(t, 0, lo.CmpInt64(min), "lower bound should be %d, found %s", min, lo.String())
	assert.Equal(t, 0, hi.CmpInt64(max), "upper bound should be %d, found %s", max, hi.String())
}

func TestIntervalArithmetic(t *testing.T) {
	a := NewInterval64(0, 9)
	b := NewInterval64(-2, 2)
	//
	assertInterval(t, a.Add(b), -2, 11)
	assertInterval(t, a.Sub(b), -2, 11)
	assertInterval(t, a.Mul(b), -18, 18)
	assertInterval(t, a.Negate(), -9, 0)
	assertInterval(t, a.Union(b), -2, 9)
	assertInterval(t, a.MinOf(b), -2, 2)
	assertInterval(t, a.MaxOf(b), 0, 9)
}

func TestIntervalDivision(t *testing.T) {
	assertInterval(t, NewInterval64(0, 9).DivFloor(4), 0, 2)
	assertInterval(t, NewInterval64(-7, 7).DivFloor(2), -4, 3)
	assertInterval(t, NewInterval64(-7, 7).DivTrunc(2), -4, 3)
	assertInterval(t, NewInterval64(-7, -1).DivTrunc(2), -4, 0)
	// Negative divisors swap the bounds
	assertInterval(t, NewInterval64(0, 9).DivFloor(-4), -3, 0)
}

func TestIntervalModulo(t *testing.T) {
	// A dividend already within range passes through
	assertInterval(t, NewInterval64(0, 3).ModFloor(4), 0, 3)
	// Otherwise the full remainder range results
	assertInterval(t, NewInterval64(0, 9).ModFloor(4), 0, 3)
	assertInterval(t, NewInterval64(-7, 7).ModFloor(4), 0, 3)
	// Truncated remainders take the dividend's sign
	assertInterval(t, NewInterval64(-7, 7).ModTrunc(4), -3, 3)
	assertInterval(t, NewInterval64(-7, -1).ModTrunc(4), -3, 0)
	assertInterval(t, NewInterval64(1, 7).ModTrunc(4), 0, 3)
}

func TestIntervalInfinities(t *testing.T) {
	assert.False(t, INFINITY.IsFinite())
	//
	sum := INFINITY.Add(Point(1))
	assert.False(t, sum.IsFinite())
	// Division keeps the direction of the infinity
	div := INFINITY.DivFloor(4)
	assert.False(t, div.IsFinite())
	//
	half := NewInterval(NewInfInt(0), PosInfinity)
	lo := half.Min()
	assert.Equal(t, 0, lo.CmpInt64(0))
}

func TestIntervalContains(t *testing.T) {
	iv := NewInterval64(-3, 5)
	//
	assert.True(t, iv.Contains(-3))
	assert.True(t, iv.Contains(0))
	assert.True(t, iv.Contains(5))
	assert.False(t, iv.Contains(6))
	assert.False(t, iv.Contains(-4))
}

func TestIntervalIntersect(t *testing.T) {
	a := NewInterval64(0, 9)
	b := NewInterval64(5, 12)
	//
	res, ok := a.Intersect(b)
	require.True(t, ok)
	assertInterval(t, res, 5, 9)
	//
	_, ok = NewInterval64(0, 2).Intersect(NewInterval64(5, 7))
	assert.False(t, ok)
}

func TestInfIntOrdering(t *testing.T) {
	one := NewInfInt(1)
	two := NewInfInt(2)
	//
	assert.Equal(t, -1, one.Cmp(two))
	assert.Equal(t, 1, two.Cmp(one))
	assert.Equal(t, -1, NegInfinity.Cmp(one))
	assert.Equal(t, 1, PosInfinity.Cmp(one))
	//
	min := PosInfinity.Min(one)
	assert.Equal(t, 0, min.CmpInt64(1))
	//
	max := NegInfinity.Max(two)
	assert.Equal(t, 0, max.CmpInt64(2))
}
