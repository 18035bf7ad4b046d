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
package set

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// item wraps an int for use in a SortedSet.
type item struct {
	value int
}

func (p item) Cmp(o item) int {
	return cmp.Compare(p.value, o.value)
}

func items(values ...int) SortedSet[item] {
	res := make([]item, len(values))
	for i, v := range values {
		res[i] = item{v}
	}
	//
	return NewSortedSet(res...)
}

func values(s SortedSet[item]) []int {
	res := make([]int, len(s))
	for i, it := range s {
		res[i] = it.value
	}
	//
	return res
}

func TestSortedSetConstruction(t *testing.T) {
	s := items(3, 1, 2, 3, 1)
	assert.Equal(t, []int{1, 2, 3}, values(s))
}

func TestSortedSetInsert(t *testing.T) {
	var s SortedSet[item]
	//
	s.Insert(item{5})
	s.Insert(item{1})
	s.Insert(item{3})
	s.Insert(item{3})
	//
	assert.Equal(t, []int{1, 3, 5}, values(s))
	assert.Equal(t, 3, s.Len())
}

func TestSortedSetLowerBound(t *testing.T) {
	s := items(1, 3, 5)
	//
	assert.Equal(t, 0, s.LowerBound(item{0}))
	assert.Equal(t, 1, s.LowerBound(item{2}))
	assert.Equal(t, 1, s.LowerBound(item{3}))
	assert.Equal(t, 3, s.LowerBound(item{9}))
}

func TestSortedSetContains(t *testing.T) {
	s := items(1, 3, 5)
	//
	assert.True(t, s.Contains(item{3}))
	assert.False(t, s.Contains(item{4}))
}

func TestSortedSetRemoveAt(t *testing.T) {
	s := items(1, 3, 5)
	s.RemoveAt(1)
	//
	assert.Equal(t, []int{1, 5}, values(s))
}

func TestSortedSetOperations(t *testing.T) {
	a := items(1, 2, 3, 5)
	b := items(2, 4, 5)
	//
	assert.Equal(t, []int{1, 2, 3, 4, 5}, values(Union(a, b)))
	assert.Equal(t, []int{2, 5}, values(Intersection(a, b)))
	assert.Equal(t, []int{1, 3}, values(Difference(a, b)))
	assert.Equal(t, []int{4}, values(Difference(b, a)))
}

func TestSortedSetOperationsEmpty(t *testing.T) {
	var empty SortedSet[item]
	a := items(1, 2)
	//
	assert.Equal(t, []int{1, 2}, values(Union(a, empty)))
	assert.Empty(t, Intersection(a, empty))
	assert.Equal(t, []int{1, 2}, values(Difference(a, empty)))
	assert.Empty(t, Difference(empty, a))
}
