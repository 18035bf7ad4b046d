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
	"slices"
	"sort"
)

// Comparable provides an interface which types used in a SortedSet must
// implement.
type Comparable[T any] interface {
	// Cmp returns < 0 if this is less than other, or 0 if they are equal, or
	// > 0 if this is greater than other.
	Cmp(other T) int
}

// SortedSet is an array of unique values held in ascending order.  The zero
// value is an empty set ready for use.
type SortedSet[T Comparable[T]] []T

// NewSortedSet creates a sorted set from a given array by cloning, sorting
// and deduplicating it.  The given array is not mutated.
func NewSortedSet[T Comparable[T]](items ...T) SortedSet[T] {
	var nitems SortedSet[T] = slices.Clone(items)
	//
	slices.SortFunc(nitems, func(a, b T) int { return a.Cmp(b) })
	//
	return slices.CompactFunc(nitems, func(a, b T) bool { return a.Cmp(b) == 0 })
}

// Len returns the number of elements in this set.
func (p *SortedSet[T]) Len() int {
	return len(*p)
}

// LowerBound returns the index of the first element which is not less than
// the given one.  This may be one past the end of the set.
func (p *SortedSet[T]) LowerBound(element T) int {
	return sort.Search(len(*p), func(i int) bool {
		return (*p)[i].Cmp(element) >= 0
	})
}

// Contains checks whether a given element is in this set.
func (p *SortedSet[T]) Contains(element T) bool {
	i := p.LowerBound(element)
	return i < len(*p) && (*p)[i].Cmp(element) == 0
}

// Insert a given element into this set, unless it is already present.
func (p *SortedSet[T]) Insert(element T) {
	i := p.LowerBound(element)
	if i < len(*p) && (*p)[i].Cmp(element) == 0 {
		return
	}
	//
	*p = slices.Insert(*p, i, element)
}

// RemoveAt removes the element at a given index from this set.
func (p *SortedSet[T]) RemoveAt(index int) {
	*p = slices.Delete(*p, index, index+1)
}

// Union returns the merge of two sorted sets.
func Union[T Comparable[T]](lhs SortedSet[T], rhs SortedSet[T]) SortedSet[T] {
	res := make(SortedSet[T], 0, len(lhs)+len(rhs))
	i, j := 0, 0
	//
	for i < len(lhs) && j < len(rhs) {
		c := lhs[i].Cmp(rhs[j])
		//
		switch {
		case c < 0:
			res = append(res, lhs[i])
			i++
		case c > 0:
			res = append(res, rhs[j])
			j++
		default:
			res = append(res, lhs[i])
			i++
			j++
		}
	}
	//
	res = append(res, lhs[i:]...)
	res = append(res, rhs[j:]...)
	//
	return res
}

// Intersection returns the elements common to two sorted sets.
func Intersection[T Comparable[T]](lhs SortedSet[T], rhs SortedSet[T]) SortedSet[T] {
	var res SortedSet[T]
	//
	i, j := 0, 0
	for i < len(lhs) && j < len(rhs) {
		c := lhs[i].Cmp(rhs[j])
		//
		switch {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			res = append(res, lhs[i])
			i++
			j++
		}
	}
	//
	return res
}

// Difference returns the elements of the first set not present in the
// second.
func Difference[T Comparable[T]](lhs SortedSet[T], rhs SortedSet[T]) SortedSet[T] {
	var res SortedSet[T]
	//
	i, j := 0, 0
	for i < len(lhs) && j < len(rhs) {
		c := lhs[i].Cmp(rhs[j])
		//
		switch {
		case c < 0:
			res = append(res, lhs[i])
			i++
		case c > 0:
			j++
		default:
			i++
			j++
		}
	}
	//
	res = append(res, lhs[i:]...)
	//
	return res
}
