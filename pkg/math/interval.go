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
	"fmt"
)

// INFINITY represents the interval which encloses all other intervals.
var INFINITY Interval = Interval{NegInfinity, PosInfinity}

// Interval provides a discrete range of integers, such as 0..1, 1..18, etc.
// An interval is used to overapproximate the possible values that a given
// symbolic expression could evaluate to.  Either end can be an infinity,
// signalling that the corresponding bound could not be inferred.
type Interval struct {
	min InfInt
	max InfInt
}

// NewInterval creates an interval covering a given pair of bounds.
func NewInterval(lower InfInt, upper InfInt) Interval {
	if lower.IsFinite() && upper.IsFinite() && lower.Cmp(upper) > 0 {
		panic(fmt.Sprintf("invalid interval (%s..%s)", lower.String(), upper.String()))
	}
	//
	return Interval{lower, upper}
}

// NewInterval64 creates an interval covering a given pair of finite bounds.
func NewInterval64(lower int64, upper int64) Interval {
	return NewInterval(NewInfInt(lower), NewInfInt(upper))
}

// Point creates the interval holding exactly one value.
func Point(val int64) Interval {
	return NewInterval64(val, val)
}

// IsFinite determines whether or not both ends of this interval are finite.
func (p *Interval) IsFinite() bool {
	return p.min.IsFinite() && p.max.IsFinite()
}

// Min returns the lower bound of this interval.
func (p *Interval) Min() InfInt { return p.min }

// Max returns the upper bound of this interval.
func (p *Interval) Max() InfInt { return p.max }

// Contains checks whether a given value is contained within this interval.
func (p *Interval) Contains(val int64) bool {
	return p.min.CmpInt64(val) <= 0 && p.max.CmpInt64(val) >= 0
}

// Add two intervals together.
func (p Interval) Add(q Interval) Interval {
	return Interval{p.min.Add(q.min), p.max.Add(q.max)}
}

// Sub subtracts another interval from this.
func (p Interval) Sub(q Interval) Interval {
	return Interval{p.min.Sub(q.max), p.max.Sub(q.min)}
}

// Mul multiplies this interval by another.
func (p Interval) Mul(q Interval) Interval {
	x1 := p.min.Mul(q.min)
	x2 := p.min.Mul(q.max)
	x3 := p.max.Mul(q.min)
	x4 := p.max.Mul(q.max)
	//
	min := x1.Min(x2)
	min = min.Min(x3)
	min = min.Min(x4)
	//
	max := x1.Max(x2)
	max = max.Max(x3)
	max = max.Max(x4)
	//
	return Interval{min, max}
}

// Negate flips this interval around zero.
func (p Interval) Negate() Interval {
	return Interval{p.max.Negate(), p.min.Negate()}
}

// Union returns the smallest interval enclosing both operands.
func (p Interval) Union(other Interval) Interval {
	return Interval{p.min.Min(other.min), p.max.Max(other.max)}
}

// Intersect returns the largest interval enclosed by both operands, along
// with a flag indicating whether the intersection is non-empty.
func (p Interval) Intersect(other Interval) (Interval, bool) {
	min := p.min.Max(other.min)
	max := p.max.Min(other.max)
	//
	if min.IsFinite() && max.IsFinite() && min.Cmp(max) > 0 {
		return Interval{}, false
	}
	//
	return Interval{min, max}, true
}

// MinOf returns the interval enclosing the pointwise minimum of two
// intervals.
func (p Interval) MinOf(q Interval) Interval {
	return Interval{p.min.Min(q.min), p.max.Min(q.max)}
}

// MaxOf returns the interval enclosing the pointwise maximum of two
// intervals.
func (p Interval) MaxOf(q Interval) Interval {
	return Interval{p.min.Max(q.min), p.max.Max(q.max)}
}

// DivFloor divides this interval by a non-zero constant, rounding towards
// negative infinity.  Flooring division is monotone, hence the bounds divide
// pointwise (swapping for negative divisors).
func (p Interval) DivFloor(div int64) Interval {
	if div == 0 {
		panic("interval division by zero")
	}
	//
	d := NewInfInt(div)
	lo := p.min.DivFloor(d)
	hi := p.max.DivFloor(d)
	//
	if div < 0 {
		lo, hi = hi, lo
	}
	//
	return Interval{lo, hi}
}

// DivTrunc divides this interval by a non-zero constant, rounding towards
// zero.  Every truncated quotient sits between the floor quotient and the
// floor quotient plus one, with the latter only possible below zero.
func (p Interval) DivTrunc(div int64) Interval {
	floored := p.DivFloor(div)
	//
	hi := floored.max
	if hi.IsFinite() && hi.CmpInt64(0) < 0 {
		hi = hi.Add(NewInfInt(1))
	}
	//
	return Interval{floored.min, hi}
}

// ModFloor computes the interval of flooring remainders for a non-zero
// constant divisor.  The result lies within [0, |div|-1] for positive
// divisors and within [-(|div|-1), 0] for negative ones, and shrinks to the
// dividend interval when that is already within range.
func (p Interval) ModFloor(div int64) Interval {
	if div == 0 {
		panic("interval modulo by zero")
	}
	//
	abs := div
	if abs < 0 {
		abs = -abs
	}
	//
	full := NewInterval64(0, abs-1)
	if div < 0 {
		full = NewInterval64(-(abs - 1), 0)
	}
	// When the dividend already lies within the remainder range, the modulo
	// is the identity.
	if p.IsFinite() {
		if within, ok := p.Intersect(full); ok && p.min.Cmp(within.min) == 0 && p.max.Cmp(within.max) == 0 {
			return p
		}
	}
	//
	return full
}

// ModTrunc computes the interval of truncated remainders for a non-zero
// constant divisor.  Truncated remainders take the sign of the dividend, so
// the result spans (-|div|, |div|) in general.
func (p Interval) ModTrunc(div int64) Interval {
	if div == 0 {
		panic("interval modulo by zero")
	}
	//
	abs := div
	if abs < 0 {
		abs = -abs
	}
	// Non-negative dividends behave exactly like flooring remainders
	if p.min.IsFinite() && p.min.CmpInt64(0) >= 0 {
		q := p.ModFloor(abs)
		return q
	}
	// Non-positive dividends mirror them
	if p.max.IsFinite() && p.max.CmpInt64(0) <= 0 {
		q := p.Negate().ModFloor(abs)
		return q.Negate()
	}
	//
	return NewInterval64(-(abs - 1), abs-1)
}

func (p *Interval) String() string {
	return fmt.Sprintf("(%s..%s)", p.min.String(), p.max.String())
}
