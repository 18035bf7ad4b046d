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
	"math/big"
)

const notAnInfinity = 0
const negativeInfinity = 1
const positiveInfinity = 2
const infinity = 3

// PosInfinity represents positive infinity
var PosInfinity = InfInt{big.Int{}, positiveInfinity}

// NegInfinity represents negative infinity
var NegInfinity = InfInt{big.Int{}, negativeInfinity}

// Infinity represents plain infinity
var Infinity = InfInt{big.Int{}, infinity}

// InfInt represents an unbound (i.e. big) integer value which can,
// additionally, be either negative infinity, positive infinity or just
// infinity (i.e. which covers all negative and positive values).  Range
// evaluation of symbolic expressions uses these to signal bounds which could
// not be inferred.
type InfInt struct {
	// value of this integer; unused (zero) when this is a form of infinity.
	val big.Int
	// sign indicates whether we are not an infinity, or are negative infinity,
	// positive infinity or just plain infinity.
	sign uint8
}

// NewInfInt constructs a finite value from a given integer.
func NewInfInt(val int64) InfInt {
	var v big.Int
	//
	v.SetInt64(val)
	//
	return InfInt{v, notAnInfinity}
}

// Add two (potentially infinite) integers together.
func (p *InfInt) Add(other InfInt) InfInt {
	var val big.Int
	//
	switch {
	case p.sign == notAnInfinity && other.sign == notAnInfinity:
		val.Add(&p.val, &other.val)
		//
		return InfInt{val, notAnInfinity}
	case p.sign == notAnInfinity:
		return other
	case other.sign == notAnInfinity:
		return *p
	case p.sign == other.sign:
		return *p
	default:
		return Infinity
	}
}

// Sub subtracts a (potentially infinite) value from this (potentially
// infinite) value.
func (p *InfInt) Sub(other InfInt) InfInt {
	neg := other.Negate()
	return p.Add(neg)
}

// Mul multiplies a (potentially infinite) value against this (potentially
// infinite) value.  Multiplying any infinity by anything (even zero) yields
// some kind of infinity, which is a sound overapproximation.
func (p *InfInt) Mul(o InfInt) InfInt {
	var val big.Int
	//
	switch {
	case p.sign == notAnInfinity && o.sign == notAnInfinity:
		val.Mul(&p.val, &o.val)
		//
		return InfInt{val, notAnInfinity}
	case p.sign == infinity || o.sign == infinity:
		return Infinity
	case p.sign == negativeInfinity && o.sign == negativeInfinity:
		return PosInfinity
	case p.sign == negativeInfinity || o.sign == negativeInfinity:
		return NegInfinity
	default:
		return PosInfinity
	}
}

// DivFloor divides this value by a finite non-zero divisor, rounding towards
// negative infinity.  Infinities divide to themselves (for positive divisors)
// or flip sign (for negative divisors).
func (p *InfInt) DivFloor(div InfInt) InfInt {
	if div.sign != notAnInfinity || div.val.Sign() == 0 {
		panic("division by zero or infinite divisor")
	}
	//
	switch p.sign {
	case notAnInfinity:
		var q, m big.Int
		// Euclidean then adjust: big.Int DivMod gives Euclidean semantics
		q.DivMod(&p.val, &div.val, &m)
		// Euclidean and floor agree for positive divisors; fix up otherwise
		if div.val.Sign() < 0 && m.Sign() != 0 {
			q.Sub(&q, big.NewInt(1))
		}
		//
		return InfInt{q, notAnInfinity}
	case infinity:
		return Infinity
	case negativeInfinity:
		if div.val.Sign() > 0 {
			return NegInfinity
		}
		//
		return PosInfinity
	default:
		if div.val.Sign() > 0 {
			return PosInfinity
		}
		//
		return NegInfinity
	}
}

// Negate this (potentially infinite) integer.
func (p *InfInt) Negate() InfInt {
	switch p.sign {
	case positiveInfinity:
		return NegInfinity
	case negativeInfinity:
		return PosInfinity
	case infinity:
		return Infinity
	default:
		var val big.Int
		//
		val.Neg(&p.val)
		//
		return InfInt{val, notAnInfinity}
	}
}

// Cmp performs a comparison of two (potentially infinite) integer values.
// This will panic if either value is plain infinity.
func (p *InfInt) Cmp(o InfInt) int {
	switch {
	case p.sign == infinity || o.sign == infinity:
		panic("cannot compare against infinity")
	case p.sign == notAnInfinity && o.sign == notAnInfinity:
		return p.val.Cmp(&o.val)
	case p.sign == o.sign:
		return 0
	case p.sign == negativeInfinity || o.sign == positiveInfinity:
		return -1
	default:
		return 1
	}
}

// CmpInt64 compares a potentially infinite integer value against a finite
// machine integer.  This will panic if the first value is plain infinity.
func (p *InfInt) CmpInt64(other int64) int {
	switch p.sign {
	case infinity:
		panic("cannot compare against infinity")
	case notAnInfinity:
		return p.val.Cmp(big.NewInt(other))
	case negativeInfinity:
		return -1
	default:
		return 1
	}
}

// IsFinite returns true if this represents a finite integer value.
func (p *InfInt) IsFinite() bool {
	return p.sign == notAnInfinity
}

// Int64 converts a potentially infinite integer into a finite machine
// integer.  This will panic if this value is an infinity or does not fit.
func (p *InfInt) Int64() int64 {
	if p.sign != notAnInfinity || !p.val.IsInt64() {
		panic(fmt.Sprintf("cannot convert %s into an int64", p.String()))
	}
	//
	return p.val.Int64()
}

// Min determines the least of two values.  Note the semantics here are odd,
// as the minimum of plain infinity and anything is negative infinity!
func (p *InfInt) Min(o InfInt) InfInt {
	switch {
	case p.sign == notAnInfinity && o.sign == notAnInfinity:
		if p.val.Cmp(&o.val) <= 0 {
			return *p
		}
		//
		return o
	case p.sign == positiveInfinity && o.sign == positiveInfinity:
		return PosInfinity
	case p.sign == positiveInfinity:
		return o
	case o.sign == positiveInfinity:
		return *p
	default:
		return NegInfinity
	}
}

// Max determines the greatest of two values.  Note the semantics here are
// odd, as the maximum of plain infinity and anything is positive infinity!
func (p *InfInt) Max(o InfInt) InfInt {
	switch {
	case p.sign == notAnInfinity && o.sign == notAnInfinity:
		if p.val.Cmp(&o.val) >= 0 {
			return *p
		}
		//
		return o
	case p.sign == negativeInfinity && o.sign == negativeInfinity:
		return NegInfinity
	case p.sign == negativeInfinity:
		return o
	case o.sign == negativeInfinity:
		return *p
	default:
		return PosInfinity
	}
}

func (p *InfInt) String() string {
	switch p.sign {
	case negativeInfinity:
		return "-inf"
	case positiveInfinity:
		return "+inf"
	case infinity:
		return "inf"
	default:
		return p.val.String()
	}
}
