// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package engine

import (
	"github.com/holiman/uint256"

	"github.com/strata-chain/strata-evm/evm"
)

// SplitFelt splits a 256-bit word into its high and low 128-bit halves.
func SplitFelt(x *uint256.Int) (high, low uint256.Int) {
	bytes := x.Bytes32()
	low.SetBytes(bytes[16:])
	high.SetBytes(bytes[:16])
	return high, low
}

// ToU256 recombines a (low, high) pair of 128-bit halves into a 256-bit
// word: result = low + high*2^128.
func ToU256(low, high *uint256.Int) *uint256.Int {
	shifted := new(uint256.Int).Lsh(high, 128)
	return new(uint256.Int).Add(shifted, low)
}

// Uint256ToUint160 truncates x to its low 160 bits, the transformation
// used whenever a Stack word is interpreted as an account address.
func Uint256ToUint160(x *uint256.Int) evm.Address {
	bytes := x.Bytes32()
	var addr evm.Address
	copy(addr[:], bytes[12:])
	return addr
}

// AddressToUint256 widens an address back out to a 256-bit word with the
// high 96 bits zeroed, the inverse of Uint256ToUint160.
func AddressToUint256(addr evm.Address) *uint256.Int {
	var bytes [32]byte
	copy(bytes[12:], addr[:])
	var u uint256.Int
	u.SetBytes(bytes[:])
	return &u
}

// Uint256Lt reports whether a < b, treating both as unsigned 256-bit
// integers.
func Uint256Lt(a, b *uint256.Int) bool {
	return a.Lt(b)
}
