// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package address computes the two deterministic contract addresses the
// engine's CreateHelper assigns to newly created accounts.
package address

import (
	"github.com/strata-chain/strata-evm/evm"
	"github.com/strata-chain/strata-evm/rlp"
)

// Create derives the address assigned to a CREATE-created contract:
// the low 20 bytes of keccak256(rlp([sender, nonce])).
func Create(hasher evm.Hasher, sender evm.Address, nonce uint64) evm.Address {
	encoded := rlp.EncodeAddressNonce(sender[:], nonce)
	digest := hasher.Keccak256(encoded)
	var addr evm.Address
	copy(addr[:], digest[12:])
	return addr
}

// Create2 derives the address assigned to a CREATE2-created contract:
// the low 20 bytes of keccak256(0xff ++ sender ++ salt ++ keccak256(initcode)).
func Create2(hasher evm.Hasher, sender evm.Address, salt evm.Word, initcode []byte) evm.Address {
	return Create2FromHash(hasher, sender, salt, hasher.Keccak256(initcode))
}

// Create2FromHash derives a CREATE2 address from an already-computed
// keccak256(initcode), letting a caller memoize that hash (e.g. via
// addresshash.Cache) across repeated deployments of the same init code
// instead of re-hashing it on every derivation.
func Create2FromHash(hasher evm.Hasher, sender evm.Address, salt evm.Word, initcodeHash evm.Hash) evm.Address {
	buf := make([]byte, 0, 1+20+32+32)
	buf = append(buf, 0xff)
	buf = append(buf, sender[:]...)
	buf = append(buf, salt[:]...)
	buf = append(buf, initcodeHash[:]...)

	digest := hasher.Keccak256(buf)
	var addr evm.Address
	copy(addr[:], digest[12:])
	return addr
}
