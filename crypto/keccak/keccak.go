// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package keccak provides the default evm.Hasher implementation used by
// the engine when no host-supplied hasher is wired in.
package keccak

import (
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/strata-chain/strata-evm/evm"
)

// SHA3Hasher implements evm.Hasher using a pool of reusable
// golang.org/x/crypto/sha3 Keccak-256 states, avoiding a fresh allocation
// on every call in hot address-derivation loops.
type SHA3Hasher struct{}

var hasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

var emptyHash = computeFresh(nil)

// Keccak256 returns the Keccak-256 digest of data.
func (SHA3Hasher) Keccak256(data []byte) evm.Hash {
	if len(data) == 0 {
		return emptyHash
	}
	h := hasherPool.Get().(hasher)
	h.Reset()
	h.Write(data)
	var out evm.Hash
	h.Read(out[:])
	hasherPool.Put(h)
	return out
}

type hasher interface {
	Reset()
	Write([]byte) (int, error)
	Read([]byte) (int, error)
}

func computeFresh(data []byte) evm.Hash {
	h := sha3.NewLegacyKeccak256().(hasher)
	h.Write(data)
	var out evm.Hash
	h.Read(out[:])
	return out
}
