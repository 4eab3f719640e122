// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package addresshash caches keccak-256 digests of init code so that a
// contract deployed repeatedly via CREATE2 from the same init code (a
// common pattern for deterministic factory deployments) does not re-hash
// potentially large init code on every derivation.
package addresshash

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/strata-chain/strata-evm/evm"
)

// defaultSize mirrors the size the teacher project's converter cache uses
// for hot-path code artifacts.
const defaultSize = 1024

// Cache memoizes keccak256(initcode) keyed by the init code bytes
// themselves, wrapping an evm.Hasher.
type Cache struct {
	hasher evm.Hasher
	hashes *lru.Cache[string, evm.Hash]
}

// New wraps hasher with an LRU cache of the given size (defaultSize if
// size <= 0).
func New(hasher evm.Hasher, size int) *Cache {
	if size <= 0 {
		size = defaultSize
	}
	cache, err := lru.New[string, evm.Hash](size)
	if err != nil {
		// Only possible if size <= 0, which is excluded above.
		panic(err)
	}
	return &Cache{hasher: hasher, hashes: cache}
}

// InitCodeHash returns keccak256(initcode), serving from cache when the
// exact same init code byte string was hashed before.
func (c *Cache) InitCodeHash(initcode []byte) evm.Hash {
	key := string(initcode)
	if h, ok := c.hashes.Get(key); ok {
		return h
	}
	h := c.hasher.Keccak256(initcode)
	c.hashes.Add(key, h)
	return h
}

// Keccak256 implements evm.Hasher, delegating to the wrapped hasher
// directly (only init-code hashing is memoized; arbitrary digests are
// not worth caching).
func (c *Cache) Keccak256(data []byte) evm.Hash {
	return c.hasher.Keccak256(data)
}
