// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package address

import (
	"encoding/hex"
	"testing"

	"github.com/strata-chain/strata-evm/crypto/keccak"
	"github.com/strata-chain/strata-evm/evm"
)

func mustAddress(t *testing.T, hexStr string) evm.Address {
	t.Helper()
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	var a evm.Address
	copy(a[:], b)
	return a
}

func TestCreate_AddressDeterminism(t *testing.T) {
	sender := mustAddress(t, "6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	got := Create(keccak.SHA3Hasher{}, sender, 0)
	want := mustAddress(t, "cd234a471b72ba2f1ccf0a70fcaba648a5eecd8d")
	if got != want {
		t.Fatalf("Create(%v, 0) = %v, want %v", sender, got, want)
	}
}

func TestCreate_IsDeterministicAcrossRuns(t *testing.T) {
	sender := mustAddress(t, "6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	a := Create(keccak.SHA3Hasher{}, sender, 5)
	b := Create(keccak.SHA3Hasher{}, sender, 5)
	if a != b {
		t.Fatalf("Create is not deterministic: %v != %v", a, b)
	}
}

func TestCreate2_KnownVector(t *testing.T) {
	var sender evm.Address
	var salt evm.Word
	initcode := []byte{0x00}

	got := Create2(keccak.SHA3Hasher{}, sender, salt, initcode)
	want := mustAddress(t, "4d1a2e2bb4f88f0250f26ffff098b0b30b26bf38")
	if got != want {
		t.Fatalf("Create2 = %v, want %v", got, want)
	}
}

func TestCreate2_IsDeterministicForFixedInputs(t *testing.T) {
	sender := mustAddress(t, "1111111111111111111111111111111111111111")
	salt := evm.WordFromUint64(42)
	initcode := []byte{0x60, 0x00, 0x60, 0x00}

	a := Create2(keccak.SHA3Hasher{}, sender, salt, initcode)
	b := Create2(keccak.SHA3Hasher{}, sender, salt, initcode)
	if a != b {
		t.Fatalf("Create2 is not deterministic: %v != %v", a, b)
	}
}

func TestCreate2FromHash_MatchesCreate2(t *testing.T) {
	sender := mustAddress(t, "1111111111111111111111111111111111111111")
	salt := evm.WordFromUint64(42)
	initcode := []byte{0x60, 0x00, 0x60, 0x00}
	hasher := keccak.SHA3Hasher{}

	want := Create2(hasher, sender, salt, initcode)
	got := Create2FromHash(hasher, sender, salt, hasher.Keccak256(initcode))
	if got != want {
		t.Fatalf("Create2FromHash = %v, want %v (matching Create2)", got, want)
	}
}
