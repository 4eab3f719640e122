// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package evm defines the value types and external collaborator
// interfaces shared by the execution engine: addresses, 256-bit words,
// gas amounts, and the World-State / Interpreter / Precompile boundaries
// the engine consults without owning.
package evm

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

// Address is a 20-byte account address.
type Address [20]byte

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Hash is a 32-byte keccak-256 digest.
type Hash [32]byte

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Key identifies a storage slot within an account.
type Key [32]byte

// Word is a 32-byte, big-endian encoded 256-bit EVM value.
type Word [32]byte

// ToUint256 interprets w as a big-endian 256-bit unsigned integer.
func (w Word) ToUint256() *uint256.Int {
	var u uint256.Int
	u.SetBytes(w[:])
	return &u
}

// WordFromUint256 encodes u as a big-endian 32-byte Word.
func WordFromUint256(u *uint256.Int) Word {
	var w Word
	b := u.Bytes32()
	copy(w[:], b[:])
	return w
}

// WordFromUint64 encodes v as a big-endian 32-byte Word.
func WordFromUint64(v uint64) Word {
	var w Word
	w[24] = byte(v >> 56)
	w[25] = byte(v >> 48)
	w[26] = byte(v >> 40)
	w[27] = byte(v >> 32)
	w[28] = byte(v >> 24)
	w[29] = byte(v >> 16)
	w[30] = byte(v >> 8)
	w[31] = byte(v)
	return w
}

func (w Word) String() string {
	return "0x" + hex.EncodeToString(w[:])
}

// Code is executable contract bytecode or init code.
type Code []byte

// Gas is a signed gas quantity; negative values represent exhaustion and
// must never be observed by a caller (engine code treats going negative
// as ErrOutOfGas).
type Gas int64

// Data is an opaque byte payload: calldata, return data or log data.
type Data []byte

// SizeInWords returns the number of 32-byte words needed to hold size
// bytes (size/32 rounded up). If size+31 overflows a uint64, it returns
// size unchanged.
func SizeInWords(size uint64) uint64 {
	if size == 0 {
		return 0
	}
	words := (size + 31) / 32
	if words < size/32 {
		// overflowed; caller is expected to reject the size long before
		// reaching this point, this is a last-resort guard.
		return size
	}
	return words
}

// CallKind distinguishes the six ways a Frame can be entered.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	StaticCall
	CallCode
	Create
	Create2
)

func (k CallKind) String() string {
	switch k {
	case Call:
		return "call"
	case DelegateCall:
		return "delegatecall"
	case StaticCall:
		return "staticcall"
	case CallCode:
		return "callcode"
	case Create:
		return "create"
	case Create2:
		return "create2"
	default:
		return fmt.Sprintf("CallKind(%d)", int(k))
	}
}

// IsCreate reports whether k spawns a contract-creation frame.
func (k CallKind) IsCreate() bool {
	return k == Create || k == Create2
}
