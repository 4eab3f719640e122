// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package rlp implements the subset of Recursive Length Prefix encoding
// needed to derive a CREATE contract address: encoding a two-element
// list of a 20-byte address and a uint64 nonce.
package rlp

// EncodeAddressNonce returns the RLP encoding of the two-element list
// [address, nonce], matching the Ethereum Yellow Paper's definition of
// the payload hashed to derive a CREATE address.
func EncodeAddressNonce(address []byte, nonce uint64) []byte {
	payload := append(encodeBytes(address), encodeUint(nonce)...)
	return wrapList(payload)
}

// encodeBytes RLP-encodes an arbitrary byte string.
func encodeBytes(data []byte) []byte {
	n := len(data)
	if n == 1 && data[0] <= 0x7f {
		return []byte{data[0]}
	}
	if n <= 55 {
		buf := make([]byte, 1+n)
		buf[0] = 0x80 + byte(n)
		copy(buf[1:], data)
		return buf
	}
	lenBytes := bigEndianMinimal(uint64(n))
	buf := make([]byte, 1+len(lenBytes)+n)
	buf[0] = 0xb7 + byte(len(lenBytes))
	copy(buf[1:], lenBytes)
	copy(buf[1+len(lenBytes):], data)
	return buf
}

// encodeUint RLP-encodes a uint64 using the same "minimal big-endian,
// empty string for zero" rule RLP applies to all integers: a nonce below
// 0x80 folds into a single byte, everything else is encoded as a byte
// string with its leading zeros stripped.
func encodeUint(u uint64) []byte {
	if u == 0 {
		return []byte{0x80}
	}
	if u < 0x80 {
		return []byte{byte(u)}
	}
	return encodeBytes(bigEndianMinimal(u))
}

func wrapList(payload []byte) []byte {
	n := len(payload)
	if n <= 55 {
		buf := make([]byte, 1+n)
		buf[0] = 0xc0 + byte(n)
		copy(buf[1:], payload)
		return buf
	}
	lenBytes := bigEndianMinimal(uint64(n))
	buf := make([]byte, 1+len(lenBytes)+n)
	buf[0] = 0xf7 + byte(len(lenBytes))
	copy(buf[1:], lenBytes)
	copy(buf[1+len(lenBytes):], payload)
	return buf
}

// bigEndianMinimal encodes u as big-endian bytes with no leading zero byte.
func bigEndianMinimal(u uint64) []byte {
	var tmp [8]byte
	tmp[0] = byte(u >> 56)
	tmp[1] = byte(u >> 48)
	tmp[2] = byte(u >> 40)
	tmp[3] = byte(u >> 32)
	tmp[4] = byte(u >> 24)
	tmp[5] = byte(u >> 16)
	tmp[6] = byte(u >> 8)
	tmp[7] = byte(u)
	i := 0
	for i < len(tmp) && tmp[i] == 0 {
		i++
	}
	return tmp[i:]
}
