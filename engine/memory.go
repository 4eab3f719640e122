// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package engine implements the system-operations subsystem of the
// execution engine: linear memory, the operand stack, gas accounting,
// the journaled state overlay, and the CALL/CREATE/RETURN/REVERT/
// SELFDESTRUCT machinery built on top of them.
package engine

import (
	"math"

	"github.com/strata-chain/strata-evm/evm"
)

// maxMemoryExpansionSize bounds how large memory is ever allowed to grow,
// matching the point at which the quadratic expansion cost alone would
// already exceed any plausible block gas limit.
const maxMemoryExpansionSize = 0x1FFFFFFFE0

// Memory is a frame's linear, byte-addressable scratch space. It grows in
// whole words and remembers the cumulative gas already paid for its
// current size so that later expansions are only charged the marginal
// cost.
type Memory struct {
	store             []byte
	currentMemoryCost evm.Gas
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Len returns the current size of memory in bytes.
func (m *Memory) Len() uint64 {
	return uint64(len(m.store))
}

// toValidMemorySize rounds size up to the next whole word, saturating to
// math.MaxUint64 on overflow rather than wrapping around to a small size.
func toValidMemorySize(size uint64) uint64 {
	words := evm.SizeInWords(size)
	full := words * 32
	if size != 0 && full < size {
		return math.MaxUint64
	}
	return full
}

// ExpansionCost returns the additional gas required to grow memory to at
// least size bytes, without actually performing the expansion. It returns
// 0 if memory is already that large.
func (m *Memory) ExpansionCost(size uint64) evm.Gas {
	if m.Len() >= size {
		return 0
	}
	size = toValidMemorySize(size)
	if size > maxMemoryExpansionSize {
		return evm.Gas(math.MaxInt64)
	}
	words := evm.SizeInWords(size)
	newCost := evm.Gas((words*words)/512 + 3*words)
	return newCost - m.currentMemoryCost
}

// Grow expands memory to at least size bytes without charging gas; the
// caller (GasMeter-aware code in this package) is responsible for having
// already charged ExpansionCost(size).
func (m *Memory) Grow(size uint64) {
	size = toValidMemorySize(size)
	if m.Len() >= size {
		return
	}
	m.currentMemoryCost += m.ExpansionCost(size)
	m.store = append(m.store, make([]byte, size-m.Len())...)
}

// Set writes data at offset, growing memory first if necessary. The
// caller must have already charged the expansion gas via ExpansionCost.
func (m *Memory) Set(offset uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	m.Grow(offset + uint64(len(data)))
	copy(m.store[offset:], data)
}

// Read returns a copy of the size bytes at offset, zero-padding past the
// end of memory rather than growing it (used for CALL input staging and
// RETURN/REVERT output, both of which must not silently expand memory as
// a side effect of reading it).
func (m *Memory) Read(offset, size uint64) []byte {
	out := make([]byte, size)
	if offset >= m.Len() || size == 0 {
		return out
	}
	end := offset + size
	if end > m.Len() {
		end = m.Len()
	}
	copy(out, m.store[offset:end])
	return out
}

// GetSlice returns a direct view into memory, growing it first if
// necessary. The caller must have already charged the expansion gas.
func (m *Memory) GetSlice(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	m.Grow(offset + size)
	return m.store[offset : offset+size]
}
