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
	"bytes"
	"math"
	"testing"

	"github.com/strata-chain/strata-evm/evm"
)

func TestMemory_ExpansionCost_ComputesCorrectCosts(t *testing.T) {
	tests := []struct {
		size uint64
		cost evm.Gas
	}{
		{0, 0},
		{1, 3},
		{32, 3},
		{33, 6},
		{64, 6},
		{65, 9},
		{22 * 32, 3 * 22},
		{23 * 32, (23*23)/512 + 3*23},
		{maxMemoryExpansionSize - 33, 36028809870311418},
		{maxMemoryExpansionSize - 1, 36028809887088637},
		{maxMemoryExpansionSize, 36028809887088637},
		{maxMemoryExpansionSize + 1, math.MaxInt64},
		{math.MaxInt64, math.MaxInt64},
	}

	for _, test := range tests {
		m := NewMemory()
		cost := m.ExpansionCost(test.size)
		if cost != test.cost {
			t.Errorf("ExpansionCost(%d) = %d, want %d", test.size, cost, test.cost)
		}
	}
}

func TestMemory_ExpansionCost_OnlyChargesMarginalCost(t *testing.T) {
	m := NewMemory()
	first := m.ExpansionCost(64)
	m.Grow(64)
	second := m.ExpansionCost(96)
	if first != 6 {
		t.Fatalf("first expansion cost = %d, want 6", first)
	}
	if second != 3 {
		t.Fatalf("marginal expansion cost = %d, want 3", second)
	}
}

func TestMemory_Grow_IsIdempotentWhenAlreadyLargeEnough(t *testing.T) {
	m := NewMemory()
	m.Grow(64)
	before := m.Len()
	m.Grow(32)
	if m.Len() != before {
		t.Fatalf("memory shrank from %d to %d", before, m.Len())
	}
}

func TestMemory_SetAndRead_RoundTrip(t *testing.T) {
	m := NewMemory()
	data := []byte{1, 2, 3, 4, 5}
	m.Set(10, data)
	got := m.Read(10, 5)
	if !bytes.Equal(got, data) {
		t.Fatalf("got %x, want %x", got, data)
	}
}

func TestMemory_Read_ZeroPadsPastEndWithoutGrowing(t *testing.T) {
	m := NewMemory()
	m.Set(0, []byte{0xAA})
	before := m.Len()
	got := m.Read(0, 64)
	if m.Len() != before {
		t.Fatalf("Read grew memory from %d to %d", before, m.Len())
	}
	want := make([]byte, 64)
	want[0] = 0xAA
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestMemory_GetSlice_GrowsAndReturnsLiveView(t *testing.T) {
	m := NewMemory()
	s := m.GetSlice(0, 32)
	s[0] = 0x42
	if m.store[0] != 0x42 {
		t.Fatal("GetSlice did not return a live view into memory")
	}
}
