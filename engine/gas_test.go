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
	"testing"

	"github.com/strata-chain/strata-evm/evm"
)

func TestGasMeter_Charge_DeductsWhenSufficient(t *testing.T) {
	g := NewGasMeter(100)
	if ok := g.Charge(40); !ok {
		t.Fatal("Charge(40) should have succeeded with 100 available")
	}
	if g.Left() != 60 {
		t.Fatalf("Left() = %d, want 60", g.Left())
	}
}

func TestGasMeter_Charge_ZeroesOnOverdraw(t *testing.T) {
	g := NewGasMeter(10)
	if ok := g.Charge(20); ok {
		t.Fatal("Charge(20) should have failed with only 10 available")
	}
	if g.Left() != 0 {
		t.Fatalf("Left() = %d, want 0 after overdraw", g.Left())
	}
}

func TestGasMeter_Refund(t *testing.T) {
	g := NewGasMeter(0)
	g.Refund(50)
	if g.Left() != 50 {
		t.Fatalf("Left() = %d, want 50", g.Left())
	}
}

func TestCallGasCap_63Over64Rule(t *testing.T) {
	tests := []struct {
		available evm.Gas
		want      evm.Gas
	}{
		{640000, 630000},
		{64, 63},
		{63, 62},
		{0, 0},
	}
	for _, test := range tests {
		got := CallGasCap(test.available)
		if got != test.want {
			t.Errorf("CallGasCap(%d) = %d, want %d", test.available, got, test.want)
		}
	}
}

func TestForwardedGas_ScenarioFourFromSpecification(t *testing.T) {
	// caller has gas_left=640000 and requests 1_000_000 forwarded;
	// 640000/64 = 10000 exactly, so the 63/64 cap yields 630000.
	got := ForwardedGas(1_000_000, 640_000)
	want := evm.Gas(630_000)
	if got != want {
		t.Fatalf("ForwardedGas = %d, want %d", got, want)
	}
}

func TestForwardedGas_RequestBelowCapIsHonored(t *testing.T) {
	got := ForwardedGas(100, 1_000_000)
	if got != 100 {
		t.Fatalf("ForwardedGas = %d, want 100", got)
	}
}
