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

	"github.com/holiman/uint256"
	"go.uber.org/mock/gomock"

	"github.com/strata-chain/strata-evm/evm"
)

func newCallParentFrame(t *testing.T, gas evm.Gas) (*Frame, *evm.MockWorldState) {
	t.Helper()
	ws := evm.NewMockWorldState(gomock.NewController(t))
	ws.EXPECT().AccountExists(gomock.Any()).Return(false).AnyTimes()

	var caller evm.Address
	caller[0] = 0xAA

	msg := Message{Address: caller, Sender: caller, Depth: 0}
	frame := Init(msg, gas, NewState(ws))
	return frame, ws
}

func TestInitSubContext_Call_ForwardsCappedGas(t *testing.T) {
	parent, ws := newCallParentFrame(t, 640_000)
	ws.EXPECT().GetCode(gomock.Any()).Return(evm.Code(nil)).AnyTimes()
	ws.EXPECT().GetBalance(gomock.Any()).Return(evm.Word{}).AnyTimes()
	ws.EXPECT().GetNonce(gomock.Any()).Return(uint64(0)).AnyTimes()

	var target evm.Address
	target[19] = 0x01

	parent.Stack.Push(uint256.NewInt(0))  // ret_size
	parent.Stack.Push(uint256.NewInt(0))  // ret_offset
	parent.Stack.Push(uint256.NewInt(0))  // args_size
	parent.Stack.Push(uint256.NewInt(0))  // args_offset
	parent.Stack.Push(uint256.NewInt(0))  // value
	parent.Stack.Push(AddressToUint256(target))
	parent.Stack.Push(uint256.NewInt(1_000_000)) // gas requested

	env := &Environment{}
	child, err := env.InitSubContext(parent, evm.Call)
	if err != nil {
		t.Fatalf("InitSubContext failed: %v", err)
	}

	wantForwarded := evm.Gas(640_000 - 640_000/64)
	if child.Gas.Left() != wantForwarded {
		t.Fatalf("forwarded gas = %d, want %d", child.Gas.Left(), wantForwarded)
	}
	// ret_offset, ret_size must remain on the parent stack for finalize.
	if parent.Stack.Len() != 2 {
		t.Fatalf("parent stack len = %d, want 2 (ret_offset, ret_size left behind)", parent.Stack.Len())
	}
}

// TestInitSubContext_Precompile_ChildGasIsExactlyWhatThePrecompileReturned
// guards against double-counting result.GasLeft: Precompiles.Run returns
// the callee's *remaining* gas, not a refundable delta, so the child must
// be initialized with exactly that value rather than forwarded-then-
// refunded on top of it.
func TestInitSubContext_Precompile_ChildGasIsExactlyWhatThePrecompileReturned(t *testing.T) {
	parent, ws := newCallParentFrame(t, 640_000)
	ws.EXPECT().GetCode(gomock.Any()).Return(evm.Code(nil)).AnyTimes()
	ws.EXPECT().GetBalance(gomock.Any()).Return(evm.Word{}).AnyTimes()
	ws.EXPECT().GetNonce(gomock.Any()).Return(uint64(0)).AnyTimes()

	var target evm.Address
	target[19] = 0x02

	ctrl := gomock.NewController(t)
	precompiles := evm.NewMockPrecompiles(ctrl)
	precompiles.EXPECT().IsPrecompile(target).Return(true)

	forwarded := evm.Gas(640_000 - 640_000/64)
	required := evm.Gas(200)
	precompiles.EXPECT().Run(target, gomock.Any(), gomock.Any(), forwarded).
		Return(evm.Result{Success: true, GasLeft: forwarded - required}, nil)

	parent.Stack.Push(uint256.NewInt(0)) // ret_size
	parent.Stack.Push(uint256.NewInt(0)) // ret_offset
	parent.Stack.Push(uint256.NewInt(0)) // args_size
	parent.Stack.Push(uint256.NewInt(0)) // args_offset
	parent.Stack.Push(uint256.NewInt(0)) // value
	parent.Stack.Push(AddressToUint256(target))
	parent.Stack.Push(uint256.NewInt(1_000_000)) // gas requested

	env := &Environment{Precompiles: precompiles}
	child, err := env.InitSubContext(parent, evm.Call)
	if err != nil {
		t.Fatalf("InitSubContext failed: %v", err)
	}

	want := forwarded - required
	if child.Gas.Left() != want {
		t.Fatalf("child gas = %d, want %d (the precompile's remaining gas, not forwarded+remaining)", child.Gas.Left(), want)
	}

	if err := env.FinalizeParent(parent, child); err != nil {
		t.Fatalf("FinalizeParent failed: %v", err)
	}
	if parent.Gas.Left() >= 640_000 {
		t.Fatalf("parent gas = %d, must be strictly less than starting 640000: a precompile call must cost gas, not yield it", parent.Gas.Left())
	}
}

func TestInitSubContext_StaticCall_ChildIsReadOnlyAndValueless(t *testing.T) {
	parent, ws := newCallParentFrame(t, 100_000)
	ws.EXPECT().GetCode(gomock.Any()).Return(evm.Code(nil)).AnyTimes()
	ws.EXPECT().GetBalance(gomock.Any()).Return(evm.Word{}).AnyTimes()
	ws.EXPECT().GetNonce(gomock.Any()).Return(uint64(0)).AnyTimes()

	var target evm.Address
	target[19] = 0x02

	parent.Stack.Push(uint256.NewInt(0)) // ret_size
	parent.Stack.Push(uint256.NewInt(0)) // ret_offset
	parent.Stack.Push(uint256.NewInt(0)) // args_size
	parent.Stack.Push(uint256.NewInt(0)) // args_offset
	parent.Stack.Push(AddressToUint256(target))
	parent.Stack.Push(uint256.NewInt(50_000))

	env := &Environment{}
	child, err := env.InitSubContext(parent, evm.StaticCall)
	if err != nil {
		t.Fatalf("InitSubContext failed: %v", err)
	}
	if !child.Message.ReadOnly {
		t.Fatal("STATICCALL child must be read-only")
	}
	if child.Message.Value != (evm.Word{}) {
		t.Fatalf("STATICCALL child value = %v, want zero", child.Message.Value)
	}
}

func TestInitSubContext_DelegateCall_InheritsValueAndCallerAddress(t *testing.T) {
	parent, ws := newCallParentFrame(t, 100_000)
	ws.EXPECT().GetCode(gomock.Any()).Return(evm.Code(nil)).AnyTimes()
	ws.EXPECT().GetBalance(gomock.Any()).Return(evm.Word{}).AnyTimes()
	ws.EXPECT().GetNonce(gomock.Any()).Return(uint64(0)).AnyTimes()

	parent.Message.Value = evm.WordFromUint64(77)

	var target evm.Address
	target[19] = 0x03

	parent.Stack.Push(uint256.NewInt(0))
	parent.Stack.Push(uint256.NewInt(0))
	parent.Stack.Push(uint256.NewInt(0))
	parent.Stack.Push(uint256.NewInt(0))
	parent.Stack.Push(AddressToUint256(target))
	parent.Stack.Push(uint256.NewInt(50_000))

	env := &Environment{}
	child, err := env.InitSubContext(parent, evm.DelegateCall)
	if err != nil {
		t.Fatalf("InitSubContext failed: %v", err)
	}
	if child.Message.Value != parent.Message.Value {
		t.Fatalf("DELEGATECALL child value = %v, want inherited %v", child.Message.Value, parent.Message.Value)
	}
	if child.Message.Address != parent.Message.Address {
		t.Fatalf("DELEGATECALL child address = %v, want parent's own address %v", child.Message.Address, parent.Message.Address)
	}
}

func TestFinalizeParent_RevertRestoresStateAndPushesZero(t *testing.T) {
	parent, _ := newCallParentFrame(t, 100_000)
	parent.Stack.Push(uint256.NewInt(4))  // ret_size
	parent.Stack.Push(uint256.NewInt(0))  // ret_offset

	childState := parent.State.Copy()
	child := Init(Message{}, 10_000, childState)
	child.Stop(evm.Data{1, 2, 3, 4}, true) // reverted

	env := &Environment{}
	if err := env.FinalizeParent(parent, child); err != nil {
		t.Fatalf("FinalizeParent failed: %v", err)
	}

	top, err := parent.Stack.Peek()
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if !top.IsZero() {
		t.Fatalf("pushed success flag = %v, want 0 on revert", top)
	}
	if parent.Gas.Left() != 100_000 {
		t.Fatalf("parent gas_left = %d, want unchanged 100000 on revert", parent.Gas.Left())
	}
}

func TestFinalizeParent_SuccessCopiesReturnDataAndRefundsGas(t *testing.T) {
	parent, _ := newCallParentFrame(t, 100_000)
	parent.Stack.Push(uint256.NewInt(4)) // ret_size
	parent.Stack.Push(uint256.NewInt(0)) // ret_offset

	childState := parent.State.Copy()
	child := Init(Message{}, 10_000, childState)
	child.Gas.Charge(7_000) // the child "ran" and spent 7000 of its 10000
	child.Stop(evm.Data{0xDE, 0xAD, 0xBE, 0xEF}, false)

	env := &Environment{}
	if err := env.FinalizeParent(parent, child); err != nil {
		t.Fatalf("FinalizeParent failed: %v", err)
	}

	top, _ := parent.Stack.Peek()
	if top.IsZero() {
		t.Fatal("pushed success flag = 0, want 1 on success")
	}
	got := parent.Memory.Read(0, 4)
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("return data at offset %d = %x, want %x", i, got, want)
		}
	}
	if parent.Gas.Left() != 100_000+3_000 {
		t.Fatalf("parent gas_left = %d, want %d", parent.Gas.Left(), 100_000+3_000)
	}
}
