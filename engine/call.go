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
	"github.com/holiman/uint256"

	"github.com/strata-chain/strata-evm/evm"
	"github.com/strata-chain/strata-evm/vmerrors"
)

// callFlags captures the three boolean axes the Yellow Paper's four call
// variants differ on, so that InitSubContext can be written once instead
// of once per opcode.
type callFlags struct {
	withValue bool // value is read from the stack rather than inherited/zeroed
	static    bool // forces the child read-only regardless of the parent
	selfCall  bool // CALLCODE/DELEGATECALL: execute target's code, but keep the caller's own account identity
}

func flagsFor(kind evm.CallKind) callFlags {
	switch kind {
	case evm.Call:
		return callFlags{withValue: true}
	case evm.CallCode:
		return callFlags{withValue: true, selfCall: true}
	case evm.DelegateCall:
		return callFlags{selfCall: true}
	case evm.StaticCall:
		return callFlags{static: true}
	default:
		return callFlags{}
	}
}

// oogAllGas forces an out-of-gas condition by charging everything the
// meter has left, used whenever a stack value (offset/size) does not fit
// in a uint64 and must therefore be treated as an unaffordable request.
func oogAllGas(gas *GasMeter) {
	gas.Charge(gas.Left())
}

func toUint64Checked(x *uint256.Int, gas *GasMeter) (uint64, bool) {
	if !x.IsUint64() {
		oogAllGas(gas)
		return 0, false
	}
	return x.Uint64(), true
}

// InitSubContext implements CallHelper.init_sub_context: it consumes the
// parent's stack operands for a CALL-family opcode, reserves and forwards
// gas, stages calldata, and constructs the child Frame (or, for a
// precompile target, the already-terminal Frame the precompile produced).
// A non-nil error here means the parent itself must be marked reverted
// (out-of-gas while reserving the upfront charge); pushing 0 and
// continuing the parent is handled by the caller for ordinary failures.
func (e *Environment) InitSubContext(parent *Frame, kind evm.CallKind) (*Frame, error) {
	flags := flagsFor(kind)

	gasReq, err := parent.Stack.Pop()
	if err != nil {
		return nil, err
	}
	addrWord, err := parent.Stack.Pop()
	if err != nil {
		return nil, err
	}
	target := Uint256ToUint160(addrWord)

	var value evm.Word
	if flags.withValue {
		v, err := parent.Stack.Pop()
		if err != nil {
			return nil, err
		}
		value = evm.WordFromUint256(v)
	} else if flags.selfCall {
		value = parent.Message.Value
	}

	argsOffsetW, err := parent.Stack.Pop()
	if err != nil {
		return nil, err
	}
	argsSizeW, err := parent.Stack.Pop()
	if err != nil {
		return nil, err
	}
	retOffsetW, err := parent.Stack.PeekN(0)
	if err != nil {
		return nil, err
	}
	retSizeW, err := parent.Stack.PeekN(1)
	if err != nil {
		return nil, err
	}

	argsOffset, ok := toUint64Checked(argsOffsetW, parent.Gas)
	if !ok {
		return nil, vmerrors.ErrOutOfGas
	}
	argsSize, ok := toUint64Checked(argsSizeW, parent.Gas)
	if !ok {
		return nil, vmerrors.ErrOutOfGas
	}
	retOffset, ok := toUint64Checked(retOffsetW, parent.Gas)
	if !ok {
		return nil, vmerrors.ErrOutOfGas
	}
	retSize, ok := toUint64Checked(retSizeW, parent.Gas)
	if !ok {
		return nil, vmerrors.ErrOutOfGas
	}

	highWaterMark := argsOffset + argsSize
	if alt := retOffset + retSize; alt > highWaterMark {
		highWaterMark = alt
	}

	memCost := parent.Memory.ExpansionCost(highWaterMark)
	var forwarded evm.Gas
	if gasReq.IsUint64() {
		forwarded = ForwardedGas(evm.Gas(gasReq.Uint64()), parent.Gas.Left())
	} else {
		// A requested gas amount wider than a uint64 certainly exceeds
		// the 63/64 cap, so it is silently reduced to the cap.
		forwarded = CallGasCap(parent.Gas.Left())
	}

	if !parent.Gas.Charge(forwarded + memCost) {
		return nil, vmerrors.ErrOutOfGas
	}
	parent.Memory.Grow(highWaterMark)

	// A call that would nest deeper than MaxCallDepth fails before any
	// frame at that depth exists: 0 is pushed and the forwarded gas is
	// handed back, as for an unaffordable value transfer.
	if parent.Message.Depth+1 > MaxCallDepth {
		parent.Gas.Refund(forwarded)
		child := Init(Message{Parent: parent, Depth: parent.Message.Depth, Kind: kind}, 0, parent.State)
		child.Stop(nil, true)
		return child, nil
	}

	calldata := evm.Data(append(evm.Data(nil), parent.Memory.Read(argsOffset, argsSize)...))

	readOnly := parent.Message.ReadOnly || flags.static

	if e.Precompiles != nil && e.Precompiles.IsPrecompile(target) {
		result, _ := e.Precompiles.Run(target, calldata, value, forwarded)
		// result.GasLeft is already the remaining gas, not a delta: the
		// child must be initialized with exactly that much, never
		// forwarded on top of it, or FinalizeParent would refund the
		// parent more than it charged.
		child := Init(Message{
			Address:  target,
			Sender:   parent.Message.Address,
			Value:    value,
			Depth:    parent.Message.Depth + 1,
			ReadOnly: readOnly,
			Kind:     kind,
			Parent:   parent,
		}, result.GasLeft, parent.State)
		child.Stop(result.Output, !result.Success)
		return child, nil
	}

	e.trace("%s target=%s forwarded=%d", kind, target, forwarded)

	childAddress := target
	if flags.selfCall {
		childAddress = parent.Message.Address
	}

	childState := parent.State.Copy()
	if flags.withValue {
		if !childState.AddTransfer(parent.Message.Address, target, value) {
			// Insufficient balance fails the call before the callee ever
			// runs: the parent keeps running with 0 pushed and its
			// forwarded gas back, rather than being reverted outright.
			parent.Gas.Refund(forwarded)
			child := Init(Message{Parent: parent, Depth: parent.Message.Depth + 1, Kind: kind}, 0, parent.State)
			child.Stop(nil, true)
			return child, nil
		}
	}

	childMessage := Message{
		Bytecode: childState.GetAccount(target).Code,
		Calldata: calldata,
		Value:    value,
		GasPrice: parent.Message.GasPrice,
		Origin:   parent.Message.Origin,
		Parent:   parent,
		Address:  childAddress,
		Sender:   parent.Message.Address,
		ReadOnly: readOnly,
		IsCreate: false,
		Kind:     kind,
		Depth:    parent.Message.Depth + 1,
	}

	child := Init(childMessage, forwarded, childState)
	return child, nil
}

// FinalizeParent implements CallHelper.finalize_parent: it resolves the
// ret_offset/ret_size pair init_sub_context left on the parent stack,
// folds the child's outcome back into the parent, and advances the
// parent's program counter.
func (e *Environment) FinalizeParent(parent, child *Frame) error {
	retOffsetW, err := parent.Stack.Pop()
	if err != nil {
		return err
	}
	retSizeW, err := parent.Stack.Pop()
	if err != nil {
		return err
	}
	retOffset, _ := toUint64Checked(retOffsetW, parent.Gas)
	retSize, _ := toUint64Checked(retSizeW, parent.Gas)

	success := uint256.NewInt(0)
	if !child.Reverted {
		success = uint256.NewInt(1)
	}
	if err := parent.Stack.Push(success); err != nil {
		return err
	}

	out := child.ReturnData
	if uint64(len(out)) > retSize {
		out = out[:retSize]
	}
	parent.Memory.Set(retOffset, out)

	if !child.Reverted {
		parent.Gas.Refund(child.Gas.Left())
		parent.State.Merge(child.State)
	}

	parent.PC++
	child.Release()
	return nil
}
