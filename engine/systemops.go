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
	"github.com/strata-chain/strata-evm/evm"
)

// Opcode values for the ten system operations the loop in Execute
// dispatches directly instead of handing off to an Interpreter.
const (
	opCreate       byte = 0xF0
	opCall         byte = 0xF1
	opCallCode     byte = 0xF2
	opReturn       byte = 0xF3
	opDelegateCall byte = 0xF4
	opCreate2      byte = 0xF5
	opStaticCall   byte = 0xFA
	opRevert       byte = 0xFD
	opInvalid      byte = 0xFE
	opSelfdestruct byte = 0xFF
)

// isSystemOp reports whether op is one of the ten opcodes the system-
// operations subsystem dispatches itself, as opposed to the rest of the
// instruction set an Interpreter implements.
func isSystemOp(op byte) bool {
	switch op {
	case opCreate, opCall, opCallCode, opReturn, opDelegateCall,
		opCreate2, opStaticCall, opRevert, opInvalid, opSelfdestruct:
		return true
	default:
		return false
	}
}

// ExecCallFamily dispatches one of CALL/CALLCODE/DELEGATECALL/STATICCALL:
// it runs InitSubContext and returns the child frame to the caller, which
// schedules it for execution exactly like any other frame. A precompile
// target comes back from InitSubContext already terminal, in which case
// the caller's own Done() handling folds it straight into the parent on
// the very next step.
func (e *Environment) ExecCallFamily(parent *Frame, kind evm.CallKind) (*Frame, error) {
	child, err := e.InitSubContext(parent, kind)
	if err != nil {
		parent.Stop(nil, true)
		return nil, nil
	}
	return child, nil
}

// ExecCreateFamily dispatches CREATE/CREATE2: it runs InitCreateContext
// and either returns the spawned child for the frame loop to run, or, for
// an outcome that never constructs a child (nonce overflow, insufficient
// balance, collision, depth exceeded), pushes the failure result directly
// onto the parent's stack.
func (e *Environment) ExecCreateFamily(parent *Frame, kind evm.CallKind) (*Frame, error) {
	child, outcome, err := e.InitCreateContext(parent, kind)
	if err != nil {
		parent.Stop(nil, true)
		return nil, nil
	}
	if outcome != createSpawnedChild {
		if err := pushCreateFailure(parent); err != nil {
			parent.Stop(nil, true)
		}
		return nil, nil
	}
	return child, nil
}

// ExecReturn implements RETURN: it stages memory[offset:offset+size] as
// the frame's return data and stops execution successfully.
func (e *Environment) ExecReturn(frame *Frame) error {
	return execHalt(frame, false)
}

// ExecRevert implements REVERT: identical memory staging to RETURN, but
// the frame is marked reverted so the caller rolls back any state it
// accumulated.
func (e *Environment) ExecRevert(frame *Frame) error {
	return execHalt(frame, true)
}

func execHalt(frame *Frame, reverted bool) error {
	offsetW, err := frame.Stack.Pop()
	if err != nil {
		return err
	}
	sizeW, err := frame.Stack.Pop()
	if err != nil {
		return err
	}
	offset, ok := toUint64Checked(offsetW, frame.Gas)
	if !ok {
		frame.Stop(nil, true)
		return nil
	}
	size, ok := toUint64Checked(sizeW, frame.Gas)
	if !ok {
		frame.Stop(nil, true)
		return nil
	}
	if !frame.Gas.Charge(frame.Memory.ExpansionCost(offset + size)) {
		frame.Stop(nil, true)
		return nil
	}
	frame.Memory.Grow(offset + size)
	data := append(evm.Data(nil), frame.Memory.Read(offset, size)...)
	frame.Stop(data, reverted)
	return nil
}

// ExecInvalid implements INVALID: it consumes every unit of gas the
// frame has left and halts with no return data, reverted.
func (e *Environment) ExecInvalid(frame *Frame) error {
	oogAllGas(frame.Gas)
	frame.Stop(nil, true)
	return nil
}

// ExecSelfdestruct implements SELFDESTRUCT. Unlike the canonical
// EIP-6780 behavior this engine deliberately retains: the destructing
// account's balance is always transferred and the account is always
// marked destructed for end-of-transaction removal, even outside of the
// same-transaction-as-creation window, matching the specification this
// engine targets rather than the newest mainnet fork.
func (e *Environment) ExecSelfdestruct(frame *Frame) error {
	if frame.Message.ReadOnly {
		oogAllGas(frame.Gas)
		frame.Stop(nil, true)
		return nil
	}

	recipientW, err := frame.Stack.Pop()
	if err != nil {
		return err
	}
	recipient := Uint256ToUint160(recipientW)
	self := frame.Message.Address

	// Sending the balance to oneself burns it rather than looping it back
	// in, a deliberate deviation from returning it to the same account.
	if recipient == self {
		recipient = evm.Address{}
	}

	balance := frame.State.GetAccount(self).Balance
	frame.State.AddTransfer(self, recipient, balance)
	frame.State.Selfdestruct(self)

	frame.Stop(nil, false)
	return nil
}
