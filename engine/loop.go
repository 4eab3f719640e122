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
	"github.com/strata-chain/strata-evm/vmerrors"
)

// Execute runs message to completion and returns the root Frame in its
// final, terminal state. It drives an explicit frame stack rather than
// recursing through Go's own call stack: the top frame is stepped until
// it either hits a system opcode (dispatched directly against its own
// Stack/Memory/State) or delegates to Environment.Interpreter for
// everything else. A system opcode that spawns a child pushes that child
// on top; a frame that reaches a terminal state is popped and folded
// back into its parent via FinalizeParent or FinalizeCreateParent.
func (e *Environment) Execute(message Message, gasLimit evm.Gas, state *State) *Frame {
	root := Init(message, gasLimit, state)
	frames := []*Frame{root}

	for {
		top := frames[len(frames)-1]

		if top.Done() {
			if len(frames) == 1 {
				return top
			}
			frames = frames[:len(frames)-1]
			parent := frames[len(frames)-1]
			if err := e.finalize(parent, top); err != nil {
				parent.Stop(nil, true)
			}
			continue
		}

		child, err := e.step(top)
		if err != nil {
			top.Stop(nil, true)
			continue
		}
		if child != nil {
			frames = append(frames, child)
		}
	}
}

// finalize folds a just-terminated child back into its parent, choosing
// the CALL-family or CREATE-family finalizer according to how the child
// was spawned.
func (e *Environment) finalize(parent, child *Frame) error {
	if child.Message.IsCreate {
		return e.FinalizeCreateParent(parent, child, child.Message.Address)
	}
	return e.FinalizeParent(parent, child)
}

// step advances frame by one step: a system opcode is
// dispatched directly and may return a child Frame for the caller to
// push; any other opcode is delegated to the Interpreter, which runs
// until it either halts the frame or reaches the next system opcode.
func (e *Environment) step(frame *Frame) (*Frame, error) {
	if frame.PC >= uint64(len(frame.Message.Bytecode)) {
		frame.Stop(nil, false)
		return nil, nil
	}

	op := frame.Message.Bytecode[frame.PC]
	if isSystemOp(op) {
		return e.dispatchSystemOp(frame, op)
	}

	if e.Interpreter == nil {
		return nil, vmerrors.ErrInvalidInstruction
	}

	result, err := e.Interpreter.Run(evm.Parameters{
		Kind:      frame.Message.Kind,
		Static:    frame.Message.ReadOnly,
		Depth:     frame.Message.Depth,
		Gas:       frame.Gas.Left(),
		Recipient: frame.Message.Address,
		Sender:    frame.Message.Sender,
		Input:     frame.Message.Calldata,
		Value:     frame.Message.Value,
		Code:      frame.Message.Bytecode,
		PC:        frame.PC,
		Stack:     frame.Stack,
		Memory:    frame.Memory,
	})
	if err != nil {
		return nil, err
	}

	applyGasDelta(frame.Gas, result.GasLeft)
	frame.PC = result.PC
	if result.Halted {
		frame.Stop(result.Output, !result.Success)
	}
	return nil, nil
}

// applyGasDelta reconciles the absolute gas-remaining value an
// Interpreter reports with the frame's own charge/refund-based GasMeter.
func applyGasDelta(gas *GasMeter, newLeft evm.Gas) {
	current := gas.Left()
	switch {
	case newLeft < current:
		gas.Charge(current - newLeft)
	case newLeft > current:
		gas.Refund(newLeft - current)
	}
}

func (e *Environment) dispatchSystemOp(frame *Frame, op byte) (*Frame, error) {
	switch op {
	case opCall:
		return e.ExecCallFamily(frame, evm.Call)
	case opCallCode:
		return e.ExecCallFamily(frame, evm.CallCode)
	case opDelegateCall:
		return e.ExecCallFamily(frame, evm.DelegateCall)
	case opStaticCall:
		return e.ExecCallFamily(frame, evm.StaticCall)
	case opCreate:
		return e.ExecCreateFamily(frame, evm.Create)
	case opCreate2:
		return e.ExecCreateFamily(frame, evm.Create2)
	case opReturn:
		return nil, e.ExecReturn(frame)
	case opRevert:
		return nil, e.ExecRevert(frame)
	case opInvalid:
		return nil, e.ExecInvalid(frame)
	case opSelfdestruct:
		return nil, e.ExecSelfdestruct(frame)
	default:
		return nil, vmerrors.ErrInvalidInstruction
	}
}
