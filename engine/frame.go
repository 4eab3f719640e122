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

import "github.com/strata-chain/strata-evm/evm"

// Message describes the call or creation that gave rise to a Frame. It
// is immutable for the lifetime of the frame it belongs to.
type Message struct {
	Bytecode evm.Code
	Calldata evm.Data
	Value    evm.Word
	GasPrice evm.Word
	Origin   evm.Address
	Parent   *Frame
	Address  evm.Address
	Sender   evm.Address
	ReadOnly bool
	IsCreate bool
	Kind     evm.CallKind
	Depth    int
}

// Frame is one activation record of the interpreter: a Stack, Memory and
// State overlay it exclusively owns, plus the bookkeeping needed to
// resume or finalize it. Each Frame exclusively owns its Stack, Memory
// and the State overlay derived from its parent at construction; the
// parent is reached only through Message.Parent, used at finalize time.
type Frame struct {
	State      *State
	Message    Message
	ReturnData evm.Data
	PC         uint64
	Stopped    bool
	Reverted   bool
	Gas        *GasMeter
	Stack      *Stack
	Memory     *Memory
}

// Init constructs a fresh, running Frame for message with the given gas
// limit, a fresh Stack and Memory, and the supplied State overlay.
func Init(message Message, gasLimit evm.Gas, state *State) *Frame {
	return &Frame{
		State:   state,
		Message: message,
		Gas:     NewGasMeter(gasLimit),
		Stack:   NewStack(),
		Memory:  NewMemory(),
	}
}

// Stop marks f terminal with the given return data and revert flag.
func (f *Frame) Stop(data evm.Data, reverted bool) {
	f.Stopped = true
	f.Reverted = reverted
	f.ReturnData = data
}

// Done reports whether f has reached a terminal state.
func (f *Frame) Done() bool {
	return f.Stopped || f.Reverted
}

// Release returns f's Stack to the shared pool. Memory is not pooled
// (its size varies too widely across frames to make reuse worthwhile, in
// keeping with the teacher's own choice to only pool the fixed-size
// Stack).
func (f *Frame) Release() {
	if f.Stack != nil {
		ReturnStack(f.Stack)
		f.Stack = nil
	}
}
