// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package evm

import "github.com/holiman/uint256"

//go:generate mockgen -source interfaces.go -destination interfaces_mock.go -package evm

// WorldState is the committed chain state the engine's journaled overlay
// is built on top of. It is read-only from the engine's perspective during
// a single execution; all mutations made during execution are tracked by
// the engine's own journal and only ever reach WorldState through a
// separate commit step outside this package's scope.
type WorldState interface {
	AccountExists(Address) bool
	GetBalance(Address) Word
	GetNonce(Address) uint64
	GetCode(Address) Code
	GetCodeHash(Address) Hash
	GetCodeSize(Address) int
	GetStorage(Address, Key) Word
}

// StackAccess is the subset of the operand stack the Interpreter is given
// direct, shared access to while it executes the non-system opcodes of a
// frame. The engine's Stack type satisfies this interface; the
// Interpreter never constructs its own.
type StackAccess interface {
	Len() int
	Push(*uint256.Int) error
	Pop() (*uint256.Int, error)
	Peek() (*uint256.Int, error)
	PeekN(n int) (*uint256.Int, error)
	Swap(n int) error
	Dup(n int) error
}

// MemoryAccess is the subset of linear memory the Interpreter is given
// direct, shared access to while it executes the non-system opcodes of a
// frame. The engine's Memory type satisfies this interface.
type MemoryAccess interface {
	Len() uint64
	ExpansionCost(size uint64) Gas
	Grow(size uint64)
	Set(offset uint64, data []byte)
	Read(offset, size uint64) []byte
	GetSlice(offset, size uint64) []byte
}

// Parameters bundles everything an Interpreter needs to resume execution
// of a frame's non-system opcodes from a given program counter. Stack and
// Memory are shared, mutable views onto the calling frame's own operand
// stack and linear memory: the Interpreter mutates them directly rather
// than exchanging copies, exactly as the system-operations subsystem
// does for CALL/CREATE/RETURN/REVERT/SELFDESTRUCT.
type Parameters struct {
	Kind      CallKind
	Static    bool
	Depth     int
	Gas       Gas
	Recipient Address
	Sender    Address
	Input     Data
	Value     Word
	Code      Code
	CodeHash  Hash
	PC        uint64
	Stack     StackAccess
	Memory    MemoryAccess
}

// Result is what a Run call produces. Halted means the frame reached a
// natural stop (STOP, ran off the end of the code, or an Interpreter-
// internal error such as an invalid jump destination) with no further
// system-operations dispatch required. When Halted is false, PC points
// at a system opcode (CALL family, CREATE family, RETURN, REVERT,
// INVALID or SELFDESTRUCT) that the caller must dispatch itself before
// resuming the Interpreter.
type Result struct {
	Success   bool
	Output    Data
	GasLeft   Gas
	GasRefund Gas
	PC        uint64
	Halted    bool
}

// Interpreter executes the non-system opcode set (arithmetic, bitwise,
// storage, memory, jumps, logging, ...) of a single frame until it hits a
// system operation, halts, or runs out of gas. The system-operations
// subsystem (CALL family, CREATE family, RETURN/REVERT/INVALID,
// SELFDESTRUCT) is implemented by this module and is not part of this
// interface.
type Interpreter interface {
	Run(Parameters) (Result, error)
}

// Hasher computes the keccak-256 digest used for CREATE/CREATE2 address
// derivation.
type Hasher interface {
	Keccak256(data []byte) Hash
}

// Precompiles answers whether an address is a precompiled contract and,
// if so, executes it directly instead of dispatching to an Interpreter.
type Precompiles interface {
	IsPrecompile(Address) bool
	Run(addr Address, input Data, value Word, gas Gas) (Result, error)
}

// HostAddressTranslator converts an engine-internal Address into whatever
// representation the host chain uses for accounts outside of EVM
// semantics (e.g. a different curve, a shard id, ...). No default
// implementation is provided; hosts that do not need translation can use
// an identity implementation.
type HostAddressTranslator interface {
	ToHostAddress(Address) Address
}

// BlockParameters are the block-level values visible to execution
// (BLOCKHASH, COINBASE, TIMESTAMP, ...) via the external Interpreter;
// the engine only threads them through, it never inspects them.
type BlockParameters struct {
	BlockNumber int64
	Timestamp   int64
	GasLimit    Gas
	Coinbase    Address
	PrevRandao  Hash
	BaseFee     Word
}

// TransactionParameters are the transaction-level values visible to
// execution (ORIGIN, GASPRICE, ...).
type TransactionParameters struct {
	Origin   Address
	GasPrice Word
}
