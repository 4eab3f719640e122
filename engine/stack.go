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
	"sync"

	"github.com/holiman/uint256"

	"github.com/strata-chain/strata-evm/vmerrors"
)

// MaxStackSize is the maximum number of elements a Stack can hold.
const MaxStackSize = 1024

// Stack is the 1024-element 256-bit word-wide operand stack used by a
// Frame. It is backed by a fixed-size array to avoid reallocation during
// execution; unlike the non-system opcode interpreter (which is allowed
// to rely on precomputed static stack-boundary analysis and skip bounds
// checks on its hot path) every operation here validates over/underflow
// explicitly, since the system-operations subsystem has no such static
// analysis available to it.
type Stack struct {
	data         [MaxStackSize]uint256.Int
	stackPointer int
}

var stackPool = sync.Pool{New: func() any { return &Stack{} }}

// NewStack returns a Stack instance from a reuse pool.
func NewStack() *Stack {
	return stackPool.Get().(*Stack)
}

// ReturnStack resets s and returns it to the reuse pool. s must not be
// used afterwards.
func ReturnStack(s *Stack) {
	s.stackPointer = 0
	stackPool.Put(s)
}

// Len returns the number of elements currently on the stack.
func (s *Stack) Len() int {
	return s.stackPointer
}

// Push copies d onto the top of the stack.
func (s *Stack) Push(d *uint256.Int) error {
	if s.stackPointer >= MaxStackSize {
		return vmerrors.ErrStackOverflow
	}
	s.data[s.stackPointer] = *d
	s.stackPointer++
	return nil
}

// Pop removes and returns the top element of the stack.
func (s *Stack) Pop() (*uint256.Int, error) {
	if s.stackPointer == 0 {
		return nil, vmerrors.ErrStackUnderflow
	}
	s.stackPointer--
	return &s.data[s.stackPointer], nil
}

// Peek returns a pointer to the top element without removing it.
func (s *Stack) Peek() (*uint256.Int, error) {
	return s.PeekN(0)
}

// PeekN returns a pointer to the n-th element from the top (0 is the top
// element) without removing it.
func (s *Stack) PeekN(n int) (*uint256.Int, error) {
	i := s.stackPointer - n - 1
	if i < 0 || n < 0 {
		return nil, vmerrors.ErrStackUnderflow
	}
	return &s.data[i], nil
}

// Swap exchanges the top element with the n-th element from the top.
func (s *Stack) Swap(n int) error {
	top := s.stackPointer - 1
	other := s.stackPointer - n - 1
	if other < 0 {
		return vmerrors.ErrStackUnderflow
	}
	s.data[other], s.data[top] = s.data[top], s.data[other]
	return nil
}

// Dup duplicates the n-th element from the top and pushes it.
func (s *Stack) Dup(n int) error {
	if s.stackPointer >= MaxStackSize {
		return vmerrors.ErrStackOverflow
	}
	i := s.stackPointer - n - 1
	if i < 0 {
		return vmerrors.ErrStackUnderflow
	}
	s.data[s.stackPointer] = s.data[i]
	s.stackPointer++
	return nil
}

// Get returns a pointer to the element at absolute index i, counting from
// the bottom of the stack.
func (s *Stack) Get(i int) (*uint256.Int, error) {
	if i < 0 || i >= s.stackPointer {
		return nil, vmerrors.ErrStackUnderflow
	}
	return &s.data[i], nil
}
