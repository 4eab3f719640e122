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
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/strata-chain/strata-evm/vmerrors"
)

func TestStack_PushPop_RoundTrip(t *testing.T) {
	s := NewStack()
	defer ReturnStack(s)

	v := uint256.NewInt(42)
	if err := s.Push(v); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	got, err := s.Pop()
	if err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if !got.Eq(v) {
		t.Fatalf("got %v, want %v", got, v)
	}
	if s.Len() != 0 {
		t.Fatalf("stack not empty after pop: len=%d", s.Len())
	}
}

func TestStack_Pop_EmptyReturnsUnderflow(t *testing.T) {
	s := NewStack()
	defer ReturnStack(s)

	if _, err := s.Pop(); !errors.Is(err, vmerrors.ErrStackUnderflow) {
		t.Fatalf("got %v, want ErrStackUnderflow", err)
	}
}

func TestStack_Push_FullReturnsOverflow(t *testing.T) {
	s := NewStack()
	defer ReturnStack(s)

	for i := 0; i < MaxStackSize; i++ {
		if err := s.Push(uint256.NewInt(uint64(i))); err != nil {
			t.Fatalf("unexpected error filling stack: %v", err)
		}
	}
	if err := s.Push(uint256.NewInt(0)); !errors.Is(err, vmerrors.ErrStackOverflow) {
		t.Fatalf("got %v, want ErrStackOverflow", err)
	}
}

func TestStack_Swap(t *testing.T) {
	s := NewStack()
	defer ReturnStack(s)

	a, b := uint256.NewInt(1), uint256.NewInt(2)
	s.Push(a)
	s.Push(b)
	if err := s.Swap(1); err != nil {
		t.Fatalf("Swap failed: %v", err)
	}
	top, _ := s.Peek()
	if !top.Eq(a) {
		t.Fatalf("after swap, top = %v, want %v", top, a)
	}
}

func TestStack_Dup(t *testing.T) {
	s := NewStack()
	defer ReturnStack(s)

	v := uint256.NewInt(7)
	s.Push(v)
	if err := s.Dup(0); err != nil {
		t.Fatalf("Dup failed: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	top, _ := s.Peek()
	if !top.Eq(v) {
		t.Fatalf("top = %v, want %v", top, v)
	}
}

func TestStack_PeekN_UnderflowOnShallowStack(t *testing.T) {
	s := NewStack()
	defer ReturnStack(s)

	s.Push(uint256.NewInt(1))
	if _, err := s.PeekN(1); !errors.Is(err, vmerrors.ErrStackUnderflow) {
		t.Fatalf("got %v, want ErrStackUnderflow", err)
	}
}
