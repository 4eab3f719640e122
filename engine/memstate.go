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

// InMemoryWorldState is a trivial evm.WorldState backed by Go maps, used
// by the command-line demonstrator as a real (rather than mocked) backing
// store.
type InMemoryWorldState struct {
	accounts map[evm.Address]*memAccount
}

type memAccount struct {
	balance evm.Word
	nonce   uint64
	code    evm.Code
	storage map[evm.Key]evm.Word
}

// NewInMemoryWorldState returns an empty InMemoryWorldState.
func NewInMemoryWorldState() *InMemoryWorldState {
	return &InMemoryWorldState{accounts: map[evm.Address]*memAccount{}}
}

func (w *InMemoryWorldState) get(addr evm.Address) *memAccount {
	acc, ok := w.accounts[addr]
	if !ok {
		acc = &memAccount{storage: map[evm.Key]evm.Word{}}
		w.accounts[addr] = acc
	}
	return acc
}

// SetBalance sets addr's balance, creating the account if needed. Used by
// the command-line demonstrator to fund the sending account before a run.
func (w *InMemoryWorldState) SetBalance(addr evm.Address, balance evm.Word) {
	w.get(addr).balance = balance
}

// SetCode installs addr's deployed code, used to stage a callee contract
// ahead of a CALL-family demonstration.
func (w *InMemoryWorldState) SetCode(addr evm.Address, code evm.Code) {
	w.get(addr).code = code
}

func (w *InMemoryWorldState) AccountExists(addr evm.Address) bool {
	_, ok := w.accounts[addr]
	return ok
}

func (w *InMemoryWorldState) GetBalance(addr evm.Address) evm.Word {
	return w.get(addr).balance
}

func (w *InMemoryWorldState) GetNonce(addr evm.Address) uint64 {
	return w.get(addr).nonce
}

func (w *InMemoryWorldState) GetCode(addr evm.Address) evm.Code {
	return w.get(addr).code
}

func (w *InMemoryWorldState) GetCodeHash(addr evm.Address) evm.Hash {
	return evm.Hash{}
}

func (w *InMemoryWorldState) GetCodeSize(addr evm.Address) int {
	return len(w.get(addr).code)
}

func (w *InMemoryWorldState) GetStorage(addr evm.Address, key evm.Key) evm.Word {
	return w.get(addr).storage[key]
}

// Apply commits every account touched by state back into w. The
// command-line demonstrator does not call it.
func (w *InMemoryWorldState) Apply(state *State) {
	for addr, acc := range state.accounts {
		target := w.get(addr)
		target.balance = acc.Balance
		target.nonce = acc.Nonce
		if acc.Code != nil {
			target.code = acc.Code
		}
		for k, v := range acc.Storage {
			target.storage[k] = v
		}
	}
}
