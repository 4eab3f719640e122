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
)

// Account is one entry of the journaled state overlay.
type Account struct {
	Balance    evm.Word
	Nonce      uint64
	Code       evm.Code
	Storage    map[evm.Key]evm.Word
	Destructed bool
}

// HasCodeOrNonce reports whether acc looks like an already-used account,
// the condition CREATE/CREATE2 use to detect an address collision.
func (acc *Account) HasCodeOrNonce() bool {
	return len(acc.Code) > 0 || acc.Nonce > 0
}

func newDefaultAccount() *Account {
	return &Account{Storage: map[evm.Key]evm.Word{}}
}

func (acc *Account) clone() *Account {
	cp := &Account{
		Balance:    acc.Balance,
		Nonce:      acc.Nonce,
		Code:       append(evm.Code(nil), acc.Code...),
		Storage:    make(map[evm.Key]evm.Word, len(acc.Storage)),
		Destructed: acc.Destructed,
	}
	for k, v := range acc.Storage {
		cp.Storage[k] = v
	}
	return cp
}

// State is a journaled overlay of account state on top of a committed
// evm.WorldState backing store. Every mutation is recorded in a journal
// so that a checkpoint taken at frame-construction time can be restored
// in full if the frame reverts, without requiring the backing store
// itself to support undo.
type State struct {
	backing  evm.WorldState
	accounts map[evm.Address]*Account
	journal  []journalEntry
}

// journalEntry records the pre-image of one mutated account so it can be
// restored on rollback. A nil account means the address was not present
// in the overlay prior to the mutation that created this entry.
type journalEntry struct {
	address evm.Address
	before  *Account
	existed bool
}

// Snapshot identifies a point in the journal that RestoreSnapshot can
// roll back to.
type Snapshot int

// NewState returns a State overlay backed by ws.
func NewState(ws evm.WorldState) *State {
	return &State{backing: ws, accounts: map[evm.Address]*Account{}}
}

// CreateSnapshot returns a checkpoint that RestoreSnapshot can later roll
// back to.
func (s *State) CreateSnapshot() Snapshot {
	return Snapshot(len(s.journal))
}

// RestoreSnapshot undoes every mutation recorded since snapshot was
// taken, restoring each touched account to its pre-mutation image.
func (s *State) RestoreSnapshot(snapshot Snapshot) {
	for i := len(s.journal) - 1; i >= int(snapshot); i-- {
		entry := s.journal[i]
		if entry.existed {
			s.accounts[entry.address] = entry.before
		} else {
			delete(s.accounts, entry.address)
		}
	}
	s.journal = s.journal[:snapshot]
}

// Copy returns a child overlay sharing the backing store but with its
// own independent account map seeded from a deep copy of s's accounts,
// so that mutations performed by the child are invisible to s until the
// caller explicitly merges them back with Merge.
func (s *State) Copy() *State {
	child := &State{backing: s.backing, accounts: make(map[evm.Address]*Account, len(s.accounts))}
	for addr, acc := range s.accounts {
		child.accounts[addr] = acc.clone()
	}
	return child
}

// Merge replaces s's account map with child's, adopting every mutation
// the child performed. Used by finalize_parent on a non-reverted child.
func (s *State) Merge(child *State) {
	s.accounts = child.accounts
}

func (s *State) recordBefore(addr evm.Address) {
	existing, existed := s.accounts[addr]
	var before *Account
	if existed {
		before = existing.clone()
	}
	s.journal = append(s.journal, journalEntry{address: addr, before: before, existed: existed})
}

// GetAccount returns the overlay's account for addr, lazily inserting a
// cold default populated from the backing store on first access.
func (s *State) GetAccount(addr evm.Address) *Account {
	if acc, ok := s.accounts[addr]; ok {
		return acc
	}
	acc := newDefaultAccount()
	if s.backing != nil && s.backing.AccountExists(addr) {
		acc.Balance = s.backing.GetBalance(addr)
		acc.Nonce = s.backing.GetNonce(addr)
		acc.Code = s.backing.GetCode(addr)
	}
	s.accounts[addr] = acc
	return acc
}

// AccountExists reports whether addr holds a non-zero balance, a non-zero
// nonce or code in the overlay; an address the overlay has not loaded yet
// is looked up in the backing store instead. An account the overlay holds
// empty counts as not existing.
func (s *State) AccountExists(addr evm.Address) bool {
	if acc, ok := s.accounts[addr]; ok {
		return acc.Balance != (evm.Word{}) || acc.Nonce > 0 || len(acc.Code) > 0
	}
	return s.backing != nil && s.backing.AccountExists(addr)
}

// SetNonce overwrites addr's nonce.
func (s *State) SetNonce(addr evm.Address, nonce uint64) {
	s.recordBefore(addr)
	s.GetAccount(addr).Nonce = nonce
}

// SetCode overwrites addr's code.
func (s *State) SetCode(addr evm.Address, code evm.Code) {
	s.recordBefore(addr)
	s.GetAccount(addr).Code = code
}

// Selfdestruct marks addr destructed; the actual balance transfer is
// performed by the caller via AddTransfer before this is invoked.
func (s *State) Selfdestruct(addr evm.Address) {
	s.recordBefore(addr)
	s.GetAccount(addr).Destructed = true
}

// AddTransfer atomically moves amount from `from` to `to`. It leaves the
// overlay unchanged and returns false if `from` cannot afford the
// transfer; a zero-amount transfer always succeeds and still touches
// both accounts (matching the lazy-insert semantics of GetAccount).
func (s *State) AddTransfer(from, to evm.Address, amount evm.Word) bool {
	fromAcc := s.GetAccount(from)
	toAcc := s.GetAccount(to)

	amt := amount.ToUint256()
	fromBal := fromAcc.Balance.ToUint256()
	if fromBal.Lt(amt) {
		return false
	}
	if amt.IsZero() {
		return true
	}
	if from == to {
		return true
	}

	toBal := toAcc.Balance.ToUint256()
	newFrom := new(uint256.Int).Sub(fromBal, amt)
	newTo := new(uint256.Int).Add(toBal, amt)

	s.recordBefore(from)
	s.recordBefore(to)
	s.GetAccount(from).Balance = evm.WordFromUint256(newFrom)
	s.GetAccount(to).Balance = evm.WordFromUint256(newTo)
	return true
}
