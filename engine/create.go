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
	"github.com/strata-chain/strata-evm/engine/address"
	"github.com/strata-chain/strata-evm/evm"
	"github.com/strata-chain/strata-evm/vmerrors"
)

// createOutcome distinguishes the ways InitCreateContext can conclude
// without ever constructing a child frame, matching the push-0-and-
// continue semantics the specification assigns to nonce overflow,
// insufficient balance and address collision.
type createOutcome int

const (
	createSpawnedChild createOutcome = iota
	createNonceOverflow
	createInsufficientBalance
	createCollision
	createDepthExceeded
)

// InitCreateContext implements CreateHelper.exec_create: it consumes the
// CREATE/CREATE2 stack operands, performs every pre-frame sender check,
// and either returns the constructed child Frame or a createOutcome
// explaining why no frame was spawned. A non-nil error means the parent
// itself must be marked reverted (out-of-gas reserving the upfront
// charge, oversized init code, or a read-only violation).
func (e *Environment) InitCreateContext(parent *Frame, kind evm.CallKind) (*Frame, createOutcome, error) {
	if parent.Message.ReadOnly {
		oogAllGas(parent.Gas)
		return nil, createSpawnedChild, vmerrors.ErrStaticViolation
	}

	valueW, err := parent.Stack.Pop()
	if err != nil {
		return nil, createSpawnedChild, err
	}
	offsetW, err := parent.Stack.Pop()
	if err != nil {
		return nil, createSpawnedChild, err
	}
	sizeW, err := parent.Stack.Pop()
	if err != nil {
		return nil, createSpawnedChild, err
	}

	var salt evm.Word
	if kind == evm.Create2 {
		saltW, err := parent.Stack.Pop()
		if err != nil {
			return nil, createSpawnedChild, err
		}
		salt = evm.WordFromUint256(saltW)
	}

	offset, ok := toUint64Checked(offsetW, parent.Gas)
	if !ok {
		return nil, createSpawnedChild, vmerrors.ErrOutOfGas
	}
	size, ok := toUint64Checked(sizeW, parent.Gas)
	if !ok {
		return nil, createSpawnedChild, vmerrors.ErrOutOfGas
	}

	memCost := parent.Memory.ExpansionCost(offset + size)
	words := evm.SizeInWords(size)
	initCost := InitCodeWordGas * evm.Gas(words)
	if kind == evm.Create2 {
		initCost += KeccakWordGas * evm.Gas(words)
	}
	if !parent.Gas.Charge(memCost + initCost) {
		return nil, createSpawnedChild, vmerrors.ErrOutOfGas
	}
	parent.Memory.Grow(offset + size)
	initcode := append(evm.Code(nil), parent.Memory.Read(offset, size)...)

	value := evm.WordFromUint256(valueW)
	sender := parent.Message.Address

	if parent.Message.Depth+1 > MaxCallDepth {
		return nil, createDepthExceeded, nil
	}

	senderAccount := parent.State.GetAccount(sender)
	if senderAccount.Nonce == MaxNonce {
		return nil, createNonceOverflow, nil
	}
	senderBalance := senderAccount.Balance.ToUint256()
	if senderBalance.Lt(value.ToUint256()) {
		return nil, createInsufficientBalance, nil
	}

	forwarded := CallGasCap(parent.Gas.Left())

	if size > 2*MaxCodeSize {
		oogAllGas(parent.Gas)
		parent.Gas.Charge(1)
		return nil, createSpawnedChild, vmerrors.ErrInitCodeTooLarge
	}

	var newAddress evm.Address
	if kind == evm.Create2 {
		if e.InitCodeCache != nil {
			newAddress = address.Create2FromHash(e.Hasher, sender, salt, e.InitCodeCache.InitCodeHash(initcode))
		} else {
			newAddress = address.Create2(e.Hasher, sender, salt, initcode)
		}
	} else {
		newAddress = address.Create(e.Hasher, sender, senderAccount.Nonce)
	}

	target := parent.State.GetAccount(newAddress)
	if target.HasCodeOrNonce() {
		parent.State.SetNonce(sender, senderAccount.Nonce+1)
		return nil, createCollision, nil
	}

	parent.State.SetNonce(sender, senderAccount.Nonce+1)

	childState := parent.State.Copy()
	childState.SetNonce(newAddress, 1)
	if !childState.AddTransfer(sender, newAddress, value) {
		return nil, createInsufficientBalance, nil
	}

	// forwarded is never refundable: the parent keeps only the 1/64 it
	// withheld, mirroring the charge InitSubContext makes for CALL.
	if !parent.Gas.Charge(forwarded) {
		return nil, createSpawnedChild, vmerrors.ErrOutOfGas
	}

	childMessage := Message{
		Bytecode: initcode,
		Calldata: nil,
		Value:    value,
		GasPrice: parent.Message.GasPrice,
		Origin:   parent.Message.Origin,
		Parent:   parent,
		Address:  newAddress,
		Sender:   sender,
		ReadOnly: false,
		IsCreate: true,
		Kind:     kind,
		Depth:    parent.Message.Depth + 1,
	}

	e.trace("%s sender=%s new=%s forwarded=%d", kind, sender, newAddress, forwarded)

	child := Init(childMessage, forwarded, childState)
	return child, createSpawnedChild, nil
}

// FinalizeCreateParent implements CreateHelper.finalize_parent for the
// post-creation step: it charges the code-deposit gas against the
// child's remaining gas, decides success, and folds the outcome back
// into the parent.
func (e *Environment) FinalizeCreateParent(parent, child *Frame, newAddress evm.Address) error {
	deposit := CodeDepositGas * evm.Gas(len(child.ReturnData))
	remaining := child.Gas.Left() - deposit
	success := !child.Reverted && remaining >= 0 && len(child.ReturnData) <= MaxCodeSize

	var pushed = AddressToUint256(evm.Address{})
	if success {
		pushed = AddressToUint256(newAddress)
		parent.Gas.Refund(remaining)
		child.State.SetCode(newAddress, evm.Code(child.ReturnData))
		parent.State.Merge(child.State)
	}
	if err := parent.Stack.Push(pushed); err != nil {
		return err
	}

	parent.PC++
	child.Release()
	return nil
}

// pushCreateFailure pushes 0 onto parent's stack for the short-circuit
// createOutcome branches that never constructed a child frame, and
// advances the program counter exactly as a completed call would.
func pushCreateFailure(parent *Frame) error {
	if err := parent.Stack.Push(AddressToUint256(evm.Address{})); err != nil {
		return err
	}
	parent.PC++
	return nil
}
