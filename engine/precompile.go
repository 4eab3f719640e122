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
	"github.com/ethereum/go-ethereum/common"
	geth "github.com/ethereum/go-ethereum/core/vm"

	"github.com/strata-chain/strata-evm/evm"
)

// Revision selects which fork's precompile set Precompiles answers
// queries against.
type Revision int

const (
	RevisionIstanbul Revision = iota
	RevisionBerlin
	RevisionCancun
)

// Precompiles adapts go-ethereum's built-in precompiled contract
// implementations (identity, SHA-256, RIPEMD-160, modexp, the BN256/BLS
// curve operations, ...) to the evm.Precompiles interface, so that
// InitSubContext can run them without the engine needing to reimplement
// any of them.
type Precompiles struct {
	contracts map[common.Address]geth.PrecompiledContract
}

// NewPrecompiles returns a Precompiles bound to the contract set active
// at revision.
func NewPrecompiles(revision Revision) *Precompiles {
	var contracts map[common.Address]geth.PrecompiledContract
	switch revision {
	case RevisionCancun:
		contracts = geth.PrecompiledContractsCancun
	case RevisionBerlin:
		contracts = geth.PrecompiledContractsBerlin
	default:
		contracts = geth.PrecompiledContractsIstanbul
	}
	return &Precompiles{contracts: contracts}
}

// IsPrecompile reports whether addr names one of the active revision's
// precompiled contracts.
func (p *Precompiles) IsPrecompile(addr evm.Address) bool {
	_, ok := p.contracts[common.Address(addr)]
	return ok
}

// Run executes the precompile at addr against input, charging its fixed
// or input-dependent gas requirement out of gas before invoking it.
// Precompiled contracts never receive value and never fail except on
// malformed input, matching go-ethereum's own contract.
func (p *Precompiles) Run(addr evm.Address, input evm.Data, value evm.Word, gas evm.Gas) (evm.Result, error) {
	contract, ok := p.contracts[common.Address(addr)]
	if !ok {
		return evm.Result{}, nil
	}
	required := evm.Gas(contract.RequiredGas(input))
	if gas < required {
		return evm.Result{Success: false}, nil
	}
	remaining := gas - required
	output, err := contract.Run(input)
	return evm.Result{
		Success: err == nil,
		Output:  output,
		GasLeft: remaining,
	}, nil
}
