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
	"github.com/strata-chain/strata-evm/engine/addresshash"
	"github.com/strata-chain/strata-evm/evm"
)

// Environment bundles the external collaborators the system-operations
// subsystem relies on but does not itself implement: the keccak-256
// primitive, the EVM-to-host address mapping, the precompile registry,
// and the opcode interpreter driving non-system instructions. HostAddress
// is carried but never called: accounts are keyed by their EVM address
// and no call or create path translates it.
type Environment struct {
	Hasher        evm.Hasher
	HostAddress   evm.HostAddressTranslator
	Precompiles   evm.Precompiles
	Interpreter   evm.Interpreter
	Tracer        *FrameTracer
	InitCodeCache *addresshash.Cache // optional; memoizes keccak256(initcode) for CREATE2
}

func (e *Environment) trace(format string, args ...any) {
	if e.Tracer != nil {
		e.Tracer.Tracef(format, args...)
	}
}
