// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/dsnet/golib/unitconv"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"github.com/strata-chain/strata-evm/crypto/keccak"
	"github.com/strata-chain/strata-evm/engine"
	"github.com/strata-chain/strata-evm/engine/addresshash"
	"github.com/strata-chain/strata-evm/evm"
)

func main() {
	app := &cli.App{
		Name:      "strata-run",
		Usage:     "Execute a single top-level call against the system-operations engine",
		Copyright: "(c) 2024 Fantom Foundation",
		Commands:  []*cli.Command{&runCmd},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var runCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Run a CALL or CREATE against an in-memory world state",
	ArgsUsage: "<hex code>",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "gas",
			Usage: "gas limit for the top-level call",
			Value: 10_000_000,
		},
		&cli.StringFlag{
			Name:  "calldata",
			Usage: "hex-encoded calldata passed to the call",
		},
		&cli.BoolFlag{
			Name:  "create",
			Usage: "treat the given code as init code and run a CREATE instead of a CALL",
		},
		&cli.StringFlag{
			Name:  "value",
			Usage: "decimal wei value attached to the call",
			Value: "0",
		},
	},
}

func doRun(context *cli.Context) error {
	if context.Args().Len() < 1 {
		return fmt.Errorf("missing required <hex code> argument")
	}
	code, err := hex.DecodeString(strings.TrimPrefix(context.Args().Get(0), "0x"))
	if err != nil {
		return fmt.Errorf("invalid hex code: %w", err)
	}
	calldata, err := hex.DecodeString(strings.TrimPrefix(context.String("calldata"), "0x"))
	if err != nil {
		return fmt.Errorf("invalid hex calldata: %w", err)
	}
	valueBig, ok := new(big.Int).SetString(context.String("value"), 10)
	if !ok {
		return fmt.Errorf("invalid decimal value: %q", context.String("value"))
	}
	value256, overflow := uint256.FromBig(valueBig)
	if overflow {
		return fmt.Errorf("value %q overflows a 256-bit word", context.String("value"))
	}
	value := evm.WordFromUint256(value256)

	var sender, target evm.Address
	sender[19] = 0x01
	target[19] = 0x02

	ws := engine.NewInMemoryWorldState()
	ws.SetBalance(sender, evm.WordFromUint64(1_000_000_000_000))

	isCreate := context.Bool("create")
	if !isCreate {
		ws.SetCode(target, code)
	}

	hasher := keccak.SHA3Hasher{}
	env := &engine.Environment{
		Hasher:        hasher,
		Precompiles:   engine.NewPrecompiles(engine.RevisionCancun),
		InitCodeCache: addresshash.New(hasher, 0),
	}

	kind := evm.Call
	address := target
	bytecode := evm.Code(code)
	if isCreate {
		kind = evm.Create
		address = sender
		bytecode = code
	}

	msg := engine.Message{
		Bytecode: bytecode,
		Calldata: evm.Data(calldata),
		Value:    value,
		Origin:   sender,
		Sender:   sender,
		Address:  address,
		Kind:     kind,
		IsCreate: isCreate,
		Depth:    0,
	}

	state := engine.NewState(ws)
	if !value.ToUint256().IsZero() && !state.AddTransfer(sender, address, value) {
		return fmt.Errorf("sender cannot afford value %s", valueBig)
	}

	start := time.Now()
	root := env.Execute(msg, evm.Gas(context.Uint64("gas")), state)
	elapsed := time.Since(start)

	fmt.Printf("success: %v\n", !root.Reverted)
	fmt.Printf("gas used: %s\n", unitconv.FormatPrefix(float64(evm.Gas(context.Uint64("gas"))-root.Gas.Left()), unitconv.SI, 2))
	fmt.Printf("return data: 0x%s\n", hex.EncodeToString(root.ReturnData))
	fmt.Printf("elapsed: %s\n", elapsed)
	return nil
}
