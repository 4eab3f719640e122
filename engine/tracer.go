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
	"fmt"
	"io"
)

// FrameTracer writes a line of plain text to an io.Writer when the engine
// spawns a child frame for a CALL-family or CREATE-family opcode;
// precompile calls, finalization and halts are not traced. It deliberately mirrors the opcode-level instruction logger the
// non-system interpreter uses rather than introducing a structured
// logging dependency of its own: one textual log for the whole engine.
type FrameTracer struct {
	out io.Writer
}

// NewFrameTracer returns a FrameTracer writing to out. A nil out disables
// tracing (Tracef becomes a no-op).
func NewFrameTracer(out io.Writer) *FrameTracer {
	return &FrameTracer{out: out}
}

// Tracef writes one formatted, newline-terminated line to the tracer's
// writer. Write errors are ignored: tracing must never fail execution.
func (t *FrameTracer) Tracef(format string, args ...any) {
	if t == nil || t.out == nil {
		return
	}
	fmt.Fprintf(t.out, format+"\n", args...)
}
