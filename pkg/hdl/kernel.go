// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package hdl

import "fmt"

// Kernel is a compiled, runnable chip: the result of Compile.  It is safe
// for concurrent use by multiple goroutines as long as each holds its own
// register buffer - a Kernel carries no mutable state of its own.
type Kernel struct {
	chip   *Chip
	sizer  *sizer
	layout *regLayout
	eval   *evaluator
}

// BufferSize returns the number of bytes a register buffer passed to Run
// must have: one byte per bit of clocked state in the entrypoint chip and
// everything it (transitively) calls.
func (k *Kernel) BufferSize() int {
	return k.layout.total
}

// InputWidth returns the flat Wire-domain byte width Run expects for in.
func (k *Kernel) InputWidth() int {
	w := 0
	for _, p := range k.chip.Inputs {
		w += width(p.Type)
	}

	return w
}

// OutputWidth returns the flat Wire-domain byte width Run produces in out.
func (k *Kernel) OutputWidth() int {
	w := 0
	for _, t := range k.chip.Output.Elems {
		w += width(t)
	}

	return w
}

// Run executes one tick: it evaluates the entrypoint chip's combinational
// logic against in, writing chip.Output's flat bytes into out, and
// commits every register write queued during evaluation into regBuf in
// place, ready for the next call to Run.
//
// regBuf must be exactly BufferSize() bytes, in must be exactly
// InputWidth() bytes, and out must be exactly OutputWidth() bytes.
func (k *Kernel) Run(regBuf, in, out []byte) error {
	if len(regBuf) != k.BufferSize() {
		return fmt.Errorf("hdl: register buffer has %d byte(s), chip %q requires %d", len(regBuf), k.chip.Name, k.BufferSize())
	}

	if len(in) != k.InputWidth() {
		return fmt.Errorf("hdl: input buffer has %d byte(s), chip %q requires %d", len(in), k.chip.Name, k.InputWidth())
	}

	if len(out) != k.OutputWidth() {
		return fmt.Errorf("hdl: output buffer has %d byte(s), chip %q produces %d", len(out), k.chip.Name, k.OutputWidth())
	}

	result := k.eval.run(k.chip, regBuf, 0, in)
	copy(out, result)

	return nil
}

// Slot locates one named input or output of the entrypoint chip within
// the flat buffer Run expects, sparing callers from re-deriving offsets
// by hand when wiring several named values through the same in/out
// buffer.
type Slot struct {
	Offset int
	Width  int
}

// InputSlot returns where the named input lives within the buffer passed
// to Run as in.
func (k *Kernel) InputSlot(name string) (Slot, error) {
	off := 0

	for _, p := range k.chip.Inputs {
		w := width(p.Type)

		if p.Name == name {
			return Slot{Offset: off, Width: w}, nil
		}

		off += w
	}

	return Slot{}, fmt.Errorf("hdl: chip %q has no input named %q", k.chip.Name, name)
}

// OutputSlot returns where the named output lives within the buffer
// passed to Run as out.
func (k *Kernel) OutputSlot(name string) (Slot, error) {
	off := 0

	for i, n := range k.chip.Output.Names {
		w := width(k.chip.Output.Elems[i])

		if n == name {
			return Slot{Offset: off, Width: w}, nil
		}

		off += w
	}

	return Slot{}, fmt.Errorf("hdl: chip %q has no output named %q", k.chip.Name, name)
}
