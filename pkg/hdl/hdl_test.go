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

import (
	"testing"

	"github.com/fexolm/hdlc/pkg/util/assert"
)

const andSrc = `
chip And(a, b) out {
  nand := Nand(a, b)
  out := Nand(nand, nand)
  return out
}
`

const and3Src = andSrc + `
chip And3(a, b, c) out {
  ab := And(a, b)
  out := And(ab, c)
  return out
}
`

const and4WaySrc = and3Src + `
chip And4Way(a, b, c, d) out {
  ab := And(a, b)
  cd := And(c, d)
  out := And(ab, cd)
  return out
}
`

const strangeAnd2WaySrc = andSrc + `
chip StrangeAnd2Way(pair[2]) out {
  out := And(pair[0], pair[1])
  return out
}
`

const prevSrc = `
chip Prev(a) out {
  r := Register()
  out := <- r
  r <- a
  return out
}
`

const prevSlice8Src = `
chip Prev8(a[8]) out[8] {
  r := Register(8)
  out := <- r
  r <- a
  return out
}
`

func mustCompile(t *testing.T, src, entrypoint string) *Kernel {
	t.Helper()

	k, err := Compile(src, entrypoint)
	if err != nil {
		t.Fatalf("Compile(%q): %v", entrypoint, err)
	}

	return k
}

func runOnce(t *testing.T, k *Kernel, regBuf []byte, in []byte) []byte {
	t.Helper()

	out := make([]byte, k.OutputWidth())
	if err := k.Run(regBuf, in, out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	return out
}

func Test_And_TruthTable(t *testing.T) {
	t.Parallel()

	k := mustCompile(t, andSrc, "And")
	regBuf := make([]byte, k.BufferSize())

	cases := []struct {
		a, b, want byte
	}{
		{0, 0, 0},
		{0, 1, 0},
		{1, 0, 0},
		{1, 1, 1},
	}

	for _, c := range cases {
		out := runOnce(t, k, regBuf, []byte{c.a, c.b})
		assert.Equal(t, []byte{c.want}, out)
	}
}

func Test_And3_TruthTable(t *testing.T) {
	t.Parallel()

	k := mustCompile(t, and3Src, "And3")
	regBuf := make([]byte, k.BufferSize())

	out := runOnce(t, k, regBuf, []byte{1, 1, 1})
	assert.Equal(t, []byte{1}, out)

	out = runOnce(t, k, regBuf, []byte{1, 0, 1})
	assert.Equal(t, []byte{0}, out)
}

func Test_And4Way_TruthTable(t *testing.T) {
	t.Parallel()

	k := mustCompile(t, and4WaySrc, "And4Way")
	regBuf := make([]byte, k.BufferSize())

	out := runOnce(t, k, regBuf, []byte{1, 1, 1, 1})
	assert.Equal(t, []byte{1}, out)

	out = runOnce(t, k, regBuf, []byte{1, 1, 1, 0})
	assert.Equal(t, []byte{0}, out)
}

func Test_StrangeAnd2Way_SliceInputCastsToWire(t *testing.T) {
	t.Parallel()

	k := mustCompile(t, strangeAnd2WaySrc, "StrangeAnd2Way")
	regBuf := make([]byte, k.BufferSize())

	out := runOnce(t, k, regBuf, []byte{1, 1})
	assert.Equal(t, []byte{1}, out)

	out = runOnce(t, k, regBuf, []byte{1, 0})
	assert.Equal(t, []byte{0}, out)
}

func Test_Combinational_IsPureFunctionOfInputs(t *testing.T) {
	t.Parallel()

	k := mustCompile(t, and3Src, "And3")
	regBuf := make([]byte, k.BufferSize())

	first := runOnce(t, k, regBuf, []byte{1, 1, 0})
	second := runOnce(t, k, regBuf, []byte{1, 1, 0})

	assert.Equal(t, first, second)
}

func Test_Prev_OneTickDelay(t *testing.T) {
	t.Parallel()

	k := mustCompile(t, prevSrc, "Prev")
	assert.Equal(t, 1, k.BufferSize())

	regBuf := make([]byte, k.BufferSize())

	// Tick 0: register reads as its zero-valued initial state.
	out := runOnce(t, k, regBuf, []byte{1})
	assert.Equal(t, []byte{0}, out)

	// Tick 1: register now observes what was written during tick 0.
	out = runOnce(t, k, regBuf, []byte{0})
	assert.Equal(t, []byte{1}, out)

	// Tick 2: observes tick 1's input.
	out = runOnce(t, k, regBuf, []byte{1})
	assert.Equal(t, []byte{0}, out)
}

func Test_PrevSlice8_OneTickDelay(t *testing.T) {
	t.Parallel()

	k := mustCompile(t, prevSlice8Src, "Prev8")
	assert.Equal(t, 8, k.BufferSize())

	regBuf := make([]byte, k.BufferSize())

	in := []byte{1, 0, 1, 1, 0, 0, 1, 0}
	out := runOnce(t, k, regBuf, in)
	assert.Equal(t, make([]byte, 8), out)

	out = runOnce(t, k, regBuf, make([]byte, 8))
	assert.Equal(t, in, out)
}

func Test_Print_RoundTripPreservesBehaviour(t *testing.T) {
	t.Parallel()

	pkg, err := ParsePackage(and3Src, "test")
	if err != nil {
		t.Fatalf("ParsePackage: %v", err)
	}

	reprinted := Print(pkg)

	k, err := Compile(reprinted, "And3")
	if err != nil {
		t.Fatalf("Compile(reprinted): %v\nsource:\n%s", err, reprinted)
	}

	regBuf := make([]byte, k.BufferSize())
	out := runOnce(t, k, regBuf, []byte{1, 1, 0})
	assert.Equal(t, []byte{0}, out)
}

func Test_InputSlot_And_OutputSlot(t *testing.T) {
	t.Parallel()

	k := mustCompile(t, strangeAnd2WaySrc, "StrangeAnd2Way")

	slot, err := k.InputSlot("pair")
	if err != nil {
		t.Fatalf("InputSlot: %v", err)
	}

	assert.Equal(t, Slot{Offset: 0, Width: 2}, slot)

	out, err := k.OutputSlot("out")
	if err != nil {
		t.Fatalf("OutputSlot: %v", err)
	}

	assert.Equal(t, Slot{Offset: 0, Width: 1}, out)

	if _, err := k.InputSlot("nope"); err == nil {
		t.Fatalf("expected error for unknown input slot")
	}
}

func Test_Compile_UnknownEntrypoint(t *testing.T) {
	t.Parallel()

	if _, err := Compile(andSrc, "DoesNotExist"); err == nil {
		t.Fatalf("expected error for unknown entrypoint")
	}
}

func Test_DuplicateChip_IsRejected(t *testing.T) {
	t.Parallel()

	src := andSrc + `
chip And(a, b) out {
  return a
}
`

	if _, err := Compile(src, "And"); err == nil {
		t.Fatalf("expected error for duplicate chip name")
	}
}

func Test_ArityMismatch_OnCall_IsRejected(t *testing.T) {
	t.Parallel()

	src := andSrc + `
chip Bad(a, b, c) out {
  out := And(a, b, c)
  return out
}
`

	if _, err := Compile(src, "Bad"); err == nil {
		t.Fatalf("expected error for arity mismatch on call")
	}
}

func Test_UnknownIdentifier_IsRejected(t *testing.T) {
	t.Parallel()

	src := `
chip Bad(a) out {
  return missing
}
`

	if _, err := Compile(src, "Bad"); err == nil {
		t.Fatalf("expected error for unresolved identifier")
	}
}

func Test_RegWriteToWire_IsRejected(t *testing.T) {
	t.Parallel()

	src := `
chip Bad(a) out {
  a <- a
  return a
}
`

	if _, err := Compile(src, "Bad"); err == nil {
		t.Fatalf("expected error for writing to a non-register Wire parameter")
	}
}

func Test_RegWriteToUninitializedRegister_IsRejected(t *testing.T) {
	t.Parallel()

	src := `
chip Bad(a) out {
  r <- a
  return a
}
`

	if _, err := Compile(src, "Bad"); err == nil {
		t.Fatalf("expected error for writing to an undeclared register")
	}
}
