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

// Type is the common interface implemented by the four types in hdlc's IR:
// Wire, Register, Slice<T,N> and Tuple{(name,T)...}.
type Type interface {
	// String renders this type for diagnostics, e.g. "Wire[4]" or
	// "(res: Wire)".
	String() string
	// Equal tests structural equality with another type.
	Equal(Type) bool
}

// Wire is one logical bit, represented at the ABI as a single byte.
type Wire struct{}

// String implements Type.
func (Wire) String() string { return "Wire" }

// Equal implements Type.
func (Wire) Equal(o Type) bool {
	_, ok := o.(Wire)
	return ok
}

// Register is one bit of clocked state.
type Register struct{}

// String implements Type.
func (Register) String() string { return "Register" }

// Equal implements Type.
func (Register) Equal(o Type) bool {
	_, ok := o.(Register)
	return ok
}

// Slice is a fixed-length contiguous bundle of Elem, with Size known at
// compile time.
type Slice struct {
	Elem Type
	Size int
}

// String implements Type.
func (s Slice) String() string {
	return fmt.Sprintf("%s[%d]", s.Elem, s.Size)
}

// Equal implements Type.
func (s Slice) Equal(o Type) bool {
	os, ok := o.(Slice)
	return ok && s.Size == os.Size && s.Elem.Equal(os.Elem)
}

// Tuple is the mandatory shape of every chip's output: an ordered, named,
// non-empty list of element types.
type Tuple struct {
	Names []string
	Elems []Type
}

// String implements Type.
func (t Tuple) String() string {
	s := "("
	for i, n := range t.Names {
		if i != 0 {
			s += ", "
		}
		s += n + ": " + t.Elems[i].String()
	}
	return s + ")"
}

// Equal implements Type.
func (t Tuple) Equal(o Type) bool {
	ot, ok := o.(Tuple)
	if !ok || len(t.Elems) != len(ot.Elems) {
		return false
	}
	for i := range t.Elems {
		if t.Names[i] != ot.Names[i] || !t.Elems[i].Equal(ot.Elems[i]) {
			return false
		}
	}
	return true
}

// width returns the number of bytes a value of type t occupies at the
// flat-buffer ABI boundary.  Only Wire and Slice<Wire,N> are legal at that
// boundary (chip inputs/outputs); Register and Tuple never are.
func width(t Type) int {
	switch v := t.(type) {
	case Wire:
		return 1
	case Slice:
		if _, ok := v.Elem.(Wire); ok {
			return v.Size
		}
	}

	panic(fmt.Sprintf("type %s has no flat-buffer width", t))
}

// registerWidth returns the number of bytes of persistent state a value of
// register type occupies: one byte per bit, regardless of whether it is a
// bare Register or a Slice<Register,N>.
func registerWidth(t Type) int {
	switch v := t.(type) {
	case Register:
		return 1
	case Slice:
		if _, ok := v.Elem.(Register); ok {
			return v.Size
		}
	}

	panic(fmt.Sprintf("type %s is not a register type", t))
}
