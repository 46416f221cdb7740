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

// regLayout describes how one chip's tick-persistent register buffer is
// laid out: the byte offset of every register Value created directly in
// its body, the offset at which every Call's callee sub-buffer begins
// within this chip's buffer, and the chip's total effective size (its own
// registers plus every callee's effective size, transitively).
//
// Offsets are assigned in a single pre-order pass over the body in
// textual order, so layout is deterministic and stable across calls to
// Compile on identical source.
type regLayout struct {
	total   int
	offsets map[*Value]int
	callAt  map[*CallExpr]int
}

// sizer memoizes one regLayout per chip.  Chips may only call chips
// already declared earlier in the package, so the call graph is acyclic
// and every callee's layout is available by the time its caller needs it.
type sizer struct {
	layouts map[*Chip]*regLayout
}

func newSizer() *sizer {
	return &sizer{layouts: map[*Chip]*regLayout{}}
}

// layoutFor computes (or returns the memoized) regLayout for chip.
func (s *sizer) layoutFor(chip *Chip) *regLayout {
	if l, ok := s.layouts[chip]; ok {
		return l
	}

	l := &regLayout{offsets: map[*Value]int{}, callAt: map[*CallExpr]int{}}
	s.layouts[chip] = l

	if chip.Builtin {
		return l
	}

	offset := 0

	var visit func(e Expr)
	visit = func(e Expr) {
		switch v := e.(type) {
		case *CallExpr:
			callee := s.layoutFor(v.Callee)
			l.callAt[v] = offset
			offset += callee.total

			for _, a := range v.Args {
				visit(a)
			}
		case *SliceJoinExpr:
			for _, el := range v.Elems {
				visit(el)
			}
		case *SliceIdxExpr:
			visit(v.Base)
		case *SliceToWireCast:
			visit(v.Inner)
		case *TupleToWireCast:
			visit(v.Inner)
		}
	}

	for _, stmt := range chip.Body {
		switch st := stmt.(type) {
		case *AssignStmt:
			if reg, ok := st.Rhs.(*CreateRegisterExpr); ok {
				l.offsets[st.Targets[0]] = offset
				offset += registerWidth(reg.Res)
			} else {
				visit(st.Rhs)
			}
		case *RegWriteStmt:
			visit(st.Rhs)
		case *RetStmt:
			for _, r := range st.Results {
				visit(r)
			}
		}
	}

	l.total = offset

	return l
}
