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
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fexolm/hdlc/pkg/source"
)

// Compile parses, casts, and sizes src, then builds a Kernel able to run
// the chip named entrypoint.  Both the syntax and every declared chip are
// checked regardless of which chip is ultimately run, so a Kernel always
// reflects a fully elaborated package.
func Compile(src, entrypoint string) (*Kernel, error) {
	pkg, err := ParsePackage(src, "package")
	if err != nil {
		return nil, err
	}

	var top *Chip

	for _, c := range pkg.Chips {
		if c.Name == entrypoint {
			top = c
			break
		}
	}

	if top == nil {
		return nil, pkg.File.Errorf(source.KindBuild, source.NewSpan(0, 0), "no chip named %q in package", entrypoint)
	}

	s := newSizer()
	layout := s.layoutFor(top)

	log.Debugf("compiled entrypoint %q: register buffer is %d byte(s)", entrypoint, layout.total)

	return &Kernel{
		chip:   top,
		sizer:  s,
		layout: layout,
		eval:   &evaluator{sizer: s},
	}, nil
}

// pendingWrite is a register write queued during a chip invocation's
// combinational phase, committed once that invocation's body finishes
// running.
type pendingWrite struct {
	off int
	val []byte
}

// evaluator is the tree-walking backend of component D.  It threads one
// flat register buffer through the whole call tree: every invocation
// reads its own registers at their pre-assigned offset within that
// buffer, and every RegWrite is queued and only committed once the
// invocation that issued it returns - inside-out, callee before caller.
type evaluator struct {
	sizer *sizer
}

// run executes chip once, reading chip.Inputs from in (flat Wire-domain
// bytes) and returning chip.Output's flat bytes.  base is the absolute
// offset within regBuf at which this invocation's own registers and
// callee sub-buffers begin.
func (ev *evaluator) run(chip *Chip, regBuf []byte, base int, in []byte) []byte {
	if chip.Builtin {
		return []byte{nandByte(in[0], in[1])}
	}

	layout := ev.sizer.layoutFor(chip)
	env := map[*Value][]byte{}

	for _, p := range chip.Inputs {
		w := width(p.Type)
		env[p] = in[:w]
		in = in[w:]
	}

	var pending []pendingWrite

	var evalExpr func(e Expr) []byte
	evalExpr = func(e Expr) []byte {
		switch v := e.(type) {
		case *ValueRef:
			return env[v.Val]
		case *CallExpr:
			var args []byte

			for _, a := range v.Args {
				args = append(args, evalExpr(a)...)
			}

			return ev.run(v.Callee, regBuf, base+layout.callAt[v], args)
		case *RegReadExpr:
			off := base + layout.offsets[v.Reg]
			w := registerWidth(v.Reg.Type)

			return append([]byte(nil), regBuf[off:off+w]...)
		case *SliceIdxExpr:
			b := evalExpr(v.Base)

			return append([]byte(nil), b[v.Lo:v.Hi]...)
		case *SliceJoinExpr:
			var out []byte

			for _, el := range v.Elems {
				out = append(out, evalExpr(el)...)
			}

			return out
		case *SliceToWireCast:
			return evalExpr(v.Inner)
		case *TupleToWireCast:
			return evalExpr(v.Inner)
		default:
			panic(fmt.Sprintf("hdl: unhandled expression %T in evaluator", e))
		}
	}

	var result []byte

	for _, stmt := range chip.Body {
		switch s := stmt.(type) {
		case *AssignStmt:
			if _, ok := s.Rhs.(*CreateRegisterExpr); ok {
				// The register's identity is its offset, assigned once
				// in regsize.go; there is no combinational value to bind.
				continue
			}

			val := evalExpr(s.Rhs)

			if len(s.Targets) == 1 {
				env[s.Targets[0]] = val
				continue
			}

			off := 0

			for _, t := range s.Targets {
				w := width(t.Type)
				env[t] = val[off : off+w]
				off += w
			}
		case *RegWriteStmt:
			val := evalExpr(s.Rhs)
			pending = append(pending, pendingWrite{off: base + layout.offsets[s.Reg], val: val})
		case *RetStmt:
			for _, r := range s.Results {
				result = append(result, evalExpr(r)...)
			}
		}
	}

	for _, w := range pending {
		copy(regBuf[w.off:w.off+len(w.val)], w.val)
	}

	return result
}

// nandByte implements the Nand primitive: !(a&b)&1, on single-bit Wire
// bytes (each either 0 or 1).
func nandByte(a, b byte) byte {
	return (^(a & b)) & 1
}
