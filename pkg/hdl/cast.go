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

	"github.com/fexolm/hdlc/pkg/source"
)

// caster implements component B: it walks every chip body produced by the
// parser, retypes assignment targets from their right-hand side, and
// inserts explicit cast nodes wherever an adaptation is required - Call
// arguments, Ret results, and SliceJoin elements.  Every other position
// requires an exact type match.
type caster struct {
	file *source.File
}

// insertCasts runs component B over every non-builtin chip in pkg.
func insertCasts(file *source.File, pkg *Package) *source.Error {
	c := &caster{file: file}

	for _, chip := range pkg.Chips {
		if chip.Builtin {
			continue
		}

		if err := c.chip(chip); err != nil {
			return err
		}
	}

	return nil
}

func (c *caster) chip(chip *Chip) *source.Error {
	for _, stmt := range chip.Body {
		switch s := stmt.(type) {
		case *AssignStmt:
			rhs, err := c.expr(s.Rhs)
			if err != nil {
				return err
			}

			s.Rhs = rhs

			if err := c.retypeTargets(s); err != nil {
				return err
			}
		case *RegWriteStmt:
			rhs, err := c.expr(s.Rhs)
			if err != nil {
				return err
			}

			want, regErr := registerElemType(s.Reg.Type)
			if regErr != nil {
				return c.file.Errorf(source.KindType, s.Spn,
					"cannot write to %q: %s is not a register", s.Reg.Name, s.Reg.Type)
			}

			if !rhs.ResultType().Equal(want) {
				return c.file.Errorf(source.KindType, s.Spn,
					"cannot write value of type %s to register %q of type %s", rhs.ResultType(), s.Reg.Name, s.Reg.Type)
			}

			s.Rhs = rhs
		case *RetStmt:
			if len(s.Results) != len(chip.Output.Elems) {
				return c.file.Errorf(source.KindSemantic, s.Spn,
					"chip %q returns %d value(s), got %d", chip.Name, len(chip.Output.Elems), len(s.Results))
			}

			for i, r := range s.Results {
				processed, err := c.expr(r)
				if err != nil {
					return err
				}

				casted, err := c.castTo(processed, chip.Output.Elems[i])
				if err != nil {
					return err
				}

				s.Results[i] = casted
			}
		}
	}

	return nil
}

// registerElemType returns the Wire-domain type a value must have to be
// written to a register of type t (Register -> Wire, Slice<Register,n> ->
// Slice<Wire,n>), or an error if t is not a register type at all.
func registerElemType(t Type) (Type, error) {
	switch v := t.(type) {
	case Register:
		return Wire{}, nil
	case Slice:
		if _, isReg := v.Elem.(Register); !isReg {
			return nil, fmt.Errorf("not a register")
		}

		return Slice{Elem: Wire{}, Size: v.Size}, nil
	default:
		return nil, fmt.Errorf("not a register")
	}
}

// retypeTargets propagates the actual result type of an AssignStmt's
// right-hand side onto its target Values, in place.  This is plain type
// propagation, not a cast - no node is inserted here.
func (c *caster) retypeTargets(s *AssignStmt) *source.Error {
	switch rhs := s.Rhs.(type) {
	case *CallExpr:
		if len(s.Targets) != len(rhs.Callee.Output.Elems) {
			return c.file.Errorf(source.KindSemantic, s.Spn,
				"assignment expects %d value(s), call to %q returns %d", len(s.Targets), rhs.Callee.Name, len(rhs.Callee.Output.Elems))
		}

		for i, t := range s.Targets {
			t.Type = rhs.Callee.Output.Elems[i]
		}
	default:
		if len(s.Targets) != 1 {
			return c.file.Errorf(source.KindSemantic, s.Spn,
				"assignment expects %d value(s), right-hand side produces 1", len(s.Targets))
		}

		s.Targets[0].Type = rhs.ResultType()
	}

	return nil
}

// expr recursively lowers e, inserting casts at every Call-argument and
// SliceJoin-element position nested within it.  It does not itself cast e
// to any particular expectation - that is the caller's job via castTo.
func (c *caster) expr(e Expr) (Expr, *source.Error) {
	switch v := e.(type) {
	case *CallExpr:
		if len(v.Args) != len(v.Callee.Inputs) {
			return nil, c.file.Errorf(source.KindSemantic, v.Spn,
				"call to %q expects %d argument(s), got %d", v.Callee.Name, len(v.Callee.Inputs), len(v.Args))
		}

		for i, a := range v.Args {
			processed, err := c.expr(a)
			if err != nil {
				return nil, err
			}

			casted, err := c.castTo(processed, v.Callee.Inputs[i].Type)
			if err != nil {
				return nil, err
			}

			v.Args[i] = casted
		}

		return v, nil
	case *SliceJoinExpr:
		if len(v.Elems) == 0 {
			return nil, c.file.Errorf(source.KindSemantic, v.Spn, "slice join requires at least one element")
		}

		for i, el := range v.Elems {
			processed, err := c.expr(el)
			if err != nil {
				return nil, err
			}

			v.Elems[i] = processed
		}

		elemType := v.Elems[0].ResultType()

		// Joined slices live entirely in the Wire domain: a register can
		// only ever be named as the sole operand of '<-' or a RegWrite,
		// never assembled from a join, so a Register-typed first element
		// here is always a dead end rather than a useful bundle.
		if _, ok := elemType.(Wire); !ok {
			return nil, c.file.Errorf(source.KindType, v.Elems[0].Span(),
				"slice join elements must be Wire-typed, found %s", elemType)
		}

		for i, el := range v.Elems {
			casted, err := c.castTo(el, elemType)
			if err != nil {
				return nil, c.file.Errorf(source.KindType, el.Span(),
					"slice join element %d has type %s, expected %s", i, el.ResultType(), elemType)
			}

			v.Elems[i] = casted
		}

		v.Res = Slice{Elem: elemType, Size: len(v.Elems)}

		return v, nil
	case *RegReadExpr:
		switch t := v.Reg.Type.(type) {
		case Register:
			v.Res = Wire{}
		case Slice:
			if _, isReg := t.Elem.(Register); !isReg {
				return nil, c.file.Errorf(source.KindType, v.Spn, "%q is not a register", v.Reg.Name)
			}

			v.Res = Slice{Elem: Wire{}, Size: t.Size}
		default:
			return nil, c.file.Errorf(source.KindType, v.Spn, "%q is not a register", v.Reg.Name)
		}

		return v, nil
	case *SliceIdxExpr:
		ref := v.Base.(*ValueRef)

		slice, ok := ref.Val.Type.(Slice)
		if !ok {
			return nil, c.file.Errorf(source.KindSemantic, v.Spn, "%q is not a slice", ref.Val.Name)
		}

		if v.Lo >= v.Hi || v.Hi > slice.Size {
			return nil, c.file.Errorf(source.KindSemantic, v.Spn,
				"slice index [%d:%d] out of range for %q of size %d", v.Lo, v.Hi, ref.Val.Name, slice.Size)
		}

		v.Res = Slice{Elem: slice.Elem, Size: v.Hi - v.Lo}

		return v, nil
	default:
		return e, nil
	}
}

// castTo adapts e to want via the table in §4.B, returning e unchanged when
// no adaptation is needed.  The only two adaptations are Slice<Wire,1> ->
// Wire and a singleton Wire-valued Tuple -> Wire; anything else is a type
// error.
func (c *caster) castTo(e Expr, want Type) (Expr, *source.Error) {
	got := e.ResultType()

	if got.Equal(want) {
		return e, nil
	}

	if _, isWire := want.(Wire); isWire {
		if sl, ok := got.(Slice); ok && sl.Size == 1 {
			if _, isWire := sl.Elem.(Wire); isWire {
				return &SliceToWireCast{exprBase{e.Span()}, e}, nil
			}
		}

		if tup, ok := got.(Tuple); ok && len(tup.Elems) == 1 {
			if _, isWire := tup.Elems[0].(Wire); isWire {
				return &TupleToWireCast{exprBase{e.Span()}, e}, nil
			}
		}
	}

	return nil, c.file.Errorf(source.KindType, e.Span(), "no cast from %s to %s", got, want)
}
