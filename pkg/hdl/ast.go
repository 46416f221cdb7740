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

// Package hdl implements the hdlc compiler: a hand-written recursive-descent
// parser, a typed AST with explicit cast insertion, register-buffer sizing,
// and a tree-walking evaluator with two-phase register semantics.
package hdl

import "github.com/fexolm/hdlc/pkg/source"

// Package is a named, ordered list of chip declarations.  Nand is always
// the first chip.
type Package struct {
	Name  string
	Chips []*Chip
	File  *source.File
}

// Chip gathers an identifier, an ordered input list, a declared output
// tuple, and a body.  Names are unique package-wide.
type Chip struct {
	Name   string
	Inputs []*Value
	Output Tuple
	Body   []Stmt
	// Builtin marks the single primitive chip (Nand), which has no body
	// to lower and is handled specially by the evaluator.
	Builtin bool
}

// Value is a named binding local to a chip body: a parameter, an
// assignment target, or a register handle.  Its Type is set at creation
// by the parser and, for assignment targets, patched in place by cast
// insertion to the type of the right-hand side, so every ValueRef sharing
// the pointer observes the final type.
type Value struct {
	Name string
	Type Type
}

// Stmt is implemented by AssignStmt, RegWriteStmt and RetStmt.
type Stmt interface {
	Span() source.Span
}

// AssignStmt binds the result of Rhs to Targets.
type AssignStmt struct {
	Targets []*Value
	Rhs     Expr
	Spn     source.Span
}

// Span implements Stmt.
func (s *AssignStmt) Span() source.Span { return s.Spn }

// RegWriteStmt schedules a write to Reg, deferred to end-of-tick.
type RegWriteStmt struct {
	Reg *Value
	Rhs Expr
	Spn source.Span
}

// Span implements Stmt.
func (s *RegWriteStmt) Span() source.Span { return s.Spn }

// RetStmt is the terminal statement of a chip body.
type RetStmt struct {
	Results []Expr
	Spn     source.Span
}

// Span implements Stmt.
func (s *RetStmt) Span() source.Span { return s.Spn }

// Expr is implemented by every expression variant in §3 of the
// specification.
type Expr interface {
	Span() source.Span
	// ResultType returns this expression's static type.
	ResultType() Type
}

type exprBase struct {
	Spn source.Span
}

func (e exprBase) Span() source.Span { return e.Spn }

// ValueRef resolves to a binding introduced earlier in the same chip body.
type ValueRef struct {
	exprBase
	Val *Value
}

// ResultType implements Expr.
func (e *ValueRef) ResultType() Type { return e.Val.Type }

// CallExpr invokes a previously declared chip.
type CallExpr struct {
	exprBase
	Callee *Chip
	Args   []Expr
}

// ResultType implements Expr.
func (e *CallExpr) ResultType() Type { return e.Callee.Output }

// CreateRegisterExpr introduces a new register (bare, or a slice of n
// registers).
type CreateRegisterExpr struct {
	exprBase
	Res Type
}

// ResultType implements Expr.
func (e *CreateRegisterExpr) ResultType() Type { return e.Res }

// RegReadExpr reads the pre-tick value of a register (or slice of
// registers).
type RegReadExpr struct {
	exprBase
	Reg *Value
	Res Type
}

// ResultType implements Expr.
func (e *RegReadExpr) ResultType() Type { return e.Res }

// SliceIdxExpr extracts the half-open range [Lo,Hi) from a slice-typed
// expression.
type SliceIdxExpr struct {
	exprBase
	Base   Expr
	Lo, Hi int
	Res    Type
}

// ResultType implements Expr.
func (e *SliceIdxExpr) ResultType() Type { return e.Res }

// SliceJoinExpr concatenates one or more same-element-type expressions
// into a slice.
type SliceJoinExpr struct {
	exprBase
	Elems []Expr
	Res   Type
}

// ResultType implements Expr.
func (e *SliceJoinExpr) ResultType() Type { return e.Res }

// SliceToWireCast adapts a Slice<Wire,1> to a Wire.
type SliceToWireCast struct {
	exprBase
	Inner Expr
}

// ResultType implements Expr.
func (*SliceToWireCast) ResultType() Type { return Wire{} }

// TupleToWireCast adapts a 1-tuple whose sole element is Wire to a Wire.
type TupleToWireCast struct {
	exprBase
	Inner Expr
}

// ResultType implements Expr.
func (*TupleToWireCast) ResultType() Type { return Wire{} }
