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
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/fexolm/hdlc/pkg/source"
)

// symbols maps local identifiers to their Value within one chip body.
type symbols map[string]*Value

// parser is a hand-written recursive-descent parser over a pre-lexed
// token stream.  It resolves chip calls and local references as it goes,
// so the AST it produces is already fully linked by pointer identity -
// cast insertion (cast.go) only ever patches Value.Type and wraps
// expressions, it never re-resolves names.
type parser struct {
	file  *source.File
	toks  []token
	pos   int
	chips map[string]*Chip
}

// ParsePackage parses source text into a Package whose chip bodies have
// had casts inserted (§4.A, §4.B), or returns the first diagnostic
// encountered.
func ParsePackage(text, name string) (*Package, error) {
	file := source.NewFile(name, []byte(text))

	toks, lexErr := lex(file)
	if lexErr != nil {
		return nil, lexErr
	}

	p := &parser{file: file, toks: toks, chips: map[string]*Chip{}}

	nand := &Chip{
		Name: "Nand",
		Inputs: []*Value{
			{Name: "a", Type: Wire{}},
			{Name: "b", Type: Wire{}},
		},
		Output:  Tuple{Names: []string{"res"}, Elems: []Type{Wire{}}},
		Builtin: true,
	}
	p.chips["Nand"] = nand

	pkg := &Package{Name: name, Chips: []*Chip{nand}, File: file}

	for p.peek().kind != tokEOF {
		start := p.peek().span

		chip, err := p.parseChip()
		if err != nil {
			return nil, err
		}

		if _, dup := p.chips[chip.Name]; dup {
			return nil, p.errorf(source.KindSemantic, start, "chip %q already declared", chip.Name)
		}

		p.chips[chip.Name] = chip
		pkg.Chips = append(pkg.Chips, chip)
	}

	if err := insertCasts(file, pkg); err != nil {
		return nil, err
	}

	log.Debugf("parsed package %q with %d chip(s)", name, len(pkg.Chips)-1)

	return pkg, nil
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(kind source.Kind, span source.Span, format string, args ...any) *source.Error {
	return p.file.Errorf(kind, span, format, args...)
}

func (p *parser) expect(kind tokenKind, what string) (token, *source.Error) {
	t := p.peek()
	if t.kind != kind {
		return t, p.errorf(source.KindParse, t.span, "expected %s, found %q", what, t.text)
	}

	return p.advance(), nil
}

func (p *parser) expectIdent(text string) (token, *source.Error) {
	t := p.peek()
	if t.kind != tokIdent || t.text != text {
		return t, p.errorf(source.KindParse, t.span, "expected %q, found %q", text, t.text)
	}

	return p.advance(), nil
}

func (p *parser) parseUint() (int, *source.Error) {
	t, err := p.expect(tokUint, "integer")
	if err != nil {
		return 0, err
	}

	n, convErr := strconv.Atoi(t.text)
	if convErr != nil {
		return 0, p.errorf(source.KindParse, t.span, "malformed integer %q", t.text)
	}

	return n, nil
}

// parseChip parses "'chip' Ident '(' Params ')' ReturnList Body".
func (p *parser) parseChip() (*Chip, *source.Error) {
	if _, err := p.expectIdent("chip"); err != nil {
		return nil, err
	}

	nameTok, err := p.expect(tokIdent, "chip name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	locals := symbols{}

	inputs, err := p.parseParams(locals)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}

	output, err := p.parseReturnList()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBody(locals)
	if err != nil {
		return nil, err
	}

	return &Chip{Name: nameTok.text, Inputs: inputs, Output: output, Body: body}, nil
}

func (p *parser) parseParams(locals symbols) ([]*Value, *source.Error) {
	var params []*Value

	if p.peek().kind == tokRParen {
		return params, nil
	}

	for {
		nameTok, err := p.expect(tokIdent, "parameter name")
		if err != nil {
			return nil, err
		}

		typ, err := p.parseOptionalArraySuffix(Wire{})
		if err != nil {
			return nil, err
		}

		if _, dup := locals[nameTok.text]; dup {
			return nil, p.errorf(source.KindSemantic, nameTok.span, "duplicate local %q", nameTok.text)
		}

		v := &Value{Name: nameTok.text, Type: typ}
		locals[nameTok.text] = v
		params = append(params, v)

		if p.peek().kind != tokComma {
			break
		}

		p.advance()
	}

	return params, nil
}

// parseOptionalArraySuffix parses an optional "[ Uint ]" and wraps elem in
// a Slice of that size, or returns elem unchanged.
func (p *parser) parseOptionalArraySuffix(elem Type) (Type, *source.Error) {
	if p.peek().kind != tokLBracket {
		return elem, nil
	}

	p.advance()

	size, err := p.parseUint()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, err
	}

	return Slice{Elem: elem, Size: size}, nil
}

func (p *parser) parseReturnList() (Tuple, *source.Error) {
	var out Tuple

	if p.peek().kind == tokLBrace {
		return out, p.errorf(source.KindSemantic, p.peek().span, "chip must declare at least one output")
	}

	for {
		nameTok, err := p.expect(tokIdent, "output name")
		if err != nil {
			return out, err
		}

		typ, err := p.parseOptionalArraySuffix(Wire{})
		if err != nil {
			return out, err
		}

		out.Names = append(out.Names, nameTok.text)
		out.Elems = append(out.Elems, typ)

		if p.peek().kind != tokComma {
			break
		}

		p.advance()
	}

	return out, nil
}

func (p *parser) parseBody(locals symbols) ([]Stmt, *source.Error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}

	var stmts []Stmt

	for p.peek().kind != tokRBrace {
		if p.peek().kind == tokEOF {
			return nil, p.errorf(source.KindParse, p.peek().span, "unexpected end of input, expected '}'")
		}

		stmt, err := p.parseStmt(locals)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	p.advance()

	return stmts, nil
}

func (p *parser) parseStmt(locals symbols) (Stmt, *source.Error) {
	if p.peek().kind == tokIdent && p.peek().text == "return" {
		return p.parseRetStmt(locals)
	}

	save := p.pos

	before := make(symbols, len(locals))
	for name, v := range locals {
		before[name] = v
	}

	if stmt, err := p.parseAssignStmt(locals); err == nil {
		return stmt, nil
	}

	p.pos = save

	// parseVariableList binds its targets into locals before the ':='
	// check can fail, so a rewound Assign attempt must also undo those
	// bindings - otherwise a genuinely undeclared register (e.g. "r <- a"
	// with no prior "r := Register()") is left with a spurious Wire entry
	// and the RegWrite path below never sees it as uninitialized.
	for name := range locals {
		if _, ok := before[name]; !ok {
			delete(locals, name)
		}
	}

	return p.parseRegWriteStmt(locals)
}

func (p *parser) parseRetStmt(locals symbols) (*RetStmt, *source.Error) {
	start := p.peek().span

	if _, err := p.expectIdent("return"); err != nil {
		return nil, err
	}

	results, err := p.parseExprList(locals)
	if err != nil {
		return nil, err
	}

	return &RetStmt{Results: results, Spn: source.NewSpan(start.Start, p.lastEnd())}, nil
}

func (p *parser) parseAssignStmt(locals symbols) (*AssignStmt, *source.Error) {
	start := p.peek().span

	targets, err := p.parseVariableList(locals)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokAssign, "':='"); err != nil {
		return nil, err
	}

	rhs, err := p.parseExpr(locals)
	if err != nil {
		return nil, err
	}

	return &AssignStmt{Targets: targets, Rhs: rhs, Spn: source.NewSpan(start.Start, p.lastEnd())}, nil
}

func (p *parser) parseVariableList(locals symbols) ([]*Value, *source.Error) {
	var targets []*Value

	for {
		nameTok, err := p.expect(tokIdent, "identifier")
		if err != nil {
			return nil, err
		}

		if _, dup := locals[nameTok.text]; dup {
			return nil, p.errorf(source.KindSemantic, nameTok.span, "duplicate local %q", nameTok.text)
		}

		v := &Value{Name: nameTok.text, Type: Wire{}}
		locals[nameTok.text] = v
		targets = append(targets, v)

		if p.peek().kind != tokComma {
			break
		}

		p.advance()
	}

	return targets, nil
}

func (p *parser) parseRegWriteStmt(locals symbols) (*RegWriteStmt, *source.Error) {
	start := p.peek().span

	nameTok, err := p.expect(tokIdent, "register name")
	if err != nil {
		return nil, err
	}

	reg, ok := locals[nameTok.text]
	if !ok {
		return nil, p.errorf(source.KindSemantic, nameTok.span, "register %q was not initialized", nameTok.text)
	}

	if _, err := p.expect(tokArrow, "'<-'"); err != nil {
		return nil, err
	}

	rhs, err := p.parseExpr(locals)
	if err != nil {
		return nil, err
	}

	return &RegWriteStmt{Reg: reg, Rhs: rhs, Spn: source.NewSpan(start.Start, p.lastEnd())}, nil
}

// lastEnd returns the end offset of the most recently consumed token,
// used to build a span covering everything parsed so far in a statement.
func (p *parser) lastEnd() int {
	if p.pos == 0 {
		return 0
	}

	return p.toks[p.pos-1].span.End
}

func (p *parser) parseExprList(locals symbols) ([]Expr, *source.Error) {
	var exprs []Expr

	for {
		e, err := p.parseExpr(locals)
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, e)

		if p.peek().kind != tokComma {
			break
		}

		p.advance()
	}

	return exprs, nil
}

func (p *parser) parseExpr(locals symbols) (Expr, *source.Error) {
	switch {
	case p.peek().kind == tokArrow:
		return p.parseRegRead(locals)
	case p.peek().kind == tokLBracket:
		return p.parseSliceJoin(locals)
	case p.peek().kind == tokIdent && p.peek().text == "Register":
		return p.parseCreateRegister()
	}

	nameTok, err := p.expect(tokIdent, "identifier")
	if err != nil {
		return nil, err
	}

	switch p.peek().kind {
	case tokLParen:
		return p.parseCall(locals, nameTok)
	case tokLBracket:
		return p.parseSliceIdx(locals, nameTok)
	}

	v, ok := locals[nameTok.text]
	if !ok {
		return nil, p.errorf(source.KindSemantic, nameTok.span, "reference to unknown identifier %q", nameTok.text)
	}

	return &ValueRef{exprBase{nameTok.span}, v}, nil
}

func (p *parser) parseCall(locals symbols, nameTok token) (*CallExpr, *source.Error) {
	callee, ok := p.chips[nameTok.text]
	if !ok {
		return nil, p.errorf(source.KindSemantic, nameTok.span, "call to unknown chip %q", nameTok.text)
	}

	p.advance() // '('

	var args []Expr

	if p.peek().kind != tokRParen {
		as, err := p.parseExprList(locals)
		if err != nil {
			return nil, err
		}

		args = as
	}

	end, err := p.expect(tokRParen, "')'")
	if err != nil {
		return nil, err
	}

	return &CallExpr{exprBase{source.NewSpan(nameTok.span.Start, end.span.End)}, callee, args}, nil
}

func (p *parser) parseSliceIdx(locals symbols, nameTok token) (*SliceIdxExpr, *source.Error) {
	v, ok := locals[nameTok.text]
	if !ok {
		return nil, p.errorf(source.KindSemantic, nameTok.span, "reference to unknown identifier %q", nameTok.text)
	}

	p.advance() // '['

	lo, err := p.parseUint()
	if err != nil {
		return nil, err
	}

	hi := lo + 1

	if p.peek().kind == tokColon {
		p.advance()

		hi, err = p.parseUint()
		if err != nil {
			return nil, err
		}
	}

	end, err := p.expect(tokRBracket, "']'")
	if err != nil {
		return nil, err
	}

	base := &ValueRef{exprBase{nameTok.span}, v}

	// v.Type is only a placeholder until cast insertion runs when v was
	// itself bound by an earlier AssignStmt (e.g. to a Call or SliceJoin
	// result), so the Slice assertion, the bounds check against its size,
	// and the resulting Res type are all resolved in cast.go, not here.
	return &SliceIdxExpr{exprBase{source.NewSpan(nameTok.span.Start, end.span.End)}, base, lo, hi, nil}, nil
}

func (p *parser) parseSliceJoin(locals symbols) (*SliceJoinExpr, *source.Error) {
	start := p.peek().span

	p.advance() // '['

	elems, err := p.parseExprList(locals)
	if err != nil {
		return nil, err
	}

	end, err := p.expect(tokRBracket, "']'")
	if err != nil {
		return nil, err
	}

	return &SliceJoinExpr{exprBase{source.NewSpan(start.Start, end.span.End)}, elems, nil}, nil
}

func (p *parser) parseRegRead(locals symbols) (*RegReadExpr, *source.Error) {
	start := p.peek().span

	p.advance() // '<-'

	nameTok, err := p.expect(tokIdent, "register name")
	if err != nil {
		return nil, err
	}

	v, ok := locals[nameTok.text]
	if !ok {
		return nil, p.errorf(source.KindSemantic, nameTok.span, "reference to unknown identifier %q", nameTok.text)
	}

	// v.Type is only a placeholder until cast insertion retypes it from
	// its defining CreateRegisterExpr, so the register-ness check and the
	// resulting Res type are resolved there (cast.go), not here.
	return &RegReadExpr{exprBase{source.NewSpan(start.Start, nameTok.span.End)}, v, nil}, nil
}

func (p *parser) parseCreateRegister() (*CreateRegisterExpr, *source.Error) {
	start := p.peek().span

	p.advance() // 'Register'

	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var typ Type = Register{}

	if p.peek().kind == tokUint {
		n, err := p.parseUint()
		if err != nil {
			return nil, err
		}

		typ = Slice{Elem: Register{}, Size: n}
	}

	end, err := p.expect(tokRParen, "')'")
	if err != nil {
		return nil, err
	}

	return &CreateRegisterExpr{exprBase{source.NewSpan(start.Start, end.span.End)}, typ}, nil
}
