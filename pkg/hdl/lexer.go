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
	"unicode"

	"github.com/fexolm/hdlc/pkg/source"
)

// tokenKind enumerates the lexical categories of the hdlc grammar.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokUint
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokComma
	tokColon
	tokAssign // ":="
	tokArrow  // "<-"
)

// token is one lexed unit, with its source span for diagnostics.
type token struct {
	kind tokenKind
	text string
	span source.Span
}

// lex tokenizes the full contents of file, stopping at the first
// unrecognised character.
func lex(file *source.File) ([]token, *source.Error) {
	var (
		text   = file.Text()
		tokens []token
		pos    = 0
	)

	for pos < len(text) {
		c := text[pos]

		switch {
		case unicode.IsSpace(c):
			pos++
		case c == '_' || unicode.IsLetter(c):
			start := pos
			for pos < len(text) && (text[pos] == '_' || unicode.IsLetter(text[pos]) || unicode.IsDigit(text[pos])) {
				pos++
			}
			tokens = append(tokens, token{tokIdent, string(text[start:pos]), source.NewSpan(start, pos)})
		case unicode.IsDigit(c):
			start := pos
			for pos < len(text) && unicode.IsDigit(text[pos]) {
				pos++
			}
			tokens = append(tokens, token{tokUint, string(text[start:pos]), source.NewSpan(start, pos)})
		case c == '(':
			tokens = append(tokens, token{tokLParen, "(", source.NewSpan(pos, pos+1)})
			pos++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")", source.NewSpan(pos, pos+1)})
			pos++
		case c == '{':
			tokens = append(tokens, token{tokLBrace, "{", source.NewSpan(pos, pos+1)})
			pos++
		case c == '}':
			tokens = append(tokens, token{tokRBrace, "}", source.NewSpan(pos, pos+1)})
			pos++
		case c == '[':
			tokens = append(tokens, token{tokLBracket, "[", source.NewSpan(pos, pos+1)})
			pos++
		case c == ']':
			tokens = append(tokens, token{tokRBracket, "]", source.NewSpan(pos, pos+1)})
			pos++
		case c == ',':
			tokens = append(tokens, token{tokComma, ",", source.NewSpan(pos, pos+1)})
			pos++
		case c == ':':
			if pos+1 < len(text) && text[pos+1] == '=' {
				tokens = append(tokens, token{tokAssign, ":=", source.NewSpan(pos, pos+2)})
				pos += 2
			} else {
				tokens = append(tokens, token{tokColon, ":", source.NewSpan(pos, pos+1)})
				pos++
			}
		case c == '<':
			if pos+1 < len(text) && text[pos+1] == '-' {
				tokens = append(tokens, token{tokArrow, "<-", source.NewSpan(pos, pos+2)})
				pos += 2
			} else {
				return nil, file.Errorf(source.KindParse, source.NewSpan(pos, pos+1), "unexpected character %q", c)
			}
		default:
			return nil, file.Errorf(source.KindParse, source.NewSpan(pos, pos+1), "unexpected character %q", c)
		}
	}

	tokens = append(tokens, token{tokEOF, "", source.NewSpan(len(text), len(text))})

	return tokens, nil
}
