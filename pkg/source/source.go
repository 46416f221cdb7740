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

// Package source provides source-file text and position tracking shared by
// the hdlc lexer, parser and diagnostics.
package source

import "fmt"

// File represents one package's source text, addressable by rune offset so
// that diagnostics can be reported with a 0-based line and column.
type File struct {
	name string
	text []rune
}

// NewFile constructs a source file from its name and raw bytes.
func NewFile(name string, contents []byte) *File {
	return &File{name, []rune(string(contents))}
}

// Name returns the display name of this file (e.g. a filename, or a
// caller-supplied label when compiling from an in-memory string).
func (f *File) Name() string {
	return f.name
}

// Text returns the full contents of this file as runes.
func (f *File) Text() []rune {
	return f.text
}

// Len returns the number of runes in this file.
func (f *File) Len() int {
	return len(f.text)
}

// At returns the rune at a given offset, or -1 if the offset is at or
// beyond the end of the file.
func (f *File) At(offset int) rune {
	if offset < 0 || offset >= len(f.text) {
		return -1
	}

	return f.text[offset]
}

// Position resolves a rune offset into a 0-based (line, column) pair.  An
// offset beyond the end of the file resolves to the position one past the
// last character, which is sufficient for reporting "unexpected end of
// input" diagnostics.
func (f *File) Position(offset int) (line, col int) {
	if offset > len(f.text) {
		offset = len(f.text)
	}

	for i := 0; i < offset; i++ {
		if f.text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}

	return line, col
}

// Span identifies a half-open range [Start,End) of rune offsets within a
// File.
type Span struct {
	Start int
	End   int
}

// NewSpan constructs a span covering [start,end).
func NewSpan(start, end int) Span {
	return Span{start, end}
}

// Kind categorises an Error, matching the error kinds required of the
// runtime API: parse, type, unknown-symbol (folded into semantic) and
// unknown-entrypoint (folded into build).
type Kind int

const (
	// KindParse covers lexical and grammar errors: unexpected characters,
	// malformed integers, missing punctuation, end-of-input mid-chip.
	KindParse Kind = iota
	// KindSemantic covers name resolution and arity errors: duplicate
	// chips, duplicate locals, unresolved identifiers, out-of-range slice
	// indices, arity mismatches.
	KindSemantic
	// KindType covers cast and element-type errors.
	KindType
	// KindBuild covers errors raised by Compile itself, such as an
	// unknown entrypoint name.
	KindBuild
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindSemantic:
		return "semantic error"
	case KindType:
		return "type error"
	case KindBuild:
		return "build error"
	default:
		return "error"
	}
}

// Error is a structured diagnostic naming its kind, message, and 0-based
// line/column within the offending source file.
type Error struct {
	File *File
	Span Span
	Kind Kind
	Msg  string
}

// Errorf constructs a new Error anchored at the given span.
func (f *File) Errorf(kind Kind, span Span, format string, args ...any) *Error {
	return &Error{f, span, kind, fmt.Sprintf(format, args...)}
}

// Line returns the 0-based line at which this error starts.
func (e *Error) Line() int {
	line, _ := e.File.Position(e.Span.Start)
	return line
}

// Col returns the 0-based column at which this error starts.
func (e *Error) Col() int {
	_, col := e.File.Position(e.Span.Start)
	return col
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.File.Name(), e.Line(), e.Col(), e.Kind, e.Msg)
}
