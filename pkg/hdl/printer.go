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
	"strings"
)

// Print renders pkg back into hdlc source text.  The result is not
// guaranteed to match the original text byte-for-byte (identifier
// whitespace and cast positions are not preserved), but re-parsing it
// always yields a chip with the same inputs, output and observable
// behaviour - casts are never printed explicitly, since they are implicit
// at the same Call-arg, Ret-result and SliceJoin-element positions on
// re-parse.
func Print(pkg *Package) string {
	var b strings.Builder

	for _, chip := range pkg.Chips {
		if chip.Builtin {
			continue
		}

		printChip(&b, chip)
	}

	return b.String()
}

func printChip(b *strings.Builder, chip *Chip) {
	fmt.Fprintf(b, "chip %s(%s) %s {\n", chip.Name, printParams(chip.Inputs), printReturnList(chip.Output))

	for _, stmt := range chip.Body {
		printStmt(b, stmt)
	}

	b.WriteString("}\n\n")
}

func printParams(vals []*Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.Name + printArraySuffix(v.Type)
	}

	return strings.Join(parts, ", ")
}

func printReturnList(t Tuple) string {
	parts := make([]string, len(t.Names))
	for i, n := range t.Names {
		parts[i] = n + printArraySuffix(t.Elems[i])
	}

	return strings.Join(parts, ", ")
}

// printArraySuffix renders the "[n]" suffix of a Wire-domain declaration,
// or "" for a bare Wire.
func printArraySuffix(t Type) string {
	if s, ok := t.(Slice); ok {
		return fmt.Sprintf("[%d]", s.Size)
	}

	return ""
}

func printStmt(b *strings.Builder, stmt Stmt) {
	switch s := stmt.(type) {
	case *AssignStmt:
		names := make([]string, len(s.Targets))
		for i, t := range s.Targets {
			names[i] = t.Name
		}

		fmt.Fprintf(b, "  %s := %s\n", strings.Join(names, ", "), printExpr(s.Rhs))
	case *RegWriteStmt:
		fmt.Fprintf(b, "  %s <- %s\n", s.Reg.Name, printExpr(s.Rhs))
	case *RetStmt:
		parts := make([]string, len(s.Results))
		for i, r := range s.Results {
			parts[i] = printExpr(r)
		}

		fmt.Fprintf(b, "  return %s\n", strings.Join(parts, ", "))
	}
}

func printExpr(e Expr) string {
	switch v := e.(type) {
	case *ValueRef:
		return v.Val.Name
	case *CallExpr:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = printExpr(a)
		}

		return fmt.Sprintf("%s(%s)", v.Callee.Name, strings.Join(parts, ", "))
	case *CreateRegisterExpr:
		if s, ok := v.Res.(Slice); ok {
			return fmt.Sprintf("Register(%d)", s.Size)
		}

		return "Register()"
	case *RegReadExpr:
		return "<- " + v.Reg.Name
	case *SliceIdxExpr:
		ref := v.Base.(*ValueRef)
		if v.Hi-v.Lo == 1 {
			return fmt.Sprintf("%s[%d]", ref.Val.Name, v.Lo)
		}

		return fmt.Sprintf("%s[%d:%d]", ref.Val.Name, v.Lo, v.Hi)
	case *SliceJoinExpr:
		parts := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			parts[i] = printExpr(el)
		}

		return "[" + strings.Join(parts, ", ") + "]"
	case *SliceToWireCast:
		return printExpr(v.Inner)
	case *TupleToWireCast:
		return printExpr(v.Inner)
	default:
		return "<?>"
	}
}
