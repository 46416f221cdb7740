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
package source

import "testing"

func Test_Position_FirstLine(t *testing.T) {
	f := NewFile("t", []byte("chip And(a,b)"))
	line, col := f.Position(5)

	if line != 0 || col != 5 {
		t.Fatalf("expected (0,5), got (%d,%d)", line, col)
	}
}

func Test_Position_SecondLine(t *testing.T) {
	f := NewFile("t", []byte("chip And(a,b) {\n  return a\n}"))
	line, col := f.Position(19)

	if line != 1 || col != 3 {
		t.Fatalf("expected (1,3), got (%d,%d)", line, col)
	}
}

func Test_Error_Formats_Position(t *testing.T) {
	f := NewFile("foo.hdl", []byte("chip\nAnd"))
	err := f.Errorf(KindParse, NewSpan(5, 8), "unexpected %q", "And")

	want := "foo.hdl:1:0: parse error: unexpected \"And\""
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
