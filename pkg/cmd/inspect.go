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
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fexolm/hdlc/pkg/hdl"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Report a compiled chip's register-buffer size and its input/output slot layout",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := readSource(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		pkg, err := hdl.ParsePackage(src, args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		entry, err := entrypointName(cmd, pkg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		kernel, err := hdl.Compile(src, entry)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		width := terminalWidth()

		fmt.Println(strings.Repeat("=", min(width, 60)))
		fmt.Printf("chip:            %s\n", entry)
		fmt.Printf("register buffer: %d byte(s)\n", kernel.BufferSize())
		fmt.Printf("input width:     %d bit(s)\n", kernel.InputWidth())
		fmt.Printf("output width:    %d bit(s)\n", kernel.OutputWidth())
		fmt.Println(strings.Repeat("-", min(width, 60)))

		for _, chip := range pkg.Chips {
			if chip.Name == entry {
				printSlots(kernel, "input", chip.Inputs)
				printSlots(kernel, "output", nil, chip.Output)
			}
		}
	},
}

// printSlots prints the offset/width of every named input, or every named
// output when a Tuple is supplied instead.
func printSlots(kernel *hdl.Kernel, kind string, inputs []*hdl.Value, output ...hdl.Tuple) {
	if kind == "input" {
		for _, v := range inputs {
			slot, err := kernel.InputSlot(v.Name)
			if err != nil {
				continue
			}

			fmt.Printf("  in  %-12s offset=%-3d width=%d\n", v.Name, slot.Offset, slot.Width)
		}

		return
	}

	for _, t := range output {
		for _, name := range t.Names {
			slot, err := kernel.OutputSlot(name)
			if err != nil {
				continue
			}

			fmt.Printf("  out %-12s offset=%-3d width=%d\n", name, slot.Offset, slot.Width)
		}
	}
}

// terminalWidth returns the width of the controlling terminal, or a
// conservative fallback when stdout is not a terminal (e.g. piped output).
func terminalWidth() int {
	fd := int(os.Stdout.Fd())

	if !term.IsTerminal(fd) {
		return 80
	}

	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}

	return w
}
