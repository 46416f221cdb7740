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
	"bufio"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fexolm/hdlc/pkg/hdl"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Simulate a chip one tick per line of stdin, each line a string of 0/1 bits",
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

		log.Debugf("running chip %q: %d register byte(s), %d input bit(s), %d output bit(s)",
			entry, kernel.BufferSize(), kernel.InputWidth(), kernel.OutputWidth())

		regBuf := make([]byte, kernel.BufferSize())
		out := make([]byte, kernel.OutputWidth())

		scanner := bufio.NewScanner(os.Stdin)
		tick := 0

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			in, err := parseBits(line, kernel.InputWidth())
			if err != nil {
				fmt.Fprintf(os.Stderr, "tick %d: %v\n", tick, err)
				os.Exit(3)
			}

			if err := kernel.Run(regBuf, in, out); err != nil {
				fmt.Fprintf(os.Stderr, "tick %d: %v\n", tick, err)
				os.Exit(3)
			}

			fmt.Println(formatBits(out))

			tick++
		}
	},
}

func parseBits(s string, width int) ([]byte, error) {
	if len(s) != width {
		return nil, fmt.Errorf("expected %d bit(s), got %d", width, len(s))
	}

	out := make([]byte, width)

	for i, c := range s {
		switch c {
		case '0':
			out[i] = 0
		case '1':
			out[i] = 1
		default:
			return nil, fmt.Errorf("invalid bit %q at position %d", c, i)
		}
	}

	return out, nil
}

func formatBits(bits []byte) string {
	var b strings.Builder

	for _, v := range bits {
		if v == 0 {
			b.WriteByte('0')
		} else {
			b.WriteByte('1')
		}
	}

	return b.String()
}
