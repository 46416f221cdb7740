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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fexolm/hdlc/pkg/hdl"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Parse and elaborate a package, reporting any error",
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

		log.Debugf("%s: %d chip(s) declared", args[0], len(pkg.Chips)-1)

		if print, _ := cmd.Flags().GetBool("print"); print {
			fmt.Print(hdl.Print(pkg))
			return
		}

		fmt.Printf("%s: ok\n", args[0])
	},
}

func init() {
	compileCmd.Flags().Bool("print", false, "pretty-print the elaborated package instead of reporting ok")
}
