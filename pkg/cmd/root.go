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

// Package cmd implements the hdlc command-line driver: compile, run and
// inspect subcommands built on cobra.
package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fexolm/hdlc/pkg/hdl"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hdlc",
	Short: "A compiler and tick-based simulator for the hdlc hardware description language.",
	Long:  "hdlc compiles a small, Nand-based hardware description language and simulates compiled chips one clock tick at a time.",
	Run: func(cmd *cobra.Command, _ []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Print("hdlc ")

			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}

			fmt.Println()

			return
		}

		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main(); it only needs to happen
// once to rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().StringP("entry", "e", "", "entrypoint chip (defaults to the last chip declared in the package)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
	}

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
}

// readSource reads the hdlc source file named by path, or "-" for stdin.
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}

	data, err := os.ReadFile(path)

	return string(data), err
}

// entrypointName resolves the --entry flag, defaulting to the last chip
// declared in pkg so that a single-chip file needs no flag at all.
func entrypointName(cmd *cobra.Command, pkg *hdl.Package) (string, error) {
	if entry, _ := cmd.Flags().GetString("entry"); entry != "" {
		return entry, nil
	}

	for i := len(pkg.Chips) - 1; i >= 0; i-- {
		if !pkg.Chips[i].Builtin {
			return pkg.Chips[i].Name, nil
		}
	}

	return "", fmt.Errorf("hdlc: package declares no chips")
}
