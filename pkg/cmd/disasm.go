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
	"io"

	"github.com/consensys/go-asmvm/pkg/binfile"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [flags] file.bin",
	Short: "print a binary module as assembly.",
	Long: `Print a binary module in assembly syntax.  Translating the output reproduces
the same module, except that HALT instructions and empty constant values are lost.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return DisassembleFile(args[0], stdout)
	},
}

// DisassembleFile writes a given binary module in assembly syntax.
func DisassembleFile(filename string, w io.Writer) error {
	if err := CheckExtension(filename, ".bin"); err != nil {
		return err
	}
	//
	module, err := binfile.ReadFile(filename)
	if err != nil {
		return err
	}
	//
	_, err = io.WriteString(w, module.String())
	//
	return err
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
