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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/consensys/go-asmvm/pkg/asm/parser"
	"github.com/consensys/go-asmvm/pkg/binfile"
	"github.com/consensys/go-asmvm/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DEFAULT_OUTPUT is the file to which binary modules are written by default.
const DEFAULT_OUTPUT = "program.bin"

// ErrSyntax indicates an assembly file could not be translated.
var ErrSyntax = errors.New("syntax error(s)")

var assembleCmd = &cobra.Command{
	Use:     "assemble [flags] [file.asm]",
	Short:   "translate an assembly file into a binary module.",
	Long:    `Translate an assembly file into a binary module.  If no file is given, the user is prompted for one.`,
	Aliases: []string{"asm"},
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, err := inputFilename(args, ".asm")
		if err != nil {
			return err
		}
		//
		config := AssembleConfig{
			Output:  GetString(cmd, "output"),
			Listing: GetFlag(cmd, "listing"),
		}
		//
		return AssembleFile(filename, config, stdout)
	},
}

// AssembleConfig determines how an assembly file is translated.
type AssembleConfig struct {
	// File to which the binary module is written.
	Output string
	// Print a listing of the translated instructions.
	Listing bool
}

// AssembleFile translates a given assembly file into a binary module, and
// writes it to the configured output file.  Syntax errors are printed to
// stderr, and nothing is written in that case.
func AssembleFile(filename string, config AssembleConfig, w io.Writer) error {
	if err := CheckExtension(filename, ".asm"); err != nil {
		return err
	}
	//
	log.Debug(fmt.Sprintf("translating source file %s", filename))
	// Read source file
	srcfile, err := source.ReadFile(filename)
	if err != nil {
		return err
	}
	//
	res, errs := parser.Parse(srcfile)
	// Check for errors
	if len(errs) != 0 {
		for _, e := range errs {
			printSyntaxError(os.Stderr, &e)
		}
		//
		return fmt.Errorf("%s: %d %w", filename, len(errs), ErrSyntax)
	}
	//
	if config.Listing {
		writeListing(w, res)
	}
	//
	log.Debugf("translated %d constants and %d instructions", len(res.Module.Constants), len(res.Module.Instructions))
	//
	return binfile.WriteFile(config.Output, res.Module)
}

// Write each instruction alongside its index and originating line.
func writeListing(w io.Writer, res parser.Result) {
	for i, insn := range res.Module.Instructions {
		line := res.SourceMap.Line(uint(i))
		fmt.Fprintf(w, "[%d]\t%-24s; line %d\n", i, insn.String(), line.Number())
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(assembleCmd)
	assembleCmd.Flags().StringP("output", "o", DEFAULT_OUTPUT, "binary module to write")
	assembleCmd.Flags().Bool("listing", false, "print the translated instructions")
}
