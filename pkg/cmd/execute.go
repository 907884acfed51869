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
	"github.com/consensys/go-asmvm/pkg/util"
	"github.com/consensys/go-asmvm/pkg/vm"
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// DEFAULT_CHUNK is the default number of steps executed between progress
// reports.
const DEFAULT_CHUNK = 1024

var executeCmd = &cobra.Command{
	Use:     "execute [flags] [file.bin]",
	Short:   "execute a binary module.",
	Long:    `Execute a binary module to completion, and then report the final machine state.`,
	Aliases: []string{"exec", "run"},
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, err := inputFilename(args, ".bin")
		if err != nil {
			return err
		}
		//
		config := ExecuteConfig{
			Trace: GetFlag(cmd, "trace"),
			Chunk: GetUint(cmd, "chunk"),
		}
		//
		return ExecuteFile(filename, config, stdout)
	},
}

// ExecuteConfig determines how a binary module is executed.
type ExecuteConfig struct {
	// Log every instruction executed.
	Trace bool
	// Number of steps executed between progress reports.
	Chunk uint
}

// ExecuteFile loads a given binary module, executes it to completion and then
// writes a report of the final machine state.  No report is written if
// execution fails.
func ExecuteFile(filename string, config ExecuteConfig, w io.Writer) error {
	if err := CheckExtension(filename, ".bin"); err != nil {
		return err
	}
	//
	module, err := binfile.ReadFile(filename)
	if err != nil {
		return err
	}
	//
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debug(spew.Sdump(module))
	}
	//
	machine, err := vm.Load(module)
	if err != nil {
		return err
	}
	//
	if config.Trace {
		machine.WithTracer(vm.LogTracer{Level: log.InfoLevel})
	}
	//
	if config.Chunk == 0 {
		config.Chunk = DEFAULT_CHUNK
	}
	//
	stats := util.NewPerfStats()
	nsteps, err := vm.ExecuteAll(machine, config.Chunk)
	//
	stats.Log("execution", nsteps)
	//
	if err != nil {
		return err
	}
	//
	return machine.Report(w)
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(executeCmd)
	executeCmd.Flags().Bool("trace", false, "log every instruction executed")
	executeCmd.Flags().Uint("chunk", DEFAULT_CHUNK, "number of steps between progress reports")
}
