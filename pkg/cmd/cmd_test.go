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
	"os"
	"path/filepath"
	"strings"

	"github.com/consensys/go-asmvm/pkg/binfile"
	"github.com/consensys/go-asmvm/pkg/util/source"
	"github.com/consensys/go-asmvm/pkg/util/termio"
	"github.com/consensys/go-asmvm/pkg/vm"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const example = `section .data
X b 5
section .text
LOAD X
ADD X
HALT
`

var _ = Describe("Commands", func() {
	var (
		dir    string
		output string
		out    strings.Builder
	)

	// Write a source file into the temporary directory
	write := func(name string, contents string) string {
		filename := filepath.Join(dir, name)
		Expect(os.WriteFile(filename, []byte(contents), 0o644)).To(Succeed())
		//
		return filename
	}

	BeforeEach(func() {
		var err error
		//
		dir, err = os.MkdirTemp("", "asmvm")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
		//
		output = filepath.Join(dir, DEFAULT_OUTPUT)
		out.Reset()
	})

	Context("assemble", func() {
		It("should write a binary module", func() {
			input := write("example.asm", example)
			//
			Expect(AssembleFile(input, AssembleConfig{Output: output}, &out)).To(Succeed())
			//
			data, err := os.ReadFile(output)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(HaveLen(1 + binfile.CONSTANT_RECORD_WIDTH + 2*binfile.INSTRUCTION_RECORD_WIDTH))
			Expect(out.String()).To(BeEmpty())
		})

		It("should print a listing", func() {
			input := write("example.asm", example)
			//
			Expect(AssembleFile(input, AssembleConfig{Output: output, Listing: true}, &out)).To(Succeed())
			Expect(strings.Split(out.String(), "\n")).To(Equal([]string{
				"[0]\tLOAD X                  ; line 4",
				"[1]\tADD X                   ; line 5",
				"",
			}))
		})

		It("should prompt for a file", func() {
			var prompt strings.Builder
			//
			input := write("example.asm", example)
			//
			DeferCleanup(func(t *termio.Terminal) { terminal = t }, terminal)
			terminal = termio.NewPipe(strings.NewReader(input+"\n"), &prompt)
			//
			rootCmd.SetArgs([]string{"assemble", "-o", output})
			Expect(rootCmd.Execute()).To(Succeed())
			Expect(prompt.String()).To(Equal("Enter .asm file: "))
			Expect(output).To(BeAnExistingFile())
		})

		It("should fail when no file is entered", func() {
			DeferCleanup(func(t *termio.Terminal) { terminal = t }, terminal)
			terminal = termio.NewPipe(strings.NewReader(""), &out)
			//
			_, err := inputFilename(nil, ".bin")
			Expect(err).To(MatchError(termio.ErrNoInput))
			Expect(out.String()).To(Equal("Enter .bin file: "))
		})

		It("should reject the wrong extension", func() {
			input := write("example.txt", example)
			//
			Expect(AssembleFile(input, AssembleConfig{Output: output}, &out)).To(MatchError(ErrWrongExtension))
			Expect(output).NotTo(BeAnExistingFile())
		})

		It("should report a missing file", func() {
			input := filepath.Join(dir, "missing.asm")
			//
			Expect(AssembleFile(input, AssembleConfig{Output: output}, &out)).To(MatchError(os.ErrNotExist))
		})

		It("should not write a module with too many constants", func() {
			var builder strings.Builder
			//
			builder.WriteString("section .data\n")
			//
			for i := 0; i < 256; i++ {
				builder.WriteString("X b 0\n")
			}
			//
			input := write("big.asm", builder.String())
			//
			Expect(AssembleFile(input, AssembleConfig{Output: output}, &out)).To(MatchError(ErrSyntax))
			Expect(output).NotTo(BeAnExistingFile())
		})
	})

	Context("execute", func() {
		assemble := func(name string, contents string) string {
			module := filepath.Join(dir, strings.TrimSuffix(name, ".asm")+".bin")
			Expect(AssembleFile(write(name, contents), AssembleConfig{Output: module}, &out)).To(Succeed())
			//
			return module
		}

		It("should report the final state", func() {
			module := assemble("example.asm", example)
			//
			Expect(ExecuteFile(module, ExecuteConfig{}, &out)).To(Succeed())
			Expect(out.String()).To(HavePrefix("Program Execution Report:\n"))
			Expect(out.String()).To(ContainSubstring("AC: 10\n"))
			Expect(out.String()).To(ContainSubstring("\nConstants:\nX: 5\n"))
			Expect(out.String()).To(ContainSubstring("\nMemory:\n0000: 05\n"))
		})

		It("should execute in small chunks with tracing", func() {
			module := assemble("stack.asm", "section .text\nPUSH 3\nPUSH 4\nPOP R0\nPOP R1\nHALT\n")
			//
			Expect(ExecuteFile(module, ExecuteConfig{Trace: true, Chunk: 1}, &out)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("R0: 4\nR1: 3\n"))
			Expect(out.String()).To(HaveSuffix("\nStack:\n"))
		})

		It("should fail on stack underflow without a report", func() {
			module := assemble("underflow.asm", "section .text\nPOP R0\n")
			//
			Expect(ExecuteFile(module, ExecuteConfig{}, &out)).To(MatchError(vm.ErrStackUnderflow))
			Expect(out.String()).To(BeEmpty())
		})

		It("should fail on a malformed constant", func() {
			module := assemble("bad.asm", "section .data\nX b five\n")
			//
			Expect(ExecuteFile(module, ExecuteConfig{}, &out)).To(MatchError(vm.ErrMalformedConstantValue))
		})

		It("should fail on a malformed module", func() {
			module := write("junk.bin", "\x01abc")
			//
			Expect(ExecuteFile(module, ExecuteConfig{}, &out)).To(MatchError(binfile.ErrMalformedModule))
		})

		It("should reject the wrong extension", func() {
			module := assemble("example.asm", example)
			//
			Expect(ExecuteFile(strings.TrimSuffix(module, ".bin"), ExecuteConfig{}, &out)).
				To(MatchError(ErrWrongExtension))
		})
	})

	Context("disasm", func() {
		It("should reproduce the translated program", func() {
			module := filepath.Join(dir, "example.bin")
			Expect(AssembleFile(write("example.asm", example), AssembleConfig{Output: module}, &out)).To(Succeed())
			//
			Expect(DisassembleFile(module, &out)).To(Succeed())
			Expect(out.String()).To(Equal("section .data\nX b 5\nsection .text\nLOAD X\nADD X\n"))
		})
	})

	Context("syntax errors", func() {
		It("should highlight the offending text", func() {
			srcfile := source.NewSourceFile("test.asm", []byte("section .data\n  X b 5\n"))
			err := srcfile.SyntaxError(source.NewSpan(16, 21), "too many constants")
			//
			printSyntaxError(&out, err)
			Expect(out.String()).To(Equal("test.asm:2:3-8 too many constants\n\n  X b 5\n  ^^^^^\n"))
		})
	})
})
