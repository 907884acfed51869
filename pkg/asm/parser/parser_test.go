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
package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/consensys/go-asmvm/pkg/asm"
	"github.com/consensys/go-asmvm/pkg/util/assert"
	"github.com/consensys/go-asmvm/pkg/util/source"
)

// ===================================================================
// Sections
// ===================================================================

func Test_Section_01(t *testing.T) {
	checkModule(t, "", asm.Module{})
}

// Lines outside of any section are ignored.
func Test_Section_02(t *testing.T) {
	checkModule(t, "X b 5\nLOAD X\n", asm.Module{})
}

func Test_Section_03(t *testing.T) {
	checkModule(t, "section .text\nLOAD 1\nsection .data\nX b 5\nsection .text\nSTORE X\n", asm.Module{
		Constants:    []asm.Constant{{Name: "X", Tag: 'b', Value: "5"}},
		Instructions: []asm.Instruction{{Opcode: asm.LOAD, Operand1: "1"}, {Opcode: asm.STORE, Operand1: "X"}},
	})
}

// Unrecognised section directives leave the current section unchanged.
func Test_Section_04(t *testing.T) {
	checkModule(t, "section .text\nsection .bss\nLOAD 1\nsection\nLOAD 2\n", asm.Module{
		Instructions: []asm.Instruction{{Opcode: asm.LOAD, Operand1: "1"}, {Opcode: asm.LOAD, Operand1: "2"}},
	})
}

func Test_Section_05(t *testing.T) {
	checkModule(t, "\r\n  section   .data \t\r\n\n  X\tw  7\r\n", asm.Module{
		Constants: []asm.Constant{{Name: "X", Tag: 'w', Value: "7"}},
	})
}

// ===================================================================
// Constants
// ===================================================================

func Test_Constant_01(t *testing.T) {
	checkConstants(t, "X b 5", asm.Constant{Name: "X", Tag: 'b', Value: "5"})
	checkConstants(t, "X d -3", asm.Constant{Name: "X", Tag: 'd', Value: "-3"})
	checkConstants(t, "X t 1000", asm.Constant{Name: "X", Tag: 't', Value: "1000"})
}

// Without a tag, the width defaults to one byte.
func Test_Constant_02(t *testing.T) {
	checkConstants(t, "X 5", asm.Constant{Name: "X", Tag: 'b', Value: "5"})
	checkConstants(t, "X 12 34", asm.Constant{Name: "X", Tag: 'b', Value: "12"})
	checkConstants(t, "X w", asm.Constant{Name: "X", Tag: 'b', Value: "w"})
	checkConstants(t, "X", asm.Constant{Name: "X", Tag: 'b', Value: ""})
}

// Words after the tag are concatenated to form the value.
func Test_Constant_03(t *testing.T) {
	checkConstants(t, "X w 1 2", asm.Constant{Name: "X", Tag: 'w', Value: "12"})
	checkConstants(t, "X q - 7", asm.Constant{Name: "X", Tag: 'q', Value: "-7"})
}

// A single digit followed by something else is taken as a tag.
func Test_Constant_04(t *testing.T) {
	checkConstants(t, "X 5 6", asm.Constant{Name: "X", Tag: '5', Value: "6"})
	checkConstants(t, "X z 5", asm.Constant{Name: "X", Tag: 'z', Value: "5"})
}

func Test_Constant_05(t *testing.T) {
	checkConstants(t, "X b 1\nY w 2\nX d 3",
		asm.Constant{Name: "X", Tag: 'b', Value: "1"},
		asm.Constant{Name: "Y", Tag: 'w', Value: "2"},
		asm.Constant{Name: "X", Tag: 'd', Value: "3"})
}

// Long names and values are retained in full, and only truncated when written.
func Test_Constant_06(t *testing.T) {
	checkConstants(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ b 12345678901234567890",
		asm.Constant{Name: "ABCDEFGHIJKLMNOPQRSTUVWXYZ", Tag: 'b', Value: "12345678901234567890"})
}

func Test_Constant_07(t *testing.T) {
	var builder strings.Builder
	//
	builder.WriteString("section .data\n")
	//
	for i := 0; i < asm.MAX_CONSTANTS; i++ {
		fmt.Fprintf(&builder, "C%d b %d\n", i, i%128)
	}
	//
	module, errs := ParseString(builder.String())
	assert.Equal(t, 0, len(errs))
	assert.Equal(t, asm.MAX_CONSTANTS, len(module.Constants))
	// One more is too many
	builder.WriteString("EXTRA b 1\nEXTRA2 b 2\n")
	//
	module, errs = ParseString(builder.String())
	assert.Equal(t, 2, len(errs))
	assert.Equal(t, asm.MAX_CONSTANTS, len(module.Constants))
	assert.Equal(t, "too many constants (maximum is 255)", errs[0].Message())
	assert.Equal(t, ":257: too many constants (maximum is 255)", errs[0].Error())
}

// ===================================================================
// Instructions
// ===================================================================

func Test_Instruction_01(t *testing.T) {
	checkInstructions(t, "LOAD X\nSTORE Y\nADD 1\nSUB R0\nJMP 0\nJZ 3\nPUSH -5\nPOP R3",
		asm.Instruction{Opcode: asm.LOAD, Operand1: "X"},
		asm.Instruction{Opcode: asm.STORE, Operand1: "Y"},
		asm.Instruction{Opcode: asm.ADD, Operand1: "1"},
		asm.Instruction{Opcode: asm.SUB, Operand1: "R0"},
		asm.Instruction{Opcode: asm.JMP, Operand1: "0"},
		asm.Instruction{Opcode: asm.JZ, Operand1: "3"},
		asm.Instruction{Opcode: asm.PUSH, Operand1: "-5"},
		asm.Instruction{Opcode: asm.POP, Operand1: "R3"})
}

func Test_Instruction_02(t *testing.T) {
	checkInstructions(t, "MOV R0 X\nMOV R1\nMOV",
		asm.Instruction{Opcode: asm.MOV, Operand1: "R0", Operand2: "X"},
		asm.Instruction{Opcode: asm.MOV, Operand1: "R1"},
		asm.Instruction{Opcode: asm.MOV})
}

// Surplus operands are ignored.
func Test_Instruction_03(t *testing.T) {
	checkInstructions(t, "LOAD X Y\nMOV R0 R1 R2\nPOP",
		asm.Instruction{Opcode: asm.LOAD, Operand1: "X"},
		asm.Instruction{Opcode: asm.MOV, Operand1: "R0", Operand2: "R1"},
		asm.Instruction{Opcode: asm.POP})
}

// HALT and unrecognised mnemonics are dropped.
func Test_Instruction_04(t *testing.T) {
	checkInstructions(t, "LOAD 1\nHALT\nload 2\nNOP\nADD 3\nHALT",
		asm.Instruction{Opcode: asm.LOAD, Operand1: "1"},
		asm.Instruction{Opcode: asm.ADD, Operand1: "3"})
}

func Test_Instruction_05(t *testing.T) {
	checkInstructions(t, "PUSH 1234567890123456789\nMOV ABCDEFGHIJKLMNOPQR X",
		asm.Instruction{Opcode: asm.PUSH, Operand1: "1234567890123456789"},
		asm.Instruction{Opcode: asm.MOV, Operand1: "ABCDEFGHIJKLMNOPQR", Operand2: "X"})
}

// ===================================================================
// Encodings
// ===================================================================

// Names which are not valid UTF-8 (e.g. CP1251) are retained byte for byte.
func Test_Encoding_01(t *testing.T) {
	checkModule(t, "section .data\n\xe0\xe1 b 1\n\xe2\xe3 b 2\nsection .text\nLOAD \xe0\xe1\nMOV \xe2\xe3 \xe0\xe1\n", asm.Module{
		Constants: []asm.Constant{
			{Name: "\xe0\xe1", Tag: 'b', Value: "1"},
			{Name: "\xe2\xe3", Tag: 'b', Value: "2"},
		},
		Instructions: []asm.Instruction{
			{Opcode: asm.LOAD, Operand1: "\xe0\xe1"},
			{Opcode: asm.MOV, Operand1: "\xe2\xe3", Operand2: "\xe0\xe1"},
		},
	})
}

// Truncation counts bytes of the original text.
func Test_Encoding_02(t *testing.T) {
	name := strings.Repeat("\xe0", 16)
	module, errs := ParseString("section .data\n" + name + " b 1\n")
	//
	assert.Equal(t, 0, len(errs))
	assert.Equal(t, name, module.Constants[0].Name)
	assert.True(t, asm.IsTruncated(module.Constants[0].Name))
	assert.Equal(t, strings.Repeat("\xe0", 15), asm.Truncate(module.Constants[0].Name))
}

// ===================================================================
// Source Maps
// ===================================================================

func Test_SourceMap_01(t *testing.T) {
	srcfile := source.NewSourceFile("test.asm", []byte("section .text\nLOAD 1\n\nHALT\n  ADD   2  \nfoo\nPUSH 3"))
	res, errs := Parse(srcfile)
	//
	assert.Equal(t, 0, len(errs))
	assert.Equal(t, 3, len(res.Module.Instructions))
	assert.Equal(t, srcfile, res.SourceMap.Source())
	//
	checkLine(t, res.SourceMap, 0, 2, "LOAD 1")
	checkLine(t, res.SourceMap, 1, 5, "  ADD   2  ")
	checkLine(t, res.SourceMap, 2, 7, "PUSH 3")
	assert.False(t, res.SourceMap.Has(3))
	// Span covers the words only
	span := res.SourceMap.Get(1)
	assert.Equal(t, "ADD   2", srcfile.Text(span))
}

// Many dropped lines between instructions.
func Test_SourceMap_02(t *testing.T) {
	var builder strings.Builder
	//
	builder.WriteString("section .text\n")
	//
	for i := 0; i < 20_000; i++ {
		builder.WriteString("; comment\nLOAD 1\nHALT\n")
	}
	//
	res, errs := Parse(source.NewSourceFile("test.asm", []byte(builder.String())))
	assert.Equal(t, 0, len(errs))
	assert.Equal(t, 20_000, len(res.Module.Instructions))
	//
	for _, i := range []uint{0, 1, 9_999, 19_999} {
		checkLine(t, res.SourceMap, i, 3+3*int(i), "LOAD 1")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkModule(t *testing.T, text string, expected asm.Module) {
	t.Helper()
	//
	module, errs := ParseString(text)
	assert.Equal(t, 0, len(errs))
	assert.Equal(t, len(expected.Constants), len(module.Constants), "constants")
	assert.Equal(t, len(expected.Instructions), len(module.Instructions), "instructions")
	//
	for i := range expected.Constants {
		assert.Equal(t, expected.Constants[i], module.Constants[i])
	}
	//
	for i := range expected.Instructions {
		assert.Equal(t, expected.Instructions[i], module.Instructions[i])
	}
}

func checkConstants(t *testing.T, lines string, constants ...asm.Constant) {
	t.Helper()
	checkModule(t, "section .data\n"+lines, asm.Module{Constants: constants})
}

func checkInstructions(t *testing.T, lines string, insns ...asm.Instruction) {
	t.Helper()
	checkModule(t, "section .text\n"+lines, asm.Module{Instructions: insns})
}

func checkLine(t *testing.T, srcmap *source.Map[uint], index uint, number int, text string) {
	t.Helper()
	//
	line := srcmap.Line(index)
	assert.Equal(t, number, line.Number())
	assert.Equal(t, text, line.String())
}
