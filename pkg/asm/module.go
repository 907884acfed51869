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
package asm

import (
	"strings"
)

// TEXT_WIDTH is the number of bytes occupied by every text field (i.e. names,
// values and operands) in the binary module format.
const TEXT_WIDTH = 16

// MAX_TEXT is the maximum number of visible characters in a text field, since
// every field must retain a terminating NUL.
const MAX_TEXT = TEXT_WIDTH - 1

// MAX_CONSTANTS is the maximum number of constants in a module, as determined by
// the single byte used to hold the count.
const MAX_CONSTANTS = 255

// DEFAULT_TAG is the width tag used when a constant declaration omits one.
const DEFAULT_TAG byte = 'b'

// Truncate a given string to fit within a text field.  Anything beyond MAX_TEXT
// bytes is silently dropped.
func Truncate(text string) string {
	if len(text) > MAX_TEXT {
		return text[:MAX_TEXT]
	}
	//
	return text
}

// IsTruncated checks whether a given string would be truncated when written into
// a text field.
func IsTruncated(text string) bool {
	return len(text) > MAX_TEXT
}

// Width returns the number of bytes of memory occupied by a constant with the
// given width tag.  Unknown tags have width zero, meaning the constant occupies
// no memory at all.
func Width(tag byte) uint {
	switch tag {
	case 'b':
		return 1
	case 'w':
		return 2
	case 'd':
		return 4
	case 'q':
		return 8
	case 't':
		return 10
	default:
		return 0
	}
}

// Constant represents a named, initialised region of memory.  The value is held
// as decimal text, exactly as it is written in the binary module, and is only
// parsed into an integer when the module is loaded.
type Constant struct {
	Name  string
	Tag   byte
	Value string
}

// Width returns the number of bytes occupied by this constant in memory.
func (p *Constant) Width() uint {
	return Width(p.Tag)
}

func (p *Constant) String() string {
	return strings.Join([]string{p.Name, string(p.Tag), p.Value}, " ")
}

// Instruction represents a single machine instruction, consisting of an opcode
// and two (possibly empty) textual operands.  An operand names either a
// register, a constant or a decimal literal.
type Instruction struct {
	Opcode   Opcode
	Operand1 string
	Operand2 string
}

// Operand returns the ith operand (counting from 1) of this instruction.
func (p *Instruction) Operand(i uint) string {
	if i == 2 {
		return p.Operand2
	}
	//
	return p.Operand1
}

// String returns this instruction in assembly syntax.  Operands beyond the
// opcode's arity are omitted, as are trailing empty operands.
func (p *Instruction) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Opcode.String())
	//
	for i := uint(1); i <= max(p.Opcode.Arity(), p.arity()); i++ {
		if op := p.Operand(i); op != "" {
			builder.WriteString(" ")
			builder.WriteString(op)
		}
	}
	//
	return builder.String()
}

// number of operands actually populated
func (p *Instruction) arity() uint {
	switch {
	case p.Operand2 != "":
		return 2
	case p.Operand1 != "":
		return 1
	default:
		return 0
	}
}

// Module is the unit produced by the translator and consumed by the executor.
// It consists of an ordered sequence of constants followed by an ordered
// sequence of instructions.
type Module struct {
	Constants    []Constant
	Instructions []Instruction
}

// String returns this module in assembly syntax, such that it could be
// translated again.
func (p *Module) String() string {
	var builder strings.Builder
	//
	if len(p.Constants) > 0 {
		builder.WriteString("section .data\n")
		//
		for _, c := range p.Constants {
			builder.WriteString(c.String())
			builder.WriteString("\n")
		}
	}
	//
	builder.WriteString("section .text\n")
	//
	for _, insn := range p.Instructions {
		builder.WriteString(insn.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}
