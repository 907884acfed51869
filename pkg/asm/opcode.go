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
	"fmt"
	"slices"
)

// Opcode identifies the operation performed by an instruction.  The set of
// opcodes is closed, and the numeric value of each is its code in the binary
// module format (hence these values must never change).
type Opcode uint32

// UNKNOWN is produced for any unrecognised mnemonic.  It is never emitted by
// the translator, and executes as a no-op.
const UNKNOWN Opcode = 0

// MOV copies the value of its second operand into its first.
const MOV Opcode = 1

// LOAD assigns the accumulator the value of its operand.
const LOAD Opcode = 2

// STORE writes the accumulator into its operand.
const STORE Opcode = 3

// ADD adds the value of its operand to the accumulator.
const ADD Opcode = 4

// SUB subtracts the value of its operand from the accumulator.
const SUB Opcode = 5

// JMP unconditionally branches to the instruction index given by its operand.
const JMP Opcode = 6

// JZ branches to the instruction index given by its operand when the zero flag
// is clear (i.e. ZF == 0).
const JZ Opcode = 7

// PUSH pushes the value of its operand onto the stack.
const PUSH Opcode = 8

// POP pops the top of the stack into its operand.
const POP Opcode = 9

// HALT terminates execution.  Observe that the translator recognises but never
// emits this instruction, whilst the machine still honours it.
const HALT Opcode = 31

// Opcodes lists every valid opcode in order of their codes.
var Opcodes = []Opcode{UNKNOWN, MOV, LOAD, STORE, ADD, SUB, JMP, JZ, PUSH, POP, HALT}

var mnemonics = map[string]Opcode{
	"MOV":   MOV,
	"LOAD":  LOAD,
	"STORE": STORE,
	"ADD":   ADD,
	"SUB":   SUB,
	"JMP":   JMP,
	"JZ":    JZ,
	"PUSH":  PUSH,
	"POP":   POP,
	"HALT":  HALT,
}

// ParseMnemonic maps a (case-sensitive) mnemonic to its opcode, returning
// UNKNOWN for anything unrecognised.
func ParseMnemonic(mnemonic string) Opcode {
	if op, ok := mnemonics[mnemonic]; ok {
		return op
	}
	//
	return UNKNOWN
}

// IsValid checks whether this is one of the enumerated opcodes.  This matters
// when decoding opcodes from a binary module, which could contain anything.
func (p Opcode) IsValid() bool {
	return slices.Contains(Opcodes, p)
}

// Arity returns the number of operand slots read by this opcode.
func (p Opcode) Arity() uint {
	switch p {
	case MOV:
		return 2
	case LOAD, STORE, ADD, SUB, JMP, JZ, PUSH, POP:
		return 1
	default:
		return 0
	}
}

func (p Opcode) String() string {
	switch p {
	case UNKNOWN:
		return "UNKNOWN"
	case MOV:
		return "MOV"
	case LOAD:
		return "LOAD"
	case STORE:
		return "STORE"
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case JMP:
		return "JMP"
	case JZ:
		return "JZ"
	case PUSH:
		return "PUSH"
	case POP:
		return "POP"
	case HALT:
		return "HALT"
	default:
		return fmt.Sprintf("opcode(%d)", uint32(p))
	}
}
