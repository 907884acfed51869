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
package vm

import (
	"errors"
	"fmt"

	"github.com/consensys/go-asmvm/pkg/asm"
)

// ErrMalformedConstantValue is matched by any MalformedConstantValueError.
var ErrMalformedConstantValue = errors.New("malformed constant value")

// ErrMalformedOperand is matched by any MalformedOperandError.
var ErrMalformedOperand = errors.New("malformed operand")

// ErrStackUnderflow is matched by any StackUnderflowError.
var ErrStackUnderflow = errors.New("stack underflow")

// MalformedConstantValueError arises at load time when the value of a constant
// is not a decimal integer.
type MalformedConstantValueError struct {
	// Index of the constant in the module
	Index uint
	// The offending constant
	Constant asm.Constant
}

func (p *MalformedConstantValueError) Error() string {
	return fmt.Sprintf("constant %d (%s): %s \"%s\"", p.Index, p.Constant.Name, ErrMalformedConstantValue,
		p.Constant.Value)
}

// Unwrap allows matching against ErrMalformedConstantValue.
func (p *MalformedConstantValueError) Unwrap() error {
	return ErrMalformedConstantValue
}

// MalformedOperandError arises at execution time when an operand is neither a
// register, a known constant nor a decimal integer.
type MalformedOperandError struct {
	// Program counter of the offending instruction
	PC int64
	// The offending instruction
	Instruction asm.Instruction
	// Which operand (1 or 2)
	Operand uint
}

func (p *MalformedOperandError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %s %d \"%s\"", p.PC, p.Instruction.String(), ErrMalformedOperand,
		p.Operand, p.Instruction.Operand(p.Operand))
}

// Unwrap allows matching against ErrMalformedOperand.
func (p *MalformedOperandError) Unwrap() error {
	return ErrMalformedOperand
}

// StackUnderflowError arises at execution time when popping an empty stack.
type StackUnderflowError struct {
	// Program counter of the offending instruction
	PC int64
	// The offending instruction
	Instruction asm.Instruction
}

func (p *StackUnderflowError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %s", p.PC, p.Instruction.String(), ErrStackUnderflow)
}

// Unwrap allows matching against ErrStackUnderflow.
func (p *StackUnderflowError) Unwrap() error {
	return ErrStackUnderflow
}
