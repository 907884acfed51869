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
	"fmt"
	"strconv"

	"github.com/consensys/go-asmvm/pkg/asm"
	"github.com/consensys/go-asmvm/pkg/util/collection/stack"
	"github.com/consensys/go-asmvm/pkg/vm/memory"
	log "github.com/sirupsen/logrus"
)

// ExecuteAll executes a given machine to completion in chunks of n steps,
// returning the number of steps executed and/or any error arising.  Observe
// that a program which loops forever will never return.
func ExecuteAll(machine *Machine, n uint) (uint, error) {
	var nsteps uint
	//
	for {
		// Execute upto n steps
		m, err := machine.Execute(n)
		// update the tally
		nsteps += m
		// check for termination
		if err != nil || m < n {
			return nsteps, err
		}
		//
		log.Debugf("executed %d steps (pc=%d)", nsteps, machine.pc)
	}
}

// Tracer is notified immediately before each instruction is executed.
type Tracer interface {
	Trace(machine *Machine)
}

// Machine represents the state of an executing program, including the state of
// all registers, memory and the stack.  A machine may be executing or
// terminated.
type Machine struct {
	// Decoded instruction sequence
	code []asm.Instruction
	// Register values
	registers [NUM_REGISTERS]int64
	// Flat memory holding constants
	memory *memory.Memory
	// Constant name bindings
	constants *memory.Table
	// Data stack
	stack *stack.Stack[int64]
	// Program counter (an index into code)
	pc int64
	// Cleared by HALT
	running bool
	// Optional tracer
	tracer Tracer
}

// Load a module into a fresh machine.  Constants are laid out contiguously in
// memory in declaration order, each occupying exactly its width in bytes.  All
// registers are initially zero, and the stack is empty.
func Load(module asm.Module) (*Machine, error) {
	var (
		mem       = memory.NewMemory()
		constants = memory.NewTable()
	)
	//
	for i, c := range module.Constants {
		value, err := parseInteger(c.Value)
		if err != nil {
			return nil, &MalformedConstantValueError{uint(i), c}
		}
		//
		constants.Bind(c.Name, mem.Allocate(c.Width(), value))
	}
	//
	log.Debugf("loaded %d bytes of constants and %d instructions", mem.Len(), len(module.Instructions))
	//
	return &Machine{
		code:      module.Instructions,
		memory:    mem,
		constants: constants,
		stack:     stack.NewStack[int64](),
		pc:        0,
		running:   true,
	}, nil
}

// WithTracer attaches a tracer to this machine.
func (p *Machine) WithTracer(tracer Tracer) *Machine {
	p.tracer = tracer
	return p
}

// Execute the machine for (at most) the given number of steps, returning the
// actual number of steps executed and an error (if execution failed).  When
// fewer steps are executed than requested, the machine has terminated.
func (p *Machine) Execute(steps uint) (uint, error) {
	var nsteps uint
	//
	for ; nsteps < steps && !p.Terminated(); nsteps++ {
		if p.tracer != nil {
			p.tracer.Trace(p)
		}
		//
		if err := p.step(); err != nil {
			return nsteps, err
		}
	}
	//
	return nsteps, nil
}

// Terminated checks whether this machine has stopped, either because HALT was
// executed or because the program counter left the instruction sequence.
func (p *Machine) Terminated() bool {
	return !p.running || p.pc < 0 || p.pc >= int64(len(p.code))
}

// PC returns the current program counter.
func (p *Machine) PC() int64 {
	return p.pc
}

// Instruction returns the instruction at the current program counter.  This
// should not be called on a terminated machine.
func (p *Machine) Instruction() asm.Instruction {
	return p.code[p.pc]
}

// Register returns the current value of a given register.
func (p *Machine) Register(reg Register) int64 {
	return p.registers[reg]
}

// SetRegister assigns a given register.  Observe that no instruction can set
// ZF, so this is the only way to do so.
func (p *Machine) SetRegister(reg Register, value int64) {
	p.registers[reg] = value
}

// Constant returns the current value of a given constant, if it exists.
func (p *Machine) Constant(name string) (int64, bool) {
	if region, ok := p.constants.Lookup(name); ok {
		return p.memory.Read(region), true
	}
	//
	return 0, false
}

// Memory returns the contents of memory.
func (p *Machine) Memory() []byte {
	return p.memory.Contents()
}

// Stack returns the contents of the stack, from top to bottom.
func (p *Machine) Stack() []int64 {
	return p.stack.TopDown()
}

// Execute the instruction at the current program counter, and then advance the
// program counter.
func (p *Machine) step() error {
	var (
		insn = p.code[p.pc]
		// Value read from the source operand (where applicable)
		value int64
		// Whether a branch is taken
		taken bool
		err   error
	)
	//
	switch insn.Opcode {
	case asm.LOAD, asm.ADD, asm.SUB, asm.JMP, asm.PUSH:
		if value, err = p.read(insn, 1); err != nil {
			return err
		}
	case asm.MOV:
		if value, err = p.read(insn, 2); err != nil {
			return err
		}
	}
	//
	switch insn.Opcode {
	case asm.MOV:
		p.write(insn.Operand1, value)
	case asm.LOAD:
		p.registers[AC] = value
	case asm.STORE:
		p.write(insn.Operand1, p.registers[AC])
	case asm.ADD:
		p.registers[AC] += value
	case asm.SUB:
		p.registers[AC] -= value
	case asm.JMP:
		taken = true
	case asm.JZ:
		// The target is only read when the branch is taken
		if p.registers[ZF] == 0 {
			if value, err = p.read(insn, 1); err != nil {
				return err
			}
			//
			taken = true
		}
	case asm.PUSH:
		p.stack.Push(value)
	case asm.POP:
		item, ok := p.stack.Pop()
		if !ok {
			return &StackUnderflowError{p.pc, insn}
		}
		//
		p.write(insn.Operand1, item)
	case asm.HALT:
		p.running = false
	case asm.UNKNOWN:
		// no-op
	default:
		panic(fmt.Sprintf("unknown opcode %s", insn.Opcode.String()))
	}
	//
	p.advance(taken, value)
	//
	return nil
}

// Update the program counter after executing an instruction.  When a branch is
// taken, control continues exactly at the given target instruction; otherwise,
// it falls through to the next instruction.  A target outside the instruction
// sequence terminates the machine.
func (p *Machine) advance(taken bool, target int64) {
	if taken {
		p.pc = target
	} else {
		p.pc++
	}
}

// Read the value of the ith operand of a given instruction.  An operand naming
// a register or constant reads its current value; otherwise, it must be a
// decimal integer literal.
func (p *Machine) read(insn asm.Instruction, i uint) (int64, error) {
	var operand = insn.Operand(i)
	//
	if reg, ok := LookupRegister(operand); ok {
		return p.registers[reg], nil
	} else if region, ok := p.constants.Lookup(operand); ok {
		return p.memory.Read(region), nil
	} else if value, err := parseInteger(operand); err == nil {
		return value, nil
	}
	//
	return 0, &MalformedOperandError{p.pc, insn, i}
}

// Write a value to a given operand.  Writing to a constant truncates the value
// to the constant's width.  Writing to anything other than a register or a
// constant has no effect.
func (p *Machine) write(operand string, value int64) {
	if reg, ok := LookupRegister(operand); ok {
		p.registers[reg] = value
	} else if region, ok := p.constants.Lookup(operand); ok {
		p.memory.Write(region, value)
	}
}

// Parse a decimal integer literal, with an optional sign.
func parseInteger(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}
