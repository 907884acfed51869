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
package binfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/consensys/go-asmvm/pkg/asm"
	log "github.com/sirupsen/logrus"
)

// ============================================================================
// Binary Module Format
// ============================================================================
//
// [count : u8]
// count x [name : 16 bytes] [tag : u8] [value : 16 bytes]
// until EOF x [opcode : u32 little-endian] [operand1 : 16 bytes] [operand2 : 16 bytes]
//
// All text fields are NUL-padded and hold at most 15 visible characters.  There
// is no alignment padding anywhere, and no length prefix on the instructions:
// they simply run to the end of the file.

// OPCODE_WIDTH is the number of bytes used to encode an opcode.
const OPCODE_WIDTH = 4

// CONSTANT_RECORD_WIDTH is the number of bytes occupied by one constant.
const CONSTANT_RECORD_WIDTH = asm.TEXT_WIDTH + 1 + asm.TEXT_WIDTH

// INSTRUCTION_RECORD_WIDTH is the number of bytes occupied by one instruction.
const INSTRUCTION_RECORD_WIDTH = OPCODE_WIDTH + asm.TEXT_WIDTH + asm.TEXT_WIDTH

// ErrTooManyConstants indicates a module has more constants than can be
// counted in the header byte.
var ErrTooManyConstants = errors.New("too many constants")

// ErrMalformedModule indicates a binary module which is truncated, or otherwise
// does not follow the expected layout.
var ErrMalformedModule = errors.New("malformed binary module")

// ErrUnknownOpcode indicates an instruction record whose opcode is not one of
// the enumerated opcodes.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Encode converts a module into a sequence of bytes.  Text fields which are too
// long are truncated.
func Encode(module asm.Module) ([]byte, error) {
	var buffer bytes.Buffer
	//
	if err := Write(&buffer, module); err != nil {
		return nil, err
	}
	//
	return buffer.Bytes(), nil
}

// Decode a sequence of bytes into a module.  This should match exactly the
// encoding above.
func Decode(data []byte) (asm.Module, error) {
	var (
		module asm.Module
		buffer = bytes.NewBuffer(data)
	)
	// Read constant count
	count, err := buffer.ReadByte()
	if err != nil {
		return module, fmt.Errorf("%w: missing constant count", ErrMalformedModule)
	}
	// Read constants
	module.Constants = make([]asm.Constant, count)
	//
	for i := range module.Constants {
		if buffer.Len() < CONSTANT_RECORD_WIDTH {
			return module, fmt.Errorf("%w: truncated constant %d", ErrMalformedModule, i)
		}
		//
		module.Constants[i] = decodeConstant(buffer.Next(CONSTANT_RECORD_WIDTH))
	}
	// Remainder must be a whole number of instructions
	if buffer.Len()%INSTRUCTION_RECORD_WIDTH != 0 {
		return module, fmt.Errorf("%w: %d trailing bytes after instruction %d", ErrMalformedModule,
			buffer.Len()%INSTRUCTION_RECORD_WIDTH, buffer.Len()/INSTRUCTION_RECORD_WIDTH)
	}
	//
	module.Instructions = make([]asm.Instruction, buffer.Len()/INSTRUCTION_RECORD_WIDTH)
	//
	for i := range module.Instructions {
		if module.Instructions[i], err = decodeInstruction(buffer.Next(INSTRUCTION_RECORD_WIDTH)); err != nil {
			return module, fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	//
	log.Debugf("decoded module with %d constants and %d instructions", len(module.Constants), len(module.Instructions))
	//
	return module, nil
}

// Write a given module to a given writer in the binary module format.
func Write(w io.Writer, module asm.Module) error {
	if len(module.Constants) > asm.MAX_CONSTANTS {
		return fmt.Errorf("%w: %d exceeds %d", ErrTooManyConstants, len(module.Constants), asm.MAX_CONSTANTS)
	}
	// Write constant count
	if err := binary.Write(w, binary.LittleEndian, uint8(len(module.Constants))); err != nil {
		return err
	}
	//
	for _, c := range module.Constants {
		if _, err := w.Write(encodeConstant(c)); err != nil {
			return err
		}
	}
	//
	for _, insn := range module.Instructions {
		if _, err := w.Write(encodeInstruction(insn)); err != nil {
			return err
		}
	}
	//
	return nil
}

// Read a module in the binary module format from a given reader.  The entire
// input is consumed, since the instructions run until the end of the input.
func Read(r io.Reader) (asm.Module, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return asm.Module{}, err
	}
	//
	return Decode(data)
}

// WriteFile writes a given module to a file, creating or truncating it as
// necessary.
func WriteFile(filename string, module asm.Module) error {
	data, err := Encode(module)
	if err != nil {
		return err
	}
	//
	log.Debugf("writing %d bytes to %s", len(data), filename)
	//
	return os.WriteFile(filename, data, 0o644)
}

// ReadFile reads a module from a given file.
func ReadFile(filename string) (asm.Module, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return asm.Module{}, err
	}
	//
	log.Debugf("read %d bytes from %s", len(data), filename)
	//
	return Decode(data)
}

func encodeConstant(c asm.Constant) []byte {
	var buf = make([]byte, 0, CONSTANT_RECORD_WIDTH)
	//
	buf = appendText(buf, c.Name)
	buf = append(buf, c.Tag)
	//
	return appendText(buf, c.Value)
}

func decodeConstant(buf []byte) asm.Constant {
	return asm.Constant{
		Name:  decodeText(buf[:asm.TEXT_WIDTH]),
		Tag:   buf[asm.TEXT_WIDTH],
		Value: decodeText(buf[asm.TEXT_WIDTH+1:]),
	}
}

func encodeInstruction(insn asm.Instruction) []byte {
	var buf = make([]byte, 0, INSTRUCTION_RECORD_WIDTH)
	//
	buf = binary.LittleEndian.AppendUint32(buf, uint32(insn.Opcode))
	buf = appendText(buf, insn.Operand1)
	//
	return appendText(buf, insn.Operand2)
}

func decodeInstruction(buf []byte) (asm.Instruction, error) {
	opcode := asm.Opcode(binary.LittleEndian.Uint32(buf))
	//
	if !opcode.IsValid() {
		return asm.Instruction{}, fmt.Errorf("%w %d", ErrUnknownOpcode, uint32(opcode))
	}
	//
	return asm.Instruction{
		Opcode:   opcode,
		Operand1: decodeText(buf[OPCODE_WIDTH : OPCODE_WIDTH+asm.TEXT_WIDTH]),
		Operand2: decodeText(buf[OPCODE_WIDTH+asm.TEXT_WIDTH:]),
	}, nil
}

// Append a text field, truncated to at most MAX_TEXT bytes and NUL padded to
// exactly TEXT_WIDTH bytes.
func appendText(buf []byte, text string) []byte {
	var field [asm.TEXT_WIDTH]byte
	//
	copy(field[:], asm.Truncate(text))
	//
	return append(buf, field[:]...)
}

// Decode a text field, which ends at the first NUL.  A field without any NUL
// (i.e. not produced by the translator) uses all TEXT_WIDTH bytes.
func decodeText(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	//
	return string(field)
}
