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
	"io"
	"strings"
)

// ROW_WIDTH is the number of bytes per row in a memory dump.
const ROW_WIDTH = 16

// Report writes a human-readable summary of the state of this machine.
// Registers appear in their fixed order (AC, R0-R3, ZF), and constants in
// order of first declaration.  Memory is dumped in hex, and the stack is listed
// from top to bottom.
func (p *Machine) Report(w io.Writer) error {
	var builder strings.Builder
	//
	builder.WriteString("Program Execution Report:\n")
	builder.WriteString("-------------------------\n")
	builder.WriteString("Registers:\n")
	//
	for reg := Register(0); reg < NUM_REGISTERS; reg++ {
		fmt.Fprintf(&builder, "%s: %d\n", reg.String(), p.registers[reg])
	}
	//
	builder.WriteString("\nConstants:\n")
	//
	for _, name := range p.constants.Names() {
		value, _ := p.Constant(name)
		fmt.Fprintf(&builder, "%s: %d\n", name, value)
	}
	//
	builder.WriteString("\nMemory:\n")
	writeHexDump(&builder, p.memory.Contents())
	builder.WriteString("\nStack:\n")
	//
	for _, item := range p.Stack() {
		fmt.Fprintf(&builder, "%d\n", item)
	}
	//
	_, err := io.WriteString(w, builder.String())
	//
	return err
}

func writeHexDump(builder *strings.Builder, data []byte) {
	for i := 0; i < len(data); i += ROW_WIDTH {
		fmt.Fprintf(builder, "%04x:", i)
		//
		for _, b := range data[i:min(i+ROW_WIDTH, len(data))] {
			fmt.Fprintf(builder, " %02x", b)
		}
		//
		builder.WriteString("\n")
	}
}
