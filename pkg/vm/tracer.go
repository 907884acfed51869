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
	"strings"

	log "github.com/sirupsen/logrus"
)

// LogTracer logs each instruction as it is executed, along with the registers
// and stack beforehand.
type LogTracer struct {
	Level log.Level
}

// Trace implementation for the Tracer interface.
func (p LogTracer) Trace(machine *Machine) {
	var (
		builder strings.Builder
		insn    = machine.Instruction()
	)
	//
	fmt.Fprintf(&builder, "[%d]\t%-20s", machine.PC(), insn.String())
	//
	for reg := Register(0); reg < NUM_REGISTERS; reg++ {
		fmt.Fprintf(&builder, " %s=%d", reg.String(), machine.Register(reg))
	}
	//
	fmt.Fprintf(&builder, " stack=%d", machine.stack.Len())
	//
	if !machine.stack.IsEmpty() {
		fmt.Fprintf(&builder, " top=%d", machine.stack.Peek(0))
	}
	//
	log.StandardLogger().Log(p.Level, builder.String())
}
