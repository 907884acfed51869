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

// Register identifies one of the machine's fixed registers.
type Register uint8

const (
	// AC is the accumulator, used implicitly by LOAD, STORE, ADD and SUB.
	AC Register = iota
	// R0 is a general purpose register.
	R0
	// R1 is a general purpose register.
	R1
	// R2 is a general purpose register.
	R2
	// R3 is a general purpose register.
	R3
	// ZF is the zero flag tested by JZ.  No instruction writes it.
	ZF
	// NUM_REGISTERS is the number of registers.
	NUM_REGISTERS
)

var registerNames = [NUM_REGISTERS]string{"AC", "R0", "R1", "R2", "R3", "ZF"}

// LookupRegister identifies the register with a given name, if there is one.
func LookupRegister(name string) (Register, bool) {
	for i, n := range registerNames {
		if n == name {
			return Register(i), true
		}
	}
	//
	return NUM_REGISTERS, false
}

func (p Register) String() string {
	if p < NUM_REGISTERS {
		return registerNames[p]
	}
	//
	return "??"
}
