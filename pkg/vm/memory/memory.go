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
package memory

// WORD_WIDTH is the number of bytes in a machine word.
const WORD_WIDTH = 8

// Region identifies a contiguous range of bytes within memory.  A region of
// zero width is permitted, and can neither be read nor written.
type Region struct {
	Offset uint
	Width  uint
}

// Memory is a flat, byte-addressable memory which only grows by allocating new
// regions at its end.  Once allocated, regions are never relocated.
type Memory struct {
	data []byte
}

// NewMemory constructs an initially empty memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Allocate a new region of a given width at the end of memory, initialised
// with a given value.
func (p *Memory) Allocate(width uint, value int64) Region {
	region := Region{uint(len(p.data)), width}
	p.data = append(p.data, Encode(value, width)...)
	//
	return region
}

// Read the value held in a given region.
func (p *Memory) Read(region Region) int64 {
	return Decode(p.data[region.Offset : region.Offset+region.Width])
}

// Write a value into a given region, overwriting its previous contents.  Bytes
// of the value which do not fit are discarded.
func (p *Memory) Write(region Region, value int64) {
	copy(p.data[region.Offset:region.Offset+region.Width], Encode(value, region.Width))
}

// Len returns the number of bytes allocated in this memory.
func (p *Memory) Len() uint {
	return uint(len(p.data))
}

// Contents returns the contents of this memory.  The returned slice should not
// be modified.
func (p *Memory) Contents() []byte {
	return p.data
}

// Encode a value into exactly width bytes in little-endian order, such that
// high-order bytes which do not fit are discarded.  Bytes beyond the width of a
// machine word are filled with the sign.
func Encode(value int64, width uint) []byte {
	var bytes = make([]byte, width)
	//
	for i := range bytes {
		bytes[i] = byte(value >> min(8*i, 63))
	}
	//
	return bytes
}

// Decode a little-endian value.  Values narrower than a machine word are zero
// extended, whilst for wider values only the low-order word is significant.
func Decode(bytes []byte) int64 {
	var value uint64
	//
	for i := min(len(bytes), WORD_WIDTH) - 1; i >= 0; i-- {
		value = (value << 8) | uint64(bytes[i])
	}
	//
	return int64(value)
}
