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
package stack

// Stack represents a reusable LIFO stack which is implemented using an array.
type Stack[T any] struct {
	items []T
}

// NewStack returns an empty stack
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Peek at nth item from top of stack, where 0 is the top.
func (p *Stack[T]) Peek(offset uint) T {
	var n = len(p.items) - int(offset) - 1
	//
	if n < 0 {
		panic("peek out-of-bounds")
	}
	//
	return p.items[n]
}

// Push a new item onto the stack
func (p *Stack[T]) Push(item T) {
	p.items = append(p.items, item)
}

// Pop the top item off the stack.  If the stack is empty then the zero value
// is returned, and the flag is false.
func (p *Stack[T]) Pop() (T, bool) {
	var (
		n     = len(p.items)
		empty T
	)
	//
	if n == 0 {
		return empty, false
	}
	//
	item := p.items[n-1]
	p.items = p.items[:n-1]
	//
	return item, true
}

// TopDown returns a copy of the items on this stack, starting from the top.
func (p *Stack[T]) TopDown() []T {
	var (
		n     = len(p.items)
		items = make([]T, n)
	)
	//
	for i, item := range p.items {
		items[n-i-1] = item
	}
	//
	return items
}
