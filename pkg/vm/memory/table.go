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

// Table binds constant names to regions of memory, whilst remembering the order
// in which names were first declared.  Rebinding a name replaces its region but
// retains its original position.
type Table struct {
	names   []string
	regions map[string]Region
}

// NewTable constructs an initially empty table.
func NewTable() *Table {
	return &Table{nil, make(map[string]Region)}
}

// Bind a given name to a given region.
func (p *Table) Bind(name string, region Region) {
	if _, ok := p.regions[name]; !ok {
		p.names = append(p.names, name)
	}
	//
	p.regions[name] = region
}

// Lookup the region bound to a given name.
func (p *Table) Lookup(name string) (Region, bool) {
	region, ok := p.regions[name]
	return region, ok
}

// Names returns the bound names in order of first declaration.
func (p *Table) Names() []string {
	return p.names
}

// Len returns the number of distinct names in this table.
func (p *Table) Len() uint {
	return uint(len(p.names))
}
