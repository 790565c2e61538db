// Copyright (c) 2025, The craftgraph Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package recipe

import (
	"io"
	"slices"
	"strings"

	"github.com/craftgraph/craftgraph/pkg/stack"
)

// Entry is a single recipe: the inputs that produce an output.
type Entry struct {
	Output stack.Stack `json:"output" yaml:"output"`
	Inputs stack.List  `json:"inputs" yaml:"inputs"`
}

// String renders the entry as a dump line without the trailing newline.
func (e Entry) String() string {
	return "Recipe Output: " + e.Output.String() + ", Recipe Input: " + e.Inputs.String()
}

// Map is an immutable multi-valued mapping from recipe output to the input
// lists that produce it. Identical pairs added more than once are kept.
// Every stack the map holds has a canonical item id.
type Map struct {
	outputs []stack.Stack
	inputs  map[stack.Stack][]stack.List
	pairs   int
}

// NewMap builds a Map from entries in order. Outputs and inputs are
// normalized on the way in; input lists are copied.
func NewMap(entries []Entry) *Map {
	m := &Map{
		inputs: make(map[stack.Stack][]stack.List),
	}
	for _, e := range entries {
		out := e.Output.Normalize()
		lists, ok := m.inputs[out]
		if !ok {
			m.outputs = append(m.outputs, out)
		}
		m.inputs[out] = append(lists, e.Inputs.Normalize())
		m.pairs++
	}
	return m
}

// Len returns the number of (output, inputs) pairs.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.pairs
}

// NumOutputs returns the number of distinct outputs.
func (m *Map) NumOutputs() int {
	if m == nil {
		return 0
	}
	return len(m.outputs)
}

// Outputs returns the distinct outputs in first-insertion order.
func (m *Map) Outputs() []stack.Stack {
	if m == nil {
		return nil
	}
	return slices.Clone(m.outputs)
}

// Get returns copies of the input lists recorded for output, in insertion
// order. It returns nil when output is unknown. The lookup normalizes output.
func (m *Map) Get(output stack.Stack) []stack.List {
	if m == nil {
		return nil
	}
	lists, ok := m.inputs[output.Normalize()]
	if !ok {
		return nil
	}
	out := make([]stack.List, len(lists))
	for i, l := range lists {
		out[i] = l.Clone()
	}
	return out
}

// Contains reports whether the pair (output, inputs) is present, comparing
// normalized stacks.
func (m *Map) Contains(output stack.Stack, inputs stack.List) bool {
	if m == nil {
		return false
	}
	want := inputs.Normalize()
	for _, l := range m.inputs[output.Normalize()] {
		if l.Equal(want) {
			return true
		}
	}
	return false
}

// Entries returns every pair grouped by output in first-insertion order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, 0, m.pairs)
	for _, o := range m.outputs {
		for _, l := range m.inputs[o] {
			out = append(out, Entry{Output: o, Inputs: l.Clone()})
		}
	}
	return out
}

// Sorted returns every pair ordered by output; pairs that share an output
// keep their insertion order.
func (m *Map) Sorted() []Entry {
	if m == nil {
		return nil
	}
	keys := slices.Clone(m.outputs)
	slices.SortFunc(keys, stack.Compare)

	out := make([]Entry, 0, m.pairs)
	for _, o := range keys {
		for _, l := range m.inputs[o] {
			out = append(out, Entry{Output: o, Inputs: l.Clone()})
		}
	}
	return out
}

// WriteTo writes the diagnostic dump: one line per pair in Sorted order.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range m.Sorted() {
		n, err := io.WriteString(w, e.String()+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the diagnostic dump.
func (m *Map) String() string {
	var b strings.Builder
	_, _ = m.WriteTo(&b)
	return b.String()
}
