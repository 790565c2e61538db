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
	"iter"
	"slices"

	"github.com/craftgraph/craftgraph/pkg/catalog"
	"github.com/craftgraph/craftgraph/pkg/stack"
)

// Stacks is an immutable ordered sequence of unique stacks.
type Stacks struct {
	items []stack.Stack
	index map[stack.Stack]struct{}
}

// Len returns the number of stacks.
func (s Stacks) Len() int {
	return len(s.items)
}

// At returns the i-th stack. It panics when i is out of range.
func (s Stacks) At(i int) stack.Stack {
	return s.items[i]
}

// Contains reports whether st is present.
func (s Stacks) Contains(st stack.Stack) bool {
	_, ok := s.index[st]
	return ok
}

// All iterates the stacks in discovery order.
func (s Stacks) All() iter.Seq[stack.Stack] {
	return slices.Values(s.items)
}

// Slice returns a copy of the stacks.
func (s Stacks) Slice() []stack.Stack {
	return slices.Clone(s.items)
}

// stackSet is an insertion-ordered set.
type stackSet struct {
	items []stack.Stack
	index map[stack.Stack]struct{}
}

func newStackSet(capacity int) *stackSet {
	return &stackSet{
		items: make([]stack.Stack, 0, capacity),
		index: make(map[stack.Stack]struct{}, capacity),
	}
}

func (s *stackSet) add(st stack.Stack) {
	if _, ok := s.index[st]; ok {
		return
	}
	s.index[st] = struct{}{}
	s.items = append(s.items, st)
}

func (s *stackSet) freeze() Stacks {
	return Stacks{items: s.items, index: s.index}
}

// Discover scans every output and input of m, then every catalog item, and
// returns the stacks in first-seen order. The map already holds normalized
// stacks, so each discovered stack equals the map value it came from. Nil
// catalog entries are skipped; variant-bearing items expand to variants
// [0, variantRange).
func Discover(m *Map, items []*catalog.Item, variantRange int) Stacks {
	set := newStackSet(m.Len() + len(items))

	for _, out := range m.Outputs() {
		set.add(out)
		for _, inputs := range m.inputs[out] {
			for _, in := range inputs {
				set.add(in)
			}
		}
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		for _, st := range item.Stacks(variantRange) {
			set.add(st)
		}
	}

	return set.freeze()
}
