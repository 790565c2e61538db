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

package stack

import (
	"slices"
	"strings"
)

// List is an ordered sequence of stacks, such as the inputs of one recipe.
type List []Stack

// String renders the list as [a, b, c].
func (l List) String() string {
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	return slices.Clone(l)
}

// Equal reports whether both lists hold equal stacks in the same order.
func (l List) Equal(other List) bool {
	return slices.Equal(l, other)
}

// Normalize returns a copy with every stack normalized. A nil list stays nil.
func (l List) Normalize() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, s := range l {
		out[i] = s.Normalize()
	}
	return out
}

// Collate merges stacks of the same item and variant by summing their
// quantities. The first occurrence keeps its position.
func Collate(l List) List {
	type key struct {
		item    string
		variant int
	}
	index := make(map[key]int, len(l))
	out := make(List, 0, len(l))
	for _, s := range l {
		k := key{item: s.Item, variant: s.Variant}
		if i, ok := index[k]; ok {
			out[i].Quantity += s.Quantity
			continue
		}
		index[k] = len(out)
		out = append(out, s)
	}
	return out
}

// ParseList parses each element with Parse.
func ParseList(texts []string) (List, error) {
	out := make(List, 0, len(texts))
	for _, t := range texts {
		s, err := Parse(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
