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
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

const (
	// NoVariant marks a stack that carries no variant index.
	NoVariant = -1

	// DefaultNamespace is applied to item ids that have no namespace.
	DefaultNamespace = "minecraft"

	namespaceSep = ":"
	variantSep   = "@"
	quantitySep  = "x"
)

// Stack identifies an item at a given quantity and variant.
//
// The zero Variant is variant 0, not NoVariant: a literal such as
// Stack{Item: "stick", Quantity: 1} is stick@0. Build stacks with New, Of,
// WithVariant or Parse, or set Variant to NoVariant explicitly.
type Stack struct {
	Item     string
	Quantity int
	Variant  int
}

// New returns a stack of qty items with no variant.
func New(item string, qty int) Stack {
	return Stack{Item: item, Quantity: qty, Variant: NoVariant}
}

// Of returns a single item with no variant.
func Of(item string) Stack {
	return New(item, 1)
}

// WithVariant returns a stack of qty items of the given variant.
func WithVariant(item string, qty, variant int) Stack {
	return Stack{Item: item, Quantity: qty, Variant: variant}
}

// HasVariant reports whether the stack carries a variant index.
func (s Stack) HasVariant() bool {
	return s.Variant != NoVariant
}

// IsZero reports whether the stack has no item.
func (s Stack) IsZero() bool {
	return s.Item == ""
}

// Normalize returns a copy of s with a canonical item id: trimmed,
// lower-cased and namespaced. Quantity and variant are kept.
func (s Stack) Normalize() Stack {
	return Stack{
		Item:     CanonicalItem(s.Item),
		Quantity: s.Quantity,
		Variant:  s.Variant,
	}
}

// CanonicalItem trims and lower-cases id and adds DefaultNamespace when the
// id has none.
func CanonicalItem(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return ""
	}
	if !strings.Contains(id, namespaceSep) {
		return DefaultNamespace + namespaceSep + id
	}
	return id
}

// Namespace returns the part of the item id before the colon.
func (s Stack) Namespace() string {
	ns, _, found := strings.Cut(s.Item, namespaceSep)
	if !found {
		return ""
	}
	return ns
}

// Path returns the part of the item id after the colon.
func (s Stack) Path() string {
	_, path, found := strings.Cut(s.Item, namespaceSep)
	if !found {
		return s.Item
	}
	return path
}

// String renders the stack as [<qty>x]<item>[@<variant>].
func (s Stack) String() string {
	var b strings.Builder
	if s.Quantity != 1 {
		b.WriteString(strconv.Itoa(s.Quantity))
		b.WriteString(quantitySep)
	}
	b.WriteString(s.Item)
	if s.HasVariant() {
		b.WriteString(variantSep)
		b.WriteString(strconv.Itoa(s.Variant))
	}
	return b.String()
}

// Compare orders stacks by item id, then variant, then quantity.
// It returns -1, 0 or +1.
func Compare(a, b Stack) int {
	if c := strings.Compare(a.Item, b.Item); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Variant, b.Variant); c != 0 {
		return c
	}
	return cmp.Compare(a.Quantity, b.Quantity)
}

// Less reports whether a sorts before b.
func Less(a, b Stack) bool {
	return Compare(a, b) < 0
}

// Parse reads the text form produced by String. The item id is normalized.
func Parse(text string) (Stack, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return Stack{}, fmt.Errorf("empty stack")
	}

	s := Stack{Quantity: 1, Variant: NoVariant}

	// A quantity prefix is digits followed by 'x'; item paths may contain 'x'.
	if i := strings.Index(raw, quantitySep); i > 0 && isDigits(raw[:i]) {
		qty, err := strconv.Atoi(raw[:i])
		if err != nil {
			return Stack{}, fmt.Errorf("invalid quantity in %q: %w", text, err)
		}
		if qty <= 0 {
			return Stack{}, fmt.Errorf("quantity must be positive in %q", text)
		}
		s.Quantity = qty
		raw = raw[i+len(quantitySep):]
	}

	if item, variant, found := strings.Cut(raw, variantSep); found {
		v, err := strconv.Atoi(strings.TrimSpace(variant))
		if err != nil {
			return Stack{}, fmt.Errorf("invalid variant in %q: %w", text, err)
		}
		if v < 0 {
			return Stack{}, fmt.Errorf("variant cannot be negative in %q", text)
		}
		s.Variant = v
		raw = item
	}

	s.Item = CanonicalItem(raw)
	if s.Item == "" {
		return Stack{}, fmt.Errorf("missing item id in %q", text)
	}
	if strings.Count(s.Item, namespaceSep) > 1 || strings.HasPrefix(s.Item, namespaceSep) || strings.HasSuffix(s.Item, namespaceSep) {
		return Stack{}, fmt.Errorf("invalid item id in %q", text)
	}
	return s, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(text string) Stack {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// MarshalText implements encoding.TextMarshaler so stacks serialize in their
// text form in JSON and YAML documents.
func (s Stack) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stack) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
