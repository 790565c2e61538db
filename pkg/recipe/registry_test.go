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
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/craftgraph/craftgraph/pkg/catalog"
	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/stack"
)

// countingProvider returns fixed entries and counts invocations.
type countingProvider struct {
	name    string
	entries []Entry
	err     error
	calls   atomic.Int32
}

func (p *countingProvider) Name() string { return p.name }

func (p *countingProvider) Recipes(context.Context) ([]Entry, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.entries, nil
}

func TestRegistry_ExampleSingleRecipe(t *testing.T) {
	p := ProviderFunc{ProviderName: "test", Fn: func(context.Context) ([]Entry, error) {
		return []Entry{{
			Output: stack.Of("A"),
			Inputs: stack.List{stack.Of("B"), stack.Of("C")},
		}}, nil
	}}
	cat := catalog.Static{{ID: "A"}, {ID: "B"}, {ID: "C"}}

	r := NewRegistry(cat, []Provider{p})
	a, b, c := stack.Of("minecraft:a"), stack.Of("minecraft:b"), stack.Of("minecraft:c")

	var buf strings.Builder
	require.NoError(t, r.Dump(context.Background(), &buf))
	want := Entry{Output: a, Inputs: stack.List{b, c}}.String() + "\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, "Recipe Output: minecraft:a, Recipe Input: [minecraft:b, minecraft:c]\n", buf.String())
	assert.Equal(t, buf.String(), r.String())

	m, err := r.Mappings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []stack.Stack{a}, m.Outputs())
	assert.Equal(t, []stack.List{{b, c}}, m.Get(a))

	stacks, err := r.DiscoveredStacks(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []stack.Stack{a, b, c}, stacks.Slice())
}

func TestRegistry_DiscoversMapValuesAsStored(t *testing.T) {
	p := ProviderFunc{ProviderName: "host", Fn: func(context.Context) ([]Entry, error) {
		return []Entry{{
			Output: stack.Stack{Item: "Stick", Quantity: 1, Variant: stack.NoVariant},
			Inputs: stack.List{{Item: " Planks ", Quantity: 2, Variant: stack.NoVariant}},
		}}, nil
	}}
	r := NewRegistry(nil, []Provider{p})

	m, err := r.Mappings(context.Background())
	require.NoError(t, err)
	stacks, err := r.DiscoveredStacks(context.Background())
	require.NoError(t, err)

	require.Len(t, m.Outputs(), 1)
	for _, out := range m.Outputs() {
		assert.True(t, stacks.Contains(out), "output %s", out)
		for _, inputs := range m.Get(out) {
			for _, in := range inputs {
				assert.True(t, stacks.Contains(in), "input %s", in)
			}
		}
	}
	assert.Equal(t, []stack.Stack{stack.Of("minecraft:stick"), stack.New("minecraft:planks", 2)}, stacks.Slice())

	// Lookups accept the provider's spelling.
	assert.True(t, m.Contains(stack.Of("Stick"), stack.List{stack.New(" Planks ", 2)}))
}

func TestRegistry_ExampleVariantItem(t *testing.T) {
	cat := catalog.Static{{ID: "D", HasVariants: true}}
	r := NewRegistry(cat, nil)

	stacks, err := r.DiscoveredStacks(context.Background())
	require.NoError(t, err)
	require.Equal(t, 16, stacks.Len())

	seen := make(map[stack.Stack]bool)
	for s := range stacks.All() {
		assert.True(t, s.HasVariant())
		seen[s] = true
	}
	assert.Len(t, seen, 16)
	for v := range 16 {
		assert.True(t, stacks.Contains(stack.WithVariant("minecraft:d", 1, v)))
	}
	assert.False(t, stacks.Contains(stack.Of("minecraft:d")))
}

func TestRegistry_VariantRangeOption(t *testing.T) {
	cat := catalog.Static{{ID: "wool", HasVariants: true}}
	r := NewRegistry(cat, nil, WithVariantRange(4))
	stacks, err := r.DiscoveredStacks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stacks.Len())

	st, err := r.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, st.VariantRange)
}

func TestRegistry_BuildsOnce(t *testing.T) {
	providers := []*countingProvider{
		{name: "potion", entries: []Entry{entry("potion@16", "potion@0", "nether_wart")}},
		{name: "vanilla", entries: []Entry{entry("4xstick", "2xplanks")}},
		{name: "imc", entries: nil},
		{name: "fluid", entries: []Entry{entry("water_bucket", "1000xfluid:water", "bucket")}},
	}
	list := make([]Provider, len(providers))
	for i, p := range providers {
		list[i] = p
	}
	var catalogCalls atomic.Int32
	cat := catalog.Func(func(context.Context) ([]*catalog.Item, error) {
		catalogCalls.Add(1)
		return []*catalog.Item{{ID: "stone"}}, nil
	})

	r := NewRegistry(cat, list)
	ctx := context.Background()

	m1, err := r.Mappings(ctx)
	require.NoError(t, err)
	m2, err := r.Mappings(ctx)
	require.NoError(t, err)
	assert.Same(t, m1, m2)

	s1, err := r.DiscoveredStacks(ctx)
	require.NoError(t, err)
	s2, err := r.DiscoveredStacks(ctx)
	require.NoError(t, err)
	assert.Equal(t, s1.Slice(), s2.Slice())
	_ = r.String()

	for _, p := range providers {
		assert.Equal(t, int32(1), p.calls.Load(), "provider %s", p.name)
	}
	assert.Equal(t, int32(1), catalogCalls.Load())
}

func TestRegistry_ConcurrentFirstAccess(t *testing.T) {
	p := &countingProvider{name: "vanilla", entries: []Entry{entry("stick", "planks")}}
	r := NewRegistry(catalog.Static{{ID: "stone"}}, []Provider{p})

	var wg sync.WaitGroup
	maps := make([]*Map, 32)
	for i := range maps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := r.Mappings(context.Background())
			assert.NoError(t, err)
			maps[i] = m
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), p.calls.Load())
	for _, m := range maps {
		assert.Same(t, maps[0], m)
	}
}

func TestRegistry_MergeOrderAndDuplicates(t *testing.T) {
	dup := entry("stick", "planks")
	first := &countingProvider{name: "potion", entries: []Entry{dup, entry("potion@16", "potion@0", "nether_wart")}}
	second := &countingProvider{name: "vanilla", entries: []Entry{dup}}

	r := NewRegistry(nil, []Provider{first, second})
	m, err := r.Mappings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, m.Len())
	assert.Len(t, m.Get(dup.Output), 2)
	assert.Equal(t, []stack.Stack{dup.Output, stack.MustParse("potion@16")}, m.Outputs())
	assert.Equal(t, []string{"potion", "vanilla"}, r.Providers())

	st, err := r.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ProviderStats{{Name: "potion", Entries: 2}, {Name: "vanilla", Entries: 1}}, st.Providers)
	assert.Equal(t, 3, st.Pairs)
	assert.Equal(t, 2, st.Outputs)
}

func TestRegistry_ErrorsAreCached(t *testing.T) {
	boom := errors.New("boom")
	bad := &countingProvider{name: "imc", err: boom}
	good := &countingProvider{name: "vanilla", entries: []Entry{entry("stick", "planks")}}

	r := NewRegistry(catalog.Static{}, []Provider{good, bad})

	_, err := r.Mappings(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, cgerrors.ErrCodeUnavailable, cgerrors.CodeOf(err))

	_, err2 := r.DiscoveredStacks(context.Background())
	assert.Same(t, err, err2)
	assert.Equal(t, int32(1), bad.calls.Load())
	assert.Empty(t, r.String())
}

func TestRegistry_CancelledCallerDoesNotPoisonBuild(t *testing.T) {
	p := &countingProvider{name: "vanilla", entries: []Entry{entry("stick", "planks")}}
	r := NewRegistry(catalog.Static{{ID: "stone"}}, []Provider{p})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Mappings(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, cgerrors.ErrCodeUnavailable, cgerrors.CodeOf(err))
	assert.Equal(t, int32(0), p.calls.Load())

	expired, cancelExpired := context.WithTimeout(context.Background(), 0)
	defer cancelExpired()
	_, err = r.DiscoveredStacks(expired)
	assert.Equal(t, cgerrors.ErrCodeTimeout, cgerrors.CodeOf(err))

	m, err := r.Mappings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestRegistry_BuildOutlivesCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := ProviderFunc{ProviderName: "slow", Fn: func(ctx context.Context) ([]Entry, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []Entry{entry("stick", "planks")}, nil
	}}
	r := NewRegistry(nil, []Provider{p})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := r.Mappings(ctx)
		done <- err
	}()

	<-started
	cancel()
	close(release)
	require.NoError(t, <-done)

	m, err := r.Mappings(context.Background())
	require.NoError(t, err)
	assert.True(t, m.Contains(stack.Of("stick"), stack.List{stack.Of("planks")}))
}

func TestRegistry_ProviderCodeKept(t *testing.T) {
	bad := &countingProvider{name: "vanilla", err: cgerrors.New(cgerrors.ErrCodeMalformed, "bad pattern")}
	r := NewRegistry(nil, []Provider{bad})
	_, err := r.Mappings(context.Background())
	require.Error(t, err)
	assert.Equal(t, cgerrors.ErrCodeMalformed, cgerrors.CodeOf(err))
}

func TestRegistry_CatalogError(t *testing.T) {
	cat := catalog.Func(func(context.Context) ([]*catalog.Item, error) {
		return nil, errors.New("catalog offline")
	})
	r := NewRegistry(cat, nil)
	_, err := r.DiscoveredStacks(context.Background())
	require.Error(t, err)
	assert.Equal(t, cgerrors.ErrCodeUnavailable, cgerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "catalog offline")
}

func TestRegistry_DumpDeterministic(t *testing.T) {
	entries := []Entry{
		entry("torch", "coal", "stick"),
		entry("dye@15", "bone"),
		entry("stick", "planks"),
		entry("torch", "charcoal", "stick"),
	}
	render := func() string {
		p := ProviderFunc{ProviderName: "p", Fn: func(context.Context) ([]Entry, error) { return entries, nil }}
		return NewRegistry(nil, []Provider{p}).String()
	}
	assert.Equal(t, render(), render())
	assert.Equal(t, 4, strings.Count(render(), "\n"))
}

func genEntry() *rapid.Generator[Entry] {
	genStack := rapid.Custom(func(t *rapid.T) stack.Stack {
		item := rapid.SampledFrom([]string{"a", "b", "C", " d ", "mod:e", "Mod:F"}).Draw(t, "item")
		qty := rapid.IntRange(1, 3).Draw(t, "qty")
		variant := rapid.IntRange(stack.NoVariant, 2).Draw(t, "variant")
		return stack.WithVariant(item, qty, variant)
	})
	return rapid.Custom(func(t *rapid.T) Entry {
		return Entry{
			Output: genStack.Draw(t, "output"),
			Inputs: rapid.SliceOfN(genStack, 0, 4).Draw(t, "inputs"),
		}
	})
}

func genItems() *rapid.Generator[[]*catalog.Item] {
	genItem := rapid.Custom(func(t *rapid.T) *catalog.Item {
		if rapid.IntRange(0, 5).Draw(t, "placeholder") == 0 {
			return nil
		}
		return &catalog.Item{
			ID:          rapid.SampledFrom([]string{"a", "g", "h", "mod:e"}).Draw(t, "id"),
			HasVariants: rapid.Bool().Draw(t, "hasVariants"),
		}
	})
	return rapid.SliceOfN(genItem, 0, 6)
}

func TestRegistry_DiscoveryProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		entries := rapid.SliceOfN(genEntry(), 0, 8).Draw(rt, "entries")
		items := genItems().Draw(rt, "items")
		variants := rapid.IntRange(1, 16).Draw(rt, "variants")

		p := ProviderFunc{ProviderName: "p", Fn: func(context.Context) ([]Entry, error) { return entries, nil }}
		r := NewRegistry(catalog.Static(items), []Provider{p}, WithVariantRange(variants))

		m, err := r.Mappings(context.Background())
		if err != nil {
			rt.Fatalf("Mappings: %v", err)
		}
		stacks, err := r.DiscoveredStacks(context.Background())
		if err != nil {
			rt.Fatalf("DiscoveredStacks: %v", err)
		}

		// merge completeness
		if m.Len() != len(entries) {
			rt.Fatalf("map holds %d pairs, want %d", m.Len(), len(entries))
		}
		for _, e := range entries {
			if !m.Contains(e.Output, e.Inputs) {
				rt.Fatalf("pair %s missing", e)
			}
		}

		// uniqueness
		seen := make(map[stack.Stack]bool)
		for s := range stacks.All() {
			if seen[s] {
				rt.Fatalf("duplicate discovered stack %s", s)
			}
			seen[s] = true
		}

		// discovery completeness over the map's own keys and inputs
		for _, k := range m.Outputs() {
			if !stacks.Contains(k) {
				rt.Fatalf("output %s not discovered", k)
			}
			for _, inputs := range m.Get(k) {
				for _, in := range inputs {
					if !stacks.Contains(in) {
						rt.Fatalf("input %s not discovered", in)
					}
				}
			}
		}

		// catalog coverage
		for _, it := range items {
			if it == nil {
				continue
			}
			id := stack.CanonicalItem(it.ID)
			if it.HasVariants {
				for v := range variants {
					if !stacks.Contains(stack.WithVariant(id, 1, v)) {
						rt.Fatalf("variant %s@%d not discovered", id, v)
					}
				}
			} else if !stacks.Contains(stack.Of(id)) {
				rt.Fatalf("item %s not discovered", id)
			}
		}

		// nothing else
		for s := range stacks.All() {
			if !fromRecipes(m, s) && !fromCatalog(items, variants, s) {
				rt.Fatalf("unexpected stack %s", s)
			}
		}
	})
}

func fromRecipes(m *Map, s stack.Stack) bool {
	for _, e := range m.Entries() {
		if e.Output == s {
			return true
		}
		for _, in := range e.Inputs {
			if in == s {
				return true
			}
		}
	}
	return false
}

func fromCatalog(items []*catalog.Item, variants int, s stack.Stack) bool {
	for _, it := range items {
		if it == nil {
			continue
		}
		for _, c := range it.Stacks(variants) {
			if c == s {
				return true
			}
		}
	}
	return false
}

func ExampleRegistry_Dump() {
	p := ProviderFunc{ProviderName: "vanilla", Fn: func(context.Context) ([]Entry, error) {
		return []Entry{{
			Output: stack.New("minecraft:stick", 4),
			Inputs: stack.List{stack.New("minecraft:planks", 2)},
		}}, nil
	}}
	r := NewRegistry(nil, []Provider{p})
	fmt.Print(r.String())
	// Output: Recipe Output: 4xminecraft:stick, Recipe Input: [2xminecraft:planks]
}
