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
	"fmt"
	"log/slog"

	"github.com/craftgraph/craftgraph/pkg/data"
	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/header"
	"github.com/craftgraph/craftgraph/pkg/stack"
	"github.com/craftgraph/craftgraph/pkg/version"
)

const vanillaPath = "recipes/vanilla.yaml"

// ShapedRecipe is a grid recipe. Each non-space symbol in Pattern must be
// defined in Key.
type ShapedRecipe struct {
	Output  string            `yaml:"output"`
	Pattern []string          `yaml:"pattern"`
	Key     map[string]string `yaml:"key"`
}

// ShapelessRecipe is a recipe whose ingredients may be placed anywhere.
type ShapelessRecipe struct {
	Output      string   `yaml:"output"`
	Ingredients []string `yaml:"ingredients"`
}

// CraftingDocument is the CraftingRecipes pack document.
type CraftingDocument struct {
	header.Header `yaml:",inline"`

	Shaped    []ShapedRecipe    `yaml:"shaped"`
	Shapeless []ShapelessRecipe `yaml:"shapeless"`
}

// VanillaProvider reads crafting-table recipes from recipes/vanilla.yaml.
// Inputs are collated so a grid of four planks becomes [4xplanks].
type VanillaProvider struct {
	data data.Provider
	game version.Version
}

// NewVanillaProvider returns a vanilla provider over dp.
func NewVanillaProvider(dp data.Provider, game version.Version) *VanillaProvider {
	return &VanillaProvider{data: dp, game: game}
}

// Name returns "vanilla".
func (p *VanillaProvider) Name() string {
	return ProviderVanilla
}

// Recipes returns shaped recipes followed by shapeless recipes.
func (p *VanillaProvider) Recipes(ctx context.Context) ([]Entry, error) {
	var doc CraftingDocument
	ok, err := data.Decode(p.data, vanillaPath, header.KindCraftingRecipes, p.game, &doc)
	if err != nil || !ok {
		return nil, err
	}

	entries := make([]Entry, 0, len(doc.Shaped)+len(doc.Shapeless))
	for i, r := range doc.Shaped {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := shapedEntry(r)
		if err != nil {
			return nil, cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
				"invalid shaped recipe", err, map[string]any{"path": vanillaPath, "index": i})
		}
		entries = append(entries, e)
	}
	for i, r := range doc.Shapeless {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := shapelessEntry(r)
		if err != nil {
			return nil, cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
				"invalid shapeless recipe", err, map[string]any{"path": vanillaPath, "index": i})
		}
		entries = append(entries, e)
	}

	slog.Debug("vanilla recipes loaded", "shaped", len(doc.Shaped), "shapeless", len(doc.Shapeless))
	return entries, nil
}

func shapedEntry(r ShapedRecipe) (Entry, error) {
	out, err := stack.Parse(r.Output)
	if err != nil {
		return Entry{}, fmt.Errorf("output: %w", err)
	}
	if len(r.Pattern) == 0 {
		return Entry{}, fmt.Errorf("recipe for %s has no pattern", out)
	}

	key := make(map[rune]stack.Stack, len(r.Key))
	for sym, text := range r.Key {
		runes := []rune(sym)
		if len(runes) != 1 || runes[0] == ' ' {
			return Entry{}, fmt.Errorf("key symbol %q must be a single non-space character", sym)
		}
		s, err := stack.Parse(text)
		if err != nil {
			return Entry{}, fmt.Errorf("key %q: %w", sym, err)
		}
		key[runes[0]] = s
	}

	var inputs stack.List
	for _, row := range r.Pattern {
		for _, sym := range row {
			if sym == ' ' {
				continue
			}
			s, ok := key[sym]
			if !ok {
				return Entry{}, fmt.Errorf("pattern symbol %q is not defined in key", sym)
			}
			inputs = append(inputs, s)
		}
	}
	if len(inputs) == 0 {
		return Entry{}, fmt.Errorf("recipe for %s has an empty pattern", out)
	}

	return Entry{Output: out, Inputs: stack.Collate(inputs)}, nil
}

func shapelessEntry(r ShapelessRecipe) (Entry, error) {
	out, err := stack.Parse(r.Output)
	if err != nil {
		return Entry{}, fmt.Errorf("output: %w", err)
	}
	if len(r.Ingredients) == 0 {
		return Entry{}, fmt.Errorf("recipe for %s has no ingredients", out)
	}
	inputs, err := stack.ParseList(r.Ingredients)
	if err != nil {
		return Entry{}, fmt.Errorf("ingredients: %w", err)
	}
	return Entry{Output: out, Inputs: stack.Collate(inputs)}, nil
}
