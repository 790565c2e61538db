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
	"log/slog"

	"github.com/craftgraph/craftgraph/pkg/data"
	"github.com/craftgraph/craftgraph/pkg/header"
	"github.com/craftgraph/craftgraph/pkg/stack"
	"github.com/craftgraph/craftgraph/pkg/version"
)

const potionsPath = "recipes/potions.yaml"

// Brew is one brewing step: reagent added to base yields result.
type Brew struct {
	Base    string `yaml:"base"`
	Reagent string `yaml:"reagent"`
	Result  string `yaml:"result"`
}

// PotionDocument is the PotionRecipes pack document.
type PotionDocument struct {
	header.Header `yaml:",inline"`

	Brews []Brew `yaml:"brews"`
}

// PotionProvider reads brewing recipes from recipes/potions.yaml.
type PotionProvider struct {
	data data.Provider
	game version.Version
}

// NewPotionProvider returns a potion provider over dp.
func NewPotionProvider(dp data.Provider, game version.Version) *PotionProvider {
	return &PotionProvider{data: dp, game: game}
}

// Name returns "potion".
func (p *PotionProvider) Name() string {
	return ProviderPotion
}

// Recipes returns result ← [base, reagent] for every brew.
func (p *PotionProvider) Recipes(ctx context.Context) ([]Entry, error) {
	var doc PotionDocument
	ok, err := data.Decode(p.data, potionsPath, header.KindPotionRecipes, p.game, &doc)
	if err != nil || !ok {
		return nil, err
	}

	entries := make([]Entry, 0, len(doc.Brews))
	for _, b := range doc.Brews {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base, err := parseStack(potionsPath, "brew base", b.Base)
		if err != nil {
			return nil, err
		}
		reagent, err := parseStack(potionsPath, "brew reagent", b.Reagent)
		if err != nil {
			return nil, err
		}
		result, err := parseStack(potionsPath, "brew result", b.Result)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Output: result,
			Inputs: stack.Collate(stack.List{base, reagent}),
		})
	}

	slog.Debug("potion recipes loaded", "count", len(entries))
	return entries, nil
}
