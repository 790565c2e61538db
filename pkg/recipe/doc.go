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

// Package recipe aggregates crafting recipes and discovers every stack they
// and the item catalog reach.
//
// # Overview
//
// A [Registry] pulls [Entry] values from its providers, merges them into one
// multi-valued [Map] (output to input lists), loads the catalog and runs
// stack discovery. The registry builds once, on first access, and is
// immutable afterwards:
//
//	dp := data.Embedded()
//	reg := recipe.NewRegistry(
//	    catalog.New(dp, game),
//	    recipe.DefaultProviders(dp, game, nil),
//	)
//	m, err := reg.Mappings(ctx)
//	stacks, err := reg.DiscoveredStacks(ctx)
//
// # Providers
//
// DefaultProviders returns the pack-backed providers in merge order:
//   - PotionProvider: recipes/potions.yaml, result ← [base, reagent]
//   - VanillaProvider: recipes/vanilla.yaml, shaped and shapeless recipes
//     with collated inputs
//   - IMCProvider: imc/*.yaml plus messages queued at runtime with Send
//   - FluidContainerProvider: fluids/*.yaml, filled ← [amount x fluid, empty]
//
// Providers are fetched concurrently; their entries are merged in the order
// given to NewRegistry. Identical pairs from different providers are kept.
//
// # Discovery
//
// Discovery walks outputs in first-insertion order, adding each output and
// then each of its inputs, normalized, when not yet seen. Catalog items
// follow: variant-bearing items add one stack per variant in
// [0, VariantRange), simple items add a single stack. Nil catalog entries
// are skipped.
//
// # Dump
//
// Map.String and Registry.Dump render one line per pair, outputs sorted by
// stack.Compare:
//
//	Recipe Output: 4xminecraft:stick, Recipe Input: [2xminecraft:planks@0]
//
// # Errors
//
// Build failures are cached: every later call returns the same error.
// Provider and catalog errors keep their structured code; anything else is
// reported as ErrCodeUnavailable.
package recipe
