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

// Package data provides access to craftgraph data packs.
//
// A data pack is a tree of YAML documents, each carrying a kind/apiVersion
// header:
//
//	items/*.yaml          ItemCatalog
//	recipes/potions.yaml  PotionRecipes
//	recipes/vanilla.yaml  CraftingRecipes
//	fluids/*.yaml         FluidContainers
//	imc/*.yaml            IMCMessages
//
// The default pack is embedded in the binary. [NewLayeredProvider] overlays an
// external directory: an external file replaces the embedded file at the
// same path, and new external files are added.
//
// Documents may set metadata.minGameVersion; [Decode] skips them when the
// configured game version is older.
package data
