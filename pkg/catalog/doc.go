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

// Package catalog models the global item catalog.
//
// The catalog lists every known item. Variant-bearing items expand to
// variants 0..DefaultVariantRange-1 during stack discovery; nil entries are
// placeholders for unused slots and are skipped.
//
// Catalogs load from the items/ directory of a data pack:
//
//	kind: ItemCatalog
//	apiVersion: craftgraph/v1
//	items:
//	  - id: minecraft:dye
//	    hasVariants: true
//	  - id: minecraft:stick
//	  - null
package catalog
