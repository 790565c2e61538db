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

// Package header provides the common document header for craftgraph data.
//
// Every data-pack document and every report produced by craftctl or craftd
// starts with the same three fields:
//
//	kind: CraftingRecipes
//	apiVersion: craftgraph/v1
//	metadata:
//	  minGameVersion: "1.6.4"
//
// Loaders call Expect to reject documents of the wrong kind or schema
// version. Reports call Init to stamp a timestamp and the tool version.
//
// # Usage
//
//	h := header.New(header.WithKind(header.KindStackReport))
//	h.Metadata["source"] = "embedded"
package header
