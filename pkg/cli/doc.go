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

// Package cli implements craftctl, the command-line interface to the
// craftgraph recipe registry.
//
// # Commands
//
//	craftctl recipes   recipe map in dump order
//	craftctl stacks    discovered stacks
//	craftctl catalog   item catalog with display names
//	craftctl stats     registry build statistics
//
// # Global Flags
//
//	--config        config file (default ./craftgraph.yaml, then ~/.config/craftgraph/)
//	--data-dir      external pack directory layered over the built-in pack
//	--game-version  gate pack documents by minGameVersion
//	--variants      variant indices enumerated for variant-bearing items
//	--log-level     debug, info, warn or error
//
// Flags override CRAFTGRAPH_* environment variables, which override the
// config file.
//
// # Output
//
//	--format, -t   text (default), json, yaml or table
//	--output, -o   file path or cm://namespace/name (default: stdout)
//
// ConfigMap output uses KUBECONFIG, ~/.kube/config or the in-cluster
// service account.
//
// # Examples
//
//	craftctl recipes
//	craftctl --game-version 1.6.4 stacks --format json
//	craftctl --data-dir ./pack recipes --imc-file messages.yaml -o recipes.yaml -t yaml
//
// # Exit Codes
//
//	0  Success
//	1  Any error
package cli
