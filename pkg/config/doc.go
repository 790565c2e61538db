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

// Package config resolves craftgraph settings.
//
// Values come from, in increasing precedence: built-in defaults, a YAML
// config file, and environment variables prefixed with CRAFTGRAPH_ (dashes
// become underscores, so data-dir is CRAFTGRAPH_DATA_DIR). Command-line
// flags are applied on top by the caller.
//
//	data-dir: ./pack
//	game-version: 1.6.4
//	variants: 16
//	log-level: info
//	port: 8080
//	watch: true
//	debounce: 500ms
package config
