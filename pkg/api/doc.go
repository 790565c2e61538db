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

// Package api wires the craftd daemon: it loads the recipe registry from
// the configured pack, serves it through pkg/server and, when enabled,
// watches the external data directory and swaps in a rebuilt registry
// after changes.
//
// # Endpoints
//
//	GET /v1/recipes  recipe map in dump order (?format=json|yaml|table|text)
//	GET /v1/stacks   discovered stacks
//	GET /v1/stats    build statistics
//	GET /health      liveness
//	GET /ready       200 once a registry is built
//	GET /metrics     Prometheus metrics
//
// Version information is injected at build time:
//
//	go build -ldflags="-X 'github.com/craftgraph/craftgraph/pkg/api.version=v1.0.0'"
package api
