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

// Package defaults provides centralized configuration constants for craftgraph.
//
// This package defines timeout values and other defaults used across the
// codebase. Centralizing these values keeps the CLI, the API server and the
// registry consistent.
//
// # Timeout Categories
//
//   - Registry timeouts: provider fetches and the full registry build
//   - Handler timeouts: HTTP request processing and response caching
//   - Server timeouts: HTTP server configuration
//   - Watch: debounce for data directory reloads
//   - ConfigMap timeouts: Kubernetes output
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.RegistryBuildTimeout)
//	defer cancel()
package defaults
