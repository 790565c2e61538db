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

package defaults

import "time"

// Registry timeouts for building the recipe registry.
const (
	// RegistryBuildTimeout bounds a full registry build: every provider fetch,
	// the catalog load and stack discovery.
	RegistryBuildTimeout = 30 * time.Second

	// ProviderFetchTimeout bounds a single provider fetch.
	// Should be less than RegistryBuildTimeout.
	ProviderFetchTimeout = 20 * time.Second
)

// Handler timeouts for HTTP request processing.
const (
	// RecipeHandlerTimeout is the timeout for recipe and stack listing requests.
	RecipeHandlerTimeout = 30 * time.Second

	// ResponseCacheTTL is how long a rendered response stays cached.
	ResponseCacheTTL = 10 * time.Minute

	// ResponseCacheCleanupInterval is how often expired responses are purged.
	ResponseCacheCleanupInterval = 30 * time.Minute
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Data directory watching.
const (
	// WatchDebounce coalesces bursts of file events into one reload.
	WatchDebounce = 500 * time.Millisecond
)

// ConfigMap timeouts for Kubernetes ConfigMap operations.
const (
	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second
)
