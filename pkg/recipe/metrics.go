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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry build metrics
	registryBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "craftgraph_registry_build_duration_seconds",
			Help:    "Duration of recipe registry builds in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)
	registryBuildErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "craftgraph_registry_build_errors_total",
			Help: "Total number of failed recipe registry builds",
		},
	)

	// Registry access metrics
	registryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "craftgraph_registry_cache_hits_total",
			Help: "Total number of registry reads served from the built registry",
		},
	)
	registryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "craftgraph_registry_cache_misses_total",
			Help: "Total number of registry reads that triggered the initial build",
		},
	)

	// Registry content metrics, from the most recent build
	providerEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "craftgraph_registry_provider_entries",
			Help: "Number of recipe entries supplied by each provider",
		},
		[]string{"provider"},
	)
	recipePairs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "craftgraph_registry_recipe_pairs",
			Help: "Number of (output, inputs) pairs in the recipe map",
		},
	)
	discoveredStacks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "craftgraph_registry_discovered_stacks",
			Help: "Number of unique discovered stacks",
		},
	)
)

var (
	responseCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "craftgraph_response_cache_hits_total",
			Help: "Total number of rendered responses served from cache",
		},
	)

	responseCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "craftgraph_response_cache_misses_total",
			Help: "Total number of responses rendered on demand",
		},
	)

	registrySwaps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "craftgraph_registry_swaps_total",
			Help: "Total number of registry replacements after a reload",
		},
	)
)
