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
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/craftgraph/craftgraph/pkg/catalog"
	"github.com/craftgraph/craftgraph/pkg/defaults"
	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
)

// Option configures a Registry.
type Option func(*Registry)

// WithVariantRange sets how many variants a variant-bearing catalog item
// expands to. Non-positive values are ignored.
func WithVariantRange(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.variantRange = n
		}
	}
}

// WithBuildTimeout bounds the registry build. Non-positive values are ignored.
func WithBuildTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.buildTimeout = d
		}
	}
}

// Registry aggregates recipes from its providers into a Map and discovers
// every stack reachable from those recipes and the catalog.
//
// The registry builds itself once, on first access. The result, or the
// error, is kept for the lifetime of the registry; all later calls observe
// the same Map and Stacks. A caller whose context is already done gets an
// error without touching the build. A Registry is safe for concurrent use.
type Registry struct {
	catalog      catalog.Catalog
	providers    []Provider
	variantRange int
	buildTimeout time.Duration

	once  sync.Once
	built *snapshot
	err   error
}

type snapshot struct {
	mappings *Map
	stacks   Stacks
	stats    Stats
}

// ProviderStats reports the entries one provider supplied.
type ProviderStats struct {
	Name    string `json:"name" yaml:"name"`
	Entries int    `json:"entries" yaml:"entries"`
}

// Stats summarizes a built registry.
type Stats struct {
	Providers     []ProviderStats `json:"providers" yaml:"providers"`
	Pairs         int             `json:"pairs" yaml:"pairs"`
	Outputs       int             `json:"outputs" yaml:"outputs"`
	CatalogItems  int             `json:"catalogItems" yaml:"catalogItems"`
	Stacks        int             `json:"stacks" yaml:"stacks"`
	VariantRange  int             `json:"variantRange" yaml:"variantRange"`
	BuildDuration time.Duration   `json:"-" yaml:"-"`
	BuildMillis   int64           `json:"buildMillis" yaml:"buildMillis"`
}

// NewRegistry returns a registry over cat and providers. Provider entries
// are merged in the order given; see DefaultProviders.
func NewRegistry(cat catalog.Catalog, providers []Provider, opts ...Option) *Registry {
	r := &Registry{
		catalog:      cat,
		providers:    providers,
		variantRange: catalog.DefaultVariantRange,
		buildTimeout: defaults.RegistryBuildTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mappings returns the recipe map, building the registry on first use.
func (r *Registry) Mappings(ctx context.Context) (*Map, error) {
	s, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.mappings, nil
}

// DiscoveredStacks returns the discovered stacks, building the registry on
// first use.
func (r *Registry) DiscoveredStacks(ctx context.Context) (Stacks, error) {
	s, err := r.load(ctx)
	if err != nil {
		return Stacks{}, err
	}
	return s.stacks, nil
}

// Stats returns build statistics, building the registry on first use.
func (r *Registry) Stats(ctx context.Context) (Stats, error) {
	s, err := r.load(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := s.stats
	st.Providers = append([]ProviderStats(nil), s.stats.Providers...)
	return st, nil
}

// Providers returns the provider names in merge order.
func (r *Registry) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Dump writes the diagnostic dump of the recipe map to w.
func (r *Registry) Dump(ctx context.Context, w io.Writer) error {
	m, err := r.Mappings(ctx)
	if err != nil {
		return err
	}
	_, err = m.WriteTo(w)
	return err
}

// String returns the diagnostic dump, or an empty string when the registry
// failed to build.
func (r *Registry) String() string {
	var b strings.Builder
	if err := r.Dump(context.Background(), &b); err != nil {
		slog.Error("failed to render recipe registry", "error", err)
		return ""
	}
	return b.String()
}

// load builds the registry on first use. The build runs detached from the
// caller's cancellation and is bounded by the build timeout, so a caller that
// gives up never leaves a cached cancellation behind.
func (r *Registry) load(ctx context.Context) (*snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, callerDone(err)
	}

	first := false
	r.once.Do(func() {
		first = true
		registryCacheMisses.Inc()
		r.built, r.err = r.build(context.WithoutCancel(ctx))
	})

	if !first && r.err == nil {
		registryCacheHits.Inc()
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.built, nil
}

func (r *Registry) build(ctx context.Context) (*snapshot, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.buildTimeout)
	defer cancel()

	slog.Debug("building recipe registry", "providers", r.Providers(), "variantRange", r.variantRange)

	results := make([][]Entry, len(r.providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range r.providers {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, defaults.ProviderFetchTimeout)
			defer cancel()
			entries, err := p.Recipes(pctx)
			if err != nil {
				return wrapBuildErr(err, "recipe provider failed", map[string]any{"provider": p.Name()})
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		registryBuildErrors.Inc()
		slog.Error("recipe registry build failed", "error", err)
		return nil, err
	}

	stats := Stats{VariantRange: r.variantRange}
	var merged []Entry
	for i, entries := range results {
		name := r.providers[i].Name()
		stats.Providers = append(stats.Providers, ProviderStats{Name: name, Entries: len(entries)})
		providerEntries.WithLabelValues(name).Set(float64(len(entries)))
		merged = append(merged, entries...)
	}
	m := NewMap(merged)

	var items []*catalog.Item
	if r.catalog != nil {
		var err error
		items, err = r.catalog.Items(ctx)
		if err != nil {
			registryBuildErrors.Inc()
			err = wrapBuildErr(err, "catalog unavailable", nil)
			slog.Error("recipe registry build failed", "error", err)
			return nil, err
		}
	}

	stacks := Discover(m, items, r.variantRange)

	for _, it := range items {
		if it != nil {
			stats.CatalogItems++
		}
	}
	stats.Pairs = m.Len()
	stats.Outputs = m.NumOutputs()
	stats.Stacks = stacks.Len()
	stats.BuildDuration = time.Since(start)
	stats.BuildMillis = stats.BuildDuration.Milliseconds()

	registryBuildDuration.Observe(stats.BuildDuration.Seconds())
	recipePairs.Set(float64(stats.Pairs))
	discoveredStacks.Set(float64(stats.Stacks))

	slog.Info("recipe registry built",
		"pairs", stats.Pairs,
		"outputs", stats.Outputs,
		"stacks", stats.Stacks,
		"catalogItems", stats.CatalogItems,
		"duration", stats.BuildDuration)

	return &snapshot{mappings: m, stacks: stacks, stats: stats}, nil
}

// callerDone reports a caller context that ended before the registry was
// consulted.
func callerDone(err error) error {
	code := cgerrors.ErrCodeUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		code = cgerrors.ErrCodeTimeout
	}
	return cgerrors.Wrap(code, "request cancelled before registry lookup", err)
}

// wrapBuildErr keeps the code of structured errors and marks everything
// else, including cancellation, as unavailable.
func wrapBuildErr(err error, msg string, fields map[string]any) error {
	code := cgerrors.CodeOf(err)
	if code == "" {
		code = cgerrors.ErrCodeUnavailable
	}
	return cgerrors.WrapWithContext(code, msg, err, fields)
}
