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
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"

	"github.com/craftgraph/craftgraph/pkg/defaults"
	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/serializer"
	"github.com/craftgraph/craftgraph/pkg/server"
)

// Route paths served by Handler.
const (
	RouteRecipes = "/v1/recipes"
	RouteStacks  = "/v1/stacks"
	RouteStats   = "/v1/stats"
)

type generation struct {
	id       uint64
	registry *Registry
}

// Handler serves a registry over HTTP. The registry can be replaced at
// runtime with Swap; requests in flight keep the registry they started with.
type Handler struct {
	current atomic.Pointer[generation]
	ready   atomic.Bool
	lastErr atomic.Pointer[string]
	cache   *gocache.Cache
	version string
}

// NewHandler returns a handler serving r. It reports ready once r has been
// built by Warm or replaced by Swap.
func NewHandler(r *Registry, version string) *Handler {
	h := &Handler{
		cache:   gocache.New(defaults.ResponseCacheTTL, defaults.ResponseCacheCleanupInterval),
		version: version,
	}
	h.current.Store(&generation{id: 1, registry: r})
	return h
}

// Registry returns the registry currently served.
func (h *Handler) Registry() *Registry {
	return h.current.Load().registry
}

// Generation returns the number of registries served so far.
func (h *Handler) Generation() uint64 {
	return h.current.Load().id
}

// Ready reports whether a built registry is being served.
func (h *Handler) Ready() bool {
	return h.ready.Load()
}

// Readiness reports the served generation and the last build failure for
// the server's /ready route.
func (h *Handler) Readiness() server.Readiness {
	rd := server.Readiness{
		Ready:      h.Ready(),
		Generation: h.Generation(),
	}
	if msg := h.lastErr.Load(); msg != nil {
		rd.LastError = *msg
	}
	return rd
}

func (h *Handler) recordErr(err error) {
	if err == nil {
		h.lastErr.Store(nil)
		return
	}
	msg := err.Error()
	h.lastErr.Store(&msg)
}

// Warm builds the current registry.
func (h *Handler) Warm(ctx context.Context) error {
	if _, err := h.Registry().Mappings(ctx); err != nil {
		h.recordErr(err)
		return err
	}
	h.recordErr(nil)
	h.ready.Store(true)
	return nil
}

// Swap builds r and, on success, serves it in place of the current
// registry. On failure the current registry stays in place and the error
// is reported by Readiness until a later build succeeds.
func (h *Handler) Swap(ctx context.Context, r *Registry) error {
	if _, err := r.Mappings(ctx); err != nil {
		h.recordErr(err)
		slog.Warn("recipe registry reload failed, keeping current generation",
			"generation", h.Generation(), "error", err)
		return err
	}
	for {
		old := h.current.Load()
		next := &generation{id: old.id + 1, registry: r}
		if h.current.CompareAndSwap(old, next) {
			break
		}
	}
	h.recordErr(nil)
	h.ready.Store(true)
	h.cache.Flush()
	registrySwaps.Inc()
	slog.Info("recipe registry swapped", "generation", h.Generation())
	return nil
}

// Routes returns the API routes for registration with server.WithHandler.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		RouteRecipes: h.HandleRecipes,
		RouteStacks:  h.HandleStacks,
		RouteStats:   h.HandleStats,
	}
}

// HandleRecipes serves the recipe map in dump order. ?format= selects
// json (default), yaml, table or text; text is the registry dump. Without
// ?format= a vendor media type suffix in Accept picks the format.
func (h *Handler) HandleRecipes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteRecipes, func(ctx context.Context, reg *Registry) (any, error) {
		m, err := reg.Mappings(ctx)
		if err != nil {
			return nil, err
		}
		return NewRecipeReport(m, h.version), nil
	})
}

// HandleStacks serves the discovered stacks in discovery order.
func (h *Handler) HandleStacks(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteStacks, func(ctx context.Context, reg *Registry) (any, error) {
		s, err := reg.DiscoveredStacks(ctx)
		if err != nil {
			return nil, err
		}
		return NewStackReport(s, h.version), nil
	})
}

// HandleStats serves registry build statistics.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, RouteStats, func(ctx context.Context, reg *Registry) (any, error) {
		st, err := reg.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return NewStatsReport(st, h.version), nil
	})
}

type reportFunc func(ctx context.Context, reg *Registry) (any, error)

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, route string, report reportFunc) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, cgerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodGet},
			})
		return
	}

	format := serializer.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		format = serializer.Format(f)
	} else if f := server.PreferredFormat(r.Context()); f != "" {
		format = f
	}
	if format.IsUnknown() {
		server.WriteError(w, r, http.StatusBadRequest, cgerrors.ErrCodeInvalidRequest,
			"Unsupported format", false, map[string]any{
				"format":    string(format),
				"supported": serializer.SupportedFormats(),
			})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.RecipeHandlerTimeout)
	defer cancel()

	gen := h.current.Load()
	key := fmt.Sprintf("%d|%s|%s", gen.id, route, format)

	if body, ok := h.cache.Get(key); ok {
		responseCacheHits.Inc()
		h.respond(w, format, body.([]byte))
		return
	}
	responseCacheMisses.Inc()

	v, err := report(ctx, gen.registry)
	if err != nil {
		slog.Warn("recipe request failed",
			"requestID", server.RequestID(r.Context()),
			"route", route,
			"generation", gen.id,
			"error", err)
		server.WriteErrorFromErr(w, r, err, "Failed to build recipe registry", map[string]any{
			"generation": gen.id,
		})
		return
	}

	body, err := serializer.Marshal(format, v)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to render response", map[string]any{
			"format": string(format),
		})
		return
	}

	h.cache.SetDefault(key, body)
	h.respond(w, format, body)
}

func (h *Handler) respond(w http.ResponseWriter, format serializer.Format, body []byte) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(defaults.ResponseCacheTTL.Seconds())))
	serializer.RespondBytes(w, http.StatusOK, format, body)
}
