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

package api

import (
	"context"
	"log/slog"

	"github.com/craftgraph/craftgraph/pkg/config"
	"github.com/craftgraph/craftgraph/pkg/logging"
	"github.com/craftgraph/craftgraph/pkg/recipe"
	"github.com/craftgraph/craftgraph/pkg/server"
)

const (
	name           = "craftd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/craftgraph/craftgraph/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve builds the recipe registry, starts the API server and blocks until
// shutdown. With cfg.Watch set and a data directory configured, pack
// changes rebuild the registry and swap it in without a restart.
func Serve(ctx context.Context, cfg *config.Config) error {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"config", cfg.File,
	)

	h, pack, err := newHandler(ctx, cfg)
	if err != nil {
		slog.Error("failed to build recipe registry", "error", err)
		return err
	}

	s := server.New(
		server.WithConfig(serverConfig(cfg)),
		server.WithHandler(h.Routes()),
		server.WithReadiness(h.Readiness),
	)

	var tasks []func(context.Context) error
	if cfg.Watch && cfg.DataDir != "" {
		reload := newReloader(h, pack)
		tasks = append(tasks, func(ctx context.Context) error {
			return Watch(ctx, cfg.DataDir, cfg.Debounce, reload)
		})
	}

	if err := s.Run(ctx, tasks...); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

func serverConfig(cfg *config.Config) *server.Config {
	sc := server.NewConfig()
	sc.Name = name
	sc.Version = version
	sc.Address = cfg.Address
	sc.Port = cfg.Port
	return sc
}

// newHandler builds the first registry so the server starts ready.
func newHandler(ctx context.Context, cfg *config.Config) (*recipe.Handler, recipe.PackConfig, error) {
	game, err := cfg.Game()
	if err != nil {
		return nil, recipe.PackConfig{}, err
	}
	pack := recipe.PackConfig{
		DataDir:      cfg.DataDir,
		Game:         game,
		VariantRange: cfg.Variants,
	}

	reg, err := recipe.NewPackRegistry(pack)
	if err != nil {
		return nil, pack, err
	}
	h := recipe.NewHandler(reg, version)
	if err := h.Warm(ctx); err != nil {
		return nil, pack, err
	}
	return h, pack, nil
}

// newReloader returns a callback that rebuilds the registry from pack and
// swaps it into h. A failed rebuild leaves the served registry in place.
func newReloader(h *recipe.Handler, pack recipe.PackConfig) func(context.Context) error {
	return func(ctx context.Context) error {
		reg, err := recipe.NewPackRegistry(pack)
		if err != nil {
			return err
		}
		return h.Swap(ctx, reg)
	}
}
