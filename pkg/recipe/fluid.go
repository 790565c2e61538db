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
	"strings"

	"github.com/craftgraph/craftgraph/pkg/data"
	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/header"
	"github.com/craftgraph/craftgraph/pkg/stack"
	"github.com/craftgraph/craftgraph/pkg/version"
)

const (
	fluidsDir = "fluids"

	// FluidNamespace is the item namespace for fluid stacks. A fluid stack's
	// quantity is the amount of fluid.
	FluidNamespace = "fluid"
)

// FluidContainer describes a container that holds Amount of Fluid when full.
type FluidContainer struct {
	Fluid  string `yaml:"fluid"`
	Amount int    `yaml:"amount"`
	Filled string `yaml:"filled"`
	Empty  string `yaml:"empty"`
}

// FluidDocument is the FluidContainers pack document.
type FluidDocument struct {
	header.Header `yaml:",inline"`

	Containers []FluidContainer `yaml:"containers"`
}

// FluidStack returns the stack for amount of the named fluid.
func FluidStack(fluid string, amount int) stack.Stack {
	return stack.New(FluidNamespace+":"+strings.ToLower(strings.TrimSpace(fluid)), amount)
}

// FluidContainerProvider reads container fill recipes from fluids/*.yaml.
type FluidContainerProvider struct {
	data data.Provider
	game version.Version
}

// NewFluidContainerProvider returns a fluid container provider over dp.
func NewFluidContainerProvider(dp data.Provider, game version.Version) *FluidContainerProvider {
	return &FluidContainerProvider{data: dp, game: game}
}

// Name returns "fluid".
func (p *FluidContainerProvider) Name() string {
	return ProviderFluid
}

// Recipes returns filled ← [amount x fluid, empty] for every container.
func (p *FluidContainerProvider) Recipes(ctx context.Context) ([]Entry, error) {
	files, err := data.Files(p.data, fluidsDir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var doc FluidDocument
		ok, err := data.Decode(p.data, name, header.KindFluidContainers, p.game, &doc)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		for i, c := range doc.Containers {
			e, err := containerEntry(c)
			if err != nil {
				return nil, cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
					"invalid fluid container", err, map[string]any{"path": name, "index": i})
			}
			entries = append(entries, e)
		}
	}

	slog.Debug("fluid container recipes loaded", "files", len(files), "count", len(entries))
	return entries, nil
}

func containerEntry(c FluidContainer) (Entry, error) {
	fluid := strings.TrimSpace(c.Fluid)
	if fluid == "" {
		return Entry{}, fmt.Errorf("fluid name is empty")
	}
	if strings.ContainsAny(fluid, ":@ ") {
		return Entry{}, fmt.Errorf("invalid fluid name %q", c.Fluid)
	}
	if c.Amount <= 0 {
		return Entry{}, fmt.Errorf("fluid amount must be positive, got %d", c.Amount)
	}
	filled, err := stack.Parse(c.Filled)
	if err != nil {
		return Entry{}, fmt.Errorf("filled: %w", err)
	}
	empty, err := stack.Parse(c.Empty)
	if err != nil {
		return Entry{}, fmt.Errorf("empty: %w", err)
	}
	return Entry{
		Output: filled,
		Inputs: stack.List{FluidStack(fluid, c.Amount), empty},
	}, nil
}
