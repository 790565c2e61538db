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

	"github.com/craftgraph/craftgraph/pkg/data"
	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/stack"
	"github.com/craftgraph/craftgraph/pkg/version"
)

// Provider names.
const (
	ProviderPotion  = "potion"
	ProviderVanilla = "vanilla"
	ProviderIMC     = "imc"
	ProviderFluid   = "fluid"
)

// Provider supplies recipe entries from one source.
type Provider interface {
	// Name identifies the provider in logs, metrics and stats.
	Name() string

	// Recipes returns the provider's entries.
	Recipes(ctx context.Context) ([]Entry, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc struct {
	ProviderName string
	Fn           func(ctx context.Context) ([]Entry, error)
}

// Name returns ProviderName.
func (p ProviderFunc) Name() string {
	return p.ProviderName
}

// Recipes calls Fn.
func (p ProviderFunc) Recipes(ctx context.Context) ([]Entry, error) {
	return p.Fn(ctx)
}

// DefaultProviders returns the four pack-backed providers in merge order:
// potion, vanilla, IMC, fluid container. imc may carry runtime messages;
// when nil a pack-only IMC provider is used.
func DefaultProviders(dp data.Provider, game version.Version, imc *IMCProvider) []Provider {
	if imc == nil {
		imc = NewIMCProvider(dp, game)
	}
	return []Provider{
		NewPotionProvider(dp, game),
		NewVanillaProvider(dp, game),
		imc,
		NewFluidContainerProvider(dp, game),
	}
}

func parseStack(path, field, text string) (stack.Stack, error) {
	s, err := stack.Parse(text)
	if err != nil {
		return stack.Stack{}, cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
			fmt.Sprintf("invalid %s", field), err, map[string]any{"path": path, "value": text})
	}
	return s, nil
}

func parseStacks(path, field string, texts []string) (stack.List, error) {
	out := make(stack.List, 0, len(texts))
	for _, t := range texts {
		s, err := parseStack(path, field, t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
