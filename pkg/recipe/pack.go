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
	"github.com/craftgraph/craftgraph/pkg/catalog"
	"github.com/craftgraph/craftgraph/pkg/data"
	"github.com/craftgraph/craftgraph/pkg/version"
)

// PackConfig selects the data a pack-backed registry is built from.
type PackConfig struct {
	// DataDir is layered over the embedded pack when set.
	DataDir string

	// Game gates pack documents. The zero version disables gating.
	Game version.Version

	// VariantRange overrides catalog.DefaultVariantRange when positive.
	VariantRange int

	// Messages are queued on the IMC provider before the build.
	Messages []Message
}

// NewPackRegistry returns an unbuilt registry over the embedded pack, the
// optional external directory and any runtime IMC messages.
func NewPackRegistry(cfg PackConfig) (*Registry, error) {
	dp, err := data.NewProvider(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	imc := NewIMCProvider(dp, cfg.Game)
	for _, msg := range cfg.Messages {
		if err := imc.Send(msg); err != nil {
			return nil, err
		}
	}

	var opts []Option
	if cfg.VariantRange > 0 {
		opts = append(opts, WithVariantRange(cfg.VariantRange))
	}
	return NewRegistry(catalog.New(dp, cfg.Game), DefaultProviders(dp, cfg.Game, imc), opts...), nil
}
