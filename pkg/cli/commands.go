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

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/craftgraph/craftgraph/pkg/catalog"
	"github.com/craftgraph/craftgraph/pkg/data"
	"github.com/craftgraph/craftgraph/pkg/recipe"
)

func recipesCmd() *cli.Command {
	return &cli.Command{
		Name:  "recipes",
		Usage: "Print the recipe map",
		Description: `Build the recipe registry and print every (output, inputs) pair, sorted
by output. The text format is the registry dump:

  Recipe Output: 4xminecraft:stick, Recipe Input: [2xminecraft:planks@0]

Examples:

  craftctl recipes
  craftctl recipes --format yaml --output recipes.yaml
  craftctl recipes --imc-file messages.yaml --output cm://default/craftgraph-recipes`,
		Flags: []cli.Flag{outputFlag, formatFlag, imcFileFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := loadRegistry(ctx, cmd)
			if err != nil {
				return err
			}
			m, err := reg.Mappings(ctx)
			if err != nil {
				return err
			}
			return writeReport(ctx, cmd, recipe.NewRecipeReport(m, version))
		},
	}
}

func stacksCmd() *cli.Command {
	return &cli.Command{
		Name:  "stacks",
		Usage: "Print every discovered stack",
		Description: `List the stacks discovered from recipe outputs, recipe inputs and the
item catalog, in discovery order and without duplicates.`,
		Flags: []cli.Flag{outputFlag, formatFlag, imcFileFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := loadRegistry(ctx, cmd)
			if err != nil {
				return err
			}
			s, err := reg.DiscoveredStacks(ctx)
			if err != nil {
				return err
			}
			return writeReport(ctx, cmd, recipe.NewStackReport(s, version))
		},
	}
}

func catalogCmd() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Print the item catalog",
		Description: `List catalog items with canonical ids and display names. The yaml
output is a valid ItemCatalog pack document.`,
		Flags: []cli.Flag{outputFlag, formatFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)
			game, err := cfg.Game()
			if err != nil {
				return err
			}
			dp, err := data.NewProvider(cfg.DataDir)
			if err != nil {
				return err
			}
			items, err := catalog.New(dp, game).Items(ctx)
			if err != nil {
				return err
			}
			return writeReport(ctx, cmd, catalog.NewDocument(items, version))
		},
	}
}

func statsCmd() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print registry build statistics",
		Flags: []cli.Flag{outputFlag, formatFlag, imcFileFlag},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := loadRegistry(ctx, cmd)
			if err != nil {
				return err
			}
			st, err := reg.Stats(ctx)
			if err != nil {
				return err
			}
			return writeReport(ctx, cmd, recipe.NewStatsReport(st, version))
		},
	}
}
