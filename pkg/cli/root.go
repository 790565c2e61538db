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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/craftgraph/craftgraph/pkg/config"
	"github.com/craftgraph/craftgraph/pkg/logging"
)

const (
	name           = "craftctl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

type configKey struct{}

// Execute runs craftctl with os.Args and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "craftgraph - recipe registry CLI",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		ShellComplete:         commandLister,
		Description: `Aggregates potion, crafting, inter-mod and fluid container recipes from
the data pack into a recipe registry and reports on it:

recipes - recipe map in dump order
stacks  - every stack discovered from recipes and the item catalog
catalog - item catalog with display names
stats   - registry build statistics`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "config file (default is ./craftgraph.yaml or ~/.config/craftgraph/craftgraph.yaml)",
				Sources: cli.EnvVars("CRAFTGRAPH_CONFIG"),
			},
			&cli.StringFlag{
				Name:  config.KeyDataDir,
				Usage: "external pack directory layered over the built-in pack",
			},
			&cli.StringFlag{
				Name:  config.KeyGameVersion,
				Usage: "game version used to gate pack documents (e.g. 1.6.4)",
			},
			&cli.IntFlag{
				Name:  config.KeyVariants,
				Usage: "variant indices enumerated for items with variants",
			},
			&cli.StringFlag{
				Name:  config.KeyLogLevel,
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: initConfig,
		Commands: []*cli.Command{
			recipesCmd(),
			stacksCmd(),
			catalogCmd(),
			statsCmd(),
		},
	}
}

// initConfig resolves configuration, applies flag overrides and configures
// slog before any command runs.
func initConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}

	if cmd.IsSet(config.KeyDataDir) {
		cfg.DataDir = cmd.String(config.KeyDataDir)
	}
	if cmd.IsSet(config.KeyGameVersion) {
		cfg.GameVersion = cmd.String(config.KeyGameVersion)
	}
	if cmd.IsSet(config.KeyVariants) {
		cfg.Variants = int(cmd.Int(config.KeyVariants))
	}
	if cmd.IsSet(config.KeyLogLevel) {
		cfg.LogLevel = cmd.String(config.KeyLogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return ctx, err
	}

	logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"config", cfg.File,
		"dataDir", cfg.DataDir)

	return context.WithValue(ctx, configKey{}, cfg), nil
}

// configFrom returns the configuration stored by initConfig, or defaults.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	d := config.Defaults()
	return &d
}

// commandLister prints visible subcommand names for shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(cmd.Root().Writer, c.Name)
	}
}
