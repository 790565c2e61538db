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
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/craftgraph/craftgraph/pkg/recipe"
	"github.com/craftgraph/craftgraph/pkg/serializer"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file or cm://namespace/name ConfigMap (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Value:   string(serializer.FormatText),
	}

	imcFileFlag = &cli.StringFlag{
		Name:  "imc-file",
		Usage: "YAML or JSON IMCMessages document whose messages are sent before the build",
	}
)

// parseOutputFormat reads and validates --format.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q, supported: %s",
			f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// loadRegistry builds an unbuilt registry from the resolved configuration
// and the optional --imc-file.
func loadRegistry(ctx context.Context, cmd *cli.Command) (*recipe.Registry, error) {
	cfg := configFrom(ctx)
	game, err := cfg.Game()
	if err != nil {
		return nil, err
	}

	pack := recipe.PackConfig{
		DataDir:      cfg.DataDir,
		Game:         game,
		VariantRange: cfg.Variants,
	}
	if path := cmd.String("imc-file"); path != "" {
		doc, err := serializer.FromFile[recipe.IMCDocument](path)
		if err != nil {
			return nil, fmt.Errorf("failed to load IMC messages: %w", err)
		}
		pack.Messages = doc.Messages
	}
	return recipe.NewPackRegistry(pack)
}

// writeReport serializes report to --output in --format.
func writeReport(ctx context.Context, cmd *cli.Command, report any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	var ser serializer.Serializer
	if out := cmd.String("output"); out != "" {
		ser = serializer.NewFileWriterOrStdout(format, out)
	} else {
		ser = serializer.NewWriter(format, cmd.Root().Writer)
	}
	if closer, ok := ser.(serializer.Closer); ok {
		defer closer.Close()
	}

	if err := ser.Serialize(ctx, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
