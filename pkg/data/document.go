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

package data

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/header"
	"github.com/craftgraph/craftgraph/pkg/version"
)

// Files returns the YAML files under dir in lexical order.
// A missing directory yields no files.
func Files(p Provider, dir string) ([]string, error) {
	var files []string
	err := p.WalkDir(dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(path.Ext(name)) {
		case ".yaml", ".yml":
			files = append(files, name)
		}
		return nil
	})
	if err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeUnavailable,
			fmt.Sprintf("failed to list data directory %q", dir), err)
	}
	sort.Strings(files)
	return files, nil
}

// Decode reads the document at name, checks that it declares kind and
// decodes it into out. The document is skipped, and false returned, when its
// minGameVersion is newer than game. A zero game version disables gating.
func Decode(p Provider, name string, kind header.Kind, game version.Version, out any) (bool, error) {
	raw, err := p.ReadFile(name)
	if err != nil {
		return false, cgerrors.WrapWithContext(cgerrors.ErrCodeUnavailable,
			"failed to read data file", err, map[string]any{"path": name})
	}

	var h header.Header
	if err := yaml.Unmarshal(raw, &h); err != nil {
		return false, cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
			"failed to parse data file", err, map[string]any{"path": name})
	}
	if err := h.Expect(kind); err != nil {
		return false, cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
			"invalid document header", err, map[string]any{"path": name})
	}

	ok, err := applies(h, game)
	if err != nil {
		return false, cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
			"invalid minGameVersion", err, map[string]any{"path": name})
	}
	if !ok {
		slog.Debug("skipping data file gated by game version",
			"path", name, "minGameVersion", h.Metadata[header.MetadataMinGameVersion], "game", game.String())
		return false, nil
	}

	if err := yaml.Unmarshal(raw, out); err != nil {
		return false, cgerrors.WrapWithContext(cgerrors.ErrCodeMalformed,
			"failed to decode data file", err, map[string]any{"path": name})
	}

	slog.Debug("loaded data file", "path", name, "kind", kind, "source", p.Source(name))
	return true, nil
}

func applies(h header.Header, game version.Version) (bool, error) {
	raw, ok := h.Metadata[header.MetadataMinGameVersion]
	if !ok || raw == "" || game.IsZero() {
		return true, nil
	}
	minVersion, err := version.Parse(raw)
	if err != nil {
		return false, err
	}
	return game.AtLeast(minVersion), nil
}
