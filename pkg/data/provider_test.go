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
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// TestEmbeddedProvider tests the built-in pack.
func TestEmbeddedProvider(t *testing.T) {
	provider := Embedded()

	t.Run("read existing file", func(t *testing.T) {
		data, err := provider.ReadFile("recipes/potions.yaml")
		if err != nil {
			t.Fatalf("failed to read potions.yaml: %v", err)
		}
		if len(data) == 0 {
			t.Error("potions.yaml is empty")
		}
	})

	t.Run("read non-existent file", func(t *testing.T) {
		_, err := provider.ReadFile("non-existent.yaml")
		if err == nil {
			t.Error("expected error for non-existent file")
		}
	})

	t.Run("source returns embedded", func(t *testing.T) {
		assert.Equal(t, SourceEmbedded, provider.Source("recipes/potions.yaml"))
	})

	t.Run("walk reports pack-relative paths", func(t *testing.T) {
		var paths []string
		err := provider.WalkDir("items", func(path string, d fs.DirEntry, err error) error {
			require.NoError(t, err)
			if !d.IsDir() {
				paths = append(paths, path)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Contains(t, paths, "items/base.yaml")
	})

	t.Run("walk missing root", func(t *testing.T) {
		called := false
		err := provider.WalkDir("nope", func(string, fs.DirEntry, error) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.False(t, called)
	})
}

func TestLayeredProvider_Overlay(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "recipes/potions.yaml", "kind: PotionRecipes\nbrews: []\n")
	writeFile(t, tmpDir, "imc/extra.yaml", "kind: IMCMessages\nmessages: []\n")

	provider, err := NewLayeredProvider(Embedded(), LayeredConfig{ExternalDir: tmpDir})
	require.NoError(t, err)

	t.Run("external replaces embedded", func(t *testing.T) {
		data, err := provider.ReadFile("recipes/potions.yaml")
		require.NoError(t, err)
		assert.Equal(t, "kind: PotionRecipes\nbrews: []\n", string(data))
		assert.Equal(t, SourceExternal, provider.Source("recipes/potions.yaml"))
	})

	t.Run("embedded fallback", func(t *testing.T) {
		data, err := provider.ReadFile("recipes/vanilla.yaml")
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		assert.Equal(t, SourceEmbedded, provider.Source("recipes/vanilla.yaml"))
	})

	t.Run("walk merges and dedups", func(t *testing.T) {
		files, err := Files(provider, "recipes")
		require.NoError(t, err)
		assert.Equal(t, []string{"recipes/potions.yaml", "recipes/vanilla.yaml"}, files)

		files, err = Files(provider, "imc")
		require.NoError(t, err)
		assert.Equal(t, []string{"imc/builtin.yaml", "imc/extra.yaml"}, files)
	})
}

func TestLayeredProvider_Validation(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewLayeredProvider(Embedded(), LayeredConfig{
			ExternalDir: filepath.Join(t.TempDir(), "missing"),
		})
		require.Error(t, err)
		assert.Equal(t, cgerrors.ErrCodeNotFound, cgerrors.CodeOf(err))
	})

	t.Run("not a directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "file.yaml", "x: 1\n")
		_, err := NewLayeredProvider(Embedded(), LayeredConfig{
			ExternalDir: filepath.Join(dir, "file.yaml"),
		})
		require.Error(t, err)
		assert.Equal(t, cgerrors.ErrCodeInvalidRequest, cgerrors.CodeOf(err))
	})

	t.Run("file too large", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "items/big.yaml", "kind: ItemCatalog\nitems: []\n")
		_, err := NewLayeredProvider(Embedded(), LayeredConfig{
			ExternalDir: dir,
			MaxFileSize: 4,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file too large")
	})

	t.Run("symlink rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "target.yaml", "x: 1\n")
		if err := os.Symlink(filepath.Join(dir, "target.yaml"), filepath.Join(dir, "link.yaml")); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}
		_, err := NewLayeredProvider(Embedded(), LayeredConfig{ExternalDir: dir})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlinks not allowed")

		_, err = NewLayeredProvider(Embedded(), LayeredConfig{ExternalDir: dir, AllowSymlinks: true})
		require.NoError(t, err)
	})
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("")
	require.NoError(t, err)
	assert.IsType(t, &EmbeddedProvider{}, p)

	p, err = NewProvider(t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &LayeredProvider{}, p)
}
