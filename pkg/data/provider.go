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
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
)

//go:embed pack
var packFS embed.FS

const (
	// DefaultMaxFileSize is the default maximum file size (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	// SourceEmbedded is the source name for files from the built-in pack.
	SourceEmbedded = "embedded"

	// SourceExternal is the source name for files from an external directory.
	SourceExternal = "external"

	packPrefix = "pack"
)

// Provider abstracts access to data-pack files.
// This allows layering external directories over the embedded pack.
type Provider interface {
	// ReadFile reads a file by path (relative to the pack root).
	ReadFile(path string) ([]byte, error)

	// WalkDir walks the directory tree rooted at root. Paths passed to fn are
	// relative to the pack root.
	WalkDir(root string, fn fs.WalkDirFunc) error

	// Source returns a description of where data came from (for debugging).
	Source(path string) string
}

// EmbeddedProvider wraps an embed.FS to implement Provider.
type EmbeddedProvider struct {
	fs     fs.FS
	prefix string
}

// NewEmbeddedProvider creates a provider over fsys, stripping prefix from
// every path.
func NewEmbeddedProvider(fsys fs.FS, prefix string) *EmbeddedProvider {
	return &EmbeddedProvider{
		fs:     fsys,
		prefix: prefix,
	}
}

// Embedded returns a provider over the built-in data pack.
func Embedded() *EmbeddedProvider {
	return NewEmbeddedProvider(packFS, packPrefix)
}

func (p *EmbeddedProvider) full(path string) string {
	if path == "" {
		return p.prefix
	}
	return p.prefix + "/" + path
}

// ReadFile reads a file from the embedded filesystem.
func (p *EmbeddedProvider) ReadFile(path string) ([]byte, error) {
	slog.Debug("reading file from embedded provider", "path", path)
	return fs.ReadFile(p.fs, p.full(path))
}

// WalkDir walks the embedded filesystem. A missing root is not an error.
func (p *EmbeddedProvider) WalkDir(root string, fn fs.WalkDirFunc) error {
	fullRoot := p.full(root)
	if _, err := fs.Stat(p.fs, fullRoot); err != nil {
		slog.Debug("embedded root not present", "root", root)
		return nil
	}
	return fs.WalkDir(p.fs, fullRoot, func(path string, d fs.DirEntry, err error) error {
		relPath := strings.TrimPrefix(strings.TrimPrefix(path, p.prefix), "/")
		return fn(relPath, d, err)
	})
}

// Source returns "embedded" for all paths.
func (p *EmbeddedProvider) Source(string) string {
	return SourceEmbedded
}

// LayeredConfig configures the layered data provider.
type LayeredConfig struct {
	// ExternalDir is the path to the external data directory.
	ExternalDir string

	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB).
	MaxFileSize int64

	// AllowSymlinks allows symlinks in the external directory (default: false).
	AllowSymlinks bool
}

// LayeredProvider overlays an external directory on top of the embedded pack.
// An external file replaces the embedded file at the same path; new external
// files are added.
type LayeredProvider struct {
	embedded    *EmbeddedProvider
	externalDir string

	// Track which files came from external (for debugging)
	externalFiles map[string]bool
}

// NewLayeredProvider creates a provider that layers external data over embedded.
// Returns an error if:
// - External directory doesn't exist or is not a directory
// - Path traversal is detected
// - A symlink is found and symlinks are not allowed
// - File size exceeds limits
func NewLayeredProvider(embedded *EmbeddedProvider, config LayeredConfig) (*LayeredProvider, error) {
	slog.Debug("creating layered data provider",
		"external_dir", config.ExternalDir,
		"max_file_size", config.MaxFileSize,
		"allow_symlinks", config.AllowSymlinks)

	if config.MaxFileSize == 0 {
		config.MaxFileSize = DefaultMaxFileSize
	}

	info, err := os.Stat(config.ExternalDir)
	if err != nil {
		return nil, cgerrors.Wrap(cgerrors.ErrCodeNotFound,
			fmt.Sprintf("external data directory not found: %s", config.ExternalDir), err)
	}
	if !info.IsDir() {
		return nil, cgerrors.New(cgerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("external data path is not a directory: %s", config.ExternalDir))
	}

	externalFiles := make(map[string]bool)
	err = filepath.WalkDir(config.ExternalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(config.ExternalDir, path)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		relPath = filepath.ToSlash(relPath)

		if strings.Contains(relPath, "..") {
			return cgerrors.New(cgerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("path traversal detected: %s", relPath))
		}

		if !config.AllowSymlinks && d.Type()&fs.ModeSymlink != 0 {
			return cgerrors.New(cgerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("symlinks not allowed: %s", relPath))
		}

		if d.IsDir() {
			return nil
		}

		info, statErr := d.Info()
		if statErr != nil {
			return fmt.Errorf("failed to get file info: %w", statErr)
		}
		if info.Size() > config.MaxFileSize {
			return cgerrors.New(cgerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("file too large (%d bytes, max %d): %s", info.Size(), config.MaxFileSize, relPath))
		}

		externalFiles[relPath] = true
		slog.Debug("discovered external file", "path", relPath, "size", info.Size())
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("layered data provider initialized",
		"external_dir", config.ExternalDir,
		"external_files", len(externalFiles))

	return &LayeredProvider{
		embedded:      embedded,
		externalDir:   config.ExternalDir,
		externalFiles: externalFiles,
	}, nil
}

// ReadFile reads a file, checking the external directory first.
func (p *LayeredProvider) ReadFile(path string) ([]byte, error) {
	if p.externalFiles[path] {
		data, err := os.ReadFile(filepath.Join(p.externalDir, filepath.FromSlash(path)))
		if err != nil {
			return nil, fmt.Errorf("failed to read external file %s: %w", path, err)
		}
		slog.Debug("read from external data directory", "path", path)
		return data, nil
	}

	slog.Debug("falling back to embedded data", "path", path)
	return p.embedded.ReadFile(path)
}

// WalkDir walks both embedded and external directories.
// External files take precedence over embedded files at the same path.
func (p *LayeredProvider) WalkDir(root string, fn fs.WalkDirFunc) error {
	visited := make(map[string]bool)

	externalRoot := filepath.Join(p.externalDir, filepath.FromSlash(root))
	if _, err := os.Stat(externalRoot); err == nil {
		err := filepath.WalkDir(externalRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			relPath, relErr := filepath.Rel(p.externalDir, path)
			if relErr != nil {
				return relErr
			}
			relPath = filepath.ToSlash(relPath)
			if relPath == "." {
				relPath = ""
			}
			visited[relPath] = true
			return fn(relPath, d, nil)
		})
		if err != nil {
			return err
		}
	}

	return p.embedded.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if visited[path] {
			if d.IsDir() {
				return nil
			}
			slog.Debug("skipping embedded file (external takes precedence)", "path", path)
			return nil
		}
		return fn(path, d, nil)
	})
}

// Source returns "external" or "embedded" depending on where the file comes from.
func (p *LayeredProvider) Source(path string) string {
	if p.externalFiles[path] {
		return SourceExternal
	}
	return SourceEmbedded
}

// ExternalDir returns the overlaid directory.
func (p *LayeredProvider) ExternalDir() string {
	return p.externalDir
}

// NewProvider returns the embedded pack, overlaid with externalDir when it
// is set.
func NewProvider(externalDir string) (Provider, error) {
	if strings.TrimSpace(externalDir) == "" {
		return Embedded(), nil
	}
	return NewLayeredProvider(Embedded(), LayeredConfig{ExternalDir: externalDir})
}
