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

package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/craftgraph/craftgraph/pkg/data"
	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/header"
	"github.com/craftgraph/craftgraph/pkg/stack"
	"github.com/craftgraph/craftgraph/pkg/version"
)

// DefaultVariantRange is the number of variants a variant-bearing item
// expands to.
const DefaultVariantRange = 16

const itemsDir = "items"

// Item is an entry of the global item catalog.
type Item struct {
	// ID is the namespaced item id.
	ID string `json:"id" yaml:"id"`

	// Name is an optional human-readable name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// HasVariants reports whether the item distinguishes variants.
	HasVariants bool `json:"hasVariants,omitempty" yaml:"hasVariants,omitempty"`
}

// DisplayName returns Name, or the title-cased id path when Name is empty.
func (i *Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	path := stack.Of(i.ID).Path()
	return cases.Title(language.English).String(strings.ReplaceAll(path, "_", " "))
}

// Stacks returns the stacks the item contributes to discovery: one per
// variant in [0, variantRange) for variant-bearing items, otherwise a single
// stack without a variant. Quantity is always 1.
func (i *Item) Stacks(variantRange int) []stack.Stack {
	id := stack.CanonicalItem(i.ID)
	if !i.HasVariants {
		return []stack.Stack{stack.Of(id)}
	}
	out := make([]stack.Stack, 0, variantRange)
	for v := 0; v < variantRange; v++ {
		out = append(out, stack.WithVariant(id, 1, v))
	}
	return out
}

// Catalog is a source of catalog items. Nil entries are placeholders and
// must be skipped by consumers.
type Catalog interface {
	Items(ctx context.Context) ([]*Item, error)
}

// Static is a fixed in-memory catalog.
type Static []*Item

// Items returns a copy of the catalog slice.
func (s Static) Items(context.Context) ([]*Item, error) {
	out := make([]*Item, len(s))
	copy(out, s)
	return out, nil
}

// Func adapts a function to the Catalog interface.
type Func func(ctx context.Context) ([]*Item, error)

// Items calls f.
func (f Func) Items(ctx context.Context) ([]*Item, error) {
	return f(ctx)
}

// Document is the ItemCatalog pack document.
type Document struct {
	header.Header `yaml:",inline"`

	Items []*Item `json:"items" yaml:"items"`
}

// NewDocument returns an ItemCatalog document of items with canonical ids
// and display names filled in. Nil placeholders are dropped. The result can
// be used as a pack file.
func NewDocument(items []*Item, version string) *Document {
	d := &Document{Items: make([]*Item, 0, len(items))}
	d.Init(header.KindItemCatalog, version)
	for _, it := range items {
		if it == nil {
			continue
		}
		d.Items = append(d.Items, &Item{
			ID:          stack.CanonicalItem(it.ID),
			Name:        it.DisplayName(),
			HasVariants: it.HasVariants,
		})
	}
	return d
}

// WriteTo writes one tab-separated line per item: id, display name and
// "variants" for variant-bearing items.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, it := range d.Items {
		if it == nil {
			continue
		}
		sb.WriteString(it.ID)
		sb.WriteByte('\t')
		sb.WriteString(it.DisplayName())
		if it.HasVariants {
			sb.WriteString("\tvariants")
		}
		sb.WriteByte('\n')
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// DataCatalog loads the catalog from the items/ directory of a data pack.
// Files are read in lexical order; an id seen again replaces the earlier
// item in place.
type DataCatalog struct {
	provider data.Provider
	game     version.Version
}

// New returns a catalog backed by provider. Documents whose minGameVersion
// is newer than game are skipped.
func New(provider data.Provider, game version.Version) *DataCatalog {
	return &DataCatalog{provider: provider, game: game}
}

// Items loads and merges every ItemCatalog document.
func (c *DataCatalog) Items(ctx context.Context) ([]*Item, error) {
	files, err := data.Files(c.provider, itemsDir)
	if err != nil {
		return nil, err
	}

	var items []*Item
	index := make(map[string]int)

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, cgerrors.Wrap(cgerrors.ErrCodeTimeout, "catalog load canceled", err)
		}

		var doc Document
		ok, err := data.Decode(c.provider, name, header.KindItemCatalog, c.game, &doc)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		for pos, item := range doc.Items {
			if item == nil {
				items = append(items, nil)
				continue
			}
			if strings.TrimSpace(item.ID) == "" {
				return nil, cgerrors.NewWithContext(cgerrors.ErrCodeMalformed,
					"catalog item has empty id", map[string]any{"path": name, "index": pos})
			}
			item.ID = stack.CanonicalItem(item.ID)
			if at, seen := index[item.ID]; seen {
				slog.Debug("catalog item overridden", "id", item.ID, "path", name)
				items[at] = item
				continue
			}
			index[item.ID] = len(items)
			items = append(items, item)
		}
	}

	slog.Debug("catalog loaded", "files", len(files), "items", len(index))
	return items, nil
}

// String describes the catalog source.
func (c *DataCatalog) String() string {
	return fmt.Sprintf("catalog(%s)", itemsDir)
}
