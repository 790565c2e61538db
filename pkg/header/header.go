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

package header

import (
	"fmt"
	"time"
)

// APIVersion is the current schema version of craftgraph documents.
const APIVersion = "craftgraph/v1"

// Well-known metadata keys.
const (
	MetadataTimestamp      = "timestamp"
	MetadataVersion        = "version"
	MetadataMinGameVersion = "minGameVersion"
)

// Kind represents the type of a craftgraph document.
type Kind string

// Data-pack kinds are read from pack files; report kinds are produced by the
// CLI and the API server.
const (
	KindItemCatalog     Kind = "ItemCatalog"
	KindPotionRecipes   Kind = "PotionRecipes"
	KindCraftingRecipes Kind = "CraftingRecipes"
	KindFluidContainers Kind = "FluidContainers"
	KindIMCMessages     Kind = "IMCMessages"

	KindRecipeReport Kind = "RecipeReport"
	KindStackReport  Kind = "StackReport"
	KindStatsReport  Kind = "StatsReport"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindItemCatalog, KindPotionRecipes, KindCraftingRecipes, KindFluidContainers, KindIMCMessages,
		KindRecipeReport, KindStackReport, KindStatsReport:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field of the Header.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion returns an Option that sets the APIVersion field of the Header.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// New creates a new Header instance with the provided functional options.
// APIVersion defaults to the current schema version.
func New(opts ...Option) *Header {
	h := &Header{
		APIVersion: APIVersion,
		Metadata:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header contains metadata and versioning information for craftgraph
// documents. It follows Kubernetes-style conventions with Kind, APIVersion
// and Metadata fields.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains free-form key-value pairs.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets kind and schema version and stamps the generation time and tool
// version.
func (h *Header) Init(kind Kind, version string) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = make(map[string]string)
	h.Metadata[MetadataTimestamp] = time.Now().UTC().Format(time.RFC3339)
	if version != "" {
		h.Metadata[MetadataVersion] = version
	}
}

// GetKind returns the Kind field of the Header.
func (h *Header) GetKind() Kind {
	return h.Kind
}

// GetMetadata returns the Metadata map of the Header.
func (h *Header) GetMetadata() map[string]string {
	return h.Metadata
}

// Expect checks that the header declares kind and a supported schema version.
// An empty APIVersion is accepted as the current version.
func (h *Header) Expect(kind Kind) error {
	if h.Kind != kind {
		return fmt.Errorf("unexpected kind %q, want %q", h.Kind, kind)
	}
	if h.APIVersion != "" && h.APIVersion != APIVersion {
		return fmt.Errorf("unsupported apiVersion %q, want %q", h.APIVersion, APIVersion)
	}
	return nil
}
