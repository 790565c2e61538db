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
	"io"
	"strconv"
	"strings"

	"github.com/craftgraph/craftgraph/pkg/header"
	"github.com/craftgraph/craftgraph/pkg/stack"
)

// RecipeReport is the serializable form of a recipe map. Its text form is
// the registry dump.
type RecipeReport struct {
	header.Header `yaml:",inline"`

	Recipes []Entry `json:"recipes" yaml:"recipes"`
}

// NewRecipeReport captures m in dump order.
func NewRecipeReport(m *Map, version string) *RecipeReport {
	r := &RecipeReport{Recipes: m.Sorted()}
	r.Init(header.KindRecipeReport, version)
	return r
}

// WriteTo writes the report in dump format.
func (r *RecipeReport) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, e := range r.Recipes {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// StackReport lists discovered stacks in discovery order.
type StackReport struct {
	header.Header `yaml:",inline"`

	Stacks []stack.Stack `json:"stacks" yaml:"stacks"`
}

// NewStackReport captures s.
func NewStackReport(s Stacks, version string) *StackReport {
	r := &StackReport{Stacks: s.Slice()}
	r.Init(header.KindStackReport, version)
	return r
}

// WriteTo writes one stack per line.
func (r *StackReport) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, s := range r.Stacks {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// StatsReport wraps registry build statistics.
type StatsReport struct {
	header.Header `yaml:",inline"`

	Stats Stats `json:"stats" yaml:"stats"`
}

// NewStatsReport captures st.
func NewStatsReport(st Stats, version string) *StatsReport {
	r := &StatsReport{Stats: st}
	r.Init(header.KindStatsReport, version)
	return r
}

// WriteTo writes a short human readable summary.
func (r *StatsReport) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	st := r.Stats
	sb.WriteString("providers:\n")
	for _, p := range st.Providers {
		sb.WriteString("  " + p.Name + ": " + strconv.Itoa(p.Entries) + "\n")
	}
	sb.WriteString("pairs: " + strconv.Itoa(st.Pairs) + "\n")
	sb.WriteString("outputs: " + strconv.Itoa(st.Outputs) + "\n")
	sb.WriteString("catalog items: " + strconv.Itoa(st.CatalogItems) + "\n")
	sb.WriteString("stacks: " + strconv.Itoa(st.Stacks) + "\n")
	sb.WriteString("variant range: " + strconv.Itoa(st.VariantRange) + "\n")
	sb.WriteString("build: " + strconv.FormatInt(st.BuildMillis, 10) + "ms\n")
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
