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

// Package serializer renders craftgraph reports and writes them to stdout,
// files, HTTP responses or Kubernetes ConfigMaps.
//
// Supported formats:
//   - json: indented JSON
//   - yaml: YAML with two-space indentation
//   - table: flattened FIELD/VALUE table
//   - text: the value's own text form, such as the recipe dump
//
// Usage:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	if c, ok := w.(serializer.Closer); ok {
//		defer c.Close()
//	}
//	if err := w.Serialize(ctx, report); err != nil {
//		return err
//	}
//
// A path of the form cm://namespace/name writes the report into a ConfigMap
// using server-side apply.
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
//
// FromFile reads JSON or YAML files, choosing the format by extension.
package serializer
