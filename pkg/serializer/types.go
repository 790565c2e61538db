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

package serializer

import "context"

// ConfigMapURIScheme prefixes output destinations that are Kubernetes
// ConfigMaps: cm://namespace/name.
const ConfigMapURIScheme = "cm://"

// Serializer writes a report to some destination.
//
// The context is used for cancellation and timeouts by implementations that
// perform network I/O, such as ConfigMap writes.
type Serializer interface {
	Serialize(ctx context.Context, report any) error
}

// Closer is an optional interface for Serializers that hold resources
// (e.g. file handles).
type Closer interface {
	Close() error
}
