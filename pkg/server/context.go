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


package server

import (
	"context"

	"github.com/craftgraph/craftgraph/pkg/serializer"
)

type contextKey string

const (
	contextKeyRequestID  contextKey = "requestID"
	contextKeyAPIVersion contextKey = "apiVersion"
	contextKeyFormat     contextKey = "format"
)

// RequestID returns the request id assigned by the middleware chain, or an
// empty string outside of it.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// APIVersion returns the negotiated API version.
func APIVersion(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyAPIVersion).(string); ok && v != "" {
		return v
	}
	return DefaultAPIVersion
}

// PreferredFormat returns the response format a client named with a vendor
// media type suffix (application/vnd.craftgraph.v1+yaml), or "" when it
// named none.
func PreferredFormat(ctx context.Context) serializer.Format {
	f, _ := ctx.Value(contextKeyFormat).(serializer.Format)
	return f
}
