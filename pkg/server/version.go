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
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/craftgraph/craftgraph/pkg/serializer"
)

const (
	// DefaultAPIVersion is served when the client does not ask for one.
	DefaultAPIVersion = "v1"

	vendorMediaPrefix = "application/vnd.craftgraph."
)

var supportedAPIVersions = []string{DefaultAPIVersion}

// mediaPreference is what a client asked for through a vendor media type.
type mediaPreference struct {
	version     string
	format      serializer.Format
	unsupported string
}

// negotiateMedia reads the first vendor media type in Accept, such as
// application/vnd.craftgraph.v1+yaml. The version selects the API and the
// suffix, when it names a known format, the response format. Other media
// types are ignored. A vendor type asking for a version this server does not
// serve is reported in unsupported.
func negotiateMedia(r *http.Request) mediaPreference {
	pref := mediaPreference{version: DefaultAPIVersion}

	for part := range strings.SplitSeq(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || !strings.HasPrefix(mediaType, vendorMediaPrefix) {
			continue
		}

		version, suffix, _ := strings.Cut(strings.TrimPrefix(mediaType, vendorMediaPrefix), "+")
		if !isValidAPIVersion(version) {
			pref.unsupported = version
			return pref
		}
		pref.version = version
		if f := serializer.Format(suffix); suffix != "" && !f.IsUnknown() {
			pref.format = f
		}
		return pref
	}

	return pref
}

func isValidAPIVersion(version string) bool {
	return slices.Contains(supportedAPIVersions, version)
}

// SetAPIVersionHeader sets the API version header in the response.
func SetAPIVersionHeader(w http.ResponseWriter, version string) {
	w.Header().Set("X-API-Version", version)
}
