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
	"net/http"
	"time"

	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/serializer"
)

const reasonNotServing = "server is not accepting traffic"

// Readiness is reported by the content source behind the API, such as the
// recipe handler. Generation counts the content versions served so far.
// LastError holds the most recent failed build or reload; it can be set
// while Ready is true when an older generation is still being served.
type Readiness struct {
	Ready      bool
	Generation uint64
	LastError  string
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string    `json:"status" yaml:"status"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Version   string    `json:"version,omitempty" yaml:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty" yaml:"uptime,omitempty"`
}

// ReadyResponse is the body of /ready.
type ReadyResponse struct {
	Status     string    `json:"status" yaml:"status"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Generation uint64    `json:"generation,omitempty" yaml:"generation,omitempty"`
	Reason     string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	LastError  string    `json:"lastError,omitempty" yaml:"lastError,omitempty"`
}

// handleHealth reports liveness. It does not consult the readiness source.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.config.Version,
		Uptime:    time.Since(s.started).Truncate(time.Second).String(),
	})
}

// handleReady reports 200 while the server accepts traffic and the
// readiness source has content to serve, and 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	rd := s.readiness()
	resp := ReadyResponse{
		Status:     "ready",
		Timestamp:  time.Now().UTC(),
		Generation: rd.Generation,
		LastError:  rd.LastError,
	}
	if !rd.Ready {
		resp.Status = "not_ready"
		resp.Reason = rd.LastError
		if resp.Reason == "" {
			resp.Reason = "registry is not built"
		}
		if !s.isServing() {
			resp.Reason = reasonNotServing
		}
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	WriteError(w, r, http.StatusMethodNotAllowed, cgerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}
