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
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	cgerrors "github.com/craftgraph/craftgraph/pkg/errors"
	"github.com/craftgraph/craftgraph/pkg/serializer"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	for path, handler := range s.config.Handlers {
		if path == "/" {
			mux.HandleFunc(path, handler)
			continue
		}
		mux.HandleFunc(path, s.withMiddleware(path, handler))
	}

	return mux
}

// routes lists the registered paths in lexical order.
func (s *Server) routes() []string {
	routes := []string{"/health", "/metrics", "/ready"}
	for path := range s.config.Handlers {
		if path != "/" {
			routes = append(routes, path)
		}
	}
	slices.Sort(routes)
	return routes
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	if r.Method != http.MethodGet {
		WriteError(w, r, http.StatusMethodNotAllowed, cgerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, cgerrors.ErrCodeNotFound,
			"No such route", false, map[string]any{"path": r.URL.Path})
		return
	}

	rd := s.readiness()
	resp := struct {
		Name       string   `json:"name"`
		Version    string   `json:"version"`
		Ready      bool     `json:"ready"`
		Generation uint64   `json:"generation,omitempty"`
		Timestamp  string   `json:"timestamp"`
		Routes     []string `json:"routes"`
	}{
		Name:       s.config.Name,
		Version:    s.config.Version,
		Ready:      rd.Ready,
		Generation: rd.Generation,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Routes:     s.routes(),
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}
