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
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNew(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"/test": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithHandler(routes))
	if s == nil {
		t.Fatal("expected server instance, got nil")
		return
	}

	if s.config == nil {
		t.Error("expected config to be initialized")
	}

	if s.httpServer == nil {
		t.Error("expected httpServer to be initialized")
	}

	if s.rateLimiter == nil {
		t.Error("expected rateLimiter to be initialized")
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", w.Header().Get("Content-Type"))
	}
}

func TestReadyEndpoint(t *testing.T) {
	s := New()

	tests := []struct {
		name           string
		serving        bool
		expectedStatus int
		reason         string
	}{
		{name: "serving", serving: true, expectedStatus: http.StatusOK},
		{name: "not serving", serving: false, expectedStatus: http.StatusServiceUnavailable, reason: reasonNotServing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.setServing(tt.serving)

			w := httptest.NewRecorder()
			s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			require.Equal(t, tt.expectedStatus, w.Code)
			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.reason, resp.Reason)
			assert.InDelta(t, boolToFloat(tt.serving), testutil.ToFloat64(serverReady), 0)
		})
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func TestRateLimiting(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"/test": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	// Create a custom config with very restrictive rate limiting
	cfg := NewConfig()
	cfg.RateLimit = 1      // 1 req/sec
	cfg.RateLimitBurst = 1 // burst of 1
	cfg.Handlers = routes

	s := New(WithConfig(cfg))

	handler := s.withMiddleware("/test", s.config.Handlers["/test"])

	// First request should succeed
	req1 := httptest.NewRequest(http.MethodGet, "/test", nil)
	w1 := httptest.NewRecorder()
	handler(w1, req1)

	if w1.Code != http.StatusOK {
		t.Errorf("expected first request to succeed with status 200, got %d", w1.Code)
	}

	// Second request should be rate limited (bucket is empty)
	req2 := httptest.NewRequest(http.MethodGet, "/test", nil)
	w2 := httptest.NewRecorder()
	handler(w2, req2)

	if w2.Code != http.StatusTooManyRequests {
		t.Errorf("expected rate limit error with status 429, got %d", w2.Code)
	}

	if w2.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header to be set")
	}
}

func TestPanicRecovery(t *testing.T) {
	panicHandler := func(_ http.ResponseWriter, _ *http.Request) {
		panic("test panic")
	}

	routes := map[string]http.HandlerFunc{
		"/panic": panicHandler,
	}

	s := New(WithHandler(routes))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()

	handler := s.panicRecoveryMiddleware(panicHandler)

	// Should not panic, should return 500
	handler(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d after panic recovery, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestGracefulShutdown(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"/test": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	cfg := NewConfig()
	cfg.Port = 18080 // Use a different port to avoid conflicts
	cfg.ShutdownTimeout = 100 * time.Millisecond
	cfg.Handlers = routes

	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.TODO())
	defer cancel()

	// Start server in background
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start(ctx)
	}()

	// Wait for server to start
	time.Sleep(50 * time.Millisecond)

	// Cancel context to trigger shutdown
	cancel()

	// Wait for shutdown to complete
	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("expected clean shutdown, got error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("shutdown timed out")
	}
}

func TestDefaultRootHandler(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"/api/v1/test": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithHandler(routes))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	// Get the root handler
	handler := s.config.Handlers["/"]
	if handler == nil {
		t.Fatal("expected default root handler to be created")
	}

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// Check that response contains routes
	body := w.Body.String()
	if body == "" {
		t.Error("expected non-empty response body")
	}

	// Should contain the test route
	if !strings.Contains(body, "/api/v1/test") {
		t.Error("expected response to contain /api/v1/test route")
	}
}

func TestDefaultRootHandlerMethodNotAllowed(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()

	handler := s.config.Handlers["/"]
	handler(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestCustomRootHandlerNotOverridden(t *testing.T) {
	customCalled := false
	routes := map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, _ *http.Request) {
			customCalled = true
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithHandler(routes))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler := s.config.Handlers["/"]
	handler(w, req)

	if !customCalled {
		t.Error("expected custom root handler to be called, not default")
	}
}

func TestWithName(t *testing.T) {
	customName := "custom-api-server"
	s := New(WithName(customName))

	if s.config.Name != customName {
		t.Errorf("expected server name %s, got %s", customName, s.config.Name)
	}
}

func TestWithHandler(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"/api/test": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithHandler(routes))

	if len(s.config.Handlers) < 1 {
		t.Error("expected handlers to be set")
	}

	if _, exists := s.config.Handlers["/api/test"]; !exists {
		t.Error("expected /api/test handler to exist")
	}

	// Should also have root handler added by default
	if _, exists := s.config.Handlers["/"]; !exists {
		t.Error("expected default root handler to be created")
	}
}

func TestWithConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Name = "test-server"
	cfg.Port = 9090
	cfg.RateLimit = 500

	s := New(WithConfig(cfg))

	if s.config.Name != "test-server" {
		t.Errorf("expected name test-server, got %s", s.config.Name)
	}

	if s.config.Port != 9090 {
		t.Errorf("expected port 9090, got %d", s.config.Port)
	}

	if s.config.RateLimit != 500 {
		t.Errorf("expected rate limit 500, got %v", s.config.RateLimit)
	}
}

func TestDefaultServerName(t *testing.T) {
	s := New()

	if s.config.Name != "server" {
		t.Errorf("expected default name 'server', got %s", s.config.Name)
	}
}

func TestReadinessSource(t *testing.T) {
	rd := Readiness{LastError: "vanilla: bad pattern"}
	s := New(WithReadiness(func() Readiness { return rd }))
	s.setServing(true)

	ready := func() (int, ReadyResponse) {
		w := httptest.NewRecorder()
		s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		var resp ReadyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w.Code, resp
	}

	t.Run("first build failed", func(t *testing.T) {
		code, resp := ready()
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "vanilla: bad pattern", resp.Reason)
	})

	t.Run("never built", func(t *testing.T) {
		rd = Readiness{}
		code, resp := ready()
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "registry is not built", resp.Reason)
	})

	t.Run("serving older generation after failed reload", func(t *testing.T) {
		rd = Readiness{Ready: true, Generation: 3, LastError: "imc: malformed message"}
		code, resp := ready()
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, uint64(3), resp.Generation)
		assert.Empty(t, resp.Reason)
		assert.Equal(t, "imc: malformed message", resp.LastError)
	})

	t.Run("listener closed", func(t *testing.T) {
		s.setServing(false)
		code, resp := ready()
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, reasonNotServing, resp.Reason)
		assert.Equal(t, uint64(3), resp.Generation)
	})
}

func TestHealthAndReadyRejectNonGet(t *testing.T) {
	s := New()
	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
		assert.Equal(t, http.MethodGet, w.Header().Get("Allow"), path)
	}
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	const route = "/v1/recipes/"
	s := New(WithHandler(map[string]http.HandlerFunc{
		route: func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "Recipe Output: minecraft:a, Recipe Input: [minecraft:b]\n")
		},
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(route, http.MethodGet, "200"))
	for _, target := range []string{"/v1/recipes/a", "/v1/recipes/b", "/v1/recipes/c"} {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.InDelta(t, before+3, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(route, http.MethodGet, "200")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(httpResponseBytes.WithLabelValues(route).(prometheus.Histogram)))
}

func TestUnsupportedAPIVersionRejected(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{
		"/v1/stats": func(w http.ResponseWriter, _ *http.Request) {
			t.Fatal("handler should not run for an unsupported version")
		},
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set("Accept", "application/vnd.craftgraph.v9+json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotAcceptable, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, w.Header().Get("X-Request-Id"))
}

func TestDefaultRootHandlerUnknownPath(t *testing.T) {
	s := New()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestRoutesListing(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{
		"/v1/recipes": func(http.ResponseWriter, *http.Request) {},
		"/v1/stacks":  func(http.ResponseWriter, *http.Request) {},
	}))

	assert.Equal(t, []string{"/health", "/metrics", "/ready", "/v1/recipes", "/v1/stacks"}, s.routes())
}

func TestMetricsEndpoint(t *testing.T) {
	s := New()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestServeEndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := New(WithName("e2e"), WithVersion("v0.0.1"), WithHandler(map[string]http.HandlerFunc{
		"/v1/ping": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "pong")
		},
	}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.serve(ctx, ln)
	}()

	client := &http.Client{Timeout: time.Second}
	defer client.CloseIdleConnections()

	resp, err := client.Get("http://" + ln.Addr().String() + "/v1/ping")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, "pong", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.Equal(t, DefaultAPIVersion, resp.Header.Get("X-API-Version"))

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunStopsBackgroundTasks(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = 18081
	cfg.ShutdownTimeout = 100 * time.Millisecond
	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	taskStopped := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(tctx context.Context) error {
			<-tctx.Done()
			close(taskStopped)
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	<-taskStopped
}
