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

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/craftgraph/craftgraph/pkg/defaults"
	"github.com/craftgraph/craftgraph/pkg/header"
)

const fieldManager = "craftctl"

// ConfigMapWriter writes a serialized report to a Kubernetes ConfigMap.
// The ConfigMap is created if it doesn't exist, or updated if it does.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	client    kubernetes.Interface
}

// NewConfigMapWriter creates a new ConfigMapWriter that writes to the specified
// namespace and ConfigMap name in the given format.
func NewConfigMapWriter(namespace, name string, format Format) *ConfigMapWriter {
	return &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    knownOrJSON(format),
	}
}

// WithClient sets the Kubernetes client instead of discovering one.
func (w *ConfigMapWriter) WithClient(client kubernetes.Interface) *ConfigMapWriter {
	w.client = client
	return w
}

// Serialize writes report to the ConfigMap. The ConfigMap will have:
//   - data.report.{json|yaml|txt}: the serialized report
//   - data.format: the format used
//   - data.timestamp: the report timestamp, or now
func (w *ConfigMapWriter) Serialize(ctx context.Context, report any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	client := w.client
	var config *rest.Config
	if client == nil {
		var err error
		client, config, err = kubeClient()
		if err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
	}

	slog.Info("configmap operation",
		"namespace", w.namespace,
		"name", w.name,
		"auth_method", authMethod(config),
		"format", w.format)

	content, err := Marshal(w.format, report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	kind, reportVersion, timestamp := "report", "unknown", ""
	if h, ok := report.(interface {
		GetKind() header.Kind
		GetMetadata() map[string]string
	}); ok {
		if k := h.GetKind(); k != "" {
			kind = k.String()
		}
		metadata := h.GetMetadata()
		if v, exists := metadata[header.MetadataVersion]; exists {
			reportVersion = v
		}
		timestamp = metadata[header.MetadataTimestamp]
	}
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	configMap := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "craftgraph",
			"app.kubernetes.io/component": strings.ToLower(kind),
			"app.kubernetes.io/version":   reportVersion,
		}).
		WithData(map[string]string{
			"report." + w.format.Extension(): string(content),
			"format":                         string(w.format),
			"timestamp":                      timestamp,
		})

	// Server-Side Apply creates or updates in one call
	_, err = client.CoreV1().ConfigMaps(w.namespace).Apply(
		writeCtx,
		configMap,
		metav1.ApplyOptions{
			FieldManager: fieldManager,
			Force:        true,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap: %w", err)
	}

	slog.Info("applied ConfigMap", "namespace", w.namespace, "name", w.name)
	return nil
}

// Close is a no-op; it exists to satisfy the Closer interface.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// parseConfigMapURI parses a ConfigMap URI in the format cm://namespace/name
// and returns the namespace and name components.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	path := strings.TrimPrefix(uri, ConfigMapURIScheme)

	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])

	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}

	return namespace, name, nil
}
