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
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

var (
	kubeClientOnce   sync.Once
	cachedKubeClient kubernetes.Interface
	cachedKubeConfig *rest.Config
	kubeClientErr    error
)

// kubeClient returns a process-wide Kubernetes client, creating it on first
// call. Configuration is discovered from KUBECONFIG, ~/.kube/config or the
// in-cluster service account, in that order.
func kubeClient() (kubernetes.Interface, *rest.Config, error) {
	kubeClientOnce.Do(func() {
		cachedKubeClient, cachedKubeConfig, kubeClientErr = buildKubeClient("")
	})
	return cachedKubeClient, cachedKubeConfig, kubeClientErr
}

// buildKubeClient creates a client from kubeconfig, or from the discovered
// configuration when kubeconfig is empty.
func buildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	var config *rest.Config
	var err error

	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")

		if kubeconfig == "" {
			kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
			if _, err = os.Stat(kubeconfig); os.IsNotExist(err) {
				kubeconfig = ""
			}
		}
	}

	// Use InClusterConfig directly when no kubeconfig is available
	// This avoids the warning: "Neither --kubeconfig nor --master was specified"
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
		}
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return client, config, nil
}

func authMethod(config *rest.Config) string {
	switch {
	case config == nil:
		return "injected"
	case config.AuthProvider != nil:
		return config.AuthProvider.Name
	case config.ExecProvider != nil:
		return "exec"
	case config.BearerToken != "":
		return "bearer-token"
	case config.CertData != nil:
		return "cert"
	default:
		return "default"
	}
}
