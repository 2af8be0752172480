package kubernetes

import (
	"context"
	"fmt"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/glueops/pull-request-bot/pkg/logging"
)

// GetRestConfig returns a REST config for the kubeconfig file at path. With an
// empty path, the in-cluster config is used if available and the default
// kubeconfig loading rules otherwise.
func GetRestConfig(ctx context.Context, path string) (*rest.Config, error) {
	logger := logging.LoggerFromContext(ctx)

	if path != "" {
		logger.Debug("loading REST config from path", "path", path)
		cfg, err := clientcmd.BuildConfigFromFlags("", path)
		if err != nil {
			return nil, fmt.Errorf("error loading REST config from %q: %w", path, err)
		}
		return cfg, nil
	}

	logger.Debug("loading in-cluster REST config")
	cfg, err := rest.InClusterConfig()
	if err == nil {
		return cfg, nil
	}
	logger.Debug(
		"in-cluster REST config unavailable; using default loading rules",
		"reason", err.Error(),
	)
	cfg, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		clientcmd.NewDefaultClientConfigLoadingRules(),
		&clientcmd.ConfigOverrides{},
	).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading REST config: %w", err)
	}
	return cfg, nil
}
