package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/metrics/server"

	argocdapi "github.com/glueops/pull-request-bot/api/argocd/v1alpha1"
	"github.com/glueops/pull-request-bot/internal/argocd"
	"github.com/glueops/pull-request-bot/internal/captain"
	"github.com/glueops/pull-request-bot/internal/config"
	"github.com/glueops/pull-request-bot/internal/credentials"
	"github.com/glueops/pull-request-bot/internal/gitprovider"
	"github.com/glueops/pull-request-bot/internal/kubernetes"
	"github.com/glueops/pull-request-bot/internal/ledger"
	"github.com/glueops/pull-request-bot/internal/links"
	"github.com/glueops/pull-request-bot/internal/reconciler"
	versionpkg "github.com/glueops/pull-request-bot/internal/version"
	"github.com/glueops/pull-request-bot/pkg/logging"

	_ "github.com/glueops/pull-request-bot/internal/gitprovider/gitea"
	_ "github.com/glueops/pull-request-bot/internal/gitprovider/github"
	_ "github.com/glueops/pull-request-bot/internal/gitprovider/gitlab"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "pull-request-bot",
		Short:             "Comment on pull requests once their preview environments are deployed",
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func Execute(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}

func run(ctx context.Context, cfg config.Config) error {
	logger := logging.LoggerFromContext(ctx)
	version := versionpkg.GetVersion()
	logger.Info(
		"Starting pull request bot",
		"version", version.Version,
		"commit", version.GitCommit,
		"namespace", cfg.Namespace,
	)

	mgr, err := newManager(ctx, cfg)
	if err != nil {
		return err
	}
	// The API reader bypasses the manager's cache, so it is usable before the
	// manager starts and never starts informers for Secrets or ConfigMaps.
	reader := mgr.GetAPIReader()

	domain, err := captain.GetDomain(
		ctx,
		reader,
		cfg.Namespace,
		cfg.CaptainDomainConfigMapName,
	)
	if err != nil {
		if cfg.RequireCaptainDomain {
			return fmt.Errorf("error resolving captain domain: %w", err)
		}
		logger.Error(
			err, "error resolving captain domain; dashboard links will be omitted",
			"configMap", cfg.CaptainDomainConfigMapName,
		)
	} else {
		logger.Info("resolved captain domain", "domain", domain)
	}

	resolver := credentials.NewResolver(
		reader,
		credentials.ResolverOptions{
			Namespace:         cfg.Namespace,
			DefaultSecretName: cfg.GitHubAppSecretName,
			TokenCacheTTL:     cfg.GitHubTokenCacheTTL,
			HTTPClient: gitprovider.NewHTTPClient(
				&gitprovider.Options{Timeout: cfg.DeliveryTimeout},
			),
		},
	)

	r := reconciler.New(
		argocd.NewSource(reader),
		ledger.NewMemory(),
		resolver,
		links.NewBuilder(domain),
		reconciler.Options{
			PollInterval:        cfg.PollInterval,
			MaxSourceBackoff:    cfg.MaxSourceBackoff,
			DeliveryTimeout:     cfg.DeliveryTimeout,
			RejectionCooldown:   cfg.RejectionCooldown,
			CommentMarkerLookup: cfg.CommentMarkerLookup,
		},
	)
	if err = mgr.Add(manager.RunnableFunc(r.Run)); err != nil {
		return fmt.Errorf("error adding reconciler to manager: %w", err)
	}

	if err = mgr.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("error running manager: %w", err)
	}
	logger.Info("pull request bot stopped")
	return nil
}

func newManager(ctx context.Context, cfg config.Config) (manager.Manager, error) {
	restCfg, err := kubernetes.GetRestConfig(ctx, cfg.KubeConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading REST config: %w", err)
	}
	restCfg.ContentType = runtime.ContentTypeJSON

	scheme := runtime.NewScheme()
	if err = corev1.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("error adding Kubernetes core API to scheme: %w", err)
	}
	if err = argocdapi.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("error adding Argo CD API to scheme: %w", err)
	}

	mgr, err := ctrl.NewManager(
		restCfg,
		ctrl.Options{
			Scheme: scheme,
			Metrics: server.Options{
				BindAddress: cfg.MetricsBindAddress,
			},
			HealthProbeBindAddress:  cfg.HealthProbeBindAddress,
			LeaderElection:          cfg.LeaderElect,
			LeaderElectionID:        cfg.LeaderElectionID,
			LeaderElectionNamespace: cfg.Namespace,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing controller manager: %w", err)
	}
	if err = mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return nil, fmt.Errorf("error adding health check: %w", err)
	}
	if err = mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return nil, fmt.Errorf("error adding readiness check: %w", err)
	}
	return mgr, nil
}
