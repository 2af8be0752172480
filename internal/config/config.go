package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration. It is read from the environment once
// at startup and handed to every component that needs it.
type Config struct {
	// Namespace is where the base-domain ConfigMap and the credential Secret
	// live.
	Namespace string `envconfig:"NAMESPACE" default:"glueops-core"`
	// GitHubAppSecretName is the Secret holding GitHub App (or token)
	// credentials for commenting on pull requests.
	GitHubAppSecretName string `envconfig:"GITHUB_APP_SECRET_NAME" default:"tenant-repo-creds"`
	// CaptainDomainConfigMapName is the ConfigMap whose captain_domain key holds
	// the cluster's base domain.
	CaptainDomainConfigMapName string `envconfig:"CAPTAIN_DOMAIN_K8S_CONFIGMAP_NAME" default:"glueops-captain-domain"`
	// RequireCaptainDomain makes failure to resolve the base domain fatal at
	// startup instead of continuing without dashboard links.
	RequireCaptainDomain bool `envconfig:"REQUIRE_CAPTAIN_DOMAIN" default:"false"`

	// PollInterval is the pause between reconciliation cycles.
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"10s"`
	// MaxSourceBackoff caps the pause after consecutive failures to list
	// Applications or ApplicationSets.
	MaxSourceBackoff time.Duration `envconfig:"MAX_SOURCE_BACKOFF" default:"5m"`

	// DeliveryTimeout bounds every request made to a Git hosting provider.
	DeliveryTimeout time.Duration `envconfig:"DELIVERY_TIMEOUT" default:"30s"`
	// RejectionCooldown is how long a commit is left alone after the Git
	// hosting provider rejected its comment with a 4xx.
	RejectionCooldown time.Duration `envconfig:"REJECTION_COOLDOWN" default:"10m"`
	// CommentMarkerLookup enables searching a pull request for a comment this
	// bot already posted for the same commit before posting a new one.
	CommentMarkerLookup bool `envconfig:"COMMENT_MARKER_LOOKUP" default:"true"`
	// GitHubTokenCacheTTL is how long minted GitHub App installation tokens are
	// reused. Zero mints a fresh token for every delivery.
	GitHubTokenCacheTTL time.Duration `envconfig:"GITHUB_TOKEN_CACHE_TTL" default:"0s"`

	KubeConfig             string `envconfig:"KUBECONFIG"`
	MetricsBindAddress     string `envconfig:"METRICS_BIND_ADDRESS" default:":8080"`
	HealthProbeBindAddress string `envconfig:"HEALTH_PROBE_BIND_ADDRESS" default:":8081"`
	LeaderElect            bool   `envconfig:"LEADER_ELECT" default:"false"`
	LeaderElectionID       string `envconfig:"LEADER_ELECTION_ID" default:"pull-request-bot"`
}

// FromEnv returns a Config populated from environment variables.
func FromEnv() (Config, error) {
	cfg := Config{}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("error reading configuration from environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that envconfig cannot check on its own.
func (c Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("NAMESPACE must not be empty")
	}
	if c.GitHubAppSecretName == "" {
		return fmt.Errorf("GITHUB_APP_SECRET_NAME must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive; got %s", c.PollInterval)
	}
	if c.MaxSourceBackoff < c.PollInterval {
		return fmt.Errorf(
			"MAX_SOURCE_BACKOFF (%s) must not be shorter than POLL_INTERVAL (%s)",
			c.MaxSourceBackoff, c.PollInterval,
		)
	}
	if c.DeliveryTimeout <= 0 {
		return fmt.Errorf("DELIVERY_TIMEOUT must be positive; got %s", c.DeliveryTimeout)
	}
	if c.RejectionCooldown < 0 || c.GitHubTokenCacheTTL < 0 {
		return fmt.Errorf("REJECTION_COOLDOWN and GITHUB_TOKEN_CACHE_TTL must not be negative")
	}
	return nil
}
