package credentials

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/glueops/pull-request-bot/internal/credentials/github"
	"github.com/glueops/pull-request-bot/internal/gitprovider"
	"github.com/glueops/pull-request-bot/pkg/logging"
)

const (
	FieldPassword = "password"
	FieldToken    = "token"
)

// ErrNoCredentials is returned when a Secret holds nothing usable for
// authenticating against a Git provider.
var ErrNoCredentials = errors.New("no usable credentials found")

// ResolverOptions encapsulates options used in instantiating a Resolver.
type ResolverOptions struct {
	// Namespace is where all Secrets are looked up.
	Namespace string
	// DefaultSecretName is the name of the Secret used when a repository does
	// not reference one of its own.
	DefaultSecretName string
	// TokenCacheTTL is how long GitHub App installation tokens are reused.
	// Zero mints a new token for every call.
	TokenCacheTTL time.Duration
	// HTTPClient is used for requests to GitHub made while minting
	// installation tokens.
	HTTPClient *http.Client
}

// Resolver obtains access tokens for Git providers from Kubernetes Secrets.
// Secrets are read anew on every call so that rotated credentials take effect
// without a restart.
type Resolver struct {
	namespace         string
	defaultSecretName string
	appTokenSource    appTokenSource

	// The following behaviors are overridable for testing purposes:

	getSecretFn func(
		context.Context,
		client.ObjectKey,
		client.Object,
		...client.GetOption,
	) error
}

type appTokenSource interface {
	Token(ctx context.Context, app *github.App, baseURL string) (string, error)
}

// NewResolver returns a Resolver that reads Secrets using the provided
// client.Reader, which should not be backed by a cache.
func NewResolver(reader client.Reader, opts ResolverOptions) *Resolver {
	return &Resolver{
		namespace:         opts.Namespace,
		defaultSecretName: opts.DefaultSecretName,
		appTokenSource:    github.NewTokenSource(opts.HTTPClient, opts.TokenCacheTTL),
		getSecretFn:       reader.Get,
	}
}

// GetToken returns an access token for repo. A Secret key referenced by the
// repository takes precedence. Otherwise the repository's own Secret, or the
// default one, is consulted: for GitHub repositories, GitHub App credentials
// are exchanged for an installation access token; failing that, a password or
// token field is used as is.
func (r *Resolver) GetToken(
	ctx context.Context,
	repo *gitprovider.Repository,
) (string, error) {
	logger := logging.LoggerFromContext(ctx).WithValues("repo", repo.String())

	if ref := repo.TokenSecret; ref != nil {
		secret, err := r.getSecret(ctx, ref.Name)
		if err != nil {
			return "", err
		}
		token := strings.TrimSpace(string(secret.Data[ref.Key]))
		if token == "" {
			return "", fmt.Errorf(
				"%w: key %q of Secret %q in namespace %q is empty",
				ErrNoCredentials, ref.Key, ref.Name, r.namespace,
			)
		}
		logger.Trace("using token from referenced Secret key", "secret", ref.Name)
		return token, nil
	}

	secretName := r.defaultSecretName
	if repo.AppSecretName != "" {
		secretName = repo.AppSecretName
	}
	secret, err := r.getSecret(ctx, secretName)
	if err != nil {
		return "", err
	}

	if repo.Provider == gitprovider.ProviderGitHub {
		app, ok, err := github.AppFromSecretData(secret.Data)
		if err != nil {
			return "", fmt.Errorf(
				"error reading GitHub App credentials from Secret %q in namespace %q: %w",
				secretName, r.namespace, err,
			)
		}
		if ok {
			logger.Trace(
				"minting GitHub App installation token",
				"secret", secretName,
				"installationID", app.InstallationID,
			)
			return r.appTokenSource.Token(ctx, app, repo.BaseURL)
		}
	}

	for _, field := range []string{FieldPassword, FieldToken} {
		if token := strings.TrimSpace(string(secret.Data[field])); token != "" {
			logger.Trace("using token from Secret", "secret", secretName, "field", field)
			return token, nil
		}
	}
	return "", fmt.Errorf(
		"%w in Secret %q in namespace %q",
		ErrNoCredentials, secretName, r.namespace,
	)
}

func (r *Resolver) getSecret(ctx context.Context, name string) (*corev1.Secret, error) {
	secret := &corev1.Secret{}
	if err := r.getSecretFn(
		ctx,
		types.NamespacedName{Namespace: r.namespace, Name: name},
		secret,
	); err != nil {
		return nil, fmt.Errorf(
			"error getting Secret %q in namespace %q: %w",
			name, r.namespace, err,
		)
	}
	return secret, nil
}
