package github

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/jferrl/go-githubauth"
	"github.com/patrickmn/go-cache"
)

const (
	AppIDKey          = "githubAppID"
	InstallationIDKey = "githubAppInstallationID"
	PrivateKeyKey     = "githubAppPrivateKey"
)

var base64Regex = regexp.MustCompile(`^[a-zA-Z0-9+/]*={0,2}$`)

// App holds the credentials of a GitHub App installation.
type App struct {
	// ID is the numeric App ID or the alphanumeric client ID of the App.
	ID             string
	InstallationID int64
	// PrivateKey is the PEM-encoded private key of the App, optionally base64
	// encoded.
	PrivateKey string
}

// AppFromSecretData extracts GitHub App credentials from the data of a
// Secret. It returns false if none of the relevant keys are present and an
// error if only some of them are, or if they are malformed.
func AppFromSecretData(data map[string][]byte) (*App, bool, error) {
	id := strings.TrimSpace(string(data[AppIDKey]))
	installationIDStr := strings.TrimSpace(string(data[InstallationIDKey]))
	privateKey := string(data[PrivateKeyKey])
	if id == "" && installationIDStr == "" && privateKey == "" {
		return nil, false, nil
	}
	if id == "" || installationIDStr == "" || privateKey == "" {
		return nil, true, fmt.Errorf(
			"%s, %s, and %s must all be set or all be unset",
			AppIDKey, InstallationIDKey, PrivateKeyKey,
		)
	}
	installationID, err := strconv.ParseInt(installationIDStr, 10, 64)
	if err != nil {
		return nil, true, fmt.Errorf("error parsing installation ID: %w", err)
	}
	return &App{
		ID:             id,
		InstallationID: installationID,
		PrivateKey:     privateKey,
	}, true, nil
}

// TokenSource mints installation access tokens for GitHub Apps.
type TokenSource struct {
	// tokenCache is nil when caching is disabled.
	tokenCache *cache.Cache
	httpClient *http.Client

	getAccessTokenFn func(app *App, baseURL string) (string, error)
}

// NewTokenSource returns a TokenSource that mints a fresh installation access
// token on every call when cacheTTL is zero and otherwise holds on to tokens
// for cacheTTL. Installation access tokens live for one hour, so cacheTTL
// should be comfortably shorter than that.
func NewTokenSource(httpClient *http.Client, cacheTTL time.Duration) *TokenSource {
	if httpClient == nil {
		httpClient = cleanhttp.DefaultClient()
	}
	t := &TokenSource{httpClient: httpClient}
	if cacheTTL > 0 {
		t.tokenCache = cache.New(
			cacheTTL,  // Default ttl for each entry
			time.Hour, // Cleanup interval
		)
	}
	t.getAccessTokenFn = t.getAccessToken
	return t
}

// Token returns an installation access token for app. A non-empty baseURL
// selects a GitHub Enterprise instance.
func (t *TokenSource) Token(_ context.Context, app *App, baseURL string) (string, error) {
	var cacheKey string
	if t.tokenCache != nil {
		cacheKey = tokenCacheKey(baseURL, app)
		if entry, exists := t.tokenCache.Get(cacheKey); exists {
			return entry.(string), nil // nolint: forcetypeassert
		}
	}

	accessToken, err := t.getAccessTokenFn(app, baseURL)
	if err != nil {
		return "", fmt.Errorf("error getting installation access token: %w", err)
	}

	if t.tokenCache != nil {
		t.tokenCache.Set(cacheKey, accessToken, cache.DefaultExpiration)
	}
	return accessToken, nil
}

func (t *TokenSource) getAccessToken(app *App, baseURL string) (string, error) {
	decodedKey, err := decodeKey(app.PrivateKey)
	if err != nil {
		return "", err
	}

	appTokenSource, err := newApplicationTokenSource(app.ID, decodedKey)
	if err != nil {
		return "", fmt.Errorf("error creating application token source: %w", err)
	}

	installationOpts := []githubauth.InstallationTokenSourceOpt{
		githubauth.WithHTTPClient(t.httpClient),
	}
	if baseURL != "" {
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			return "", fmt.Errorf("can only request access tokens for HTTP or HTTPS URLs")
		}
		installationOpts = append(
			installationOpts,
			githubauth.WithEnterpriseURLs(baseURL, baseURL),
		)
	}
	installationTokenSource := githubauth.NewInstallationTokenSource(
		app.InstallationID,
		appTokenSource,
		installationOpts...,
	)

	token, err := installationTokenSource.Token()
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// tokenCacheKey returns a cache key for an installation access token. The key
// is a hash of the base URL and all of the App's credentials, so rotating any
// of them yields a new key. Using a hash ensures that a decodable key is not
// stored in the cache.
func tokenCacheKey(baseURL string, app *App) string {
	return fmt.Sprintf(
		"%x",
		sha256.Sum256([]byte(
			fmt.Sprintf(
				"%s:%s:%d:%s",
				baseURL, app.ID, app.InstallationID, app.PrivateKey,
			),
		)),
	)
}

// decodeKey attempts to base64 decode a key. If successful, it returns the
// result. If it fails, it attempts to infer whether the input was simply NOT
// base64 encoded or whether it appears to have been base64 encoded but
// corrupted. This inference determines whether to return the input as is or
// surface the decoding error.
func decodeKey(key string) ([]byte, error) {
	decodedKey, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		if !errors.As(err, new(base64.CorruptInputError)) {
			return nil, fmt.Errorf("error decoding private key: %w", err)
		}
		if base64Regex.MatchString(key) {
			return nil, fmt.Errorf(
				"probable corrupt base64 encoding of private key: %w", err,
			)
		}
		return []byte(key), nil
	}
	return decodedKey, nil
}
