package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/glueops/pull-request-bot/internal/credentials/github"
	"github.com/glueops/pull-request-bot/internal/gitprovider"
)

const testNamespace = "glueops-core"

type fakeAppTokenSource struct {
	calls   int
	app     *github.App
	baseURL string
	err     error
}

func (f *fakeAppTokenSource) Token(
	_ context.Context,
	app *github.App,
	baseURL string,
) (string, error) {
	f.calls++
	f.app = app
	f.baseURL = baseURL
	if f.err != nil {
		return "", f.err
	}
	return "ghs_installation", nil
}

func newSecret(name string, data map[string]string) *corev1.Secret {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: testNamespace},
		Data:       map[string][]byte{},
	}
	for k, v := range data {
		secret.Data[k] = []byte(v)
	}
	return secret
}

func TestGetToken(t *testing.T) {
	appSecret := newSecret("tenant-repo-creds", map[string]string{
		github.AppIDKey:          "123",
		github.InstallationIDKey: "456",
		github.PrivateKeyKey:     "key",
	})
	githubRepo := &gitprovider.Repository{
		Provider: gitprovider.ProviderGitHub,
		Owner:    "acme",
		Name:     "widgets",
	}

	testCases := []struct {
		name       string
		objects    []client.Object
		repo       *gitprovider.Repository
		tokenErr   error
		assertions func(*testing.T, *fakeAppTokenSource, string, error)
	}{
		{
			name: "default Secret missing",
			repo: githubRepo,
			assertions: func(t *testing.T, _ *fakeAppTokenSource, _ string, err error) {
				require.True(t, apierrors.IsNotFound(err))
				require.ErrorContains(t, err, `error getting Secret "tenant-repo-creds"`)
			},
		},
		{
			name:    "GitHub App credentials",
			objects: []client.Object{appSecret},
			repo: &gitprovider.Repository{
				Provider: gitprovider.ProviderGitHub,
				Owner:    "acme",
				Name:     "widgets",
				BaseURL:  "https://github.example.com/api/v3",
			},
			assertions: func(t *testing.T, ts *fakeAppTokenSource, token string, err error) {
				require.NoError(t, err)
				require.Equal(t, "ghs_installation", token)
				require.Equal(t, 1, ts.calls)
				require.Equal(
					t,
					&github.App{ID: "123", InstallationID: 456, PrivateKey: "key"},
					ts.app,
				)
				require.Equal(t, "https://github.example.com/api/v3", ts.baseURL)
			},
		},
		{
			name:     "GitHub App token error",
			objects:  []client.Object{appSecret},
			repo:     githubRepo,
			tokenErr: errors.New("something went wrong"),
			assertions: func(t *testing.T, _ *fakeAppTokenSource, _ string, err error) {
				require.ErrorContains(t, err, "something went wrong")
			},
		},
		{
			name: "incomplete GitHub App credentials",
			objects: []client.Object{
				newSecret("tenant-repo-creds", map[string]string{github.AppIDKey: "123"}),
			},
			repo: githubRepo,
			assertions: func(t *testing.T, _ *fakeAppTokenSource, _ string, err error) {
				require.ErrorContains(t, err, "must all be set or all be unset")
			},
		},
		{
			name: "personal access token",
			objects: []client.Object{
				newSecret("tenant-repo-creds", map[string]string{
					"username": "bot",
					"password": "ghp_pat\n",
				}),
			},
			repo: githubRepo,
			assertions: func(t *testing.T, ts *fakeAppTokenSource, token string, err error) {
				require.NoError(t, err)
				require.Equal(t, "ghp_pat", token)
				require.Zero(t, ts.calls)
			},
		},
		{
			name: "App Secret name override",
			objects: []client.Object{
				appSecret,
				newSecret("acme-app", map[string]string{"token": "ghp_acme"}),
			},
			repo: &gitprovider.Repository{
				Provider:      gitprovider.ProviderGitHub,
				Owner:         "acme",
				Name:          "widgets",
				AppSecretName: "acme-app",
			},
			assertions: func(t *testing.T, ts *fakeAppTokenSource, token string, err error) {
				require.NoError(t, err)
				require.Equal(t, "ghp_acme", token)
				require.Zero(t, ts.calls)
			},
		},
		{
			name: "token reference",
			objects: []client.Object{
				appSecret,
				newSecret("gl", map[string]string{"api-token": "glpat"}),
			},
			repo: &gitprovider.Repository{
				Provider:    gitprovider.ProviderGitLab,
				Name:        "acme/widgets",
				TokenSecret: &gitprovider.SecretKeyRef{Name: "gl", Key: "api-token"},
			},
			assertions: func(t *testing.T, ts *fakeAppTokenSource, token string, err error) {
				require.NoError(t, err)
				require.Equal(t, "glpat", token)
				require.Zero(t, ts.calls)
			},
		},
		{
			name:    "token reference to missing key",
			objects: []client.Object{newSecret("gl", nil)},
			repo: &gitprovider.Repository{
				Provider:    gitprovider.ProviderGitLab,
				Name:        "acme/widgets",
				TokenSecret: &gitprovider.SecretKeyRef{Name: "gl", Key: "api-token"},
			},
			assertions: func(t *testing.T, _ *fakeAppTokenSource, _ string, err error) {
				require.ErrorIs(t, err, ErrNoCredentials)
			},
		},
		{
			name:    "App credentials are ignored for other providers",
			objects: []client.Object{appSecret},
			repo: &gitprovider.Repository{
				Provider: gitprovider.ProviderGitea,
				Owner:    "acme",
				Name:     "widgets",
				BaseURL:  "https://gitea.example.com",
			},
			assertions: func(t *testing.T, ts *fakeAppTokenSource, _ string, err error) {
				require.ErrorIs(t, err, ErrNoCredentials)
				require.Zero(t, ts.calls)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ts := &fakeAppTokenSource{err: testCase.tokenErr}
			r := NewResolver(
				fake.NewClientBuilder().WithObjects(testCase.objects...).Build(),
				ResolverOptions{
					Namespace:         testNamespace,
					DefaultSecretName: "tenant-repo-creds",
				},
			)
			r.appTokenSource = ts
			token, err := r.GetToken(context.Background(), testCase.repo)
			testCase.assertions(t, ts, token, err)
		})
	}
}

func TestGetTokenReadsSecretEveryTime(t *testing.T) {
	c := fake.NewClientBuilder().WithObjects(
		newSecret("tenant-repo-creds", map[string]string{"password": "old"}),
	).Build()
	r := NewResolver(c, ResolverOptions{
		Namespace:         testNamespace,
		DefaultSecretName: "tenant-repo-creds",
	})
	repo := &gitprovider.Repository{
		Provider: gitprovider.ProviderGitHub,
		Owner:    "acme",
		Name:     "widgets",
	}

	token, err := r.GetToken(context.Background(), repo)
	require.NoError(t, err)
	require.Equal(t, "old", token)

	require.NoError(
		t,
		c.Update(
			context.Background(),
			newSecret("tenant-repo-creds", map[string]string{"password": "new"}),
		),
	)

	token, err = r.GetToken(context.Background(), repo)
	require.NoError(t, err)
	require.Equal(t, "new", token)
}
