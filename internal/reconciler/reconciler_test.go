package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	argocdapi "github.com/glueops/pull-request-bot/api/argocd/v1alpha1"
	"github.com/glueops/pull-request-bot/internal/argocd"
	"github.com/glueops/pull-request-bot/internal/commits"
	"github.com/glueops/pull-request-bot/internal/credentials"
	"github.com/glueops/pull-request-bot/internal/gitprovider"
	_ "github.com/glueops/pull-request-bot/internal/gitprovider/github"
	"github.com/glueops/pull-request-bot/internal/ledger"
	"github.com/glueops/pull-request-bot/internal/links"
)

type fakeSource struct {
	mu          sync.Mutex
	apps        []argocdapi.Application
	appSets     []argocdapi.ApplicationSet
	appsErr     error
	appSetsErr  error
	appsCalls   atomic.Int32
	appSetCalls atomic.Int32
}

func (f *fakeSource) ListApplications(context.Context) ([]argocdapi.Application, error) {
	f.appsCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appsErr != nil {
		return nil, f.appsErr
	}
	return f.apps, nil
}

func (f *fakeSource) ListApplicationSets(context.Context) ([]argocdapi.ApplicationSet, error) {
	f.appSetCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appSetsErr != nil {
		return nil, f.appSetsErr
	}
	return f.appSets, nil
}

type fakeTokens struct {
	err   error
	calls int
}

func (f *fakeTokens) GetToken(context.Context, *gitprovider.Repository) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "t0ken", nil
}

func testApp(name, sha, pr string, urls ...string) argocdapi.Application {
	return argocdapi.Application{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "argocd",
			OwnerReferences: []metav1.OwnerReference{{
				APIVersion: "argoproj.io/v1alpha1",
				Kind:       argocdapi.ApplicationSetKind,
				Name:       "appset-myrepo",
				UID:        "4f6e5d4c-1111-2222-3333-444455556666",
			}},
			Annotations: map[string]string{
				commits.AnnotationHeadSHA:           sha,
				commits.AnnotationPullRequestNumber: pr,
			},
		},
		Spec: argocdapi.ApplicationSpec{
			Destination: argocdapi.ApplicationDestination{Namespace: "preview"},
		},
		Status: argocdapi.ApplicationStatus{
			Summary: argocdapi.ApplicationSummary{ExternalURLs: urls},
		},
	}
}

func testAppSet(gen *argocdapi.PullRequestGenerator) argocdapi.ApplicationSet {
	return argocdapi.ApplicationSet{
		ObjectMeta: metav1.ObjectMeta{Name: "appset-myrepo", Namespace: "argocd"},
		Spec: argocdapi.ApplicationSetSpec{
			Generators: []argocdapi.ApplicationSetGenerator{{PullRequest: gen}},
		},
	}
}

var widgetsGenerator = &argocdapi.PullRequestGenerator{
	Github: &argocdapi.PullRequestGeneratorGithub{Owner: "acme", Repo: "widgets"},
}

func testOptions() Options {
	return Options{
		PollInterval:        10 * time.Millisecond,
		MaxSourceBackoff:    40 * time.Millisecond,
		DeliveryTimeout:     5 * time.Second,
		RejectionCooldown:   time.Minute,
		CommentMarkerLookup: true,
	}
}

type testHarness struct {
	r             *Reconciler
	src           *fakeSource
	ledger        ledger.Ledger
	tokens        *fakeTokens
	providerCalls int
	createCalls   int
}

func newTestHarness(
	src *fakeSource,
	provider *gitprovider.Fake,
	opts Options,
) *testHarness {
	h := &testHarness{
		src:    src,
		ledger: ledger.NewMemory(),
		tokens: &fakeTokens{},
	}
	h.r = New(src, h.ledger, h.tokens, links.NewBuilder("example.com"), opts)
	createFn := provider.CreateCommentFn
	provider.CreateCommentFn = func(
		ctx context.Context,
		number int64,
		body string,
	) (*gitprovider.Comment, error) {
		h.createCalls++
		return createFn(ctx, number, body)
	}
	h.r.newProviderFn = func(
		*gitprovider.Repository,
		*gitprovider.Options,
	) (gitprovider.Interface, error) {
		h.providerCalls++
		return provider, nil
	}
	return h
}

func TestReconcileEndToEnd(t *testing.T) {
	var (
		mu     sync.Mutex
		posts  []string
		paths  []string
		auths  []string
		gets   int
		decodeErr error
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			gets++
			_, _ = fmt.Fprint(w, `[]`)
		case http.MethodPost:
			payload := map[string]string{}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				decodeErr = err
			}
			posts = append(posts, payload["body"])
			paths = append(paths, r.URL.Path)
			auths = append(auths, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusCreated)
			_, _ = fmt.Fprint(w, `{"id": 1}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	scheme := runtime.NewScheme()
	require.NoError(t, corev1.AddToScheme(scheme))
	require.NoError(t, argocdapi.AddToScheme(scheme))
	app := testApp("app-pr-42", "abc123", "42", "https://pr-42.preview.example")
	appSet := testAppSet(widgetsGenerator)
	c := fake.NewClientBuilder().WithScheme(scheme).WithObjects(
		&app,
		&appSet,
		&corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{
				Name:      "tenant-repo-creds",
				Namespace: "glueops-core",
			},
			Data: map[string][]byte{"password": []byte("ghp_test")},
		},
	).Build()

	l := ledger.NewMemory()
	r := New(
		argocd.NewSource(c),
		l,
		credentials.NewResolver(c, credentials.ResolverOptions{
			Namespace:         "glueops-core",
			DefaultSecretName: "tenant-repo-creds",
		}),
		links.NewBuilder("example.com"),
		testOptions(),
	)
	// Point the GitHub client at the test server.
	r.newProviderFn = func(
		repo *gitprovider.Repository,
		opts *gitprovider.Options,
	) (gitprovider.Interface, error) {
		testRepo := *repo
		testRepo.BaseURL = srv.URL
		return gitprovider.New(&testRepo, opts)
	}

	require.NoError(t, r.ReconcileOnce(context.Background()))

	mu.Lock()
	require.NoError(t, decodeErr)
	require.Len(t, posts, 1)
	require.True(
		t,
		strings.HasSuffix(paths[0], "/repos/acme/widgets/issues/42/comments"),
		paths[0],
	)
	require.Equal(t, "token ghp_test", auths[0])
	require.Contains(t, posts[0], "abc123")
	require.Contains(t, posts[0], "https://argocd.example.com/applications/app-pr-42")
	require.Contains(t, posts[0], "https://pr-42.preview.example")
	require.Equal(t, 1, gets)
	mu.Unlock()
	require.True(t, l.Contains("abc123"))

	require.NoError(t, r.ReconcileOnce(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, posts, 1)
	require.Equal(t, 1, gets)
}

func TestReconcileOnce(t *testing.T) {
	ready := testApp("app-pr-42", "abc123", "42", "https://pr-42.preview.example")

	testCases := []struct {
		name       string
		src        *fakeSource
		provider   func(*testing.T) *gitprovider.Fake
		tokensErr  error
		opts       func(*Options)
		assertions func(*testing.T, *testHarness)
	}{
		{
			name: "source unavailable",
			src: &fakeSource{
				appsErr: fmt.Errorf("%w: boom", argocd.ErrSourceUnavailable),
			},
			assertions: func(t *testing.T, h *testHarness) {
				err := h.r.ReconcileOnce(context.Background())
				require.ErrorIs(t, err, argocd.ErrSourceUnavailable)
				require.Zero(t, h.providerCalls)
				require.Zero(t, h.ledger.Len())
			},
		},
		{
			name: "ApplicationSets unavailable",
			src: &fakeSource{
				apps:       []argocdapi.Application{ready},
				appSetsErr: fmt.Errorf("%w: boom", argocd.ErrSourceUnavailable),
			},
			assertions: func(t *testing.T, h *testHarness) {
				err := h.r.ReconcileOnce(context.Background())
				require.ErrorIs(t, err, argocd.ErrSourceUnavailable)
				require.Zero(t, h.providerCalls)
				require.Zero(t, h.ledger.Len())
			},
		},
		{
			name: "no candidates skips listing ApplicationSets",
			src: &fakeSource{
				apps: []argocdapi.Application{
					func() argocdapi.Application {
						app := testApp("hand-made", "abc123", "42", "https://x")
						app.OwnerReferences = nil
						return app
					}(),
				},
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.Zero(t, h.providerCalls)
				require.Zero(t, h.src.appSetCalls.Load())
			},
		},
		{
			name: "not ready",
			src: &fakeSource{
				apps: []argocdapi.Application{
					testApp("app-pr-42", "abc123", "42"),
					testApp("app-pr-43", "def456", "", "https://pr-43.preview.example"),
				},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.Zero(t, h.providerCalls)
				require.Zero(t, h.tokens.calls)
				require.Zero(t, h.ledger.Len())
			},
		},
		{
			name: "not generated",
			src: &fakeSource{
				apps: []argocdapi.Application{
					func() argocdapi.Application {
						app := ready
						app.OwnerReferences = []metav1.OwnerReference{{Kind: "Deployment", Name: "x"}}
						return app
					}(),
				},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.Zero(t, h.providerCalls)
				require.Zero(t, h.ledger.Len())
			},
		},
		{
			name: "no pull request generator is retried",
			src: &fakeSource{
				apps:    []argocdapi.Application{ready},
				appSets: []argocdapi.ApplicationSet{testAppSet(nil)},
			},
			provider: func(*testing.T) *gitprovider.Fake {
				return &gitprovider.Fake{
					CreateCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						return &gitprovider.Comment{ID: 1}, nil
					},
				}
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.False(t, h.ledger.Contains("abc123"))

				h.src.mu.Lock()
				h.src.appSets = []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)}
				h.src.mu.Unlock()

				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.True(t, h.ledger.Contains("abc123"))
			},
		},
		{
			name: "delivered",
			src: &fakeSource{
				apps:    []argocdapi.Application{ready},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			provider: func(t *testing.T) *gitprovider.Fake {
				return &gitprovider.Fake{
					FindCommentFn: func(_ context.Context, number int64, marker string) (*gitprovider.Comment, error) {
						require.Equal(t, int64(42), number)
						require.Equal(t, "<!-- pull-request-bot:sha=abc123 -->", marker)
						return nil, nil
					},
					CreateCommentFn: func(_ context.Context, number int64, body string) (*gitprovider.Comment, error) {
						require.Equal(t, int64(42), number)
						require.Contains(t, body, "abc123")
						require.Contains(t, body, "https://grafana.example.com/d/tBmi6B0Vz/loki-logs")
						return &gitprovider.Comment{ID: 1}, nil
					},
				}
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.True(t, h.ledger.Contains("abc123"))
				require.Equal(t, 1, h.tokens.calls)
			},
		},
		{
			name: "same commit on two Applications is delivered once",
			src: &fakeSource{
				apps: []argocdapi.Application{
					ready,
					testApp("app-pr-42-worker", "abc123", "42", "https://pr-42-worker.preview.example"),
				},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			provider: func(*testing.T) *gitprovider.Fake {
				return &gitprovider.Fake{
					CreateCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						return &gitprovider.Comment{ID: 1}, nil
					},
				}
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.Equal(t, 1, h.ledger.Len())
				require.Equal(t, 1, h.createCalls)
			},
		},
		{
			name: "existing comment is not posted again",
			src: &fakeSource{
				apps:    []argocdapi.Application{ready},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			provider: func(t *testing.T) *gitprovider.Fake {
				return &gitprovider.Fake{
					FindCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						return &gitprovider.Comment{ID: 7}, nil
					},
					CreateCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						require.Fail(t, "comment should not have been created")
						return nil, nil
					},
				}
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.True(t, h.ledger.Contains("abc123"))
			},
		},
		{
			name: "marker lookup disabled",
			src: &fakeSource{
				apps:    []argocdapi.Application{ready},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			opts: func(opts *Options) {
				opts.CommentMarkerLookup = false
			},
			provider: func(t *testing.T) *gitprovider.Fake {
				return &gitprovider.Fake{
					FindCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						require.Fail(t, "comments should not have been searched")
						return nil, nil
					},
					CreateCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						return &gitprovider.Comment{ID: 1}, nil
					},
				}
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.True(t, h.ledger.Contains("abc123"))
			},
		},
		{
			name: "marker lookup failure is retried",
			src: &fakeSource{
				apps:    []argocdapi.Application{ready},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			provider: func(t *testing.T) *gitprovider.Fake {
				return &gitprovider.Fake{
					FindCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						return nil, gitprovider.NewDeliveryError(http.StatusBadGateway, errors.New("bad gateway"))
					},
					CreateCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						require.Fail(t, "comment should not have been created")
						return nil, nil
					},
				}
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.False(t, h.ledger.Contains("abc123"))
				require.Equal(t, 2, h.providerCalls)
			},
		},
		{
			name: "server error is retried next cycle",
			src: &fakeSource{
				apps:    []argocdapi.Application{ready},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			provider: func(*testing.T) *gitprovider.Fake {
				var attempts int
				return &gitprovider.Fake{
					CreateCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						attempts++
						if attempts == 1 {
							return nil, gitprovider.NewDeliveryError(
								http.StatusInternalServerError,
								errors.New("internal server error"),
							)
						}
						return &gitprovider.Comment{ID: 1}, nil
					},
				}
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.False(t, h.ledger.Contains("abc123"))
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.True(t, h.ledger.Contains("abc123"))
				require.Equal(t, 2, h.providerCalls)
			},
		},
		{
			name: "rejection cools down",
			src: &fakeSource{
				apps:    []argocdapi.Application{ready},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			opts: func(opts *Options) {
				opts.RejectionCooldown = 50 * time.Millisecond
			},
			provider: func(*testing.T) *gitprovider.Fake {
				return &gitprovider.Fake{
					CreateCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						return nil, gitprovider.NewDeliveryError(
							http.StatusUnprocessableEntity,
							errors.New("validation failed"),
						)
					},
				}
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.Equal(t, 1, h.createCalls)
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.Equal(t, 1, h.createCalls)
				require.False(t, h.ledger.Contains("abc123"))

				time.Sleep(100 * time.Millisecond)
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.Equal(t, 2, h.createCalls)
				require.False(t, h.ledger.Contains("abc123"))
			},
		},
		{
			name: "credential error is retried",
			src: &fakeSource{
				apps:    []argocdapi.Application{ready},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			tokensErr: errors.New("Secret not found"),
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.Equal(t, 2, h.tokens.calls)
				require.Zero(t, h.providerCalls)
				require.False(t, h.ledger.Contains("abc123"))
			},
		},
		{
			name: "panic is contained to one Application",
			src: &fakeSource{
				apps: []argocdapi.Application{
					testApp("app-pr-41", "aaa111", "41", "https://pr-41.preview.example"),
					ready,
				},
				appSets: []argocdapi.ApplicationSet{testAppSet(widgetsGenerator)},
			},
			provider: func(*testing.T) *gitprovider.Fake {
				return &gitprovider.Fake{
					CreateCommentFn: func(_ context.Context, number int64, _ string) (*gitprovider.Comment, error) {
						if number == 41 {
							panic("boom")
						}
						return &gitprovider.Comment{ID: 1}, nil
					},
				}
			},
			assertions: func(t *testing.T, h *testHarness) {
				require.NoError(t, h.r.ReconcileOnce(context.Background()))
				require.False(t, h.ledger.Contains("aaa111"))
				require.True(t, h.ledger.Contains("abc123"))
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			opts := testOptions()
			if testCase.opts != nil {
				testCase.opts(&opts)
			}
			var provider *gitprovider.Fake
			if testCase.provider != nil {
				provider = testCase.provider(t)
			} else {
				provider = &gitprovider.Fake{
					CreateCommentFn: func(context.Context, int64, string) (*gitprovider.Comment, error) {
						require.Fail(t, "comment should not have been created")
						return nil, nil
					},
				}
			}
			h := newTestHarness(testCase.src, provider, opts)
			h.tokens.err = testCase.tokensErr
			testCase.assertions(t, h)
		})
	}
}
