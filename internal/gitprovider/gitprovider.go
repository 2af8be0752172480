package gitprovider

import (
	"context"
	"strings"
	"time"

	argocd "github.com/glueops/pull-request-bot/api/argocd/v1alpha1"
)

// Options encapsulates options used in instantiating any implementation
// of Interface.
type Options struct {
	// Token is the access token used to authenticate against the Git provider's
	// API.
	Token string
	// InsecureSkipTLSVerify specifies whether certificate verification errors
	// should be ignored when connecting to the Git provider's API.
	InsecureSkipTLSVerify bool
	// Timeout bounds every request made to the Git provider's API. Zero means
	// no timeout.
	Timeout time.Duration
}

// Interface is an abstracted interface for commenting on the pull requests of
// a single repository hosted by some Git hosting provider (e.g. GitHub,
// GitLab, Gitea).
type Interface interface {
	// CreateComment adds a comment with the given markdown body to the pull
	// request with the given number.
	CreateComment(ctx context.Context, number int64, body string) (*Comment, error)

	// FindComment returns the first comment on the pull request with the given
	// number whose body contains marker. nil is returned if there is none.
	FindComment(ctx context.Context, number int64, marker string) (*Comment, error)
}

// Comment is an abstracted representation of a comment on a pull request (or
// equivalent; e.g. a note on a GitLab merge request).
type Comment struct {
	// ID uniquely identifies the comment within the provider.
	ID int64 `json:"id"`
	// URL is the URL to the comment, if the provider reports one.
	URL string `json:"url,omitempty"`
	// Body is the markdown body of the comment.
	Body string `json:"body"`
}

// SecretKeyRef points at a single key of a Secret in the bot's namespace.
type SecretKeyRef struct {
	Name string
	Key  string
}

// Repository is a provider-neutral description of the repository a pull
// request generator watches, along with how to authenticate against it.
type Repository struct {
	// Provider is the name an implementation of Interface was registered
	// under.
	Provider string
	// Owner is the user or organization owning the repository. It is empty for
	// GitLab, where Name holds the full project path or ID.
	Owner string
	Name  string
	// BaseURL is the API endpoint of a self-hosted provider. Empty means the
	// provider's public SaaS endpoint.
	BaseURL  string
	Insecure bool
	// TokenSecret, if set, references a Secret key holding an access token.
	TokenSecret *SecretKeyRef
	// AppSecretName, if set, overrides the name of the Secret holding GitHub
	// App credentials.
	AppSecretName string
}

// String returns the path of the repository.
func (r *Repository) String() string {
	if r.Owner == "" {
		return r.Name
	}
	return r.Owner + "/" + r.Name
}

// RepositoryFromGenerator maps a pull request generator to the Repository it
// watches. It returns false when the generator names no supported provider or
// the repository is incompletely specified.
func RepositoryFromGenerator(
	gen *argocd.PullRequestGenerator,
) (*Repository, bool) {
	if gen == nil {
		return nil, false
	}
	switch {
	case gen.Github != nil:
		gh := gen.Github
		if strings.TrimSpace(gh.Owner) == "" || strings.TrimSpace(gh.Repo) == "" {
			return nil, false
		}
		return &Repository{
			Provider:      ProviderGitHub,
			Owner:         gh.Owner,
			Name:          gh.Repo,
			BaseURL:       gh.API,
			TokenSecret:   secretKeyRef(gh.TokenRef),
			AppSecretName: gh.AppSecretName,
		}, true
	case gen.GitLab != nil:
		gl := gen.GitLab
		if strings.TrimSpace(gl.Project) == "" {
			return nil, false
		}
		return &Repository{
			Provider:    ProviderGitLab,
			Name:        gl.Project,
			BaseURL:     gl.API,
			Insecure:    gl.Insecure,
			TokenSecret: secretKeyRef(gl.TokenRef),
		}, true
	case gen.Gitea != nil:
		gt := gen.Gitea
		if strings.TrimSpace(gt.Owner) == "" ||
			strings.TrimSpace(gt.Repo) == "" ||
			strings.TrimSpace(gt.API) == "" {
			return nil, false
		}
		return &Repository{
			Provider:    ProviderGitea,
			Owner:       gt.Owner,
			Name:        gt.Repo,
			BaseURL:     gt.API,
			Insecure:    gt.Insecure,
			TokenSecret: secretKeyRef(gt.TokenRef),
		}, true
	}
	return nil, false
}

func secretKeyRef(ref *argocd.SecretRef) *SecretKeyRef {
	if ref == nil || ref.SecretName == "" || ref.Key == "" {
		return nil
	}
	return &SecretKeyRef{Name: ref.SecretName, Key: ref.Key}
}

// Fake is a fake implementation of the provider Interface used to facilitate
// testing.
type Fake struct {
	// CreateCommentFn defines the functionality of the CreateComment method.
	CreateCommentFn func(context.Context, int64, string) (*Comment, error)
	// FindCommentFn defines the functionality of the FindComment method.
	FindCommentFn func(context.Context, int64, string) (*Comment, error)
}

// CreateComment implements gitprovider.Interface.
func (f *Fake) CreateComment(
	ctx context.Context,
	number int64,
	body string,
) (*Comment, error) {
	return f.CreateCommentFn(ctx, number, body)
}

// FindComment implements gitprovider.Interface.
func (f *Fake) FindComment(
	ctx context.Context,
	number int64,
	marker string,
) (*Comment, error) {
	if f.FindCommentFn == nil {
		return nil, nil
	}
	return f.FindCommentFn(ctx, number, marker)
}
