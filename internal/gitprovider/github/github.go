package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
	"k8s.io/utils/ptr"

	"github.com/glueops/pull-request-bot/internal/gitprovider"
)

// tokenType is the scheme GitHub documents for the Authorization header of
// requests authenticated with an installation or personal access token.
const tokenType = "token"

const listCommentsPageSize = 100

var registration = gitprovider.Registration{
	NewProvider: func(
		repo *gitprovider.Repository,
		opts *gitprovider.Options,
	) (gitprovider.Interface, error) {
		return NewProvider(repo, opts)
	},
}

func init() {
	gitprovider.Register(gitprovider.ProviderGitHub, registration)
}

type issuesClient interface {
	CreateComment(
		ctx context.Context,
		owner string,
		repo string,
		number int,
		comment *github.IssueComment,
	) (*github.IssueComment, *github.Response, error)

	ListComments(
		ctx context.Context,
		owner string,
		repo string,
		number int,
		opts *github.IssueListCommentsOptions,
	) ([]*github.IssueComment, *github.Response, error)
}

// provider is a GitHub-based implementation of gitprovider.Interface.
type provider struct { // nolint: revive
	owner  string
	repo   string
	client issuesClient
}

// NewProvider returns a GitHub-based implementation of gitprovider.Interface.
// A non-empty repo.BaseURL selects a GitHub Enterprise instance.
func NewProvider(
	repo *gitprovider.Repository,
	opts *gitprovider.Options,
) (gitprovider.Interface, error) {
	if repo == nil || repo.Owner == "" || repo.Name == "" {
		return nil, fmt.Errorf("repository owner and name are required for GitHub")
	}
	if opts == nil {
		opts = &gitprovider.Options{}
	}

	httpClient := gitprovider.NewHTTPClient(opts)
	if opts.Token != "" {
		httpClient.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: opts.Token,
				TokenType:   tokenType,
			}),
			Base: httpClient.Transport,
		}
	}

	client := github.NewClient(httpClient)
	if baseURL := strings.TrimSpace(repo.BaseURL); baseURL != "" {
		var err error
		// This function call will automatically add correct paths to the base URL
		if client, err = client.WithEnterpriseURLs(baseURL, baseURL); err != nil {
			return nil, fmt.Errorf("error parsing GitHub API URL %q: %w", baseURL, err)
		}
	}

	return &provider{
		owner:  repo.Owner,
		repo:   repo.Name,
		client: client.Issues,
	}, nil
}

// CreateComment implements gitprovider.Interface.
func (p *provider) CreateComment(
	ctx context.Context,
	number int64,
	body string,
) (*gitprovider.Comment, error) {
	ghComment, res, err := p.client.CreateComment(
		ctx,
		p.owner,
		p.repo,
		int(number),
		&github.IssueComment{Body: github.Ptr(body)},
	)
	if err != nil {
		return nil, gitprovider.NewDeliveryError(
			statusCode(res),
			fmt.Errorf(
				"error commenting on pull request %d of %s/%s: %w",
				number, p.owner, p.repo, err,
			),
		)
	}
	return convertGithubComment(ghComment), nil
}

// FindComment implements gitprovider.Interface.
func (p *provider) FindComment(
	ctx context.Context,
	number int64,
	marker string,
) (*gitprovider.Comment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: listCommentsPageSize},
	}
	for {
		ghComments, res, err := p.client.ListComments(
			ctx,
			p.owner,
			p.repo,
			int(number),
			opts,
		)
		if err != nil {
			return nil, gitprovider.NewDeliveryError(
				statusCode(res),
				fmt.Errorf(
					"error listing comments of pull request %d of %s/%s: %w",
					number, p.owner, p.repo, err,
				),
			)
		}
		for _, ghComment := range ghComments {
			if strings.Contains(ghComment.GetBody(), marker) {
				return convertGithubComment(ghComment), nil
			}
		}
		if res == nil || res.NextPage == 0 {
			return nil, nil
		}
		opts.Page = res.NextPage
	}
}

func convertGithubComment(ghComment *github.IssueComment) *gitprovider.Comment {
	if ghComment == nil {
		return &gitprovider.Comment{}
	}
	return &gitprovider.Comment{
		ID:   ptr.Deref(ghComment.ID, 0),
		URL:  ptr.Deref(ghComment.HTMLURL, ""),
		Body: ptr.Deref(ghComment.Body, ""),
	}
}

func statusCode(res *github.Response) int {
	if res == nil || res.Response == nil {
		return 0
	}
	return res.StatusCode
}
