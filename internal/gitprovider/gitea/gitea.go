package gitea

import (
	"context"
	"fmt"
	"strings"

	"code.gitea.io/sdk/gitea"

	"github.com/glueops/pull-request-bot/internal/gitprovider"
)

const listCommentsPageSize = 50

var registration = gitprovider.Registration{
	NewProvider: func(
		repo *gitprovider.Repository,
		opts *gitprovider.Options,
	) (gitprovider.Interface, error) {
		return NewProvider(repo, opts)
	},
}

func init() {
	gitprovider.Register(gitprovider.ProviderGitea, registration)
}

type issueCommentClient interface {
	SetContext(ctx context.Context)

	CreateIssueComment(
		owner string,
		repo string,
		index int64,
		opt gitea.CreateIssueCommentOption,
	) (*gitea.Comment, *gitea.Response, error)

	ListIssueComments(
		owner string,
		repo string,
		index int64,
		opt gitea.ListIssueCommentOptions,
	) ([]*gitea.Comment, *gitea.Response, error)
}

// provider is a Gitea-based implementation of gitprovider.Interface.
type provider struct { // nolint: revive
	owner  string
	repo   string
	client issueCommentClient
}

// NewProvider returns a Gitea-based implementation of gitprovider.Interface.
// Gitea is always self-hosted, so repo.BaseURL is required.
func NewProvider(
	repo *gitprovider.Repository,
	opts *gitprovider.Options,
) (gitprovider.Interface, error) {
	if repo == nil || repo.Owner == "" || repo.Name == "" {
		return nil, fmt.Errorf("repository owner and name are required for Gitea")
	}
	baseURL := strings.TrimSpace(repo.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("API URL is required for Gitea")
	}
	if opts == nil {
		opts = &gitprovider.Options{}
	}

	httpOpts := *opts
	httpOpts.InsecureSkipTLSVerify = opts.InsecureSkipTLSVerify || repo.Insecure
	clientOpts := []gitea.ClientOption{
		gitea.SetHTTPClient(gitprovider.NewHTTPClient(&httpOpts)),
		// Skip querying the server for its version on construction.
		gitea.SetGiteaVersion(""),
	}
	if opts.Token != "" {
		clientOpts = append(clientOpts, gitea.SetToken(opts.Token))
	}
	client, err := gitea.NewClient(baseURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("error creating Gitea client: %w", err)
	}

	return &provider{
		owner:  repo.Owner,
		repo:   repo.Name,
		client: client,
	}, nil
}

// CreateComment implements gitprovider.Interface.
func (p *provider) CreateComment(
	ctx context.Context,
	number int64,
	body string,
) (*gitprovider.Comment, error) {
	p.client.SetContext(ctx)
	giteaComment, res, err := p.client.CreateIssueComment(
		p.owner,
		p.repo,
		number,
		gitea.CreateIssueCommentOption{Body: body},
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
	return convertGiteaComment(giteaComment), nil
}

// FindComment implements gitprovider.Interface.
func (p *provider) FindComment(
	ctx context.Context,
	number int64,
	marker string,
) (*gitprovider.Comment, error) {
	p.client.SetContext(ctx)
	opts := gitea.ListIssueCommentOptions{
		ListOptions: gitea.ListOptions{Page: 1, PageSize: listCommentsPageSize},
	}
	for {
		giteaComments, res, err := p.client.ListIssueComments(
			p.owner,
			p.repo,
			number,
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
		for _, giteaComment := range giteaComments {
			if giteaComment != nil && strings.Contains(giteaComment.Body, marker) {
				return convertGiteaComment(giteaComment), nil
			}
		}
		if res == nil || res.NextPage == 0 {
			return nil, nil
		}
		opts.Page = res.NextPage
	}
}

func convertGiteaComment(giteaComment *gitea.Comment) *gitprovider.Comment {
	if giteaComment == nil {
		return &gitprovider.Comment{}
	}
	return &gitprovider.Comment{
		ID:   giteaComment.ID,
		URL:  giteaComment.HTMLURL,
		Body: giteaComment.Body,
	}
}

func statusCode(res *gitea.Response) int {
	if res == nil || res.Response == nil {
		return 0
	}
	return res.StatusCode
}
