package gitlab

import (
	"context"
	"fmt"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/glueops/pull-request-bot/internal/gitprovider"
)

const listNotesPageSize = 100

var registration = gitprovider.Registration{
	NewProvider: func(
		repo *gitprovider.Repository,
		opts *gitprovider.Options,
	) (gitprovider.Interface, error) {
		return NewProvider(repo, opts)
	},
}

func init() {
	gitprovider.Register(gitprovider.ProviderGitLab, registration)
}

type notesClient interface {
	CreateMergeRequestNote(
		pid any,
		mergeRequest int,
		opt *gitlab.CreateMergeRequestNoteOptions,
		options ...gitlab.RequestOptionFunc,
	) (*gitlab.Note, *gitlab.Response, error)

	ListMergeRequestNotes(
		pid any,
		mergeRequest int,
		opt *gitlab.ListMergeRequestNotesOptions,
		options ...gitlab.RequestOptionFunc,
	) ([]*gitlab.Note, *gitlab.Response, error)
}

// provider is a GitLab-based implementation of gitprovider.Interface. GitLab
// merge request notes stand in for pull request comments.
type provider struct { // nolint: revive
	projectName string
	client      notesClient
}

// NewProvider returns a GitLab-based implementation of gitprovider.Interface.
// repo.Name is the project path or ID. A non-empty repo.BaseURL selects a
// self-hosted GitLab instance.
func NewProvider(
	repo *gitprovider.Repository,
	opts *gitprovider.Options,
) (gitprovider.Interface, error) {
	if repo == nil || repo.Name == "" {
		return nil, fmt.Errorf("project is required for GitLab")
	}
	if opts == nil {
		opts = &gitprovider.Options{}
	}

	clientOpts := make([]gitlab.ClientOptionFunc, 0, 2)
	if baseURL := strings.TrimSpace(repo.BaseURL); baseURL != "" {
		clientOpts = append(clientOpts, gitlab.WithBaseURL(baseURL))
	}
	httpOpts := *opts
	httpOpts.InsecureSkipTLSVerify = opts.InsecureSkipTLSVerify || repo.Insecure
	clientOpts = append(
		clientOpts,
		gitlab.WithHTTPClient(gitprovider.NewHTTPClient(&httpOpts)),
	)

	client, err := gitlab.NewClient(opts.Token, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("error creating GitLab client: %w", err)
	}

	return &provider{
		projectName: repo.Name,
		client:      client.Notes,
	}, nil
}

// CreateComment implements gitprovider.Interface.
func (p *provider) CreateComment(
	ctx context.Context,
	number int64,
	body string,
) (*gitprovider.Comment, error) {
	note, res, err := p.client.CreateMergeRequestNote(
		p.projectName,
		int(number),
		&gitlab.CreateMergeRequestNoteOptions{Body: gitlab.Ptr(body)},
		gitlab.WithContext(ctx),
	)
	if err != nil {
		return nil, gitprovider.NewDeliveryError(
			statusCode(res),
			fmt.Errorf(
				"error adding note to merge request %d of %s: %w",
				number, p.projectName, err,
			),
		)
	}
	return convertGitlabNote(note), nil
}

// FindComment implements gitprovider.Interface.
func (p *provider) FindComment(
	ctx context.Context,
	number int64,
	marker string,
) (*gitprovider.Comment, error) {
	opts := &gitlab.ListMergeRequestNotesOptions{
		ListOptions: gitlab.ListOptions{PerPage: listNotesPageSize},
	}
	for {
		notes, res, err := p.client.ListMergeRequestNotes(
			p.projectName,
			int(number),
			opts,
			gitlab.WithContext(ctx),
		)
		if err != nil {
			return nil, gitprovider.NewDeliveryError(
				statusCode(res),
				fmt.Errorf(
					"error listing notes of merge request %d of %s: %w",
					number, p.projectName, err,
				),
			)
		}
		for _, note := range notes {
			if note != nil && strings.Contains(note.Body, marker) {
				return convertGitlabNote(note), nil
			}
		}
		if res == nil || res.NextPage == 0 {
			return nil, nil
		}
		opts.Page = res.NextPage
	}
}

func convertGitlabNote(note *gitlab.Note) *gitprovider.Comment {
	if note == nil {
		return &gitprovider.Comment{}
	}
	return &gitprovider.Comment{
		ID:   int64(note.ID),
		Body: note.Body,
	}
}

func statusCode(res *gitlab.Response) int {
	if res == nil || res.Response == nil {
		return 0
	}
	return res.StatusCode
}
