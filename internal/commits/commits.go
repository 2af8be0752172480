package commits

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	argocd "github.com/glueops/pull-request-bot/api/argocd/v1alpha1"
)

const (
	// AnnotationHeadSHA is set by the ApplicationSet pull request generator
	// templates to the SHA of the commit at the head of the pull request.
	AnnotationHeadSHA = "head_sha"
	// AnnotationPullRequestNumber is set by the ApplicationSet pull request
	// generator templates to the number of the pull request.
	AnnotationPullRequestNumber = "pull_request_number"
)

var (
	// ErrNotReady indicates that an Application is missing data its owning
	// controller has not populated yet. It is expected and transient.
	ErrNotReady = errors.New("application not ready")
	// ErrNotGenerated indicates that an Application is owned, but not by an
	// ApplicationSet, so there is no pull request to report to.
	ErrNotGenerated = errors.New("application not generated by an ApplicationSet")
)

// Record is everything known about one deployed commit of one pull request.
type Record struct {
	SHA               string
	PullRequestNumber int64
	// ApplicationSet is the name of the ApplicationSet that generated the
	// Application.
	ApplicationSet string
	Application    string
	// Namespace is the namespace the Application deploys into.
	Namespace    string
	ExternalURLs []string
}

// PreviewURL returns the first external URL of the deployment.
func (r *Record) PreviewURL() string {
	if len(r.ExternalURLs) == 0 {
		return ""
	}
	return r.ExternalURLs[0]
}

// HeadSHA returns the commit SHA annotation of app, if any.
func HeadSHA(app *argocd.Application) (string, bool) {
	sha := strings.TrimSpace(app.Annotations[AnnotationHeadSHA])
	return sha, sha != ""
}

// Seen reports whether a commit has already been taken care of.
type Seen func(sha string) bool

// Filter returns, in their original order, the Applications that have at
// least one owner reference and a commit SHA annotation for which seen returns
// false. Applications without the annotation are skipped since their owner may
// still be populating them.
func Filter(apps []argocd.Application, seen Seen) []argocd.Application {
	var candidates []argocd.Application
	for _, app := range apps {
		if len(app.OwnerReferences) == 0 {
			continue
		}
		sha, ok := HeadSHA(&app)
		if !ok {
			continue
		}
		if seen != nil && seen(sha) {
			continue
		}
		candidates = append(candidates, app)
	}
	return candidates
}

// Extract builds a Record from app. It returns an error wrapping ErrNotReady
// if the commit SHA, pull request number or an external URL is missing and
// one wrapping ErrNotGenerated if no owner is an ApplicationSet.
func Extract(app *argocd.Application) (*Record, error) {
	sha, ok := HeadSHA(app)
	if !ok {
		return nil, fmt.Errorf("%w: no %s annotation", ErrNotReady, AnnotationHeadSHA)
	}
	prStr := strings.TrimSpace(app.Annotations[AnnotationPullRequestNumber])
	if prStr == "" {
		return nil, fmt.Errorf(
			"%w: no %s annotation",
			ErrNotReady, AnnotationPullRequestNumber,
		)
	}
	prNumber, err := strconv.ParseInt(prStr, 10, 64)
	if err != nil || prNumber <= 0 {
		return nil, fmt.Errorf(
			"%w: %s annotation %q is not a pull request number",
			ErrNotReady, AnnotationPullRequestNumber, prStr,
		)
	}

	var appSet string
	for _, ref := range app.OwnerReferences {
		if ref.Kind == argocd.ApplicationSetKind {
			appSet = ref.Name
			break
		}
	}
	if appSet == "" {
		return nil, ErrNotGenerated
	}

	var urls []string
	for _, u := range app.Status.Summary.ExternalURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no external URL", ErrNotReady)
	}

	return &Record{
		SHA:               sha,
		PullRequestNumber: prNumber,
		ApplicationSet:    appSet,
		Application:       app.Name,
		Namespace:         app.DestinationNamespace(),
		ExternalURLs:      urls,
	}, nil
}
