package argocd

import (
	"context"
	"errors"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/client"

	argocd "github.com/glueops/pull-request-bot/api/argocd/v1alpha1"
)

// ErrSourceUnavailable is returned (wrapped) when a full snapshot of
// Applications or ApplicationSets could not be obtained from the cluster.
var ErrSourceUnavailable = errors.New("deployment object source unavailable")

// Source lists Argo CD Applications and ApplicationSets. Every call returns a
// fresh, cluster-wide snapshot.
type Source interface {
	ListApplications(context.Context) ([]argocd.Application, error)
	ListApplicationSets(context.Context) ([]argocd.ApplicationSet, error)
}

type source struct {
	// The following behaviors are overridable for testing purposes:
	listFn func(context.Context, client.ObjectList, ...client.ListOption) error
}

// NewSource returns a Source backed by the provided client.Reader. Callers
// should supply an uncached reader (e.g. a manager's API reader) so that every
// cycle sees the current state of the cluster.
func NewSource(reader client.Reader) Source {
	return &source{listFn: reader.List}
}

func (s *source) ListApplications(ctx context.Context) ([]argocd.Application, error) {
	apps := argocd.ApplicationList{}
	if err := s.listFn(ctx, &apps); err != nil {
		return nil, fmt.Errorf(
			"%w: error listing Argo CD Applications: %w",
			ErrSourceUnavailable, err,
		)
	}
	return apps.Items, nil
}

func (s *source) ListApplicationSets(ctx context.Context) ([]argocd.ApplicationSet, error) {
	appSets := argocd.ApplicationSetList{}
	if err := s.listFn(ctx, &appSets); err != nil {
		return nil, fmt.Errorf(
			"%w: error listing Argo CD ApplicationSets: %w",
			ErrSourceUnavailable, err,
		)
	}
	return appSets.Items, nil
}
