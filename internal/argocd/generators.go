package argocd

import (
	argocd "github.com/glueops/pull-request-bot/api/argocd/v1alpha1"
)

// ResolvePullRequestGenerator finds the ApplicationSet with the given name and
// returns its first pull request generator. Top-level generators are searched
// in order before the children of matrix and merge generators. nil is returned
// if the ApplicationSet does not exist or has no pull request generator.
func ResolvePullRequestGenerator(
	appSets []argocd.ApplicationSet,
	name string,
) *argocd.PullRequestGenerator {
	for i := range appSets {
		if appSets[i].Name != name {
			continue
		}
		generators := appSets[i].Spec.Generators
		for _, gen := range generators {
			if gen.PullRequest != nil {
				return gen.PullRequest
			}
		}
		for _, gen := range generators {
			if nested := nestedPullRequestGenerator(gen); nested != nil {
				return nested
			}
		}
		return nil
	}
	return nil
}

func nestedPullRequestGenerator(
	gen argocd.ApplicationSetGenerator,
) *argocd.PullRequestGenerator {
	var children []argocd.ApplicationSetNestedGenerator
	switch {
	case gen.Matrix != nil:
		children = gen.Matrix.Generators
	case gen.Merge != nil:
		children = gen.Merge.Generators
	}
	for _, child := range children {
		if child.PullRequest != nil {
			return child.PullRequest
		}
	}
	return nil
}
