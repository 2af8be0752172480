package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

//+kubebuilder:object:root=true

type ApplicationSet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata"`
	Spec              ApplicationSetSpec `json:"spec"`
}

type ApplicationSetSpec struct {
	Generators []ApplicationSetGenerator `json:"generators"`
}

// ApplicationSetGenerator is a single entry of spec.generators. Only the
// generator kinds this module needs to inspect are modeled; the rest are
// dropped on decode.
type ApplicationSetGenerator struct {
	PullRequest *PullRequestGenerator `json:"pullRequest,omitempty"`
	Matrix      *MatrixGenerator      `json:"matrix,omitempty"`
	Merge       *MergeGenerator       `json:"merge,omitempty"`
}

type ApplicationSetNestedGenerator struct {
	PullRequest *PullRequestGenerator `json:"pullRequest,omitempty"`
}

type MatrixGenerator struct {
	Generators []ApplicationSetNestedGenerator `json:"generators"`
}

type MergeGenerator struct {
	Generators []ApplicationSetNestedGenerator `json:"generators"`
	MergeKeys  []string                        `json:"mergeKeys,omitempty"`
}

type PullRequestGenerator struct {
	Github              *PullRequestGeneratorGithub `json:"github,omitempty"`
	GitLab              *PullRequestGeneratorGitLab `json:"gitlab,omitempty"`
	Gitea               *PullRequestGeneratorGitea  `json:"gitea,omitempty"`
	RequeueAfterSeconds *int64                      `json:"requeueAfterSeconds,omitempty"`
}

type PullRequestGeneratorGithub struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	// API is the GitHub API base URL. Empty means api.github.com.
	API           string     `json:"api,omitempty"`
	TokenRef      *SecretRef `json:"tokenRef,omitempty"`
	AppSecretName string     `json:"appSecretName,omitempty"`
	Labels        []string   `json:"labels,omitempty"`
}

type PullRequestGeneratorGitLab struct {
	Project          string     `json:"project"`
	API              string     `json:"api,omitempty"`
	TokenRef         *SecretRef `json:"tokenRef,omitempty"`
	Labels           []string   `json:"labels,omitempty"`
	PullRequestState string     `json:"pullRequestState,omitempty"`
	Insecure         bool       `json:"insecure,omitempty"`
}

type PullRequestGeneratorGitea struct {
	Owner    string     `json:"owner"`
	Repo     string     `json:"repo"`
	API      string     `json:"api"`
	TokenRef *SecretRef `json:"tokenRef,omitempty"`
	Insecure bool       `json:"insecure,omitempty"`
}

type SecretRef struct {
	SecretName string `json:"secretName"`
	Key        string `json:"key"`
}

//+kubebuilder:object:root=true

type ApplicationSetList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata"`
	Items           []ApplicationSet `json:"items"`
}
