//go:generate go run sigs.k8s.io/controller-tools/cmd/controller-gen@v0.19.0 object paths=.

// Package v1alpha1 contains the subset of Argo CD's argoproj.io/v1alpha1
// Application and ApplicationSet APIs that the bot reads.
//
// +kubebuilder:object:generate=true
// +groupName=argoproj.io
package v1alpha1
