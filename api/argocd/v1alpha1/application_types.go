package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const ApplicationSetKind = "ApplicationSet"

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status

type Application struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata"`
	Spec              ApplicationSpec   `json:"spec"`
	Status            ApplicationStatus `json:"status,omitempty"`
}

type ApplicationSpec struct {
	Project     string                 `json:"project,omitempty"`
	Destination ApplicationDestination `json:"destination,omitempty"`
}

type ApplicationDestination struct {
	Server    string `json:"server,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name,omitempty"`
}

type ApplicationStatus struct {
	Health  HealthStatus       `json:"health,omitempty"`
	Sync    SyncStatus         `json:"sync,omitempty"`
	Summary ApplicationSummary `json:"summary,omitempty"`
}

// ApplicationSummary holds Argo CD's digest of an Application's resources.
// ExternalURLs is populated from Ingress hosts and LoadBalancer addresses and
// may be empty while those are still being provisioned.
type ApplicationSummary struct {
	ExternalURLs []string `json:"externalURLs,omitempty"`
	Images       []string `json:"images,omitempty"`
}

type HealthStatusCode string

const (
	HealthStatusUnknown     HealthStatusCode = "Unknown"
	HealthStatusProgressing HealthStatusCode = "Progressing"
	HealthStatusHealthy     HealthStatusCode = "Healthy"
	HealthStatusDegraded    HealthStatusCode = "Degraded"
	HealthStatusMissing     HealthStatusCode = "Missing"
)

type HealthStatus struct {
	Status  HealthStatusCode `json:"status,omitempty"`
	Message string           `json:"message,omitempty"`
}

type SyncStatusCode string

const (
	SyncStatusCodeSynced    SyncStatusCode = "Synced"
	SyncStatusCodeOutOfSync SyncStatusCode = "OutOfSync"
)

type SyncStatus struct {
	Status   SyncStatusCode `json:"status,omitempty"`
	Revision string         `json:"revision,omitempty"`
}

//+kubebuilder:object:root=true

type ApplicationList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata"`
	Items           []Application `json:"items"`
}

// DestinationNamespace returns the namespace the Application deploys into,
// falling back to the namespace of the Application resource itself.
func (a *Application) DestinationNamespace() string {
	if a.Spec.Destination.Namespace != "" {
		return a.Spec.Destination.Namespace
	}
	return a.Namespace
}
