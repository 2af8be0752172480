package links

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	lokiDashboardPath    = "/d/tBmi6B0Vz/loki-logs"
	metricsDashboardPath = "/d/a164a7f0339f99e89cea5cb47e9be617/kubernetes-compute-resources-workload"
)

// Links are the human-facing URLs shown for one deployment. Any of them may be
// empty when they cannot be built.
type Links struct {
	ArgoCD  string
	Logs    string
	Metrics string
}

// Builder derives dashboard URLs from the cluster's base domain. The zero
// value, or one built from an empty domain, builds empty links.
type Builder struct {
	domain string
}

// NewBuilder returns a Builder for the given base domain.
func NewBuilder(domain string) Builder {
	return Builder{domain: strings.Trim(strings.TrimSpace(domain), ".")}
}

// Domain returns the base domain links are built from.
func (b Builder) Domain() string {
	return b.domain
}

// Build returns every link for the named Application deploying into
// namespace.
func (b Builder) Build(namespace, app string) Links {
	return Links{
		ArgoCD:  b.ArgoCD(app),
		Logs:    b.Logs(app),
		Metrics: b.Metrics(namespace, app),
	}
}

// ArgoCD returns the Argo CD details page of the named Application.
func (b Builder) ArgoCD(app string) string {
	if b.domain == "" {
		return ""
	}
	return fmt.Sprintf("https://argocd.%s/applications/%s", b.domain, url.PathEscape(app))
}

// Logs returns the Grafana Loki dashboard for the named workload over the last
// three hours.
func (b Builder) Logs(app string) string {
	if b.domain == "" {
		return ""
	}
	return fmt.Sprintf(
		"%s%s?orgId=1&var-workload=%s&from=now-3h&to=now",
		b.grafana(), lokiDashboardPath, url.QueryEscape(app),
	)
}

// Metrics returns the Grafana compute resources dashboard for the named
// workload.
func (b Builder) Metrics(namespace, app string) string {
	if b.domain == "" {
		return ""
	}
	return fmt.Sprintf(
		"%s%s?var-datasource=Prometheus&var-cluster=&var-namespace=%s"+
			"&var-workload=%s&var-type=deployment&orgId=1",
		b.grafana(), metricsDashboardPath,
		url.QueryEscape(namespace), url.QueryEscape(app),
	)
}

func (b Builder) grafana() string {
	return "https://grafana." + b.domain
}
