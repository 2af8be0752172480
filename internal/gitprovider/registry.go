package gitprovider

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	ProviderGitHub = "github"
	ProviderGitLab = "gitlab"
	ProviderGitea  = "gitea"
)

// Registration holds details on how to instantiate a Git provider. It allows
// programs to selectively register Interface implementations by anonymously
// importing implementation packages.
type Registration struct {
	// NewProvider instantiates the Git provider for the given repository.
	NewProvider func(repo *Repository, opts *Options) (Interface, error)
}

var (
	registeredProviders   = map[string]Registration{}
	registeredProvidersMu sync.RWMutex
)

// Register is called by provider implementation packages to register
// themselves as a Git provider.
func Register(name string, reg Registration) {
	registeredProvidersMu.Lock()
	defer registeredProvidersMu.Unlock()
	if _, alreadyRegistered := registeredProviders[name]; alreadyRegistered {
		panic(fmt.Sprintf("Provider %q already registered", name))
	}
	registeredProviders[name] = reg
}

// New returns an implementation of Interface for the given repository using
// the provider it names.
func New(repo *Repository, opts *Options) (Interface, error) {
	if repo == nil {
		return nil, fmt.Errorf("no repository specified")
	}
	registeredProvidersMu.RLock()
	reg, ok := registeredProviders[repo.Provider]
	registeredProvidersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no registered provider with name %q", repo.Provider)
	}
	if opts == nil {
		opts = &Options{}
	}
	return reg.NewProvider(repo, opts)
}

// NewHTTPClient returns an HTTP client for talking to a provider's API as
// described by opts.
func NewHTTPClient(opts *Options) *http.Client {
	httpClient := cleanhttp.DefaultClient()
	if opts.InsecureSkipTLSVerify {
		transport := cleanhttp.DefaultTransport()
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, // nolint: gosec
		}
		httpClient.Transport = transport
	}
	httpClient.Timeout = opts.Timeout
	return httpClient
}
