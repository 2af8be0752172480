package captain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// DomainKey is the ConfigMap key holding the base domain of the cluster.
const DomainKey = "captain_domain"

// ErrNoDomain is returned when the ConfigMap exists but does not hold a base
// domain.
var ErrNoDomain = errors.New("no captain domain found")

// GetDomain returns the base domain of the cluster from the ConfigMap with
// the given name and namespace. Surrounding whitespace and dots are removed.
func GetDomain(
	ctx context.Context,
	reader client.Reader,
	namespace string,
	name string,
) (string, error) {
	cm := &corev1.ConfigMap{}
	if err := reader.Get(
		ctx,
		types.NamespacedName{Namespace: namespace, Name: name},
		cm,
	); err != nil {
		return "", fmt.Errorf(
			"error getting ConfigMap %q in namespace %q: %w",
			name, namespace, err,
		)
	}
	domain := strings.Trim(strings.TrimSpace(cm.Data[DomainKey]), ".")
	if domain == "" {
		return "", fmt.Errorf(
			"%w: key %q of ConfigMap %q in namespace %q is empty",
			ErrNoDomain, DomainKey, name, namespace,
		)
	}
	return domain, nil
}
