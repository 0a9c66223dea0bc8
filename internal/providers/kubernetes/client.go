package kubernetes

import k8sclient "k8s.io/client-go/kubernetes"

// KubeClientProvider creates kubernetes clientsets for named kubeconfig contexts.
// Tests inject a fake clientset through it; nothing else touches the kubeconfig.
type KubeClientProvider interface {
	// ClientsetForContext returns a clientset and the resolved ClusterInfo for
	// the given kubeconfig context. Pass an empty string to use the current
	// context from the loaded kubeconfig.
	ClientsetForContext(contextName string) (k8sclient.Interface, ClusterInfo, error)
}

// DefaultKubeClientProvider builds real clientsets from a kubeconfig file.
// An empty Kubeconfig selects $KUBECONFIG, then ~/.kube/config.
type DefaultKubeClientProvider struct {
	Kubeconfig string
}

// NewDefaultKubeClientProvider returns a provider reading kubeconfigPath, or
// the system kubeconfig when kubeconfigPath is empty.
func NewDefaultKubeClientProvider(kubeconfigPath string) *DefaultKubeClientProvider {
	return &DefaultKubeClientProvider{Kubeconfig: kubeconfigPath}
}

// ClientsetForContext implements KubeClientProvider.
func (p *DefaultKubeClientProvider) ClientsetForContext(contextName string) (k8sclient.Interface, ClusterInfo, error) {
	path := p.Kubeconfig
	if path == "" {
		path = resolveKubeconfigPath()
	}
	return LoadClientset(path, contextName)
}
