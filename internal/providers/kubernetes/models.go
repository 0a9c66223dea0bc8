package kubernetes

import redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"

// ClusterInfo identifies a Kubernetes cluster and the kubeconfig context used
// to connect to it.
type ClusterInfo struct {
	// ContextName is the kubeconfig context name used to connect.
	ContextName string

	// Server is the Kubernetes API server URL resolved from the kubeconfig.
	Server string

	// Namespace is the context's default namespace ("" when unset).
	Namespace string
}

// PodTarget is a Redis pod discovered in a cluster, ready to be audited.
type PodTarget struct {
	redisprov.Target

	Namespace string
	Pod       string
}

// Metadata returns the report metadata identifying the pod.
func (p PodTarget) Metadata(info ClusterInfo) map[string]any {
	return map[string]any{
		"context":   info.ContextName,
		"namespace": p.Namespace,
		"pod":       p.Pod,
	}
}
