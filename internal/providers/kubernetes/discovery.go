package kubernetes

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sclient "k8s.io/client-go/kubernetes"

	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
)

// DefaultSelector matches pods labelled by the common Redis Helm charts and
// operators.
const DefaultSelector = "app.kubernetes.io/name=redis"

// redisPortName is the container port name that overrides the default port.
const redisPortName = "redis"

// DiscoverTargets lists pods in namespace (all namespaces when empty) that
// match the label selector and returns one PodTarget per running pod with an
// assigned IP. A container port named "redis" takes precedence over port.
//
// Targets are sorted by namespace, then pod name, so repeated discoveries
// audit pods in the same order.
func DiscoverTargets(ctx context.Context, clientset k8sclient.Interface, namespace, selector string, port int) ([]PodTarget, error) {
	if port <= 0 {
		port = redisprov.DefaultPort
	}

	podList, err := clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, fmt.Errorf("list pods (namespace %q, selector %q): %w", namespace, selector, err)
	}

	targets := make([]PodTarget, 0, len(podList.Items))
	for _, p := range podList.Items {
		if p.Status.Phase != corev1.PodRunning || p.Status.PodIP == "" {
			continue
		}
		podPort := namedRedisPort(p.Spec.Containers, port)
		targets = append(targets, PodTarget{
			Target: redisprov.Target{
				Addr: net.JoinHostPort(p.Status.PodIP, strconv.Itoa(podPort)),
				Name: p.Namespace + "/" + p.Name,
			},
			Namespace: p.Namespace,
			Pod:       p.Name,
		})
	}

	sort.Slice(targets, func(i, j int) bool {
		if targets[i].Namespace != targets[j].Namespace {
			return targets[i].Namespace < targets[j].Namespace
		}
		return targets[i].Pod < targets[j].Pod
	})
	return targets, nil
}

// namedRedisPort returns the first container port named "redis", or fallback.
func namedRedisPort(containers []corev1.Container, fallback int) int {
	for _, c := range containers {
		for _, cp := range c.Ports {
			if cp.Name == redisPortName && cp.ContainerPort > 0 {
				return int(cp.ContainerPort)
			}
		}
	}
	return fallback
}
