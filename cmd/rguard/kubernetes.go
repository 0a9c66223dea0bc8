package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/redisguard/internal/models"
	kube "github.com/pankaj-dahiya-devops/redisguard/internal/providers/kubernetes"
	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
)

func newKubernetesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kubernetes",
		Short: "Kubernetes provider commands",
	}
	cmd.AddCommand(newKubernetesAuditCmd(a))
	return cmd
}

func newKubernetesAuditCmd(a *app) *cobra.Command {
	var (
		kubeconfig    string
		contextName   string
		namespace     string
		allNamespaces bool
		selector      string
		port          int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Discover Redis pods in a cluster and audit each one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientset, info, err := a.newKubeProvider(kubeconfig).ClientsetForContext(contextName)
			if err != nil {
				return err
			}

			ns := namespace
			switch {
			case allNamespaces:
				ns = ""
			case ns == "":
				ns = info.Namespace
			}

			pods, err := kube.DiscoverTargets(cmd.Context(), clientset, ns, selector, port)
			if err != nil {
				return err
			}
			if len(pods) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No Redis pods found (context %q, selector %q).\n", info.ContextName, selector)
				return nil
			}

			targets := make([]redisprov.Target, len(pods))
			for i, p := range pods {
				targets[i] = p.Target
			}
			return a.runAudit(cmd.Context(), cmd.OutOrStdout(), targets, func(i int, r *models.AuditReport) {
				r.Metadata = pods[i].Metadata(info)
			})
		},
	}

	cmd.Flags().StringVar(&kubeconfig, "kubeconfig", "", "Kubeconfig file (default: $KUBECONFIG, then ~/.kube/config)")
	cmd.Flags().StringVar(&contextName, "context", "", "Kubeconfig context (default: current context)")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace to search (default: the context's namespace)")
	cmd.Flags().BoolVarP(&allNamespaces, "all-namespaces", "A", false, "Search every namespace")
	cmd.Flags().StringVarP(&selector, "selector", "l", kube.DefaultSelector, "Label selector for Redis pods")
	cmd.Flags().IntVar(&port, "port", redisprov.DefaultPort, `Redis port when no container port is named "redis"`)
	addConnectionFlags(cmd.Flags())
	addCatalogueFlags(cmd.Flags())
	addReportFlags(cmd.Flags())
	return cmd
}
