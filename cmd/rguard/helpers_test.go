package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	k8sclient "k8s.io/client-go/kubernetes"

	s3export "github.com/pankaj-dahiya-devops/redisguard/internal/providers/aws/s3"
	kube "github.com/pankaj-dahiya-devops/redisguard/internal/providers/kubernetes"
	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
)

// ── Redis fakes ───────────────────────────────────────────────────────────────

// stubClient answers CONFIG GET from a fixed key/value map.
type stubClient struct {
	values  map[string]string
	err     error
	pingErr error

	mu     sync.Mutex
	closed bool
}

func (c *stubClient) ConfigGet(_ context.Context, keys []string) (any, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		if v, ok := c.values[k]; ok {
			out = append(out, k, v)
		}
	}
	return out, nil
}

func (c *stubClient) Ping(context.Context) error { return c.pingErr }

func (c *stubClient) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// stubProvider hands out stubClients by address and records the options it
// was built with.
type stubProvider struct {
	clients map[string]*stubClient
	opts    redisprov.ClientOptions
}

func (p *stubProvider) ClientFor(target redisprov.Target) (redisprov.ConfigClient, error) {
	c, ok := p.clients[target.Addr]
	if !ok {
		return nil, fmt.Errorf("dial tcp %s: connection refused", target.Addr)
	}
	return c, nil
}

// insecureValues trips every rule of the baseline pack.
func insecureValues() map[string]string {
	return map[string]string{
		"requirepass":    "",
		"protected-mode": "no",
		"bind":           "0.0.0.0",
		"port":           "6379",
	}
}

// secureValues trips no rule of the baseline pack.
func secureValues() map[string]string {
	return map[string]string{
		"requirepass":    "s3cret-value",
		"protected-mode": "yes",
		"bind":           "127.0.0.1 -::1",
		"port":           "6380",
	}
}

// ── Kubernetes fakes ──────────────────────────────────────────────────────────

// testKubeProvider implements kube.KubeClientProvider backed by a pre-built
// fake clientset. It records the context name passed to ClientsetForContext so
// tests can assert the flag is forwarded correctly.
type testKubeProvider struct {
	clientset     k8sclient.Interface
	info          kube.ClusterInfo
	calledWithCtx string
	kubeconfig    string
}

func (p *testKubeProvider) ClientsetForContext(contextName string) (k8sclient.Interface, kube.ClusterInfo, error) {
	p.calledWithCtx = contextName
	return p.clientset, p.info, nil
}

// ── AWS fakes ─────────────────────────────────────────────────────────────────

type mockSTS struct {
	account string
	err     error
}

func (m *mockSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &sts.GetCallerIdentityOutput{
		Account: aws.String(m.account),
		Arn:     aws.String("arn:aws:iam::" + m.account + ":user/auditor"),
	}, nil
}

type mockPutObject struct {
	input *awss3.PutObjectInput
	body  []byte
}

func (m *mockPutObject) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	m.input = in
	if in.Body != nil {
		m.body, _ = io.ReadAll(in.Body)
	}
	return &awss3.PutObjectOutput{}, nil
}

// mockAWSLoader returns a session built from mock clients.
type mockAWSLoader struct {
	sts *mockSTS
	s3  *mockPutObject
	err error

	lastProfile string
}

func (m *mockAWSLoader) Load(_ context.Context, profile, region string) (*s3export.Session, error) {
	m.lastProfile = profile
	if m.err != nil {
		return nil, m.err
	}
	if region == "" {
		region = "us-east-1"
	}
	return &s3export.Session{
		ProfileName: profile,
		Region:      region,
		Clients:     &s3export.ClientSet{STS: m.sts, S3: m.s3},
	}, nil
}

func goodMockAWS() *mockAWSLoader {
	return &mockAWSLoader{sts: &mockSTS{account: "123456789012"}, s3: &mockPutObject{}}
}

// ── harness ───────────────────────────────────────────────────────────────────

// newTestApp returns an app wired to fakes only.
func newTestApp(p *stubProvider, k *testKubeProvider, awsL *mockAWSLoader) *app {
	if p == nil {
		p = &stubProvider{}
	}
	if awsL == nil {
		awsL = goodMockAWS()
	}
	return &app{
		newRedisProvider: func(opts redisprov.ClientOptions) redisprov.ClientProvider {
			p.opts = opts
			return p
		},
		newKubeProvider: func(kubeconfig string) kube.KubeClientProvider {
			if k == nil {
				return kube.NewDefaultKubeClientProvider(kubeconfig)
			}
			k.kubeconfig = kubeconfig
			return k
		},
		awsLoader: awsL,
	}
}

// chdirTemp moves the test into a fresh directory with no config or policy
// file and points $HOME there as well.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

// execute runs the root command with args and returns stdout, stderr and the
// command error.
func execute(t *testing.T, a *app, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmdWith(a)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
