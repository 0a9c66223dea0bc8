package engine_test

import (
	"context"
	"fmt"
	"sync"

	redisprov "github.com/pankaj-dahiya-devops/redisguard/internal/providers/redis"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

// fakeClient answers CONFIG GET from a fixed key/value map, in the order the
// keys were requested, the way a RESP2 server does.
type fakeClient struct {
	values map[string]string
	reply  any // overrides values when non-nil
	err    error
	block  bool // wait for ctx cancellation before answering

	mu     sync.Mutex
	calls  int
	closed bool
}

func (c *fakeClient) ConfigGet(ctx context.Context, keys []string) (any, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if c.err != nil {
		return nil, c.err
	}
	if c.reply != nil {
		return c.reply, nil
	}
	out := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		if v, ok := c.values[k]; ok {
			out = append(out, k, v)
		}
	}
	return out, nil
}

func (c *fakeClient) Ping(context.Context) error { return c.err }

func (c *fakeClient) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// fakeProvider hands out one fakeClient per target address.
type fakeProvider struct {
	clients map[string]*fakeClient
}

func (p *fakeProvider) ClientFor(target redisprov.Target) (redisprov.ConfigClient, error) {
	c, ok := p.clients[target.Addr]
	if !ok {
		return nil, fmt.Errorf("no fake client for %s", target.Addr)
	}
	return c, nil
}
