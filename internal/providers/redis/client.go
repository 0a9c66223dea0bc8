package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultPort is the port assumed when a target address omits one.
const DefaultPort = 6379

// ConfigClient is the read-only slice of a Redis connection the auditor needs.
// It is an interface so tests can inject canned replies without a server.
type ConfigClient interface {
	// ConfigGet issues a single CONFIG GET for all keys and returns the raw
	// reply exactly as the server produced it.
	ConfigGet(ctx context.Context, keys []string) (any, error)

	// Ping checks that the server is reachable and the credentials are accepted.
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close() error
}

// ClientProvider opens ConfigClients for audit targets.
type ClientProvider interface {
	ClientFor(target Target) (ConfigClient, error)
}

// Target identifies one Redis instance to audit.
type Target struct {
	// Addr is host:port.
	Addr string `json:"addr"`

	// Name is an optional display label (e.g. "cache/redis-0" for a pod).
	Name string `json:"name,omitempty"`
}

// String returns the display label, falling back to the address.
func (t Target) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Addr
}

// ParseTarget normalises addr into a Target, appending DefaultPort when no
// port is given. Bracketed IPv6 literals are accepted.
func ParseTarget(addr string) (Target, error) {
	if addr == "" {
		return Target{}, fmt.Errorf("empty target address")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		// No port: treat the whole string as the host.
		host = addr
		if len(host) > 1 && host[0] == '[' && host[len(host)-1] == ']' {
			host = host[1 : len(host)-1]
		}
		port = strconv.Itoa(DefaultPort)
	}
	if host == "" {
		return Target{}, fmt.Errorf("target %q: missing host", addr)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return Target{}, fmt.Errorf("target %q: invalid port %q", addr, port)
	}
	return Target{Addr: net.JoinHostPort(host, port)}, nil
}

// ClientOptions holds connection settings shared by every target of a run.
type ClientOptions struct {
	Username string
	Password string
	DB       int

	// TLS enables TLS; TLSInsecure additionally skips certificate verification.
	TLS         bool
	TLSInsecure bool

	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// DefaultClientProvider opens go-redis clients with shared ClientOptions.
type DefaultClientProvider struct {
	opts ClientOptions
}

// NewDefaultClientProvider returns a provider that dials real servers.
func NewDefaultClientProvider(opts ClientOptions) *DefaultClientProvider {
	return &DefaultClientProvider{opts: opts}
}

// ClientFor implements ClientProvider. No connection is made until the first
// command is issued.
func (p *DefaultClientProvider) ClientFor(target Target) (ConfigClient, error) {
	if target.Addr == "" {
		return nil, fmt.Errorf("target %q has no address", target.Name)
	}
	return &goRedisClient{rdb: goredis.NewClient(p.redisOptions(target))}, nil
}

// redisOptions maps ClientOptions onto go-redis options for target.
// RESP2 is pinned so CONFIG GET always answers with a flat key/value array.
func (p *DefaultClientProvider) redisOptions(target Target) *goredis.Options {
	o := &goredis.Options{
		Addr:     target.Addr,
		Username: p.opts.Username,
		Password: p.opts.Password,
		DB:       p.opts.DB,
		Protocol: 2,
		// The auditor issues one command per target; retries would hide
		// the failure the caller is supposed to see.
		MaxRetries:  -1,
		DialTimeout: p.opts.DialTimeout,
		ReadTimeout: p.opts.ReadTimeout,
		PoolSize:    1,
	}
	if p.opts.TLS {
		host, _, err := net.SplitHostPort(target.Addr)
		if err != nil {
			host = target.Addr
		}
		o.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			ServerName:         host,
			InsecureSkipVerify: p.opts.TLSInsecure, //nolint:gosec // opt-in via --tls-insecure
		}
	}
	return o
}

// goRedisClient adapts *goredis.Client to ConfigClient.
type goRedisClient struct {
	rdb *goredis.Client
}

func (c *goRedisClient) ConfigGet(ctx context.Context, keys []string) (any, error) {
	args := make([]any, 0, len(keys)+2)
	args = append(args, "CONFIG", "GET")
	for _, k := range keys {
		args = append(args, k)
	}
	return c.rdb.Do(ctx, args...).Result()
}

func (c *goRedisClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *goRedisClient) Close() error {
	return c.rdb.Close()
}
