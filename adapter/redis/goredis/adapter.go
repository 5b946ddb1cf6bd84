// Package goredis implements the rekey store-client boundary on top of
// go-redis v9.
//
// The dialer supports both standalone servers and Redis Cluster /
// Enterprise deployments (cluster mode is the default, as is TLS). The
// driver's internal retry machinery is disabled so that the rekey executor
// owns the retry policy exclusively.
package goredis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	adapter "github.com/arloliu/rekey/adapter/redis"
)

const (
	// DefaultPort is the default port, matching Redis Enterprise clusters.
	DefaultPort = 10000

	// DefaultSocketTimeout is the default read/write timeout.
	DefaultSocketTimeout = 5 * time.Second

	// DefaultSocketConnectTimeout is the default dial timeout.
	DefaultSocketConnectTimeout = 5 * time.Second
)

// ErrMissingHostname indicates a dialer was constructed without a hostname.
var ErrMissingHostname = errors.New("goredis: hostname is required")

// Dialer creates credential-bound connections to one Redis endpoint.
//
// The zero value is not usable; construct with NewDialer.
type Dialer struct {
	hostname             string
	port                 int
	db                   int
	tlsEnabled           bool
	clusterMode          bool
	socketTimeout        time.Duration
	socketConnectTimeout time.Duration
}

// Compile-time assertion that Dialer implements adapter.Dialer.
var _ adapter.Dialer = (*Dialer)(nil)

// Option configures a Dialer.
type Option func(*Dialer)

// WithPort sets the server port.
//
// Default: 10000 (Redis Enterprise Cluster convention).
func WithPort(port int) Option {
	return func(d *Dialer) {
		d.port = port
	}
}

// WithDB selects the logical database for standalone servers.
//
// Default: 0. Ignored in cluster mode, where Redis supports only
// database 0.
func WithDB(db int) Option {
	return func(d *Dialer) {
		d.db = db
	}
}

// WithTLS enables or disables TLS on the connection.
//
// Default: enabled.
func WithTLS(enabled bool) Option {
	return func(d *Dialer) {
		d.tlsEnabled = enabled
	}
}

// WithClusterMode enables or disables cluster-mode connections.
//
// Default: enabled. Disable for standalone servers.
func WithClusterMode(enabled bool) Option {
	return func(d *Dialer) {
		d.clusterMode = enabled
	}
}

// WithSocketTimeout sets the read/write timeout for store calls.
//
// Default: 5s. This is the only deadline store calls have; the rekey
// executor adds attempt bounds but no deadline of its own.
func WithSocketTimeout(timeout time.Duration) Option {
	return func(d *Dialer) {
		d.socketTimeout = timeout
	}
}

// WithSocketConnectTimeout sets the dial timeout.
//
// Default: 5s.
func WithSocketConnectTimeout(timeout time.Duration) Option {
	return func(d *Dialer) {
		d.socketConnectTimeout = timeout
	}
}

// NewDialer creates a Dialer for the given hostname.
//
// Parameters:
//   - hostname: The server hostname (required)
//   - opts: Optional configuration options
//
// Returns:
//   - *Dialer: A new dialer
//   - error: ErrMissingHostname if hostname is empty
func NewDialer(hostname string, opts ...Option) (*Dialer, error) {
	if hostname == "" {
		return nil, ErrMissingHostname
	}

	d := &Dialer{
		hostname:             hostname,
		port:                 DefaultPort,
		tlsEnabled:           true,
		clusterMode:          true,
		socketTimeout:        DefaultSocketTimeout,
		socketConnectTimeout: DefaultSocketConnectTimeout,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Addr returns the host:port the dialer connects to.
func (d *Dialer) Addr() string {
	return fmt.Sprintf("%s:%d", d.hostname, d.port)
}

// Dial creates a new connection authenticated with the given secret.
//
// go-redis connects lazily, so Dial itself does not perform the handshake;
// the caller's Ping does. Driver-internal retries are disabled
// (MaxRetries=-1) so the rekey executor is the only retry layer.
//
// Parameters:
//   - ctx: Context for connection establishment (unused by the lazy driver)
//   - secret: The access key to authenticate with
//
// Returns:
//   - adapter.Conn: The new connection
//   - error: nil (construction itself cannot fail)
func (d *Dialer) Dial(_ context.Context, secret string) (adapter.Conn, error) {
	var tlsConfig *tls.Config
	if d.tlsEnabled {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: d.hostname,
		}
	}

	var client redis.UniversalClient
	if d.clusterMode {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        []string{d.Addr()},
			Password:     secret,
			TLSConfig:    tlsConfig,
			DialTimeout:  d.socketConnectTimeout,
			ReadTimeout:  d.socketTimeout,
			WriteTimeout: d.socketTimeout,
			MaxRetries:   -1,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         d.Addr(),
			Password:     secret,
			DB:           d.db,
			TLSConfig:    tlsConfig,
			DialTimeout:  d.socketConnectTimeout,
			ReadTimeout:  d.socketTimeout,
			WriteTimeout: d.socketTimeout,
			MaxRetries:   -1,
		})
	}

	return &conn{client: client}, nil
}

// conn adapts a go-redis client to the adapter.Conn interface.
type conn struct {
	client redis.UniversalClient
	closed atomic.Bool
}

// Compile-time assertion that conn implements adapter.Conn.
var _ adapter.Conn = (*conn)(nil)

// Ping verifies liveness and authentication.
func (c *conn) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get reads the value stored under key. An absent key is not an error.
func (c *conn) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return val, true, nil
}

// Set stores value under key without an expiration.
func (c *conn) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, key, value, 0).Err()
}

// Expire sets a time-to-live on an existing key.
func (c *conn) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

// Del removes key, reporting whether a key was removed.
func (c *conn) Del(ctx context.Context, key string) (bool, error) {
	removed, err := c.client.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return removed > 0, nil
}

// Close releases the underlying client. Idempotent.
func (c *conn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	return c.client.Close()
}
