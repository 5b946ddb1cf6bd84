// Package redis defines the store-client boundary the rekey core
// orchestrates: a Dialer that binds a credential to a new connection, and
// the fixed primitive operation set a connection supports.
//
// The core never talks to a driver directly; it only sees these
// interfaces. The goredis subpackage implements them on go-redis v9 for
// both standalone and cluster deployments.
package redis

import (
	"context"
	"time"
)

// Conn is a live connection to the remote store, bound at dial time to
// exactly one credential and one endpoint.
//
// A Conn transitions only from alive to closed; it is never reopened.
// Close is idempotent.
type Conn interface {
	// Ping verifies liveness and authentication of the connection.
	//
	// Parameters:
	//   - ctx: Context for the probe
	//
	// Returns:
	//   - error: nil if the store responded, the rejection otherwise
	Ping(ctx context.Context) error

	// Get reads the value stored under key.
	//
	// Parameters:
	//   - ctx: Context for the call
	//   - key: The key to read
	//
	// Returns:
	//   - string: The stored value, or "" when absent
	//   - bool: true if the key exists
	//   - error: nil on success (an absent key is not an error)
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key without an expiration.
	Set(ctx context.Context, key, value string) error

	// Expire sets a time-to-live on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Del removes key.
	//
	// Returns:
	//   - bool: true if a key was removed
	//   - error: nil on success
	Del(ctx context.Context, key string) (bool, error)

	// Close releases the connection. It is idempotent; closing an already
	// closed connection returns nil.
	Close() error
}

// Dialer establishes credential-bound connections to one endpoint.
//
// The endpoint, transport, and timeout configuration are fixed at dialer
// construction; only the credential varies per Dial. This is what lets the
// rotation coordinator probe a candidate key against the same endpoint the
// live connection uses.
type Dialer interface {
	// Dial creates a new connection authenticated with the given secret.
	//
	// Implementations may defer the actual handshake; callers verify the
	// credential with Conn.Ping before trusting the connection.
	//
	// Parameters:
	//   - ctx: Context for connection establishment
	//   - secret: The access key to authenticate with
	//
	// Returns:
	//   - Conn: The new connection
	//   - error: nil on success
	Dial(ctx context.Context, secret string) (Conn, error)
}
