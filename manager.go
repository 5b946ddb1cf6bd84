package rekey

import (
	"context"
	"time"

	"github.com/arloliu/rekey/adapter/redis"
	"github.com/arloliu/rekey/types"
)

// Manager is a failover-aware client for a credentialed Redis deployment.
//
// It owns a single live connection, the pair of access keys backing it, and
// the recovery machinery that keeps operations flowing across out-of-band
// key rotations: connect-time failover, in-flight failover, and bounded
// retry of transient faults.
//
// A Manager is NOT safe for concurrent use. It mutates the active key slot
// and the live connection without internal locking; callers sharing one
// manager must serialize every call behind their own mutex.
type Manager struct {
	dialer redis.Dialer
	keys   *types.KeySet
	config *ClientConfig

	conn   redis.Conn
	closed bool
}

// Compile-time check that Manager implements Store.
var _ Store = (*Manager)(nil)

// New creates a Manager and eagerly establishes the initial connection.
//
// The primary key is tried first; if it is rejected as a credential failure
// the secondary key is tried once. Any other connect failure propagates
// unchanged.
//
// Parameters:
//   - ctx: Context for the initial connection
//   - dialer: The credential-bound connection factory
//   - primaryKey: The primary access key secret
//   - secondaryKey: The secondary access key secret
//   - opts: Optional configuration options
//
// Returns:
//   - *Manager: The connected manager
//   - error: types.ErrNilDialer, types.ErrEmptySecret, a BothKeysFailedError,
//     or the unclassified connect failure
//
// Example:
//
//	mgr, err := rekey.New(ctx, dialer, primaryKey, secondaryKey,
//	    rekey.WithRetryPolicy(policy.RetryPolicy{MaxAttempts: 5, BaseDelay: 200 * time.Millisecond, Multiplier: 2}),
//	    rekey.WithLogger(logger),
//	)
func New(ctx context.Context, dialer redis.Dialer, primaryKey, secondaryKey string, opts ...Option) (*Manager, error) {
	if dialer == nil {
		return nil, types.ErrNilDialer
	}

	keys, err := types.NewKeySet(primaryKey, secondaryKey)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		dialer: dialer,
		keys:   keys,
		config: config,
	}

	if err := m.connect(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

// validate checks the assembled configuration.
func (c *ClientConfig) validate() error {
	if err := c.Retry.Validate(); err != nil {
		return err
	}

	return c.SlotNames.Validate()
}

// connect establishes a connection with the active key, failing over to the
// secondary key when the active primary is rejected as a credential failure.
//
// Failover is a single hop: a credential rejection on the secondary slot
// terminates with BothKeysFailedError and releases the live connection. Any
// non-credential failure propagates unchanged without switching slots.
//
// On success the previous live connection, if any, is closed and replaced.
func (m *Manager) connect(ctx context.Context) error {
	slot := m.keys.Active()
	m.config.Metrics.IncConnectTotal(slot)

	conn, err := m.dialer.Dial(ctx, m.keys.ActiveSecret())
	if err == nil {
		// The handshake may be lazy; the ping forces it so a stale or
		// rotated credential surfaces here instead of on the first operation.
		if pingErr := conn.Ping(ctx); pingErr != nil {
			if closeErr := conn.Close(); closeErr != nil {
				m.config.Logger.Warn("failed to close rejected connection",
					"slot", m.config.SlotNames.Name(slot),
					"error", closeErr,
				)
			}
			err = pingErr
		}
	}

	if err != nil {
		m.config.Metrics.IncConnectError(slot)

		if m.config.Classifier(err) == types.AuthRotated {
			if slot == types.SlotPrimary {
				m.config.Logger.Warn("primary key rejected, failing over to secondary",
					"error", err,
				)
				m.config.Metrics.IncKeySwitchTotal(types.SlotPrimary, types.SlotSecondary)
				m.keys.Activate(types.SlotSecondary)

				return m.connect(ctx)
			}

			m.releaseConn()
			m.config.Logger.Error("secondary key rejected, no fallback remains", "error", err)

			return &types.BothKeysFailedError{Cause: err}
		}

		return err
	}

	m.replaceConn(conn)
	m.config.Metrics.SetActiveSlot(slot)
	m.config.Logger.Info("connected", "slot", m.config.SlotNames.Name(slot))

	return nil
}

// replaceConn installs conn as the live connection, closing the previous one.
func (m *Manager) replaceConn(conn redis.Conn) {
	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			m.config.Logger.Warn("failed to close previous connection", "error", err)
		}
	}
	m.conn = conn
}

// releaseConn closes and forgets the live connection.
func (m *Manager) releaseConn() {
	if m.conn == nil {
		return
	}
	if err := m.conn.Close(); err != nil {
		m.config.Logger.Warn("failed to close connection", "error", err)
	}
	m.conn = nil
}

// Write stores value under key with automatic failover.
//
// Parameters:
//   - ctx: Context for the operation
//   - key: The key to write
//   - value: The value to store
//
// Returns:
//   - bool: true on success
//   - error: terminal failure after local recovery is exhausted
func (m *Manager) Write(ctx context.Context, key, value string) (bool, error) {
	start := time.Now()
	slot := m.keys.Active()
	m.config.Metrics.IncWriteTotal(slot)

	err := m.execute(ctx, func(ctx context.Context, conn redis.Conn) error {
		return conn.Set(ctx, key, value)
	})

	m.config.Metrics.ObserveWriteDuration(slot, time.Since(start).Seconds())
	if err != nil {
		m.config.Metrics.IncWriteError(slot)
		m.config.Logger.Error("write failed", "key", key, "error", err)

		return false, err
	}

	return true, nil
}

// WriteTTL stores value under key and sets a time-to-live.
//
// SET and EXPIRE are issued as two independent calls with no atomicity
// guarantee: if the process terminates between them, the value persists
// without its intended expiration.
//
// Parameters:
//   - ctx: Context for the operation
//   - key: The key to write
//   - value: The value to store
//   - ttl: The time-to-live to set after the write
//
// Returns:
//   - bool: true on success
//   - error: terminal failure after local recovery is exhausted
func (m *Manager) WriteTTL(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	start := time.Now()
	slot := m.keys.Active()
	m.config.Metrics.IncWriteTotal(slot)

	err := m.execute(ctx, func(ctx context.Context, conn redis.Conn) error {
		if err := conn.Set(ctx, key, value); err != nil {
			return err
		}

		return conn.Expire(ctx, key, ttl)
	})

	m.config.Metrics.ObserveWriteDuration(slot, time.Since(start).Seconds())
	if err != nil {
		m.config.Metrics.IncWriteError(slot)
		m.config.Logger.Error("write with ttl failed", "key", key, "ttl", ttl, "error", err)

		return false, err
	}

	return true, nil
}

// Read fetches the value stored under key with automatic failover.
//
// Parameters:
//   - ctx: Context for the operation
//   - key: The key to read
//
// Returns:
//   - string: The value, or "" when absent
//   - bool: true if the key exists
//   - error: terminal failure after local recovery is exhausted
func (m *Manager) Read(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	slot := m.keys.Active()
	m.config.Metrics.IncReadTotal(slot)

	var (
		value string
		found bool
	)
	err := m.execute(ctx, func(ctx context.Context, conn redis.Conn) error {
		var opErr error
		value, found, opErr = conn.Get(ctx, key)

		return opErr
	})

	m.config.Metrics.ObserveReadDuration(slot, time.Since(start).Seconds())
	if err != nil {
		m.config.Metrics.IncReadError(slot)
		m.config.Logger.Error("read failed", "key", key, "error", err)

		return "", false, err
	}

	return value, found, nil
}

// Delete removes key with automatic failover.
//
// Parameters:
//   - ctx: Context for the operation
//   - key: The key to remove
//
// Returns:
//   - bool: true if a key was removed
//   - error: terminal failure after local recovery is exhausted
func (m *Manager) Delete(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	slot := m.keys.Active()
	m.config.Metrics.IncDeleteTotal(slot)

	var removed bool
	err := m.execute(ctx, func(ctx context.Context, conn redis.Conn) error {
		var opErr error
		removed, opErr = conn.Del(ctx, key)

		return opErr
	})

	m.config.Metrics.ObserveDeleteDuration(slot, time.Since(start).Seconds())
	if err != nil {
		m.config.Metrics.IncDeleteError(slot)
		m.config.Logger.Error("delete failed", "key", key, "error", err)

		return false, err
	}

	return removed, nil
}

// ActiveSlot returns the key slot backing the live connection.
func (m *Manager) ActiveSlot() types.KeySlot {
	return m.keys.Active()
}

// Close releases the live connection. The manager cannot be reused; any
// subsequent operation returns types.ErrClosed. Close is idempotent.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.releaseConn()
	m.config.Logger.Info("manager closed")
}
