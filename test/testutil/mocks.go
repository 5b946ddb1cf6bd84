package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arloliu/rekey/adapter/redis"
)

// AuthRequiredError returns an error shaped like the server reply to an
// unauthenticated or wrongly authenticated command.
func AuthRequiredError() error {
	return errors.New("NOAUTH Authentication required.")
}

// CrossSlotError returns an error shaped like the cluster reply to a
// multi-key command whose keys hash to different slots.
func CrossSlotError() error {
	return errors.New("CROSSSLOT Keys in request don't hash to the same slot")
}

// TimeoutError returns a net.Error-compatible timeout for retry tests.
func TimeoutError() error {
	return &timeoutError{}
}

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }

// MockDialer is an in-memory implementation of redis.Dialer for testing.
//
// It models the server side of credential rotation: each secret is either
// accepted or rejected, and the set of accepted secrets can change at any
// time. Connections handed out by the dialer re-check their secret on every
// operation, so invalidating a secret mid-test makes in-flight connections
// start failing with an auth reply, exactly like a real rotation.
//
// All connections share one key/value store, so data written before a
// failover is visible after it.
type MockDialer struct {
	mu      sync.Mutex
	valid   map[string]bool
	store   map[string]string
	expires map[string]time.Duration
	open    map[*MockConn]struct{}

	dialCount int
	opCounts  map[string]int
	dialErrs  []error
	opErrs    []error
	perOpErrs map[string][]error

	// OnDial, if set, is called before each Dial with the offered secret.
	// Returning a non-nil error fails the dial.
	OnDial func(secret string) error
}

// Compile-time assertion that MockDialer implements redis.Dialer.
var _ redis.Dialer = (*MockDialer)(nil)

// NewMockDialer creates a mock dialer that accepts the given secrets.
func NewMockDialer(validSecrets ...string) *MockDialer {
	d := &MockDialer{
		valid:     make(map[string]bool),
		store:     make(map[string]string),
		expires:   make(map[string]time.Duration),
		open:      make(map[*MockConn]struct{}),
		opCounts:  make(map[string]int),
		perOpErrs: make(map[string][]error),
	}
	for _, s := range validSecrets {
		d.valid[s] = true
	}

	return d
}

// Dial creates a new mock connection bound to secret.
//
// Dialing never checks the credential; like a lazy driver handshake, a bad
// secret only surfaces on the first operation (usually the caller's Ping).
func (d *MockDialer) Dial(_ context.Context, secret string) (redis.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dialCount++

	if d.OnDial != nil {
		if err := d.OnDial(secret); err != nil {
			return nil, err
		}
	}

	if len(d.dialErrs) > 0 {
		err := d.dialErrs[0]
		d.dialErrs = d.dialErrs[1:]

		return nil, err
	}

	c := &MockConn{dialer: d, secret: secret}
	d.open[c] = struct{}{}

	return c, nil
}

// SetSecretValid marks a secret as accepted or rejected.
func (d *MockDialer) SetSecretValid(secret string, valid bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.valid[secret] = valid
}

// QueueDialError makes the next Dial calls fail with the given errors,
// consumed in order.
func (d *MockDialer) QueueDialError(errs ...error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialErrs = append(d.dialErrs, errs...)
}

// QueueOpError makes the next data operations fail with the given errors,
// consumed in order across all open connections. Auth checks happen first;
// queued errors only fire for accepted secrets.
func (d *MockDialer) QueueOpError(errs ...error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opErrs = append(d.opErrs, errs...)
}

// QueueOpErrorFor makes the next calls of one specific operation
// ("ping", "get", "set", "expire", "del") fail with the given errors,
// consumed in order. Other operations are unaffected.
func (d *MockDialer) QueueOpErrorFor(op string, errs ...error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.perOpErrs[op] = append(d.perOpErrs[op], errs...)
}

// DialCount returns the number of Dial calls made.
func (d *MockDialer) DialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.dialCount
}

// OpCount returns the number of calls made for the given operation name
// ("ping", "get", "set", "expire", "del").
func (d *MockDialer) OpCount(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.opCounts[op]
}

// OpenConns returns the number of connections dialed but not yet closed.
func (d *MockDialer) OpenConns() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.open)
}

// Value returns the stored value for key.
func (d *MockDialer) Value(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.store[key]

	return v, ok
}

// TTLOf returns the expiration recorded for key by Expire, if any.
func (d *MockDialer) TTLOf(key string) (time.Duration, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ttl, ok := d.expires[key]

	return ttl, ok
}

// SetValue seeds the shared store directly.
func (d *MockDialer) SetValue(key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store[key] = value
}

// gate performs the shared per-operation bookkeeping: op counting, the
// credential re-check, and the scripted error queue.
func (d *MockDialer) gate(op, secret string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.opCounts[op]++

	if !d.valid[secret] {
		return AuthRequiredError()
	}

	if queue := d.perOpErrs[op]; len(queue) > 0 {
		err := queue[0]
		d.perOpErrs[op] = queue[1:]

		return err
	}

	if len(d.opErrs) > 0 {
		err := d.opErrs[0]
		d.opErrs = d.opErrs[1:]

		return err
	}

	return nil
}

// MockConn is a mock implementation of redis.Conn handed out by MockDialer.
type MockConn struct {
	dialer *MockDialer
	secret string

	mu     sync.Mutex
	closed bool
}

// Compile-time assertion that MockConn implements redis.Conn.
var _ redis.Conn = (*MockConn)(nil)

// ErrConnClosed is returned by operations on a closed mock connection.
var ErrConnClosed = errors.New("testutil: connection is closed")

func (c *MockConn) check(op string) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return ErrConnClosed
	}

	return c.dialer.gate(op, c.secret)
}

// Ping verifies the connection's credential.
func (c *MockConn) Ping(ctx context.Context) error {
	return c.check("ping")
}

// Get reads the value stored under key.
func (c *MockConn) Get(ctx context.Context, key string) (string, bool, error) {
	if err := c.check("get"); err != nil {
		return "", false, err
	}

	c.dialer.mu.Lock()
	defer c.dialer.mu.Unlock()
	v, ok := c.dialer.store[key]

	return v, ok, nil
}

// Set stores value under key.
func (c *MockConn) Set(ctx context.Context, key, value string) error {
	if err := c.check("set"); err != nil {
		return err
	}

	c.dialer.mu.Lock()
	defer c.dialer.mu.Unlock()
	c.dialer.store[key] = value

	return nil
}

// Expire records a time-to-live for key.
func (c *MockConn) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := c.check("expire"); err != nil {
		return err
	}

	c.dialer.mu.Lock()
	defer c.dialer.mu.Unlock()
	c.dialer.expires[key] = ttl

	return nil
}

// Del removes key.
func (c *MockConn) Del(ctx context.Context, key string) (bool, error) {
	if err := c.check("del"); err != nil {
		return false, err
	}

	c.dialer.mu.Lock()
	defer c.dialer.mu.Unlock()
	_, ok := c.dialer.store[key]
	delete(c.dialer.store, key)
	delete(c.dialer.expires, key)

	return ok, nil
}

// Close marks the connection closed. Idempotent.
func (c *MockConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.dialer.mu.Lock()
	delete(c.dialer.open, c)
	c.dialer.mu.Unlock()

	return nil
}

// Secret returns the credential the connection was dialed with.
func (c *MockConn) Secret() string {
	return c.secret
}

// IsClosed returns whether the connection has been closed.
func (c *MockConn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}
