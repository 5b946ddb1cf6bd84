package rekey

import (
	"context"
	"time"

	"github.com/arloliu/rekey/types"
)

// Store is the public operation surface of a Manager.
//
// It allows the Manager to be passed around as a narrow interface by code
// that only issues operations and never reconfigures the client.
type Store interface {
	// Write stores value under key with automatic failover.
	//
	// Returns:
	//   - bool: true on success
	//   - error: terminal failure after local recovery is exhausted
	Write(ctx context.Context, key, value string) (bool, error)

	// WriteTTL stores value under key and sets a time-to-live.
	//
	// SET and EXPIRE are two independent calls with no atomicity guarantee:
	// if the process terminates between them, the value persists without
	// its intended expiration.
	WriteTTL(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Read fetches the value stored under key with automatic failover.
	//
	// Returns:
	//   - string: The value, or "" when absent
	//   - bool: true if the key exists
	//   - error: terminal failure after local recovery is exhausted
	Read(ctx context.Context, key string) (string, bool, error)

	// Delete removes key with automatic failover.
	//
	// Returns:
	//   - bool: true if a key was removed
	//   - error: terminal failure after local recovery is exhausted
	Delete(ctx context.Context, key string) (bool, error)

	// UpdatePrimaryKey replaces the stored primary secret after an
	// out-of-band rotation. Best-effort: probe failures are absorbed.
	UpdatePrimaryKey(ctx context.Context, newSecret string) error

	// RunBulkWrite sequences count writes at a fixed interval, tracking
	// statistics and mid-run key switches.
	RunBulkWrite(ctx context.Context, prefix string, startID, count int, interval time.Duration, observer BulkObserver) types.BulkWriteStats

	// ActiveSlot returns the key slot backing the live connection.
	ActiveSlot() types.KeySlot

	// Close releases the live connection. The manager cannot be reused.
	Close()
}
