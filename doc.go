// Package rekey provides a failover-aware client wrapper for credentialed
// Redis deployments whose access keys are rotated out-of-band.
//
// Managed Redis offerings expose two access keys (primary and secondary) so
// that operators can rotate one while clients keep working on the other.
// Rekey keeps a long-running process connected across such rotations: it
// detects credential rejections, fails over to the secondary key, retries
// transient faults with exponential backoff, and safely re-adopts a rotated
// primary key after validating it.
//
// # Key Features
//
//   - Connect-time failover: primary → secondary when the primary is rejected
//   - In-flight failover: a rotation detected mid-operation switches keys and
//     retries the operation once without consuming retry budget
//   - Bounded retry: transient faults reconnect and retry with exponential
//     backoff under a configurable RetryPolicy
//   - Safe re-adoption: UpdatePrimaryKey validates the new key on an
//     independent probe connection before switching back
//   - Driver-agnostic core: the store is reached through a small adapter
//     boundary, implemented on go-redis v9 in adapter/redis/goredis
//
// # Basic Usage
//
//	dialer, err := goredis.NewDialer("mycache.redis.cache.windows.net")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mgr, err := rekey.New(ctx, dialer, primaryKey, secondaryKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Close()
//
//	ok, err := mgr.Write(ctx, "greeting", "hello")
//	value, found, err := mgr.Read(ctx, "greeting")
//
//	// After the operator rotates the primary key:
//	mgr.UpdatePrimaryKey(ctx, newPrimaryKey)
//
// # Error Handling
//
// Rekey uses standard Go errors with sentinel values in the types package:
//
//   - types.ErrBothKeysFailed: both keys rejected at connect time
//   - types.ErrRetriesExhausted: an operation failed after the full retry budget
//   - types.ErrClosed: operation attempted on a closed manager
//
// Check for them with errors.Is:
//
//	if errors.Is(err, types.ErrRetriesExhausted) {
//	    // the store stayed unreachable across all attempts
//	}
//
// CROSSSLOT errors from cluster deployments are structural: the operation
// addresses keys that cannot colocate on one partition. They are propagated
// unchanged and never retried.
//
// # Write-with-TTL Warning
//
// WriteTTL issues SET and EXPIRE as two independent calls. If the process
// dies between them, the value persists without its intended expiration.
// This matches the underlying primitive set and is intentionally NOT papered
// over with scripting or transactions.
//
// # Concurrency
//
// A Manager assumes a single caller at a time. It mutates the active key
// slot and the live connection without internal locking; concurrent callers
// sharing one manager must serialize every call (including UpdatePrimaryKey
// and Close) behind their own mutex.
package rekey
