// Package policy provides the retry and error-classification policies used
// by the rekey manager.
//
// # Retry Policy
//
// RetryPolicy bounds how often a transient failure is retried and shapes the
// exponential backoff between attempts:
//
//	policy.RetryPolicy{
//	    MaxAttempts: 3,
//	    BaseDelay:   500 * time.Millisecond,
//	    Multiplier:  2,
//	}
//
// The delay before retrying the k-th failed attempt (0-indexed) is
// BaseDelay * Multiplier^k, so with the defaults the schedule is 500ms
// then 1s, and the third failure exhausts the budget.
//
// # Classification
//
// Classify maps any failure surfaced by the store into the three failure
// classes the executor acts on:
//
//   - types.FatalStructural: CROSSSLOT violations; never retried
//   - types.AuthRotated: credential rejections; trigger key failover
//   - types.Transient: everything else; retried with backoff
//
// The default classifier recognizes the Redis server's reply prefixes
// (NOAUTH, WRONGPASS, CROSSSLOT, ...) and network-level errors. A custom
// classifier can be injected with rekey.WithClassifier.
package policy
