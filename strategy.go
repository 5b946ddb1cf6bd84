package rekey

import "github.com/arloliu/rekey/types"

// Classifier maps a failure surfaced by the store to a failure class.
//
// The executor consults the classifier on every failed attempt and on every
// failed connect; the class decides between immediate propagation
// (FatalStructural), key failover (AuthRotated), and bounded retry
// (Transient).
//
// The default is policy.Classify. A custom classifier can be injected with
// WithClassifier, e.g. to treat an application-specific reply as fatal.
type Classifier func(err error) types.FailureClass

// BulkObserver is invoked by RunBulkWrite after every individual write.
//
// Parameters:
//   - index: The id of the key just written
//   - succeeding: true while the run has more successes than failures
//   - slot: The active key slot after the write
type BulkObserver func(index int, succeeding bool, slot types.KeySlot)
