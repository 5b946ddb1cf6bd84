// Package types provides shared types and errors for the rekey library.
//
// This is a "leaf" package with no imports from other rekey packages,
// allowing it to be imported by any package without causing import cycles.
package types

import (
	"errors"
	"fmt"
	"regexp"
)

// KeySlot identifies one of the two access keys in a KeySet.
type KeySlot string

// String returns the string representation of the KeySlot.
func (s KeySlot) String() string {
	return string(s)
}

const (
	// SlotPrimary identifies the primary access key.
	SlotPrimary KeySlot = "primary"
	// SlotSecondary identifies the secondary access key.
	SlotSecondary KeySlot = "secondary"
)

// Other returns the opposite slot.
func (s KeySlot) Other() KeySlot {
	if s == SlotPrimary {
		return SlotSecondary
	}

	return SlotPrimary
}

// slotNameRegex validates slot names for use in metrics labels.
// Must be Prometheus-compatible: [a-zA-Z_][a-zA-Z0-9_]*
var slotNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// SlotNames holds custom display names for the two key slots.
//
// These names are used in metrics labels and log messages instead of the
// default "primary" and "secondary". Names must be:
//   - 1-32 characters long
//   - Prometheus-compatible: start with letter or underscore, contain only
//     alphanumeric characters and underscores
//   - Different from each other
type SlotNames struct {
	// Primary is the display name for SlotPrimary. Defaults to "primary".
	Primary string

	// Secondary is the display name for SlotSecondary. Defaults to "secondary".
	Secondary string
}

// DefaultSlotNames returns the default slot names ("primary" and "secondary").
func DefaultSlotNames() SlotNames {
	return SlotNames{Primary: "primary", Secondary: "secondary"}
}

// Validate checks that the slot names are valid for use in metrics.
//
// Returns:
//   - error: Validation error, or nil if valid
func (n SlotNames) Validate() error {
	if err := validateSlotName(n.Primary, "primary"); err != nil {
		return err
	}
	if err := validateSlotName(n.Secondary, "secondary"); err != nil {
		return err
	}
	if n.Primary == n.Secondary {
		return errors.New("rekey: slot names must be different")
	}

	return nil
}

// Name returns the display name for the given key slot.
func (n SlotNames) Name(slot KeySlot) string {
	if slot == SlotPrimary {
		return n.Primary
	}

	return n.Secondary
}

// validateSlotName validates a single slot name.
func validateSlotName(name, which string) error {
	if len(name) == 0 {
		return errors.New("rekey: " + which + " slot name cannot be empty")
	}
	if len(name) > 32 {
		return errors.New("rekey: " + which + " slot name cannot exceed 32 characters")
	}
	if !slotNameRegex.MatchString(name) {
		return errors.New("rekey: " + which + " slot name must be alphanumeric with underscores, starting with letter or underscore")
	}

	return nil
}

// KeySet holds the primary and secondary access keys and tracks which one
// is currently active.
//
// The active slot always identifies the key last used to successfully
// establish, or currently being used to establish, the live connection.
//
// KeySet is NOT safe for concurrent use; it is mutated by the manager's
// connect and rotation paths, which the caller must serialize.
type KeySet struct {
	primary   string
	secondary string
	active    KeySlot
}

// NewKeySet creates a KeySet with the primary slot active.
//
// Parameters:
//   - primary: The primary access key secret
//   - secondary: The secondary access key secret
//
// Returns:
//   - *KeySet: A new key set
//   - error: ErrEmptySecret if either secret is empty
func NewKeySet(primary, secondary string) (*KeySet, error) {
	if primary == "" || secondary == "" {
		return nil, ErrEmptySecret
	}

	return &KeySet{
		primary:   primary,
		secondary: secondary,
		active:    SlotPrimary,
	}, nil
}

// Active returns the currently active slot.
func (k *KeySet) Active() KeySlot {
	return k.active
}

// ActiveSecret returns the secret of the currently active slot.
func (k *KeySet) ActiveSecret() string {
	return k.Secret(k.active)
}

// Secret returns the secret stored in the given slot.
func (k *KeySet) Secret(slot KeySlot) string {
	if slot == SlotPrimary {
		return k.primary
	}

	return k.secondary
}

// Activate marks the given slot as active.
func (k *KeySet) Activate(slot KeySlot) {
	k.active = slot
}

// SetPrimary replaces the primary secret unconditionally.
//
// The active slot is not changed; re-adopting a rotated primary is the
// rotation coordinator's job.
//
// Returns:
//   - error: ErrEmptySecret if the new secret is empty
func (k *KeySet) SetPrimary(secret string) error {
	if secret == "" {
		return ErrEmptySecret
	}
	k.primary = secret

	return nil
}

// FailureClass tags a classified operation or connect failure.
type FailureClass int

const (
	// FatalStructural marks a cross-slot / shard-routing violation.
	// Such failures can never succeed regardless of retry or credential,
	// so they propagate immediately and unchanged.
	FatalStructural FailureClass = iota

	// AuthRotated marks a credential rejection, the signature of an
	// out-of-band key rotation. Triggers failover to the secondary key.
	AuthRotated

	// Transient marks a retryable failure: connection error, socket
	// timeout, or generic protocol error.
	Transient
)

// String returns the string representation of the FailureClass.
func (c FailureClass) String() string {
	switch c {
	case FatalStructural:
		return "fatal_structural"
	case AuthRotated:
		return "auth_rotated"
	case Transient:
		return "transient"
	}

	return "unknown"
}

// BulkWriteStats aggregates the outcome of a bulk write run.
type BulkWriteStats struct {
	// Total is the number of writes attempted.
	Total int

	// Successful is the number of writes that succeeded.
	Successful int

	// Failed is the number of writes that failed after local recovery.
	Failed int

	// KeySwitches counts the writes across which the active slot changed.
	KeySwitches int

	// FinalSlot is the active slot when the run completed.
	FinalSlot KeySlot
}

// Sentinel errors for common failure scenarios.
var (
	// ErrBothKeysFailed indicates that both the primary and the secondary
	// key were rejected at connect time. No further fallback exists.
	ErrBothKeysFailed = errors.New("rekey: both primary and secondary keys failed to authenticate")

	// ErrRetriesExhausted indicates an operation failed after consuming
	// the full retry budget.
	ErrRetriesExhausted = errors.New("rekey: retries exhausted")

	// ErrClosed indicates an operation was attempted on a closed manager.
	ErrClosed = errors.New("rekey: manager is closed")

	// ErrNilDialer indicates that a nil dialer was provided.
	ErrNilDialer = errors.New("rekey: dialer cannot be nil")

	// ErrEmptySecret indicates an empty access key secret was provided.
	ErrEmptySecret = errors.New("rekey: access key secret cannot be empty")
)

// BothKeysFailedError is returned when the secondary key is rejected after
// the primary already was. It wraps the secondary slot's rejection.
type BothKeysFailedError struct {
	// Cause is the rejection returned for the secondary key.
	Cause error
}

// Error implements the error interface.
func (e *BothKeysFailedError) Error() string {
	return ErrBothKeysFailed.Error() + ": " + e.Cause.Error()
}

// Unwrap returns the wrapped errors for errors.Is/As compatibility.
func (e *BothKeysFailedError) Unwrap() []error {
	return []error{ErrBothKeysFailed, e.Cause}
}

// RetryExhaustedError is returned when an operation still fails after the
// configured number of attempts. It wraps the last attempt's error.
type RetryExhaustedError struct {
	// Attempts is the total number of attempts made.
	Attempts int

	// LastErr is the error from the final attempt.
	LastErr error
}

// Error implements the error interface.
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %s", ErrRetriesExhausted.Error(), e.Attempts, e.LastErr.Error())
}

// Unwrap returns the wrapped errors for errors.Is/As compatibility.
func (e *RetryExhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.LastErr}
}

// Logger is a minimal structured logging interface.
//
// The interface follows zap.SugaredLogger's key/value style: a message
// followed by alternating key/value pairs.
type Logger interface {
	// Debug logs a debug-level message with key/value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with key/value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with key/value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with key/value pairs.
	Error(msg string, keysAndValues ...any)
}
