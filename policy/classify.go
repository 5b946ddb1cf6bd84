package policy

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/arloliu/rekey/types"
)

// authReplyMarkers are the server reply fragments that signal a credential
// rejection. NOAUTH and WRONGPASS are the reply prefixes Redis sends for a
// missing or rotated password; "invalid password" covers older servers.
var authReplyMarkers = []string{
	"NOAUTH",
	"WRONGPASS",
	"invalid password",
	"invalid username-password pair",
}

// Classify maps a failure surfaced by the store to a failure class.
//
// The classification is deliberately string-based for server replies: Redis
// errors carry their class only in the reply prefix, and the driver exposes
// them as plain errors.
//
// Parameters:
//   - err: The failure to classify (must be non-nil)
//
// Returns:
//   - types.FailureClass: FatalStructural, AuthRotated, or Transient
func Classify(err error) types.FailureClass {
	msg := err.Error()

	// Cross-slot violations are structural: no retry or credential change
	// can make the operation legal.
	if strings.Contains(msg, "CROSSSLOT") {
		return types.FatalStructural
	}

	for _, marker := range authReplyMarkers {
		if containsFold(msg, marker) {
			return types.AuthRotated
		}
	}

	// Timeouts, connection drops, and generic protocol errors all land in
	// the bounded-retry bucket.
	return types.Transient
}

// IsTimeout reports whether the error represents a socket or deadline
// timeout, as opposed to any other transient failure.
//
// Parameters:
//   - err: The failure to inspect
//
// Returns:
//   - bool: true if the failure is a timeout
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// containsFold reports whether s contains substr, ignoring ASCII case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
