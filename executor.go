package rekey

import (
	"context"
	"errors"
	"time"

	"github.com/arloliu/rekey/adapter/redis"
	"github.com/arloliu/rekey/policy"
	"github.com/arloliu/rekey/types"
)

// operation is a single store primitive executed against the live connection.
type operation func(ctx context.Context, conn redis.Conn) error

// execute runs op with the full local recovery ladder:
//
//   - FatalStructural failures propagate immediately and unchanged.
//   - AuthRotated failures while the primary slot is active trigger failover
//     to the secondary key and one retry of op that does not consume the
//     retry budget. If that retry also fails, the failure re-enters the
//     ladder as a regular attempt error.
//   - Transient failures consume the retry budget: each retry waits an
//     exponentially growing delay, then reconnects before re-running op.
//
// The budget covers attempts of op, not wall time; the caller's ctx bounds
// individual calls but the backoff sleeps are not cancelable.
func (m *Manager) execute(ctx context.Context, op operation) error {
	if m.closed {
		return types.ErrClosed
	}

	var lastErr error
	for attempt := 0; attempt < m.config.Retry.MaxAttempts; attempt++ {
		if m.conn == nil {
			if err := m.connect(ctx); err != nil {
				if errors.Is(err, types.ErrBothKeysFailed) {
					return err
				}
				lastErr = err
			}
		}

		if m.conn != nil {
			err := op(ctx, m.conn)
			if err == nil {
				return nil
			}

			switch m.config.Classifier(err) {
			case types.FatalStructural:
				return err

			case types.AuthRotated:
				if m.keys.Active() == types.SlotPrimary {
					m.config.Logger.Warn("credential rejected mid-operation, failing over",
						"error", err,
					)
					err = m.retryAfterFailover(ctx, op, err)
					if err == nil {
						return nil
					}
					if errors.Is(err, types.ErrBothKeysFailed) {
						return err
					}
				}
			}

			if !m.config.RetryOnTimeout && policy.IsTimeout(err) {
				return err
			}
			lastErr = err
		}

		if attempt == m.config.Retry.MaxAttempts-1 {
			break
		}

		delay := m.config.Retry.Delay(attempt)
		m.config.Logger.Warn("operation failed, retrying",
			"attempt", attempt+1,
			"max_attempts", m.config.Retry.MaxAttempts,
			"delay", delay,
			"error", lastErr,
		)
		m.config.Metrics.IncRetryTotal(m.keys.Active())
		time.Sleep(delay)

		if err := m.connect(ctx); err != nil {
			if errors.Is(err, types.ErrBothKeysFailed) {
				return err
			}
			lastErr = err
		}
	}

	return &types.RetryExhaustedError{
		Attempts: m.config.Retry.MaxAttempts,
		LastErr:  lastErr,
	}
}

// retryAfterFailover reconnects after a mid-operation credential rejection
// and, on success, re-runs op once on the fresh connection.
//
// Returns:
//   - error: nil if the retried op succeeded; the reconnect or retry failure
//     otherwise. The original rejection is returned when reconnecting could
//     not install a connection.
func (m *Manager) retryAfterFailover(ctx context.Context, op operation, rejection error) error {
	if err := m.connect(ctx); err != nil {
		return err
	}
	if m.conn == nil {
		return rejection
	}

	return op(ctx, m.conn)
}
