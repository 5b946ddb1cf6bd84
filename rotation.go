package rekey

import (
	"context"

	"github.com/arloliu/rekey/types"
)

// UpdatePrimaryKey replaces the stored primary secret after an out-of-band
// rotation and, when the manager is currently running on the secondary key,
// attempts to move back to the primary slot.
//
// Re-adoption is best-effort and validated on an independent probe
// connection first, so the live connection is never put at risk: the new
// secret is dialed and pinged on its own connection, and only a successful
// probe re-activates the primary slot. Probe failures are logged and
// absorbed; the manager stays on the secondary key and the new secret stays
// stored for the next rotation attempt.
//
// If the primary slot is already active, the secret is swapped in place and
// no probe is issued; the live connection keeps its existing credential
// until the next reconnect.
//
// Parameters:
//   - ctx: Context for the probe and any reconnect
//   - newSecret: The rotated primary access key secret
//
// Returns:
//   - error: types.ErrClosed, or types.ErrEmptySecret for an empty secret.
//     Probe and reconnect failures are never returned.
func (m *Manager) UpdatePrimaryKey(ctx context.Context, newSecret string) error {
	if m.closed {
		return types.ErrClosed
	}

	if err := m.keys.SetPrimary(newSecret); err != nil {
		return err
	}
	m.config.Logger.Info("primary key updated")

	if m.keys.Active() == types.SlotPrimary {
		return nil
	}

	m.config.Metrics.IncRotationProbeTotal()
	probe, err := m.dialer.Dial(ctx, newSecret)
	if err != nil {
		m.config.Metrics.IncRotationProbeError()
		m.config.Logger.Warn("rotated primary key probe failed to dial, staying on secondary",
			"error", err,
		)

		return nil
	}
	defer func() {
		if closeErr := probe.Close(); closeErr != nil {
			m.config.Logger.Warn("failed to close rotation probe connection", "error", closeErr)
		}
	}()

	if err := probe.Ping(ctx); err != nil {
		m.config.Metrics.IncRotationProbeError()
		m.config.Logger.Warn("rotated primary key rejected by probe, staying on secondary",
			"error", err,
		)

		return nil
	}

	// The probe accepted the rotated key; move the live connection back to
	// the primary slot.
	m.keys.Activate(types.SlotPrimary)
	if err := m.connect(ctx); err != nil {
		// Rebind failed: revert to the secondary slot so the active slot
		// keeps identifying the credential behind the live connection,
		// which stays in service. The new secret remains stored for the
		// next rotation attempt.
		m.keys.Activate(types.SlotSecondary)
		m.config.Logger.Warn("reconnect on rotated primary key failed, staying on secondary",
			"error", err,
		)

		return nil
	}

	m.config.Metrics.IncRotationAdoptedTotal()
	m.config.Metrics.IncKeySwitchTotal(types.SlotSecondary, types.SlotPrimary)
	m.config.Logger.Info("rotated primary key adopted",
		"slot", m.config.SlotNames.Name(types.SlotPrimary),
	)

	return nil
}
