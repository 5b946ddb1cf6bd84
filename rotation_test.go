package rekey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/rekey/test/testutil"
	"github.com/arloliu/rekey/types"
)

// failedOverManager returns a manager running on the secondary slot, as
// after an unnoticed primary rotation.
func failedOverManager(t *testing.T, dialer *testutil.MockDialer, opts ...Option) *Manager {
	t.Helper()

	mgr, err := New(context.Background(), dialer, "pk", "sk", opts...)
	require.NoError(t, err)
	require.Equal(t, types.SlotSecondary, mgr.ActiveSlot())
	t.Cleanup(mgr.Close)

	return mgr
}

func TestUpdatePrimaryKeyEmptySecret(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	mgr, err := New(context.Background(), dialer, "pk", "sk")
	require.NoError(t, err)
	defer mgr.Close()

	err = mgr.UpdatePrimaryKey(context.Background(), "")
	require.ErrorIs(t, err, types.ErrEmptySecret)
}

func TestUpdatePrimaryKeyWhileOnPrimary(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")
	collector := testutil.NewTestMetricsCollector()

	mgr, err := New(context.Background(), dialer, "pk", "sk", WithMetrics(collector))
	require.NoError(t, err)
	defer mgr.Close()

	require.NoError(t, mgr.UpdatePrimaryKey(context.Background(), "pk2"))

	// No probe while already on the primary slot; the secret is swapped in
	// place for the next reconnect.
	assert.Equal(t, types.SlotPrimary, mgr.ActiveSlot())
	assert.Equal(t, 1, dialer.DialCount())
	assert.Equal(t, int64(0), collector.RotationProbes)
}

func TestUpdatePrimaryKeyReAdopts(t *testing.T) {
	dialer := testutil.NewMockDialer("sk")
	collector := testutil.NewTestMetricsCollector()
	mgr := failedOverManager(t, dialer, WithMetrics(collector))

	dialer.SetSecretValid("pk2", true)

	require.NoError(t, mgr.UpdatePrimaryKey(context.Background(), "pk2"))

	assert.Equal(t, types.SlotPrimary, mgr.ActiveSlot())
	assert.Equal(t, int64(1), collector.RotationProbes)
	assert.Equal(t, int64(0), collector.RotationErrors)
	assert.Equal(t, int64(1), collector.RotationAdopted)
	assert.Equal(t, int64(1), collector.GetKeySwitchCount(types.SlotSecondary, types.SlotPrimary))

	// Only the live connection remains; the probe was closed.
	assert.Equal(t, 1, dialer.OpenConns())

	ok, err := mgr.Write(context.Background(), "k", "v")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdatePrimaryKeyProbeRejected(t *testing.T) {
	dialer := testutil.NewMockDialer("sk")
	collector := testutil.NewTestMetricsCollector()
	mgr := failedOverManager(t, dialer, WithMetrics(collector))

	// The new secret is not accepted by the server yet.
	require.NoError(t, mgr.UpdatePrimaryKey(context.Background(), "pk2"))

	assert.Equal(t, types.SlotSecondary, mgr.ActiveSlot())
	assert.Equal(t, int64(1), collector.RotationProbes)
	assert.Equal(t, int64(1), collector.RotationErrors)
	assert.Equal(t, int64(0), collector.RotationAdopted)
	assert.Equal(t, 1, dialer.OpenConns())

	// The live connection survives the failed probe untouched.
	ok, err := mgr.Write(context.Background(), "k", "v")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, types.SlotSecondary, mgr.ActiveSlot())
}

func TestUpdatePrimaryKeyProbeDialFailure(t *testing.T) {
	dialer := testutil.NewMockDialer("sk")
	collector := testutil.NewTestMetricsCollector()
	mgr := failedOverManager(t, dialer, WithMetrics(collector))

	dialer.SetSecretValid("pk2", true)
	dialer.QueueDialError(errors.New("dial tcp: connection refused"))

	// A probe that cannot even dial is absorbed the same way as a rejected
	// one.
	require.NoError(t, mgr.UpdatePrimaryKey(context.Background(), "pk2"))

	assert.Equal(t, types.SlotSecondary, mgr.ActiveSlot())
	assert.Equal(t, int64(1), collector.RotationErrors)
}

func TestUpdatePrimaryKeyRebindFailureStaysOnSecondary(t *testing.T) {
	dialer := testutil.NewMockDialer("sk")
	collector := testutil.NewTestMetricsCollector()
	mgr := failedOverManager(t, dialer, WithMetrics(collector))

	// The probe connection dials fine, but the rebind dial right after it
	// hits a network failure.
	dialer.SetSecretValid("pk2", true)
	var pk2Dials int
	dialer.OnDial = func(secret string) error {
		if secret != "pk2" {
			return nil
		}
		pk2Dials++
		if pk2Dials == 2 {
			return errors.New("dial tcp: connection refused")
		}

		return nil
	}

	require.NoError(t, mgr.UpdatePrimaryKey(context.Background(), "pk2"))

	// The rotation did not complete: the active slot must keep naming the
	// credential behind the live connection.
	assert.Equal(t, types.SlotSecondary, mgr.ActiveSlot())
	assert.Equal(t, int64(0), collector.RotationAdopted)
	assert.Equal(t, int64(0), collector.GetKeySwitchCount(types.SlotSecondary, types.SlotPrimary))

	// The live secondary-bound connection stays in service.
	ok, err := mgr.Write(context.Background(), "k", "v")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, types.SlotSecondary, mgr.ActiveSlot())

	// A later rotation attempt with the stored secret can still succeed.
	dialer.OnDial = nil
	require.NoError(t, mgr.UpdatePrimaryKey(context.Background(), "pk2"))
	assert.Equal(t, types.SlotPrimary, mgr.ActiveSlot())
}

func TestUpdatePrimaryKeyStoresSecretDespiteFailedProbe(t *testing.T) {
	dialer := testutil.NewMockDialer("sk")
	mgr := failedOverManager(t, dialer)

	// First update fails its probe, but the secret must still be stored.
	require.NoError(t, mgr.UpdatePrimaryKey(context.Background(), "pk2"))
	assert.Equal(t, types.SlotSecondary, mgr.ActiveSlot())

	// Once the server accepts the key, a later rotation with the same
	// secret succeeds.
	dialer.SetSecretValid("pk2", true)
	require.NoError(t, mgr.UpdatePrimaryKey(context.Background(), "pk2"))
	assert.Equal(t, types.SlotPrimary, mgr.ActiveSlot())
}
