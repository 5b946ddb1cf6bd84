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

func TestTransientFailureRetried(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")
	collector := testutil.NewTestMetricsCollector()

	mgr, err := New(context.Background(), dialer, "pk", "sk",
		fastRetry(), WithMetrics(collector))
	require.NoError(t, err)
	defer mgr.Close()

	dialer.QueueOpError(errors.New("connection reset by peer"))

	ok, err := mgr.Write(context.Background(), "k", "v")
	require.NoError(t, err)
	assert.True(t, ok)

	// One failed attempt, one backoff cycle, then success on the retry.
	assert.Equal(t, 2, dialer.OpCount("set"))
	assert.Equal(t, int64(1), collector.GetRetryCount(types.SlotPrimary))
}

func TestRetriesExhausted(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")
	collector := testutil.NewTestMetricsCollector()

	mgr, err := New(context.Background(), dialer, "pk", "sk",
		fastRetry(), WithMetrics(collector))
	require.NoError(t, err)
	defer mgr.Close()

	// Enough failures to outlast the attempts and the reconnect pings.
	cause := errors.New("connection refused")
	for i := 0; i < 10; i++ {
		dialer.QueueOpError(cause)
	}

	ok, err := mgr.Write(context.Background(), "k", "v")
	assert.False(t, ok)
	require.ErrorIs(t, err, types.ErrRetriesExhausted)
	require.ErrorIs(t, err, cause)

	var exhausted *types.RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, int64(1), collector.GetWriteErrors(types.SlotPrimary))
}

func TestFatalStructuralNotRetried(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")
	collector := testutil.NewTestMetricsCollector()

	mgr, err := New(context.Background(), dialer, "pk", "sk",
		fastRetry(), WithMetrics(collector))
	require.NoError(t, err)
	defer mgr.Close()

	dialer.QueueOpError(testutil.CrossSlotError())

	ok, err := mgr.Write(context.Background(), "k", "v")
	assert.False(t, ok)
	require.Error(t, err)

	// The rejection propagates unchanged, with a single attempt and no
	// failover.
	assert.Contains(t, err.Error(), "CROSSSLOT")
	require.NotErrorIs(t, err, types.ErrRetriesExhausted)
	assert.Equal(t, 1, dialer.OpCount("set"))
	assert.Equal(t, int64(0), collector.GetRetryCount(types.SlotPrimary))
	assert.Equal(t, types.SlotPrimary, mgr.ActiveSlot())
}

func TestAuthRotatedMidOperationFailsOver(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")
	collector := testutil.NewTestMetricsCollector()

	mgr, err := New(context.Background(), dialer, "pk", "sk",
		fastRetry(), WithMetrics(collector))
	require.NoError(t, err)
	defer mgr.Close()

	// The operator rotates the primary key while we hold a live connection.
	dialer.SetSecretValid("pk", false)

	ok, err := mgr.Write(context.Background(), "k", "v")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, types.SlotSecondary, mgr.ActiveSlot())
	assert.Equal(t, int64(1), collector.GetKeySwitchCount(types.SlotPrimary, types.SlotSecondary))

	// The post-failover retry is free: it must not count against the
	// transient retry budget.
	assert.Equal(t, int64(0), collector.GetRetryCount(types.SlotPrimary))
	assert.Equal(t, int64(0), collector.GetRetryCount(types.SlotSecondary))
	assert.Equal(t, 2, dialer.OpCount("set"))

	value, found := dialer.Value("k")
	assert.True(t, found)
	assert.Equal(t, "v", value)
}

func TestAuthRotatedBothKeysInvalid(t *testing.T) {
	dialer := testutil.NewMockDialer("pk")

	mgr, err := New(context.Background(), dialer, "pk", "sk", fastRetry())
	require.NoError(t, err)
	defer mgr.Close()

	// Both keys now rejected: the rotation replaced the primary and the
	// configured secondary was never valid.
	dialer.SetSecretValid("pk", false)

	ok, err := mgr.Write(context.Background(), "k", "v")
	assert.False(t, ok)
	require.ErrorIs(t, err, types.ErrBothKeysFailed)

	// Every connection, including the abandoned live one, must be closed.
	assert.Equal(t, 0, dialer.OpenConns())
}

func TestTimeoutRetriedByDefault(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	mgr, err := New(context.Background(), dialer, "pk", "sk", fastRetry())
	require.NoError(t, err)
	defer mgr.Close()

	dialer.QueueOpError(testutil.TimeoutError())

	ok, err := mgr.Write(context.Background(), "k", "v")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, dialer.OpCount("set"))
}

func TestTimeoutNotRetriedWhenDisabled(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	mgr, err := New(context.Background(), dialer, "pk", "sk",
		fastRetry(), WithRetryOnTimeout(false))
	require.NoError(t, err)
	defer mgr.Close()

	dialer.QueueOpError(testutil.TimeoutError())

	ok, err := mgr.Write(context.Background(), "k", "v")
	assert.False(t, ok)
	require.Error(t, err)
	require.NotErrorIs(t, err, types.ErrRetriesExhausted)
	assert.Equal(t, 1, dialer.OpCount("set"))
}

func TestCustomClassifier(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	poison := errors.New("poison pill")
	classifier := func(err error) types.FailureClass {
		if errors.Is(err, poison) {
			return types.FatalStructural
		}

		return types.Transient
	}

	mgr, err := New(context.Background(), dialer, "pk", "sk",
		fastRetry(), WithClassifier(classifier))
	require.NoError(t, err)
	defer mgr.Close()

	dialer.QueueOpError(poison)

	ok, err := mgr.Write(context.Background(), "k", "v")
	assert.False(t, ok)
	require.ErrorIs(t, err, poison)
	assert.Equal(t, 1, dialer.OpCount("set"))
}

func TestReadFailoverPreservesData(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")
	dialer.SetValue("stable", "value")

	mgr, err := New(context.Background(), dialer, "pk", "sk", fastRetry())
	require.NoError(t, err)
	defer mgr.Close()

	dialer.SetSecretValid("pk", false)

	// Data written before the rotation stays readable after failover.
	value, found, err := mgr.Read(context.Background(), "stable")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", value)
	assert.Equal(t, types.SlotSecondary, mgr.ActiveSlot())
}
