package rekey

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/rekey/policy"
	"github.com/arloliu/rekey/test/testutil"
	"github.com/arloliu/rekey/types"
)

func TestRunBulkWriteAllSucceed(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	mgr, err := New(context.Background(), dialer, "pk", "sk", fastRetry())
	require.NoError(t, err)
	defer mgr.Close()

	var observed []int
	observer := func(index int, succeeding bool, slot types.KeySlot) {
		observed = append(observed, index)
		assert.True(t, succeeding)
		assert.Equal(t, types.SlotPrimary, slot)
	}

	stats := mgr.RunBulkWrite(context.Background(), "bulk", 0, 5, 0, observer)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 5, stats.Successful)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 0, stats.KeySwitches)
	assert.Equal(t, types.SlotPrimary, stats.FinalSlot)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, observed)

	for _, key := range []string{"bulk:0", "bulk:1", "bulk:2", "bulk:3", "bulk:4"} {
		_, found := dialer.Value(key)
		assert.True(t, found, "missing %s", key)
	}
}

func TestRunBulkWriteStartID(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	mgr, err := New(context.Background(), dialer, "pk", "sk", fastRetry())
	require.NoError(t, err)
	defer mgr.Close()

	var observed []int
	stats := mgr.RunBulkWrite(context.Background(), "bulk", 10, 3, 0,
		func(index int, _ bool, _ types.KeySlot) {
			observed = append(observed, index)
		})

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, []int{10, 11, 12}, observed)

	_, found := dialer.Value("bulk:10")
	assert.True(t, found)
	_, found = dialer.Value("bulk:12")
	assert.True(t, found)
}

func TestRunBulkWriteDetectsKeySwitch(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	mgr, err := New(context.Background(), dialer, "pk", "sk", fastRetry())
	require.NoError(t, err)
	defer mgr.Close()

	// Rotate the primary key away mid-run; the next write fails over.
	observer := func(index int, _ bool, _ types.KeySlot) {
		if index == 1 {
			dialer.SetSecretValid("pk", false)
		}
	}

	stats := mgr.RunBulkWrite(context.Background(), "bulk", 0, 5, 0, observer)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 5, stats.Successful)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 1, stats.KeySwitches)
	assert.Equal(t, types.SlotSecondary, stats.FinalSlot)
}

func TestRunBulkWriteCountsFailures(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	mgr, err := New(context.Background(), dialer, "pk", "sk",
		WithRetryPolicy(policy.RetryPolicy{MaxAttempts: 1, BaseDelay: 0, Multiplier: 1}))
	require.NoError(t, err)
	defer mgr.Close()

	dialer.QueueOpError(errors.New("connection reset by peer"))

	stats := mgr.RunBulkWrite(context.Background(), "bulk", 0, 3, 0, nil)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Failed)
}

func TestRunBulkWriteCanceledContext(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	mgr, err := New(context.Background(), dialer, "pk", "sk", fastRetry())
	require.NoError(t, err)
	defer mgr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := mgr.RunBulkWrite(ctx, "bulk", 0, 5, 0, nil)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, types.SlotPrimary, stats.FinalSlot)
}

func TestRunBulkWriteObserverSucceedingFlag(t *testing.T) {
	dialer := testutil.NewMockDialer("pk", "sk")

	mgr, err := New(context.Background(), dialer, "pk", "sk",
		WithRetryPolicy(policy.RetryPolicy{MaxAttempts: 1, BaseDelay: 0, Multiplier: 1}))
	require.NoError(t, err)
	defer mgr.Close()

	// First two writes fail, the rest succeed: the flag flips to true once
	// successes outnumber failures.
	dialer.QueueOpError(errors.New("reset"), errors.New("reset"))

	var flags []bool
	stats := mgr.RunBulkWrite(context.Background(), "bulk", 0, 5, 0,
		func(_ int, succeeding bool, _ types.KeySlot) {
			flags = append(flags, succeeding)
		})

	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 3, stats.Successful)
	assert.Equal(t, []bool{false, false, false, false, true}, flags)
}
