package rekey_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arloliu/rekey"
	"github.com/arloliu/rekey/policy"
	"github.com/arloliu/rekey/test/testutil"
)

// newBenchManager builds a manager on the in-memory dialer so benchmarks
// measure rekey overhead, not a real store.
func newBenchManager(b *testing.B) (*rekey.Manager, *testutil.MockDialer) {
	b.Helper()

	dialer := testutil.NewMockDialer("pk", "sk")
	mgr, err := rekey.New(context.Background(), dialer, "pk", "sk",
		rekey.WithRetryPolicy(policy.RetryPolicy{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
			Multiplier:  1,
		}),
	)
	if err != nil {
		b.Fatalf("failed to create manager: %v", err)
	}
	b.Cleanup(mgr.Close)

	return mgr, dialer
}

func BenchmarkWrite(b *testing.B) {
	mgr, _ := newBenchManager(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := mgr.Write(ctx, "bench", "value"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRead(b *testing.B) {
	mgr, dialer := newBenchManager(b)
	dialer.SetValue("bench", "value")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := mgr.Read(ctx, "bench"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWriteTTL(b *testing.B) {
	mgr, _ := newBenchManager(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := mgr.WriteTTL(ctx, "bench", "value", time.Minute); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWriteUniqueKeys(b *testing.B) {
	mgr, _ := newBenchManager(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := mgr.Write(ctx, fmt.Sprintf("bench:%d", i), "value"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkClassify(b *testing.B) {
	errs := []error{
		testutil.AuthRequiredError(),
		testutil.CrossSlotError(),
		testutil.TimeoutError(),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		policy.Classify(errs[i%len(errs)])
	}
}
