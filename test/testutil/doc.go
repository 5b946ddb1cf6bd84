// Package testutil provides test utilities and mock implementations for rekey testing.
//
// This package provides mock implementations of the adapter interfaces for
// unit testing, as well as helper functions for integration tests.
//
// # Mock Implementations
//
//   - [MockDialer]: In-memory implementation of redis.Dialer with per-secret
//     credential validation, so server-side key rotation can be simulated
//   - [MockConn]: Connection handed out by MockDialer; every operation
//     re-checks the credential against the dialer's current validity
//   - [TestMetricsCollector]: Capturing implementation of types.MetricsCollector
//
// # Usage
//
// Create a dialer that accepts a known secret and simulate a rotation:
//
//	dialer := testutil.NewMockDialer("old-primary", "secondary")
//
//	mgr, _ := rekey.New(ctx, dialer, "old-primary", "secondary")
//
//	// Simulate the operator rotating the primary key server-side.
//	dialer.SetSecretValid("old-primary", false)
//	dialer.SetSecretValid("new-primary", true)
//
// # Integration Test Helpers
//
// For integration tests, StartRedis starts a password-protected Redis test
// container (requires Docker).
package testutil
