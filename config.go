package rekey

import (
	"github.com/arloliu/rekey/internal/logging"
	"github.com/arloliu/rekey/internal/metrics"
	"github.com/arloliu/rekey/policy"
	"github.com/arloliu/rekey/types"
)

// ClientConfig holds configuration for a Manager.
type ClientConfig struct {
	Retry          policy.RetryPolicy
	Classifier     Classifier
	RetryOnTimeout bool
	Logger         types.Logger
	Metrics        types.MetricsCollector
	SlotNames      types.SlotNames
}

// DefaultConfig returns a ClientConfig with sensible defaults.
//
// Defaults:
//   - Retry: 3 attempts, 500ms base delay, multiplier 2
//   - Classifier: policy.Classify
//   - RetryOnTimeout: true
//   - Logger: no-op (use WithLogger for production)
//   - Metrics: no-op (use WithMetrics for production)
//
// Returns:
//   - *ClientConfig: Configuration with default settings
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Retry:          policy.DefaultRetryPolicy(),
		Classifier:     policy.Classify,
		RetryOnTimeout: true,
		Logger:         logging.NewNopLogger(),
		Metrics:        metrics.NewNopMetrics(),
		SlotNames:      types.DefaultSlotNames(),
	}
}

// Option configures a ClientConfig.
type Option func(*ClientConfig)

// WithRetryPolicy sets the retry policy for transient failures.
//
// Parameters:
//   - p: The retry policy to use
//
// Returns:
//   - Option: Configuration option
func WithRetryPolicy(p policy.RetryPolicy) Option {
	return func(c *ClientConfig) {
		c.Retry = p
	}
}

// WithClassifier sets the error classifier consulted by the executor.
//
// If not set, policy.Classify is used.
//
// Parameters:
//   - fn: The classifier function
//
// Returns:
//   - Option: Configuration option
func WithClassifier(fn Classifier) Option {
	return func(c *ClientConfig) {
		c.Classifier = fn
	}
}

// WithRetryOnTimeout controls whether socket timeouts are retried.
//
// When disabled, a timeout propagates after its first occurrence instead of
// consuming the retry budget. Default: enabled.
//
// Parameters:
//   - enabled: Whether timeouts participate in retry
//
// Returns:
//   - Option: Configuration option
func WithRetryOnTimeout(enabled bool) Option {
	return func(c *ClientConfig) {
		c.RetryOnTimeout = enabled
	}
}

// WithLogger sets the structured logger.
//
// If not set, a no-op logger is used that discards all messages.
// The logger interface is compatible with zap.SugaredLogger.
//
// Parameters:
//   - logger: The logger implementation
//
// Returns:
//   - Option: Configuration option
//
// Example:
//
//	logger, _ := zap.NewProduction()
//	mgr, _ := rekey.New(ctx, dialer, primaryKey, secondaryKey,
//	    rekey.WithLogger(logger.Sugar()),
//	)
func WithLogger(logger types.Logger) Option {
	return func(c *ClientConfig) {
		c.Logger = logger
	}
}

// WithMetrics sets the metrics collector.
//
// If not set, a no-op collector is used that discards all metrics.
// Use contrib/metrics/vm.New() for VictoriaMetrics integration.
//
// Parameters:
//   - collector: The metrics collector implementation
//
// Returns:
//   - Option: Configuration option
func WithMetrics(collector types.MetricsCollector) Option {
	return func(c *ClientConfig) {
		c.Metrics = collector
	}
}

// WithSlotNames sets custom display names for the key slots.
//
// These names are used in log messages instead of the default "primary"
// and "secondary". Names must be Prometheus-compatible (alphanumeric with
// underscores, starting with letter or underscore, max 32 chars).
//
// Parameters:
//   - primary: Display name for the primary slot (e.g., "key1", "blue")
//   - secondary: Display name for the secondary slot (e.g., "key2", "green")
//
// Returns:
//   - Option: Configuration option
func WithSlotNames(primary, secondary string) Option {
	return func(c *ClientConfig) {
		c.SlotNames = types.SlotNames{Primary: primary, Secondary: secondary}
	}
}
