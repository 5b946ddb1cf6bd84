// Package metrics provides internal metrics utilities for rekey.
package metrics

import "github.com/arloliu/rekey/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is
// configured, avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// ----------------------
// Connection Lifecycle
// ----------------------

// IncConnectTotal discards the metric.
func (m *NopMetrics) IncConnectTotal(_ types.KeySlot) {}

// IncConnectError discards the metric.
func (m *NopMetrics) IncConnectError(_ types.KeySlot) {}

// SetActiveSlot discards the metric.
func (m *NopMetrics) SetActiveSlot(_ types.KeySlot) {}

// ----------------------
// Read Operations
// ----------------------

// IncReadTotal discards the metric.
func (m *NopMetrics) IncReadTotal(_ types.KeySlot) {}

// IncReadError discards the metric.
func (m *NopMetrics) IncReadError(_ types.KeySlot) {}

// ObserveReadDuration discards the metric.
func (m *NopMetrics) ObserveReadDuration(_ types.KeySlot, _ float64) {}

// ----------------------
// Write Operations
// ----------------------

// IncWriteTotal discards the metric.
func (m *NopMetrics) IncWriteTotal(_ types.KeySlot) {}

// IncWriteError discards the metric.
func (m *NopMetrics) IncWriteError(_ types.KeySlot) {}

// ObserveWriteDuration discards the metric.
func (m *NopMetrics) ObserveWriteDuration(_ types.KeySlot, _ float64) {}

// ----------------------
// Delete Operations
// ----------------------

// IncDeleteTotal discards the metric.
func (m *NopMetrics) IncDeleteTotal(_ types.KeySlot) {}

// IncDeleteError discards the metric.
func (m *NopMetrics) IncDeleteError(_ types.KeySlot) {}

// ObserveDeleteDuration discards the metric.
func (m *NopMetrics) ObserveDeleteDuration(_ types.KeySlot, _ float64) {}

// ----------------------
// Failover / Retry
// ----------------------

// IncKeySwitchTotal discards the metric.
func (m *NopMetrics) IncKeySwitchTotal(_, _ types.KeySlot) {}

// IncRetryTotal discards the metric.
func (m *NopMetrics) IncRetryTotal(_ types.KeySlot) {}

// ----------------------
// Key Rotation
// ----------------------

// IncRotationProbeTotal discards the metric.
func (m *NopMetrics) IncRotationProbeTotal() {}

// IncRotationProbeError discards the metric.
func (m *NopMetrics) IncRotationProbeError() {}

// IncRotationAdoptedTotal discards the metric.
func (m *NopMetrics) IncRotationAdoptedTotal() {}
