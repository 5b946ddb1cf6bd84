package types

// MetricsCollector defines methods for collecting operational metrics.
//
// All slot-scoped methods accept a KeySlot parameter for labeling.
// Implementations should be thread-safe as methods may be called
// concurrently when multiple managers share one collector.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	mgr, _ := rekey.New(ctx, dialer, primaryKey, secondaryKey,
//	    rekey.WithMetrics(collector),
//	)
//
//	// Expose metrics via HTTP
//	http.HandleFunc("/metrics", collector.Handler)
type MetricsCollector interface {
	// ----------------------
	// Connection Lifecycle
	// ----------------------

	// IncConnectTotal increments the connect attempt counter.
	IncConnectTotal(slot KeySlot)

	// IncConnectError increments the connect failure counter.
	IncConnectError(slot KeySlot)

	// SetActiveSlot records which slot currently backs the live connection.
	SetActiveSlot(slot KeySlot)

	// ----------------------
	// Read Operations
	// ----------------------

	// IncReadTotal increments the total read operations counter.
	IncReadTotal(slot KeySlot)

	// IncReadError increments the read error counter.
	IncReadError(slot KeySlot)

	// ObserveReadDuration records a read operation duration in seconds.
	ObserveReadDuration(slot KeySlot, seconds float64)

	// ----------------------
	// Write Operations
	// ----------------------

	// IncWriteTotal increments the total write operations counter.
	IncWriteTotal(slot KeySlot)

	// IncWriteError increments the write error counter.
	IncWriteError(slot KeySlot)

	// ObserveWriteDuration records a write operation duration in seconds.
	ObserveWriteDuration(slot KeySlot, seconds float64)

	// ----------------------
	// Delete Operations
	// ----------------------

	// IncDeleteTotal increments the total delete operations counter.
	IncDeleteTotal(slot KeySlot)

	// IncDeleteError increments the delete error counter.
	IncDeleteError(slot KeySlot)

	// ObserveDeleteDuration records a delete operation duration in seconds.
	ObserveDeleteDuration(slot KeySlot, seconds float64)

	// ----------------------
	// Failover / Retry
	// ----------------------

	// IncKeySwitchTotal increments the key switch counter.
	// Called when the active slot changes, in either direction.
	IncKeySwitchTotal(from, to KeySlot)

	// IncRetryTotal increments the retry counter.
	// Called once per backoff-and-reconnect cycle in the executor.
	IncRetryTotal(slot KeySlot)

	// ----------------------
	// Key Rotation
	// ----------------------

	// IncRotationProbeTotal increments the counter of rotation probes issued.
	IncRotationProbeTotal()

	// IncRotationProbeError increments the counter of failed rotation probes.
	IncRotationProbeError()

	// IncRotationAdoptedTotal increments the counter of successfully
	// re-adopted primary keys.
	IncRotationAdoptedTotal()
}
