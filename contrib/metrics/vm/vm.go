package vm

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/arloliu/rekey/types"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "rekey"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithSlotNames sets custom display names for the key slots in metric labels.
//
// Default: "primary" and "secondary"
//
// Parameters:
//   - names: The slot names to use in metric labels
//
// Returns:
//   - Option: A configuration option
//
// Example:
//
//	collector := vm.New(
//	    vm.WithSlotNames(types.SlotNames{Primary: "key1", Secondary: "key2"}),
//	)
func WithSlotNames(names types.SlotNames) Option {
	return func(c *Collector) {
		c.slotNames = names
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// All metrics are pre-created at initialization time for optimal performance.
// Thread-safe for concurrent use.
type Collector struct {
	set       *metrics.Set
	prefix    string
	slotNames types.SlotNames

	// Connection lifecycle metrics
	connectTotalPri  *metrics.Counter
	connectTotalSec  *metrics.Counter
	connectErrorsPri *metrics.Counter
	connectErrorsSec *metrics.Counter
	activeSlot       atomic.Int64

	// Read metrics
	readTotalPri    *metrics.Counter
	readTotalSec    *metrics.Counter
	readErrorsPri   *metrics.Counter
	readErrorsSec   *metrics.Counter
	readDurationPri *metrics.Histogram
	readDurationSec *metrics.Histogram

	// Write metrics
	writeTotalPri    *metrics.Counter
	writeTotalSec    *metrics.Counter
	writeErrorsPri   *metrics.Counter
	writeErrorsSec   *metrics.Counter
	writeDurationPri *metrics.Histogram
	writeDurationSec *metrics.Histogram

	// Delete metrics
	deleteTotalPri    *metrics.Counter
	deleteTotalSec    *metrics.Counter
	deleteErrorsPri   *metrics.Counter
	deleteErrorsSec   *metrics.Counter
	deleteDurationPri *metrics.Histogram
	deleteDurationSec *metrics.Histogram

	// Failover / retry metrics
	keySwitchPriToSec *metrics.Counter
	keySwitchSecToPri *metrics.Counter
	retryTotalPri     *metrics.Counter
	retryTotalSec     *metrics.Counter

	// Rotation metrics
	rotationProbeTotal   *metrics.Counter
	rotationProbeErrors  *metrics.Counter
	rotationAdoptedTotal *metrics.Counter
}

// New creates a new VictoriaMetrics-based metrics collector.
//
// The collector creates its own metrics.Set and registers it globally.
// All metrics are pre-created at initialization for optimal performance.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	mgr, _ := rekey.New(ctx, dialer, primaryKey, secondaryKey,
//	    rekey.WithMetrics(collector),
//	)
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix:    "rekey",
		slotNames: types.DefaultSlotNames(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// If no set is provided, create a new one and register it globally.
	// If a set is provided, we assume the caller manages it.
	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	c.initMetrics()

	return c
}

// initMetrics pre-creates all metrics with the configured prefix.
func (c *Collector) initMetrics() {
	p := c.prefix
	nPri := c.slotNames.Primary
	nSec := c.slotNames.Secondary

	// Connection lifecycle metrics
	c.connectTotalPri = c.set.NewCounter(fmt.Sprintf(`%s_connect_total{slot="%s"}`, p, nPri))
	c.connectTotalSec = c.set.NewCounter(fmt.Sprintf(`%s_connect_total{slot="%s"}`, p, nSec))
	c.connectErrorsPri = c.set.NewCounter(fmt.Sprintf(`%s_connect_errors_total{slot="%s"}`, p, nPri))
	c.connectErrorsSec = c.set.NewCounter(fmt.Sprintf(`%s_connect_errors_total{slot="%s"}`, p, nSec))
	c.set.NewGauge(fmt.Sprintf(`%s_active_slot{slot="%s"}`, p, nPri), func() float64 {
		if c.activeSlot.Load() == 0 {
			return 1
		}

		return 0
	})
	c.set.NewGauge(fmt.Sprintf(`%s_active_slot{slot="%s"}`, p, nSec), func() float64 {
		return float64(c.activeSlot.Load())
	})

	// Read metrics
	c.readTotalPri = c.set.NewCounter(fmt.Sprintf(`%s_read_total{slot="%s"}`, p, nPri))
	c.readTotalSec = c.set.NewCounter(fmt.Sprintf(`%s_read_total{slot="%s"}`, p, nSec))
	c.readErrorsPri = c.set.NewCounter(fmt.Sprintf(`%s_read_errors_total{slot="%s"}`, p, nPri))
	c.readErrorsSec = c.set.NewCounter(fmt.Sprintf(`%s_read_errors_total{slot="%s"}`, p, nSec))
	c.readDurationPri = c.set.NewHistogram(fmt.Sprintf(`%s_read_duration_seconds{slot="%s"}`, p, nPri))
	c.readDurationSec = c.set.NewHistogram(fmt.Sprintf(`%s_read_duration_seconds{slot="%s"}`, p, nSec))

	// Write metrics
	c.writeTotalPri = c.set.NewCounter(fmt.Sprintf(`%s_write_total{slot="%s"}`, p, nPri))
	c.writeTotalSec = c.set.NewCounter(fmt.Sprintf(`%s_write_total{slot="%s"}`, p, nSec))
	c.writeErrorsPri = c.set.NewCounter(fmt.Sprintf(`%s_write_errors_total{slot="%s"}`, p, nPri))
	c.writeErrorsSec = c.set.NewCounter(fmt.Sprintf(`%s_write_errors_total{slot="%s"}`, p, nSec))
	c.writeDurationPri = c.set.NewHistogram(fmt.Sprintf(`%s_write_duration_seconds{slot="%s"}`, p, nPri))
	c.writeDurationSec = c.set.NewHistogram(fmt.Sprintf(`%s_write_duration_seconds{slot="%s"}`, p, nSec))

	// Delete metrics
	c.deleteTotalPri = c.set.NewCounter(fmt.Sprintf(`%s_delete_total{slot="%s"}`, p, nPri))
	c.deleteTotalSec = c.set.NewCounter(fmt.Sprintf(`%s_delete_total{slot="%s"}`, p, nSec))
	c.deleteErrorsPri = c.set.NewCounter(fmt.Sprintf(`%s_delete_errors_total{slot="%s"}`, p, nPri))
	c.deleteErrorsSec = c.set.NewCounter(fmt.Sprintf(`%s_delete_errors_total{slot="%s"}`, p, nSec))
	c.deleteDurationPri = c.set.NewHistogram(fmt.Sprintf(`%s_delete_duration_seconds{slot="%s"}`, p, nPri))
	c.deleteDurationSec = c.set.NewHistogram(fmt.Sprintf(`%s_delete_duration_seconds{slot="%s"}`, p, nSec))

	// Failover / retry metrics
	c.keySwitchPriToSec = c.set.NewCounter(fmt.Sprintf(`%s_key_switch_total{from="%s",to="%s"}`, p, nPri, nSec))
	c.keySwitchSecToPri = c.set.NewCounter(fmt.Sprintf(`%s_key_switch_total{from="%s",to="%s"}`, p, nSec, nPri))
	c.retryTotalPri = c.set.NewCounter(fmt.Sprintf(`%s_retry_total{slot="%s"}`, p, nPri))
	c.retryTotalSec = c.set.NewCounter(fmt.Sprintf(`%s_retry_total{slot="%s"}`, p, nSec))

	// Rotation metrics
	c.rotationProbeTotal = c.set.NewCounter(fmt.Sprintf(`%s_rotation_probe_total`, p))
	c.rotationProbeErrors = c.set.NewCounter(fmt.Sprintf(`%s_rotation_probe_errors_total`, p))
	c.rotationAdoptedTotal = c.set.NewCounter(fmt.Sprintf(`%s_rotation_adopted_total`, p))
}

func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// ----------------------
// Connection Lifecycle
// ----------------------

// IncConnectTotal increments the connect attempt counter.
func (c *Collector) IncConnectTotal(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.connectTotalPri.Inc()
	} else {
		c.connectTotalSec.Inc()
	}
}

// IncConnectError increments the connect failure counter.
func (c *Collector) IncConnectError(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.connectErrorsPri.Inc()
	} else {
		c.connectErrorsSec.Inc()
	}
}

// SetActiveSlot records which slot currently backs the live connection.
func (c *Collector) SetActiveSlot(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.activeSlot.Store(0)
	} else {
		c.activeSlot.Store(1)
	}
}

// ----------------------
// Read Operations
// ----------------------

// IncReadTotal increments the total read operations counter.
func (c *Collector) IncReadTotal(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.readTotalPri.Inc()
	} else {
		c.readTotalSec.Inc()
	}
}

// IncReadError increments the read error counter.
func (c *Collector) IncReadError(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.readErrorsPri.Inc()
	} else {
		c.readErrorsSec.Inc()
	}
}

// ObserveReadDuration records a read operation duration in seconds.
func (c *Collector) ObserveReadDuration(slot types.KeySlot, seconds float64) {
	if slot == types.SlotPrimary {
		c.readDurationPri.Update(seconds)
	} else {
		c.readDurationSec.Update(seconds)
	}
}

// ----------------------
// Write Operations
// ----------------------

// IncWriteTotal increments the total write operations counter.
func (c *Collector) IncWriteTotal(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.writeTotalPri.Inc()
	} else {
		c.writeTotalSec.Inc()
	}
}

// IncWriteError increments the write error counter.
func (c *Collector) IncWriteError(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.writeErrorsPri.Inc()
	} else {
		c.writeErrorsSec.Inc()
	}
}

// ObserveWriteDuration records a write operation duration in seconds.
func (c *Collector) ObserveWriteDuration(slot types.KeySlot, seconds float64) {
	if slot == types.SlotPrimary {
		c.writeDurationPri.Update(seconds)
	} else {
		c.writeDurationSec.Update(seconds)
	}
}

// ----------------------
// Delete Operations
// ----------------------

// IncDeleteTotal increments the total delete operations counter.
func (c *Collector) IncDeleteTotal(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.deleteTotalPri.Inc()
	} else {
		c.deleteTotalSec.Inc()
	}
}

// IncDeleteError increments the delete error counter.
func (c *Collector) IncDeleteError(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.deleteErrorsPri.Inc()
	} else {
		c.deleteErrorsSec.Inc()
	}
}

// ObserveDeleteDuration records a delete operation duration in seconds.
func (c *Collector) ObserveDeleteDuration(slot types.KeySlot, seconds float64) {
	if slot == types.SlotPrimary {
		c.deleteDurationPri.Update(seconds)
	} else {
		c.deleteDurationSec.Update(seconds)
	}
}

// ----------------------
// Failover / Retry
// ----------------------

// IncKeySwitchTotal increments the key switch counter.
func (c *Collector) IncKeySwitchTotal(from, to types.KeySlot) {
	if from == types.SlotPrimary && to == types.SlotSecondary {
		c.keySwitchPriToSec.Inc()
	} else if from == types.SlotSecondary && to == types.SlotPrimary {
		c.keySwitchSecToPri.Inc()
	}
}

// IncRetryTotal increments the retry counter.
func (c *Collector) IncRetryTotal(slot types.KeySlot) {
	if slot == types.SlotPrimary {
		c.retryTotalPri.Inc()
	} else {
		c.retryTotalSec.Inc()
	}
}

// ----------------------
// Key Rotation
// ----------------------

// IncRotationProbeTotal increments the counter of rotation probes issued.
func (c *Collector) IncRotationProbeTotal() {
	c.rotationProbeTotal.Inc()
}

// IncRotationProbeError increments the counter of failed rotation probes.
func (c *Collector) IncRotationProbeError() {
	c.rotationProbeErrors.Inc()
}

// IncRotationAdoptedTotal increments the counter of re-adopted primary keys.
func (c *Collector) IncRotationAdoptedTotal() {
	c.rotationAdoptedTotal.Inc()
}
