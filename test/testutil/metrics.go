package testutil

import (
	"sync"

	"github.com/arloliu/rekey/types"
)

// TestMetricsCollector is a test implementation of types.MetricsCollector
// that tracks method calls for assertion in tests.
type TestMetricsCollector struct {
	mu sync.RWMutex

	// Connection lifecycle
	ConnectTotal  map[types.KeySlot]int64
	ConnectErrors map[types.KeySlot]int64
	ActiveSlot    types.KeySlot

	// Read operations
	ReadTotal    map[types.KeySlot]int64
	ReadErrors   map[types.KeySlot]int64
	ReadDuration map[types.KeySlot][]float64

	// Write operations
	WriteTotal    map[types.KeySlot]int64
	WriteErrors   map[types.KeySlot]int64
	WriteDuration map[types.KeySlot][]float64

	// Delete operations
	DeleteTotal    map[types.KeySlot]int64
	DeleteErrors   map[types.KeySlot]int64
	DeleteDuration map[types.KeySlot][]float64

	// Failover / retry
	KeySwitchTotal map[string]int64 // key: "from->to"
	RetryTotal     map[types.KeySlot]int64

	// Rotation
	RotationProbes  int64
	RotationErrors  int64
	RotationAdopted int64
}

// Compile-time assertion that TestMetricsCollector implements types.MetricsCollector.
var _ types.MetricsCollector = (*TestMetricsCollector)(nil)

// NewTestMetricsCollector creates a new test metrics collector.
func NewTestMetricsCollector() *TestMetricsCollector {
	return &TestMetricsCollector{
		ConnectTotal:   make(map[types.KeySlot]int64),
		ConnectErrors:  make(map[types.KeySlot]int64),
		ReadTotal:      make(map[types.KeySlot]int64),
		ReadErrors:     make(map[types.KeySlot]int64),
		ReadDuration:   make(map[types.KeySlot][]float64),
		WriteTotal:     make(map[types.KeySlot]int64),
		WriteErrors:    make(map[types.KeySlot]int64),
		WriteDuration:  make(map[types.KeySlot][]float64),
		DeleteTotal:    make(map[types.KeySlot]int64),
		DeleteErrors:   make(map[types.KeySlot]int64),
		DeleteDuration: make(map[types.KeySlot][]float64),
		KeySwitchTotal: make(map[string]int64),
		RetryTotal:     make(map[types.KeySlot]int64),
	}
}

// ----------------------
// Connection Lifecycle
// ----------------------

func (m *TestMetricsCollector) IncConnectTotal(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectTotal[slot]++
}

func (m *TestMetricsCollector) IncConnectError(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectErrors[slot]++
}

func (m *TestMetricsCollector) SetActiveSlot(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveSlot = slot
}

// ----------------------
// Read Operations
// ----------------------

func (m *TestMetricsCollector) IncReadTotal(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadTotal[slot]++
}

func (m *TestMetricsCollector) IncReadError(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadErrors[slot]++
}

func (m *TestMetricsCollector) ObserveReadDuration(slot types.KeySlot, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadDuration[slot] = append(m.ReadDuration[slot], seconds)
}

// ----------------------
// Write Operations
// ----------------------

func (m *TestMetricsCollector) IncWriteTotal(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteTotal[slot]++
}

func (m *TestMetricsCollector) IncWriteError(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteErrors[slot]++
}

func (m *TestMetricsCollector) ObserveWriteDuration(slot types.KeySlot, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteDuration[slot] = append(m.WriteDuration[slot], seconds)
}

// ----------------------
// Delete Operations
// ----------------------

func (m *TestMetricsCollector) IncDeleteTotal(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteTotal[slot]++
}

func (m *TestMetricsCollector) IncDeleteError(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteErrors[slot]++
}

func (m *TestMetricsCollector) ObserveDeleteDuration(slot types.KeySlot, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteDuration[slot] = append(m.DeleteDuration[slot], seconds)
}

// ----------------------
// Failover / Retry
// ----------------------

func (m *TestMetricsCollector) IncKeySwitchTotal(from, to types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.KeySwitchTotal[string(from)+"->"+string(to)]++
}

func (m *TestMetricsCollector) IncRetryTotal(slot types.KeySlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RetryTotal[slot]++
}

// ----------------------
// Key Rotation
// ----------------------

func (m *TestMetricsCollector) IncRotationProbeTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RotationProbes++
}

func (m *TestMetricsCollector) IncRotationProbeError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RotationErrors++
}

func (m *TestMetricsCollector) IncRotationAdoptedTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RotationAdopted++
}

// ----------------------
// Test Helpers
// ----------------------

// GetKeySwitchCount returns the key switch count from one slot to another.
func (m *TestMetricsCollector) GetKeySwitchCount(from, to types.KeySlot) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.KeySwitchTotal[string(from)+"->"+string(to)]
}

// GetRetryCount returns the retry count for a slot.
func (m *TestMetricsCollector) GetRetryCount(slot types.KeySlot) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.RetryTotal[slot]
}

// GetWriteErrors returns the write error count for a slot.
func (m *TestMetricsCollector) GetWriteErrors(slot types.KeySlot) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.WriteErrors[slot]
}

// GetActiveSlot returns the last recorded active slot.
func (m *TestMetricsCollector) GetActiveSlot() types.KeySlot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.ActiveSlot
}

// Reset clears all collected metrics.
func (m *TestMetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ConnectTotal = make(map[types.KeySlot]int64)
	m.ConnectErrors = make(map[types.KeySlot]int64)
	m.ActiveSlot = ""
	m.ReadTotal = make(map[types.KeySlot]int64)
	m.ReadErrors = make(map[types.KeySlot]int64)
	m.ReadDuration = make(map[types.KeySlot][]float64)
	m.WriteTotal = make(map[types.KeySlot]int64)
	m.WriteErrors = make(map[types.KeySlot]int64)
	m.WriteDuration = make(map[types.KeySlot][]float64)
	m.DeleteTotal = make(map[types.KeySlot]int64)
	m.DeleteErrors = make(map[types.KeySlot]int64)
	m.DeleteDuration = make(map[types.KeySlot][]float64)
	m.KeySwitchTotal = make(map[string]int64)
	m.RetryTotal = make(map[types.KeySlot]int64)
	m.RotationProbes = 0
	m.RotationErrors = 0
	m.RotationAdopted = 0
}
