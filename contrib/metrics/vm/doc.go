// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// high-performance Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "rekey":
//
//	collector := vm.New()
//	mgr, _ := rekey.New(ctx, dialer, primaryKey, secondaryKey,
//	    rekey.WithMetrics(collector),
//	)
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//
// This produces metrics like:
//   - myapp_write_total{slot="primary"}
//   - myapp_read_duration_seconds{slot="secondary"}
//
// # Exposing Metrics
//
// Use the Handler method to expose metrics via HTTP:
//
//	http.HandleFunc("/metrics", collector.Handler)
//	http.ListenAndServe(":8080", nil)
//
// Or use WritePrometheus to write metrics to a custom writer:
//
//	collector.WritePrometheus(w)
//
// # Metrics Provided
//
// Connection lifecycle:
//   - {prefix}_connect_total{slot} - Counter of connect attempts
//   - {prefix}_connect_errors_total{slot} - Counter of connect failures
//   - {prefix}_active_slot{slot} - Gauge (1 on the slot backing the live connection)
//
// Read operations:
//   - {prefix}_read_total{slot} - Counter of read operations
//   - {prefix}_read_errors_total{slot} - Counter of read errors
//   - {prefix}_read_duration_seconds{slot} - Histogram of read latencies
//
// Write operations:
//   - {prefix}_write_total{slot} - Counter of write operations
//   - {prefix}_write_errors_total{slot} - Counter of write errors
//   - {prefix}_write_duration_seconds{slot} - Histogram of write latencies
//
// Delete operations:
//   - {prefix}_delete_total{slot} - Counter of delete operations
//   - {prefix}_delete_errors_total{slot} - Counter of delete errors
//   - {prefix}_delete_duration_seconds{slot} - Histogram of delete latencies
//
// Failover and retry:
//   - {prefix}_key_switch_total{from,to} - Counter of key switch events
//   - {prefix}_retry_total{slot} - Counter of executor retries
//
// Key rotation:
//   - {prefix}_rotation_probe_total - Counter of rotation probes issued
//   - {prefix}_rotation_probe_errors_total - Counter of failed rotation probes
//   - {prefix}_rotation_adopted_total - Counter of re-adopted primary keys
//
// # Performance Notes
//
// This implementation pre-creates all metrics at initialization time
// using the NewXXX pattern (instead of GetOrCreateXXX) for optimal
// performance in hot paths, as recommended by the VictoriaMetrics documentation.
//
// The metrics are registered with a dedicated Set that is registered
// globally, allowing standard Prometheus scraping.
package vm
