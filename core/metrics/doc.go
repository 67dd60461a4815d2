// Package metrics exposes prometheus instrumentation for the bridge.
//
// Metrics live in a private registry so that several instances (for example
// one per test) never collide. All recording methods are safe to call on a nil
// *Metrics, which is what callers get when metrics are disabled.
//
// # Series
//
//   - <ns>_operations_total{operation,outcome}
//   - <ns>_operation_duration_seconds{operation}
//   - <ns>_client_cache_lookups_total{result="hit|miss"}
//   - <ns>_client_builds_total{result="ok|error"}
//   - <ns>_cached_clients
//   - <ns>_bridge_inflight
package metrics
