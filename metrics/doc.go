// Package metrics exposes Prometheus collectors for the taxonomy cache,
// the taxonomy service, and reconciliation event classification.
//
// A nil *Metrics is valid everywhere one is accepted; every observation
// method is a no-op on a nil receiver, so instrumentation stays optional.
package metrics
