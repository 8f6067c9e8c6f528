// Package service defines the taxonomy lookup capability consumed by the
// resolver and the ancestral inferer.
//
// The Service interface is a narrow seam: transport, authentication, and
// rate limiting belong to adapters behind it. The package ships two
// decorators (Retry for bounded retries with backoff, Traced for
// OpenTelemetry spans around each search) plus a scripted in-memory Fake
// used throughout the test suites.
package service
