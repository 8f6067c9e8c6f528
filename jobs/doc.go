// Package jobs runs resolution, inference, and reconciliation as
// background jobs.
//
// A Runner owns a fixed pool of worker goroutines fed by a submit queue.
// Submitting returns a Handle carrying the job's UUID; the caller can wait
// for completion, read the job's error, or cancel it. Within a job the
// algorithms are single-threaded; only the taxonomy cache and the taxonomy
// service are shared between concurrently running jobs.
//
// Every job runs under an OpenTelemetry span and logs its start, finish,
// and failure through slog. Close drains the pool gracefully within a
// shutdown timeout.
package jobs
