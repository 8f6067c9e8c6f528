// Package recerr provides structured error types for reconciliation and
// taxonomy-resolution operations.
//
// This package defines standard error codes and a structured Error type
// that includes the failing operation, an error code, contextual details,
// and cause chains. It integrates with Go's standard errors package for
// error wrapping and unwrapping.
//
// The codes cover ambiguous or missing lineages, missing taxonomic
// preconditions, duplicate species keys, and service outages. Whether an
// error is fatal depends on the caller: tree enrichment (package resolve)
// turns CodeAmbiguous and CodeNotFound into unresolved labels, while
// ancestral inference and reconciliation abort the whole job on any error.
package recerr
