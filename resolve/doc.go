// Package resolve turns partial taxonomic identifiers into canonical
// taxonomy records.
//
// A Resolver orders lookup strategies by the identifiers a record already
// carries: a recognized provider ID wins, then a lineage query when both a
// scientific name and a lineage are present, then scientific name, code,
// and finally common name. Lookups go through the shared cache first; on a
// miss the taxonomy service is consulted and a result is accepted only
// when it is unambiguous (exactly one record).
//
// EnrichTree applies the resolver across a whole tree: resolved nodes have
// their taxonomy filled in from the canonical record without losing any
// field already present, unresolved nodes accumulate into a sorted label
// set (and are optionally deleted when external), and only cancellation
// and service outages abort the run.
package resolve
