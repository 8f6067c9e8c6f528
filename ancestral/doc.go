// Package ancestral assigns taxonomies to the internal nodes of a gene
// tree from the common lineage of their descendants.
//
// For each internal node, in postorder, the canonical taxonomy of every
// direct descendant is obtained and the longest common prefix of their
// lineages is computed. The node receives a taxonomy named after the last
// element of that prefix, enriched from the lineage cache when the prefix
// resolves to a unique record. A descendant chain that repeats the exact
// ancestor taxonomy is pruned so an unbranched ancestral line is not
// labeled twice.
//
// Unlike tree enrichment, any per-node failure here is fatal for the whole
// run: the inference produces a single coherent reconstruction or none.
package ancestral
