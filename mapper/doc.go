// Package mapper binds the external nodes of a gene tree to the external
// nodes of a species tree.
//
// The binding key, called the comparison basis, is chosen by scanning the gene
// tree once and picking the taxonomy facet most of its externals carry:
// scientific name, then provider identifier, then code. The species tree's
// externals are indexed under the same basis (duplicate keys are an
// error), and every gene external is linked to its species node, or
// optionally stripped when it cannot be.
package mapper
