// Package gsdi implements generalized speciation/duplication inference.
//
// Given a rooted binary gene tree whose externals are linked to a rooted
// species tree (arbitrary branching), a postorder walk computes for every
// internal gene node the species-tree node it maps to under the
// least-common-ancestor mapping, and classifies the node as a speciation,
// a duplication, or (at an unresolved species-tree multifurcation under
// the permissive model) an ambiguous speciation-or-duplication.
//
// The LCA step exploits preorder numbering: while the two candidate
// species nodes differ, the one with the larger preorder ID is replaced by
// its parent. Classification uses the oyako ("parent-child") test: whether
// either gene child already maps to the node's own species mapping.
//
// Run mutates the gene tree in place (links and events) and returns the
// aggregate counters, the mapping-cost diagnostic, and the stripping
// report.
package gsdi
