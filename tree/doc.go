// Package tree provides the in-memory rooted phylogeny shared by the
// resolution and reconciliation subsystems.
//
// A Tree owns a hierarchy of Nodes with ordered descendants. Node IDs are
// assigned by preorder traversal, so for any two nodes in the same tree an
// ancestor always carries a smaller ID than its descendants; the
// reconciliation LCA walk relies on this property.
//
// Nodes carry a Data payload: an optional taxonomy record, the event
// assigned by reconciliation, a borrowed link into another tree (the
// gene→species mapping), and an opaque visual payload that is round-tripped
// but never interpreted here.
//
// Trees are built by external parsers; this package assumes a normalized
// structure and offers the two deterministic iteration orders the
// algorithms need (postorder and external-forward), plus the surgery
// primitives used when unresolved or unmapped externals are stripped.
package tree
