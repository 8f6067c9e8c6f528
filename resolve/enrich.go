package resolve

import (
	"context"
	"sort"

	"github.com/openphylo/sdk/recerr"
	"github.com/openphylo/sdk/taxonomy"
	"github.com/openphylo/sdk/tree"
)

// EnrichOptions configures a tree enrichment run.
type EnrichOptions struct {
	// DeleteUnresolvedExternals removes external nodes whose taxonomy could
	// not be resolved, in a single deferred pass after the traversal.
	DeleteUnresolvedExternals bool

	// AllowBareNames lets nodes without a taxonomy be resolved through
	// their name (scientific name, then code, then common name).
	AllowBareNames bool
}

// EnrichTree resolves every node of t and fills each node's taxonomy from
// its canonical record. It returns the sorted labels of the nodes that
// could not be resolved. Per-node misses and ambiguities are non-fatal;
// only cancellation and service outages return an error.
func (r *Resolver) EnrichTree(ctx context.Context, t *tree.Tree, opts EnrichOptions) ([]string, error) {
	r.cache.EvictIfFull()

	notFound := make(map[string]struct{})
	var doomed []*tree.Node

	markUnresolved := func(n *tree.Node, label string) {
		notFound[label] = struct{}{}
		if opts.DeleteUnresolvedExternals && n.IsExternal() {
			doomed = append(doomed, n)
		}
	}

	for _, node := range t.Postorder() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tax := node.Data.Taxonomy
		bare := opts.AllowBareNames && tax == nil && node.Name() != ""
		if tax == nil && !bare && node.IsExternal() {
			markUnresolved(node, node.Label())
			continue
		}
		if !bare && (tax == nil || !hasResolvableIdentifier(tax)) {
			// Internal node without taxonomic data, or a record with no
			// queryable field: nothing to resolve here.
			continue
		}

		var (
			canon   *taxonomy.Taxonomy
			queried taxonomy.Facet
			err     error
		)
		if tax != nil {
			canon, queried, err = r.Resolve(ctx, tax)
		} else {
			canon, queried, err = r.ResolveName(ctx, node.Name())
		}
		if err != nil {
			code := recerr.CodeOf(err)
			if code == recerr.CodeAmbiguous || code == recerr.CodeNotFound {
				r.log.Debug("taxonomy left unresolved", "node", node.Label(), "error", err)
				canon = nil
			} else {
				return nil, err
			}
		}
		if canon == nil {
			if tax != nil {
				markUnresolved(node, tax.String())
			} else {
				markUnresolved(node, node.Name())
			}
			continue
		}
		if tax == nil {
			tax = &taxonomy.Taxonomy{}
			node.Data.Taxonomy = tax
			node.SetName("")
		}
		merge(queried, node, tax, canon)
	}

	if opts.DeleteUnresolvedExternals && len(doomed) > 0 {
		for _, n := range doomed {
			t.DeleteExternal(n)
		}
		t.Refresh()
	}

	labels := make([]string, 0, len(notFound))
	for l := range notFound {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels, nil
}

// hasResolvableIdentifier reports whether the record carries at least one
// field a lookup strategy can use.
func hasResolvableIdentifier(t *taxonomy.Taxonomy) bool {
	return t.HasAppropriateID() || t.ScientificName != "" || t.Code != "" || t.CommonName != ""
}

// merge fills tax in place from the canonical record. The queried facet is
// never overwritten; scientific name, code (external nodes only), common
// name, and a missing identifier are filled only when empty; synonyms are
// unioned; the rank is taken when empty (lowercased, invalid becomes
// empty); the lineage is always replaced.
func merge(queried taxonomy.Facet, node *tree.Node, tax, canon *taxonomy.Taxonomy) {
	if queried != taxonomy.FacetScientificName && canon.ScientificName != "" && tax.ScientificName == "" {
		tax.ScientificName = canon.ScientificName
	}
	if node.IsExternal() && queried != taxonomy.FacetCode && canon.Code != "" && tax.Code == "" {
		tax.Code = canon.Code
	}
	if queried != taxonomy.FacetCommonName && canon.CommonName != "" && tax.CommonName == "" {
		tax.CommonName = canon.CommonName
	}
	for _, s := range canon.Synonyms {
		tax.AddSynonym(s)
	}
	if canon.Rank != "" && tax.Rank == "" {
		tax.SetRank(canon.Rank)
	}
	if queried != taxonomy.FacetID && canon.Identifier != nil && canon.Identifier.Value != "" &&
		(tax.Identifier == nil || tax.Identifier.Value == "") {
		tax.SetIdentifier(canon.Identifier.Value, canon.Identifier.Provider)
	}
	if canon.Lineage != nil {
		tax.SetLineage(canon.Lineage)
	}
}
