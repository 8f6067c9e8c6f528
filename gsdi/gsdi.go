package gsdi

import (
	"context"
	"fmt"
	"strings"

	"github.com/openphylo/sdk/mapper"
	"github.com/openphylo/sdk/metrics"
	"github.com/openphylo/sdk/recerr"
	"github.com/openphylo/sdk/taxonomy"
	"github.com/openphylo/sdk/tree"
)

// Options configures a reconciliation run.
type Options struct {
	// MostParsimonious labels the undecidable multifurcation case as a
	// duplication instead of an ambiguous speciation-or-duplication.
	MostParsimonious bool

	// StripGeneTree removes unmappable gene externals instead of failing.
	StripGeneTree bool

	// StripSpeciesTree removes species externals no gene node maps to.
	StripSpeciesTree bool

	// Metrics receives per-event counters; nil disables instrumentation.
	Metrics *metrics.Metrics
}

// Result is the outcome of a reconciliation run. The gene tree itself is
// mutated in place: every internal node carries an event and a link.
type Result struct {
	// Speciations, Duplications, and SpeciationOrDuplications count the
	// classified internal gene nodes.
	Speciations              int
	Duplications             int
	SpeciationOrDuplications int

	// MappingCost is the diagnostic cost L: the summed preorder-depth
	// differences between each internal node's mapping and its children's.
	MappingCost int

	// MostParsimonious records the duplication model the run used.
	MostParsimonious bool

	// Basis is the taxonomy comparison basis that keyed the binding.
	Basis mapper.Basis

	// StrippedGeneNodes and StrippedSpeciesNodes report the externals
	// removed before the walk; MappedSpeciesNodes the species externals at
	// least one gene node links to.
	StrippedGeneNodes    []*tree.Node
	StrippedSpeciesNodes []*tree.Node
	MappedSpeciesNodes   map[*tree.Node]struct{}
}

// Events returns the total number of classified nodes.
func (r *Result) Events() int {
	return r.Speciations + r.Duplications + r.SpeciationOrDuplications
}

// String renders the reconciliation summary.
func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "most parsimonious duplication model: %t\n", r.MostParsimonious)
	fmt.Fprintf(&sb, "speciations sum                    : %d\n", r.Speciations)
	fmt.Fprintf(&sb, "duplications sum                   : %d\n", r.Duplications)
	if !r.MostParsimonious {
		fmt.Fprintf(&sb, "speciation or duplications sum     : %d\n", r.SpeciationOrDuplications)
	}
	fmt.Fprintf(&sb, "mapping cost L                     : %d", r.MappingCost)
	return sb.String()
}

// Run reconciles the gene tree against the species tree. The species tree
// is preorder-renumbered, gene externals are linked under the determined
// comparison basis (with optional stripping), and the postorder walk
// assigns a mapping and an event to every internal gene node.
func Run(ctx context.Context, geneTree, speciesTree *tree.Tree, opts Options) (*Result, error) {
	speciesTree.PreorderReID()

	linked, err := mapper.Link(geneTree, speciesTree, mapper.Options{
		StripGeneTree:    opts.StripGeneTree,
		StripSpeciesTree: opts.StripSpeciesTree,
	})
	if err != nil {
		return nil, err
	}
	res := &Result{
		MostParsimonious:     opts.MostParsimonious,
		Basis:                linked.Basis,
		StrippedGeneNodes:    linked.StrippedGeneNodes,
		StrippedSpeciesNodes: linked.StrippedSpeciesNodes,
		MappedSpeciesNodes:   linked.MappedSpeciesNodes,
	}

	if geneTree.NumExternals() < 2 {
		return nil, recerr.New("gsdi", recerr.CodeInsufficientTaxonomy,
			"gene tree has fewer than two mappable external nodes")
	}
	for _, g := range geneTree.Postorder() {
		if g.IsExternal() {
			if g.Data.Link == nil {
				return nil, recerr.Newf("gsdi", recerr.CodeInvalidState,
					"external gene node %q has no species link", g.Label())
			}
			continue
		}
		if g.NumChildren() != 2 {
			return nil, recerr.Newf("gsdi", recerr.CodeInvalidState,
				"gene tree is not binary at node %q", g.Label())
		}
	}

	for _, g := range geneTree.Postorder() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if g.IsExternal() {
			continue
		}
		s1 := g.Child(0).Data.Link
		s2 := g.Child(1).Data.Link
		for s1 != s2 {
			if s1.ID() > s2.ID() {
				s1 = s1.Parent()
			} else {
				s2 = s2.Parent()
			}
		}
		g.Data.Link = s1

		event := determineEvent(s1, g, opts.MostParsimonious)
		g.Data.Event = event
		opts.Metrics.Event(event)
		switch event {
		case taxonomy.EventSpeciation:
			res.Speciations++
		case taxonomy.EventDuplication:
			res.Duplications++
		case taxonomy.EventSpeciationOrDuplication:
			res.SpeciationOrDuplications++
		}

		res.MappingCost += (g.Child(0).Data.Link.Depth() - s1.Depth()) +
			(g.Child(1).Data.Link.Depth() - s1.Depth())
	}
	return res, nil
}

// determineEvent classifies internal gene node g, mapped to species node s.
func determineEvent(s *tree.Node, g *tree.Node, mostParsimonious bool) taxonomy.Event {
	oyako := g.Child(0).Data.Link == s || g.Child(1).Data.Link == s
	if s.NumChildren() == 2 {
		if oyako {
			return taxonomy.EventDuplication
		}
		return taxonomy.EventSpeciation
	}
	// Multifurcating species node.
	if !oyako {
		return taxonomy.EventSpeciation
	}
	// Both gene subtrees reaching the same direct child of s means the
	// duplication happened below s and is certain. Otherwise the split
	// cannot be decided at an unresolved multifurcation.
	first := speciesChildrenUnder(s, g.Child(0))
	for n := range speciesChildrenUnder(s, g.Child(1)) {
		if _, shared := first[n]; shared {
			return taxonomy.EventDuplication
		}
	}
	if mostParsimonious {
		return taxonomy.EventDuplication
	}
	return taxonomy.EventSpeciationOrDuplication
}

// speciesChildrenUnder collects, for every external of the gene subtree,
// the direct child of s its species link falls under (or the species-tree
// root when the upward walk reaches it without meeting s).
func speciesChildrenUnder(s *tree.Node, geneSubtree *tree.Node) map[*tree.Node]struct{} {
	set := make(map[*tree.Node]struct{})
	for _, ext := range geneSubtree.ExternalDescendants() {
		n := ext.Data.Link
		for n.Parent() != s {
			if n.IsRoot() {
				break
			}
			n = n.Parent()
		}
		set[n] = struct{}{}
	}
	return set
}
