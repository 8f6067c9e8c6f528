package mapper

import (
	"github.com/openphylo/sdk/recerr"
	"github.com/openphylo/sdk/taxonomy"
	"github.com/openphylo/sdk/tree"
)

// Basis is the taxonomy facet used to key the gene→species binding.
type Basis int

const (
	// BasisScientificName keys by scientific name.
	BasisScientificName Basis = iota

	// BasisID keys by provider identifier value.
	BasisID

	// BasisCode keys by taxonomy code.
	BasisCode
)

func (b Basis) String() string {
	switch b {
	case BasisScientificName:
		return "scientific_name"
	case BasisID:
		return "id"
	case BasisCode:
		return "code"
	}
	return "unknown"
}

// key projects a taxonomy onto the basis, empty when the field is absent.
func (b Basis) key(t *taxonomy.Taxonomy) string {
	if t == nil {
		return ""
	}
	switch b {
	case BasisScientificName:
		return t.ScientificName
	case BasisID:
		return t.ID()
	case BasisCode:
		return t.Code
	}
	return ""
}

// DetermineBasis scans the gene tree's externals and picks the facet the
// most of them carry: scientific name wins ties, then identifier, then
// code. Fewer than two externals with any taxonomic data is an error.
func DetermineBasis(geneTree *tree.Tree) (Basis, error) {
	var withID, withCode, withSN, max int
	for _, g := range geneTree.ExternalsForward() {
		tax := g.Data.Taxonomy
		if tax == nil {
			continue
		}
		if tax.ID() != "" {
			if withID++; withID > max {
				max = withID
			}
		}
		if tax.Code != "" {
			if withCode++; withCode > max {
				max = withCode
			}
		}
		if tax.ScientificName != "" {
			if withSN++; withSN > max {
				max = withSN
			}
		}
	}
	switch {
	case max == 0:
		return 0, recerr.New("mapper", recerr.CodeInsufficientTaxonomy,
			"gene tree has no taxonomic data")
	case max == 1:
		return 0, recerr.New("mapper", recerr.CodeInsufficientTaxonomy,
			"gene tree has only one node with taxonomic data")
	case max == withSN:
		return BasisScientificName, nil
	case max == withID:
		return BasisID, nil
	default:
		return BasisCode, nil
	}
}

// Options configures a linking run.
type Options struct {
	// StripGeneTree removes gene externals that cannot be mapped instead of
	// failing.
	StripGeneTree bool

	// StripSpeciesTree removes species externals no gene node mapped to.
	StripSpeciesTree bool
}

// Result reports the outcome of a linking run.
type Result struct {
	// Basis is the comparison basis that keyed the binding.
	Basis Basis

	// StrippedGeneNodes are the gene externals removed because they could
	// not be mapped.
	StrippedGeneNodes []*tree.Node

	// StrippedSpeciesNodes are the species externals removed because no
	// gene node mapped to them.
	StrippedSpeciesNodes []*tree.Node

	// MappedSpeciesNodes is the set of species externals at least one gene
	// node links to.
	MappedSpeciesNodes map[*tree.Node]struct{}
}

// Link binds every external node of the gene tree to its species-tree
// node under the determined comparison basis, then performs the requested
// stripping and refreshes both trees' bookkeeping.
func Link(geneTree, speciesTree *tree.Tree, opts Options) (*Result, error) {
	basis, err := DetermineBasis(geneTree)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Basis:              basis,
		MappedSpeciesNodes: make(map[*tree.Node]struct{}),
	}

	speciesExt := speciesTree.ExternalsForward()
	speciesByKey := make(map[string]*tree.Node, len(speciesExt))
	for _, s := range speciesExt {
		key := basis.key(s.Data.Taxonomy)
		if key == "" {
			continue
		}
		if _, dup := speciesByKey[key]; dup {
			return nil, recerr.Newf("mapper", recerr.CodeDuplicateSpeciesKey,
				"taxonomy %q is not unique in species tree", key)
		}
		speciesByKey[key] = s
	}

	for _, g := range geneTree.ExternalsForward() {
		tax := g.Data.Taxonomy
		if tax == nil {
			if !opts.StripGeneTree {
				return nil, recerr.Newf("mapper", recerr.CodeMissingTaxonomy,
					"gene tree node %q has no taxonomic data", g.Label())
			}
			res.StrippedGeneNodes = append(res.StrippedGeneNodes, g)
			continue
		}
		key := basis.key(tax)
		if key == "" {
			if !opts.StripGeneTree {
				return nil, recerr.Newf("mapper", recerr.CodeMissingTaxonomy,
					"gene tree node %q has no appropriate taxonomic data", g.Label())
			}
			res.StrippedGeneNodes = append(res.StrippedGeneNodes, g)
			continue
		}
		s, ok := speciesByKey[key]
		if !ok {
			if !opts.StripGeneTree {
				return nil, recerr.Newf("mapper", recerr.CodeNotFound,
					"taxonomy %q not present in species tree", tax.String())
			}
			res.StrippedGeneNodes = append(res.StrippedGeneNodes, g)
			continue
		}
		g.Data.Link = s
		res.MappedSpeciesNodes[s] = struct{}{}
	}

	if opts.StripGeneTree && len(res.StrippedGeneNodes) > 0 {
		for _, g := range res.StrippedGeneNodes {
			geneTree.DeleteExternal(g)
		}
		geneTree.Refresh()
	}
	if opts.StripSpeciesTree {
		for _, s := range speciesExt {
			if _, mapped := res.MappedSpeciesNodes[s]; !mapped {
				res.StrippedSpeciesNodes = append(res.StrippedSpeciesNodes, s)
				speciesTree.DeleteExternal(s)
			}
		}
		if len(res.StrippedSpeciesNodes) > 0 {
			speciesTree.Refresh()
		}
	}
	return res, nil
}
