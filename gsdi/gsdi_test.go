package gsdi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openphylo/sdk/recerr"
	"github.com/openphylo/sdk/taxonomy"
	"github.com/openphylo/sdk/tree"
)

func snLeaf(sn string) *tree.Node {
	n := tree.NewNode(sn)
	n.Data.Taxonomy = &taxonomy.Taxonomy{ScientificName: sn}
	return n
}

func join(name string, children ...*tree.Node) *tree.Node {
	n := tree.NewNode(name)
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// Scenario S1: simple speciation.
func TestSimpleSpeciation(t *testing.T) {
	a1, b1 := snLeaf("A"), snLeaf("B")
	g := join("G", a1, b1)
	geneTree := tree.New(g)

	s := join("S", snLeaf("A"), snLeaf("B"))
	speciesTree := tree.New(s)

	res, err := Run(context.Background(), geneTree, speciesTree, Options{})
	require.NoError(t, err)

	assert.Same(t, s, g.Data.Link)
	assert.Equal(t, taxonomy.EventSpeciation, g.Data.Event)
	assert.Equal(t, 1, res.Speciations)
	assert.Equal(t, 0, res.Duplications)
	assert.Equal(t, 0, res.SpeciationOrDuplications)
	assert.Equal(t, 2, res.MappingCost)
}

// Scenario S2: simple duplication.
func TestSimpleDuplication(t *testing.T) {
	a1, a2 := snLeaf("A"), snLeaf("A")
	g := join("G", a1, a2)
	geneTree := tree.New(g)

	speciesA := snLeaf("A")
	speciesTree := tree.New(join("S", speciesA, snLeaf("B")))

	// Two gene copies of the same species share one species key; the
	// species tree itself must keep keys unique, the gene tree need not.
	res, err := Run(context.Background(), geneTree, speciesTree, Options{})
	require.NoError(t, err)

	assert.Same(t, speciesA, g.Data.Link)
	assert.Equal(t, taxonomy.EventDuplication, g.Data.Event)
	assert.Equal(t, 0, res.Speciations)
	assert.Equal(t, 1, res.Duplications)
	assert.Equal(t, 0, res.MappingCost)
}

// Scenario S3: LCA over multiple levels.
func TestMultiLevelLCA(t *testing.T) {
	a, b := snLeaf("A"), snLeaf("B")
	c, d := snLeaf("C"), snLeaf("D")
	x := join("X", a, b)
	y := join("Y", c, d)
	z := join("Z", x, y)
	geneTree := tree.New(z)

	s1 := join("S1", snLeaf("A"), snLeaf("B"))
	s2 := join("S2", snLeaf("C"), snLeaf("D"))
	r := join("R", s1, s2)
	speciesTree := tree.New(r)

	res, err := Run(context.Background(), geneTree, speciesTree, Options{})
	require.NoError(t, err)

	assert.Same(t, s1, x.Data.Link)
	assert.Same(t, s2, y.Data.Link)
	assert.Same(t, r, z.Data.Link)
	for _, n := range []*tree.Node{x, y, z} {
		assert.Equal(t, taxonomy.EventSpeciation, n.Data.Event)
	}
	assert.Equal(t, 3, res.Speciations)
	assert.Equal(t, 0, res.Duplications)
}

// LCA law: the mapping is a common ancestor of the children's mappings,
// and no strict descendant of it is.
func TestLCACorrectness(t *testing.T) {
	a, c := snLeaf("A"), snLeaf("C")
	x := join("X", a, c)
	geneTree := tree.New(join("Z", x, snLeaf("B")))

	s1 := join("S1", snLeaf("A"), snLeaf("B"))
	s2 := join("S2", snLeaf("C"), snLeaf("D"))
	r := join("R", s1, s2)
	speciesTree := tree.New(r)

	_, err := Run(context.Background(), geneTree, speciesTree, Options{})
	require.NoError(t, err)

	// A and C sit in different species subtrees: only the root covers both.
	assert.Same(t, r, x.Data.Link)

	isAncestor := func(anc, n *tree.Node) bool {
		for p := n; p != nil; p = p.Parent() {
			if p == anc {
				return true
			}
		}
		return false
	}
	link := x.Data.Link
	assert.True(t, isAncestor(link, x.Child(0).Data.Link))
	assert.True(t, isAncestor(link, x.Child(1).Data.Link))
	for _, child := range link.Children() {
		covers := isAncestor(child, x.Child(0).Data.Link) && isAncestor(child, x.Child(1).Data.Link)
		assert.False(t, covers)
	}
}

// Scenario S4: events at a species-tree multifurcation.
func TestMultifurcationEvents(t *testing.T) {
	newSpecies := func() *tree.Tree {
		return tree.New(join("S", snLeaf("A"), snLeaf("B"), snLeaf("C")))
	}

	t.Run("distinct subtrees are a speciation", func(t *testing.T) {
		a, b := snLeaf("A"), snLeaf("B")
		g := join("G", a, b)
		geneTree := tree.New(g)

		res, err := Run(context.Background(), geneTree, newSpecies(), Options{})
		require.NoError(t, err)

		assert.Equal(t, "S", g.Data.Link.Name())
		assert.Equal(t, taxonomy.EventSpeciation, g.Data.Event)
		assert.Equal(t, 1, res.Speciations)
	})

	t.Run("shared species child is a certain duplication", func(t *testing.T) {
		// (a2,(a1,b1)Y)G: both subtrees reach species child A.
		y := join("Y", snLeaf("A"), snLeaf("B"))
		g := join("G", snLeaf("A"), y)
		geneTree := tree.New(g)

		res, err := Run(context.Background(), geneTree, newSpecies(), Options{})
		require.NoError(t, err)

		assert.Equal(t, taxonomy.EventDuplication, g.Data.Event)
		assert.Equal(t, taxonomy.EventSpeciation, y.Data.Event)
		assert.Equal(t, 1, res.Duplications)
		assert.Equal(t, 1, res.Speciations)
	})

	t.Run("undecidable split is ambiguous under the permissive model", func(t *testing.T) {
		// (a1,(b1,c1)X)G: the gene child X maps to S itself, but the two
		// subtrees touch disjoint species children.
		x := join("X", snLeaf("B"), snLeaf("C"))
		g := join("G", snLeaf("A"), x)
		geneTree := tree.New(g)

		res, err := Run(context.Background(), geneTree, newSpecies(), Options{})
		require.NoError(t, err)

		assert.Equal(t, taxonomy.EventSpeciationOrDuplication, g.Data.Event)
		assert.Equal(t, 1, res.SpeciationOrDuplications)
		assert.Equal(t, 1, res.Speciations) // X
	})

	t.Run("undecidable split is a duplication under the parsimonious model", func(t *testing.T) {
		x := join("X", snLeaf("B"), snLeaf("C"))
		g := join("G", snLeaf("A"), x)
		geneTree := tree.New(g)

		res, err := Run(context.Background(), geneTree, newSpecies(), Options{MostParsimonious: true})
		require.NoError(t, err)

		assert.Equal(t, taxonomy.EventDuplication, g.Data.Event)
		assert.Equal(t, 1, res.Duplications)
		assert.Equal(t, 0, res.SpeciationOrDuplications)
	})
}

// Law 5: event totals equal the number of internal gene nodes.
func TestEventTotals(t *testing.T) {
	build := func() (*tree.Tree, *tree.Tree) {
		x := join("X", snLeaf("A"), snLeaf("A"))
		y := join("Y", snLeaf("B"), snLeaf("C"))
		z := join("Z", x, y)
		geneTree := tree.New(z)
		speciesTree := tree.New(join("S",
			join("S1", snLeaf("A"), snLeaf("B")),
			join("S2", snLeaf("C"), snLeaf("D"))))
		return geneTree, speciesTree
	}

	geneTree, speciesTree := build()
	res, err := Run(context.Background(), geneTree, speciesTree, Options{})
	require.NoError(t, err)

	internal := 0
	for _, n := range geneTree.Postorder() {
		if !n.IsExternal() {
			internal++
			assert.NotEqual(t, taxonomy.EventNone, n.Data.Event)
			assert.NotNil(t, n.Data.Link)
		}
	}
	assert.Equal(t, internal, res.Events())
}

// Law 6: identical inputs give identical events and counters.
func TestDeterminism(t *testing.T) {
	run := func() *Result {
		x := join("X", snLeaf("A"), snLeaf("C"))
		y := join("Y", snLeaf("B"), snLeaf("D"))
		geneTree := tree.New(join("Z", x, y))
		speciesTree := tree.New(join("R",
			join("S1", snLeaf("A"), snLeaf("B")),
			join("S2", snLeaf("C"), snLeaf("D"))))
		res, err := Run(context.Background(), geneTree, speciesTree, Options{})
		require.NoError(t, err)
		return res
	}

	first, second := run(), run()
	assert.Equal(t, first.Speciations, second.Speciations)
	assert.Equal(t, first.Duplications, second.Duplications)
	assert.Equal(t, first.SpeciationOrDuplications, second.SpeciationOrDuplications)
	assert.Equal(t, first.MappingCost, second.MappingCost)
}

func TestStrippingIntegration(t *testing.T) {
	chicken := snLeaf("Gallus gallus")
	g := join("G", join("X", snLeaf("A"), snLeaf("B")), chicken)
	geneTree := tree.New(g)

	unusedSpecies := snLeaf("D")
	speciesTree := tree.New(join("S",
		join("S1", snLeaf("A"), snLeaf("B")),
		unusedSpecies))

	res, err := Run(context.Background(), geneTree, speciesTree, Options{
		StripGeneTree:    true,
		StripSpeciesTree: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []*tree.Node{chicken}, res.StrippedGeneNodes)
	assert.Contains(t, res.StrippedSpeciesNodes, unusedSpecies)
	assert.Equal(t, 2, geneTree.NumExternals())
	assert.Equal(t, 1, res.Speciations)
	assert.Equal(t, res.Events(), 1)
}

func TestUnmappableWithoutStrippingFails(t *testing.T) {
	geneTree := tree.New(join("G", join("X", snLeaf("A"), snLeaf("B")), snLeaf("Z")))
	speciesTree := tree.New(join("S", snLeaf("A"), snLeaf("B")))

	_, err := Run(context.Background(), geneTree, speciesTree, Options{})
	require.Error(t, err)
	assert.True(t, recerr.IsCode(err, recerr.CodeNotFound))
}

func TestNonBinaryGeneTreeFails(t *testing.T) {
	geneTree := tree.New(join("G", snLeaf("A"), snLeaf("B"), snLeaf("C")))
	speciesTree := tree.New(join("S", snLeaf("A"), snLeaf("B"), snLeaf("C")))

	_, err := Run(context.Background(), geneTree, speciesTree, Options{})
	require.Error(t, err)
	assert.True(t, recerr.IsCode(err, recerr.CodeInvalidState))
}

func TestRunHonorsCancellation(t *testing.T) {
	geneTree := tree.New(join("G", snLeaf("A"), snLeaf("B")))
	speciesTree := tree.New(join("S", snLeaf("A"), snLeaf("B")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, geneTree, speciesTree, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestResultSummary(t *testing.T) {
	geneTree := tree.New(join("G", snLeaf("A"), snLeaf("B")))
	speciesTree := tree.New(join("S", snLeaf("A"), snLeaf("B")))

	res, err := Run(context.Background(), geneTree, speciesTree, Options{})
	require.NoError(t, err)

	s := res.String()
	assert.Contains(t, s, "speciations sum")
	assert.Contains(t, s, "mapping cost L")
	assert.Contains(t, s, "speciation or duplications sum")

	res.MostParsimonious = true
	assert.NotContains(t, res.String(), "speciation or duplications sum")
}
