package ancestral

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openphylo/sdk/cache"
	"github.com/openphylo/sdk/recerr"
	"github.com/openphylo/sdk/resolve"
	"github.com/openphylo/sdk/service"
	"github.com/openphylo/sdk/taxonomy"
	"github.com/openphylo/sdk/tree"
)

// DefaultMaxResults bounds the service lookups used during inference.
// Lineage disambiguation needs a wider net than direct resolution.
const DefaultMaxResults = 100

// Option configures an Inferer.
type Option func(*Inferer)

// WithMaxResults overrides the per-query result bound.
func WithMaxResults(n int) Option {
	return func(i *Inferer) { i.maxResults = n }
}

// WithLogger sets the inferer's logger.
func WithLogger(log *slog.Logger) Option {
	return func(i *Inferer) { i.log = log }
}

// Inferer performs ancestral taxonomy inference over gene trees.
type Inferer struct {
	resolver   *resolve.Resolver
	maxResults int
	log        *slog.Logger
}

// New creates an Inferer over the given cache and service.
func New(c *cache.Cache, svc service.Service, opts ...Option) *Inferer {
	i := &Inferer{maxResults: DefaultMaxResults, log: slog.Default()}
	for _, opt := range opts {
		opt(i)
	}
	i.resolver = resolve.New(c, svc,
		resolve.WithMaxResults(i.maxResults), resolve.WithLogger(i.log))
	return i
}

// Infer walks t in postorder and assigns a taxonomy to every internal
// node. Prior taxonomies on internal nodes are discarded. Any failure is
// fatal for the whole run.
func (i *Inferer) Infer(ctx context.Context, t *tree.Tree) error {
	i.resolver.Cache().EvictIfFull()
	for _, n := range t.Postorder() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n.IsExternal() {
			continue
		}
		if err := i.inferNode(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (i *Inferer) inferNode(ctx context.Context, n *tree.Node) error {
	n.Data.Taxonomy = nil

	descs := n.Children()
	lineages := make([][]string, 0, len(descs))
	shortest := -1
	for _, desc := range descs {
		dtax := desc.Data.Taxonomy
		if dtax == nil || !resolvable(dtax) {
			return recerr.Newf("ancestral", recerr.CodeMissingTaxonomy,
				"node %s has no or inappropriate taxonomic information", descLabel(desc))
		}
		canon, _, err := i.resolver.ResolveDirect(ctx, dtax)
		if err != nil {
			return err
		}
		var lineage []string
		if canon != nil {
			lineage = canon.Lineage
		}
		if len(lineage) == 0 {
			return recerr.Newf("ancestral", recerr.CodeNotFound,
				"a taxonomic lineage for node %q could not be found", dtax.String())
		}
		if shortest < 0 || len(lineage) < shortest {
			shortest = len(lineage)
		}
		lineages = append(lineages, lineage)
	}

	common := commonPrefix(lineages, shortest)
	if len(common) == 0 {
		return recerr.New("ancestral", recerr.CodeNotFound,
			"no common lineage for: "+enumerateLineages(lineages))
	}

	tax := &taxonomy.Taxonomy{ScientificName: common[len(common)-1]}
	n.Data.Taxonomy = tax

	canon, err := i.resolver.ResolveLineage(ctx, common)
	if err != nil {
		return err
	}
	if canon != nil {
		if canon.Rank != "" {
			tax.SetRank(canon.Rank)
		}
		if canon.Identifier != nil && canon.Identifier.Value != "" {
			tax.SetIdentifier(canon.Identifier.Value, canon.Identifier.Provider)
		}
		if canon.CommonName != "" {
			tax.CommonName = canon.CommonName
		}
		for _, s := range canon.Synonyms {
			tax.AddSynonym(s)
		}
		if canon.Lineage != nil {
			tax.SetLineage(canon.Lineage)
		}
	}

	// An internal descendant that repeats the exact ancestor taxonomy adds
	// no information on an unbranched line; drop it.
	for _, desc := range descs {
		if !desc.IsExternal() && desc.Data.Taxonomy != nil && desc.Data.Taxonomy.Equal(tax) {
			desc.Data.Taxonomy = nil
		}
	}
	return nil
}

func resolvable(t *taxonomy.Taxonomy) bool {
	return t.HasAppropriateID() || t.ScientificName != "" || t.Code != "" || t.CommonName != ""
}

// commonPrefix returns the longest prefix shared by every lineage,
// comparing at most limit elements.
func commonPrefix(lineages [][]string, limit int) []string {
	var common []string
	for i := 0; i < limit; i++ {
		first := lineages[0][i]
		for _, l := range lineages[1:] {
			if l[i] != first {
				return common
			}
		}
		common = append(common, first)
	}
	return common
}

func enumerateLineages(lineages [][]string) string {
	var sb strings.Builder
	for i, l := range lineages {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%d: %s", i, strings.Join(l, " "))
	}
	return sb.String()
}

func descLabel(n *tree.Node) string {
	if n.Name() != "" {
		return fmt.Sprintf("%q", n.Name())
	}
	return fmt.Sprintf("[%d]", n.ID())
}
