package resolve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/openphylo/sdk/cache"
	"github.com/openphylo/sdk/recerr"
	"github.com/openphylo/sdk/service"
	"github.com/openphylo/sdk/taxonomy"
)

// DefaultMaxResults bounds direct service lookups.
const DefaultMaxResults = 10

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxResults overrides the per-query result bound.
func WithMaxResults(n int) Option {
	return func(r *Resolver) { r.maxResults = n }
}

// WithLogger sets the resolver's logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// Resolver resolves partial taxonomies against the cache and the taxonomy
// service.
type Resolver struct {
	cache      *cache.Cache
	svc        service.Service
	maxResults int
	log        *slog.Logger
}

// New creates a Resolver over the given cache and service.
func New(c *cache.Cache, svc service.Service, opts ...Option) *Resolver {
	r := &Resolver{
		cache:      c,
		svc:        svc,
		maxResults: DefaultMaxResults,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the resolver's cache.
func (r *Resolver) Cache() *cache.Cache { return r.cache }

// Resolve returns the canonical record for tax, choosing the lookup
// strategy by the identifiers present, lineage-first: provider ID, then
// lineage (when a scientific name and lineage are both present), then
// scientific name, code, and common name. The returned facet is the one
// that was queried. A nil record with a nil error means unresolved.
func (r *Resolver) Resolve(ctx context.Context, tax *taxonomy.Taxonomy) (*taxonomy.Taxonomy, taxonomy.Facet, error) {
	if tax == nil {
		return nil, taxonomy.FacetID, recerr.New("resolve", recerr.CodeInvalidState,
			"attempt to resolve a nil taxonomy")
	}
	switch {
	case tax.HasAppropriateID():
		t, err := r.lookup(ctx, taxonomy.FacetID, tax.ID())
		return t, taxonomy.FacetID, err
	case tax.ScientificName != "" && len(tax.Lineage) > 0:
		t, err := r.ResolveLineage(ctx, tax.Lineage)
		return t, taxonomy.FacetLineage, err
	case tax.ScientificName != "":
		t, err := r.lookup(ctx, taxonomy.FacetScientificName, tax.ScientificName)
		return t, taxonomy.FacetScientificName, err
	case tax.Code != "":
		t, err := r.lookup(ctx, taxonomy.FacetCode, tax.Code)
		return t, taxonomy.FacetCode, err
	default:
		t, err := r.lookup(ctx, taxonomy.FacetCommonName, tax.CommonName)
		return t, taxonomy.FacetCommonName, err
	}
}

// ResolveDirect is like Resolve but never takes the lineage strategy: a
// scientific name is queried as such even when a lineage is present. The
// ancestral inferer uses this for its canonical lookups, where the lineage
// itself is the query being built.
func (r *Resolver) ResolveDirect(ctx context.Context, tax *taxonomy.Taxonomy) (*taxonomy.Taxonomy, taxonomy.Facet, error) {
	if tax == nil {
		return nil, taxonomy.FacetID, recerr.New("resolve", recerr.CodeInvalidState,
			"attempt to resolve a nil taxonomy")
	}
	switch {
	case tax.HasAppropriateID():
		t, err := r.lookup(ctx, taxonomy.FacetID, tax.ID())
		return t, taxonomy.FacetID, err
	case tax.ScientificName != "":
		t, err := r.lookup(ctx, taxonomy.FacetScientificName, tax.ScientificName)
		return t, taxonomy.FacetScientificName, err
	case tax.Code != "":
		t, err := r.lookup(ctx, taxonomy.FacetCode, tax.Code)
		return t, taxonomy.FacetCode, err
	default:
		t, err := r.lookup(ctx, taxonomy.FacetCommonName, tax.CommonName)
		return t, taxonomy.FacetCommonName, err
	}
}

// ResolveName resolves a bare node name by trying the scientific-name,
// code, and common-name facets in that order, returning the first hit.
func (r *Resolver) ResolveName(ctx context.Context, name string) (*taxonomy.Taxonomy, taxonomy.Facet, error) {
	if name == "" {
		return nil, taxonomy.FacetScientificName, recerr.New("resolve", recerr.CodeInvalidState,
			"attempt to resolve an empty name")
	}
	for _, f := range []taxonomy.Facet{
		taxonomy.FacetScientificName,
		taxonomy.FacetCode,
		taxonomy.FacetCommonName,
	} {
		t, err := r.lookup(ctx, f, name)
		if err != nil {
			return nil, f, err
		}
		if t != nil {
			return t, f, nil
		}
	}
	return nil, taxonomy.FacetCommonName, nil
}

// ResolveLineage resolves a lineage path. The service is asked for
// taxonomies matching the path's last element; a candidate matches when
// its lineage agrees with the queried path at every index
// (case-insensitive). More than one match is ambiguous; a non-empty
// candidate list with no match is not found; an empty candidate list is
// simply unresolved.
func (r *Resolver) ResolveLineage(ctx context.Context, lineage []string) (*taxonomy.Taxonomy, error) {
	if len(lineage) == 0 {
		return nil, recerr.New("resolve", recerr.CodeInvalidState,
			"attempt to resolve an empty lineage")
	}
	key := strings.Join(lineage, taxonomy.LineageSeparator)
	if t := r.cache.Get(ctx, taxonomy.FacetLineage, key); t != nil {
		return t, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candidates, err := r.svc.Search(ctx, taxonomy.FacetScientificName, lineage[len(lineage)-1], r.maxResults)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	var match *taxonomy.Taxonomy
	for _, cand := range candidates {
		if !lineageMatches(lineage, cand.Lineage) {
			continue
		}
		if match != nil {
			return nil, recerr.Newf("resolve", recerr.CodeAmbiguous,
				"lineage %q is not unique", strings.Join(lineage, " > "))
		}
		match = cand
	}
	if match == nil {
		return nil, recerr.Newf("resolve", recerr.CodeNotFound,
			"lineage %q not found", strings.Join(lineage, " > "))
	}
	r.cache.PutLineage(ctx, key, match)
	return match.Copy(), nil
}

// lineageMatches reports whether candidate agrees with the queried path at
// every query index, case-insensitively. A candidate shorter than the
// query cannot match.
func lineageMatches(query, candidate []string) bool {
	if len(candidate) < len(query) {
		return false
	}
	for i := range query {
		if !strings.EqualFold(query[i], candidate[i]) {
			return false
		}
	}
	return true
}

// lookup serves one facet query from the cache, falling back to the
// service on a miss. A service response is accepted only when exactly one
// record is returned; zero or several leave the query unresolved.
func (r *Resolver) lookup(ctx context.Context, facet taxonomy.Facet, query string) (*taxonomy.Taxonomy, error) {
	if query == "" {
		return nil, nil
	}
	if t := r.cache.Get(ctx, facet, query); t != nil {
		return t, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := r.svc.Search(ctx, facet, query, r.maxResults)
	if err != nil {
		return nil, err
	}
	if len(records) != 1 {
		if len(records) > 1 {
			r.log.Debug("ambiguous taxonomy query left unresolved",
				"facet", facet.String(), "query", query, "results", len(records))
		}
		return nil, nil
	}
	r.cache.Put(ctx, records[0])
	return records[0].Copy(), nil
}
