package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openphylo/sdk/recerr"
	"github.com/openphylo/sdk/taxonomy"
)

func TestFakeScripting(t *testing.T) {
	f := NewFake()
	mouse := &taxonomy.Taxonomy{ScientificName: "Mus musculus", Code: "MOUSE"}
	f.Script(taxonomy.FacetScientificName, "Mus musculus", mouse)

	res, err := f.Search(context.Background(), taxonomy.FacetScientificName, "Mus musculus", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "MOUSE", res[0].Code)

	// Results are copies.
	res[0].Code = "mutated"
	res2, err := f.Search(context.Background(), taxonomy.FacetScientificName, "Mus musculus", 10)
	require.NoError(t, err)
	assert.Equal(t, "MOUSE", res2[0].Code)

	// Unknown query: empty, no error.
	res3, err := f.Search(context.Background(), taxonomy.FacetCode, "NOPE", 10)
	require.NoError(t, err)
	assert.Empty(t, res3)

	assert.Equal(t, 3, f.CallCount())
	assert.Equal(t, taxonomy.FacetCode, f.Calls()[2].Facet)
}

func TestFakeMaxResults(t *testing.T) {
	f := NewFake()
	f.Script(taxonomy.FacetScientificName, "Drosophila",
		&taxonomy.Taxonomy{ScientificName: "Drosophila"},
		&taxonomy.Taxonomy{ScientificName: "Drosophila"},
		&taxonomy.Taxonomy{ScientificName: "Drosophila"})

	res, err := f.Search(context.Background(), taxonomy.FacetScientificName, "Drosophila", 2)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

type flakyService struct {
	failures int
	calls    int
	result   []*taxonomy.Taxonomy
}

func (s *flakyService) Search(ctx context.Context, facet taxonomy.Facet, query string, maxResults int) ([]*taxonomy.Taxonomy, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("connection reset")
	}
	return s.result, nil
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	flaky := &flakyService{failures: 2, result: []*taxonomy.Taxonomy{{ScientificName: "Mus musculus"}}}
	r := NewRetry(flaky, 3, time.Millisecond)

	res, err := r.Search(context.Background(), taxonomy.FacetScientificName, "Mus musculus", 10)
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, 3, flaky.calls)
}

func TestRetryExhaustionSurfacesNetworkUnavailable(t *testing.T) {
	flaky := &flakyService{failures: 10}
	r := NewRetry(flaky, 3, 0)

	_, err := r.Search(context.Background(), taxonomy.FacetID, "9606", 10)
	require.Error(t, err)
	assert.True(t, recerr.IsCode(err, recerr.CodeNetworkUnavailable))
	assert.Equal(t, 3, flaky.calls)
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	flaky := &flakyService{failures: 10}
	r := NewRetry(flaky, 3, time.Second)

	_, err := r.Search(ctx, taxonomy.FacetID, "9606", 10)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, flaky.calls)
}

func TestTracedPassesThrough(t *testing.T) {
	f := NewFake()
	f.Script(taxonomy.FacetCode, "MOUSE", &taxonomy.Taxonomy{Code: "MOUSE"})
	tr := NewTraced(f, nil)

	res, err := tr.Search(context.Background(), taxonomy.FacetCode, "MOUSE", 10)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	f.ScriptError(taxonomy.FacetCode, "BAD", errors.New("boom"))
	_, err = tr.Search(context.Background(), taxonomy.FacetCode, "BAD", 10)
	assert.Error(t, err)
}
