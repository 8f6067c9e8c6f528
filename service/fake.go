package service

import (
	"context"
	"sync"

	"github.com/openphylo/sdk/taxonomy"
)

// Fake is a scripted in-memory Service for tests. Responses are keyed by
// facet and query; unknown queries return no hits. The fake records every
// call so tests can assert on lookup strategy and cache behavior.
type Fake struct {
	mu        sync.Mutex
	responses map[string][]*taxonomy.Taxonomy
	errs      map[string]error
	calls     []FakeCall
}

// FakeCall records one Search invocation.
type FakeCall struct {
	Facet      taxonomy.Facet
	Query      string
	MaxResults int
}

// NewFake creates an empty scripted service.
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string][]*taxonomy.Taxonomy),
		errs:      make(map[string]error),
	}
}

func fakeKey(facet taxonomy.Facet, query string) string {
	return facet.String() + "\x00" + query
}

// Script registers the records returned for a facet/query pair.
func (f *Fake) Script(facet taxonomy.Facet, query string, records ...*taxonomy.Taxonomy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[fakeKey(facet, query)] = records
}

// ScriptError makes a facet/query pair fail with err.
func (f *Fake) ScriptError(facet taxonomy.Facet, query string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[fakeKey(facet, query)] = err
}

// Search implements Service.
func (f *Fake) Search(ctx context.Context, facet taxonomy.Facet, query string, maxResults int) ([]*taxonomy.Taxonomy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, FakeCall{Facet: facet, Query: query, MaxResults: maxResults})
	if err, ok := f.errs[fakeKey(facet, query)]; ok {
		return nil, err
	}
	records := f.responses[fakeKey(facet, query)]
	if len(records) > maxResults {
		records = records[:maxResults]
	}
	out := make([]*taxonomy.Taxonomy, len(records))
	for i, r := range records {
		out[i] = r.Copy()
	}
	return out, nil
}

// Calls returns a copy of the recorded invocations.
func (f *Fake) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the number of Search invocations so far.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
