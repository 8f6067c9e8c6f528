// Package phylo wires the phylogenetics reconciliation SDK together.
//
// A Toolkit owns the shared taxonomy cache, the decorated taxonomy
// service, the resolver, the ancestral inferer, and a background job
// runner, and exposes the three long-running operations as job-backed
// calls: tree enrichment, ancestral taxonomy inference, and
// speciation/duplication reconciliation.
//
//	tk, err := phylo.New(myTaxonomyService,
//	    phylo.WithLogger(logger),
//	    phylo.WithNotifier(notify.NewSlog(logger)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tk.Close(context.Background())
//
//	unresolved, err := tk.EnrichTree(ctx, geneTree, resolve.EnrichOptions{})
package phylo
