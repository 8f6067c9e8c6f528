package phylo

import (
	"context"
	"log/slog"
	"os"

	"github.com/openphylo/sdk/ancestral"
	"github.com/openphylo/sdk/cache"
	"github.com/openphylo/sdk/config"
	"github.com/openphylo/sdk/gsdi"
	"github.com/openphylo/sdk/jobs"
	"github.com/openphylo/sdk/notify"
	"github.com/openphylo/sdk/recerr"
	"github.com/openphylo/sdk/resolve"
	"github.com/openphylo/sdk/service"
	"github.com/openphylo/sdk/tree"
)

// Toolkit is the assembled SDK: one shared cache, one decorated taxonomy
// service, and a background job runner carrying every long operation.
type Toolkit struct {
	cfg      *config.Config
	cache    *cache.Cache
	svc      service.Service
	resolver *resolve.Resolver
	inferer  *ancestral.Inferer
	runner   *jobs.Runner
	notifier notify.Notifier
	logger   *slog.Logger
	opts     toolkitConfig
}

// New assembles a Toolkit around the given taxonomy service.
func New(svc service.Service, opts ...Option) (*Toolkit, error) {
	if svc == nil {
		return nil, recerr.New("phylo", recerr.CodeInvalidState,
			"a taxonomy service is required")
	}
	var tc toolkitConfig
	for _, opt := range opts {
		opt(&tc)
	}
	if tc.logger == nil {
		tc.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	if tc.notifier == nil {
		tc.notifier = notify.Nop{}
	}
	cfg := tc.cfg
	if cfg == nil && tc.configPath != "" {
		loaded, err := config.Load(tc.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cacheOpts := []cache.Option{
		cache.WithMaxEntries(cfg.GetMaxEntries()),
		cache.WithLogger(tc.logger),
	}
	if tc.metrics != nil {
		cacheOpts = append(cacheOpts, cache.WithMetrics(tc.metrics))
	}
	if rc := cfg.GetRedis(); rc != nil {
		store, err := cache.NewRedisStore(cache.RedisOptions{
			URL:       rc.URL,
			KeyPrefix: rc.KeyPrefix,
			TTL:       rc.GetTTL(),
		})
		if err != nil {
			return nil, err
		}
		cacheOpts = append(cacheOpts, cache.WithRemote(store))
	}
	c := cache.New(cacheOpts...)

	wrapped := service.NewTraced(
		service.NewRetry(svc, cfg.GetRetries(), cfg.GetRetryBackoff()),
		tc.tracer,
	)

	tk := &Toolkit{
		cfg:      cfg,
		cache:    c,
		svc:      wrapped,
		notifier: tc.notifier,
		logger:   tc.logger,
		opts:     tc,
	}
	tk.resolver = resolve.New(c, wrapped,
		resolve.WithMaxResults(cfg.GetMaxResultsDetail()),
		resolve.WithLogger(tc.logger))
	tk.inferer = ancestral.New(c, wrapped,
		ancestral.WithMaxResults(cfg.GetMaxResultsAncestral()),
		ancestral.WithLogger(tc.logger))
	tk.runner = jobs.NewRunner(jobs.Options{
		Concurrency:     cfg.GetConcurrency(),
		ShutdownTimeout: cfg.GetShutdownTimeout(),
		Logger:          tc.logger,
		Tracer:          tc.tracer,
	})
	return tk, nil
}

// Cache returns the shared taxonomy cache.
func (tk *Toolkit) Cache() *cache.Cache { return tk.cache }

// Resolver returns the general taxonomy resolver.
func (tk *Toolkit) Resolver() *resolve.Resolver { return tk.resolver }

// Service returns the decorated taxonomy service (retries and tracing
// applied), for callers composing their own lookups.
func (tk *Toolkit) Service() service.Service { return tk.svc }

// Runner returns the background job runner, for callers that want to
// submit and track jobs themselves.
func (tk *Toolkit) Runner() *jobs.Runner { return tk.runner }

// EnrichTree resolves and fills the taxonomies of every node of t as a
// background job, notifying the completion summary. It returns the sorted
// labels of the unresolved nodes.
func (tk *Toolkit) EnrichTree(ctx context.Context, t *tree.Tree, opts resolve.EnrichOptions) ([]string, error) {
	var unresolved []string
	h, err := tk.runner.Submit(ctx, "enrich", func(ctx context.Context) error {
		var err error
		unresolved, err = tk.resolver.EnrichTree(ctx, t, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := h.Wait(ctx); err != nil {
		tk.notifier.Error("Taxonomy Tool Failed", err.Error())
		return nil, err
	}
	notify.EnrichmentSummary(tk.notifier, unresolved, opts.DeleteUnresolvedExternals)
	return unresolved, nil
}

// InferAncestralTaxonomies assigns taxonomies to the internal nodes of t
// from their descendants' common lineage, as a background job.
func (tk *Toolkit) InferAncestralTaxonomies(ctx context.Context, t *tree.Tree) error {
	h, err := tk.runner.Submit(ctx, "ancestral", func(ctx context.Context) error {
		return tk.inferer.Infer(ctx, t)
	})
	if err != nil {
		return err
	}
	if err := h.Wait(ctx); err != nil {
		tk.notifier.Error("Ancestral Taxonomy Inference Failed", err.Error())
		return err
	}
	return nil
}

// Reconcile runs speciation/duplication inference of the gene tree
// against the species tree as a background job and notifies the summary.
func (tk *Toolkit) Reconcile(ctx context.Context, geneTree, speciesTree *tree.Tree, opts gsdi.Options) (*gsdi.Result, error) {
	if opts.Metrics == nil {
		opts.Metrics = tk.opts.metrics
	}
	var res *gsdi.Result
	h, err := tk.runner.Submit(ctx, "gsdi", func(ctx context.Context) error {
		var err error
		res, err = gsdi.Run(ctx, geneTree, speciesTree, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := h.Wait(ctx); err != nil {
		tk.notifier.Error("Reconciliation Failed", err.Error())
		return nil, err
	}
	tk.notifier.Info("Reconciliation Completed", res.String())
	return res, nil
}

// Close drains the job runner.
func (tk *Toolkit) Close(ctx context.Context) error {
	return tk.runner.Close(ctx)
}
