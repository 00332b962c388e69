package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pedigraph/pkg/cache"
	"github.com/matzehuels/pedigraph/pkg/errors"
	pedio "github.com/matzehuels/pedigraph/pkg/io"
	"github.com/matzehuels/pedigraph/pkg/observability"
	"github.com/matzehuels/pedigraph/pkg/pedigree"
	"github.com/matzehuels/pedigraph/pkg/pedigree/cycle"
	"github.com/matzehuels/pedigraph/pkg/pedigree/descendants"
	"github.com/matzehuels/pedigraph/pkg/pedigree/inbreeding"
	"github.com/matzehuels/pedigraph/pkg/pedigree/lineage"
	"github.com/matzehuels/pedigraph/pkg/pedigree/qc"
)

// Runner executes analyses with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different pedigrees and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default lifetime of cached results when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.WithHooks(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the selected analyses over p concurrently.
//
// Execute returns an error only for invalid options, an unencodable
// pedigree or a cancelled context. Analysis precondition failures are
// reported in Result.Failures.
func (r *Runner) Execute(ctx context.Context, p *pedigree.Pedigree, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	result := &Result{
		RunID:       uuid.NewString(),
		Individuals: p.Len(),
		Stats:       Stats{Durations: make(map[string]time.Duration)},
	}
	if opts.Enabled(AnalysisInbreeding) || opts.Enabled(AnalysisLineage) {
		data, err := pedio.Encode(p)
		if err != nil {
			return nil, err
		}
		result.PedigreeHash = cache.Hash(data)
	}

	start := time.Now()
	observability.Analysis().OnRunStart(ctx, result.RunID, p.Len())
	logger.Debug("starting run", "run_id", result.RunID, "individuals", p.Len(), "analyses", opts.Analyses)

	var mu sync.Mutex
	record := func(name string, d time.Duration, err error) {
		mu.Lock()
		defer mu.Unlock()
		result.Stats.Durations[name] = d
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				Analysis: name,
				Code:     errors.GetCode(err),
				Message:  errors.UserMessage(err),
			})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	run := func(name string, fn func(context.Context) error) {
		if !opts.Enabled(name) {
			return
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t := time.Now()
			observability.Analysis().OnAnalysisStart(gctx, name, p.Len())
			err := fn(gctx)
			d := time.Since(t)
			observability.Analysis().OnAnalysisComplete(gctx, name, d, err)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			record(name, d, err)
			if err != nil {
				logger.Warn("analysis failed", "component", name, "err", errors.UserMessage(err))
				return nil
			}
			logger.Info("analysis complete", "component", name, "individuals", p.Len(), "duration", d)
			return nil
		})
	}

	run(AnalysisQC, func(context.Context) error {
		result.QC = qc.Run(p)
		return nil
	})
	if p.HasBirthDates() {
		run(AnalysisChronology, func(context.Context) error {
			c := qc.CheckBirthOrder(p)
			result.Chronology = &c
			return nil
		})
	}
	run(AnalysisCycles, func(context.Context) error {
		c := cycle.Detect(p)
		result.Cycles = &c
		return nil
	})
	run(AnalysisInbreeding, func(ctx context.Context) error {
		res, hit, err := r.Inbreeding(ctx, p, result.PedigreeHash, opts)
		if err != nil {
			return err
		}
		result.Inbreeding, result.CacheInfo.InbreedingHit = res, hit
		return nil
	})
	run(AnalysisLineage, func(ctx context.Context) error {
		dist, hit, err := r.Distribution(ctx, p, result.PedigreeHash, opts)
		if err != nil {
			return err
		}
		result.Lineage = &Lineage{
			Deepest:      lineage.Deepest(p, opts.deepestOptions()),
			Distribution: dist,
		}
		result.CacheInfo.DistributionHit = hit
		return nil
	})
	run(AnalysisDescendants, func(context.Context) error {
		role, _ := opts.role()
		lines, _ := opts.lines()
		d := descendants.Summarize(p, descendants.Options{
			Role:     role,
			MaxDepth: opts.DescendantDepth,
			Lines:    lines,
		})
		result.Descendants = &d
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(result.Failures, func(a, b Failure) int {
		return slices.Index(AllAnalyses, a.Analysis) - slices.Index(AllAnalyses, b.Analysis)
	})
	result.Stats.Duration = time.Since(start)
	observability.Analysis().OnRunComplete(ctx, result.RunID, result.Stats.Duration, len(result.Failures))
	logger.Debug("run complete", "run_id", result.RunID, "duration", result.Stats.Duration, "failures", len(result.Failures))
	return result, nil
}

// Inbreeding computes inbreeding coefficients with the configured method,
// reusing a cached vector for the same pedigree content. pedigreeHash may
// be empty, in which case it is computed from p.
func (r *Runner) Inbreeding(ctx context.Context, p *pedigree.Pedigree, pedigreeHash string, opts Options) (*inbreeding.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	logger := r.logger(opts)
	if pedigreeHash == "" {
		data, err := pedio.Encode(p)
		if err != nil {
			return nil, false, err
		}
		pedigreeHash = cache.Hash(data)
	}
	key := r.Keyer.InbreedingKey(pedigreeHash, cache.InbreedingKeyOpts{Method: opts.Method})

	if !opts.Refresh {
		var cached inbreeding.Result
		err := cache.GetJSON(ctx, r.Cache, key, &cached)
		if err == nil && len(cached.F) == p.Len() {
			logger.Debug("cache hit", "component", AnalysisInbreeding, "key", key)
			return &cached, true, nil
		}
		if err != nil && !stderrors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("cache read failed", "component", AnalysisInbreeding, "err", err)
		} else {
			logger.Debug("cache miss", "component", AnalysisInbreeding, "key", key)
		}
	}

	compute := inbreeding.Compute
	if opts.Method == MethodTabular {
		compute = inbreeding.Tabular
	}
	res, err := compute(p)
	if err != nil {
		return nil, false, err
	}

	if err := cache.SetJSON(ctx, r.Cache, key, res, r.ttl(cache.TTLInbreeding)); err != nil {
		logger.Warn("cache write failed", "component", AnalysisInbreeding, "err", err)
	}
	return res, false, nil
}

// Distribution computes the depth histogram, reusing a cached histogram
// for the same pedigree content and sampling options.
func (r *Runner) Distribution(ctx context.Context, p *pedigree.Pedigree, pedigreeHash string, opts Options) ([]int, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	logger := r.logger(opts)
	dopts := opts.distributionOptions()

	// Exact histograms of small pedigrees are cheaper than a cache round trip.
	if pedigreeHash == "" || p.Len() <= dopts.Threshold {
		return lineage.Distribution(p, dopts), false, nil
	}

	key := r.Keyer.DistributionKey(pedigreeHash, cache.DistributionKeyOpts{
		Threshold:  dopts.Threshold,
		SampleSize: dopts.SampleSize,
		MaxDepth:   dopts.MaxDepth,
		Seed:       dopts.Seed,
	})
	if !opts.Refresh {
		var cached []int
		if err := cache.GetJSON(ctx, r.Cache, key, &cached); err == nil {
			logger.Debug("cache hit", "component", AnalysisLineage, "key", key)
			return cached, true, nil
		}
	}

	hist := lineage.Distribution(p, dopts)
	if err := cache.SetJSON(ctx, r.Cache, key, hist, r.ttl(cache.TTLDistribution)); err != nil {
		logger.Warn("cache write failed", "component", AnalysisLineage, "err", err)
	}
	return hist, false, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
