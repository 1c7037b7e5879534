// Package cohort analyzes many session files concurrently and summarizes
// phases across animals.
package cohort

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"mazescore/domain/core"
	"mazescore/domain/session"
	"mazescore/domain/strategy"
	"mazescore/internal"
	"mazescore/internal/analysis"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// LoadFunc reads one session file
type LoadFunc func(path string) (*session.Table, error)

// SessionResult is the outcome for one file. Exactly one of Result and Err is set.
type SessionResult struct {
	Source   string           `json:"source"`
	RunID    core.RunID       `json:"run_id"`
	Result   *strategy.Result `json:"result,omitempty"`
	Err      error            `json:"-"`
	Error    string           `json:"error,omitempty"`
	Duration time.Duration    `json:"duration"`
}

// Report collects every session in input order plus the cross-session summary
type Report struct {
	Sessions []SessionResult `json:"sessions"`
	Summary  []PhaseStats    `json:"summary"`
	Failed   int             `json:"failed"`
}

// Runner analyzes files with bounded concurrency
type Runner struct {
	analyzer    *analysis.Analyzer
	load        LoadFunc
	concurrency int64
	logger      *internal.Logger
}

// NewRunner creates a runner. Concurrency below 1 is treated as 1.
func NewRunner(analyzer *analysis.Analyzer, load LoadFunc, concurrency int, logger *internal.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = internal.Discard()
	}
	return &Runner{
		analyzer:    analyzer,
		load:        load,
		concurrency: int64(concurrency),
		logger:      logger.With("cohort"),
	}
}

// Run analyzes every path. A file that fails to load or analyze is recorded in
// its SessionResult and does not stop the others; only cancellation of ctx
// makes Run return an error.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	results := make([]SessionResult, len(paths))
	sem := semaphore.NewWeighted(r.concurrency)
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	failed := 0

	for i, path := range paths {
		i, path := i, path
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			if err := gctx.Err(); err != nil {
				return err
			}

			res := r.analyzeOne(path)
			results[i] = res
			if res.Err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Info("analyzed %d sessions, %d failed", len(paths), failed)
	return &Report{
		Sessions: results,
		Summary:  Summarize(results),
		Failed:   failed,
	}, nil
}

func (r *Runner) analyzeOne(path string) SessionResult {
	start := time.Now()
	out := SessionResult{Source: filepath.Base(path), RunID: core.NewRunID()}

	table, err := r.load(path)
	if err == nil {
		out.Result, err = r.analyzer.Analyze(table)
	}
	if err != nil {
		out.Err = err
		out.Error = err.Error()
		r.logger.Warn("%s: %v", out.Source, err)
	} else {
		r.logger.Debug("%s: %d phases", out.Source, len(out.Result.Phases.Phases))
	}
	out.Duration = time.Since(start)
	return out
}
