// Package coverage ingests per file coverage payloads of a commit and reports the result.
package coverage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/LambdaTest/neuron/config"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/covdata"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/LambdaTest/neuron/pkg/lock"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/manifest"
	"github.com/LambdaTest/neuron/pkg/metrics"
	"github.com/LambdaTest/neuron/pkg/utils"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentDecodes = 8

type coverageService struct {
	store    core.Store
	locker   core.Locker
	fetcher  core.ContentFetcher
	parser   core.ManifestParser
	reporter core.StatusReporter
	lockTTL  time.Duration
	logger   lumber.Logger
	now      func() time.Time
}

// New returns a new instance of CoverageService
func New(store core.Store,
	locker core.Locker,
	fetcher core.ContentFetcher,
	parser core.ManifestParser,
	reporter core.StatusReporter,
	cfg *config.NeuronConfig,
	logger lumber.Logger) core.CoverageService {
	lockTTL := time.Duration(cfg.LockTTLSeconds) * time.Second
	if lockTTL <= 0 {
		lockTTL = global.DefaultLockTTL
	}
	return &coverageService{
		store:    store,
		locker:   locker,
		fetcher:  fetcher,
		parser:   parser,
		reporter: reporter,
		lockTTL:  lockTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// selector returns the manifest selector of the commit. A missing or invalid
// manifest selects no threshold and no exclusion.
func (c *coverageService) selector(ctx context.Context, commit *core.Commit, logger lumber.Logger) (*manifest.Selector, error) {
	content, err := c.fetcher.FetchFile(ctx, commit, global.ManifestFileName)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return manifest.NewSelector(nil), nil
		}
		return nil, err
	}
	m, err := c.parser.Parse(content)
	if err != nil {
		var invalid *errs.InvalidManifestError
		if !errors.As(err, &invalid) {
			return nil, err
		}
		logger.Warnf("ignoring invalid manifest for coverage: %s", invalid.Message)
		return manifest.NewSelector(nil), nil
	}
	return manifest.NewSelector(m), nil
}

func (c *coverageService) Ingest(ctx context.Context, repoID int64, sha string, files map[string][]byte) (*core.CoverageInfo, error) {
	start := time.Now()
	defer func() {
		metrics.CoverageIngestDuration.Observe(time.Since(start).Seconds())
	}()

	commit, err := c.store.FindCommit(ctx, repoID, sha)
	if err != nil {
		return nil, err
	}
	logger := c.logger.WithFields(lumber.CommitFields(commit.Repository.ID, commit.Sha))
	selector, err := c.selector(ctx, commit, logger)
	if err != nil {
		metrics.CoverageIngestions.WithLabelValues("error").Inc()
		return nil, err
	}
	threshold := selector.MinPercent()

	var info *core.CoverageInfo
	key := utils.CommitLockKey(commit.Repository.ID, commit.Sha)
	err = lock.WithLock(ctx, c.locker, logger, key, c.lockTTL, func(ctx context.Context) error {
		var err error
		info, err = c.store.ResetCoverageInfo(ctx, commit.ID)
		if err != nil {
			return err
		}
		if err := c.aggregate(ctx, commit, info, files, selector, threshold, logger); err != nil {
			c.markErrored(ctx, info, logger)
			return err
		}
		return nil
	})
	if err != nil {
		metrics.CoverageIngestions.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := c.report(ctx, commit, info, threshold); err != nil {
		if lErr := lock.WithLock(ctx, c.locker, logger, key, c.lockTTL, func(ctx context.Context) error {
			c.markErrored(ctx, info, logger)
			return nil
		}); lErr != nil {
			logger.Errorf("failed to mark coverage errored: %v", lErr)
		}
		metrics.CoverageIngestions.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CoverageIngestions.WithLabelValues("success").Inc()
	logger.Infof("ingested coverage of %d files: %.2f%%", len(files), info.PercentCovered)
	return info, nil
}

// aggregate decodes every file, stores the per file rows and the commit totals.
func (c *coverageService) aggregate(ctx context.Context,
	commit *core.Commit,
	info *core.CoverageInfo,
	files map[string][]byte,
	selector *manifest.Selector,
	threshold *float64,
	logger lumber.Logger) error {
	paths := make([]string, 0, len(files))
	for path := range files {
		if selector.PathExcluded(path) {
			logger.Debugf("skipping excluded coverage file %s", path)
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	rows := make([]*core.CoverageFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDecodes)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			symbols, err := covdata.Decode(files[path])
			if err != nil {
				return fmt.Errorf("decoding coverage of %s: %w", path, err)
			}
			st := covdata.Summarize(symbols)
			rows[i] = &core.CoverageFile{
				CoverageInfoID: info.ID,
				Path:           path,
				LinesTotal:     st.Total,
				LinesCovered:   st.Covered,
				LinesMissed:    st.Missed,
				PercentCovered: st.Percent,
				Data:           files[path],
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := c.store.CreateCoverageFiles(ctx, rows); err != nil {
		return err
	}

	var total covdata.Stats
	for _, row := range rows {
		total = total.Add(covdata.Stats{Total: row.LinesTotal, Covered: row.LinesCovered, Missed: row.LinesMissed})
	}
	info.LinesTotal = total.Total
	info.LinesCovered = total.Covered
	info.PercentCovered = total.Percent
	info.Status = core.CoverageProcessed
	if err := c.store.UpdateCoverageInfo(ctx, info); err != nil {
		return err
	}

	if err := c.store.UpdateCommitThreshold(ctx, commit.ID, threshold); err != nil {
		return err
	}
	commit.CoverageThreshold = threshold
	return c.recordHistory(ctx, commit, info.PercentCovered)
}

func (c *coverageService) markErrored(ctx context.Context, info *core.CoverageInfo, logger lumber.Logger) {
	info.Status = core.CoverageErrored
	if err := c.store.UpdateCoverageInfo(context.WithoutCancel(ctx), info); err != nil {
		logger.Errorf("failed to mark coverage %d errored: %v", info.ID, err)
	}
}

func (c *coverageService) recordHistory(ctx context.Context, commit *core.Commit, percent float64) error {
	branches, err := c.store.BranchesWithHead(ctx, commit.ID)
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		return nil
	}
	now := c.now()
	entries := make([]*core.HistoryEntry, 0, len(branches))
	for _, b := range branches {
		entries = append(entries, &core.HistoryEntry{
			BranchID:   b.ID,
			CommitID:   commit.ID,
			Kind:       core.HistoryCoverage,
			Value:      percent,
			RecordedAt: now,
		})
	}
	return c.store.RecordHistory(ctx, entries)
}

// report sends the coverage status then the summary of the commit.
func (c *coverageService) report(ctx context.Context, commit *core.Commit, info *core.CoverageInfo, threshold *float64) error {
	state := core.StateSuccess
	description := fmt.Sprintf("%.2f%% covered", info.PercentCovered)
	if threshold != nil {
		if info.PercentCovered < *threshold {
			state = core.StateFailure
			description = fmt.Sprintf("%.2f%% covered, below the required %s%%", info.PercentCovered, formatPercent(*threshold))
		} else {
			description = fmt.Sprintf("%.2f%% covered, meets the required %s%%", info.PercentCovered, formatPercent(*threshold))
		}
	}
	if err := c.reporter.Report(ctx, commit, state, global.CoverageContext, description); err != nil {
		return err
	}
	_, err := c.reporter.ReportSummary(ctx, commit)
	return err
}

// formatPercent prints whole thresholds without decimals.
func formatPercent(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func (c *coverageService) Blocks(ctx context.Context, repoID int64, sha, path string) ([]covdata.Block, error) {
	commit, err := c.store.FindCommit(ctx, repoID, sha)
	if err != nil {
		return nil, err
	}
	info, err := c.store.FindCoverageInfo(ctx, commit.ID)
	if err != nil {
		return nil, err
	}
	file, err := c.store.FindCoverageFile(ctx, info.ID, path)
	if err != nil {
		return nil, err
	}
	symbols, err := covdata.Decode(file.Data)
	if err != nil {
		return nil, err
	}
	return covdata.Compose(symbols), nil
}
