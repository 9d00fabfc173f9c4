// Package checkrun drives the check set of a commit from the manifest fetch to the wrap-up.
package checkrun

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LambdaTest/neuron/config"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/LambdaTest/neuron/pkg/lock"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/manifest"
	"github.com/LambdaTest/neuron/pkg/metrics"
	"github.com/LambdaTest/neuron/pkg/utils"
)

type checkRunService struct {
	store      core.Store
	locker     core.Locker
	fetcher    core.ContentFetcher
	parser     core.ManifestParser
	queue      core.WorkQueue
	reporter   core.StatusReporter
	gitStorage config.GitStorage
	lockTTL    time.Duration
	logger     lumber.Logger
	now        func() time.Time
}

// New returns a new instance of CheckRunService
func New(store core.Store,
	locker core.Locker,
	fetcher core.ContentFetcher,
	parser core.ManifestParser,
	queue core.WorkQueue,
	reporter core.StatusReporter,
	cfg *config.NeuronConfig,
	logger lumber.Logger) core.CheckRunService {
	lockTTL := time.Duration(cfg.LockTTLSeconds) * time.Second
	if lockTTL <= 0 {
		lockTTL = global.DefaultLockTTL
	}
	return &checkRunService{
		store:      store,
		locker:     locker,
		fetcher:    fetcher,
		parser:     parser,
		queue:      queue,
		reporter:   reporter,
		gitStorage: cfg.GitStorage,
		lockTTL:    lockTTL,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *checkRunService) commitLogger(commit *core.Commit) lumber.Logger {
	return s.logger.WithFields(lumber.CommitFields(commit.Repository.ID, commit.Sha))
}

// withCheckSet runs fn on the check set of the commit while holding the commit lease.
func (s *checkRunService) withCheckSet(ctx context.Context, commit *core.Commit, create bool,
	fn func(ctx context.Context, checkSet *core.CheckSet) error) (*core.CheckSet, error) {
	var checkSet *core.CheckSet
	err := lock.WithLock(ctx, s.locker, s.commitLogger(commit), utils.CommitLockKey(commit.Repository.ID, commit.Sha), s.lockTTL,
		func(ctx context.Context) error {
			var err error
			if create {
				checkSet, err = s.store.FindOrCreateCheckSet(ctx, commit.ID)
			} else {
				checkSet, err = s.store.FindCheckSet(ctx, commit.ID)
			}
			if err != nil {
				return err
			}
			return fn(ctx, checkSet)
		})
	if err != nil {
		return nil, err
	}
	return checkSet, nil
}

func (s *checkRunService) transition(ctx context.Context, checkSet *core.CheckSet, status core.CheckSetStatus) error {
	checkSet.Status = status
	if err := s.store.UpdateCheckSet(ctx, checkSet); err != nil {
		return err
	}
	metrics.CheckSetTransitions.WithLabelValues(string(status)).Inc()
	return nil
}

// restart clears everything a previous run left on the check set.
func (s *checkRunService) restart(ctx context.Context, checkSet *core.CheckSet) error {
	if err := s.store.DeleteChecks(ctx, checkSet.ID); err != nil {
		return err
	}
	checkSet.JobID = ""
	checkSet.ErrorKind = ""
	checkSet.ErrorExtra = ""
	checkSet.Canceling = false
	return nil
}

func (s *checkRunService) Run(ctx context.Context, repoID int64, sha string) error {
	commit, err := s.store.FindCommit(ctx, repoID, sha)
	if err != nil {
		return err
	}
	logger := s.commitLogger(commit)

	content, err := s.fetcher.FetchFile(ctx, commit, global.ManifestFileName)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			logger.Infof("no %s at commit, skipping check run", global.ManifestFileName)
			return nil
		}
		return err
	}
	if err := s.reporter.Report(ctx, commit, core.StatePending, global.ChecksContext, "Configuring checks"); err != nil {
		return err
	}

	m, err := s.parser.Parse(content)
	if err != nil {
		var invalid *errs.InvalidManifestError
		if !errors.As(err, &invalid) {
			return err
		}
		logger.Warnf("invalid manifest: %s", invalid.Message)
		if err := s.reporter.Report(ctx, commit, core.StateFailure, global.ChecksContext, invalid.Error()); err != nil {
			return err
		}
		if _, err := s.withCheckSet(ctx, commit, true, func(ctx context.Context, checkSet *core.CheckSet) error {
			if err := s.restart(ctx, checkSet); err != nil {
				return err
			}
			checkSet.ErrorKind = invalid.Kind
			checkSet.ErrorExtra = invalid.Message
			return s.transition(ctx, checkSet, core.CheckSetErrored)
		}); err != nil {
			return err
		}
		_, err = s.reporter.ReportSummary(ctx, commit)
		return err
	}

	selector := manifest.NewSelector(m)
	jobChecks := selector.Checks()
	if len(jobChecks) == 0 {
		if err := s.reporter.Report(ctx, commit, core.StateSuccess, global.ChecksContext, global.LookingGood); err != nil {
			return err
		}
		_, err := s.withCheckSet(ctx, commit, true, func(ctx context.Context, checkSet *core.CheckSet) error {
			if err := s.restart(ctx, checkSet); err != nil {
				return err
			}
			return s.transition(ctx, checkSet, core.CheckSetNotConfigured)
		})
		return err
	}

	job := &core.Job{
		JobID:  utils.GenerateUUID(),
		Org:    commit.Repository.Org,
		Repo:   commit.Repository.Name,
		RepoID: commit.Repository.ID,
		Sha:    commit.Sha,
		Checks: jobChecks,
		GitStorage: core.GitStorage{
			Mode: s.gitStorage.Mode,
			Path: fmt.Sprintf("%s/%d/%s", strings.TrimSuffix(s.gitStorage.Path, "/"), commit.Repository.ID, commit.Sha),
		},
	}
	if _, err := s.withCheckSet(ctx, commit, true, func(ctx context.Context, checkSet *core.CheckSet) error {
		if err := s.restart(ctx, checkSet); err != nil {
			return err
		}
		checks := make([]*core.Check, 0, len(jobChecks))
		for _, jc := range jobChecks {
			checks = append(checks, &core.Check{
				CheckSetID: checkSet.ID,
				PluginName: jc.Name,
				Plugin:     jc.Plugin,
				Status:     core.CheckWaiting,
			})
		}
		if err := s.store.CreateChecks(ctx, checks); err != nil {
			return err
		}
		checkSet.JobID = job.JobID
		return s.transition(ctx, checkSet, core.CheckSetQueued)
	}); err != nil {
		return err
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		metrics.JobsEnqueued.WithLabelValues("error").Inc()
		return err
	}
	metrics.JobsEnqueued.WithLabelValues("success").Inc()
	logger.WithFields(lumber.Fields{lumber.FieldJobID: job.JobID}).Infof("enqueued %d checks", len(jobChecks))

	_, err = s.reporter.ReportSummary(ctx, commit)
	return err
}

func (s *checkRunService) Reset(ctx context.Context, repoID int64, sha string) (*core.CheckSet, error) {
	commit, err := s.store.FindCommit(ctx, repoID, sha)
	if err != nil {
		return nil, err
	}
	return s.withCheckSet(ctx, commit, true, func(ctx context.Context, checkSet *core.CheckSet) error {
		if err := s.restart(ctx, checkSet); err != nil {
			return err
		}
		return s.transition(ctx, checkSet, core.CheckSetWaiting)
	})
}

func (s *checkRunService) Pickup(ctx context.Context, repoID int64, sha string) (*core.CheckSet, error) {
	commit, err := s.store.FindCommit(ctx, repoID, sha)
	if err != nil {
		return nil, err
	}
	return s.withCheckSet(ctx, commit, false, func(ctx context.Context, checkSet *core.CheckSet) error {
		switch checkSet.Status {
		case core.CheckSetProcessing:
			return nil
		case core.CheckSetQueued:
			return s.transition(ctx, checkSet, core.CheckSetProcessing)
		default:
			return &errs.ValidationError{
				Field:   "status",
				Message: fmt.Sprintf("cannot pick up a %s check set", checkSet.Status),
			}
		}
	})
}

func (s *checkRunService) Cancel(ctx context.Context, repoID int64, sha string) (*core.CheckSet, error) {
	commit, err := s.store.FindCommit(ctx, repoID, sha)
	if err != nil {
		return nil, err
	}
	return s.withCheckSet(ctx, commit, false, func(ctx context.Context, checkSet *core.CheckSet) error {
		if checkSet.Status.Terminal() || checkSet.Canceling {
			return nil
		}
		checkSet.Canceling = true
		return s.store.UpdateCheckSet(ctx, checkSet)
	})
}

func (s *checkRunService) ApplyStatusPatch(ctx context.Context, repoID int64, sha, pluginName string,
	patch *core.StatusPatch) (*core.Check, error) {
	status, err := core.ParsePatchStatus(patch.Status)
	if err != nil {
		return nil, err
	}
	if status == core.CheckErrored && (patch.ErrorOutput == nil || *patch.ErrorOutput == "") {
		return nil, &errs.ValidationError{Field: "error_output", Message: "required when status is errored"}
	}

	commit, err := s.store.FindCommit(ctx, repoID, sha)
	if err != nil {
		return nil, err
	}
	checkSet, err := s.store.FindCheckSet(ctx, commit.ID)
	if err != nil {
		return nil, err
	}
	check, err := s.store.FindCheck(ctx, checkSet.ID, pluginName)
	if err != nil {
		return nil, err
	}

	now := s.now()
	check.Status = status
	switch status {
	case core.CheckRunning:
		if check.StartedAt == nil {
			check.StartedAt = &now
		}
	case core.CheckSucceeded:
		check.ErrorOutput = ""
		backfill(check, now)
	case core.CheckErrored:
		check.ErrorOutput = *patch.ErrorOutput
		backfill(check, now)
	case core.CheckWaiting:
		panic("waiting is never accepted from a patch")
	}
	if err := s.store.UpdateCheck(ctx, check); err != nil {
		return nil, err
	}
	metrics.CheckPatches.WithLabelValues(string(status)).Inc()
	s.commitLogger(commit).WithFields(lumber.Fields{lumber.FieldPlugin: pluginName}).Debugf("check is now %s", status)
	return check, nil
}

// backfill sets the timestamps a check never received, tolerating out of order patches.
func backfill(check *core.Check, now time.Time) {
	if check.StartedAt == nil {
		check.StartedAt = &now
	}
	if check.FinishedAt == nil {
		check.FinishedAt = &now
	}
}

// WrapUp settles the check set from its checks. A set that is already settled
// from its checks has its final statuses and issue history sent again, so a
// retry after a failed report completes the wrap-up.
func (s *checkRunService) WrapUp(ctx context.Context, repoID int64, sha string) (*core.CheckSet, error) {
	commit, err := s.store.FindCommit(ctx, repoID, sha)
	if err != nil {
		return nil, err
	}

	settledEarly := false
	var failed, total int
	checkSet, err := s.withCheckSet(ctx, commit, false, func(ctx context.Context, checkSet *core.CheckSet) error {
		switch checkSet.Status {
		case core.CheckSetProcessed, core.CheckSetErrored:
			// errored before any check ran, Run already reported it
			if checkSet.ErrorKind != "" {
				settledEarly = true
				return nil
			}
		case core.CheckSetWaiting, core.CheckSetNotConfigured:
			return &errs.ValidationError{
				Field:   "status",
				Message: fmt.Sprintf("cannot wrap up a %s check set", checkSet.Status),
			}
		case core.CheckSetQueued, core.CheckSetProcessing:
		default:
			panic(fmt.Sprintf("unknown check set status %q", string(checkSet.Status)))
		}

		checks, err := s.store.ListChecks(ctx, checkSet.ID)
		if err != nil {
			return err
		}
		total = len(checks)
		for _, c := range checks {
			if c.Status == core.CheckErrored {
				failed++
			}
		}
		if checkSet.Status.Terminal() {
			return nil
		}
		if failed > 0 {
			return s.transition(ctx, checkSet, core.CheckSetErrored)
		}
		return s.transition(ctx, checkSet, core.CheckSetProcessed)
	})
	if err != nil || settledEarly {
		return checkSet, err
	}

	if failed > 0 {
		err = s.reporter.Report(ctx, commit, core.StateFailure, global.ChecksContext,
			fmt.Sprintf("%d of %d checks failed", failed, total))
	} else {
		err = s.reporter.Report(ctx, commit, core.StateSuccess, global.ChecksContext, global.LookingGood)
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.reporter.ReportSummary(ctx, commit); err != nil {
		return nil, err
	}
	if err := s.recordIssues(ctx, commit, checkSet); err != nil {
		return nil, err
	}
	return checkSet, nil
}

// recordIssues stores the issue count of the check set for every branch headed by
// the commit. The store keeps one entry per branch, commit and kind.
func (s *checkRunService) recordIssues(ctx context.Context, commit *core.Commit, checkSet *core.CheckSet) error {
	count, err := s.store.CountIssues(ctx, checkSet.ID)
	if err != nil {
		return err
	}
	branches, err := s.store.BranchesWithHead(ctx, commit.ID)
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		return nil
	}
	now := s.now()
	entries := make([]*core.HistoryEntry, 0, len(branches))
	for _, b := range branches {
		entries = append(entries, &core.HistoryEntry{
			BranchID:   b.ID,
			CommitID:   commit.ID,
			Kind:       core.HistoryIssues,
			Value:      float64(count),
			RecordedAt: now,
		})
	}
	return s.store.RecordHistory(ctx, entries)
}
