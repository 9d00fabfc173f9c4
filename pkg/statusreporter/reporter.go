// Package statusreporter publishes check, coverage and summary statuses of commits.
package statusreporter

import (
	"context"
	"errors"
	"time"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/LambdaTest/neuron/pkg/metrics"
	"github.com/LambdaTest/neuron/pkg/utils"
	"github.com/cenkalti/backoff/v4"
)

const maxReportRetries = 3

var summaryDescriptions = map[core.CondensedStatus]string{
	core.CondensedGreen:  global.LookingGood,
	core.CondensedYellow: "Checks and coverage in progress",
	core.CondensedRed:    "Checks or coverage failed",
}

type reporter struct {
	sink         core.StatusSink
	store        core.Store
	dashboardURL string
	logger       lumber.Logger
	newBackOff   func() backoff.BackOff
}

// Option customizes the reporter.
type Option func(*reporter)

// WithBackOff replaces the retry policy used towards the status sink.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(r *reporter) {
		r.newBackOff = newBackOff
	}
}

// New returns a core.StatusReporter sending statuses to sink.
func New(sink core.StatusSink, store core.Store, dashboardURL string, logger lumber.Logger, opts ...Option) core.StatusReporter {
	r := &reporter{
		sink:         sink,
		store:        store,
		dashboardURL: dashboardURL,
		logger:       logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return backoff.WithMaxRetries(b, maxReportRetries)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *reporter) Report(ctx context.Context, commit *core.Commit, state core.StatusState, statusContext, description string) error {
	status := &core.CommitStatus{
		State:       state,
		Context:     statusContext,
		Description: utils.TruncateDescription(description),
		TargetURL:   utils.CommitURL(r.dashboardURL, commit.Repository.ID, commit.Sha),
	}
	logger := r.logger.WithFields(lumber.CommitFields(commit.Repository.ID, commit.Sha))

	operation := func() error {
		return r.sink.Report(ctx, commit, status)
	}
	notify := func(err error, wait time.Duration) {
		logger.Warnf("failed to report %s status on %s, retrying in %s: %v", state, statusContext, wait, err)
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(r.newBackOff(), ctx), notify); err != nil {
		metrics.StatusReports.WithLabelValues(statusContext, "error").Inc()
		logger.Errorf("giving up reporting %s status on %s: %v", state, statusContext, err)
		return err
	}
	metrics.StatusReports.WithLabelValues(statusContext, string(state)).Inc()
	logger.Debugf("reported %s on %s: %s", state, statusContext, status.Description)
	return nil
}

func (r *reporter) ReportSummary(ctx context.Context, commit *core.Commit) (core.CondensedStatus, error) {
	checkSet, err := r.store.FindCheckSet(ctx, commit.ID)
	if err != nil {
		if !errors.Is(err, errs.ErrCheckSetNotFound) {
			return "", err
		}
		checkSet = nil
	}
	coverage, err := r.store.FindCoverageInfo(ctx, commit.ID)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			return "", err
		}
		coverage = nil
	}

	condensed := core.Condense(checkSet, coverage, commit.CoverageThreshold)
	if err := r.store.UpdateCommitCondensedStatus(ctx, commit.ID, condensed); err != nil {
		return "", err
	}
	commit.CondensedStatus = condensed

	if err := r.Report(ctx, commit, condensed.State(), global.SummaryContext, summaryDescriptions[condensed]); err != nil {
		return condensed, err
	}
	return condensed, nil
}
