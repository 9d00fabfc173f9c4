package statusreporter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/LambdaTest/neuron/pkg/store/memory"
	"github.com/LambdaTest/neuron/testutils"
	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noWait(retries uint64) Option {
	return WithBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, retries)
	})
}

func setup(t *testing.T, sink core.StatusSink, opts ...Option) (core.StatusReporter, *memory.Store, *core.Commit) {
	logger, err := testutils.GetLogger()
	require.NoError(t, err)
	store := memory.New()
	commit := store.AddCommit(core.Repository{ID: 7, Org: "octocat", Name: "hello-world"}, "abc123")
	return New(sink, store, "https://tas.example.com/", logger, opts...), store, commit
}

func TestReporter_Report(t *testing.T) {
	sink := &testutils.StatusRecorder{}
	reporter, _, commit := setup(t, sink, noWait(0))

	err := reporter.Report(context.Background(), commit, core.StateFailure, global.ChecksContext, strings.Repeat("x", 200))
	require.NoError(t, err)

	statuses := sink.Statuses()
	require.Len(t, statuses, 1)
	assert.Equal(t, core.StateFailure, statuses[0].State)
	assert.Equal(t, global.ChecksContext, statuses[0].Context)
	assert.Len(t, statuses[0].Description, global.MaxDescriptionLength)
	assert.True(t, strings.HasSuffix(statuses[0].Description, "..."))
	assert.Equal(t, "https://tas.example.com/repos/7/commits/abc123", statuses[0].TargetURL)
}

func TestReporter_ReportRetries(t *testing.T) {
	tests := []struct {
		name    string
		fails   int
		retries uint64
		wantErr bool
	}{
		{name: "succeeds after transient failures", fails: 2, retries: 3},
		{name: "gives up once retries are exhausted", fails: 5, retries: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &testutils.StatusRecorder{Err: errors.New("502 bad gateway"), Fails: tt.fails}
			reporter, _, commit := setup(t, sink, noWait(tt.retries))

			err := reporter.Report(context.Background(), commit, core.StatePending, global.CoverageContext, "updating")
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, sink.Statuses())
				return
			}
			require.NoError(t, err)
			assert.Len(t, sink.Statuses(), 1)
		})
	}
}

func TestReporter_ReportSummary(t *testing.T) {
	threshold := 90.0
	tests := []struct {
		name      string
		checkSet  core.CheckSetStatus
		coverage  *core.CoverageInfo
		threshold *float64
		want      core.CondensedStatus
		wantState core.StatusState
	}{
		{name: "nothing recorded", want: core.CondensedGreen, wantState: core.StateSuccess},
		{name: "checks in flight", checkSet: core.CheckSetProcessing, want: core.CondensedYellow, wantState: core.StatePending},
		{name: "checks errored", checkSet: core.CheckSetErrored, want: core.CondensedRed, wantState: core.StateFailure},
		{
			name:      "coverage below threshold",
			checkSet:  core.CheckSetProcessed,
			coverage:  &core.CoverageInfo{Status: core.CoverageProcessed, PercentCovered: 80},
			threshold: &threshold,
			want:      core.CondensedRed,
			wantState: core.StateFailure,
		},
		{
			name:      "coverage above threshold",
			checkSet:  core.CheckSetProcessed,
			coverage:  &core.CoverageInfo{Status: core.CoverageProcessed, PercentCovered: 95},
			threshold: &threshold,
			want:      core.CondensedGreen,
			wantState: core.StateSuccess,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			sink := &testutils.StatusRecorder{}
			reporter, store, commit := setup(t, sink, noWait(0))
			commit.CoverageThreshold = tt.threshold

			if tt.checkSet != "" {
				cs, err := store.FindOrCreateCheckSet(ctx, commit.ID)
				require.NoError(t, err)
				cs.Status = tt.checkSet
				require.NoError(t, store.UpdateCheckSet(ctx, cs))
			}
			if tt.coverage != nil {
				info, err := store.ResetCoverageInfo(ctx, commit.ID)
				require.NoError(t, err)
				info.Status = tt.coverage.Status
				info.PercentCovered = tt.coverage.PercentCovered
				require.NoError(t, store.UpdateCoverageInfo(ctx, info))
			}

			got, err := reporter.ReportSummary(ctx, commit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, commit.CondensedStatus)

			summaries := sink.ByContext(global.SummaryContext)
			require.Len(t, summaries, 1)
			assert.Equal(t, tt.wantState, summaries[0].State)
		})
	}
}

func TestLogSink(t *testing.T) {
	logger, err := testutils.GetLogger()
	require.NoError(t, err)
	sink := NewLogSink(logger)
	err = sink.Report(context.Background(), &core.Commit{Sha: "abc"}, &core.CommitStatus{State: core.StateSuccess, Context: global.ChecksContext})
	assert.NoError(t, err)
}
