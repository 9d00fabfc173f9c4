package statusreporter

import (
	"context"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/lumber"
)

type logSink struct {
	logger lumber.Logger
}

// NewLogSink returns a core.StatusSink that only logs, used in local mode.
func NewLogSink(logger lumber.Logger) core.StatusSink {
	return &logSink{logger: logger}
}

func (l *logSink) Report(ctx context.Context, commit *core.Commit, status *core.CommitStatus) error {
	l.logger.WithFields(lumber.CommitFields(commit.Repository.ID, commit.Sha)).Infof("status %s on %s: %s %s", status.State, status.Context, status.Description, status.TargetURL)
	return nil
}
