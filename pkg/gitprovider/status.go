package gitprovider

import (
	"context"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/google/go-github/v69/github"
)

type statusSink struct {
	client *github.Client
}

// NewStatusSink returns a core.StatusSink publishing GitHub commit statuses.
func NewStatusSink(client *github.Client) core.StatusSink {
	return &statusSink{client: client}
}

func (s *statusSink) Report(ctx context.Context, commit *core.Commit, status *core.CommitStatus) error {
	repoStatus := &github.RepoStatus{
		State:       github.Ptr(string(status.State)),
		Context:     github.Ptr(status.Context),
		Description: github.Ptr(status.Description),
	}
	if status.TargetURL != "" {
		repoStatus.TargetURL = github.Ptr(status.TargetURL)
	}
	_, _, err := s.client.Repositories.CreateStatus(ctx, commit.Repository.Org, commit.Repository.Name, commit.Sha, repoStatus)
	if err != nil {
		return errs.ErrStatusReport(err.Error())
	}
	return nil
}
