package gitprovider

import (
	"context"
	"errors"
	"net/http"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/google/go-github/v69/github"
)

type contentFetcher struct {
	client *github.Client
	logger lumber.Logger
}

// NewContentFetcher returns a core.ContentFetcher reading files through the contents API.
func NewContentFetcher(client *github.Client, logger lumber.Logger) core.ContentFetcher {
	return &contentFetcher{client: client, logger: logger}
}

// FetchFile returns the decoded content of path at the commit. Missing files and
// directories are errs.ErrNotFound.
func (c *contentFetcher) FetchFile(ctx context.Context, commit *core.Commit, path string) ([]byte, error) {
	file, _, resp, err := c.client.Repositories.GetContents(ctx,
		commit.Repository.Org, commit.Repository.Name, path,
		&github.RepositoryContentGetOptions{Ref: commit.Sha})
	if err != nil {
		var ghErr *github.ErrorResponse
		if (errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound) ||
			(resp != nil && resp.StatusCode == http.StatusNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.ErrContentFetch(err.Error())
	}
	if file == nil {
		c.logger.Debugf("%s at %s is a directory", path, commit.Sha)
		return nil, errs.ErrNotFound
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, errs.ErrContentFetch(err.Error())
	}
	return []byte(content), nil
}
