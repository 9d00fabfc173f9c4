package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
)

// diskFetcher reads commit files from the clones kept under the git storage path.
type diskFetcher struct {
	root string
}

func (d diskFetcher) FetchFile(ctx context.Context, commit *core.Commit, path string) ([]byte, error) {
	name := filepath.Join(d.root, fmt.Sprint(commit.Repository.ID), commit.Sha, filepath.Clean("/"+path))
	content, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.ErrContentFetch(err.Error())
	}
	return content, nil
}
