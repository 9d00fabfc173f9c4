package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
)

// ResetCoverageInfo replaces the aggregate of the commit with a new updating one.
// Files of the old aggregate go with it through the cascade.
func (s *Store) ResetCoverageInfo(ctx context.Context, commitID int64) (*core.CoverageInfo, error) {
	info := &core.CoverageInfo{CommitID: commitID, Status: core.CoverageUpdating}
	err := s.inTx(ctx, "ResetCoverageInfo", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteCoverageInfoQuery, commitID); err != nil {
			return errs.ErrStore(fmt.Sprintf("ResetCoverageInfo: delete: %v", err))
		}
		if err := tx.QueryRowContext(ctx, insertCoverageInfoQuery, commitID, string(info.Status)).Scan(&info.ID); err != nil {
			return errs.ErrStore(fmt.Sprintf("ResetCoverageInfo: insert: %v", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// FindCoverageInfo returns the aggregate of the commit.
func (s *Store) FindCoverageInfo(ctx context.Context, commitID int64) (*core.CoverageInfo, error) {
	var (
		info   core.CoverageInfo
		status string
	)
	err := s.db.QueryRowContext(ctx, findCoverageInfoQuery, commitID).Scan(
		&info.ID, &info.CommitID, &status, &info.LinesTotal, &info.LinesCovered, &info.PercentCovered)
	if err != nil {
		return nil, notFound(err, errs.ErrNotFound, "FindCoverageInfo")
	}
	info.Status = core.CoverageStatus(status)
	return &info, nil
}

// UpdateCoverageInfo writes status and totals of the aggregate.
func (s *Store) UpdateCoverageInfo(ctx context.Context, info *core.CoverageInfo) error {
	res, err := s.db.ExecContext(ctx, updateCoverageInfoQuery,
		info.ID, string(info.Status), info.LinesTotal, info.LinesCovered, info.PercentCovered)
	if err != nil {
		return errs.ErrStore(fmt.Sprintf("UpdateCoverageInfo: %v", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// CreateCoverageFiles inserts per file rows in one transaction.
func (s *Store) CreateCoverageFiles(ctx context.Context, files []*core.CoverageFile) error {
	if len(files) == 0 {
		return nil
	}
	return s.inTx(ctx, "CreateCoverageFiles", func(tx *sql.Tx) error {
		for _, f := range files {
			err := tx.QueryRowContext(ctx, insertCoverageFileQuery,
				f.CoverageInfoID, f.Path, f.LinesTotal, f.LinesCovered, f.LinesMissed, f.PercentCovered, f.Data).Scan(&f.ID)
			if err != nil {
				return errs.ErrStore(fmt.Sprintf("CreateCoverageFiles: %s: %v", f.Path, err))
			}
		}
		return nil
	})
}

// FindCoverageFile returns the row of one path.
func (s *Store) FindCoverageFile(ctx context.Context, coverageInfoID int64, path string) (*core.CoverageFile, error) {
	var f core.CoverageFile
	err := s.db.QueryRowContext(ctx, findCoverageFileQuery, coverageInfoID, path).Scan(
		&f.ID, &f.CoverageInfoID, &f.Path, &f.LinesTotal, &f.LinesCovered, &f.LinesMissed, &f.PercentCovered, &f.Data)
	if err != nil {
		return nil, notFound(err, errs.ErrNotFound, "FindCoverageFile")
	}
	return &f, nil
}
