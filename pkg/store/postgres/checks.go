package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCheckSet(row rowScanner) (*core.CheckSet, error) {
	var (
		cs         core.CheckSet
		status     string
		jobID      sql.NullString
		errorKind  sql.NullString
		errorExtra sql.NullString
	)
	if err := row.Scan(&cs.ID, &cs.CommitID, &status, &jobID, &cs.Canceling, &errorKind, &errorExtra, &cs.UpdatedAt); err != nil {
		return nil, err
	}
	cs.Status = core.CheckSetStatus(status)
	cs.JobID = jobID.String
	cs.ErrorKind = errorKind.String
	cs.ErrorExtra = errorExtra.String
	return &cs, nil
}

func scanCheck(row rowScanner) (*core.Check, error) {
	var (
		c           core.Check
		status      string
		startedAt   sql.NullTime
		finishedAt  sql.NullTime
		errorOutput sql.NullString
	)
	if err := row.Scan(&c.ID, &c.CheckSetID, &c.PluginName, &c.Plugin, &status, &startedAt, &finishedAt, &errorOutput); err != nil {
		return nil, err
	}
	c.Status = core.CheckStatus(status)
	c.StartedAt = timePtr(startedAt)
	c.FinishedAt = timePtr(finishedAt)
	c.ErrorOutput = errorOutput.String
	return &c, nil
}

// FindOrCreateCheckSet returns the check set of the commit, creating a waiting one if absent.
func (s *Store) FindOrCreateCheckSet(ctx context.Context, commitID int64) (*core.CheckSet, error) {
	cs, err := scanCheckSet(s.db.QueryRowContext(ctx, findOrCreateCheckSetQuery,
		commitID, string(core.CheckSetWaiting), s.now()))
	if err != nil {
		return nil, errs.ErrStore(fmt.Sprintf("FindOrCreateCheckSet: %v", err))
	}
	return cs, nil
}

// FindCheckSet returns the check set of the commit.
func (s *Store) FindCheckSet(ctx context.Context, commitID int64) (*core.CheckSet, error) {
	cs, err := scanCheckSet(s.db.QueryRowContext(ctx, findCheckSetQuery, commitID))
	if err != nil {
		return nil, notFound(err, errs.ErrCheckSetNotFound, "FindCheckSet")
	}
	return cs, nil
}

// UpdateCheckSet writes every mutable column of the check set.
func (s *Store) UpdateCheckSet(ctx context.Context, cs *core.CheckSet) error {
	cs.UpdatedAt = s.now()
	res, err := s.db.ExecContext(ctx, updateCheckSetQuery,
		cs.ID, string(cs.Status), nullString(cs.JobID), cs.Canceling,
		nullString(cs.ErrorKind), nullString(cs.ErrorExtra), cs.UpdatedAt)
	if err != nil {
		return errs.ErrStore(fmt.Sprintf("UpdateCheckSet: %v", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrCheckSetNotFound
	}
	return nil
}

// DeleteChecks removes the checks of a check set together with their issues.
func (s *Store) DeleteChecks(ctx context.Context, checkSetID int64) error {
	return s.inTx(ctx, "DeleteChecks", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteIssuesQuery, checkSetID); err != nil {
			return errs.ErrStore(fmt.Sprintf("DeleteChecks: issues: %v", err))
		}
		if _, err := tx.ExecContext(ctx, deleteChecksQuery, checkSetID); err != nil {
			return errs.ErrStore(fmt.Sprintf("DeleteChecks: %v", err))
		}
		return nil
	})
}

// CreateChecks inserts checks in one transaction and fills in their ids.
func (s *Store) CreateChecks(ctx context.Context, checks []*core.Check) error {
	if len(checks) == 0 {
		return nil
	}
	return s.inTx(ctx, "CreateChecks", func(tx *sql.Tx) error {
		for _, c := range checks {
			err := tx.QueryRowContext(ctx, insertCheckQuery,
				c.CheckSetID, c.PluginName, c.Plugin, string(c.Status),
				nullTime(c.StartedAt), nullTime(c.FinishedAt), nullString(c.ErrorOutput)).Scan(&c.ID)
			if err != nil {
				return errs.ErrStore(fmt.Sprintf("CreateChecks: %s: %v", c.PluginName, err))
			}
		}
		return nil
	})
}

// ListChecks returns the checks of a check set in creation order.
func (s *Store) ListChecks(ctx context.Context, checkSetID int64) ([]*core.Check, error) {
	rows, err := s.db.QueryContext(ctx, listChecksQuery, checkSetID)
	if err != nil {
		return nil, errs.ErrStore(fmt.Sprintf("ListChecks: %v", err))
	}
	defer rows.Close()

	checks := []*core.Check{}
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, errs.ErrStore(fmt.Sprintf("ListChecks: %v", err))
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ErrStore(fmt.Sprintf("ListChecks: %v", err))
	}
	return checks, nil
}

// FindCheck returns a check by its normalized plugin name.
func (s *Store) FindCheck(ctx context.Context, checkSetID int64, pluginName string) (*core.Check, error) {
	c, err := scanCheck(s.db.QueryRowContext(ctx, findCheckQuery, checkSetID, pluginName))
	if err != nil {
		return nil, notFound(err, errs.ErrNotFound, "FindCheck")
	}
	return c, nil
}

// UpdateCheck writes the status columns of one check.
func (s *Store) UpdateCheck(ctx context.Context, c *core.Check) error {
	res, err := s.db.ExecContext(ctx, updateCheckQuery,
		c.ID, string(c.Status), nullTime(c.StartedAt), nullTime(c.FinishedAt), nullString(c.ErrorOutput))
	if err != nil {
		return errs.ErrStore(fmt.Sprintf("UpdateCheck: %v", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// CountIssues counts the issues of every check in the check set.
func (s *Store) CountIssues(ctx context.Context, checkSetID int64) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, countIssuesQuery, checkSetID).Scan(&n); err != nil {
		return 0, errs.ErrStore(fmt.Sprintf("CountIssues: %v", err))
	}
	return n, nil
}
