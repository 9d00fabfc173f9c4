// Package postgres implements core.Store and core.Locker on PostgreSQL through
// the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/LambdaTest/neuron/config"
	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/LambdaTest/neuron/pkg/lumber"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const connMaxLifetime = 30 * time.Minute

//go:embed schema.sql
var schema string

// Store is a core.Store over a *sql.DB.
type Store struct {
	db     *sql.DB
	logger lumber.Logger
	now    func() time.Time
}

var _ core.Store = (*Store)(nil)

// New opens a connection pool to the database and verifies it answers.
func New(ctx context.Context, cfg config.DB, logger lumber.Logger) (*Store, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewWithDB(db, logger), nil
}

// NewWithDB wraps an already opened database.
func NewWithDB(db *sql.DB, logger lumber.Logger) *Store {
	return &Store{db: db, logger: logger, now: time.Now}
}

// Migrate creates the tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errs.ErrStore(fmt.Sprintf("migrate: %v", err))
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying pool, shared with the Locker.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) inTx(ctx context.Context, name string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.ErrStore(fmt.Sprintf("%s: begin: %v", name, err))
	}
	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			s.logger.Errorf("%s: unable to rollback: %v", name, rollbackErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.ErrStore(fmt.Sprintf("%s: commit: %v", name, err))
	}
	return nil
}

// notFound maps sql.ErrNoRows onto the given sentinel and wraps other errors.
func notFound(err error, sentinel error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return errs.ErrStore(fmt.Sprintf("%s: %v", op, err))
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// FindCommit returns the commit of a repository by sha.
func (s *Store) FindCommit(ctx context.Context, repoID int64, sha string) (*core.Commit, error) {
	var (
		c         core.Commit
		threshold sql.NullFloat64
		condensed sql.NullString
	)
	err := s.db.QueryRowContext(ctx, findCommitQuery, repoID, sha).Scan(
		&c.ID, &c.Sha, &threshold, &condensed, &c.Repository.ID, &c.Repository.Org, &c.Repository.Name)
	if err != nil {
		return nil, notFound(err, errs.ErrNotFound, "FindCommit")
	}
	if threshold.Valid {
		v := threshold.Float64
		c.CoverageThreshold = &v
	}
	c.CondensedStatus = core.CondensedStatus(condensed.String)
	return &c, nil
}

// UpdateCommitThreshold persists the coverage threshold declared by the manifest.
func (s *Store) UpdateCommitThreshold(ctx context.Context, commitID int64, threshold *float64) error {
	if _, err := s.db.ExecContext(ctx, updateCommitThresholdQuery, commitID, nullFloat(threshold)); err != nil {
		return errs.ErrStore(fmt.Sprintf("UpdateCommitThreshold: %v", err))
	}
	return nil
}

// UpdateCommitCondensedStatus persists the condensed status.
func (s *Store) UpdateCommitCondensedStatus(ctx context.Context, commitID int64, status core.CondensedStatus) error {
	if _, err := s.db.ExecContext(ctx, updateCommitCondensedStatusQuery, commitID, string(status)); err != nil {
		return errs.ErrStore(fmt.Sprintf("UpdateCommitCondensedStatus: %v", err))
	}
	return nil
}

// BranchesWithHead returns every branch whose head is the commit.
func (s *Store) BranchesWithHead(ctx context.Context, commitID int64) ([]*core.Branch, error) {
	rows, err := s.db.QueryContext(ctx, branchesWithHeadQuery, commitID)
	if err != nil {
		return nil, errs.ErrStore(fmt.Sprintf("BranchesWithHead: %v", err))
	}
	defer rows.Close()

	var branches []*core.Branch
	for rows.Next() {
		b := new(core.Branch)
		if err := rows.Scan(&b.ID, &b.RepoID, &b.Name, &b.HeadCommitID); err != nil {
			return nil, errs.ErrStore(fmt.Sprintf("BranchesWithHead: %v", err))
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ErrStore(fmt.Sprintf("BranchesWithHead: %v", err))
	}
	return branches, nil
}

// RecordHistory upserts history entries in one transaction, one row per branch, commit and kind.
func (s *Store) RecordHistory(ctx context.Context, entries []*core.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.inTx(ctx, "RecordHistory", func(tx *sql.Tx) error {
		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, insertHistoryQuery,
				e.BranchID, e.CommitID, string(e.Kind), e.Value, e.RecordedAt); err != nil {
				return errs.ErrStore(fmt.Sprintf("RecordHistory: %v", err))
			}
		}
		return nil
	})
}
