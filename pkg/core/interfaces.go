package core

import (
	"context"
	"time"

	"github.com/LambdaTest/neuron/pkg/covdata"
)

// CommitStore gives access to commits and branch heads
type CommitStore interface {
	// FindCommit returns the commit of a repository by sha, errs.ErrNotFound if unknown.
	FindCommit(ctx context.Context, repoID int64, sha string) (*Commit, error)
	// UpdateCommitThreshold persists the coverage threshold declared by the manifest.
	UpdateCommitThreshold(ctx context.Context, commitID int64, threshold *float64) error
	// UpdateCommitCondensedStatus persists the condensed status of the commit.
	UpdateCommitCondensedStatus(ctx context.Context, commitID int64, status CondensedStatus) error
	// BranchesWithHead returns every branch whose current head is the commit.
	BranchesWithHead(ctx context.Context, commitID int64) ([]*Branch, error)
}

// CheckStore persists check sets, checks and their issues
type CheckStore interface {
	// FindOrCreateCheckSet returns the check set of the commit, creating a waiting one if absent.
	FindOrCreateCheckSet(ctx context.Context, commitID int64) (*CheckSet, error)
	// FindCheckSet returns the check set of the commit, errs.ErrCheckSetNotFound if absent.
	FindCheckSet(ctx context.Context, commitID int64) (*CheckSet, error)
	UpdateCheckSet(ctx context.Context, checkSet *CheckSet) error
	// DeleteChecks removes every check of the check set together with their issues.
	DeleteChecks(ctx context.Context, checkSetID int64) error
	CreateChecks(ctx context.Context, checks []*Check) error
	ListChecks(ctx context.Context, checkSetID int64) ([]*Check, error)
	// FindCheck returns a check by its normalized plugin name, errs.ErrNotFound if absent.
	FindCheck(ctx context.Context, checkSetID int64, pluginName string) (*Check, error)
	UpdateCheck(ctx context.Context, check *Check) error
	CountIssues(ctx context.Context, checkSetID int64) (int64, error)
}

// CoverageStore persists coverage aggregates and per file rows
type CoverageStore interface {
	// ResetCoverageInfo creates the aggregate of the commit or resets an existing one,
	// discarding its files. The returned aggregate is updating.
	ResetCoverageInfo(ctx context.Context, commitID int64) (*CoverageInfo, error)
	// FindCoverageInfo returns errs.ErrNotFound when the commit has no coverage yet.
	FindCoverageInfo(ctx context.Context, commitID int64) (*CoverageInfo, error)
	UpdateCoverageInfo(ctx context.Context, info *CoverageInfo) error
	CreateCoverageFiles(ctx context.Context, files []*CoverageFile) error
	// FindCoverageFile returns errs.ErrNotFound when the path was not ingested.
	FindCoverageFile(ctx context.Context, coverageInfoID int64, path string) (*CoverageFile, error)
}

// HistoryStore records branch metric series
type HistoryStore interface {
	RecordHistory(ctx context.Context, entries []*HistoryEntry) error
}

// Store is the full relational store used by the services
type Store interface {
	CommitStore
	CheckStore
	CoverageStore
	HistoryStore
	// Close releases the underlying connections.
	Close() error
}

// Lease is a held lock. Release is safe to call more than once.
type Lease interface {
	Key() string
	Release(ctx context.Context) error
}

// Locker hands out time bounded exclusive leases
type Locker interface {
	// Acquire returns errs.ErrLockBusy when another owner holds an unexpired lease on key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// LeaseSweeper removes expired leases
type LeaseSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// ContentFetcher reads files of a commit from the source host
type ContentFetcher interface {
	// FetchFile returns errs.ErrNotFound when the file does not exist at the commit.
	FetchFile(ctx context.Context, commit *Commit, path string) ([]byte, error)
}

// ManifestParser parses the manifest file
type ManifestParser interface {
	// Parse returns an *errs.InvalidManifestError for any syntax or rule violation.
	Parse(content []byte) (*Manifest, error)
}

// WorkQueue is the outbound queue consumed by check runners
type WorkQueue interface {
	Enqueue(ctx context.Context, job *Job) error
	Close() error
}

// StatusSink is the external commit status display
type StatusSink interface {
	Report(ctx context.Context, commit *Commit, status *CommitStatus) error
}

// StatusReporter reports check and coverage outcomes of a commit
type StatusReporter interface {
	// Report sends one status under the given context.
	Report(ctx context.Context, commit *Commit, state StatusState, statusContext, description string) error
	// ReportSummary computes, persists and reports the condensed status of the commit.
	ReportSummary(ctx context.Context, commit *Commit) (CondensedStatus, error)
}

// CheckRunService drives the check set state machine of commits
type CheckRunService interface {
	// Run fetches the manifest, creates the checks and enqueues one job.
	Run(ctx context.Context, repoID int64, sha string) error
	// Reset returns the check set to waiting, destroying its checks and issues.
	Reset(ctx context.Context, repoID int64, sha string) (*CheckSet, error)
	// Pickup marks a queued check set as processing.
	Pickup(ctx context.Context, repoID int64, sha string) (*CheckSet, error)
	// Cancel raises the advisory canceling flag workers poll for.
	Cancel(ctx context.Context, repoID int64, sha string) (*CheckSet, error)
	// ApplyStatusPatch updates one check from a worker callback.
	ApplyStatusPatch(ctx context.Context, repoID int64, sha, pluginName string, patch *StatusPatch) (*Check, error)
	// WrapUp finalizes the check set once every check is done.
	WrapUp(ctx context.Context, repoID int64, sha string) (*CheckSet, error)
}

// CoverageService ingests coverage reports
type CoverageService interface {
	// Ingest decodes and stores the payload of every file and reports the result.
	Ingest(ctx context.Context, repoID int64, sha string, files map[string][]byte) (*CoverageInfo, error)
	// Blocks renders the retained payload of one file as line blocks.
	Blocks(ctx context.Context, repoID int64, sha, path string) ([]covdata.Block, error)
}
