// Package memory implements core.Store and core.Locker in process memory.
// It backs the --local mode and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/errs"
)

// Store is a core.Store kept in maps guarded by one mutex.
type Store struct {
	mu sync.Mutex

	nextID        int64
	commits       map[int64]*core.Commit
	branches      map[int64]*core.Branch
	checkSets     map[int64]*core.CheckSet // by commit id
	checks        map[int64][]*core.Check  // by check set id
	issues        map[int64]int64          // by check id
	coverageInfos map[int64]*core.CoverageInfo
	coverageFiles map[int64][]*core.CoverageFile // by coverage info id
	history       []*core.HistoryEntry
	now           func() time.Time
}

var _ core.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		commits:       make(map[int64]*core.Commit),
		branches:      make(map[int64]*core.Branch),
		checkSets:     make(map[int64]*core.CheckSet),
		checks:        make(map[int64][]*core.Check),
		issues:        make(map[int64]int64),
		coverageInfos: make(map[int64]*core.CoverageInfo),
		coverageFiles: make(map[int64][]*core.CoverageFile),
		now:           time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddCommit registers a commit and returns a copy of it.
func (s *Store) AddCommit(repo core.Repository, sha string) *core.Commit {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &core.Commit{ID: s.id(), Sha: sha, Repository: repo}
	s.commits[c.ID] = c
	cp := *c
	return &cp
}

// AddBranch registers a branch whose head is commitID.
func (s *Store) AddBranch(repoID int64, name string, commitID int64) *core.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &core.Branch{ID: s.id(), RepoID: repoID, Name: name, HeadCommitID: commitID}
	s.branches[b.ID] = b
	cp := *b
	return &cp
}

// AddIssues records n issues against a check.
func (s *Store) AddIssues(checkID, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues[checkID] += n
}

// History returns a copy of every recorded history entry.
func (s *Store) History() []core.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.HistoryEntry, 0, len(s.history))
	for _, h := range s.history {
		out = append(out, *h)
	}
	return out
}

// FindCommit returns the commit of a repository by sha.
func (s *Store) FindCommit(ctx context.Context, repoID int64, sha string) (*core.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.commits {
		if c.Repository.ID == repoID && c.Sha == sha {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

// UpdateCommitThreshold persists the coverage threshold.
func (s *Store) UpdateCommitThreshold(ctx context.Context, commitID int64, threshold *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commits[commitID]
	if !ok {
		return errs.ErrNotFound
	}
	if threshold == nil {
		c.CoverageThreshold = nil
		return nil
	}
	v := *threshold
	c.CoverageThreshold = &v
	return nil
}

// UpdateCommitCondensedStatus persists the condensed status.
func (s *Store) UpdateCommitCondensedStatus(ctx context.Context, commitID int64, status core.CondensedStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commits[commitID]
	if !ok {
		return errs.ErrNotFound
	}
	c.CondensedStatus = status
	return nil
}

// BranchesWithHead returns the branches whose head is commitID, ordered by id.
func (s *Store) BranchesWithHead(ctx context.Context, commitID int64) ([]*core.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*core.Branch
	for _, b := range s.branches {
		if b.HeadCommitID == commitID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindOrCreateCheckSet returns the check set of the commit, creating a waiting one.
func (s *Store) FindOrCreateCheckSet(ctx context.Context, commitID int64) (*core.CheckSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.commits[commitID]; !ok {
		return nil, errs.ErrNotFound
	}
	cs, ok := s.checkSets[commitID]
	if !ok {
		cs = &core.CheckSet{ID: s.id(), CommitID: commitID, Status: core.CheckSetWaiting, UpdatedAt: s.now()}
		s.checkSets[commitID] = cs
	}
	cp := *cs
	return &cp, nil
}

// FindCheckSet returns the check set of the commit.
func (s *Store) FindCheckSet(ctx context.Context, commitID int64) (*core.CheckSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.checkSets[commitID]
	if !ok {
		return nil, errs.ErrCheckSetNotFound
	}
	cp := *cs
	return &cp, nil
}

// UpdateCheckSet overwrites the stored check set.
func (s *Store) UpdateCheckSet(ctx context.Context, checkSet *core.CheckSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checkSets[checkSet.CommitID]; !ok {
		return errs.ErrCheckSetNotFound
	}
	cp := *checkSet
	cp.UpdatedAt = s.now()
	s.checkSets[checkSet.CommitID] = &cp
	checkSet.UpdatedAt = cp.UpdatedAt
	return nil
}

// DeleteChecks removes the checks of a check set and their issues.
func (s *Store) DeleteChecks(ctx context.Context, checkSetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.checks[checkSetID] {
		delete(s.issues, c.ID)
	}
	delete(s.checks, checkSetID)
	return nil
}

// CreateChecks inserts checks, rejecting a plugin name already present in the check set.
func (s *Store) CreateChecks(ctx context.Context, checks []*core.Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range checks {
		for _, existing := range s.checks[c.CheckSetID] {
			if existing.PluginName == c.PluginName {
				return errs.ErrStore("duplicate check " + c.PluginName)
			}
		}
		c.ID = s.id()
		cp := *c
		s.checks[c.CheckSetID] = append(s.checks[c.CheckSetID], &cp)
	}
	return nil
}

// ListChecks returns the checks of a check set in creation order.
func (s *Store) ListChecks(ctx context.Context, checkSetID int64) ([]*core.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*core.Check, 0, len(s.checks[checkSetID]))
	for _, c := range s.checks[checkSetID] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// FindCheck returns a check by plugin name.
func (s *Store) FindCheck(ctx context.Context, checkSetID int64, pluginName string) (*core.Check, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.checks[checkSetID] {
		if c.PluginName == pluginName {
			cp := *c
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

// UpdateCheck overwrites the stored check.
func (s *Store) UpdateCheck(ctx context.Context, check *core.Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.checks[check.CheckSetID] {
		if c.ID == check.ID {
			cp := *check
			s.checks[check.CheckSetID][i] = &cp
			return nil
		}
	}
	return errs.ErrNotFound
}

// CountIssues sums the issues of every check in the check set.
func (s *Store) CountIssues(ctx context.Context, checkSetID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.checks[checkSetID] {
		n += s.issues[c.ID]
	}
	return n, nil
}

// ResetCoverageInfo creates or resets the coverage aggregate of the commit.
func (s *Store) ResetCoverageInfo(ctx context.Context, commitID int64) (*core.CoverageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.commits[commitID]; !ok {
		return nil, errs.ErrNotFound
	}
	if old, ok := s.coverageInfos[commitID]; ok {
		delete(s.coverageFiles, old.ID)
	}
	info := &core.CoverageInfo{ID: s.id(), CommitID: commitID, Status: core.CoverageUpdating}
	s.coverageInfos[commitID] = info
	cp := *info
	return &cp, nil
}

// FindCoverageInfo returns the coverage aggregate of the commit.
func (s *Store) FindCoverageInfo(ctx context.Context, commitID int64) (*core.CoverageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.coverageInfos[commitID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *info
	return &cp, nil
}

// UpdateCoverageInfo overwrites the stored aggregate.
func (s *Store) UpdateCoverageInfo(ctx context.Context, info *core.CoverageInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.coverageInfos[info.CommitID]
	if !ok || cur.ID != info.ID {
		return errs.ErrNotFound
	}
	cp := *info
	s.coverageInfos[info.CommitID] = &cp
	return nil
}

// CreateCoverageFiles inserts per file rows.
func (s *Store) CreateCoverageFiles(ctx context.Context, files []*core.CoverageFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range files {
		f.ID = s.id()
		cp := *f
		s.coverageFiles[f.CoverageInfoID] = append(s.coverageFiles[f.CoverageInfoID], &cp)
	}
	return nil
}

// FindCoverageFile returns the row of one path.
func (s *Store) FindCoverageFile(ctx context.Context, coverageInfoID int64, path string) (*core.CoverageFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.coverageFiles[coverageInfoID] {
		if f.Path == path {
			cp := *f
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

// RecordHistory stores history entries, replacing the entry of the same branch, commit and kind.
func (s *Store) RecordHistory(ctx context.Context, entries []*core.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		cp := *e
		replaced := false
		for i, h := range s.history {
			if h.BranchID == e.BranchID && h.CommitID == e.CommitID && h.Kind == e.Kind {
				s.history[i] = &cp
				replaced = true
				break
			}
		}
		if !replaced {
			s.history = append(s.history, &cp)
		}
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
