// Package core defines the domain model of neuron and the contracts between
// its services, stores and external collaborators.
package core

import (
	"time"
)

// CheckSetStatus is the lifecycle status of a commit's check set.
type CheckSetStatus string

// CheckSet status values.
const (
	CheckSetWaiting       CheckSetStatus = "waiting"
	CheckSetQueued        CheckSetStatus = "queued"
	CheckSetProcessing    CheckSetStatus = "processing"
	CheckSetProcessed     CheckSetStatus = "processed"
	CheckSetErrored       CheckSetStatus = "errored"
	CheckSetNotConfigured CheckSetStatus = "not_configured"
)

// CheckStatus is the status of a single plugin run.
type CheckStatus string

// Check status values.
const (
	CheckWaiting   CheckStatus = "waiting"
	CheckRunning   CheckStatus = "running"
	CheckSucceeded CheckStatus = "succeeded"
	CheckErrored   CheckStatus = "errored"
)

// CoverageStatus is the lifecycle status of a commit's coverage aggregate.
type CoverageStatus string

// Coverage status values.
const (
	CoverageUpdating  CoverageStatus = "updating"
	CoverageProcessed CoverageStatus = "processed"
	CoverageErrored   CoverageStatus = "errored"
)

// CondensedStatus summarises checks and coverage of a commit.
type CondensedStatus string

// Condensed status values.
const (
	CondensedGreen  CondensedStatus = "green"
	CondensedYellow CondensedStatus = "yellow"
	CondensedRed    CondensedStatus = "red"
)

// StatusState is the state reported to the external status sink.
type StatusState string

// Status sink states.
const (
	StatePending StatusState = "pending"
	StateSuccess StatusState = "success"
	StateFailure StatusState = "failure"
	StateError   StatusState = "error"
)

// MountKind tells a worker how to expose a mounted secret.
type MountKind string

// Mount kinds.
const (
	MountFile MountKind = "file"
	MountEnv  MountKind = "env"
)

// HistoryKind identifies the metric recorded on a branch history entry.
type HistoryKind string

// History kinds.
const (
	HistoryCoverage HistoryKind = "coverage"
	HistoryIssues   HistoryKind = "issues"
)

// Repository is a tracked source repository.
type Repository struct {
	ID   int64  `json:"id"`
	Org  string `json:"org"`
	Name string `json:"name"`
}

// Commit is a single revision of a repository.
type Commit struct {
	ID                int64           `json:"id"`
	Sha               string          `json:"sha"`
	Repository        Repository      `json:"repository"`
	CoverageThreshold *float64        `json:"coverage_threshold,omitempty"`
	CondensedStatus   CondensedStatus `json:"condensed_status,omitempty"`
}

// Branch points at the commit that is currently its head.
type Branch struct {
	ID           int64  `json:"id"`
	RepoID       int64  `json:"repo_id"`
	Name         string `json:"name"`
	HeadCommitID int64  `json:"head_commit_id"`
}

// CheckSet groups all checks of one commit.
type CheckSet struct {
	ID         int64          `json:"id"`
	CommitID   int64          `json:"commit_id"`
	Status     CheckSetStatus `json:"status"`
	JobID      string         `json:"job_id,omitempty"`
	Canceling  bool           `json:"canceling"`
	ErrorKind  string         `json:"error_kind,omitempty"`
	ErrorExtra string         `json:"error_extra,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Check is one plugin's execution record against a commit.
type Check struct {
	ID          int64       `json:"id"`
	CheckSetID  int64       `json:"check_set_id"`
	PluginName  string      `json:"plugin_name"`
	Plugin      string      `json:"plugin"`
	Status      CheckStatus `json:"status"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty"`
	ErrorOutput string      `json:"error_output,omitempty"`
}

// CoverageInfo aggregates coverage of all files of a commit.
type CoverageInfo struct {
	ID             int64          `json:"id"`
	CommitID       int64          `json:"commit_id"`
	Status         CoverageStatus `json:"status"`
	LinesTotal     int64          `json:"lines_total"`
	LinesCovered   int64          `json:"lines_covered"`
	PercentCovered float64        `json:"percent_covered"`
}

// CoverageFile holds the statistics of one file and its raw encoded payload.
type CoverageFile struct {
	ID             int64   `json:"id"`
	CoverageInfoID int64   `json:"coverage_info_id"`
	Path           string  `json:"path"`
	LinesTotal     int64   `json:"lines_total"`
	LinesCovered   int64   `json:"lines_covered"`
	LinesMissed    int64   `json:"lines_missed"`
	PercentCovered float64 `json:"percent_covered"`
	Data           []byte  `json:"-"`
}

// HistoryEntry is one point of a branch metric series.
type HistoryEntry struct {
	BranchID   int64       `json:"branch_id"`
	CommitID   int64       `json:"commit_id"`
	Kind       HistoryKind `json:"kind"`
	Value      float64     `json:"value"`
	RecordedAt time.Time   `json:"recorded_at"`
}

// Job is the document pushed to the work queue, one per triggered check run.
type Job struct {
	JobID      string     `json:"job_id"`
	Org        string     `json:"org"`
	Repo       string     `json:"repo"`
	RepoID     int64      `json:"repo_id"`
	Sha        string     `json:"sha"`
	Checks     []JobCheck `json:"checks"`
	GitStorage GitStorage `json:"git_storage"`
}

// JobCheck describes a single plugin run inside a job.
type JobCheck struct {
	Plugin string            `json:"plugin"`
	Name   string            `json:"name"`
	Envs   map[string]string `json:"envs"`
	Mounts []JobMount        `json:"mounts"`
}

// JobMount is a secret a worker exposes to the plugin.
type JobMount struct {
	Source string    `json:"source"`
	Kind   MountKind `json:"kind"`
	Target string    `json:"target"`
}

// GitStorage tells a worker where the cloned content of a commit lives.
type GitStorage struct {
	Mode string `json:"mode"`
	Path string `json:"path"`
}

// Manifest represents the .tas.yml file
type Manifest struct {
	Version  string          `yaml:"version"`
	Coverage *CoverageConfig `yaml:"coverage"`
	Exclude  []string        `yaml:"exclude" validate:"dive,required"`
	Checks   []CheckConfig   `yaml:"checks" validate:"dive"`
}

// CoverageConfig represents the coverage section of the manifest.
type CoverageConfig struct {
	MinPercent *float64 `yaml:"min_percent" validate:"omitempty,gte=0,lte=100"`
}

// CheckConfig declares one plugin to run.
type CheckConfig struct {
	Plugin string            `yaml:"plugin" validate:"required"`
	Envs   map[string]string `yaml:"envs"`
	Mounts []Mount           `yaml:"mounts" validate:"dive"`
}

// Mount declares a secret exposed to a plugin.
type Mount struct {
	Source string    `yaml:"source" validate:"required"`
	Kind   MountKind `yaml:"kind" validate:"omitempty,oneof=file env"`
	Target string    `yaml:"target" validate:"required"`
}

// ManifestVersion reads only the version of a manifest.
type ManifestVersion struct {
	Version string `yaml:"version"`
}

// CommitStatus is one report sent to the status sink.
type CommitStatus struct {
	State       StatusState
	Context     string
	Description string
	TargetURL   string
}

// StatusPatch is a worker's partial update of one check.
type StatusPatch struct {
	Status      string  `json:"status" binding:"required"`
	ErrorOutput *string `json:"error_output"`
}
