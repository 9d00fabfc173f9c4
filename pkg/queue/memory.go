package queue

import (
	"context"
	"sync"

	"github.com/LambdaTest/neuron/pkg/core"
	"github.com/LambdaTest/neuron/pkg/lumber"
)

// Memory is a core.WorkQueue that keeps jobs in process. It backs local mode.
type Memory struct {
	mu     sync.Mutex
	jobs   []*core.Job
	logger lumber.Logger
}

// NewMemory returns an empty in-process queue.
func NewMemory(logger lumber.Logger) *Memory {
	return &Memory{logger: logger}
}

// Enqueue records the job.
func (m *Memory) Enqueue(ctx context.Context, job *core.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	m.logger.Debugf("queued job %s for %s/%s@%s", job.JobID, job.Org, job.Repo, job.Sha)
	return nil
}

// Jobs returns the jobs enqueued so far.
func (m *Memory) Jobs() []*core.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*core.Job, len(m.jobs))
	copy(out, m.jobs)
	return out
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
