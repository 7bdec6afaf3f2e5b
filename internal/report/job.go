package report

import (
	"context"
	"sync"
	"time"
)

// Kind names the action a job performs.
type Kind string

const (
	KindExport  Kind = "export"
	KindShare   Kind = "share"
	KindRefresh Kind = "refresh"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is a handle to an asynchronous report action. The result becomes
// available once Done is closed.
type Job struct {
	ID        string
	Kind      Kind
	CreatedAt time.Time

	done chan struct{}

	mu         sync.Mutex
	status     JobStatus
	result     any
	err        error
	finishedAt time.Time
}

// JobSnapshot is a point-in-time view of a job, suitable for JSON responses.
type JobSnapshot struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Status     JobStatus `json:"status"`
	Result     any       `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

func newJob(id string, kind Kind, createdAt time.Time) *Job {
	return &Job{
		ID:        id,
		Kind:      kind,
		CreatedAt: createdAt,
		done:      make(chan struct{}),
		status:    JobPending,
	}
}

// Done is closed when the job finishes.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finishes or ctx is cancelled, and returns the
// job's result.
func (j *Job) Wait(ctx context.Context) (any, error) {
	select {
	case <-j.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.err
}

// Status returns the job's current state.
func (j *Job) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Snapshot returns a copy of the job's state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	s := JobSnapshot{
		ID:         j.ID,
		Kind:       j.Kind,
		Status:     j.status,
		Result:     j.result,
		CreatedAt:  j.CreatedAt,
		FinishedAt: j.finishedAt,
	}
	if j.err != nil {
		s.Error = j.err.Error()
	}
	return s
}

func (j *Job) finish(result any, err error, at time.Time) {
	j.mu.Lock()
	j.result = result
	j.err = err
	j.finishedAt = at
	if err != nil {
		j.status = JobFailed
	} else {
		j.status = JobSucceeded
	}
	j.mu.Unlock()
	close(j.done)
}
