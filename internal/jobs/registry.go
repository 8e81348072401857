package jobs

import (
	"sync"
	"time"
)

// Registry holds every job of the process. Entries are never evicted.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*Job
	now  func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job), now: time.Now}
}

// Get returns the job for id, creating it on first reference.
func (r *Registry) Get(id string) *Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		job = newJob(id, r.now())
		r.jobs[id] = job
	}
	return job
}

// Claim hands the job to a submitting request. Only a job still in Init
// that nobody claimed can be claimed.
func (r *Registry) Claim(id string) (*Job, error) {
	job := r.Get(id)
	if err := job.claim(); err != nil {
		return nil, err
	}
	return job, nil
}

// TakeResult returns the stored archive of id once.
func (r *Registry) TakeResult(id string) ([]byte, error) {
	r.mu.Lock()
	job, ok := r.jobs[id]
	r.mu.Unlock()

	if !ok {
		return nil, ErrNotReady
	}
	return job.Take()
}

// Len reports the number of known jobs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}
