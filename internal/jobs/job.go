// Package jobs tracks batch generation jobs: their stage, progress
// subscribers and the one-time archive result.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrJobExists = errors.New("job already started")
	ErrNotReady  = errors.New("result not ready")
)

// Job is one batch request's state. Only the task driving the job mutates
// it; any number of subscribers may read.
type Job struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	claimed     bool
	total       int
	processed   int
	errorCount  int
	stage       Stage
	message     string
	result      []byte
	subscribers map[chan struct{}]struct{}
	done        chan struct{}
}

func newJob(id string, now time.Time) *Job {
	return &Job{
		ID:          id,
		CreatedAt:   now,
		message:     "Waiting for upload",
		subscribers: make(map[chan struct{}]struct{}),
		done:        make(chan struct{}),
	}
}

// Snapshot returns the current progress.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.snapshotLocked()
}

func (j *Job) snapshotLocked() Snapshot {
	percent := 0
	if j.total > 0 {
		percent = j.processed * 100 / j.total
	}
	return Snapshot{
		Total:      j.total,
		Processed:  j.processed,
		Percent:    percent,
		Stage:      j.stage,
		Message:    j.message,
		ErrorCount: j.errorCount,
	}
}

// Subscribe returns a channel that receives a signal after every change.
// Signals coalesce, so readers take Snapshot on each one and never see
// progress go backwards. The terminal state is always signalled.
func (j *Job) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}

	j.mu.Lock()
	j.subscribers[ch] = struct{}{}
	j.mu.Unlock()

	return ch, func() {
		j.mu.Lock()
		delete(j.subscribers, ch)
		j.mu.Unlock()
	}
}

// Done is closed once the job reaches Done or Error.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) notifyLocked() {
	for ch := range j.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// update applies fn unless the job is terminal, then notifies.
func (j *Job) update(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stage.Terminal() {
		return
	}
	fn()
	if j.stage.Terminal() {
		close(j.done)
	}
	j.notifyLocked()
}

func (j *Job) advanceLocked(stage Stage, message string) {
	if stage > j.stage {
		j.stage = stage
		j.message = message
	}
}

// Uploading marks the upload as being read.
func (j *Job) Uploading() {
	j.update(func() { j.advanceLocked(StageUploading, "Reading file") })
}

// Processing starts row rendering for total rows.
func (j *Job) Processing(total int) {
	j.update(func() {
		if j.stage < StageProcessing {
			j.total = total
		}
		j.advanceLocked(StageProcessing, "Generating certificates")
	})
}

// RowDone counts a rendered row.
func (j *Job) RowDone(int) {
	j.update(j.rowFinishedLocked)
}

// RowFailed counts a skipped or failed row.
func (j *Job) RowFailed(int, error) {
	j.update(func() {
		j.errorCount++
		j.rowFinishedLocked()
	})
}

func (j *Job) rowFinishedLocked() {
	if j.processed < j.total {
		j.processed++
	}
	j.message = fmt.Sprintf("Processed %d of %d", j.processed, j.total)
}

// Packaging moves the job to Zipping.
func (j *Job) Packaging() {
	j.update(func() { j.advanceLocked(StageZipping, "Packing archive") })
}

// Finish stores the archive for one retrieval and marks the job Done.
func (j *Job) Finish(archive []byte) {
	j.update(func() {
		j.result = archive
		j.processed = j.total
		j.stage = StageDone
		j.message = "Done"
	})
}

// Fail moves the job to Error with err as the visible message.
func (j *Job) Fail(err error) {
	j.update(func() {
		j.stage = StageError
		j.message = err.Error()
	})
}

// Take returns the archive once; later calls and calls before Done report
// ErrNotReady.
func (j *Job) Take() ([]byte, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil {
		return nil, ErrNotReady
	}
	result := j.result
	j.result = nil
	return result, nil
}

func (j *Job) claim() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.claimed || j.stage != StageInit {
		return ErrJobExists
	}
	j.claimed = true
	return nil
}

// Go runs task in the background. A returned error or a panic moves the job
// to Error so subscribers always see a terminal state.
func (j *Job) Go(ctx context.Context, task func(ctx context.Context, job *Job) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Job task panicked", "job_id", j.ID, "panic", r)
				j.Fail(fmt.Errorf("internal error: %v", r))
			}
		}()

		if err := task(ctx, j); err != nil {
			j.Fail(err)
		}
	}()
}
