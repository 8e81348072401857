package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LazyCreationConverges(t *testing.T) {
	registry := NewRegistry()

	subscriberView := registry.Get("job-1")
	submitted, err := registry.Claim("job-1")
	require.NoError(t, err)

	assert.Same(t, subscriberView, submitted)
	assert.Equal(t, 1, registry.Len())
	assert.Equal(t, StageInit, subscriberView.Snapshot().Stage)
}

func TestRegistry_ClaimOnce(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Claim("job-1")
	require.NoError(t, err)

	_, err = registry.Claim("job-1")
	assert.True(t, errors.Is(err, ErrJobExists))
}

func TestRegistry_ResultRetrievedAtMostOnce(t *testing.T) {
	registry := NewRegistry()
	job := registry.Get("job-1")

	_, err := registry.TakeResult("job-1")
	assert.True(t, errors.Is(err, ErrNotReady), "before completion")

	job.Processing(1)
	job.RowDone(1)
	job.Packaging()
	job.Finish([]byte("zip"))

	archive, err := registry.TakeResult("job-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("zip"), archive)

	_, err = registry.TakeResult("job-1")
	assert.True(t, errors.Is(err, ErrNotReady), "second fetch")

	_, err = registry.TakeResult("unknown")
	assert.True(t, errors.Is(err, ErrNotReady))
}

func TestJob_SnapshotPercent(t *testing.T) {
	job := newJob("j", time.Now())
	assert.Equal(t, 0, job.Snapshot().Percent)

	job.Processing(3)
	job.RowDone(1)
	assert.Equal(t, 33, job.Snapshot().Percent)

	job.RowFailed(2, errors.New("missing"))
	snap := job.Snapshot()
	assert.Equal(t, 66, snap.Percent)
	assert.Equal(t, 2, snap.Processed)
	assert.Equal(t, 1, snap.ErrorCount)
	assert.Equal(t, "Processed 2 of 3", snap.Message)
}

func TestJob_StagesNeverRegress(t *testing.T) {
	job := newJob("j", time.Now())

	job.Processing(2)
	job.Uploading()
	assert.Equal(t, StageProcessing, job.Snapshot().Stage)

	job.Processing(10)
	assert.Equal(t, 2, job.Snapshot().Total)

	job.Fail(errors.New("boom"))
	job.Finish([]byte("late"))
	job.RowDone(1)

	snap := job.Snapshot()
	assert.Equal(t, StageError, snap.Stage)
	assert.Equal(t, "boom", snap.Message)
	assert.Equal(t, 0, snap.Processed)

	_, err := job.Take()
	assert.True(t, errors.Is(err, ErrNotReady))

	select {
	case <-job.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestJob_SubscriberSeesMonotonicProgress(t *testing.T) {
	job := newJob("j", time.Now())
	notify, cancel := job.Subscribe()
	defer cancel()

	var observed []Snapshot
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range notify {
			snap := job.Snapshot()
			observed = append(observed, snap)
			if snap.Stage.Terminal() {
				return
			}
		}
	}()

	job.Uploading()
	job.Processing(50)
	for i := 1; i <= 50; i++ {
		if i%7 == 0 {
			job.RowFailed(i, errors.New("row"))
			continue
		}
		job.RowDone(i)
	}
	job.Packaging()
	job.Finish([]byte("zip"))
	wg.Wait()

	require.NotEmpty(t, observed)
	for i := 1; i < len(observed); i++ {
		assert.GreaterOrEqual(t, observed[i].Processed, observed[i-1].Processed)
		assert.GreaterOrEqual(t, observed[i].Stage, observed[i-1].Stage)
	}

	last := observed[len(observed)-1]
	assert.Equal(t, StageDone, last.Stage)
	assert.Equal(t, 100, last.Percent)
	assert.Equal(t, 7, last.ErrorCount)
}

func TestJob_GoRecoversPanics(t *testing.T) {
	job := newJob("j", time.Now())

	job.Go(context.Background(), func(context.Context, *Job) error {
		panic("exploded")
	})

	select {
	case <-job.Done():
	case <-time.After(time.Second):
		t.Fatal("job did not reach a terminal stage")
	}

	snap := job.Snapshot()
	assert.Equal(t, StageError, snap.Stage)
	assert.Contains(t, snap.Message, "exploded")
}

func TestJob_GoReportsErrors(t *testing.T) {
	job := newJob("j", time.Now())

	job.Go(context.Background(), func(_ context.Context, j *Job) error {
		j.Uploading()
		return errors.New("no data rows")
	})

	<-job.Done()
	assert.Equal(t, "no data rows", job.Snapshot().Message)
}

func TestStageJSON(t *testing.T) {
	data, err := json.Marshal(Snapshot{Total: 4, Processed: 1, Percent: 25, Stage: StageZipping})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":4,"processed":1,"percent":25,"stage":"zipping","message":"","error_count":0}`, string(data))

	var stage Stage
	require.NoError(t, json.Unmarshal([]byte(`"done"`), &stage))
	assert.Equal(t, StageDone, stage)
	assert.Error(t, json.Unmarshal([]byte(`"paused"`), &stage))
}
